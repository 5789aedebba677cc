package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/aql/internal/canonical"
)

// ErrNotFound is returned when an entry does not exist.
var ErrNotFound = errors.New("artifact not found")

// Artifact is one indexed artifact entry.
type Artifact struct {
	ID              string            `yaml:"id,omitempty" json:"id"`
	StorageID       string            `yaml:"storage" json:"storage_id"`
	RepositoryID    string            `yaml:"repository" json:"repository_id"`
	Path            string            `yaml:"path" json:"path"`
	Layout          string            `yaml:"layout,omitempty" json:"layout,omitempty"`
	CoordinatesType string            `yaml:"-" json:"coordinates_type,omitempty"`
	Coordinates     map[string]string `yaml:"coordinates,omitempty" json:"coordinates,omitempty"`
	Version         string            `yaml:"version,omitempty" json:"version,omitempty"`
	Tags            []string          `yaml:"tags,omitempty" json:"tags"`
	SizeBytes       int64             `yaml:"size,omitempty" json:"size_bytes"`
	// LastUpdated is an ISO-8601 date or timestamp; queries compare its date.
	LastUpdated string `yaml:"last_updated,omitempty" json:"last_updated"`
	CreatedAt   string `yaml:"-" json:"created_at"`
}

func (a *Artifact) validate() error {
	var missing []string
	if strings.TrimSpace(a.StorageID) == "" {
		missing = append(missing, "storage")
	}
	if strings.TrimSpace(a.RepositoryID) == "" {
		missing = append(missing, "repository")
	}
	if strings.TrimSpace(a.Path) == "" {
		missing = append(missing, "path")
	}
	if len(missing) > 0 {
		return fmt.Errorf("artifact %q: missing %s", a.Path, strings.Join(missing, ", "))
	}
	return nil
}

// WriteArtifact inserts or updates an entry and returns its id.
// An existing (storage, repository, path) keeps its id.
//
// The layout is resolved to its coordinate type; an unknown layout is an
// error. Entries without coordinates are stored with NULL coordinates.
func (s *Store) WriteArtifact(ctx context.Context, a Artifact) (string, error) {
	if err := a.validate(); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}

	var coordType, coordJSON sql.NullString
	if a.Layout != "" {
		typ, err := s.locator.CoordinatesType(a.Layout)
		if err != nil {
			return "", fmt.Errorf("write artifact: %w", err)
		}
		coordType = sql.NullString{String: typ, Valid: true}
	}
	if a.Coordinates != nil {
		b, err := canonical.Marshal(a.Coordinates)
		if err != nil {
			return "", fmt.Errorf("write artifact: coordinates: %w", err)
		}
		coordJSON = sql.NullString{String: string(b), Valid: true}
	}
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := canonical.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("write artifact: tags: %w", err)
	}

	now := s.now().UTC()
	lastUpdated := a.LastUpdated
	if lastUpdated == "" {
		lastUpdated = now.Format(time.DateOnly)
	}
	id := a.ID
	if id == "" {
		id = s.newID()
	}

	var storedID string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO artifact_entries
		(id, storage_id, repository_id, path, layout, coordinates_type, coordinates, version, tags, size_bytes, last_updated, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(storage_id, repository_id, path) DO UPDATE SET
			layout = excluded.layout,
			coordinates_type = excluded.coordinates_type,
			coordinates = excluded.coordinates,
			version = excluded.version,
			tags = excluded.tags,
			size_bytes = excluded.size_bytes,
			last_updated = excluded.last_updated
		RETURNING id
	`,
		id,
		a.StorageID,
		a.RepositoryID,
		a.Path,
		a.Layout,
		coordType,
		coordJSON,
		nullIfEmpty(a.Version),
		string(tagsJSON),
		a.SizeBytes,
		lastUpdated,
		now.Format(time.RFC3339),
	).Scan(&storedID)
	if err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}

	s.logger.Debug("artifact written",
		zap.String("id", storedID),
		zap.String("repository", a.RepositoryID),
		zap.String("path", a.Path),
	)
	return storedID, nil
}

// GetArtifact reads one entry by id.
func (s *Store) GetArtifact(ctx context.Context, id string) (*Artifact, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM artifact_entries WHERE id = ?`, id)
	a, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get artifact %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact %q: %w", id, err)
	}
	return a, nil
}

// CountArtifacts returns the number of stored entries.
func (s *Store) CountArtifacts(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM artifact_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count artifacts: %w", err)
	}
	return n, nil
}

// columns must match querysql.Columns.
const columns = "id, storage_id, repository_id, path, layout, coordinates_type, coordinates, version, tags, size_bytes, last_updated, created_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanArtifact(row scanner) (*Artifact, error) {
	var (
		a                             Artifact
		coordType, coordJSON, version sql.NullString
		tagsJSON                      string
	)
	if err := row.Scan(
		&a.ID, &a.StorageID, &a.RepositoryID, &a.Path, &a.Layout,
		&coordType, &coordJSON, &version, &tagsJSON,
		&a.SizeBytes, &a.LastUpdated, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	a.CoordinatesType = coordType.String
	a.Version = version.String
	if coordJSON.Valid {
		if err := json.Unmarshal([]byte(coordJSON.String), &a.Coordinates); err != nil {
			return nil, fmt.Errorf("decode coordinates: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(tagsJSON), &a.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return &a, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
