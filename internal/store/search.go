package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/aql/internal/canonical"
	"github.com/roach88/aql/internal/compiler"
)

// Search runs a compiled SQLite row query and returns the matching entries.
// Parameters are bound by name; values are never interpolated.
func (s *Store) Search(ctx context.Context, q *compiler.Query) ([]Artifact, error) {
	if q == nil {
		return nil, fmt.Errorf("search: nil query")
	}
	rows, err := s.db.QueryContext(ctx, q.Text, namedArgs(q.Params)...)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var out []Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("search: scan: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	s.logger.Debug("search executed",
		zap.String("sql", q.Text),
		zap.Int("rows", len(out)),
	)
	return out, nil
}

// Count runs a compiled SQLite count query.
func (s *Store) Count(ctx context.Context, q *compiler.Query) (int64, error) {
	if q == nil {
		return 0, fmt.Errorf("count: nil query")
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, q.Text, namedArgs(q.Params)...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// namedArgs converts a parameter map to sql.Named arguments in key order.
func namedArgs(params map[string]any) []any {
	args := make([]any, 0, len(params))
	for _, name := range canonical.SortedKeys(params) {
		args = append(args, sql.Named(name, params[name]))
	}
	return args
}
