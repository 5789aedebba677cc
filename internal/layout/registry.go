package layout

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// Locator resolves a layout identifier to the simple name of its
// coordinate type.
type Locator interface {
	CoordinatesType(layoutID string) (string, error)
}

// Definition describes one repository layout.
type Definition struct {
	ID              string   `json:"id"`
	CoordinatesType string   `json:"type"`
	Aliases         []string `json:"aliases,omitempty"`
	Coordinates     []string `json:"coordinates"`
}

// UnknownLayoutError is returned for identifiers the registry does not know.
type UnknownLayoutError struct {
	ID string
}

func (e *UnknownLayoutError) Error() string {
	return fmt.Sprintf("unknown layout %q", e.ID)
}

// Builtins returns the layouts every registry starts with.
func Builtins() []Definition {
	return []Definition{
		{
			ID:              "Maven 2",
			CoordinatesType: "MavenArtifactCoordinates",
			Aliases:         []string{"maven", "maven2"},
			Coordinates:     []string{"groupId", "artifactId", "version", "classifier", "extension"},
		},
		{
			ID:              "NuGet",
			CoordinatesType: "NugetArtifactCoordinates",
			Aliases:         []string{"nuget"},
			Coordinates:     []string{"id", "version", "extension"},
		},
		{
			ID:              "npm",
			CoordinatesType: "NpmArtifactCoordinates",
			Aliases:         []string{"npm"},
			Coordinates:     []string{"scope", "name", "version", "extension"},
		},
		{
			ID:              "PyPi",
			CoordinatesType: "PypiArtifactCoordinates",
			Aliases:         []string{"pypi", "python"},
			Coordinates:     []string{"distribution", "version", "build", "languageImplementationVersion", "abi", "platform", "packaging"},
		},
		{
			ID:              "Raw",
			CoordinatesType: "RawArtifactCoordinates",
			Aliases:         []string{"raw"},
			Coordinates:     []string{"path"},
		},
	}
}

// Registry is a thread-safe, lazily initialized layout table.
type Registry struct {
	once   sync.Once
	mu     sync.RWMutex
	byKey  map[string]Definition
	ids    map[string]struct{}
	logger *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry returns a registry. Built-in layouts are loaded on first use.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry holding only built-in layouts.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

func (r *Registry) init() {
	r.once.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.byKey = make(map[string]Definition)
		r.ids = make(map[string]struct{})
		for _, def := range Builtins() {
			r.putLocked(def)
		}
		r.logger.Debug("layout registry initialized", zap.Int("layouts", len(r.ids)))
	})
}

// key folds s for lookup. A Caser is stateful, so each call gets its own.
func (r *Registry) key(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func (r *Registry) putLocked(def Definition) {
	r.ids[def.ID] = struct{}{}
	r.byKey[r.key(def.ID)] = def
	for _, alias := range def.Aliases {
		r.byKey[r.key(alias)] = def
	}
}

// deleteLocked drops def and every alias it claimed.
func (r *Registry) deleteLocked(def Definition) {
	delete(r.ids, def.ID)
	delete(r.byKey, r.key(def.ID))
	for _, alias := range def.Aliases {
		delete(r.byKey, r.key(alias))
	}
}

// Register adds or replaces a layout. A key already claimed by another
// layout is an error. Replacing a layout drops the aliases it had.
func (r *Registry) Register(def Definition) error {
	if strings.TrimSpace(def.ID) == "" {
		return fmt.Errorf("layout id is required")
	}
	if strings.TrimSpace(def.CoordinatesType) == "" {
		return fmt.Errorf("layout %q: coordinates type is required", def.ID)
	}
	r.init()

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range append([]string{def.ID}, def.Aliases...) {
		if existing, ok := r.byKey[r.key(k)]; ok && existing.ID != def.ID {
			return fmt.Errorf("layout %q: key %q already used by %q", def.ID, k, existing.ID)
		}
	}
	if old, ok := r.byKey[r.key(def.ID)]; ok {
		r.deleteLocked(old)
	}
	r.putLocked(def)
	r.logger.Debug("layout registered",
		zap.String("id", def.ID),
		zap.String("type", def.CoordinatesType),
	)
	return nil
}

// Lookup returns the definition registered under id or one of its aliases.
func (r *Registry) Lookup(id string) (Definition, error) {
	r.init()
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byKey[r.key(id)]
	if !ok {
		return Definition{}, &UnknownLayoutError{ID: id}
	}
	return def, nil
}

// CoordinatesType implements Locator.
func (r *Registry) CoordinatesType(layoutID string) (string, error) {
	def, err := r.Lookup(layoutID)
	if err != nil {
		return "", err
	}
	return def.CoordinatesType, nil
}

// Definitions returns every registered layout sorted by ID, ignoring case.
func (r *Registry) Definitions() []Definition {
	r.init()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.ids))
	for id := range r.ids {
		out = append(out, r.byKey[r.key(id)])
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := r.key(out[i].ID), r.key(out[j].ID)
		if ki != kj {
			return ki < kj
		}
		return out[i].ID < out[j].ID
	})
	return out
}
