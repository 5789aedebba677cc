package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	events "github.com/asaidimu/go-events"

	"github.com/roach88/aql/internal/compiler"
	"github.com/roach88/aql/internal/criteria"
	"github.com/roach88/aql/internal/dialect"
	"github.com/roach88/aql/internal/layout"
	"github.com/roach88/aql/internal/querysql"
	"github.com/roach88/aql/internal/store"
	"github.com/roach88/aql/internal/visitor"
)

// DefaultCacheSize is the number of compiled plans kept per service.
const DefaultCacheSize = 512

// ErrNotIndexable is returned when a query has a document rendering but
// cannot run against the local SQLite index.
var ErrNotIndexable = errors.New("query cannot run against the local index")

// Plan is the compiled form of one query text. Plans are immutable once
// built and shared between callers through the cache.
//
// SQL and SQLCount are nil when the query has no SQLite rendering; the
// reason is kept for Local.
type Plan struct {
	Text     string             `json:"query"`
	Selector *criteria.Selector `json:"-"`
	AQL      *compiler.Query    `json:"aql"`
	Count    *compiler.Query    `json:"count"`
	SQL      *compiler.Query    `json:"sql,omitempty"`
	SQLCount *compiler.Query    `json:"sql_count,omitempty"`

	sqlErr error
}

// Local returns the SQLite row and count queries of the plan, or an error
// wrapping ErrNotIndexable.
func (p *Plan) Local() (rows, count *compiler.Query, err error) {
	if p.sqlErr != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNotIndexable, p.sqlErr)
	}
	return p.SQL, p.SQLCount, nil
}

// Result is the outcome of a search.
type Result struct {
	Plan      *Plan            `json:"plan"`
	Artifacts []store.Artifact `json:"artifacts"`
	Total     int64            `json:"total"`
}

// Service compiles AQL text and runs it against an artifact store.
type Service struct {
	store     *store.Store
	locator   layout.Locator
	logger    *zap.Logger
	reg       prometheus.Registerer
	now       func() time.Time
	cacheSize int

	dialect *dialect.Dialect
	cache   *lru.Cache[string, *Plan]
	metrics *Metrics
	bus     *events.TypedEventBus[Event]
}

// Option configures a Service.
type Option func(*Service)

// WithStore sets the store used by Search.
func WithStore(st *store.Store) Option {
	return func(s *Service) { s.store = st }
}

// WithLocator sets the layout lookup used by the dialect.
func WithLocator(l layout.Locator) Option {
	return func(s *Service) {
		if l != nil {
			s.locator = l
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRegisterer registers the service metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Service) { s.reg = reg }
}

// WithClock sets the time source for age cutoffs and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCacheSize sets the plan cache capacity.
func WithCacheSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cacheSize = n
		}
	}
}

// New builds a Service.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		locator:   layout.Default(),
		logger:    zap.NewNop(),
		now:       time.Now,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	cache, err := lru.New[string, *Plan](s.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("plan cache: %w", err)
	}
	bus, err := newBus()
	if err != nil {
		return nil, fmt.Errorf("event bus: %w", err)
	}

	s.cache = cache
	s.bus = bus
	s.metrics = newMetrics(s.reg)
	s.dialect = dialect.New(s.locator, dialect.WithClock(s.now))
	return s, nil
}

// Metrics exposes the service collectors.
func (s *Service) Metrics() *Metrics {
	return s.metrics
}

// CachedPlans reports the number of plans in the cache.
func (s *Service) CachedPlans() int {
	return s.cache.Len()
}

// Compile parses text and renders it for both backends. A plan compiled
// earlier for the same text is returned from the cache.
//
// Queries filtering on lastUpdated may carry an age cutoff taken from the
// clock, so they are never cached.
func (s *Service) Compile(text string) (*Plan, error) {
	if p, ok := s.cache.Get(text); ok {
		s.metrics.QueriesCompiled.WithLabelValues("cached").Inc()
		s.emit(Event{Type: EventQueryCompiled, Query: text, Fingerprint: p.AQL.Fingerprint, Cached: true})
		return p, nil
	}

	start := time.Now()
	p, relative, err := s.compile(text)
	elapsed := time.Since(start)
	s.metrics.CompileDuration.Observe(elapsed.Seconds())

	if err != nil {
		code := errorCode(err)
		s.metrics.QueriesCompiled.WithLabelValues("error").Inc()
		s.metrics.ParseFailures.WithLabelValues(code).Inc()
		s.logger.Debug("query rejected",
			zap.String("query", text),
			zap.String("code", code),
			zap.Error(err))
		s.emit(Event{Type: EventQueryFailed, Query: text, Code: code, Error: err.Error(), Duration: elapsed})
		return nil, err
	}

	if !relative {
		s.cache.Add(text, p)
	}
	s.metrics.QueriesCompiled.WithLabelValues("ok").Inc()
	s.logger.Debug("query compiled",
		zap.String("query", text),
		zap.String("fingerprint", p.AQL.Fingerprint),
		zap.Duration("elapsed", elapsed))
	s.emit(Event{Type: EventQueryCompiled, Query: text, Fingerprint: p.AQL.Fingerprint, Duration: elapsed})
	return p, nil
}

func (s *Service) compile(text string) (*Plan, bool, error) {
	sel, err := visitor.ParseStatement(text, s.dialect)
	if err != nil {
		return nil, false, err
	}
	aql, err := compiler.Compile(sel)
	if err != nil {
		return nil, false, fmt.Errorf("compile: %w", err)
	}
	count, err := compiler.CountQuery(sel)
	if err != nil {
		return nil, false, fmt.Errorf("compile count: %w", err)
	}
	p := &Plan{Text: text, Selector: sel, AQL: aql, Count: count}

	// A query the index cannot express is still a valid query.
	if p.SQL, p.sqlErr = querysql.Compile(sel); p.sqlErr == nil {
		p.SQLCount, p.sqlErr = querysql.CountQuery(sel)
	}
	if p.sqlErr != nil {
		p.SQL, p.SQLCount = nil, nil
		s.logger.Debug("query has no sqlite rendering",
			zap.String("query", text),
			zap.Error(p.sqlErr))
	}
	return p, usesAge(sel), nil
}

// Search compiles text and runs it against the store. Total counts every
// matching row regardless of paging.
func (s *Service) Search(ctx context.Context, text string) (*Result, error) {
	if s.store == nil {
		return nil, errors.New("search: no store configured")
	}
	p, err := s.Compile(text)
	if err != nil {
		return nil, err
	}

	sqlq, sqlCount, err := p.Local()
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	start := time.Now()
	rows, err := s.store.Search(ctx, sqlq)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	total, err := s.store.Count(ctx, sqlCount)
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	elapsed := time.Since(start)

	s.metrics.SearchResults.Observe(float64(len(rows)))
	s.logger.Debug("search executed",
		zap.String("fingerprint", p.AQL.Fingerprint),
		zap.Int("rows", len(rows)),
		zap.Int64("total", total))
	s.emit(Event{Type: EventSearchExecuted, Query: text, Fingerprint: p.AQL.Fingerprint, Rows: len(rows), Duration: elapsed})

	return &Result{Plan: p, Artifacts: rows, Total: total}, nil
}

// errorCode returns the query error code of err, or "INTERNAL".
func errorCode(err error) string {
	var qe *criteria.QueryParseError
	if errors.As(err, &qe) {
		return qe.Code
	}
	return "INTERNAL"
}

func usesAge(sel *criteria.Selector) bool {
	relative := false
	criteria.Walk(sel.Predicate, func(e criteria.Expression) {
		if e.Property == dialect.KeywordAge.Property() {
			relative = true
		}
	})
	return relative
}
