package search

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aql/internal/compiler"
	"github.com/roach88/aql/internal/criteria"
	"github.com/roach88/aql/internal/layout"
	"github.com/roach88/aql/internal/store"
	"github.com/roach88/aql/internal/testutil"
)

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	base := []Option{
		WithRegisterer(prometheus.NewRegistry()),
		WithClock(testutil.Fixed(testutil.Epoch)),
		WithLocator(layout.NewRegistry()),
	}
	svc, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return svc
}

func fixtureStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "aql.db"),
		store.WithIDGenerator(testutil.NewSequentialIDs("art").Next))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	_, err = st.ImportFixturesFile(context.Background(), "../../testdata/artifacts.yaml")
	require.NoError(t, err)
	return st
}

func TestService_Compile(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.Compile(`storage:storage0 repository:releases`)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT * FROM ArtifactEntry WHERE artifactCoordinates IS NOT NULL AND (storageId = :storageId_0 AND repositoryId = :repositoryId_1) LIMIT 25",
		p.AQL.Text)
	assert.Equal(t, map[string]any{"storageId_0": "storage0", "repositoryId_1": "releases"}, p.AQL.Params)
	assert.Contains(t, p.Count.Text, "SELECT count(*) FROM ArtifactEntry")
	assert.Contains(t, p.SQL.Text, "FROM artifact_entries WHERE")
	assert.Contains(t, p.SQLCount.Text, "SELECT count(*) FROM artifact_entries")
	assert.NotEmpty(t, p.AQL.Fingerprint)
}

func TestService_CompileCaches(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.Compile(`layout:npm`)
	require.NoError(t, err)
	second, err := svc.Compile(`layout:npm`)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, svc.CachedPlans())
	assert.Equal(t, 1.0, promtest.ToFloat64(svc.Metrics().QueriesCompiled.WithLabelValues("ok")))
	assert.Equal(t, 1.0, promtest.ToFloat64(svc.Metrics().QueriesCompiled.WithLabelValues("cached")))
}

func TestService_CacheEviction(t *testing.T) {
	svc := newTestService(t, WithCacheSize(2))

	for _, q := range []string{`layout:npm`, `layout:NuGet`, `layout:Raw`} {
		_, err := svc.Compile(q)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, svc.CachedPlans())
}

func TestService_DateQueriesNotCached(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.Compile(`age:7d`)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", p.AQL.Params["lastUpdated_0"])
	assert.Equal(t, 0, svc.CachedPlans())
}

func TestService_CompileFailure(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		query string
		code  string
	}{
		{`layout:nosuch`, criteria.CodeUnknownLayout},
		{`storage:`, criteria.CodeSyntax},
		{`age:soon`, criteria.CodeInvalidValue},
		{`storage:s0 skip abc`, criteria.CodeInvalidPage},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			_, err := svc.Compile(tt.query)
			require.Error(t, err)
			assert.True(t, criteria.HasCode(err, tt.code), "got %v", err)
			assert.Equal(t, 1.0, promtest.ToFloat64(svc.Metrics().ParseFailures.WithLabelValues(tt.code)))
		})
	}
	assert.Equal(t, float64(len(tests)), promtest.ToFloat64(svc.Metrics().QueriesCompiled.WithLabelValues("error")))
	assert.Equal(t, 0, svc.CachedPlans())
}

func TestService_Search(t *testing.T) {
	svc := newTestService(t, WithStore(fixtureStore(t)))

	res, err := svc.Search(context.Background(), `storage:storage0 repository:releases version:1.* limit 1`)
	require.NoError(t, err)

	require.Len(t, res.Artifacts, 1)
	assert.Equal(t, "org/foo/bar/1.0/bar-1.0.jar", res.Artifacts[0].Path)
	assert.Equal(t, int64(2), res.Total)
}

func TestService_CompileKeepsDocumentPlan(t *testing.T) {
	svc := newTestService(t)

	for _, q := range []string{`artifact-id:foo`, `tag:=released`, `a:1 order by tag`} {
		t.Run(q, func(t *testing.T) {
			p, err := svc.Compile(q)
			require.NoError(t, err)
			assert.NotEmpty(t, p.AQL.Text)

			rows, count, err := p.Local()
			require.NoError(t, err)
			assert.NotEmpty(t, rows.Text)
			assert.NotEmpty(t, count.Text)
		})
	}
}

func TestPlan_LocalNotIndexable(t *testing.T) {
	p := &Plan{sqlErr: errors.New(`invalid coordinate key "a'b"`)}

	_, _, err := p.Local()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotIndexable)
}

func TestService_SearchNotIndexable(t *testing.T) {
	svc := newTestService(t, WithStore(fixtureStore(t)))
	svc.cache.Add(`layout:npm`, &Plan{
		Text:   `layout:npm`,
		AQL:    &compiler.Query{Fingerprint: "sha256:test"},
		sqlErr: errors.New("unsupported"),
	})

	_, err := svc.Search(context.Background(), `layout:npm`)
	assert.ErrorIs(t, err, ErrNotIndexable)
}

func TestService_SearchTimestampDay(t *testing.T) {
	st := fixtureStore(t)
	_, err := st.WriteArtifact(context.Background(), store.Artifact{
		StorageID:    "storage9",
		RepositoryID: "snapshots",
		Path:         "late/1.0/late-1.0.jar",
		Layout:       "maven2",
		Coordinates:  map[string]string{"groupId": "late", "artifactId": "late", "version": "1.0"},
		LastUpdated:  "2024-02-01T10:00:00Z",
	})
	require.NoError(t, err)
	svc := newTestService(t, WithStore(st))

	res, err := svc.Search(context.Background(), `storage:storage9 to:2024-02-01`)
	require.NoError(t, err)
	require.Len(t, res.Artifacts, 1)
	assert.Equal(t, "late/1.0/late-1.0.jar", res.Artifacts[0].Path)
}

func TestService_SearchWithoutStore(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Search(context.Background(), `layout:npm`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no store configured")
}

func TestService_Events(t *testing.T) {
	svc := newTestService(t, WithStore(fixtureStore(t)))

	var mu sync.Mutex
	seen := make(map[EventType][]Event)
	record := func(_ context.Context, ev Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen[ev.Type] = append(seen[ev.Type], ev)
		return nil
	}
	for _, et := range []EventType{EventQueryCompiled, EventQueryFailed, EventSearchExecuted} {
		unsub := svc.Subscribe(et, record)
		t.Cleanup(unsub)
	}

	_, err := svc.Search(context.Background(), `layout:npm`)
	require.NoError(t, err)
	_, err = svc.Compile(`layout:nosuch`)
	require.Error(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen[EventQueryCompiled]) == 1 &&
			len(seen[EventQueryFailed]) == 1 &&
			len(seen[EventSearchExecuted]) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, criteria.CodeUnknownLayout, seen[EventQueryFailed][0].Code)
	assert.Equal(t, 1, seen[EventSearchExecuted][0].Rows)
	assert.Equal(t, testutil.Epoch, seen[EventSearchExecuted][0].Timestamp)
}
