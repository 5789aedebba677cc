package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/aql/internal/testutil"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path,
		WithIDGenerator(testutil.NewSequentialIDs("art").Next),
		WithClock(testutil.NewDeterministicClock().Now),
	)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createFixtureStore creates a test store loaded with testdata/artifacts.yaml.
func createFixtureStore(t *testing.T) *Store {
	t.Helper()
	s := createTestStore(t)
	n, err := s.ImportFixturesFile(context.Background(), "../../testdata/artifacts.yaml")
	if err != nil {
		t.Fatalf("ImportFixturesFile() failed: %v", err)
	}
	if n != 7 {
		t.Fatalf("ImportFixturesFile() = %d, want 7", n)
	}
	return s
}

func testArtifact(path string) Artifact {
	return Artifact{
		StorageID:    "storage0",
		RepositoryID: "releases",
		Path:         path,
		Layout:       "Maven 2",
		Coordinates:  map[string]string{"groupId": "org.foo", "artifactId": "bar", "version": "1.0"},
		Version:      "1.0",
		Tags:         []string{"release"},
		SizeBytes:    10,
		LastUpdated:  "2024-01-01",
	}
}
