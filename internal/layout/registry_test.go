package layout

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		id   string
		want string
	}{
		{"Maven 2", "MavenArtifactCoordinates"},
		{"maven 2", "MavenArtifactCoordinates"},
		{"maven2", "MavenArtifactCoordinates"},
		{"NuGet", "NugetArtifactCoordinates"},
		{" npm ", "NpmArtifactCoordinates"},
		{"PYPI", "PypiArtifactCoordinates"},
		{"raw", "RawArtifactCoordinates"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := r.CoordinatesType(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_UnknownIsDeterministic(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 3; i++ {
		_, err := r.CoordinatesType("cobol")
		var unknown *UnknownLayoutError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, "cobol", unknown.ID)
		assert.Equal(t, `unknown layout "cobol"`, err.Error())
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Definition{
		ID:              "Conan",
		CoordinatesType: "ConanArtifactCoordinates",
		Coordinates:     []string{"name"},
	}))
	got, err := r.CoordinatesType("conan")
	require.NoError(t, err)
	assert.Equal(t, "ConanArtifactCoordinates", got)

	err = r.Register(Definition{ID: "Other", CoordinatesType: "X", Aliases: []string{"maven"}})
	assert.ErrorContains(t, err, "already used")

	assert.Error(t, r.Register(Definition{ID: "", CoordinatesType: "X"}))
	assert.Error(t, r.Register(Definition{ID: "NoType"}))
}

func TestRegistry_Definitions(t *testing.T) {
	defs := NewRegistry().Definitions()
	require.Len(t, defs, 5)
	assert.Equal(t, "Maven 2", defs[0].ID)
	assert.Equal(t, "Raw", defs[len(defs)-1].ID)

	ids := make([]string, 0, len(defs))
	for _, d := range defs {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"Maven 2", "npm", "NuGet", "PyPi", "Raw"}, ids)
}

func TestRegistry_ReplaceDropsOldAliases(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Definition{ID: "Go", CoordinatesType: "GoArtifactCoordinates", Aliases: []string{"golang", "gomod"}}))
	require.NoError(t, r.Register(Definition{ID: "Go", CoordinatesType: "GoModuleCoordinates", Aliases: []string{"golang"}}))

	got, err := r.CoordinatesType("golang")
	require.NoError(t, err)
	assert.Equal(t, "GoModuleCoordinates", got)

	_, err = r.CoordinatesType("gomod")
	var unknown *UnknownLayoutError
	assert.ErrorAs(t, err, &unknown)

	require.NoError(t, r.Register(Definition{ID: "Modules", CoordinatesType: "X", Aliases: []string{"gomod"}}))
	assert.Len(t, r.Definitions(), 7)
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%8 == 0 {
				_ = r.Register(Definition{ID: fmt.Sprintf("custom-%d", i), CoordinatesType: "C"})
			}
			_, err := r.CoordinatesType("NuGet")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}

func TestDefault_Shared(t *testing.T) {
	assert.Same(t, Default(), Default())
}
