package layout

import (
	"errors"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileLayouts(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		layout: "Go Modules": {
			type: "GoArtifactCoordinates"
			aliases: ["go"]
			coordinates: ["module", "version"]
		}
	`)
	require.NoError(t, v.Err())

	defs, err := CompileLayouts(v)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "Go Modules", defs[0].ID)
	assert.Equal(t, "GoArtifactCoordinates", defs[0].CoordinatesType)
	assert.Equal(t, []string{"go"}, defs[0].Aliases)
	assert.Equal(t, []string{"module", "version"}, defs[0].Coordinates)
}

func TestCompileLayout_MissingType(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`layout: bad: { coordinates: ["x"] }`)
	require.NoError(t, v.Err())

	_, err := CompileLayout(v.LookupPath(cue.ParsePath("layout.bad")))
	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, "type", compileErr.Field)
}

func TestCompileLayout_NoCoordinates(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`layout: bad: { type: "X" }`)
	require.NoError(t, v.Err())

	_, err := CompileLayout(v.LookupPath(cue.ParsePath("layout.bad")))
	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, "coordinates", compileErr.Field)
}

func TestRegistry_LoadCUE(t *testing.T) {
	r := NewRegistry()
	n, err := r.LoadCUE("../../testdata/layouts")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := r.CoordinatesType("conan-center")
	require.NoError(t, err)
	assert.Equal(t, "ConanArtifactCoordinates", got)

	got, err = r.CoordinatesType("Helm")
	require.NoError(t, err)
	assert.Equal(t, "HelmArtifactCoordinates", got)
}

func TestLoadCUE_MissingDir(t *testing.T) {
	_, err := LoadCUE(t.TempDir() + "/nope")
	assert.Error(t, err)

	_, err = LoadCUE(t.TempDir())
	assert.ErrorContains(t, err, "no CUE files")
}
