package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_SortedKeys(t *testing.T) {
	got, err := Marshal(map[string]any{
		"version_2":      "1.%",
		"storageId_0":    "storage0",
		"repositoryId_1": "releases",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"repositoryId_1":"releases","storageId_0":"storage0","version_2":"1.%"}`, string(got))
}

func TestMarshal_NoHTMLEscape(t *testing.T) {
	got, err := Marshal("a<b>&c")
	require.NoError(t, err)
	assert.Equal(t, `"a<b>&c"`, string(got))
}

func TestMarshal_NFC(t *testing.T) {
	decomposed := "e\u0301"
	got, err := Marshal(decomposed)
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshal_LineSeparators(t *testing.T) {
	got, err := Marshal("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(got))

	got, err = Marshal("a\\u2028b")
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(got))
}

func TestMarshal_Rejects(t *testing.T) {
	_, err := Marshal(nil)
	assert.Error(t, err)
	_, err = Marshal(1.5)
	assert.Error(t, err)
	_, err = Marshal(map[string]any{"a": struct{}{}})
	assert.Error(t, err)
}

func TestSortedKeys_UTF16Order(t *testing.T) {
	// U+FF61 sorts after U+1F600 in UTF-8 byte order but before it in UTF-16.
	keys := SortedKeys(map[string]int{"\U0001F600": 1, "\uff61": 2, "a": 3})
	assert.Equal(t, []string{"a", "\U0001F600", "\uff61"}, keys)
}

func TestQueryFingerprint(t *testing.T) {
	a := MustQueryFingerprint("SELECT * FROM ArtifactEntry", map[string]any{"x_0": "1", "y_1": "2"})
	b := MustQueryFingerprint("SELECT * FROM ArtifactEntry", map[string]any{"y_1": "2", "x_0": "1"})
	c := MustQueryFingerprint("SELECT * FROM ArtifactEntry", map[string]any{"x_0": "2", "y_1": "1"})

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, MustQueryFingerprint("q", nil), MustQueryFingerprint("q", map[string]any{}))
}

func TestArtifactKey(t *testing.T) {
	k1, err := ArtifactKey("storage0", "releases", "org/foo/1.0/foo-1.0.jar")
	require.NoError(t, err)
	k2, err := ArtifactKey("storage0", "snapshots", "org/foo/1.0/foo-1.0.jar")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}
