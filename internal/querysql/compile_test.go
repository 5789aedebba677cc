package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aql/internal/compiler"
	"github.com/roach88/aql/internal/criteria"
	"github.com/roach88/aql/internal/dialect"
	"github.com/roach88/aql/internal/layout"
	"github.com/roach88/aql/internal/visitor"
)

func selector(t *testing.T, text string) *criteria.Selector {
	t.Helper()
	sel, err := visitor.ParseStatement(text, dialect.New(layout.NewRegistry()))
	require.NoError(t, err)
	return sel
}

func TestCompile_Statement(t *testing.T) {
	q, err := Compile(selector(t, `storage:storage0 repository:releases version:1.* order by size desc skip 5`))
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT "+Columns+" FROM artifact_entries WHERE coordinates IS NOT NULL AND "+
			"(storage_id = :storageId_0 AND repository_id = :repositoryId_1 AND version LIKE :version_2) "+
			`ORDER BY json_extract(coordinates, '$."size"') DESC, id COLLATE BINARY ASC LIMIT 25 OFFSET 5`,
		q.Text)
	assert.Equal(t, map[string]any{
		"storageId_0":    "storage0",
		"repositoryId_1": "releases",
		"version_2":      "1.%",
	}, q.Params)
	assert.NotContains(t, q.Text, "storage0")
}

func TestCompile_SameParamsAsDocumentRenderer(t *testing.T) {
	sel := selector(t, `storage:s1; (groupId:org.* or tag:release) !layout:npm from:2024-01-01`)

	q, err := Compile(sel)
	require.NoError(t, err)
	doc, err := compiler.Compile(sel)
	require.NoError(t, err)

	assert.Equal(t, doc.Params, q.Params)
}

func TestCompile_Tag(t *testing.T) {
	q, err := Compile(selector(t, `tag:released`))
	require.NoError(t, err)
	assert.Contains(t, q.Text, "EXISTS (SELECT 1 FROM json_each(artifact_entries.tags) WHERE json_each.value = :name_0)")
	assert.Equal(t, map[string]any{"name_0": "released"}, q.Params)
}

func TestCompile_NegatedGroup(t *testing.T) {
	q, err := Compile(selector(t, `!(version:1.0 or version:2.0)`))
	require.NoError(t, err)
	assert.Contains(t, q.Text, "(NOT (version = :version_0 OR version = :version_1))")
}

func TestCompile_Layout(t *testing.T) {
	q, err := Compile(selector(t, `layout:"Maven 2" groupId:org.foo`))
	require.NoError(t, err)
	assert.Contains(t, q.Text, `coordinates_type = :class_0 AND json_extract(coordinates, '$."groupId"') = :groupId_1`)
	assert.Equal(t, "MavenArtifactCoordinates", q.Params["class_0"])
}

func TestCompile_Count(t *testing.T) {
	sel := selector(t, `storage:s1 order by version skip 10`)
	sel.Projection = criteria.Count

	q, err := Compile(sel)
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(*) FROM artifact_entries WHERE coordinates IS NOT NULL AND (storage_id = :storageId_0)", q.Text)
}

func TestCompile_SkipWithoutLimit(t *testing.T) {
	sel := criteria.NewSelector(criteria.DefaultTargetType)
	sel.Paginator.SetLimit(0)
	sel.Paginator.SetSkip(3)

	q, err := Compile(sel)
	require.NoError(t, err)
	assert.Contains(t, q.Text, "ORDER BY id COLLATE BINARY ASC LIMIT -1 OFFSET 3")
}

func TestCompile_RejectsUnsafeCoordinateKey(t *testing.T) {
	sel := criteria.NewSelector(criteria.DefaultTargetType)
	sel.Predicate = criteria.Of(criteria.NewExpression(dialect.CoordinatesPrefix+"x') OR 1=1 --", criteria.OpEQ, "v"))

	_, err := Compile(sel)
	assert.ErrorContains(t, err, "invalid coordinate key")
}

func TestCompile_CoordinateKeyNeedsQuoting(t *testing.T) {
	q, err := Compile(selector(t, `artifact-id:foo`))
	require.NoError(t, err)
	assert.Contains(t, q.Text, `json_extract(coordinates, '$."artifact-id"') = :artifact_id_0`)
	assert.Equal(t, map[string]any{"artifact_id_0": "foo"}, q.Params)
}

func TestCompile_TagOperators(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{`tag:=released`, "EXISTS (SELECT 1 FROM json_each(artifact_entries.tags) WHERE json_each.value = :name_0)"},
		{`tag:>=b`, "EXISTS (SELECT 1 FROM json_each(artifact_entries.tags) WHERE json_each.value >= :name_0)"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := Compile(selector(t, tt.query))
			require.NoError(t, err)
			assert.Contains(t, q.Text, tt.want)
		})
	}
}

func TestCompile_OrderByTag(t *testing.T) {
	q, err := Compile(selector(t, `storage:s1 order by tag desc`))
	require.NoError(t, err)
	assert.Contains(t, q.Text, "ORDER BY (SELECT min(value) FROM json_each(artifact_entries.tags)) DESC, id COLLATE BINARY ASC")
}

func TestCompile_LastUpdatedComparesDates(t *testing.T) {
	q, err := Compile(selector(t, `from:2024-01-01 to:2024-02-01`))
	require.NoError(t, err)
	assert.Contains(t, q.Text, "date(last_updated) >= :lastUpdated_0 AND date(last_updated) <= :lastUpdated_1")
}

func TestCompile_Nil(t *testing.T) {
	_, err := Compile(nil)
	assert.Error(t, err)
}
