package survey

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundmap/internal/common"
)

func TestParseTableSchemaValid(t *testing.T) {
	raw := []byte(`{
		"scene_column": "scene",
		"category_columns": ["group", "noise"],
		"rating_aliases": {"lively": "vibrant"}
	}`)
	ts, err := ParseTableSchema(raw)
	require.NoError(t, err)
	assert.Equal(t, "scene", ts.SceneColumn)
	assert.Equal(t, []string{"group", "noise"}, ts.CategoryColumns)
	assert.Equal(t, "vibrant", ts.RatingAliases["lively"])
}

func TestParseTableSchemaRejectsMissingSceneColumn(t *testing.T) {
	_, err := ParseTableSchema([]byte(`{"category_columns": ["group"]}`))
	require.Error(t, err)
}

func TestParseTableSchemaRejectsUnknownField(t *testing.T) {
	_, err := ParseTableSchema([]byte(`{"scene_column": "scene", "regex": ".*"}`))
	require.Error(t, err)
}

func TestParseTableSchemaRejectsSceneAsCategory(t *testing.T) {
	_, err := ParseTableSchema([]byte(`{"scene_column": "scene", "category_columns": ["Scene"]}`))
	require.Error(t, err)
}

func TestParseTableSchemaRejectsInvalidJSON(t *testing.T) {
	_, err := ParseTableSchema([]byte(`{scene_column:`))
	require.Error(t, err)
}

func TestLoadTableSchemaDefault(t *testing.T) {
	ts, err := LoadTableSchema("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTableSchema(), ts)
}

func TestLoadTableSchemaFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"scene_column": "location"}`), 0o644))

	ts, err := LoadTableSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "location", ts.SceneColumn)
}

func TestLoadTableSchemaMissingFileIsConfigError(t *testing.T) {
	_, err := LoadTableSchema(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConfiguration)
}
