package survey

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundmap/internal/common"
)

var testLogger = slog.Default()

func header(extra ...string) []string {
	h := []string{"scene", "eventful", "vibrant", "pleasant", "calm", "uneventful", "monotonous", "annoying", "chaotic"}
	return append(h, extra...)
}

func TestBuildSceneTableHappyPath(t *testing.T) {
	rows := [][]string{
		header(),
		{"scene1", "4", "3", "5", "4", "2", "3", "2", "1"},
		{"scene2", "1", "1", "2", "2", "3", "4", "5", "5"},
	}
	st, err := BuildSceneTable(DefaultTableSchema(), rows, testLogger)
	require.NoError(t, err)

	assert.Equal(t, []string{"scene1", "scene2"}, st.Keys)
	assert.Equal(t, RatingVector{4, 3, 5, 4, 2, 3, 2, 1}, st.Ratings["scene1"])
	assert.Equal(t, RatingVector{1, 1, 2, 2, 3, 4, 5, 5}, st.Ratings["scene2"])
}

func TestBuildSceneTableColumnOrderIrrelevant(t *testing.T) {
	rows := [][]string{
		{"chaotic", "scene", "PLEASANT", "annoying", "Calm", "vibrant", "monotonous", "uneventful", "Eventful"},
		{"1", "scene1", "5", "2", "4", "3", "3", "2", "4"},
	}
	st, err := BuildSceneTable(DefaultTableSchema(), rows, testLogger)
	require.NoError(t, err)
	assert.Equal(t, RatingVector{4, 3, 5, 4, 2, 3, 2, 1}, st.Ratings["scene1"])
}

func TestBuildSceneTableMissingRatingColumn(t *testing.T) {
	rows := [][]string{
		{"scene", "eventful", "vibrant", "pleasant", "calm", "uneventful", "monotonous", "annoying"}, // no chaotic
		{"scene1", "4", "3", "5", "4", "2", "3", "2"},
	}
	st, err := BuildSceneTable(DefaultTableSchema(), rows, testLogger)
	assert.Nil(t, st)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMalformedInput)
	assert.Contains(t, err.Error(), "chaotic")
}

func TestBuildSceneTableZeroScenes(t *testing.T) {
	rows := [][]string{
		header(),
		{"", "4", "3", "5", "4", "2", "3", "2", "1"},       // blank scene label
		{"scene1", "x", "3", "5", "4", "2", "3", "2", "1"}, // unparsable rating
	}
	_, err := BuildSceneTable(DefaultTableSchema(), rows, testLogger)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMalformedInput)
}

func TestBuildSceneTableHeaderOnly(t *testing.T) {
	_, err := BuildSceneTable(DefaultTableSchema(), [][]string{header()}, testLogger)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMalformedInput)
}

func TestBuildSceneTableWithCategories(t *testing.T) {
	schema := TableSchema{SceneColumn: "scene", CategoryColumns: []string{"group", "noise"}}
	rows := [][]string{
		header("group", "noise"),
		{"E1", "4", "3", "5", "4", "2", "3", "2", "1", "SW", "quiet"},
		{"E1", "1", "1", "2", "2", "3", "4", "5", "5", "VR", "quiet"},
		{"E1", "2", "2", "3", "3", "2", "2", "3", "3", "SW", "loud"},
	}
	st, err := BuildSceneTable(schema, rows, testLogger)
	require.NoError(t, err)

	assert.Equal(t, []string{"E1_0_0", "E1_1_0", "E1_0_1"}, st.Keys)
	assert.Equal(t, []string{"E1 | SW | quiet", "E1 | VR | quiet", "E1 | SW | loud"}, st.Labels())
}

func TestBuildSceneTableDuplicateKeyLastWins(t *testing.T) {
	rows := [][]string{
		header(),
		{"scene1", "4", "3", "5", "4", "2", "3", "2", "1"},
		{"scene1", "1", "1", "1", "1", "1", "1", "1", "1"},
	}
	st, err := BuildSceneTable(DefaultTableSchema(), rows, testLogger)
	require.NoError(t, err)

	assert.Len(t, st.Keys, 1)
	assert.Equal(t, RatingVector{1, 1, 1, 1, 1, 1, 1, 1}, st.Ratings["scene1"])
}

func TestBuildSceneTableMissingCategoryColumn(t *testing.T) {
	schema := TableSchema{SceneColumn: "scene", CategoryColumns: []string{"group"}}
	rows := [][]string{
		header(),
		{"scene1", "4", "3", "5", "4", "2", "3", "2", "1"},
	}
	_, err := BuildSceneTable(schema, rows, testLogger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "group")
}

func TestBuildSceneTableRatingAlias(t *testing.T) {
	schema := TableSchema{
		SceneColumn:   "scene",
		RatingAliases: map[string]string{"lively": "vibrant"},
	}
	rows := [][]string{
		{"scene", "eventful", "lively", "pleasant", "calm", "uneventful", "monotonous", "annoying", "chaotic"},
		{"scene1", "4", "3", "5", "4", "2", "3", "2", "1"},
	}
	st, err := BuildSceneTable(schema, rows, testLogger)
	require.NoError(t, err)
	assert.Equal(t, RatingVector{4, 3, 5, 4, 2, 3, 2, 1}, st.Ratings["scene1"])
}
