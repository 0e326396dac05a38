package export

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"soundmap/internal/plot"
	"soundmap/internal/survey"
)

func TestRound4(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{5.12132, 5.1213},
		{-0.12132, -0.1213},
		{0.73165, 0.7317},
		{-0.73165, -0.7317},
		{1.0, 1.0},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, round4(c.in), 1e-9, "round4(%v)", c.in)
	}
}

func TestCoordinatesXLSX(t *testing.T) {
	svc := NewService(slog.Default())

	scenes := []plot.Scene{
		{
			Key:   "scene1_0",
			Label: "scene1 | park",
			Raw:   survey.Coordinates{P: 5.12132, E: -0.12132},
			Norm:  survey.Coordinates{P: 0.731617, E: -0.017331},
		},
		{
			Key:   "scene2_1",
			Label: "scene2 | street",
			Raw:   survey.Coordinates{P: -1.5, E: 2.25},
			Norm:  survey.Coordinates{P: -0.2143, E: 0.3214},
		},
	}

	data, err := svc.CoordinatesXLSX(scenes)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Coordinates")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Scene Key", rows[0][0])
	assert.Equal(t, "Pleasantness (normalized)", rows[0][4])

	assert.Equal(t, "scene1_0", rows[1][0])
	assert.Equal(t, "scene1 | park", rows[1][1])
	assert.Equal(t, "5.1213", rows[1][2])
	assert.Equal(t, "-0.1213", rows[1][3])
	assert.Equal(t, "0.7316", rows[1][4])
	assert.Equal(t, "-0.0173", rows[1][5])

	assert.Equal(t, "scene2_1", rows[2][0])
}

func TestCoordinatesXLSXEmpty(t *testing.T) {
	svc := NewService(slog.Default())

	data, err := svc.CoordinatesXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Coordinates")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
