package render

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"seedsweep/domain/core"
	"seedsweep/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMatrix() stats.CorrelationMatrix {
	return stats.CorrelationMatrix{
		Columns: []string{"FSIQ", "Weight", "partY"},
		Values: [][]float64{
			{1, 0.2, -0.01},
			{0.2, 1, math.NaN()},
			{-0.01, math.NaN(), 1},
		},
	}
}

func TestMatrixGrid_FlipsRows(t *testing.T) {
	g := matrixGrid{m: sampleMatrix()}
	c, r := g.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 3, r)

	// Top row of the drawing (r = 2) is matrix row 0.
	assert.Equal(t, -0.01, g.Z(2, 2))
	assert.Equal(t, 0.2, g.Z(0, 1))
}

func TestCorrelationPalette_Diverges(t *testing.T) {
	colors := correlationPalette(21).Colors()
	require.Len(t, colors, 21)

	r, _, b, _ := colors[0].RGBA()
	assert.Greater(t, b, r, "negative end is blue")
	r, _, b, _ = colors[20].RGBA()
	assert.Greater(t, r, b, "positive end is red")
}

func TestRender_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corr.png")

	err := NewHeatmapRenderer().Render(context.Background(), sampleMatrix(), "partY seed 8", path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRender_NeedsTwoColumns(t *testing.T) {
	m := stats.CorrelationMatrix{Columns: []string{"a"}, Values: [][]float64{{1}}}
	err := NewHeatmapRenderer().Render(context.Background(), m, "", filepath.Join(t.TempDir(), "x.png"))
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}
