package render

import (
	"context"
	"fmt"
	"path/filepath"

	"seedsweep/domain/core"
	"seedsweep/domain/stats"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// HeatmapRenderer draws a correlation matrix as a colored grid, one cell per column pair
type HeatmapRenderer struct {
	CellSize vg.Length
	Colors   int
}

// NewHeatmapRenderer creates a renderer with a blue-red diverging palette
func NewHeatmapRenderer() *HeatmapRenderer {
	return &HeatmapRenderer{CellSize: 0.6 * vg.Inch, Colors: 20}
}

// correlationPalette spans -1 (blue) to 1 (red) and meets at 0.
func correlationPalette(n int) palette.Palette {
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	return cm.Palette(n)
}

// matrixGrid adapts a correlation matrix to plotter.GridXYZ.
// Row 0 is drawn at the top, like a printed matrix.
type matrixGrid struct {
	m stats.CorrelationMatrix
}

func (g matrixGrid) Dims() (c, r int)   { return g.m.Size(), g.m.Size() }
func (g matrixGrid) Z(c, r int) float64 { return g.m.At(g.m.Size()-1-r, c) }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }

// Render writes the heatmap to path; the image format follows the extension
// (.png, .svg, .pdf, ...).
func (h *HeatmapRenderer) Render(ctx context.Context, m stats.CorrelationMatrix, title, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.Size() < 2 {
		return fmt.Errorf("%w: heatmap needs at least two numeric columns", core.ErrInsufficientData)
	}

	p := plot.New()
	p.Title.Text = title

	heat := plotter.NewHeatMap(matrixGrid{m: m}, correlationPalette(h.Colors))
	heat.Min, heat.Max = -1, 1
	p.Add(heat)

	rows := make([]string, m.Size())
	for i, name := range m.Columns {
		rows[m.Size()-1-i] = name
	}
	p.NominalX(m.Columns...)
	p.NominalY(rows...)
	p.X.Tick.Label.Rotation = 0.8
	p.X.Tick.Label.XAlign = -1

	size := h.CellSize*vg.Length(m.Size()) + 1.5*vg.Inch
	if err := p.Save(size, size, path); err != nil {
		return fmt.Errorf("save heatmap %s: %w", filepath.Base(path), err)
	}
	return nil
}
