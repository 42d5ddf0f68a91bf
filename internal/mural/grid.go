package mural

import "fmt"

// Canonical grid dimensions. Positions are always persisted in this space.
const (
	DefaultCols = 20
	DefaultRows = 6
)

// DefaultGrid is the canonical 20x6 mural.
var DefaultGrid = Grid{Cols: DefaultCols, Rows: DefaultRows}

// Grid describes the canonical (logical) mural. The left half is columns
// [0, Half()) and the right half is [Half(), Cols).
type Grid struct {
	Cols int `yaml:"cols" json:"cols"`
	Rows int `yaml:"rows" json:"rows"`
}

// Half is the column index of the seam between the two halves.
func (g Grid) Half() int {
	return g.Cols / 2
}

func (g Grid) Validate() error {
	if g.Cols <= 0 || g.Rows <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", g.Cols, g.Rows)
	}
	if g.Cols%2 != 0 {
		return fmt.Errorf("grid columns must be even, got %d", g.Cols)
	}
	return nil
}

// TileSize returns the pixel size of one cell for a container of the given width.
// Narrow viewports render a single half, so each cell is twice as wide.
func (g Grid) TileSize(containerWidth float64, narrow bool) float64 {
	if narrow {
		return containerWidth / float64(g.Half())
	}
	return containerWidth / float64(g.Cols)
}

// ToVisual maps a logical cell to the cell it is rendered at. On narrow
// viewports the right half is stacked beneath the left half.
func (g Grid) ToVisual(x, y int, narrow bool) (int, int) {
	if !narrow || x < g.Half() {
		return x, y
	}
	return x - g.Half(), y + g.Rows
}

// ToLogical is the inverse of ToVisual.
func (g Grid) ToLogical(vx, vy int, narrow bool) (int, int) {
	if !narrow || vy < g.Rows {
		return vx, vy
	}
	return vx + g.Half(), vy - g.Rows
}

// VisualSize is the size of the rendered canvas in cells.
func (g Grid) VisualSize(narrow bool) (cols, rows int) {
	if narrow {
		return g.Half(), g.Rows * 2
	}
	return g.Cols, g.Rows
}

// DividerRow is the visual row at which the two stacked halves meet, or -1
// when there is no seam to draw.
func (g Grid) DividerRow(narrow bool) int {
	if narrow {
		return g.Rows
	}
	return -1
}
