package mural

// NarrowBreakpoint is the viewport width (px) below which the mural renders
// as a stacked single half.
const NarrowBreakpoint = 1024

// Point is a position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is the bounding rectangle of the mural container in client space.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Origin() Point {
	return Point{X: r.Left, Y: r.Top}
}

// Viewport is what the hosting page reports about itself: the global
// viewport width and the measured mural container.
type Viewport struct {
	Width     float64 `json:"width"`
	Container Rect    `json:"container"`
}

func (v Viewport) Narrow() bool {
	return v.Width < NarrowBreakpoint
}

// Ready reports whether the container has been measured. Nothing that
// depends on tile size may run before this.
func (v Viewport) Ready() bool {
	return v.Container.Width > 0
}

func (v Viewport) TileSize(g Grid) float64 {
	if !v.Ready() {
		return 0
	}
	return g.TileSize(v.Container.Width, v.Narrow())
}
