package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Viewport maps the world xy plane onto canvas dots. World +y is up.
type Viewport struct {
	Center mgl64.Vec3
	// Scale is dots per world unit.
	Scale  float64
	Width  int
	Height int
}

func NewViewport(c *Canvas) Viewport {
	return Viewport{Scale: 1, Width: c.DotWidth(), Height: c.DotHeight()}
}

func (v Viewport) ToScreen(p mgl64.Vec3) (int, int) {
	x := float64(v.Width)/2 + (p.X()-v.Center.X())*v.Scale
	y := float64(v.Height)/2 - (p.Y()-v.Center.Y())*v.Scale
	return int(math.Round(x)), int(math.Round(y))
}

// Fit centers the viewport on pts and picks the largest scale that keeps
// them inside with a margin of 10% on each side.
func (v Viewport) Fit(pts []mgl64.Vec3) Viewport {
	if len(pts) == 0 {
		return v
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		for i := 0; i < 2; i++ {
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}

	v.Center = mgl64.Vec3{(lo.X() + hi.X()) / 2, (lo.Y() + hi.Y()) / 2, 0}
	spanX := math.Max(hi.X()-lo.X(), 1)
	spanY := math.Max(hi.Y()-lo.Y(), 1)
	v.Scale = 0.8 * math.Min(float64(v.Width)/spanX, float64(v.Height)/spanY)
	return v
}
