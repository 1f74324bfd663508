package viz

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
)

// Frame is one drawable snapshot of a scene.
type Frame struct {
	Points  []mgl64.Vec3
	Fixed   []bool
	Springs [][2]int
}

func FrameFromScene(s *experiment.Scene) Frame {
	pts := s.Points()
	f := Frame{
		Points:  make([]mgl64.Vec3, len(pts)),
		Fixed:   make([]bool, len(pts)),
		Springs: make([][2]int, 0, len(s.Springs())),
	}
	index := make(map[*dynamo.MassPoint]int, len(pts))
	for i, p := range pts {
		f.Points[i] = p.Position
		f.Fixed[i] = s.Fixed(i)
		index[p] = i
	}
	for _, sp := range s.Springs() {
		f.Springs = append(f.Springs, [2]int{index[sp.Point1], index[sp.Point2]})
	}
	return f
}

// Draw renders f onto c: springs as lines, free points as dots and anchors
// as crosses.
func (f Frame) Draw(c *Canvas, v Viewport) {
	for _, sp := range f.Springs {
		x0, y0 := v.ToScreen(f.Points[sp[0]])
		x1, y1 := v.ToScreen(f.Points[sp[1]])
		c.DrawLine(x0, y0, x1, y1)
	}
	for i, p := range f.Points {
		x, y := v.ToScreen(p)
		if f.Fixed[i] {
			c.DrawCross(x, y, 2)
		} else {
			c.DrawDot(x, y, 1)
		}
	}
}
