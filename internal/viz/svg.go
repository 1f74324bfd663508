package viz

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// FrameToSVG draws f into a width×height SVG document, fitted to its points.
func FrameToSVG(f Frame, width, height int, theme Theme) string {
	v := Viewport{Width: width, Height: height}.Fit(f.Points)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g stroke="%s" stroke-width="1.5">
`, width, height, width, height, theme.Background, theme.Stroke)

	for _, sp := range f.Springs {
		x0, y0 := v.ToScreen(f.Points[sp[0]])
		x1, y1 := v.ToScreen(f.Points[sp[1]])
		fmt.Fprintf(&sb, "<line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\"/>\n", x0, y0, x1, y1)
	}
	sb.WriteString("</g>\n")

	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", theme.Fill)
	for i, p := range f.Points {
		x, y := v.ToScreen(p)
		if f.Fixed[i] {
			fmt.Fprintf(&sb, "<rect x=\"%d\" y=\"%d\" width=\"8\" height=\"8\"/>\n", x-4, y-4)
		} else {
			fmt.Fprintf(&sb, "<circle cx=\"%d\" cy=\"%d\" r=\"4\"/>\n", x, y)
		}
	}
	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// TrajectoryToSVG draws the xy path of one point.
func TrajectoryToSVG(path []mgl64.Vec3, width, height int, theme Theme) string {
	if len(path) < 2 {
		return ""
	}

	v := Viewport{Width: width, Height: height}.Fit(path)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, theme.Background, theme.Stroke)

	for i, p := range path {
		x, y := v.ToScreen(p)
		if i == 0 {
			fmt.Fprintf(&sb, "%d,%d", x, y)
		} else {
			fmt.Fprintf(&sb, " L%d,%d", x, y)
		}
	}

	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}
