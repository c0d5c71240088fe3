package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/bellman/internal/hjb"
	"github.com/san-kum/bellman/internal/tui"
)

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *tui.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

type bounds struct {
	minX, maxX float64
	minY, maxY float64
}

// curveBounds pads the data range by 10% on each side.
func curveBounds(xs, ys []float64) bounds {
	b := bounds{minX: xs[0], maxX: xs[0], minY: ys[0], maxY: ys[0]}
	for i := range xs {
		if xs[i] < b.minX {
			b.minX = xs[i]
		}
		if xs[i] > b.maxX {
			b.maxX = xs[i]
		}
		if ys[i] < b.minY {
			b.minY = ys[i]
		}
		if ys[i] > b.maxY {
			b.maxY = ys[i]
		}
	}

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b
}

func (b bounds) mapPoint(x, y float64, width, height int) (float64, float64) {
	px := (x - b.minX) / (b.maxX - b.minX) * float64(width)
	py := float64(height) - (y-b.minY)/(b.maxY-b.minY)*float64(height)
	return px, py
}

func pathData(xs, ys []float64, b bounds, width, height int) string {
	var sb strings.Builder
	for i := range xs {
		px, py := b.mapPoint(xs[i], ys[i], width, height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f", px, py))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
		}
	}
	return sb.String()
}

// CurveToSVG renders one curve over the capital grid as an SVG path.
func CurveToSVG(xs, ys []float64, width, height int, strokeColor string) string {
	if len(xs) < 2 || len(xs) != len(ys) {
		return ""
	}

	b := curveBounds(xs, ys)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
</svg>`, width, height, width, height, strokeColor, pathData(xs, ys, b, width, height)))
	return sb.String()
}

// SolutionToSVG stacks value, consumption and savings panels into one
// figure. The savings panel carries a dashed zero line when the policy
// changes sign.
func SolutionToSVG(g *hjb.Grid, result *hjb.Result, width, panelHeight int) string {
	xs := g.Points()
	if len(xs) < 2 || result == nil {
		return ""
	}

	panels := []struct {
		label string
		ys    []float64
		color string
	}{
		{"value v(k)", result.Value, "#00ff00"},
		{"consumption c(k)", result.Policy, "#00bfff"},
		{"savings s(k)", result.Drift, "#ff8c00"},
	}

	gap := 24
	totalHeight := len(panels)*(panelHeight+gap) + gap

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, totalHeight, width, totalHeight))

	for i, p := range panels {
		if len(p.ys) != len(xs) {
			continue
		}

		offset := gap + i*(panelHeight+gap)
		b := curveBounds(xs, p.ys)

		sb.WriteString(fmt.Sprintf("<g transform=\"translate(0,%d)\">\n", offset))
		if b.minY < 0 && b.maxY > 0 {
			_, zy := b.mapPoint(b.minX, 0, width, panelHeight)
			sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444444" stroke-dasharray="4 4"/>
`, zy, width, zy))
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, p.color, pathData(xs, p.ys, b, width, panelHeight)))
		sb.WriteString(fmt.Sprintf(`<text x="8" y="16" fill="#cccccc" font-family="monospace" font-size="12">%s</text>
`, p.label))
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
