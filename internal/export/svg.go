package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/cachelayout/internal/bench"
	"github.com/san-kum/cachelayout/internal/layout"
)

var layoutColors = map[layout.Kind]string{
	layout.AoS: "#ff4444",
	layout.SoA: "#00ccff",
}

const margin = 50.0

// ChartSVG draws mean ns/particle against particle count (log10 x axis) for
// one operation, one polyline per layout. It returns "" when no layout has
// at least two points.
func ChartSVG(r *bench.Report, op bench.Operation, width, height int) string {
	type point struct{ X, Y float64 }

	series := make(map[layout.Kind][]point)
	minX, maxX := math.Inf(1), math.Inf(-1)
	maxY := 0.0
	for _, k := range layout.Kinds() {
		for _, n := range r.Counts() {
			res, ok := r.Find(k, op, n)
			if !ok || n <= 0 {
				continue
			}
			p := point{X: math.Log10(float64(n)), Y: res.NsPerParticle()}
			series[k] = append(series[k], p)
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
		if len(series[k]) < 2 {
			delete(series, k)
		}
	}
	if len(series) == 0 {
		return ""
	}
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == 0 {
		maxY = 1
	}

	w, h := float64(width), float64(height)
	plotW, plotH := w-2*margin, h-2*margin
	toScreen := func(p point) (float64, float64) {
		return margin + (p.X-minX)/(maxX-minX)*plotW, h - margin - p.Y/maxY*plotH
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	sb.WriteString(fmt.Sprintf(`<text x="%.0f" y="%.0f" fill="#ffffff" font-family="monospace" font-size="14">%s: ns/particle</text>
`, margin, margin/2, op))
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#444466"/>
`, margin, h-margin, w-margin, h-margin))
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#444466"/>
`, margin, margin, margin, h-margin))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="#888899" font-family="monospace" font-size="11">%.3g</text>
`, 4.0, margin+4, maxY))

	for i, k := range layout.Kinds() {
		pts, ok := series[k]
		if !ok {
			continue
		}
		coords := make([]string, len(pts))
		for j, p := range pts {
			x, y := toScreen(p)
			coords[j] = fmt.Sprintf("%.1f,%.1f", x, y)
		}
		color := layoutColors[k]
		sb.WriteString(fmt.Sprintf(`<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>
`, strings.Join(coords, " "), color))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="12">%s</text>
`, w-margin-40, margin+float64(i)*16, color, k))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteSVG writes ChartSVG output to w.
func WriteSVG(w io.Writer, r *bench.Report, op bench.Operation, width, height int) error {
	svg := ChartSVG(r, op, width, height)
	if svg == "" {
		return fmt.Errorf("export: %s needs at least two particle counts", op)
	}
	_, err := io.WriteString(w, svg)
	return err
}
