package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cachelayout/internal/bench"
	"github.com/san-kum/cachelayout/internal/layout"
)

// Chart plots mean ns/particle against particle count for one operation,
// one series per layout (AoS red, SoA blue). It returns "" when the report
// has fewer than two counts for the operation.
func Chart(r *bench.Report, op bench.Operation, width, height int) string {
	counts := r.Counts()
	series := make([][]float64, 0, 2)
	colors := make([]asciigraph.AnsiColor, 0, 2)
	names := make([]string, 0, 2)

	for _, k := range layout.Kinds() {
		data := make([]float64, 0, len(counts))
		for _, n := range counts {
			if res, ok := r.Find(k, op, n); ok {
				data = append(data, res.NsPerParticle())
			}
		}
		if len(data) < 2 {
			continue
		}
		series = append(series, data)
		names = append(names, string(k))
		if k == layout.AoS {
			colors = append(colors, asciigraph.Red)
		} else {
			colors = append(colors, asciigraph.Blue)
		}
	}
	if len(series) == 0 {
		return ""
	}

	caption := fmt.Sprintf("%s ns/particle, counts %s..%s (%v)",
		op, formatCount(counts[0]), formatCount(counts[len(counts)-1]), names)

	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(caption),
	)
}
