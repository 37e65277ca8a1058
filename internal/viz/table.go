package viz

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/cachelayout/internal/bench"
)

// RenderReport renders one row per result.
func RenderReport(r *bench.Report) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(Subtle).
		Headers("OPERATION", "LAYOUT", "COUNT", "MEAN", "MEDIAN", "STDDEV", "NS/PARTICLE", "ENERGY")

	for _, res := range r.Results {
		st := res.Stats
		t.Row(
			string(res.Case.Operation),
			string(res.Case.Layout),
			formatCount(res.Case.Count),
			formatDuration(st.Mean),
			formatDuration(st.Median),
			formatDuration(st.StdDev),
			fmt.Sprintf("%.3f", res.NsPerParticle()),
			strconv.FormatFloat(float64(res.Energy), 'g', 6, 32),
		)
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%d iterations, %d warmup, dt=%g, gravity=(%g, %g, %g)",
		r.Iterations, r.Warmup, r.Params.Dt, r.Params.Gravity.X, r.Params.Gravity.Y, r.Params.Gravity.Z)))
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n")
	return b.String()
}

// RenderSpeedups renders the AoS/SoA ratio per operation and count. Ratios
// above 1 mean the SoA layout was faster.
func RenderSpeedups(r *bench.Report) string {
	speedups := r.Speedups()
	if len(speedups) == 0 {
		return Subtle.Render("no aos/soa pairs to compare") + "\n"
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(Subtle).
		Headers("OPERATION", "COUNT", "AOS", "SOA", "AOS/SOA", "STATE")

	for _, sp := range speedups {
		state := "match"
		if !sp.EnergyMatch {
			state = Slower.Render("DIVERGED")
		}
		t.Row(
			string(sp.Operation),
			formatCount(sp.Count),
			formatDuration(sp.AoS),
			formatDuration(sp.SoA),
			ratioStyle(sp.Ratio).Render(fmt.Sprintf("%.2fx", sp.Ratio)),
			state,
		)
	}
	return t.String() + "\n"
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	case d >= time.Microsecond:
		return fmt.Sprintf("%.2fµs", float64(d)/float64(time.Microsecond))
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}

// formatCount abbreviates round particle counts: 10000 -> 10K, 1000000 -> 1M.
func formatCount(n int) string {
	switch {
	case n >= 1_000_000 && n%1_000_000 == 0:
		return fmt.Sprintf("%dM", n/1_000_000)
	case n >= 1_000 && n%1_000 == 0:
		return fmt.Sprintf("%dK", n/1_000)
	default:
		return strconv.Itoa(n)
	}
}
