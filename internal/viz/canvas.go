package viz

import (
	"math"
	"strings"

	"github.com/san-kum/cachelayout/internal/layout"
)

// Braille cells are 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var brailleBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a Braille dot grid of Width x Height cells, addressed in dots
// (2*Width x 4*Height).
type Canvas struct {
	Width, Height int
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row][col] |= brailleBits[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		for j := range c.cells[i] {
			c.cells[i][j] = brailleBlank
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Scatter clears the canvas and plots the x/y projection of up to maxPoints
// particles, evenly strided, scaled to the bounding box of the plotted set.
// Non-finite positions are skipped.
func (c *Canvas) Scatter(sys layout.System, maxPoints int) {
	c.Clear()
	n := sys.Len()
	if n == 0 || maxPoints <= 0 {
		return
	}
	stride := 1
	if n > maxPoints {
		stride = (n + maxPoints - 1) / maxPoints
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i += stride {
		p, _, _ := sys.Particle(i)
		x, y := float64(p.X), float64(p.Y)
		if !finite(x) || !finite(y) {
			continue
		}
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	if math.IsInf(minX, 1) {
		return
	}

	dotsW, dotsH := float64(c.Width*2-1), float64(c.Height*4-1)
	spanX, spanY := maxX-minX, maxY-minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	for i := 0; i < n; i += stride {
		p, _, _ := sys.Particle(i)
		x, y := float64(p.X), float64(p.Y)
		if !finite(x) || !finite(y) {
			continue
		}
		dx := int(math.Round((x - minX) / spanX * dotsW))
		dy := int(math.Round((maxY - y) / spanY * dotsH))
		c.Set(dx, dy)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
