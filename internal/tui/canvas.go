package tui

import (
	"strings"
)

// Braille cells pack a 2x4 dot grid, so a WxH character canvas exposes
// (2W)x(4H) addressable dots. Unicode offset 0x2800.
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
	return c
}

func (c *Canvas) DotWidth() int  { return c.Width * 2 }
func (c *Canvas) DotHeight() int { return c.Height * 4 }

// Set lights the dot at (x, y) in dot coordinates.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine joins two dots with Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// PlotSeries scales ys over [lo, hi] onto the full dot grid, joining
// consecutive samples. The first sample lands on the left edge, the
// last on the right; values outside the range clamp to the borders.
func (c *Canvas) PlotSeries(ys []float64, lo, hi float64) {
	if len(ys) < 2 || hi <= lo {
		return
	}

	dw, dh := c.DotWidth(), c.DotHeight()
	prevX, prevY := 0, 0
	for i, v := range ys {
		x := i * (dw - 1) / (len(ys) - 1)
		y := c.scaleY(v, lo, hi, dh)
		if i > 0 {
			c.DrawLine(prevX, prevY, x, y)
		}
		prevX, prevY = x, y
	}
}

// HLine draws a horizontal rule at data height v scaled over [lo, hi].
func (c *Canvas) HLine(v, lo, hi float64) {
	if hi <= lo || v < lo || v > hi {
		return
	}

	y := c.scaleY(v, lo, hi, c.DotHeight())
	for x := 0; x < c.DotWidth(); x += 3 {
		c.Set(x, y)
	}
}

// VLine draws a vertical rule at the dot column for frac in [0, 1].
func (c *Canvas) VLine(frac float64) {
	if frac < 0 || frac > 1 {
		return
	}

	x := int(frac * float64(c.DotWidth()-1))
	for y := 0; y < c.DotHeight(); y += 3 {
		c.Set(x, y)
	}
}

func (c *Canvas) scaleY(v, lo, hi float64, dh int) int {
	frac := (v - lo) / (hi - lo)
	y := dh - 1 - int(frac*float64(dh-1))
	if y < 0 {
		y = 0
	}
	if y > dh-1 {
		y = dh - 1
	}
	return y
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
