package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille cell grid with one color index per cell. When dots of
// different kinds land in the same cell, the last write wins.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	colors        [][]int
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		colors: make([][]int, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.colors[i] = make([]int, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
			c.colors[i][j] = -1
		}
	}
	return c
}

// Set marks a dot at (x, y) in sub-pixel coordinates and paints its cell
// with the given color index. The canvas size in sub-pixels is
// (Width*2) x (Height*4).
func (c *Canvas) Set(x, y, color int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.colors[row][col] = color
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
			c.colors[i][j] = -1
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render colors each row with the given per-kind styles, batching adjacent
// cells of the same color into one styled span.
func (c *Canvas) Render(styles []lipgloss.Style) string {
	var b strings.Builder
	for row := range c.Grid {
		if c.Width == 0 {
			b.WriteString("\n")
			continue
		}
		spanStart := 0
		spanColor := c.colors[row][0]
		for col := 1; col <= c.Width; col++ {
			color := -2
			if col < c.Width {
				color = c.colors[row][col]
			}
			if color == spanColor {
				continue
			}
			span := string(c.Grid[row][spanStart:col])
			if spanColor >= 0 && spanColor < len(styles) {
				b.WriteString(styles[spanColor].Render(span))
			} else {
				b.WriteString(span)
			}
			spanStart = col
			spanColor = color
		}
		b.WriteString("\n")
	}
	return b.String()
}
