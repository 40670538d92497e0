package render

import (
	"github.com/gdamore/tcell/v2"
)

// Cell is one composed screen cell
type Cell struct {
	Rune  rune
	Style tcell.Style
}

// RenderBuffer is the compositor renderers draw into before the frame is flushed
type RenderBuffer struct {
	cells  []Cell
	width  int
	height int
}

// NewRenderBuffer creates a buffer with the specified dimensions
func NewRenderBuffer(width, height int) *RenderBuffer {
	b := &RenderBuffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity is insufficient
func (b *RenderBuffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Clear resets all cells to empty using exponential copy
func (b *RenderBuffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = Cell{Rune: ' ', Style: tcell.StyleDefault}
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

func (b *RenderBuffer) Width() int  { return b.width }
func (b *RenderBuffer) Height() int { return b.height }

func (b *RenderBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Set writes a cell, out of bounds writes are ignored
func (b *RenderBuffer) Set(x, y int, r rune, style tcell.Style) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = Cell{Rune: r, Style: style}
}

// SetFg replaces the rune and foreground, keeping the background already composed
func (b *RenderBuffer) SetFg(x, y int, r rune, fg tcell.Color) {
	if !b.inBounds(x, y) {
		return
	}
	c := &b.cells[y*b.width+x]
	c.Rune = r
	c.Style = c.Style.Foreground(fg)
}

// Text writes s left to right and returns the column after the last rune written
func (b *RenderBuffer) Text(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		b.Set(x, y, r, style)
		x++
	}
	return x
}

// Get returns the cell at x, y
func (b *RenderBuffer) Get(x, y int) (Cell, bool) {
	if !b.inBounds(x, y) {
		return Cell{}, false
	}
	return b.cells[y*b.width+x], true
}

// Row returns the runes of line y as a string
func (b *RenderBuffer) Row(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	runes := make([]rune, b.width)
	for x := 0; x < b.width; x++ {
		runes[x] = b.cells[y*b.width+x].Rune
	}
	return string(runes)
}

// FlushToScreen copies every cell into the screen's back buffer
func (b *RenderBuffer) FlushToScreen(s tcell.Screen) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c := b.cells[y*b.width+x]
			s.SetContent(x, y, c.Rune, nil, c.Style)
		}
	}
}
