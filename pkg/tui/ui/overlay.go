package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Placement aligns an overlay inside the screen. Positions run from 0 (top
// or left) to 1 (bottom or right).
type Placement struct {
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
}

// Centered places an overlay in the middle of the screen.
var Centered = Placement{Horizontal: lipgloss.Center, Vertical: lipgloss.Center}

// Overlay draws fg on top of bg, a width x height screen. Background cells
// outside the overlay box stay visible, styling included.
func Overlay(bg, fg string, width, height int, at Placement) string {
	screen := fitLines(bg, width, height)
	if fg == "" || width <= 0 || height <= 0 {
		return strings.Join(screen, "\n")
	}

	fgLines := strings.Split(fg, "\n")
	boxW := min(lipgloss.Width(fg), width)
	boxH := min(len(fgLines), height)
	x := int(float64(width-boxW) * float64(at.Horizontal))
	y := int(float64(height-boxH) * float64(at.Vertical))

	for row := 0; row < boxH; row++ {
		line := screen[y+row]
		left := ansi.Truncate(line, x, "")
		right := ansi.TruncateLeft(line, x+boxW, "")
		screen[y+row] = left + pad(ansi.Truncate(fgLines[row], boxW, ""), boxW) + right
	}
	return strings.Join(screen, "\n")
}

// fitLines cuts or pads view to exactly height lines of width cells.
func fitLines(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, l := range lines {
		lines[i] = pad(ansi.Truncate(l, width, ""), width)
	}
	return lines
}

func pad(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
