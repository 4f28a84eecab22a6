// Package overlay draws a modal view on top of a rendered screen.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Placement positions the foreground relative to the background. Positions
// use lipgloss values: 0 is left or top, 0.5 centred, 1 right or bottom.
type Placement struct {
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
}

// Centered places the foreground in the middle of the screen.
var Centered = Placement{Horizontal: lipgloss.Center, Vertical: lipgloss.Center}

// Compose overlays foreground atop background. The background is clipped or
// padded to width x height and stays visible outside the foreground box.
func Compose(background string, width, height int, foreground string, placement Placement) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	bg := fit(background, width, height)
	if foreground == "" {
		return strings.Join(bg, "\n")
	}

	fg := strings.Split(foreground, "\n")
	boxW := 0
	for _, line := range fg {
		boxW = max(boxW, ansi.StringWidth(line))
	}
	boxW = min(boxW, width)
	boxH := min(len(fg), height)

	x := offset(width, boxW, placement.Horizontal)
	y := offset(height, boxH, placement.Vertical)

	for row := 0; row < boxH; row++ {
		line := bg[y+row]
		left := ansi.Truncate(line, x, "")
		right := ansi.TruncateLeft(line, x+boxW, "")
		bg[y+row] = left + pad(ansi.Truncate(fg[row], boxW, ""), boxW) + right
	}
	return strings.Join(bg, "\n")
}

func fit(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		lines[i] = pad(ansi.Truncate(line, width, ""), width)
	}
	return lines
}

func pad(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func offset(total, size int, pos lipgloss.Position) int {
	o := int(float64(total-size) * float64(pos))
	return max(0, min(o, total-size))
}
