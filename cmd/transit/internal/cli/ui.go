package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorYellow = lipgloss.Color("220")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBar     = lipgloss.NewStyle().Foreground(colorCyan)
)

const barWidth = 32

// fraction maps position onto [from, to]. Overshoot is kept up to a quarter
// of the range on either side.
func fraction(position, from, to float64) float64 {
	if to == from {
		return 1
	}
	f := (position - from) / (to - from)
	return math.Max(-0.25, math.Min(1.25, f))
}

// bar draws position as a horizontal bar that is barWidth cells long at to.
func bar(position, from, to float64) string {
	n := int(math.Round(math.Max(0, fraction(position, from, to)) * barWidth))
	return strings.Repeat("█", n)
}
