package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mabhi256/vgdiag/utils"
)

const (
	DefaultLabelWidth = 28
	DefaultFilledChar = "█"
	DefaultEmptyChar  = "▱"
	MinBarWidth       = 1
)

// BarData represents a single bar in the chart
type BarData struct {
	Label string         // Text label for the bar
	Ratio float64        // Share of the widest bar, 0..1
	Value string         // Text shown after the bar
	Style lipgloss.Style // Color/style for the bar
}

// HorizontalBarConfig defines chart appearance
type HorizontalBarConfig struct {
	BarAreaWidth int
	LabelWidth   int
	FilledChar   string
	EmptyChar    string
}

func DefaultBarConfig(barAreaWidth int) HorizontalBarConfig {
	return HorizontalBarConfig{
		BarAreaWidth: max(MinBarWidth, barAreaWidth),
		LabelWidth:   DefaultLabelWidth,
		FilledChar:   DefaultFilledChar,
		EmptyChar:    DefaultEmptyChar,
	}
}

// CreateHorizontalBar renders "Label │████▱▱▱│ Value"
func CreateHorizontalBar(data BarData, config HorizontalBarConfig) string {
	ratio := min(max(data.Ratio, 0), 1)
	barWidth := max(MinBarWidth, int(ratio*float64(config.BarAreaWidth)))
	emptyWidth := max(0, config.BarAreaWidth-barWidth)

	bar := strings.Repeat(config.FilledChar, barWidth) +
		strings.Repeat(config.EmptyChar, emptyWidth)

	label := utils.PadRight(utils.TruncateString(data.Label, config.LabelWidth), config.LabelWidth)
	return fmt.Sprintf("%s │%s│ %s", label, data.Style.Render(bar), data.Value)
}

// CreateHorizontalBarChart builds a titled chart, or an empty-state line when there are no bars.
func CreateHorizontalBarChart(title string, bars []BarData, config HorizontalBarConfig) string {
	lines := []string{utils.TitleStyle.Render(title), ""}

	if len(bars) == 0 {
		lines = append(lines, utils.GoodStyle.Render("  nothing recorded"))
		return strings.Join(lines, "\n")
	}

	for _, bar := range bars {
		lines = append(lines, CreateHorizontalBar(bar, config))
	}
	return strings.Join(lines, "\n")
}
