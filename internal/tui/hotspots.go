package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mabhi256/vgdiag/internal/report"
	"github.com/mabhi256/vgdiag/utils"
)

// RenderHotspots charts where the findings concentrate: files, functions and the largest leaks.
func RenderHotspots(a *report.Analysis, width int) string {
	config := DefaultBarConfig(width - DefaultLabelWidth - 20)

	sections := []string{
		CreateHorizontalBarChart("📁 Files with most issues", rankedBars(a.TopFiles, utils.WarningStyle), config),
		CreateHorizontalBarChart("🔧 Functions with most issues", rankedBars(a.TopFunctions, utils.InfoStyle), config),
		CreateHorizontalBarChart("💧 Largest leaks", leakBars(a), config),
	}
	return strings.Join(sections, "\n\n")
}

func rankedBars(items []report.RankedItem, style lipgloss.Style) []BarData {
	if len(items) == 0 {
		return nil
	}

	top := items[0].Count
	bars := make([]BarData, 0, len(items))
	for _, item := range items {
		bars = append(bars, BarData{
			Label: item.Name,
			Ratio: float64(item.Count) / float64(top),
			Value: fmt.Sprintf("%d issues", item.Count),
			Style: style,
		})
	}
	return bars
}

func leakBars(a *report.Analysis) []BarData {
	if len(a.LargestLeaks) == 0 {
		return nil
	}

	top := utils.MemorySize(a.LargestLeaks[0].Bytes)
	bars := make([]BarData, 0, len(a.LargestLeaks))
	for _, leak := range a.LargestLeaks {
		label := "<no trace>"
		if origin, ok := leak.Origin(); ok {
			label = origin.Function
		}

		size := utils.MemorySize(leak.Bytes)
		bars = append(bars, BarData{
			Label: label,
			Ratio: size.Ratio(top),
			Value: fmt.Sprintf("%s in %d blocks, %s", size, leak.Blocks, leak.Kind),
			Style: utils.GetLeakKindStyle(leak.Kind),
		})
	}
	return bars
}
