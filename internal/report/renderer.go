package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mabhi256/vgdiag/internal/valgrind"
	"github.com/mabhi256/vgdiag/utils"
)

const notAvailable = "N/A"

var numberPrinter = message.NewPrinter(language.English)

// groupDigits formats n with thousands separators: 1024 -> "1,024".
func groupDigits(n int64) string {
	return numberPrinter.Sprintf("%d", n)
}

type Renderer struct {
	opts Options

	titleStyle  lipgloss.Style
	headerStyle lipgloss.Style
	actionStyle lipgloss.Style
	mutedStyle  lipgloss.Style
}

func NewRenderer(opts Options) *Renderer {
	return &Renderer{
		opts:        opts,
		titleStyle:  utils.TitleStyle,
		headerStyle: utils.InfoStyle.Bold(true),
		actionStyle: utils.WarningStyle,
		mutedStyle:  utils.MutedStyle,
	}
}

func (r *Renderer) Options() Options {
	return r.opts
}

// Render produces the sectioned text report. Output only depends on fs and the options.
func (r *Renderer) Render(fs *valgrind.FindingSet) string {
	return r.RenderAnalysis(Analyze(fs, r.opts))
}

func (r *Renderer) RenderAnalysis(a *Analysis) string {
	w := &reportWriter{}

	w.line(r.style(r.titleStyle, "🔍 VALGRIND ANALYSIS SUMMARY"))
	w.line(strings.Repeat("=", 50))
	w.blank()

	r.writeOverview(w, a)
	r.writeErrorKinds(w, a)
	r.writeRanked(w, "📁 MOST PROBLEMATIC FILES:", a.TopFiles, "issues")
	r.writeRanked(w, "🔧 MOST PROBLEMATIC FUNCTIONS:", a.TopFunctions, "issues")
	r.writeLeaks(w, a)
	r.writeUninit(w, a)
	r.writeContexts(w, a)
	r.writeRecommendations(w, a)
	r.writePriorityActions(w, a)

	return w.String()
}

func (r *Renderer) writeOverview(w *reportWriter, a *Analysis) {
	fs := a.Findings
	errors, contexts, suppressed := notAvailable, notAvailable, notAvailable
	if fs.Summary != nil {
		errors = fmt.Sprint(fs.Summary.Errors)
		contexts = fmt.Sprint(fs.Summary.Contexts)
		suppressed = fmt.Sprint(fs.Summary.Suppressed)
	}

	w.line(r.header("📊 OVERALL STATISTICS:"))
	w.linef("  Total Errors: %s", errors)
	w.linef("  Error Contexts: %s", contexts)
	w.linef("  Suppressed Errors: %s", suppressed)
	w.linef("  Total Memory Leaked: %s bytes in %d blocks", groupDigits(fs.TotalBytesLeaked), fs.TotalBlocksLeaked)
	w.linef("  Suppressed Memory: %s bytes in %d blocks", groupDigits(fs.SuppressedBytes), fs.SuppressedBlocks)
	w.blank()
}

func (r *Renderer) writeErrorKinds(w *reportWriter, a *Analysis) {
	w.line(r.header("🚨 ERROR TYPES:"))
	for _, kind := range a.ErrorKinds {
		w.linef("  %s: %d occurrences", kind.Name, kind.Count)
	}
	w.blank()
}

func (r *Renderer) writeRanked(w *reportWriter, title string, items []RankedItem, unit string) {
	w.line(r.header(title))
	for _, item := range items {
		w.linef("  %s: %d %s", item.Name, item.Count, unit)
	}
	w.blank()
}

func (r *Renderer) writeLeaks(w *reportWriter, a *Analysis) {
	w.line(r.header("💧 MEMORY LEAK ANALYSIS:"))
	if len(a.Findings.Leaks) > 0 {
		w.line("  Leak Types:")
		for _, kind := range a.LeakKinds {
			w.linef("    %s: %d instances", kind.Name, kind.Count)
		}

		w.line("  Largest Leaks:")
		for _, leak := range a.LargestLeaks {
			w.linef("    %d bytes (%s)", leak.Bytes, leak.Kind)
			if origin, ok := leak.Origin(); ok {
				w.line(r.style(r.mutedStyle, fmt.Sprintf("      Origin: %s (%s)", origin.Function, origin.Location)))
			}
		}
	}
	w.blank()
}

func (r *Renderer) writeUninit(w *reportWriter, a *Analysis) {
	w.line(r.header("⚠️  UNINITIALIZED VALUE ERRORS:"))
	if len(a.Findings.UninitFindings) > 0 {
		w.line("  Most affected files:")
		for _, file := range a.UninitFiles {
			w.linef("    %s: %d errors", file.Name, file.Count)
		}

		w.line("  Most affected functions:")
		for _, fn := range a.UninitFunctions {
			w.linef("    %s: %d errors", fn.Name, fn.Count)
		}
	}
	w.blank()
}

func (r *Renderer) writeContexts(w *reportWriter, a *Analysis) {
	w.line(r.header("📋 ERROR CONTEXT ANALYSIS:"))
	if a.ContextCount > 0 {
		w.linef("  Total contexts with errors: %d", a.ContextCount)
		if len(a.MultiErrorCounts) > 0 {
			w.line("  Contexts with multiple errors:")
			for _, ctx := range a.MultiErrorCounts {
				w.linef("    Context %d: %d errors", ctx.Context, ctx.Errors)
			}
		}
	}
	w.blank()
}

func (r *Renderer) writeRecommendations(w *reportWriter, a *Analysis) {
	w.line(r.header("💡 RECOMMENDATIONS:"))
	for _, rec := range a.Recommendations {
		for _, line := range rec.Lines {
			w.linef("  🔸 %s", line)
		}
	}
	w.blank()
}

func (r *Renderer) writePriorityActions(w *reportWriter, a *Analysis) {
	w.line(r.header("🎯 PRIORITY ACTIONS:"))
	for i, action := range a.PriorityActions {
		w.line(r.style(r.actionStyle, fmt.Sprintf("  %d. %s", i+1, action)))
	}
}

func (r *Renderer) header(text string) string {
	return r.style(r.headerStyle, text)
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.opts.Styled {
		return text
	}
	return s.Render(text)
}

type reportWriter struct {
	lines []string
}

func (w *reportWriter) line(s string) {
	w.lines = append(w.lines, s)
}

func (w *reportWriter) linef(format string, args ...any) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

func (w *reportWriter) blank() {
	w.lines = append(w.lines, "")
}

func (w *reportWriter) String() string {
	return strings.Join(w.lines, "\n")
}
