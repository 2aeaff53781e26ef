package report

import (
	"slices"

	"github.com/mabhi256/vgdiag/internal/valgrind"
)

// Options bounds each ranked section and sets the priority thresholds.
type Options struct {
	TopFiles     int
	TopFunctions int
	TopLeaks     int
	TopUninit    int
	TopContexts  int

	UninitFixThreshold    int   // uninitialised-value count above which a remediation pass is suggested
	LeakBytesThreshold    int64 // leaked bytes above which leaks are called out
	UnsafeStringFunctions []string

	// Styled renders headers with terminal styles. Saved reports are never styled.
	Styled bool
}

func DefaultOptions() Options {
	return Options{
		TopFiles:              10,
		TopFunctions:          10,
		TopLeaks:              5,
		TopUninit:             5,
		TopContexts:           5,
		UninitFixThreshold:    5,
		LeakBytesThreshold:    10000,
		UnsafeStringFunctions: []string{"strlen"},
	}
}

type RankedItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ContextItem struct {
	Context int `json:"context"`
	Errors  int `json:"errors"`
}

// Analysis holds every ranked view of a FindingSet that the report shows.
type Analysis struct {
	Findings *valgrind.FindingSet

	ErrorKinds   []RankedItem
	TopFiles     []RankedItem
	TopFunctions []RankedItem

	LeakKinds    []RankedItem
	LargestLeaks []valgrind.LeakRecord

	UninitFiles     []RankedItem
	UninitFunctions []RankedItem

	ContextCount     int
	MultiErrorCounts []ContextItem

	Recommendations []Recommendation
	PriorityActions []string
}

func Analyze(fs *valgrind.FindingSet, opts Options) *Analysis {
	if fs == nil {
		fs = valgrind.NewFindingSet()
	}

	a := &Analysis{
		Findings:     fs,
		ErrorKinds:   rank(fs.ErrorKinds, 0),
		TopFiles:     rank(fs.Files, opts.TopFiles),
		TopFunctions: rank(fs.Functions, opts.TopFunctions),
		ContextCount: fs.Contexts.Len(),
	}

	a.analyzeLeaks(opts)
	a.analyzeUninit(opts)
	a.analyzeContexts(opts)

	a.Recommendations = Recommendations(fs, opts)
	a.PriorityActions = PriorityActions(fs, opts)
	return a
}

func (a *Analysis) analyzeLeaks(opts Options) {
	kinds := valgrind.NewCounter[string]()
	for _, leak := range a.Findings.Leaks {
		kinds.Inc(leak.Kind)
	}
	a.LeakKinds = rank(kinds, 0)

	largest := slices.Clone(a.Findings.Leaks)
	slices.SortStableFunc(largest, func(x, y valgrind.LeakRecord) int {
		switch {
		case x.Bytes > y.Bytes:
			return -1
		case x.Bytes < y.Bytes:
			return 1
		}
		return 0
	})
	a.LargestLeaks = limit(largest, opts.TopLeaks)
}

func (a *Analysis) analyzeUninit(opts Options) {
	files := valgrind.NewCounter[string]()
	functions := valgrind.NewCounter[string]()

	for _, finding := range a.Findings.UninitFindings {
		functions.Inc(finding.Function)
		if file, ok := finding.File(); ok {
			files.Inc(file)
		}
	}

	a.UninitFiles = rank(files, opts.TopUninit)
	a.UninitFunctions = rank(functions, opts.TopUninit)
}

func (a *Analysis) analyzeContexts(opts Options) {
	var multi []ContextItem
	for _, entry := range a.Findings.Contexts.Ranked() {
		if entry.Count > 1 {
			multi = append(multi, ContextItem{Context: entry.Key, Errors: entry.Count})
		}
	}
	a.MultiErrorCounts = limit(multi, opts.TopContexts)
}

func rank(c *valgrind.Counter[string], n int) []RankedItem {
	entries := c.Top(n)
	items := make([]RankedItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, RankedItem{Name: e.Key, Count: e.Count})
	}
	return items
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
