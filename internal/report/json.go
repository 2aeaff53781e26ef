package report

import (
	"encoding/json"

	"github.com/mabhi256/vgdiag/internal/valgrind"
)

type ByteBlocks struct {
	Bytes  int64 `json:"bytes"`
	Blocks int   `json:"blocks"`
}

type UninitReport struct {
	Count     int          `json:"count"`
	Files     []RankedItem `json:"files"`
	Functions []RankedItem `json:"functions"`
}

type ContextReport struct {
	Total    int           `json:"total"`
	Multiple []ContextItem `json:"multiple"`
}

// JSONReport is the machine-readable form of the text report, with the same rankings.
type JSONReport struct {
	Summary    *valgrind.ErrorSummary `json:"summary"`
	Leaked     ByteBlocks             `json:"leaked"`
	Suppressed ByteBlocks             `json:"suppressed"`

	ErrorKinds   []RankedItem `json:"errorKinds"`
	TopFiles     []RankedItem `json:"topFiles"`
	TopFunctions []RankedItem `json:"topFunctions"`

	LeakKinds    []RankedItem          `json:"leakKinds"`
	LargestLeaks []valgrind.LeakRecord `json:"largestLeaks"`

	Uninitialized UninitReport  `json:"uninitialized"`
	Contexts      ContextReport `json:"contexts"`

	Recommendations []Recommendation `json:"recommendations"`
	PriorityActions []string         `json:"priorityActions"`
}

func NewJSONReport(a *Analysis) JSONReport {
	fs := a.Findings
	return JSONReport{
		Summary:    fs.Summary,
		Leaked:     ByteBlocks{Bytes: fs.TotalBytesLeaked, Blocks: fs.TotalBlocksLeaked},
		Suppressed: ByteBlocks{Bytes: fs.SuppressedBytes, Blocks: fs.SuppressedBlocks},

		ErrorKinds:   nonNil(a.ErrorKinds),
		TopFiles:     nonNil(a.TopFiles),
		TopFunctions: nonNil(a.TopFunctions),

		LeakKinds:    nonNil(a.LeakKinds),
		LargestLeaks: nonNil(a.LargestLeaks),

		Uninitialized: UninitReport{
			Count:     len(fs.UninitFindings),
			Files:     nonNil(a.UninitFiles),
			Functions: nonNil(a.UninitFunctions),
		},
		Contexts: ContextReport{
			Total:    a.ContextCount,
			Multiple: nonNil(a.MultiErrorCounts),
		},

		Recommendations: nonNil(a.Recommendations),
		PriorityActions: nonNil(a.PriorityActions),
	}
}

func (r *Renderer) RenderJSON(fs *valgrind.FindingSet) ([]byte, error) {
	return json.MarshalIndent(NewJSONReport(Analyze(fs, r.opts)), "", "  ")
}

// nonNil keeps empty sections as [] rather than null in the output.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
