package valgrind

import "strings"

const (
	KindUninitialized  = "Uninitialized Values"
	KindInvalidRead    = "Invalid Read"
	KindInvalidWrite   = "Invalid Write"
	KindInvalidFree    = "Invalid Free"
	KindMismatchedFree = "Mismatched Free"
)

type StackFrame struct {
	Function string `json:"function"`
	Location string `json:"location"` // "file:line", or a module name for library frames
}

// File returns the file part of a "file:line" location.
func (f StackFrame) File() (string, bool) {
	return fileOf(f.Location)
}

type LeakRecord struct {
	Bytes  int64        `json:"bytes"`
	Blocks int          `json:"blocks"`
	Kind   string       `json:"kind"` // "definitely lost", "possibly lost", ...
	Trace  []StackFrame `json:"trace"`
}

// Origin is the innermost frame of the allocation trace.
func (l LeakRecord) Origin() (StackFrame, bool) {
	if len(l.Trace) == 0 {
		return StackFrame{}, false
	}
	return l.Trace[0], true
}

type UninitFinding struct {
	Function string `json:"function"`
	Location string `json:"location"`
}

func (u UninitFinding) File() (string, bool) {
	return fileOf(u.Location)
}

// ErrorSummary is the "ERROR SUMMARY: N errors from M contexts (suppressed: K ...)" line.
type ErrorSummary struct {
	Errors     int `json:"errors"`
	Contexts   int `json:"contexts"`
	Suppressed int `json:"suppressed"`
}

// FindingSet is everything recognised in one memcheck log.
// It is built by a single parse call and read-only afterwards.
type FindingSet struct {
	Summary *ErrorSummary

	Leaks             []LeakRecord
	TotalBytesLeaked  int64
	TotalBlocksLeaked int

	UninitFindings []UninitFinding

	ErrorKinds *Counter[string]
	Files      *Counter[string]
	Functions  *Counter[string]

	SuppressedBytes  int64
	SuppressedBlocks int

	// Contexts maps the context ordinal to its reported error count.
	Contexts *Counter[int]
}

func NewFindingSet() *FindingSet {
	return &FindingSet{
		ErrorKinds: NewCounter[string](),
		Files:      NewCounter[string](),
		Functions:  NewCounter[string](),
		Contexts:   NewCounter[int](),
	}
}

func (fs *FindingSet) addLeak(leak LeakRecord) {
	fs.Leaks = append(fs.Leaks, leak)
	fs.TotalBytesLeaked += leak.Bytes
	fs.TotalBlocksLeaked += leak.Blocks
}

// recordFrame counts a frame against its function and, when known, its file.
func (fs *FindingSet) recordFrame(function, location string) {
	fs.Functions.Inc(function)
	if file, ok := fileOf(location); ok {
		fs.Files.Inc(file)
	}
}

// Empty reports whether nothing at all was recognised.
func (fs *FindingSet) Empty() bool {
	return fs.Summary == nil &&
		len(fs.Leaks) == 0 &&
		len(fs.UninitFindings) == 0 &&
		fs.ErrorKinds.Len() == 0 &&
		fs.Contexts.Len() == 0 &&
		fs.SuppressedBlocks == 0 &&
		fs.SuppressedBytes == 0
}

func fileOf(location string) (string, bool) {
	file, _, found := strings.Cut(location, ":")
	return file, found
}
