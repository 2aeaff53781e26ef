package report

import (
	"fmt"
	"strings"

	"github.com/mabhi256/vgdiag/internal/valgrind"
)

type Recommendation struct {
	Topic string   `json:"topic"`
	Lines []string `json:"lines"`
}

func Recommendations(fs *valgrind.FindingSet, opts Options) []Recommendation {
	var recs []Recommendation

	if fs.ErrorKinds.Get(valgrind.KindUninitialized) > 0 {
		recs = append(recs, getUninitializedRec())
	}

	if fs.TotalBytesLeaked > 0 {
		recs = append(recs, getLeakRec())
	}

	if routines := unsafeRoutinesSeen(fs, opts.UnsafeStringFunctions); len(routines) > 0 {
		recs = append(recs, getUnsafeStringRec(routines))
	}

	if fs.ErrorKinds.Get(valgrind.KindInvalidRead)+fs.ErrorKinds.Get(valgrind.KindInvalidWrite) > 0 {
		recs = append(recs, getInvalidAccessRec())
	}

	if fs.ErrorKinds.Get(valgrind.KindInvalidFree)+fs.ErrorKinds.Get(valgrind.KindMismatchedFree) > 0 {
		recs = append(recs, getAllocatorPairingRec())
	}

	return recs
}

func getUninitializedRec() Recommendation {
	return Recommendation{
		Topic: "Uninitialized values",
		Lines: []string{
			"Initialize all variables before use",
			"Use member initialization lists in constructors",
			"Consider using smart pointers for automatic memory management",
		},
	}
}

func getLeakRec() Recommendation {
	return Recommendation{
		Topic: "Memory leaks",
		Lines: []string{
			"Review memory allocation and deallocation patterns",
			"Ensure proper cleanup in destructors",
			"Consider RAII principles",
		},
	}
}

func getUnsafeStringRec(routines []string) Recommendation {
	calls := make([]string, len(routines))
	for i, r := range routines {
		calls[i] = r + "()"
	}

	return Recommendation{
		Topic: "String handling",
		Lines: []string{
			fmt.Sprintf("Check string pointer initialization before %s calls", strings.Join(calls, "/")),
			"Use std::string instead of raw char* where possible",
		},
	}
}

func getInvalidAccessRec() Recommendation {
	return Recommendation{
		Topic: "Invalid memory access",
		Lines: []string{
			"Check array indices and buffer sizes at the reported reads and writes",
			"Look for use-after-free: pointers kept after delete or free()",
		},
	}
}

func getAllocatorPairingRec() Recommendation {
	return Recommendation{
		Topic: "Allocator pairing",
		Lines: []string{
			"Pair new/delete, new[]/delete[] and malloc()/free() consistently",
			"Make sure every block is released exactly once",
		},
	}
}

// unsafeRoutinesSeen lists the configured routines that appear in any recorded function name.
func unsafeRoutinesSeen(fs *valgrind.FindingSet, routines []string) []string {
	var seen []string
	functions := fs.Functions.Keys()

	for _, routine := range routines {
		if routine == "" {
			continue
		}
		for _, fn := range functions {
			if strings.Contains(fn, routine) {
				seen = append(seen, routine)
				break
			}
		}
	}
	return seen
}

func PriorityActions(fs *valgrind.FindingSet, opts Options) []string {
	var actions []string

	if top, ok := fs.Files.Max(); ok {
		actions = append(actions, fmt.Sprintf("Focus on fixing issues in: %s (%d issues)", top.Key, top.Count))
	}

	if fs.ErrorKinds.Get(valgrind.KindUninitialized) > opts.UninitFixThreshold {
		actions = append(actions, "Run a string initialization fix pass over the affected sources")
	}

	if fs.TotalBytesLeaked > opts.LeakBytesThreshold {
		actions = append(actions, fmt.Sprintf("Address memory leaks (%s bytes total)", groupDigits(fs.TotalBytesLeaked)))
	}

	return actions
}
