package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// ValgrindOutputExtensions are the suffixes memcheck output is usually saved under.
var ValgrindOutputExtensions = []string{".txt", ".log", ".out"}

// rotated matches numbered copies such as memcheck.log.3
var rotated = regexp.MustCompile(`\.\d+$`)

func CompleteFilesByExtension(extensions []string, isRotated bool) func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		dir, prefix := filepath.Split(toComplete)
		if dir == "" {
			dir = "."
		}

		files, err := os.ReadDir(dir)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		var suggestions []string
		for _, file := range files {
			name := file.Name()
			if strings.HasPrefix(name, ".") || !strings.HasPrefix(name, prefix) {
				continue
			}

			suggestion := name
			if dir != "." {
				suggestion = filepath.Join(dir, name)
			}

			if file.IsDir() {
				suggestions = append(suggestions, suggestion+"/")
			} else if isValidFileExtension(name, extensions, isRotated) {
				suggestions = append(suggestions, suggestion)
			}
		}

		slices.Sort(suggestions)
		return suggestions, cobra.ShellCompDirectiveNoFileComp
	}
}

func isValidFileExtension(filename string, extensions []string, includeRotated bool) bool {
	if includeRotated {
		filename = rotated.ReplaceAllString(filename, "")
	}

	for _, ext := range extensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}
