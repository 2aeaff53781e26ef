package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mabhi256/vgdiag/internal/config"
)

const memcheckOutput = `==4242== Conditional jump or move depends on uninitialised value(s)
==4242==    at 0x4C32D3A: strlen (vg_replace_strmem.c:460)
==4242==
==4242== 48 bytes in 2 blocks are definitely lost in loss record 3 of 10
==4242==    at 0x4C2FB0F: malloc (vg_replace_malloc.c:299)
==4242==
==4242== ERROR SUMMARY: 3 errors from 2 contexts (suppressed: 0 from 0)
`

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSummaryPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"valgrind.txt", "valgrind_summary.txt"},
		{"out/run.txt", "out/run_summary.txt"},
		{"memcheck.log", "memcheck.log_summary.txt"},
		{"notes.txt.bak", "notes.txt.bak_summary.txt"},
		{"plain", "plain_summary.txt"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, summaryPath(tt.input), tt.input)
	}
}

func TestRunAnalyzePlainSavesSummary(t *testing.T) {
	input := writeInput(t, "valgrind.txt", memcheckOutput)
	cfg := config.DefaultConfig()
	cfg.Output.Format = "plain"

	var out, errOut bytes.Buffer
	require.NoError(t, runAnalyze(&out, &errOut, input, cfg, zap.NewNop()))

	saved := summaryPath(input)
	data, err := os.ReadFile(saved)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "🔍 VALGRIND ANALYSIS SUMMARY")
	assert.Contains(t, out.String(), "📄 Summary also saved to: "+saved)
	assert.Contains(t, string(data), "Total Errors: 3")
	assert.NotContains(t, string(data), "Summary also saved")
	assert.Empty(t, errOut.String())
}

func TestRunAnalyzeNoSave(t *testing.T) {
	input := writeInput(t, "valgrind.txt", memcheckOutput)
	cfg := config.DefaultConfig()
	cfg.Output.Format = "plain"
	cfg.Output.Save = false

	var out, errOut bytes.Buffer
	require.NoError(t, runAnalyze(&out, &errOut, input, cfg, zap.NewNop()))

	_, err := os.Stat(summaryPath(input))
	assert.True(t, os.IsNotExist(err))
	assert.NotContains(t, out.String(), "Summary also saved")
}

func TestRunAnalyzeSaveFailureOnlyWarns(t *testing.T) {
	input := writeInput(t, "valgrind.txt", memcheckOutput)
	require.NoError(t, os.Mkdir(summaryPath(input), 0755))

	cfg := config.DefaultConfig()
	cfg.Output.Format = "plain"

	var out, errOut bytes.Buffer
	require.NoError(t, runAnalyze(&out, &errOut, input, cfg, zap.NewNop()))
	assert.Contains(t, out.String(), "⚠️  Could not save summary to file:")
}

func TestRunAnalyzeJSONKeepsStdoutClean(t *testing.T) {
	input := writeInput(t, "valgrind.txt", memcheckOutput)
	cfg := config.DefaultConfig()
	cfg.Output.Format = "json"

	var out, errOut bytes.Buffer
	require.NoError(t, runAnalyze(&out, &errOut, input, cfg, zap.NewNop()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Contains(t, decoded, "summary")
	assert.Contains(t, errOut.String(), "📄 Summary also saved to:")
}

func TestRunAnalyzeMissingFileNamesPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.txt")

	var out, errOut bytes.Buffer
	err := runAnalyze(&out, &errOut, missing, config.DefaultConfig(), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
}

func TestCheckInputFile(t *testing.T) {
	input := writeInput(t, "valgrind.txt", memcheckOutput)
	assert.NoError(t, checkInputFile(input))

	err := checkInputFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorContains(t, err, "file does not exist")

	err = checkInputFile(t.TempDir())
	assert.ErrorContains(t, err, "is a directory")
}

func TestRunValidate(t *testing.T) {
	input := writeInput(t, "valgrind.txt", memcheckOutput)

	var out bytes.Buffer
	require.NoError(t, runValidate(&out, input, zap.NewNop()))

	assert.Contains(t, out.String(), "Error summary:        3 errors from 2 contexts")
	assert.Contains(t, out.String(), "Leak records:         1 (48B)")
	assert.Contains(t, out.String(), "Uninitialised values: 1")
}

func TestRunValidateRejectsUnrecognisedInput(t *testing.T) {
	input := writeInput(t, "notes.txt", "nothing to see here\njust text\n")

	var out bytes.Buffer
	err := runValidate(&out, input, zap.NewNop())
	assert.ErrorContains(t, err, "no Valgrind records found")
}
