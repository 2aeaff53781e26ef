package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabhi256/vgdiag/internal/report"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vgdiag.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigMatchesReportDefaults(t *testing.T) {
	opts := DefaultConfig().ReportOptions()
	assert.Equal(t, report.DefaultOptions(), opts)
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VGDIAG_LOG_LEVEL", "")
	t.Setenv("VGDIAG_OUTPUT", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("VGDIAG_LOG_LEVEL", "")
	t.Setenv("VGDIAG_OUTPUT", "")
	path := writeConfig(t, `
report:
  top_files: 3
  unsafe_string_functions: [strlen, strcpy]
output:
  save: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Report.TopFiles)
	assert.Equal(t, 10, cfg.Report.TopFunctions)
	assert.Equal(t, []string{"strlen", "strcpy"}, cfg.Report.UnsafeStringFunctions)
	assert.False(t, cfg.Output.Save)
	assert.Equal(t, "cli", cfg.Output.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEmptyFileGivesDefaults(t *testing.T) {
	t.Setenv("VGDIAG_LOG_LEVEL", "")
	t.Setenv("VGDIAG_OUTPUT", "")

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadLogFile(t *testing.T) {
	t.Setenv("VGDIAG_LOG_LEVEL", "")
	t.Setenv("VGDIAG_OUTPUT", "")

	cfg, err := Load(writeConfig(t, "logging:\n  file: /tmp/vgdiag.log\n"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/vgdiag.log", cfg.Logging.File)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VGDIAG_LOG_LEVEL", "debug")
	t.Setenv("VGDIAG_OUTPUT", "json")
	path := writeConfig(t, "logging:\n  level: warn\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("VGDIAG_LOG_LEVEL", "")
	t.Setenv("VGDIAG_OUTPUT", "")

	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"negative limit", "report:\n  top_leaks: -1\n", "report.top_leaks"},
		{"negative threshold", "report:\n  leak_bytes_threshold: -5\n", "leak_bytes_threshold"},
		{"unknown format", "output:\n  format: html\n", "invalid output format"},
		{"unknown level", "logging:\n  level: loud\n", "invalid log level"},
		{"malformed yaml", "report: [\n", "failed to parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}
