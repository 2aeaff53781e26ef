package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallCompletionsZsh(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell detection always picks powershell on windows")
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SHELL", "/usr/bin/zsh")

	require.True(t, isShellSupported())
	assert.False(t, completionsExist())

	var out bytes.Buffer
	require.NoError(t, installCompletions(rootCmd, &out))

	script, err := os.ReadFile(filepath.Join(home, ".zsh/completions/_vgdiag"))
	require.NoError(t, err)
	assert.Contains(t, string(script), "vgdiag")
	assert.True(t, completionsExist())
	assert.Contains(t, out.String(), "fpath=("+filepath.Join(home, ".zsh/completions"))
}

func TestInstallCompletionsUnsupportedShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell detection always picks powershell on windows")
	}

	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHELL", "/bin/tcsh")

	assert.False(t, isShellSupported())
	assert.False(t, completionsExist())
	assert.ErrorContains(t, installCompletions(rootCmd, &bytes.Buffer{}), "unsupported shell: tcsh")
}

func TestDetectShellDefaultsToBash(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell detection always picks powershell on windows")
	}

	t.Setenv("SHELL", "")
	assert.Equal(t, "bash", detectShell())
}
