package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vgdiag",
	Short: "Diagnostics for Valgrind memcheck output",
	Long: `vgdiag parses Valgrind memcheck output and ranks what it found: leaks,
uninitialised values, invalid accesses and the files and functions they come from.`,
	SilenceUsage: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch cmd.Name() {
		case "install", "version", "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return
		}

		if !isShellSupported() {
			return // Skip auto-setup for unsupported shells
		}

		// stdout carries the report, so setup chatter goes to stderr
		if !completionsExist() {
			w := cmd.ErrOrStderr()
			fmt.Fprintln(w, "🔧 First run detected, setting up vgdiag...")
			if installCompletions(cmd.Root(), w) == nil {
				fmt.Fprintln(w, "✅ Shell completions installed")
				fmt.Fprintln(w, "💡 Restart your shell to enable tab completion")
			} else {
				fmt.Fprintln(w, "⚠️  Auto-setup failed. Run 'vgdiag install' to try again.")
			}
		}
	},
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install shell completions",
	Run: func(cmd *cobra.Command, args []string) {
		if !isInPath() {
			printPathInstructions()
			return
		}

		if !isShellSupported() {
			fmt.Printf("❌ Shell completion not supported for: %s\n", detectShell())
			fmt.Println("Supported shells: bash, zsh, fish, powershell")
			return
		}

		if completionsExist() {
			fmt.Println("✅ Already configured!")
			return
		}

		fmt.Println("📦 Installing completions...")
		if err := installCompletions(cmd.Root(), cmd.OutOrStdout()); err != nil {
			fmt.Printf("❌ Failed: %v\n", err)
		} else {
			fmt.Println("✅ Done! Restart your shell to enable tab completion.")
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type completionTarget struct {
	dir         string
	file        string
	generate    func(root *cobra.Command, w io.Writer) error
	activateCmd func(path string) string
}

func (t completionTarget) path() string {
	return filepath.Join(t.dir, t.file)
}

// completionTargets lists where each supported shell looks for completion scripts.
func completionTargets() map[string]completionTarget {
	home, _ := os.UserHomeDir()

	return map[string]completionTarget{
		"bash": {
			dir:         filepath.Join(home, ".local/share/bash-completion/completions"),
			file:        "vgdiag",
			generate:    (*cobra.Command).GenBashCompletion,
			activateCmd: func(path string) string { return "source " + path },
		},
		"zsh": {
			dir:      filepath.Join(home, ".zsh/completions"),
			file:     "_vgdiag",
			generate: (*cobra.Command).GenZshCompletion,
			activateCmd: func(path string) string {
				return fmt.Sprintf("fpath=(%s $fpath) && autoload -U compinit && compinit", filepath.Dir(path))
			},
		},
		"fish": {
			dir:  filepath.Join(home, ".config/fish/completions"),
			file: "vgdiag.fish",
			generate: func(root *cobra.Command, w io.Writer) error {
				return root.GenFishCompletion(w, true)
			},
			activateCmd: func(string) string { return "complete --do-complete=vgdiag" },
		},
		"powershell": {
			dir:         home,
			file:        "vgdiag_completion.ps1",
			generate:    (*cobra.Command).GenPowerShellCompletionWithDesc,
			activateCmd: func(path string) string { return ". " + path },
		},
	}
}

func completionsExist() bool {
	target, ok := completionTargets()[detectShell()]
	if !ok {
		return false
	}
	_, err := os.Stat(target.path())
	return err == nil
}

func isShellSupported() bool {
	_, ok := completionTargets()[detectShell()]
	return ok
}

func detectShell() string {
	if runtime.GOOS == "windows" {
		return "powershell"
	}

	shell := filepath.Base(os.Getenv("SHELL"))
	if shell == "" || shell == "." {
		return "bash"
	}
	return shell
}

func installCompletions(root *cobra.Command, w io.Writer) error {
	shell := detectShell()
	target, ok := completionTargets()[shell]
	if !ok {
		return fmt.Errorf("unsupported shell: %s", shell)
	}

	if err := os.MkdirAll(target.dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(target.path())
	if err != nil {
		return err
	}
	defer file.Close()

	if err := target.generate(root, file); err != nil {
		return fmt.Errorf("failed to write %s completions: %w", shell, err)
	}

	fmt.Fprintf(w, "🔄 Run this command to enable completions now:\n")
	fmt.Fprintf(w, "   %s\n", target.activateCmd(target.path()))
	return nil
}

func isInPath() bool {
	execPath, err := os.Executable()
	if err != nil {
		return false
	}

	pathEnv := os.Getenv("PATH")
	paths := strings.Split(pathEnv, string(os.PathListSeparator))
	execDir := filepath.Dir(execPath)

	return slices.Contains(paths, execDir)
}

func printPathInstructions() {
	execPath, _ := os.Executable()
	execDir := filepath.Dir(execPath)

	fmt.Printf("❌ vgdiag not in PATH. Binary location: %s\n\n", execPath)

	if runtime.GOOS == "windows" {
		fmt.Printf("Add to PATH: %s\n", execDir)
	} else {
		fmt.Printf("Add to shell profile: export PATH=\"%s:$PATH\"\n", execDir)
		fmt.Printf("Or copy to: /usr/local/bin\n")
	}
}

func init() {
	rootCmd.AddCommand(installCmd)
}
