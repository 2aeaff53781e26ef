package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mabhi256/vgdiag/internal/config"
	"github.com/mabhi256/vgdiag/internal/valgrind"
	"github.com/mabhi256/vgdiag/utils"
)

var validateCmd = &cobra.Command{
	Use:               "validate [valgrind-output]",
	Short:             "Check that a file holds recognisable Valgrind output",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension(utils.ValgrindOutputExtensions, true),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return checkInputFile(args[0])
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger, err := newLogger(cmd, cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		return runValidate(cmd.OutOrStdout(), args[0], logger)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&configPath, "config", "", "Config file (default ./"+config.DefaultFileName+")")
	validateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log parser diagnostics to stderr")
}

func runValidate(out io.Writer, path string, logger *zap.Logger) error {
	fs, err := parseFile(path, logger)
	if err != nil {
		return err
	}

	if fs.Empty() {
		return fmt.Errorf("no Valgrind records found in %s", path)
	}

	fmt.Fprintf(out, "✅ Valgrind output: %s\n", path)
	printValidation(out, fs)
	return nil
}

func printValidation(out io.Writer, fs *valgrind.FindingSet) {
	summary := "missing"
	if fs.Summary != nil {
		summary = fmt.Sprintf("%d errors from %d contexts", fs.Summary.Errors, fs.Summary.Contexts)
	}

	fmt.Fprintf(out, "  Error summary:        %s\n", summary)
	fmt.Fprintf(out, "  Leak records:         %d (%s)\n", len(fs.Leaks), utils.MemorySize(fs.TotalBytesLeaked))
	fmt.Fprintf(out, "  Uninitialised values: %d\n", len(fs.UninitFindings))
	fmt.Fprintf(out, "  Error kinds:          %d\n", fs.ErrorKinds.Len())
	fmt.Fprintf(out, "  Error contexts:       %d\n", fs.Contexts.Len())
	fmt.Fprintf(out, "  Suppressed:           %d bytes in %d blocks\n", fs.SuppressedBytes, fs.SuppressedBlocks)
}
