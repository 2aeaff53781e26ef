package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mabhi256/vgdiag/internal/config"
	"github.com/mabhi256/vgdiag/internal/logging"
	"github.com/mabhi256/vgdiag/internal/report"
	"github.com/mabhi256/vgdiag/internal/tui"
	"github.com/mabhi256/vgdiag/internal/valgrind"
	"github.com/mabhi256/vgdiag/utils"
)

var (
	outputFormat string
	saveSummary  bool
	configPath   string
	verbose      bool
)

var analyzeCmd = &cobra.Command{
	Use:               "analyze [valgrind-output]",
	Short:             "Analyze Valgrind memcheck output",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension(utils.ValgrindOutputExtensions, true),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("output") && !slices.Contains(config.OutputFormats, outputFormat) {
			return fmt.Errorf("invalid output format: %s. Valid options: %v", outputFormat, config.OutputFormats)
		}
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

		return runAnalyze(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	flags := analyzeCmd.Flags()
	flags.StringVarP(&outputFormat, "output", "o", "cli", "Output format (cli, plain, tui, json)")
	flags.BoolVar(&saveSummary, "save", true, "Save a plain copy of the report next to the input")
	flags.StringVar(&configPath, "config", "", "Config file (default ./"+config.DefaultFileName+")")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log parser diagnostics to stderr")

	// --no-save reads better on the command line than --save=false
	flags.Bool("no-save", false, "Do not save the plain report")

	// When user types: vgdiag analyze memcheck.txt -o <TAB>
	analyzeCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return config.OutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
	analyzeCmd.RegisterFlagCompletionFunc("config", utils.CompleteFilesByExtension([]string{".yaml", ".yml"}, false))
}

// loadConfig layers flags that were set explicitly over the config file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output.Format = outputFormat
	}
	if flags.Changed("save") {
		cfg.Output.Save = saveSummary
	}
	if noSave, _ := flags.GetBool("no-save"); noSave {
		cfg.Output.Save = false
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, error) {
	var opts []logging.Option
	if cfg.Logging.File != "" {
		opts = append(opts, logging.WithFile(cfg.Logging.File))
	}
	return logging.New(cfg.Logging.Level, cmd.ErrOrStderr(), opts...)
}

func checkInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected Valgrind output", path)
	}
	return nil
}

func parseFile(path string, logger *zap.Logger) (*valgrind.FindingSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	logger.Debug("parsing valgrind output", zap.String("file", path))

	fs, err := valgrind.NewParser(valgrind.WithLogger(logger)).Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return fs, nil
}

func runAnalyze(out, errOut io.Writer, path string, cfg *config.Config, logger *zap.Logger) error {
	fs, err := parseFile(path, logger)
	if err != nil {
		return err
	}

	opts := cfg.ReportOptions()
	analysis := report.Analyze(fs, opts)
	plain := report.NewRenderer(opts)

	styledOpts := opts
	styledOpts.Styled = true
	styled := report.NewRenderer(styledOpts)

	switch cfg.Output.Format {
	case "json":
		data, err := plain.RenderJSON(fs)
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "tui":
		if err := tui.Run(analysis, styled); err != nil {
			return fmt.Errorf("viewer failed: %w", err)
		}
	case "plain":
		fmt.Fprintln(out, plain.RenderAnalysis(analysis))
	default:
		fmt.Fprintln(out, styled.RenderAnalysis(analysis))
	}

	if cfg.Output.Save {
		// keep stdout parseable in json mode
		notices := out
		if cfg.Output.Format == "json" {
			notices = errOut
		}
		saveReport(notices, summaryPath(path), plain.RenderAnalysis(analysis), logger)
	}
	return nil
}

// saveReport never fails the command; a write error only warns.
func saveReport(out io.Writer, path, text string, logger *zap.Logger) {
	if err := os.WriteFile(path, []byte(text+"\n"), 0644); err != nil {
		logger.Debug("summary not saved", zap.String("file", path), zap.Error(err))
		fmt.Fprintf(out, "\n⚠️  Could not save summary to file: %v\n", err)
		return
	}
	fmt.Fprintf(out, "\n📄 Summary also saved to: %s\n", path)
}

// summaryPath swaps a trailing .txt for _summary.txt, or appends it.
func summaryPath(input string) string {
	if base, ok := strings.CutSuffix(input, ".txt"); ok {
		return base + "_summary.txt"
	}
	return input + "_summary.txt"
}
