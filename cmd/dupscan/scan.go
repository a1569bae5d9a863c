package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/dupscan/internal/config"
	"github.com/nao1215/dupscan/internal/database"
	"github.com/nao1215/dupscan/internal/fingerprint"
	"github.com/nao1215/dupscan/internal/ignore"
	"github.com/nao1215/dupscan/internal/log"
	"github.com/nao1215/dupscan/internal/model"
	"github.com/nao1215/dupscan/internal/pipeline"
	"github.com/nao1215/dupscan/internal/report"
	"github.com/nao1215/dupscan/internal/scanner"
	"github.com/nao1215/dupscan/internal/walker"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <root>",
		Short: "Scan a directory tree for files with identical content",
		Long: `Scan walks <root> recursively, fingerprints every regular file and
groups files by fingerprint.

Symbolic links below <root> are never followed. When <root> itself is a
symbolic link the directory it points at is scanned, and paths are still
reported under <root> as given. Files that cannot be read are reported on
stderr as "Failed to hash file <path>: <error>" and left out of the result.
Groups are listed with the most copies first.

Examples:
  # Scan a directory
  dupscan scan ~/Pictures

  # Only show groups with duplicates, largest ten first
  dupscan scan -D -n 10 ~/Pictures

  # List every copy, not just the first instance
  dupscan scan -D --members ~/Pictures

  # Skip VCS metadata and temporary files
  dupscan scan -x .git -x '**/*.tmp' ~/src

  # Write a JSON report to a file and export the result to SQLite
  dupscan scan --json -o report.json --sqlite scan.db ~/Pictures

Configuration file (.dupscan) example:
  algorithm: blake2b-256
  workers: 8
  exclude:
    - node_modules
  duplicatesOnly: true`,
		Args: cobra.ExactArgs(1),
		RunE: runScanCmd,
	}

	// Scan behavior flags
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers(),
		"Number of files fingerprinted concurrently")
	cmd.Flags().StringP("algorithm", "a", config.DefaultAlgorithm,
		fmt.Sprintf("Digest algorithm %v", fingerprint.AlgorithmNames()))
	cmd.Flags().String("buffer-size", humanize.IBytes(uint64(config.DefaultBufferSize)),
		"Read buffer per worker (e.g. 64KiB, 1MiB)")
	cmd.Flags().StringArrayP("exclude", "x", nil,
		"Glob pattern of paths to skip (repeatable)")
	cmd.Flags().Bool("no-progress", false,
		"Disable the progress indicator")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .dupscan in current, XDG config or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().String("sqlite", "",
		"Export the result to a new SQLite database at this path")
	cmd.Flags().BoolP("duplicates-only", "D", false,
		"Only list groups with more than one file")
	cmd.Flags().IntP("top", "n", 0,
		"Only list the first N groups (0 lists all)")
	cmd.Flags().Bool("members", false,
		"List every path of a duplicate group in the text report")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := cfg.Progress && isTerminal(os.Stderr)
	return runScan(ctx, cfg, logger, cmd.OutOrStdout(), os.Stderr, progress)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the configuration file and
// cobra command flags, in increasing order of precedence. Flags only
// override file values when they were set on the command line.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	if len(args) > 0 {
		cfg.Root = args[0]
	}

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly requested file must exist; otherwise a missing file
	// just means defaults.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cf.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if flags.Changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("algorithm") {
		if cfg.Algorithm, err = flags.GetString("algorithm"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("buffer-size") {
		raw, err := flags.GetString("buffer-size")
		if err != nil {
			return nil, err
		}
		if cfg.BufferSize, err = config.ParseBufferSize(raw); err != nil {
			return nil, err
		}
	}
	if flags.Changed("exclude") {
		exclude, err := flags.GetStringArray("exclude")
		if err != nil {
			return nil, err
		}
		cfg.Exclude = append(cfg.Exclude, exclude...)
	}
	if flags.Changed("duplicates-only") {
		if cfg.DuplicatesOnly, err = flags.GetBool("duplicates-only"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("top") {
		if cfg.Top, err = flags.GetInt("top"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("members") {
		if cfg.Members, err = flags.GetBool("members"); err != nil {
			return nil, err
		}
	}

	noProgress, err := flags.GetBool("no-progress")
	if err != nil {
		return nil, err
	}
	cfg.Progress = !noProgress

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.SQLiteFile, err = flags.GetString("sqlite"); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runScan wires the scan components together, runs the pipeline and
// writes the report. Diagnostics and progress go to stderr, the report to
// stdout unless a report file is configured.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer, progress bool) error {
	alg, err := fingerprint.LookupAlgorithm(cfg.Algorithm)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	matcher, err := ignore.NewMatcher(ignore.Options{
		RootDir:  cfg.Root,
		Patterns: cfg.Exclude,
	})
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	var observer scanner.Observer
	printDiagnostic := newDiagnosticPrinter(stderr)
	if progress {
		bar := newProgressBar(stderr)
		observer = bar
		printDiagnostic = func(d model.Diagnostic) {
			bar.Println(log.Escape(d.String()))
		}
	}

	opts := []scanner.Option{
		scanner.WithEnumerator(walker.New(
			walker.WithMatcher(matcher),
			walker.WithLogger(logger),
		)),
		scanner.WithHasher(fingerprint.New(
			fingerprint.WithAlgorithm(alg),
			fingerprint.WithBufferSize(cfg.BufferSize),
		)),
		scanner.WithWorkers(cfg.Workers),
		scanner.WithLogger(logger),
		scanner.WithDiagnostics(printDiagnostic),
	}
	if observer != nil {
		opts = append(opts, scanner.WithObserver(observer))
	}
	s := scanner.New(opts...)

	logger.Info("starting scan",
		"root", cfg.Root,
		"algorithm", alg.Name,
		"workers", s.Workers(),
		"exclude", matcher.Patterns(),
	)

	result, err := pipeline.Run(ctx, cfg.Root, alg.Name, s, pipeline.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	logger.Info("scan completed",
		"root", cfg.Root,
		"files", result.TotalFiles(),
		"failed", result.Failed,
		"groups", len(result.Groups),
		"elapsed", result.Elapsed,
	)

	if cfg.SQLiteFile != "" {
		if err := exportResult(ctx, cfg.SQLiteFile, result, logger); err != nil {
			return err
		}
	}

	return outputReport(cfg, result.Filter(cfg.DuplicatesOnly, cfg.Top), stdout)
}

// newDiagnosticPrinter returns a sink that prints one line per failed file.
// The scanner never calls a sink concurrently.
func newDiagnosticPrinter(w io.Writer) scanner.DiagnosticFunc {
	return func(d model.Diagnostic) {
		fmt.Fprintln(w, log.Escape(d.String()))
	}
}

// exportResult writes the unfiltered result into a new SQLite database.
func exportResult(ctx context.Context, path string, result *model.ScanResult, logger *slog.Logger) error {
	db, err := database.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveScanResult(ctx, result)
	if err != nil {
		return fmt.Errorf("failed to export scan result: %w", err)
	}

	logger.Info("scan result exported", "path", db.Path(), "scan_id", id)
	return nil
}

// outputReport outputs the result in the requested format. When a report
// file is configured the report goes there and a short summary is printed
// to stdout.
func outputReport(cfg *config.Config, result *model.ScanResult, stdout io.Writer) error {
	if cfg.ReportFile == "" {
		_, err := newReportWriter(cfg, stdout).Write(result)
		return err
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := report.NewMultiWriter(
		newReportWriter(cfg, f),
		report.NewSimpleWriter(stdout, report.WithGroups(false)),
	)
	if _, err := w.Write(result); err != nil {
		return err
	}
	return f.Close()
}

// newReportWriter returns the writer for the configured format.
func newReportWriter(cfg *config.Config, w io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithMembers(cfg.Members))
	}
}
