// Command logprobe is the CLI front door: it loads one or more Go package
// patterns, builds a compilation snapshot over them, runs one extraction
// pass, and prints the resulting records and summary as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codenerd/logprobe/internal/config"
	"codenerd/logprobe/internal/extract"
	"codenerd/logprobe/internal/gopkg"
	"codenerd/logprobe/internal/logging"
	"codenerd/logprobe/internal/registry"
	logprobetypes "codenerd/logprobe/internal/types"
)

// report wraps one extraction pass with a run identifier, so separate
// invocations over the same workspace can be told apart in stored output.
type report struct {
	RunID string `json:"run_id"`
	logprobetypes.ExtractionResult
}

var (
	verbose      bool
	enhancedFlag bool
	workspace    string
	configPath   string
	timeout      time.Duration
	includeTests bool
)

var rootCmd = &cobra.Command{
	Use:   "logprobe [packages...]",
	Short: "Extract structured-logging call sites from a Go workspace",
	Long: `logprobe statically resolves every call site of a structured-logging
API across a Go workspace: direct logger calls, directive-declared partial
methods, generic delegate-factory definitions, and scope-begin calls. It
reports parameter alignment, event identifiers, and cross-record template
consistency as JSON.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug-level logging")
	rootCmd.PersistentFlags().BoolVar(&enhancedFlag, "enhanced-errors", false, "Attach stack traces to warning-and-above log entries")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Directory patterns are resolved relative to (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "logprobe.yaml", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall extraction timeout")
	rootCmd.PersistentFlags().BoolVar(&includeTests, "tests", false, "Include _test.go files and their synthetic test packages")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.Verbose = true
	}
	if enhancedFlag {
		cfg.EnhancedErrors = true
	}

	log, err := logging.Init(cfg.Verbose, cfg.EnhancedErrors)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Sync()

	dir := workspace
	if dir == "" {
		dir, _ = os.Getwd()
	} else if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	snap, loadErrs, err := gopkg.Load(args, gopkg.Options{Dir: dir, Tests: includeTests})
	if err != nil {
		return fmt.Errorf("load packages: %w", err)
	}
	for _, e := range loadErrs {
		logging.Get(logging.CategoryCLI).Warn("package load error", zap.Error(e))
	}

	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	opts := cfg.Options()
	result := extract.Extract(ctx, snap, registry.DefaultSpec(), opts, progressSink(log), log.Named(string(logging.CategoryExtract)))

	out, err := json.MarshalIndent(report{RunID: runID, ExtractionResult: result}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(out))

	if result.Partial {
		return fmt.Errorf("extraction cancelled before completion: %d record(s) returned", len(result.Records))
	}
	return nil
}

func progressSink(log *zap.Logger) extract.ProgressSink {
	return func(current, total int, message string) {
		log.Debug("progress", zap.Int("current", current), zap.Int("total", total), zap.String("message", message))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
