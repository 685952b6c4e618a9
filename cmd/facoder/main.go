// Package main provides the CLI entrypoint for facoder.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"facoder/internal/config"
	"facoder/internal/corpus"
	"facoder/internal/sampler"
	"facoder/internal/score"
	"facoder/internal/session"
	"facoder/internal/tui"
)

const (
	defaultPerCategory = 50
	defaultSeed        = 42
	defaultSampleOut   = "coding_financial_accelerator.csv"
)

var (
	labelSample    string
	labelResume    string
	labelCoder     string
	labelExportDir string

	sampleCorpus      string
	samplePerCategory int
	sampleSeed        int64
	sampleOut         string
	sampleStatsOut    string

	scoreIn string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "facoder",
		Short:         "Human validation of LLM financial-accelerator classifications",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runLabelCmd,
	}

	rootCmd.Flags().StringVar(&labelSample, "sample", "", "sample CSV to label")
	rootCmd.Flags().StringVar(&labelResume, "resume", "", "previously exported session CSV to continue")
	rootCmd.Flags().StringVar(&labelCoder, "coder", "", "coder name (pre-fills the name prompt)")
	rootCmd.Flags().StringVar(&labelExportDir, "export-dir", "", "directory for session exports")

	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runLabelCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "sample", &labelSample, fileCfg.Label.Sample)
	applyStringConfig(cmd, "coder", &labelCoder, fileCfg.Label.Coder)
	applyStringConfig(cmd, "export-dir", &labelExportDir, fileCfg.Label.ExportDir)
	if labelExportDir == "" {
		labelExportDir = config.DefaultExportDir()
	}

	sess := session.New()
	switch {
	case labelResume != "":
		records, err := session.ReadExportFile(labelResume)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		if err := sess.Resume(records); err != nil {
			return fmt.Errorf("failed to resume session: %w", err)
		}
		coded, total := sess.Progress()
		logErrf("Resumed %s: %d/%d coded\n", sess.CoderName(), coded, total)
	case labelSample != "":
		file, err := os.Open(labelSample)
		if err != nil {
			return fmt.Errorf("failed to open sample: %w", err)
		}
		rows, err := sampler.ReadSample(file)
		_ = file.Close()
		if err != nil {
			return fmt.Errorf("failed to read sample: %w", err)
		}
		if err := sess.Start(rows); err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
	default:
		return fmt.Errorf("no input: pass --sample (generate one with: facoder sample) or --resume")
	}

	model := tui.NewModel(sess, labelExportDir, labelCoder)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Draw a stratified validation sample from a corpus snapshot",
		Args:  cobra.NoArgs,
		RunE:  runSampleCmd,
	}
	cmd.Flags().StringVar(&sampleCorpus, "corpus", "", "corpus snapshot (CSV or SQLite)")
	cmd.Flags().IntVar(&samplePerCategory, "per-category", defaultPerCategory, "target rows per category")
	cmd.Flags().Int64Var(&sampleSeed, "seed", defaultSeed, "random seed (same corpus and seed reproduce the sample)")
	cmd.Flags().StringVar(&sampleOut, "out", defaultSampleOut, "output sample CSV")
	cmd.Flags().StringVar(&sampleStatsOut, "stats", "", "output stats TOML (default: <out> with _stats.toml suffix)")
	return cmd
}

func runSampleCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "per-category", &samplePerCategory, fileCfg.Sample.PerCategory)
	applyInt64Config(cmd, "seed", &sampleSeed, fileCfg.Sample.Seed)

	if sampleCorpus == "" {
		return fmt.Errorf("--corpus is required")
	}
	if sampleStatsOut == "" {
		sampleStatsOut = statsPathFor(sampleOut)
	}

	records, err := corpus.Load(context.Background(), sampleCorpus)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	sample, stats, err := sampler.Generate(records, samplePerCategory, sampleSeed)
	if err != nil {
		return fmt.Errorf("failed to generate sample: %w", err)
	}
	if err := sampler.WriteSampleFile(sampleOut, sample); err != nil {
		return err
	}
	if err := sampler.WriteStatsFile(sampleStatsOut, stats); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Wrote %d rows to %s (seed %d, target %d per category)\n",
		len(sample), sampleOut, stats.Seed, stats.PerCategory); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, cs := range stats.Categories {
		if _, err := fmt.Fprintf(out, "  %-8s available=%d sampled=%d\n",
			cs.Category, cs.Available, cs.Sampled); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if _, err := fmt.Fprintf(out, "Stats written to %s\n", sampleStatsOut); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute coder/classifier agreement for an exported session",
		Args:  cobra.NoArgs,
		RunE:  runScoreCmd,
	}
	cmd.Flags().StringVar(&scoreIn, "in", "", "exported session CSV")
	return cmd
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	if scoreIn == "" {
		return fmt.Errorf("--in is required")
	}
	records, err := session.ReadExportFile(scoreIn)
	if err != nil {
		return fmt.Errorf("failed to read export: %w", err)
	}
	report, err := score.Score(records)
	if err != nil {
		return fmt.Errorf("failed to score export: %w", err)
	}
	if err := score.RenderReport(cmd.OutOrStdout(), report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func statsPathFor(samplePath string) string {
	base := strings.TrimSuffix(samplePath, filepath.Ext(samplePath))
	return base + "_stats.toml"
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# facoder configuration
# Uncomment a value to enable it. CLI flags override config values.

[sample]
# per-category = %d      # Target rows per category
# seed = %d              # Random seed for reproducible samples

[label]
# sample = ""            # Default sample CSV to label
# export-dir = ""        # Directory for session exports
# coder = ""             # Coder name pre-fill
`,
		defaultPerCategory,
		defaultSeed,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
