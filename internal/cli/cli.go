package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"syscall"

	"locforge/internal/compiler"
	"locforge/internal/config"
	"locforge/internal/encoder"
	"locforge/internal/extract"
	"locforge/internal/filewalker"
	"locforge/internal/idspace"
	"locforge/internal/merge"
	"locforge/internal/meta"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "locforge",
		Short: "Localization record compiler for the w3strings pipeline",
		Long: `locforge prepares and reconciles pipe-delimited localization CSVs
for the w3strings encoder: it assigns collision-free identifiers to
shorthand entries, validates the ID space in use, mines localization
keys from menu XML and script sources, and merges them into a
persistent record file without clobbering existing translations.`,
	}

	rootCmd.AddCommand(encodeCmd())
	rootCmd.AddCommand(decodeCmd())
	rootCmd.AddCommand(extractCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func encodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <file.csv>",
		Short: "Compile a localization CSV and encode it to a binary string table",
		Long: `Compiles the CSV (promoting shorthand entries to full ones) and hands
it to the encoder. Without --output-dir the completed CSV atomically
replaces the input once compilation succeeds; compile errors leave the
input untouched. Use --output-dir or --dry-run to keep the input as is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, _ := cmd.Flags().GetString("lang")
			force, _ := cmd.Flags().GetBool("force")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			outputDir, _ := cmd.Flags().GetString("output-dir")
			return runEncode(args[0], lang, outputDir, force, dryRun)
		},
	}

	cmd.Flags().String("lang", "", "Override the target language (\"all\" encodes every language via cleartext)")
	cmd.Flags().Bool("force", false, "Skip the encoder's ID space check")
	cmd.Flags().Bool("dry-run", false, "Compile and validate only, write nothing")
	cmd.Flags().String("output-dir", "", "Directory for the compiled CSV (default: replace the input in place)")

	return cmd
}

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file.w3strings>",
		Short: "Decode a binary string table back to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(args[0])
		},
	}
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <source-dir> <target.csv>",
		Short: "Mine localization keys from mod sources and merge them into a record file",
		Long: `Scans menu XML and script files under <source-dir> for localization
key candidates and merges the new ones into <target.csv>. Keys already
present in the target keep their text; re-running is a no-op.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, _ := cmd.Flags().GetString("pattern")
			return runExtract(args[0], args[1], pattern)
		},
	}

	cmd.Flags().String("pattern", "", "Regexp filter for key candidates (required when script sources are present)")

	return cmd
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// runEncode handles the `encode` command.
func runEncode(path, lang, outputDir string, force, dryRun bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	c := compiler.New(compiler.Options{Base: cfg.IDBase, DefaultLang: cfg.DefaultLang})
	set, res, err := c.Compile(raw, path)
	if err != nil {
		return fmt.Errorf("compile %s: %w", path, err)
	}

	switch {
	case lang == "":
	case lang == "all":
		// The encoder emits every language from one cleartext table.
		set.Header.Language = meta.Cleartext
	case meta.KnownLanguage(lang):
		set.Header.Language = lang
	default:
		return fmt.Errorf("unknown language %q", lang)
	}

	log.Info().
		Int("entries", len(set.Entries())).
		Str("language", set.Header.Language).
		Msg("Record set compiled")

	if dryRun {
		return nil
	}

	if outputDir == "" {
		outputDir = filepath.Dir(path)
	}
	outPath := filepath.Join(outputDir, filepath.Base(path))
	if err := merge.WriteFile(outPath, set); err != nil {
		return err
	}

	if cfg.EncoderPath == "" {
		log.Info().Str("csv", outPath).Msg("No encoder configured, compiled CSV written only")
		return nil
	}

	if res.Source == idspace.SourceNone && !force {
		return fmt.Errorf("no ID space to pass to the encoder (vanilla-only set); use --force")
	}

	client := encoder.NewClient(cfg.EncoderPath)
	if err := client.Encode(ctx, outPath, res.Space, force); err != nil {
		return fmt.Errorf("encode %s: %w", outPath, err)
	}

	log.Info().Str("csv", outPath).Msg("Encoding complete")
	return nil
}

// runDecode handles the `decode` command.
func runDecode(path string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	client := encoder.NewClient(cfg.EncoderPath)
	if err := client.Decode(ctx, path); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	log.Info().Str("input", path).Msg("Decoding complete")
	return nil
}

// runExtract handles the `extract` command.
func runExtract(sourceDir, target, patternStr string) error {
	cfg := config.Load()

	var pattern *regexp.Regexp
	if patternStr != "" {
		var err error
		pattern, err = regexp.Compile(patternStr)
		if err != nil {
			return fmt.Errorf("bad --pattern: %w", err)
		}
	}

	files, err := filewalker.Walk(sourceDir)
	if err != nil {
		return fmt.Errorf("walk source directory: %w", err)
	}

	var inputs []extract.Input
	for _, f := range files {
		raw, err := os.ReadFile(f.Path)
		if err != nil {
			log.Error().Err(err).Str("file", f.Path).Msg("Read failed, skipping")
			continue
		}
		inputs = append(inputs, extract.Input{Path: f.Path, Text: string(raw), Strategy: f.Strategy})
	}

	sections, err := extract.Collect(inputs, pattern)
	if err != nil {
		return fmt.Errorf("extract keys: %w", err)
	}

	found := 0
	for _, s := range sections {
		found += len(s.Entries)
	}
	log.Info().Int("candidates", found).Int("sections", len(sections)).Msg("Extraction complete")

	c := compiler.New(compiler.Options{Base: cfg.IDBase, DefaultLang: cfg.DefaultLang})
	existing, exists, err := merge.LoadFile(c, target)
	if err != nil {
		return err
	}

	before := 0
	if exists {
		before = len(existing.Entries())
	}

	merged := merge.Merge(existing, sections)
	if !exists {
		merged.Header.Language = cfg.DefaultLang
	}

	if err := merge.WriteFile(target, merged); err != nil {
		return err
	}

	log.Info().
		Int("new", len(merged.Entries())-before).
		Int("total", len(merged.Entries())).
		Str("target", target).
		Msg("Merge complete")

	return nil
}
