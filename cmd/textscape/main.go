package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"github.com/cbegin/textscape-go"
	"github.com/cbegin/textscape-go/internal/config"
	"github.com/cbegin/textscape-go/internal/lexicon"
	"github.com/cbegin/textscape-go/internal/logger"
)

var version = "0.1.0"

const sentryFlushTimeout = 2 * time.Second

var (
	cfg *config.Config

	textFile   string
	culture    string
	seed       uint64
	vadPath    string
	moodBias   float64
	densBias   float64
	volume     float64
	sampleRate int
	logLevel   string
)

func main() {
	err := rootCmd.Execute()
	sentry.Flush(sentryFlushTimeout)
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "textscape",
	Short: "Turn text into ambient music",
	Long: `textscape reads text, maps its sentiment, sound and structure to musical
parameters, and plays them as a bounded piece or an endless drift.

Text comes from the arguments, --file, or stdin.

Examples:
  textscape analyze "the sea at night"
  textscape play -f poem.txt --culture eastAsian
  textscape drift --for 10m "slow rain on a tin roof"
  textscape render -o out.wav "morning light"`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&textFile, "file", "f", "", "Read text from a file")
	pf.StringVar(&culture, "culture", "", "Scale pool (multicultural, western, indian, middleEastern, eastAsian, exotic)")
	pf.Uint64Var(&seed, "seed", 0, "Random seed (0 picks one)")
	pf.StringVar(&vadPath, "vad", "", "YAML valence-arousal-dominance table")
	pf.Float64Var(&moodBias, "mood", 0, "Mood bias added after analysis (-1..1)")
	pf.Float64Var(&densBias, "density", 0, "Density bias added after analysis (-1..1)")
	pf.Float64Var(&volume, "volume", 0, "Master volume")
	pf.IntVar(&sampleRate, "sample-rate", 0, "Output sample rate")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(analyzeCmd, playCmd, driftCmd, renderCmd)
}

// setup loads the environment config and lets explicit flags override it.
func setup(cmd *cobra.Command, _ []string) error {
	cfg = config.Load()
	flags := cmd.Flags()
	if flags.Changed("culture") {
		cfg.Culture = culture
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("vad") {
		cfg.VADTablePath = vadPath
	}
	if flags.Changed("volume") {
		cfg.MasterVolume = volume
	}
	if flags.Changed("sample-rate") {
		cfg.SampleRate = sampleRate
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	logger.Init(cfg.LogLevel, os.Stderr)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.IsProduction() {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
			Release:     "textscape@" + version,
		}); err != nil {
			logger.Warn("sentry init failed", logger.Fields{"error": err.Error()})
		}
	}
	return nil
}

// options turns the config into player options.
func options() ([]textscape.Option, error) {
	opts := []textscape.Option{
		textscape.WithCulture(cfg.Culture),
		textscape.WithBias(moodBias, densBias),
		textscape.WithMasterVolume(cfg.MasterVolume),
	}
	if cfg.Seed != 0 {
		opts = append(opts, textscape.WithSeed(cfg.Seed))
	}
	if cfg.VADTablePath != "" {
		table, err := lexicon.LoadVADTable(cfg.VADTablePath)
		if err != nil {
			logger.Error("vad table", err, logger.Fields{"path": cfg.VADTablePath})
			return nil, err
		}
		logger.Debug("vad table loaded", logger.Fields{"path": cfg.VADTablePath, "words": table.Len()})
		opts = append(opts, textscape.WithVADTable(table))
	}
	return opts, nil
}

// readText takes the text from args, --file, or stdin in that order.
func readText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if textFile != "" {
		data, err := os.ReadFile(textFile)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", fmt.Errorf("no text: pass it as arguments, with --file, or on stdin")
}
