package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cbegin/textscape-go"
	"github.com/cbegin/textscape-go/internal/logger"
	"github.com/cbegin/textscape-go/internal/music"
	"github.com/cbegin/textscape-go/internal/scales"
	"github.com/cbegin/textscape-go/internal/scheduler"
)

var (
	driftFor   time.Duration
	outputPath string
	renderFor  time.Duration
	quiet      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Print the musical parameters for text as YAML",
	RunE:  runAnalyze,
}

var playCmd = &cobra.Command{
	Use:   "play [text]",
	Short: "Compose a bounded piece from text and play it",
	RunE:  runPlay,
}

var driftCmd = &cobra.Command{
	Use:   "drift [text]",
	Short: "Generate endlessly from text until interrupted",
	RunE:  runDrift,
}

var renderCmd = &cobra.Command{
	Use:   "render [text]",
	Short: "Render a piece, or a drift with --drift, to a WAV file",
	Example: `  textscape render -o piece.wav "the harbour wakes"
  textscape render -o drift.wav --drift 2m -f notes.txt`,
	RunE: runRender,
}

func init() {
	playCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print notes as they play")
	driftCmd.Flags().DurationVar(&driftFor, "for", 0, "Stop after this long (0 runs until interrupted)")
	driftCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print notes as they play")
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "textscape.wav", "WAV file to write")
	renderCmd.Flags().DurationVar(&renderFor, "drift", 0, "Render a drift of this length instead of a bounded piece")
}

// analysisOutput is what analyze prints.
type analysisOutput struct {
	Key        string            `yaml:"key"`
	Scale      string            `yaml:"scale"`
	Words      int               `yaml:"words"`
	Duration   string            `yaml:"duration,omitempty"`
	Events     map[string]int    `yaml:"events,omitempty"`
	Parameters *music.Parameters `yaml:"parameters"`
}

func runAnalyze(_ *cobra.Command, args []string) error {
	text, err := readText(args)
	if err != nil {
		return err
	}
	opts, err := options()
	if err != nil {
		return err
	}
	params, err := textscape.MapTextToMusic(text, opts...)
	if err != nil {
		return err
	}
	out := analysisOutput{
		Key:        params.Tonal.KeyName,
		Scale:      params.Scale.Name,
		Parameters: params,
	}
	if params.Report != nil {
		out.Words = params.Report.WordCount
	}
	if c, err := textscape.Compose(text, params, opts...); err == nil {
		out.Duration = durafmt.Parse(c.Duration).LimitFirstN(2).String()
		out.Events = make(map[string]int, len(c.Timeline))
		for v, evs := range c.Timeline {
			out.Events[v.String()] = len(evs)
		}
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(out)
}

// interrupted returns a context cancelled on Ctrl-C or SIGTERM.
func interrupted() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newPlayer() (*textscape.Player, error) {
	opts, err := options()
	if err != nil {
		return nil, err
	}
	return textscape.NewPlayer(cfg.SampleRate, opts...)
}

func printEvents(ch <-chan textscape.PlaybackEvent, total time.Duration) {
	last := -1
	for ev := range ch {
		switch ev.Kind {
		case textscape.EventNote:
			if !quiet {
				fmt.Printf("%s  %-10s %s\n", scheduler.FormatTime(ev.At), ev.Voice, scales.NoteName(ev.Note))
			}
		case textscape.EventProgress:
			if pct := int(ev.Progress * 100); pct/10 != last/10 {
				last = pct
				elapsed := time.Duration(ev.Progress * float64(total))
				fmt.Printf("%s / %s (%d%%)\n", scheduler.FormatTime(elapsed), scheduler.FormatTime(total), pct)
			}
		case textscape.EventCompleted, textscape.EventStopped:
			return
		}
	}
}

func runPlay(_ *cobra.Command, args []string) error {
	text, err := readText(args)
	if err != nil {
		return err
	}
	pl, err := newPlayer()
	if err != nil {
		return err
	}
	defer pl.Close()

	ctx, cancel := interrupted()
	defer cancel()
	ch := pl.Watch()
	c, err := pl.PlayText(ctx, text)
	if err != nil {
		logger.Error("play", err, nil)
		return err
	}
	fmt.Printf("%s in %s, %s, %s events\n",
		c.Params.Scale.Name, c.Params.Tonal.KeyName,
		durafmt.Parse(c.Duration).LimitFirstN(2), humanize.Comma(int64(c.EventCount())))

	go printEvents(ch, c.Duration)
	go func() {
		<-ctx.Done()
		pl.Stop()
	}()
	pl.Wait()
	return nil
}

func runDrift(_ *cobra.Command, args []string) error {
	text, err := readText(args)
	if err != nil {
		return err
	}
	pl, err := newPlayer()
	if err != nil {
		return err
	}
	defer pl.Close()

	ctx, cancel := interrupted()
	defer cancel()
	if driftFor > 0 {
		ctx, cancel = context.WithTimeout(ctx, driftFor)
		defer cancel()
	}
	ch := pl.Watch()
	params, err := pl.Drift(ctx, text)
	if err != nil {
		logger.Error("drift", err, nil)
		return err
	}
	fmt.Printf("drifting in %s %s, %d voices\n", params.Tonal.KeyName, params.Scale.Name, len(params.ActiveVoices))

	go printEvents(ch, 0)
	<-ctx.Done()
	elapsed := pl.Elapsed()
	pl.Stop()
	fmt.Printf("drifted for %s\n", durafmt.Parse(elapsed.Round(time.Second)))
	return nil
}

func runRender(_ *cobra.Command, args []string) error {
	text, err := readText(args)
	if err != nil {
		return err
	}
	opts, err := options()
	if err != nil {
		return err
	}

	start := time.Now()
	var samples []float32
	if renderFor > 0 {
		params, err := textscape.MapTextToMusic(text, opts...)
		if err != nil {
			return err
		}
		samples, err = textscape.RenderDrift(params, cfg.SampleRate, renderFor, opts...)
		if err != nil {
			return err
		}
	} else {
		c, err := textscape.Compose(text, nil, opts...)
		if err != nil {
			return err
		}
		samples, err = textscape.RenderComposition(c, cfg.SampleRate)
		if err != nil {
			return err
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := textscape.WriteWAV(f, samples, cfg.SampleRate, 2); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	audio := time.Duration(len(samples)/2) * time.Second / time.Duration(cfg.SampleRate)
	fmt.Printf("wrote %s: %s of audio, %s, in %s\n", outputPath,
		durafmt.Parse(audio.Round(time.Second)), humanize.Bytes(uint64(44+len(samples)*4)),
		durafmt.ParseShort(time.Since(start)))
	logger.Info("render complete", logger.Fields{"path": outputPath, "samples": len(samples)})
	return nil
}
