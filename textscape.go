// Package textscape turns natural-language text into ambient music: it maps
// text to musical parameters, composes bounded pieces or drifts endlessly,
// and plays or renders the result.
package textscape

import (
	"context"
	"math/rand/v2"

	"github.com/cbegin/textscape-go/internal/clock"
	"github.com/cbegin/textscape-go/internal/compose"
	"github.com/cbegin/textscape-go/internal/lexicon"
	"github.com/cbegin/textscape-go/internal/mapping"
	"github.com/cbegin/textscape-go/internal/music"
	"github.com/cbegin/textscape-go/internal/scales"
)

type (
	Parameters     = music.Parameters
	Composition    = music.Composition
	ScheduledEvent = music.ScheduledEvent
	VoiceType      = music.VoiceType
)

type Option func(*options)

type options struct {
	culture   scales.Culture
	bias      mapping.UserBias
	vad       lexicon.VADTable
	seed      uint64
	seeded    bool
	clock     clock.Clock
	device    bool
	volume    float64
	sampleTap func([]float32)
}

func defaultOptions() options {
	return options{
		culture: scales.Multicultural,
		vad:     lexicon.Builtin(),
		device:  true,
		volume:  1,
	}
}

func buildOptions(opts []Option) options {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (o options) rand() *rand.Rand {
	if o.seeded {
		return rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// WithCulture picks the scale pool: multicultural, western, indian,
// middleEastern, eastAsian or exotic.
func WithCulture(culture string) Option {
	return func(o *options) {
		if culture != "" {
			o.culture = scales.Culture(culture)
		}
	}
}

// WithBias nudges mood and density after analysis.
func WithBias(mood, density float64) Option {
	return func(o *options) {
		o.bias = mapping.UserBias{Mood: mood, Density: density}
	}
}

// WithVADTable puts a valence-arousal-dominance table in front of the
// built-in one.
func WithVADTable(table lexicon.VADTable) Option {
	return func(o *options) {
		if table != nil {
			o.vad = lexicon.Chain(table, lexicon.Builtin())
		}
	}
}

// WithSeed makes every random choice repeatable.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed, o.seeded = seed, true
	}
}

// WithClock drives playback from c instead of the wall clock. The caller is
// then responsible for advancing the player's loop.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithoutAudioDevice keeps the player from opening the sound card. Tones are
// still produced by the synth and can be pulled with Player.Render.
func WithoutAudioDevice() Option {
	return func(o *options) {
		o.device = false
	}
}

// WithMasterVolume sets the initial output volume.
func WithMasterVolume(v float64) Option {
	return func(o *options) {
		o.volume = max(v, 0)
	}
}

// WithSampleTap installs a callback invoked with each generated stereo buffer.
// The callback runs on the audio thread; keep work brief and non-blocking.
func WithSampleTap(tap func([]float32)) Option {
	return func(o *options) {
		o.sampleTap = tap
	}
}

func mapperFor(o options) mapping.Mapper {
	return mapping.Mapper{VAD: o.vad, Culture: o.culture, Bias: o.bias, Rand: o.rand()}
}

// MapTextToMusic analyzes text and returns the musical parameters for it.
// Degenerate text yields neutral parameters, never an error.
func MapTextToMusic(text string, opts ...Option) (*Parameters, error) {
	return mapperFor(buildOptions(opts)).Map(context.Background(), text)
}

// Compose builds a bounded piece. A nil params maps text first. Text with
// no words is an EmptyInputError.
func Compose(text string, params *Parameters, opts ...Option) (*Composition, error) {
	o := buildOptions(opts)
	if params == nil {
		p, err := mapperFor(o).Map(context.Background(), text)
		if err != nil {
			return nil, err
		}
		params = p
	}
	return compose.New(o.rand()).Generate(text, params)
}
