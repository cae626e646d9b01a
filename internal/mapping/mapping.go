// Package mapping turns text into the musical parameters both engines
// consume.
package mapping

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/cbegin/textscape-go/internal/analysis"
	apperr "github.com/cbegin/textscape-go/internal/errors"
	"github.com/cbegin/textscape-go/internal/lexicon"
	"github.com/cbegin/textscape-go/internal/logger"
	"github.com/cbegin/textscape-go/internal/music"
	"github.com/cbegin/textscape-go/internal/rules"
	"github.com/cbegin/textscape-go/internal/scales"
	"github.com/cbegin/textscape-go/internal/tonal"
)

// Blend ratios and defaults, kept as tuned.
const (
	sentimentMoodShare = 0.7
	colorMoodShare     = 0.3

	sentimentTensionShare  = 0.4
	complexityTensionShare = 0.3
	accentTensionShare     = 0.3

	baseDensity      = 0.4
	diversityDensity = 0.2
	infoDensity      = 0.2
	arousalDensity   = 0.1

	baseTempo        = 0.7
	arousalTempo     = 0.3
	mappedTempoShare = 0.6
	wordTempoShare   = 0.4

	emotionBlend = 0.4
	conceptShare = 0.3

	defaultReverbSize = "cathedral"
	defaultReverbMix  = 0.5
	defaultDelayMix   = 0.15
	defaultLowPass    = 0.8
	defaultHighPass   = 0.1
)

// Neutral is the parameter base used when text has no words.
var Neutral = rules.Base{Mood: 0, Tension: 0.25, Density: 0.45, Tempo: 0.85}

// UserBias shifts the mapped mood and density.
type UserBias struct {
	Mood    float64
	Density float64
}

// Mapper runs the analyzers and the tonal calculator and blends their output.
type Mapper struct {
	VAD     lexicon.VADTable
	Culture scales.Culture
	Bias    UserBias
	Rand    *rand.Rand // voice selection; nil uses a randomly seeded source
}

// Map never fails on degenerate text. The only error is a cancelled context.
func (m Mapper) Map(ctx context.Context, text string) (*music.Parameters, error) {
	culture := m.Culture
	if culture == "" {
		culture = scales.Multicultural
	}
	center := tonal.Calculator{VAD: m.VAD, Culture: culture}.Calculate(text)
	report, err := analysis.Run(ctx, text, analysis.Options{VAD: m.VAD})
	if err != nil {
		return nil, apperr.Wrap("analysis", err)
	}

	var base rules.Base
	if report.WordCount == 0 {
		logger.Debug("no words, using neutral parameters", nil)
		base = Neutral
	} else {
		base = baseParameters(report)
		base = applyCulture(base, report.Sentiment)
	}
	base = applyBias(base, m.Bias)
	base = rules.ConstrainParameters(base)

	rng := m.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	weights := voiceWeights(report)
	p := &music.Parameters{
		Mood:         base.Mood,
		Tension:      base.Tension,
		Density:      base.Density,
		Tempo:        base.Tempo,
		Scale:        center.Mode,
		Root:         center.GlobalKey,
		ScaleNotes:   center.Scale,
		VoiceWeights: weights,
		ActiveVoices: rules.SelectActiveVoices(rng, weights),
		Effects:      effects(report, base.Tempo),
		Culture:      culture,
		Tonal:        center,
		Report:       report,
	}
	return p, nil
}

func baseParameters(r *analysis.Report) rules.Base {
	s := r.Sentiment

	mood := s.Mood
	if colors := s.Hits(lexicon.Color); len(colors) > 0 {
		var sum float64
		for _, c := range colors {
			sum += c.Fragment.Mood.Or(0)
		}
		mood = mood*sentimentMoodShare + sum/float64(len(colors))*colorMoodShare
	}

	tension := s.Tension*sentimentTensionShare +
		r.Complexity.Overall*complexityTensionShare +
		r.Structural.AccentFrequency()*accentTensionShare

	density := baseDensity +
		r.Lexical.Diversity*diversityDensity +
		r.Complexity.InformationDensity*infoDensity +
		s.Arousal*arousalDensity

	tempo := baseTempo + s.Arousal*arousalTempo
	if temporal := s.Hits(lexicon.Temporal); len(temporal) > 0 {
		var sum float64
		for _, t := range temporal {
			sum += t.Fragment.Tempo.Or(1)
		}
		tempo = tempo*mappedTempoShare + sum/float64(len(temporal))*wordTempoShare
	}
	return rules.Base{Mood: mood, Tension: tension, Density: density, Tempo: tempo}
}

// applyCulture blends in the first detected emotion, in emotion table order,
// and then the first cultural concept.
func applyCulture(b rules.Base, s analysis.Sentiment) rules.Base {
	if len(s.Emotions) > 0 {
		e := s.Emotions[0].Emotion
		b.Mood = b.Mood*(1-emotionBlend) + e.Mood*emotionBlend
		b.Tension = b.Tension*(1-emotionBlend) + e.Tension*emotionBlend
		b.Density = b.Density*(1-emotionBlend) + e.Density*emotionBlend
		b.Tempo = b.Tempo*(1-emotionBlend) + e.Tempo*emotionBlend
	}
	if len(s.Concepts) > 0 {
		c := s.Concepts[0]
		b.Mood = b.Mood*(1-conceptShare) + c.Mood*conceptShare
		b.Tension = b.Tension*(1-conceptShare) + c.Tension*conceptShare
	}
	return b
}

func applyBias(b rules.Base, bias UserBias) rules.Base {
	if bias.Mood != 0 {
		b.Mood = min(max(b.Mood+bias.Mood, -1), 1)
	}
	if bias.Density != 0 {
		b.Density = min(max(b.Density+bias.Density, rules.MinDensity), rules.MaxDensity)
	}
	return b
}

func voiceWeights(r *analysis.Report) map[music.VoiceType]float64 {
	s := r.Sentiment
	abstraction := r.Complexity.Abstraction
	pos := r.Lexical.POS

	w := map[music.VoiceType]float64{
		music.Drone:      0.7 + (1-s.Arousal)*0.3,
		music.Pad:        r.Phonetic.Smoothness*0.4 + r.Lexical.Diversity*0.3,
		music.Melody:     pos.Nouns*0.6 + (1-abstraction)*0.4,
		music.Texture:    pos.Adjectives*0.5 + abstraction*0.3 + float64(len(s.Hits(lexicon.Textural)))*0.05,
		music.Pulse:      pos.Verbs*0.6 + r.Phonetic.Consonants.Plosive*0.3 + s.Arousal*0.1,
		music.Atmosphere: 0.5 + float64(len(s.Hits(lexicon.Nature)))*0.1 + abstraction*0.2,
	}
	if len(s.Hits(lexicon.Spatial)) > 0 {
		w[music.Pad] += 0.3
	}
	top := 1.0
	for _, v := range w {
		top = max(top, v)
	}
	for k, v := range w {
		w[k] = v / top
	}
	return w
}

func effects(r *analysis.Report, tempo float64) music.Effects {
	s := r.Sentiment
	fx := music.Effects{
		ReverbSize: defaultReverbSize,
		ReverbMix:  defaultReverbMix,
		DelayMix:   defaultDelayMix,
		LowPass:    defaultLowPass,
		HighPass:   defaultHighPass,
	}
	if spatial := s.Hits(lexicon.Spatial); len(spatial) > 0 {
		f := spatial[0].Fragment
		if f.ReverbSize != "" {
			fx.ReverbSize = f.ReverbSize
		}
		if f.Density.Set {
			fx.ReverbMix = 0.3 + (1-f.Density.Value)*0.4
		}
		fx.LowPass = f.LowPass.Or(fx.LowPass)
		fx.HighPass = f.HighPass.Or(fx.HighPass)
	}
	if textural := s.Hits(lexicon.Textural); len(textural) > 0 {
		f := textural[0].Fragment
		fx.LowPass = f.FilterCutoff.Or(fx.LowPass)
		fx.LowPass = f.Brightness.Or(fx.LowPass)
		fx.ReverbMix = f.ReverbMix.Or(fx.ReverbMix)
	}
	fx.DelayTime = DelayTime(tempo)
	fx.Attack = time.Duration(r.Phonetic.AttackMs() * float64(time.Millisecond))
	return fx
}

// DelayTime is a dotted quarter at 120 BPM scaled by tempo.
func DelayTime(tempo float64) time.Duration {
	if tempo <= 0 {
		tempo = rules.MinTempo
	}
	return time.Duration(60 / (120 * tempo) * 1.5 * float64(time.Second))
}
