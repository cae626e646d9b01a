// Package tonal derives the single key and mode that every generator in a
// piece is locked to.
package tonal

import (
	"math"
	"time"

	"github.com/cbegin/textscape-go/internal/analysis"
	"github.com/cbegin/textscape-go/internal/lexicon"
	"github.com/cbegin/textscape-go/internal/logger"
	"github.com/cbegin/textscape-go/internal/scales"
)

const (
	// MinKey and MaxKey bound the global root, C3..C4.
	MinKey = 48
	MaxKey = 60

	functionWordWeight = 0.1
	unknownWordWeight  = 0.2

	// MaxDeviation is the furthest a modulation may move from the global key.
	MaxDeviation = 7
)

// WordEntry is one distinct word of the text with its resolved VAD.
type WordEntry struct {
	Word      string
	VAD       lexicon.VAD
	Weight    float64
	Frequency int
	Function  bool
	Known     bool
}

// Metrics are the weighted VAD averages of a text.
type Metrics struct {
	Valence   float64
	Arousal   float64
	Dominance float64
	Tension   float64
}

// Modulation is a temporary, punctuation-triggered departure from the
// global key.
type Modulation struct {
	Trigger      analysis.Punctuation
	RootOffset   int
	Duration     time.Duration
	Resolves     bool
	AvoidTonic   bool
	ParallelMode bool
	Suspended    bool
}

var modulations = map[analysis.Punctuation]Modulation{
	analysis.PunctExclamation: {Trigger: analysis.PunctExclamation, RootOffset: 7, Duration: 2000 * time.Millisecond, Resolves: true},
	analysis.PunctQuestion:    {Trigger: analysis.PunctQuestion, RootOffset: 5, Duration: 1500 * time.Millisecond, Resolves: true, AvoidTonic: true},
	analysis.PunctSemicolon:   {Trigger: analysis.PunctSemicolon, ParallelMode: true, Duration: 3000 * time.Millisecond, Resolves: true},
	analysis.PunctEllipsis:    {Trigger: analysis.PunctEllipsis, Duration: 2000 * time.Millisecond, Resolves: true, Suspended: true},
}

// Center is the immutable tonal frame of one text.
type Center struct {
	GlobalKey    int
	KeyName      string
	Mode         scales.Scale
	Scale        []int // sorted MIDI notes of Mode over the global octave span
	Metrics      Metrics
	Profile      []WordEntry // first-occurrence order
	Modulations  map[analysis.Punctuation]Modulation
	MaxDeviation int
}

// Calculator resolves word VAD values through an optional table.
type Calculator struct {
	VAD     lexicon.VADTable
	Culture scales.Culture
}

// Calculate is deterministic: the same text and table always give the same
// Center.
func (c Calculator) Calculate(text string) Center {
	profile := c.profile(text)
	m := metrics(profile)
	key := KeyForValence(m.Valence)
	mode := scales.Select(m.Valence, m.Tension, c.Culture)

	mods := make(map[analysis.Punctuation]Modulation, len(modulations))
	for k, v := range modulations {
		mods[k] = v
	}
	center := Center{
		GlobalKey:    key,
		KeyName:      scales.NoteName(key),
		Mode:         mode,
		Scale:        scales.Notes(mode, key, scales.LowOctave, scales.HighOctave),
		Metrics:      m,
		Profile:      profile,
		Modulations:  mods,
		MaxDeviation: MaxDeviation,
	}
	logger.Info("tonal center", logger.Fields{
		"key":     center.KeyName,
		"mode":    mode.ID,
		"valence": round3(m.Valence),
		"tension": round3(m.Tension),
		"words":   len(profile),
	})
	return center
}

func (c Calculator) profile(text string) []WordEntry {
	words := analysis.LowerWords(text)
	index := make(map[string]int, len(words))
	var entries []WordEntry
	for _, w := range words {
		if i, ok := index[w]; ok {
			entries[i].Frequency++
			continue
		}
		index[w] = len(entries)
		entries = append(entries, WordEntry{Word: w, Frequency: 1, Function: lexicon.FunctionWords.Has(w)})
	}
	for i := range entries {
		e := &entries[i]
		e.VAD = lexicon.Neutral
		if c.VAD != nil {
			if v, ok := c.VAD.Lookup(e.Word); ok {
				e.VAD = v
				e.Known = true
			}
		}
		e.Weight = math.Sqrt(float64(e.Frequency))
		if e.Function {
			e.Weight *= functionWordWeight
		}
		if !e.Known {
			e.Weight *= unknownWordWeight
		}
	}
	return entries
}

func metrics(profile []WordEntry) Metrics {
	var v, a, d, total float64
	for _, e := range profile {
		v += e.VAD.Valence * e.Weight
		a += e.VAD.Arousal * e.Weight
		d += e.VAD.Dominance * e.Weight
		total += e.Weight
	}
	if total == 0 {
		n := lexicon.Neutral
		return Metrics{Valence: n.Valence, Arousal: n.Arousal, Dominance: n.Dominance, Tension: tension(n.Valence, n.Arousal)}
	}
	m := Metrics{Valence: v / total, Arousal: a / total, Dominance: d / total}
	m.Tension = tension(m.Valence, m.Arousal)
	return m
}

func tension(valence, arousal float64) float64 {
	return (arousal + math.Abs(valence)*0.5) / 2
}

// KeyForValence maps valence in [-1,1] linearly onto MIDI 48..60.
func KeyForValence(v float64) int {
	key := int(math.Round(MinKey + (v+1)/2*(MaxKey-MinKey)))
	return min(max(key, MinKey), MaxKey)
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

// InScale reports whether n belongs to the global mode.
func (c Center) InScale(n int) bool {
	return scales.Contains(c.Mode, c.GlobalKey, n)
}

// Nearest snaps n to the closest global scale note; ties go down.
func (c Center) Nearest(n int) int {
	if len(c.Scale) == 0 {
		return n
	}
	best := c.Scale[0]
	for _, s := range c.Scale[1:] {
		if abs(s-n) < abs(best-n) {
			best = s
		}
	}
	return best
}

// EnforceKeyLock snaps every note onto the global scale.
func (c Center) EnforceKeyLock(notes []int) []int {
	out := make([]int, len(notes))
	for i, n := range notes {
		out[i] = c.Nearest(n)
	}
	return out
}

// Region is the key in force while a modulation lasts.
type Region struct {
	Modulation Modulation
	Root       int
	Mode       scales.Scale
	Notes      []int
}

// Modulated returns the temporary key for a trigger, or false when the
// trigger is not a listed modulation.
func (c Center) Modulated(trigger analysis.Punctuation) (Region, bool) {
	m, ok := c.Modulations[trigger]
	if !ok {
		return Region{}, false
	}
	offset := max(-c.MaxDeviation, min(m.RootOffset, c.MaxDeviation))
	root := c.GlobalKey + offset
	mode := c.Mode
	if m.ParallelMode {
		mode = scales.Parallel(mode)
	}
	return Region{
		Modulation: m,
		Root:       root,
		Mode:       mode,
		Notes:      scales.Notes(mode, root, scales.LowOctave, scales.HighOctave),
	}, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
