// Package rules holds the constraint functions that keep generated music
// consonant, sparse and in range.
package rules

import (
	"math/rand/v2"
	"slices"
	"sort"
	"time"

	"github.com/cbegin/textscape-go/internal/music"
)

const (
	MaxVoices       = 6
	MinNoteDuration = 500 * time.Millisecond
	MaxNoteDuration = 12000 * time.Millisecond

	MinDensity = 0.1
	MaxDensity = 0.9
	MinTempo   = 0.3
	MaxTempo   = 1.2

	MaxMelodicInterval  = 7
	StepwiseInterval    = 2
	StepwiseBias        = 0.7
	DissonanceTolerance = 0.3
	ChordSpan           = 24

	VoiceThreshold      = 0.2
	DroneForceChance    = 0.7
	baseNoteMs          = 1000
	noteMsPerLetter     = 200
	densityDurationBase = 1.5
)

var (
	ConsonantIntervals = []int{0, 3, 4, 5, 7, 8, 9, 12}
	DissonantIntervals = []int{1, 2, 6, 10, 11}
)

// Base is the part of the parameters the constraints apply to.
type Base struct {
	Mood    float64
	Tension float64
	Density float64
	Tempo   float64
}

// ConstrainParameters clamps every field into range. Applying it twice is
// the same as applying it once.
func ConstrainParameters(b Base) Base {
	return Base{
		Mood:    clamp(b.Mood, -1, 1),
		Tension: clamp(b.Tension, 0, 1),
		Density: clamp(b.Density, MinDensity, MaxDensity),
		Tempo:   clamp(b.Tempo, MinTempo, MaxTempo),
	}
}

// Constrain applies ConstrainParameters in place.
func Constrain(p *music.Parameters) {
	b := ConstrainParameters(Base{Mood: p.Mood, Tension: p.Tension, Density: p.Density, Tempo: p.Tempo})
	p.Mood, p.Tension, p.Density, p.Tempo = b.Mood, b.Tension, b.Density, b.Tempo
}

// Dissonant classifies an interval by its pitch class.
func Dissonant(interval int) bool {
	return slices.Contains(DissonantIntervals, abs(interval)%12)
}

// SelectChordNotes builds a chord of up to count notes from scaleNotes within
// two octaves of root. The root is always present. A candidate that is
// dissonant against any chosen note survives with probability
// tension*DissonanceTolerance. Every candidate is tried at most once, so a
// short scale yields a smaller chord rather than looping.
func SelectChordNotes(rng *rand.Rand, scaleNotes []int, root, count int, tension float64) []int {
	notes := []int{root}
	var candidates []int
	for _, n := range scaleNotes {
		if n != root && abs(n-root) < ChordSpan {
			candidates = append(candidates, n)
		}
	}
	accept := tension * DissonanceTolerance
	for len(notes) < count && len(candidates) > 0 {
		i := rng.IntN(len(candidates))
		c := candidates[i]
		candidates = append(candidates[:i], candidates[i+1:]...)

		ok := true
		for _, n := range notes {
			if Dissonant(c-n) && rng.Float64() >= accept {
				ok = false
				break
			}
		}
		if ok {
			notes = append(notes, c)
		}
	}
	sort.Ints(notes)
	return notes
}

// Direction constrains melodic motion.
type Direction int

const (
	AnyDirection Direction = iota
	Up
	Down
)

// NoNote marks the absence of a previous melodic note.
const NoNote = -1

// NextMelodicNote picks the next note within MaxMelodicInterval of previous,
// preferring steps of at most two semitones. With no previous note it starts
// mid-scale.
func NextMelodicNote(rng *rand.Rand, scaleNotes []int, previous int, dir Direction) int {
	if len(scaleNotes) == 0 {
		return previous
	}
	if previous == NoNote {
		return scaleNotes[len(scaleNotes)/2]
	}
	var nearby []int
	for _, n := range scaleNotes {
		if d := abs(n - previous); d > 0 && d <= MaxMelodicInterval {
			nearby = append(nearby, n)
		}
	}
	if len(nearby) == 0 {
		return scaleNotes[rng.IntN(len(scaleNotes))]
	}
	candidates := nearby
	if dir != AnyDirection {
		var directed []int
		for _, n := range nearby {
			if (dir == Up && n > previous) || (dir == Down && n < previous) {
				directed = append(directed, n)
			}
		}
		if len(directed) > 0 {
			candidates = directed
		}
	}
	if rng.Float64() < StepwiseBias {
		var steps []int
		for _, n := range candidates {
			if abs(n-previous) <= StepwiseInterval {
				steps = append(steps, n)
			}
		}
		if len(steps) > 0 {
			candidates = steps
		}
	}
	return candidates[rng.IntN(len(candidates))]
}

// SelectActiveVoices turns weights into the set of sounding voices. A voice
// plays when its weight clears VoiceThreshold and a weighted coin flip. The
// drone is added with DroneForceChance when it missed. The result is capped
// at MaxVoices, dropping the lowest weights, and returned in voice order.
func SelectActiveVoices(rng *rand.Rand, weights map[music.VoiceType]float64) []music.VoiceType {
	var voices []music.VoiceType
	for _, v := range music.VoiceTypes {
		w := weights[v]
		if w > VoiceThreshold && rng.Float64() < w {
			voices = append(voices, v)
		}
	}
	if !slices.Contains(voices, music.Drone) && rng.Float64() < DroneForceChance {
		voices = append(voices, music.Drone)
	}
	if len(voices) > MaxVoices {
		sort.SliceStable(voices, func(i, j int) bool { return weights[voices[i]] > weights[voices[j]] })
		voices = voices[:MaxVoices]
	}
	slices.Sort(voices)
	return voices
}

// NoteDuration lengthens notes for long words and slow, sparse music.
func NoteDuration(wordLength int, tempo, density float64) time.Duration {
	if tempo <= 0 {
		tempo = MinTempo
	}
	ms := float64(baseNoteMs+noteMsPerLetter*wordLength) / tempo * (densityDurationBase - density)
	return ClampDuration(time.Duration(ms * float64(time.Millisecond)))
}

// ClampDuration limits a note to [MinNoteDuration, MaxNoteDuration].
func ClampDuration(d time.Duration) time.Duration {
	return min(max(d, MinNoteDuration), MaxNoteDuration)
}

// Progression returns length chord roots taken from the octave above root.
// Bright moods move I-IV-V-I, mild ones I-vi-IV-V, minor ones i-VI-III-VII
// and dark ones i-ii-v-i. High tension shifts the second chord up a degree.
func Progression(scaleNotes []int, root int, mood, tension float64, length int) []int {
	var octave []int
	for _, n := range scaleNotes {
		if n >= root && n < root+12 {
			octave = append(octave, n)
		}
	}
	if len(octave) == 0 || length <= 0 {
		return nil
	}
	var degrees []int
	switch {
	case mood > 0.5:
		degrees = []int{0, 3, 4, 0}
	case mood > 0:
		degrees = []int{0, 5, 3, 4}
	case mood > -0.5:
		degrees = []int{0, 5, 2, 6}
	default:
		degrees = []int{0, 1, 4, 0}
	}
	if tension > 0.6 {
		degrees[1] = (degrees[1] + 1) % len(octave)
	}
	out := make([]int, length)
	for i := range out {
		out[i] = octave[degrees[i%len(degrees)]%len(octave)]
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
