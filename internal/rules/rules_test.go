package rules

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/textscape-go/internal/music"
	"github.com/cbegin/textscape-go/internal/scales"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func cMajor() []int {
	s, _ := scales.Lookup("ionian", scales.Western)
	return scales.Notes(s, 48, scales.LowOctave, scales.HighOctave)
}

func TestConstrainParametersIsIdempotent(t *testing.T) {
	inputs := []Base{
		{Mood: 3, Tension: -1, Density: 2, Tempo: 0},
		{Mood: -4, Tension: 7, Density: -1, Tempo: 9},
		{Mood: 0.2, Tension: 0.5, Density: 0.5, Tempo: 1},
	}
	for _, in := range inputs {
		once := ConstrainParameters(in)
		assert.Equal(t, once, ConstrainParameters(once))
		assert.True(t, once.Mood >= -1 && once.Mood <= 1)
		assert.True(t, once.Tension >= 0 && once.Tension <= 1)
		assert.True(t, once.Density >= MinDensity && once.Density <= MaxDensity)
		assert.True(t, once.Tempo >= MinTempo && once.Tempo <= MaxTempo)
	}
	assert.Equal(t, Base{Mood: 1, Tension: 0, Density: 0.9, Tempo: 0.3}, ConstrainParameters(inputs[0]))
}

func TestConstrainInPlace(t *testing.T) {
	p := &music.Parameters{Mood: 2, Tension: 2, Density: 0, Tempo: 5}
	Constrain(p)
	assert.Equal(t, 1.0, p.Mood)
	assert.Equal(t, 1.0, p.Tension)
	assert.Equal(t, MinDensity, p.Density)
	assert.Equal(t, MaxTempo, p.Tempo)
}

func TestSelectChordNotesAlwaysContainsRoot(t *testing.T) {
	notes := cMajor()
	rng := newRand(1)
	for i := 0; i < 500; i++ {
		root := notes[rng.IntN(len(notes))]
		count := 1 + rng.IntN(6)
		chord := SelectChordNotes(rng, notes, root, count, rng.Float64())
		assert.Contains(t, chord, root)
		assert.LessOrEqual(t, len(chord), count)
		assert.IsIncreasing(t, chord)
		for _, n := range chord {
			assert.Less(t, abs(n-root), ChordSpan)
		}
	}
}

func TestSelectChordNotesAvoidsDissonanceWithoutTension(t *testing.T) {
	notes := cMajor()
	rng := newRand(2)
	for i := 0; i < 200; i++ {
		chord := SelectChordNotes(rng, notes, 60, 4, 0)
		for a := 0; a < len(chord); a++ {
			for b := a + 1; b < len(chord); b++ {
				assert.False(t, Dissonant(chord[b]-chord[a]), "%v", chord)
			}
		}
	}
}

func TestSelectChordNotesTerminatesOnShortScale(t *testing.T) {
	chord := SelectChordNotes(newRand(3), []int{60, 61}, 60, 6, 0)
	assert.Equal(t, []int{60}, chord)
	assert.Equal(t, []int{60}, SelectChordNotes(newRand(3), nil, 60, 4, 1))
}

func TestNextMelodicNote(t *testing.T) {
	notes := cMajor()
	rng := newRand(4)
	assert.Equal(t, notes[len(notes)/2], NextMelodicNote(rng, notes, NoNote, AnyDirection))

	for i := 0; i < 300; i++ {
		prev := 64
		n := NextMelodicNote(rng, notes, prev, AnyDirection)
		assert.True(t, abs(n-prev) > 0 && abs(n-prev) <= MaxMelodicInterval)
		assert.Greater(t, NextMelodicNote(rng, notes, prev, Up), prev)
		assert.Less(t, NextMelodicNote(rng, notes, prev, Down), prev)
	}

	// The highest note has nowhere to go up, so direction is relaxed.
	top := notes[len(notes)-1]
	assert.Less(t, NextMelodicNote(rng, notes, top, Up), top)
}

func TestNextMelodicNotePrefersSteps(t *testing.T) {
	notes := cMajor()
	rng := newRand(5)
	steps := 0
	const trials = 4000
	for i := 0; i < trials; i++ {
		if abs(NextMelodicNote(rng, notes, 64, AnyDirection)-64) <= StepwiseInterval {
			steps++
		}
	}
	// 70% forced steps plus the step share of the uniform remainder.
	assert.Greater(t, float64(steps)/trials, 0.7)
}

func TestSelectActiveVoicesCap(t *testing.T) {
	rng := newRand(6)
	all := map[music.VoiceType]float64{}
	for _, v := range music.VoiceTypes {
		all[v] = 1
	}
	for i := 0; i < 100; i++ {
		voices := SelectActiveVoices(rng, all)
		assert.LessOrEqual(t, len(voices), MaxVoices)
		assert.IsIncreasing(t, voices)
	}
	assert.Equal(t, music.VoiceTypes, SelectActiveVoices(rng, all))
}

func TestSelectActiveVoicesDroneForcing(t *testing.T) {
	rng := newRand(7)
	zero := map[music.VoiceType]float64{}
	for _, v := range music.VoiceTypes {
		zero[v] = 0
	}
	drone := 0
	const trials = 10000
	for i := 0; i < trials; i++ {
		voices := SelectActiveVoices(rng, zero)
		require.LessOrEqual(t, len(voices), 1)
		if len(voices) == 1 {
			require.Equal(t, music.Drone, voices[0])
			drone++
		}
	}
	assert.InDelta(t, DroneForceChance, float64(drone)/trials, 0.03)
}

func TestSelectActiveVoicesThreshold(t *testing.T) {
	rng := newRand(8)
	weights := map[music.VoiceType]float64{music.Pad: VoiceThreshold, music.Melody: 0.19}
	for i := 0; i < 200; i++ {
		for _, v := range SelectActiveVoices(rng, weights) {
			assert.Equal(t, music.Drone, v)
		}
	}
}

func TestNoteDuration(t *testing.T) {
	// (1000+200*5)/1 * (1.5-0.5) = 2000ms
	assert.Equal(t, 2000*time.Millisecond, NoteDuration(5, 1, 0.5))
	assert.Equal(t, MaxNoteDuration, NoteDuration(40, 0.3, 0.1))
	assert.Equal(t, MinNoteDuration, NoteDuration(0, 1.2, 1.4))
	assert.Equal(t, NoteDuration(3, MinTempo, 0.5), NoteDuration(3, 0, 0.5))
}

func TestClampDuration(t *testing.T) {
	assert.Equal(t, MinNoteDuration, ClampDuration(400*time.Millisecond))
	assert.Equal(t, MaxNoteDuration, ClampDuration(time.Minute))
	assert.Equal(t, 3*time.Second, ClampDuration(3*time.Second))
}

func TestProgression(t *testing.T) {
	notes := cMajor()
	assert.Equal(t, []int{48, 53, 55, 48}, Progression(notes, 48, 0.8, 0.2, 4))
	assert.Equal(t, []int{48, 57, 53, 55}, Progression(notes, 48, 0.2, 0.2, 4))
	assert.Equal(t, []int{48, 57, 52, 59, 48}, Progression(notes, 48, -0.2, 0.2, 5))
	assert.Equal(t, []int{48, 50, 55, 48}, Progression(notes, 48, -0.8, 0.2, 4))
	// Tension moves the second chord up one degree.
	assert.Equal(t, []int{48, 55, 55, 48}, Progression(notes, 48, 0.8, 0.9, 4))
	assert.Nil(t, Progression(nil, 48, 0, 0, 4))
}
