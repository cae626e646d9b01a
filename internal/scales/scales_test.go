package scales

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogSizes(t *testing.T) {
	assert.Len(t, All(), 26)
	assert.Len(t, Pool(Multicultural), 8+5+4+5+2)
	assert.Len(t, Pool(EastAsian), 5)
	assert.Equal(t, western, Pool(Culture("martian")))
}

func TestSelectNearest(t *testing.T) {
	cases := []struct {
		mood, tension float64
		culture       Culture
		want          string
	}{
		{0.7, 0.2, Western, "ionian"},
		{-0.7, 0.9, Western, "locrian"},
		{0.9, 0.4, Western, "lydian"},
		{0.7, 0.1, EastAsian, "majorPentatonic"},
		{-0.6, 0.7, MiddleEastern, "saba"},
		{0.3, 0.8, Exotic, "wholeTone"},
		{-0.6, 0.7, Multicultural, "saba"},
	}
	for _, tc := range cases {
		got := Select(tc.mood, tc.tension, tc.culture)
		assert.Equal(t, tc.want, got.ID, "mood=%v tension=%v culture=%s", tc.mood, tc.tension, tc.culture)
	}
}

func TestSelectTieKeepsCatalogOrder(t *testing.T) {
	// ionian and bilawal share a mood/tension neighbourhood; ionian comes first.
	got := Select(0.75, 0.2, Multicultural)
	assert.Equal(t, "ionian", got.ID)
}

func TestSelectIsDeterministic(t *testing.T) {
	for i := 0; i < 20; i++ {
		assert.Equal(t, Select(-0.25, 0.45, Multicultural).ID, Select(-0.25, 0.45, Multicultural).ID)
	}
}

func TestGetFallsBackToDorian(t *testing.T) {
	assert.Equal(t, "hijaz", Get("hijaz", Western).ID)
	assert.Equal(t, "dorian", Get("nonexistent", Multicultural).ID)
	_, ok := Lookup("nonexistent", Western)
	assert.False(t, ok)
}

func TestParallel(t *testing.T) {
	cases := map[string]string{
		"ionian":     "aeolian",
		"aeolian":    "ionian",
		"phrygian":   "lydian",
		"mixolydian": "dorian",
		"locrian":    "ionian",
		"hirajoshi":  "hirajoshi",
	}
	for in, want := range cases {
		assert.Equal(t, want, Parallel(Get(in, Multicultural)).ID, in)
	}
}

func TestNotesSortedUniqueAndInRange(t *testing.T) {
	s := Get("ionian", Western)
	notes := Notes(s, 54, LowOctave, HighOctave)
	require.NotEmpty(t, notes)
	assert.True(t, sort.IntsAreSorted(notes))
	assert.Equal(t, 30, notes[0])
	for i, n := range notes {
		assert.True(t, n >= MinMIDI && n <= MaxMIDI)
		assert.True(t, Contains(s, 54, n), "note %d out of key", n)
		if i > 0 {
			assert.NotEqual(t, notes[i-1], n)
		}
	}
	assert.Contains(t, notes, 54)
	assert.Len(t, notes, 6*7)
}

func TestNotesClipToMIDI(t *testing.T) {
	notes := Notes(Get("chromatic", Exotic), 120, 0, 1)
	assert.Equal(t, []int{120, 121, 122, 123, 124, 125, 126, 127}, notes)
}

func TestInRange(t *testing.T) {
	notes := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	assert.Equal(t, []int{3, 4}, InRange(notes, 3, 5))
}

func TestMIDIToFrequency(t *testing.T) {
	assert.InDelta(t, 440.0, MIDIToFrequency(69), 1e-9)
	assert.InDelta(t, 261.6256, MIDIToFrequency(60), 1e-3)
	assert.InDelta(t, 880.0, MIDIToFrequency(81), 1e-9)
	assert.False(t, math.IsNaN(MIDIToFrequency(0)))
}

func TestNoteName(t *testing.T) {
	assert.Equal(t, "C4", NoteName(60))
	assert.Equal(t, "F#3", NoteName(54))
	assert.Equal(t, "C3", NoteName(48))
	assert.Equal(t, "A4", NoteName(69))
}
