package scales

import (
	"math"
	"sort"
	"strconv"

	"github.com/cbegin/textscape-go/internal/logger"
)

const (
	// Global scales span two octaves below the root and three above.
	LowOctave  = -2
	HighOctave = 3

	MinMIDI = 0
	MaxMIDI = 127
)

// Pool returns the candidate scales for a culture. The mixed pool takes every
// regional scale plus the first two exotic ones. Unknown cultures fall back
// to the western modes.
func Pool(culture Culture) []Scale {
	if culture == Multicultural || culture == "" {
		var out []Scale
		out = append(out, western...)
		out = append(out, indian...)
		out = append(out, middleEastern...)
		out = append(out, eastAsian...)
		out = append(out, exotic[:multiculturalExotic]...)
		return out
	}
	if pool, ok := byCulture[culture]; ok {
		return pool
	}
	logger.Warn("unknown culture, using western modes", logger.Fields{"culture": string(culture)})
	return western
}

// Select picks the scale nearest to (mood, tension) by L1 distance. Ties keep
// the earlier catalog entry.
func Select(mood, tension float64, culture Culture) Scale {
	pool := Pool(culture)
	best := pool[0]
	bestScore := math.Inf(1)
	for _, s := range pool {
		score := math.Abs(s.Mood-mood) + math.Abs(s.Tension-tension)
		if score < bestScore {
			bestScore = score
			best = s
		}
	}
	return best
}

// Lookup finds a scale by ID, preferring the given culture.
func Lookup(id string, culture Culture) (Scale, bool) {
	if pool, ok := byCulture[culture]; ok {
		for _, s := range pool {
			if s.ID == id {
				return s, true
			}
		}
	}
	for _, c := range categoryOrder {
		for _, s := range byCulture[c] {
			if s.ID == id {
				return s, true
			}
		}
	}
	return Scale{}, false
}

// Get is Lookup with a Dorian fallback for unknown names.
func Get(id string, culture Culture) Scale {
	if s, ok := Lookup(id, culture); ok {
		return s
	}
	logger.Warn("scale not found, defaulting to dorian", logger.Fields{"scale": id})
	return western[1]
}

var parallels = map[string]string{
	"ionian":     "aeolian",
	"aeolian":    "ionian",
	"dorian":     "dorian",
	"phrygian":   "lydian",
	"lydian":     "phrygian",
	"mixolydian": "dorian",
	"locrian":    "ionian",
}

// Parallel returns the contrasting mode used for semicolon modulations.
// Scales with no mapping are their own parallel.
func Parallel(s Scale) Scale {
	if id, ok := parallels[s.ID]; ok {
		if p, ok := Lookup(id, Western); ok {
			return p
		}
	}
	return s
}

// Notes expands a scale to sorted MIDI notes over [lowOct, highOct] octaves
// relative to root, dropping anything outside the MIDI range.
func Notes(s Scale, root, lowOct, highOct int) []int {
	seen := make(map[int]bool)
	var notes []int
	for o := lowOct; o <= highOct; o++ {
		for _, iv := range s.Intervals {
			n := root + 12*o + iv
			if n < MinMIDI || n > MaxMIDI || seen[n] {
				continue
			}
			seen[n] = true
			notes = append(notes, n)
		}
	}
	sort.Ints(notes)
	return notes
}

// InRange returns the notes in [lo, hi).
func InRange(notes []int, lo, hi int) []int {
	var out []int
	for _, n := range notes {
		if n >= lo && n < hi {
			out = append(out, n)
		}
	}
	return out
}

// Contains reports whether n's pitch class belongs to the scale rooted at root.
func Contains(s Scale, root, n int) bool {
	pc := ((n-root)%12 + 12) % 12
	for _, iv := range s.Intervals {
		if iv == pc {
			return true
		}
	}
	return false
}

func MIDIToFrequency(n int) float64 {
	return 440 * math.Pow(2, float64(n-69)/12)
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName renders a MIDI note in scientific pitch notation, 60 = C4.
func NoteName(n int) string {
	octave := n/12 - 1
	if n < 0 {
		octave = (n-11)/12 - 1
	}
	return noteNames[((n%12)+12)%12] + strconv.Itoa(octave)
}
