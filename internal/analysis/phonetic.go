package analysis

import "math"

// ConsonantProfile holds the share of each articulation class among consonants.
type ConsonantProfile struct {
	Plosive   float64
	Fricative float64
	Nasal     float64
	Liquid    float64
	Glide     float64
}

// SyllableRhythm summarises syllables per word.
type SyllableRhythm struct {
	Average           float64
	StdDev            float64
	MonosyllabicRatio float64
}

// Phonetic is the sound-level profile of a text.
type Phonetic struct {
	VowelRatio   float64
	Consonants   ConsonantProfile
	Rhythm       SyllableRhythm
	Alliteration float64
	Assonance    float64
	Harshness    float64
	Smoothness   float64
}

// AnalyzePhonetic profiles letters and syllables. Empty text yields the
// neutral defaults.
func AnalyzePhonetic(text string) Phonetic {
	lower := Lower(text)
	words := Words(lower)
	ls := letters(lower)
	return Phonetic{
		VowelRatio:   vowelRatio(ls),
		Consonants:   consonantProfile(ls),
		Rhythm:       syllableRhythm(words),
		Alliteration: alliteration(words),
		Assonance:    assonance(words),
		Harshness:    letterShare(ls, "ktpxq", 0),
		Smoothness:   letterShare(ls, "lrmnw", 0.5),
	}
}

func vowelRatio(ls []byte) float64 {
	if len(ls) == 0 {
		return 0.4
	}
	n := 0
	for _, c := range ls {
		if isVowel(c) {
			n++
		}
	}
	return float64(n) / float64(len(ls))
}

func consonantProfile(ls []byte) ConsonantProfile {
	var p ConsonantProfile
	total := 0
	for _, c := range ls {
		if isVowel(c) {
			continue
		}
		total++
		switch c {
		case 'p', 'b', 't', 'd', 'k', 'g':
			p.Plosive++
		case 'f', 'v', 's', 'z', 'h':
			p.Fricative++
		case 'm', 'n':
			p.Nasal++
		case 'l', 'r':
			p.Liquid++
		case 'w':
			p.Glide++
		}
	}
	if total == 0 {
		return ConsonantProfile{}
	}
	t := float64(total)
	return ConsonantProfile{
		Plosive:   p.Plosive / t,
		Fricative: p.Fricative / t,
		Nasal:     p.Nasal / t,
		Liquid:    p.Liquid / t,
		Glide:     p.Glide / t,
	}
}

func syllableRhythm(words []string) SyllableRhythm {
	if len(words) == 0 {
		return SyllableRhythm{Average: 2, StdDev: 0.5, MonosyllabicRatio: 0.3}
	}
	counts := make([]float64, len(words))
	var sum float64
	mono := 0
	for i, w := range words {
		c := CountSyllables(w)
		counts[i] = float64(c)
		sum += float64(c)
		if c == 1 {
			mono++
		}
	}
	n := float64(len(words))
	avg := sum / n
	var variance float64
	for _, c := range counts {
		variance += (c - avg) * (c - avg)
	}
	return SyllableRhythm{
		Average:           avg,
		StdDev:            math.Sqrt(variance / n),
		MonosyllabicRatio: float64(mono) / n,
	}
}

// alliteration is the share of adjacent word pairs starting with the same
// consonant.
func alliteration(words []string) float64 {
	if len(words) < 2 {
		return 0
	}
	n := 0
	for i := 0; i+1 < len(words); i++ {
		a, b := words[i][0], words[i+1][0]
		if a == b && !isVowel(a) {
			n++
		}
	}
	return float64(n) / float64(len(words)-1)
}

// assonance is the share of word pairs whose vowel skeletons agree at some
// position.
func assonance(words []string) float64 {
	if len(words) < 2 {
		return 0
	}
	skeletons := make([][]byte, len(words))
	for i, w := range words {
		for j := 0; j < len(w); j++ {
			if isVowel(w[j]) {
				skeletons[i] = append(skeletons[i], w[j])
			}
		}
	}
	matches := 0
	for i := 0; i < len(skeletons)-1; i++ {
		for j := i + 1; j < len(skeletons); j++ {
			if sharesVowelPosition(skeletons[i], skeletons[j]) {
				matches++
			}
		}
	}
	pairs := len(words) * (len(words) - 1) / 2
	return float64(matches) / float64(pairs)
}

func sharesVowelPosition(a, b []byte) bool {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			return true
		}
	}
	return false
}

func letterShare(ls []byte, set string, empty float64) float64 {
	if len(ls) == 0 {
		return empty
	}
	n := 0
	for _, c := range ls {
		for i := 0; i < len(set); i++ {
			if c == set[i] {
				n++
				break
			}
		}
	}
	return float64(n) / float64(len(ls))
}

// SustainLevel maps vowel-heaviness to how long notes ring.
func (p Phonetic) SustainLevel() float64 { return p.VowelRatio*0.8 + 0.2 }

// AttackMs favours percussive attacks for harsh text.
func (p Phonetic) AttackMs() float64 {
	if p.Harshness > 0.3 {
		return 10
	}
	return 500
}

// Legato reports whether smooth consonants dominate.
func (p Phonetic) Legato() bool { return p.Smoothness > 0.3 }
