package analysis

import (
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var wordPattern = regexp.MustCompile(`\w+`)

// Words splits text into runs of word characters, keeping case.
func Words(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

// Lower case-folds text. A Caser is not safe for concurrent use, so each call
// builds its own.
func Lower(text string) string {
	return cases.Lower(language.English).String(text)
}

// LowerWords is Words over the case-folded text.
func LowerWords(text string) []string {
	return Words(Lower(text))
}

// letters keeps only a-z from already lowercased text.
func letters(lower string) []byte {
	out := make([]byte, 0, len(lower))
	for i := 0; i < len(lower); i++ {
		if c := lower[i]; c >= 'a' && c <= 'z' {
			out = append(out, c)
		}
	}
	return out
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var (
	syllableSuffix = regexp.MustCompile(`(?:[^laeiouy]es|ed|[^laeiouy]e)$`)
	syllableLeadY  = regexp.MustCompile(`^y`)
	syllableVowels = regexp.MustCompile(`[aeiouy]{1,2}`)
)

// CountSyllables estimates syllables from vowel groups after dropping a silent
// trailing e/es/ed. Words of three letters or fewer count as one.
func CountSyllables(word string) int {
	if len(word) <= 3 {
		return 1
	}
	word = syllableSuffix.ReplaceAllString(word, "")
	word = syllableLeadY.ReplaceAllString(word, "")
	n := len(syllableVowels.FindAllString(word, -1))
	if n == 0 {
		return 1
	}
	return n
}
