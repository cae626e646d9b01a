package analysis

import (
	"strings"

	"github.com/cbegin/textscape-go/internal/lexicon"
)

// PartOfSpeech is the share of words guessed into each class.
type PartOfSpeech struct {
	Verbs      float64
	Nouns      float64
	Adjectives float64
	Adverbs    float64
	Other      float64
}

// Lexical is the word-level profile of a text.
type Lexical struct {
	TotalWords         int
	UniqueWords        int
	Diversity          float64
	AverageWordLength  float64
	WordLengthVariance float64
	POS                PartOfSpeech
	CommonRatio        float64
	RareRatio          float64
	Complexity         float64
}

var (
	verbEndings      = []string{"ed", "ing", "ize", "ise", "ate", "ify"}
	nounEndings      = []string{"tion", "sion", "ness", "ment", "ity", "ism", "ship", "hood", "ance", "ence"}
	adjectiveEndings = []string{"ful", "less", "ous", "ive", "able", "ible", "al", "ic", "ical"}
	adverbEndings    = []string{"ly"}
)

// AnalyzeLexical measures vocabulary. With no words the diversity is the
// neutral 0.5.
func AnalyzeLexical(text string) Lexical {
	words := Words(text)
	if len(words) == 0 {
		return Lexical{Diversity: 0.5, Complexity: 0.25, POS: PartOfSpeech{}}
	}
	unique := make(map[string]struct{}, len(words))
	lowered := make([]string, len(words))
	var totalLen float64
	for i, w := range words {
		lw := strings.ToLower(w)
		lowered[i] = lw
		unique[lw] = struct{}{}
		totalLen += float64(len(w))
	}
	n := float64(len(words))
	avg := totalLen / n
	var variance float64
	for _, w := range words {
		d := float64(len(w)) - avg
		variance += d * d
	}
	diversity := float64(len(unique)) / n

	common := 0
	for _, w := range lowered {
		if lexicon.CommonWords.Has(w) {
			common++
		}
	}

	return Lexical{
		TotalWords:         len(words),
		UniqueWords:        len(unique),
		Diversity:          diversity,
		AverageWordLength:  avg,
		WordLengthVariance: variance / n,
		POS:                partOfSpeech(lowered),
		CommonRatio:        float64(common) / n,
		RareRatio:          float64(len(words)-common) / n,
		Complexity:         (min(avg/8, 1) + diversity) / 2,
	}
}

// partOfSpeech applies suffix heuristics in verb, adverb, adjective, noun
// order; unclassified words longer than four letters count as nouns.
func partOfSpeech(words []string) PartOfSpeech {
	var c PartOfSpeech
	for _, w := range words {
		switch {
		case lexicon.CommonVerbs.Has(w) || hasAnySuffix(w, verbEndings):
			c.Verbs++
		case hasAnySuffix(w, adverbEndings):
			c.Adverbs++
		case hasAnySuffix(w, adjectiveEndings):
			c.Adjectives++
		case hasAnySuffix(w, nounEndings) || len(w) > 4:
			c.Nouns++
		default:
			c.Other++
		}
	}
	total := float64(max(len(words), 1))
	return PartOfSpeech{
		Verbs:      c.Verbs / total,
		Nouns:      c.Nouns / total,
		Adjectives: c.Adjectives / total,
		Adverbs:    c.Adverbs / total,
		Other:      c.Other / total,
	}
}

func hasAnySuffix(w string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(w, s) {
			return true
		}
	}
	return false
}
