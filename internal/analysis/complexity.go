package analysis

import (
	"regexp"
	"strings"

	"github.com/cbegin/textscape-go/internal/lexicon"
)

// Complexity is the readability profile of a text; every field is in [0,1].
type Complexity struct {
	ReadingLevel       float64
	InformationDensity float64
	Abstraction        float64
	Syntactic          float64
	Overall            float64
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// AnalyzeComplexity scores readability. Any component with nothing to
// measure is 0.5.
func AnalyzeComplexity(text string) Complexity {
	words := Words(text)
	var sentences []string
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences = append(sentences, s)
		}
	}
	c := Complexity{
		ReadingLevel:       readingLevel(words, len(sentences)),
		InformationDensity: informationDensity(words),
		Abstraction:        abstraction(words),
		Syntactic:          syntactic(sentences),
	}
	c.Overall = (c.ReadingLevel + c.InformationDensity + c.Abstraction + c.Syntactic) / 4
	return c
}

// readingLevel inverts Flesch reading ease so harder text scores higher.
func readingLevel(words []string, sentences int) float64 {
	if len(words) == 0 || sentences == 0 {
		return 0.5
	}
	syllables := 0
	for _, w := range words {
		syllables += CountSyllables(strings.ToLower(w))
	}
	wps := float64(len(words)) / float64(sentences)
	spw := float64(syllables) / float64(len(words))
	flesch := 206.835 - 1.015*wps - 84.6*spw
	return 1 - clamp(flesch, 0, 100)/100
}

func informationDensity(words []string) float64 {
	if len(words) == 0 {
		return 0.5
	}
	unique := make(map[string]struct{}, len(words))
	var totalLen int
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
		totalLen += len(w)
	}
	n := float64(len(words))
	return (float64(len(unique))/n + min(float64(totalLen)/n/8, 1)) / 2
}

func abstraction(words []string) float64 {
	abstract, concrete := 0, 0
	for _, w := range words {
		lw := strings.ToLower(w)
		if lexicon.AbstractWords.Has(lw) {
			abstract++
		}
		if lexicon.ConcreteWords.Has(lw) {
			concrete++
		}
	}
	if abstract+concrete == 0 {
		return 0.5
	}
	return float64(abstract) / float64(abstract+concrete)
}

// syntactic rewards long sentences, clause marks and subordinating
// conjunctions, averaged per sentence.
func syntactic(sentences []string) float64 {
	if len(sentences) == 0 {
		return 0.5
	}
	var score float64
	for _, s := range sentences {
		words := LowerWords(s)
		switch {
		case len(words) > 20:
			score += 0.3
		case len(words) > 15:
			score += 0.2
		}
		score += 0.1 * float64(strings.Count(s, ",")+strings.Count(s, ";"))
		seen := make(map[string]bool)
		for _, w := range words {
			if lexicon.Subordinators.Has(w) && !seen[w] {
				seen[w] = true
				score += 0.1
			}
		}
	}
	return min(score/float64(len(sentences)), 1)
}
