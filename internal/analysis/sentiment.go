package analysis

import (
	"math"
	"strings"

	"github.com/cbegin/textscape-go/internal/lexicon"
)

const (
	fixedValence     = 0.7
	intensifierScale = 1.5
	highArousal      = 0.8
	lowArousal       = 0.2
)

// DetectedEmotion is an emotion keyword found in the text.
type DetectedEmotion struct {
	Emotion lexicon.Emotion
	Count   int
	Share   float64 // Count over all words
}

// ConceptHit is a word found in one of the concept tables.
type ConceptHit struct {
	Word     string
	Fragment lexicon.Fragment
}

// Sentiment is the affective profile of a text.
type Sentiment struct {
	Mood          float64 // -1 dark .. +1 bright
	Tension       float64
	Arousal       float64
	PositiveCount int
	NegativeCount int
	Emotions      []DetectedEmotion // in emotion table order
	Concepts      []lexicon.Emotion // culture-specific concepts by surface form
	Categories    map[lexicon.Category][]ConceptHit
}

// Hits returns the concept-table words found for a category, in text order.
func (s Sentiment) Hits(c lexicon.Category) []ConceptHit {
	return s.Categories[c]
}

// SentimentAnalyzer scores valence and arousal, preferring the VAD table and
// falling back to the fixed vocabularies.
type SentimentAnalyzer struct {
	VAD lexicon.VADTable
}

func (a SentimentAnalyzer) lookup(word string) (lexicon.VAD, bool) {
	if a.VAD == nil {
		return lexicon.VAD{}, false
	}
	return a.VAD.Lookup(word)
}

// Analyze never fails; text with no affect words is neutral.
func (a SentimentAnalyzer) Analyze(text string) Sentiment {
	lower := Lower(text)
	words := Words(lower)

	score, pos, neg := a.valence(words)
	arousal := a.arousal(words)
	return Sentiment{
		Mood:          score,
		Tension:       (arousal + math.Abs(score*0.5)) / 2,
		Arousal:       arousal,
		PositiveCount: pos,
		NegativeCount: neg,
		Emotions:      detectEmotions(words),
		Concepts:      detectConcepts(lower),
		Categories:    detectCategories(words),
	}
}

// valence walks the words with an intensifier/negation state machine. Both
// modifiers apply to the next valence-bearing word and then reset.
func (a SentimentAnalyzer) valence(words []string) (score float64, pos, neg int) {
	var sum float64
	count := 0
	intensity := 1.0
	negated := false
	for _, w := range words {
		if lexicon.Intensifiers.Has(w) {
			intensity = intensifierScale
			continue
		}
		if lexicon.Negations.Has(w) {
			negated = true
			continue
		}
		var v float64
		if entry, ok := a.lookup(w); ok {
			v = entry.Valence
			count++
		} else if lexicon.PositiveWords.Has(w) {
			v = fixedValence
			count++
		} else if lexicon.NegativeWords.Has(w) {
			v = -fixedValence
			count++
		}
		switch {
		case v > 0:
			pos++
		case v < 0:
			neg++
		}
		if v != 0 {
			m := intensity
			if negated {
				m = -m
			}
			sum += v * m
			intensity = 1
			negated = false
		}
	}
	if count == 0 {
		return 0, pos, neg
	}
	return clamp(sum/float64(count), -1, 1), pos, neg
}

func (a SentimentAnalyzer) arousal(words []string) float64 {
	var sum float64
	count := 0
	for _, w := range words {
		if entry, ok := a.lookup(w); ok {
			sum += entry.Arousal
			count++
		} else if lexicon.HighArousalWords.Has(w) {
			sum += highArousal
			count++
		} else if lexicon.LowArousalWords.Has(w) {
			sum += lowArousal
			count++
		}
	}
	if count == 0 {
		return 0.5
	}
	return sum / float64(count)
}

func detectEmotions(words []string) []DetectedEmotion {
	if len(words) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, w := range words {
		if _, ok := lexicon.EmotionFor(w); ok {
			counts[w]++
		}
	}
	var out []DetectedEmotion
	for _, e := range lexicon.Emotions {
		if n := counts[strings.ToLower(e.Name)]; n > 0 {
			out = append(out, DetectedEmotion{Emotion: e, Count: n, Share: float64(n) / float64(len(words))})
		}
	}
	return out
}

func detectConcepts(lower string) []lexicon.Emotion {
	var out []lexicon.Emotion
	for _, e := range lexicon.Emotions {
		for _, form := range e.Forms {
			if strings.Contains(lower, form) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func detectCategories(words []string) map[lexicon.Category][]ConceptHit {
	out := make(map[lexicon.Category][]ConceptHit)
	for _, w := range words {
		for _, c := range lexicon.Categories {
			if f, ok := lexicon.Concept(c, w); ok {
				out[c] = append(out[c], ConceptHit{Word: w, Fragment: f})
			}
		}
	}
	return out
}
