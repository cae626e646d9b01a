package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/textscape-go/internal/lexicon"
)

func TestWordsAndLower(t *testing.T) {
	assert.Equal(t, []string{"Hello", "World_2", "it", "s"}, Words("Hello, World_2! it's"))
	assert.Equal(t, []string{"the", "sea"}, LowerWords("THE Sea"))
	assert.Empty(t, Words("  ...  "))
}

func TestCountSyllables(t *testing.T) {
	cases := map[string]int{
		"cat":     1,
		"hoped":   1,
		"running": 2,
		"yellow":  2,
		"table":   2,
		"rhythm":  1,
		"2024":    1,
	}
	for word, want := range cases {
		assert.Equal(t, want, CountSyllables(word), word)
	}
}

func TestPhoneticDefaultsOnEmpty(t *testing.T) {
	p := AnalyzePhonetic("")
	assert.Equal(t, 0.4, p.VowelRatio)
	assert.Equal(t, 0.0, p.Harshness)
	assert.Equal(t, 0.5, p.Smoothness)
	assert.Equal(t, SyllableRhythm{Average: 2, StdDev: 0.5, MonosyllabicRatio: 0.3}, p.Rhythm)
	assert.Equal(t, ConsonantProfile{}, p.Consonants)
	assert.Equal(t, 0.0, p.Alliteration)
	assert.Equal(t, 0.0, p.Assonance)
}

func TestPhoneticProfile(t *testing.T) {
	p := AnalyzePhonetic("Peter Piper picked peppers")
	assert.Equal(t, 1.0, p.Alliteration)
	assert.Greater(t, p.Consonants.Plosive, 0.5)

	assert.InDelta(t, 2.0/3, AnalyzePhonetic("kit").Harshness, 1e-9)
	assert.InDelta(t, 0.5, AnalyzePhonetic("moon").Smoothness, 1e-9)
	assert.InDelta(t, 2.0/3, AnalyzePhonetic("aeb").VowelRatio, 1e-9)

	a := AnalyzePhonetic("sea tea")
	assert.Equal(t, 1.0, a.Assonance)
	assert.True(t, AnalyzePhonetic("moonlight lull").Legato())
	assert.Equal(t, 10.0, AnalyzePhonetic("kit kat").AttackMs())
}

func TestLexicalBasics(t *testing.T) {
	l := AnalyzeLexical("The quick brown fox")
	assert.Equal(t, 4, l.TotalWords)
	assert.Equal(t, 4, l.UniqueWords)
	assert.Equal(t, 1.0, l.Diversity)
	assert.Equal(t, 4.0, l.AverageWordLength)
	assert.Equal(t, 1.0, l.WordLengthVariance)
	assert.Equal(t, 0.5, l.POS.Nouns)
	assert.Equal(t, 0.5, l.POS.Other)
	assert.Equal(t, 0.25, l.CommonRatio)
	assert.Equal(t, 0.75, l.Complexity)
}

func TestLexicalPartOfSpeechOrder(t *testing.T) {
	l := AnalyzeLexical("quickly running beautiful happiness")
	assert.Equal(t, PartOfSpeech{Verbs: 0.25, Nouns: 0.25, Adjectives: 0.25, Adverbs: 0.25}, l.POS)
}

func TestLexicalEmptyIsNeutral(t *testing.T) {
	l := AnalyzeLexical("")
	assert.Equal(t, 0.5, l.Diversity)
	assert.Equal(t, 0, l.TotalWords)
	assert.False(t, math.IsNaN(l.Complexity))
}

func TestSentimentFixedVocabulary(t *testing.T) {
	a := SentimentAnalyzer{}
	cases := []struct {
		text string
		mood float64
	}{
		{"happy", 0.7},
		{"not happy", -0.7},
		{"very happy day sad", 0.175},
		{"not very happy", -1},
		{"happy not", 0.7},
		{"a plain sentence", 0},
		{"", 0},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.mood, a.Analyze(tc.text).Mood, 1e-9, tc.text)
	}
	s := a.Analyze("happy")
	assert.Equal(t, 0.5, s.Arousal)
	assert.InDelta(t, 0.425, s.Tension, 1e-9)
	assert.Equal(t, 1, s.PositiveCount)
}

func TestSentimentArousal(t *testing.T) {
	a := SentimentAnalyzer{}
	assert.InDelta(t, 0.2, a.Analyze("calm").Arousal, 1e-9)
	assert.InDelta(t, 0.5, a.Analyze("calm exciting").Arousal, 1e-9)
	assert.InDelta(t, 0.5, a.Analyze("table").Arousal, 1e-9)
}

func TestSentimentUsesVADTable(t *testing.T) {
	a := SentimentAnalyzer{VAD: lexicon.Builtin()}
	s := a.Analyze(strings.Repeat("fear ", 50))
	assert.InDelta(t, -0.87, s.Mood, 1e-9)
	assert.InDelta(t, 0.84, s.Arousal, 1e-9)
	assert.Greater(t, s.Tension, 0.6)
	assert.Equal(t, 50, s.NegativeCount)
}

func TestSentimentEmotionsAndConcepts(t *testing.T) {
	s := SentimentAnalyzer{}.Analyze("Fear and joy and fear, a wabi-sabi calm. Mono no aware.")
	require.Len(t, s.Emotions, 2)
	assert.Equal(t, "joy", s.Emotions[0].Emotion.Name)
	assert.Equal(t, "fear", s.Emotions[1].Emotion.Name)
	assert.Equal(t, 1, s.Emotions[0].Count)
	assert.Equal(t, 2, s.Emotions[1].Count)

	var names []string
	for _, c := range s.Concepts {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"monoNoAware", "wabisabi"}, names)

	assert.Empty(t, SentimentAnalyzer{}.Analyze("nothing here").Emotions)
}

func TestSentimentCategories(t *testing.T) {
	s := SentimentAnalyzer{}.Analyze("The vast blue ocean, the vast sky")
	require.Len(t, s.Hits(lexicon.Spatial), 2)
	assert.Equal(t, "vast", s.Hits(lexicon.Spatial)[0].Word)
	assert.Len(t, s.Hits(lexicon.Color), 1)
	assert.Len(t, s.Hits(lexicon.Nature), 2)
	assert.Empty(t, s.Hits(lexicon.Temporal))
}

func TestStructuralSentencesAndEndings(t *testing.T) {
	s := AnalyzeStructural("Hello there. How are you? Wonderful!")
	require.Equal(t, 3, s.SentenceCount)
	require.Len(t, s.Phrases, 3)
	assert.Equal(t, PunctPeriod, s.Phrases[0].Ending)
	assert.Equal(t, PunctQuestion, s.Phrases[1].Ending)
	assert.Equal(t, PunctExclamation, s.Phrases[2].Ending)
	assert.True(t, s.Phrases[1].Action.Rising)
	assert.True(t, s.Phrases[0].Action.ResolveToTonic)
	assert.Equal(t, 900*time.Millisecond, s.Phrases[1].Duration)
	assert.Equal(t, "How are you?", s.Phrases[1].Text)
	assert.InDelta(t, 1.0/3, s.AccentFrequency(), 1e-9)
	assert.Equal(t, ArcFalling, s.Arc)
}

func TestStructuralEllipsisAndTrailingMarks(t *testing.T) {
	s := AnalyzeStructural("I wonder... Then this; and that:")
	require.Len(t, s.Phrases, 2)
	assert.Equal(t, PunctEllipsis, s.Phrases[0].Ending)
	assert.Equal(t, PunctColon, s.Phrases[1].Ending)
	assert.Equal(t, 1.0, s.Punctuation.Count(PunctEllipsis))
	assert.Equal(t, 3.0, s.Punctuation.Count(PunctPeriod))
	assert.True(t, s.Phrases[0].Action.SuspendHarmony)
}

func TestSemicolonsAndColonsEndPhrasesOnlyAtTheEnd(t *testing.T) {
	inside := AnalyzeStructural("We wait; the tide turns: nothing moves.")
	require.Len(t, inside.Phrases, 1)
	assert.Equal(t, PunctPeriod, inside.Phrases[0].Ending)
	assert.Equal(t, 1.0, inside.Punctuation.Count(PunctSemicolon))
	assert.Equal(t, 1.0, inside.Punctuation.Count(PunctColon))

	trailing := AnalyzeStructural("The tide turns. We wait;")
	require.Len(t, trailing.Phrases, 2)
	assert.Equal(t, PunctSemicolon, trailing.Phrases[1].Ending)
}

func TestStructuralBreathsAndSuspensions(t *testing.T) {
	s := AnalyzeStructural("Slow, soft, low... gone.")
	// Two commas, four dots, one ellipsis.
	assert.InDelta(t, 2.0/7, s.BreathFrequency(), 1e-9)
	assert.InDelta(t, 1.0/7, s.Suspensions(), 1e-9)
	assert.InDelta(t, 2.0/3*0.8+0.2, AnalyzePhonetic("aeb").SustainLevel(), 1e-9)
}

func TestStructuralAccentFrequencyExclamationVersusPeriod(t *testing.T) {
	excited := strings.Repeat("Run now! ", 10)
	calm := strings.ReplaceAll(excited, "!", ".")
	assert.Equal(t, 1.0, AnalyzeStructural(excited).AccentFrequency())
	assert.Equal(t, 0.0, AnalyzeStructural(calm).AccentFrequency())
	assert.Equal(t, 1.0, AnalyzeStructural(excited).DynamicRange())
}

func TestStructuralShapes(t *testing.T) {
	empty := AnalyzeStructural("")
	assert.Equal(t, 0, empty.SentenceCount)
	assert.Equal(t, ArcFlat, empty.Arc)
	assert.Empty(t, empty.Phrases)
	assert.Equal(t, 0.0, empty.AccentFrequency())

	assert.Equal(t, 2, AnalyzeStructural("one\n\n\ntwo").ParagraphCount)
	assert.Equal(t, 0.5, AnalyzeStructural("a a b").Repetition)
	assert.Equal(t, "poetry", AnalyzeStructural("Soft rain. Grey sky. Still sea.").Type)

	rising := AnalyzeStructural("Go. Stop now. Then we walked slowly along the river until the light was gone entirely.")
	assert.Equal(t, ArcRising, rising.Arc)
}

func TestComplexity(t *testing.T) {
	empty := AnalyzeComplexity("")
	assert.Equal(t, Complexity{ReadingLevel: 0.5, InformationDensity: 0.5, Abstraction: 0.5, Syntactic: 0.5, Overall: 0.5}, empty)

	assert.Equal(t, 0.0, AnalyzeComplexity("I see my hand.").Abstraction)
	assert.Equal(t, 1.0, AnalyzeComplexity("Truth and beauty.").Abstraction)
	assert.InDelta(t, 0.2, AnalyzeComplexity("Because it rained, we stayed").Syntactic, 1e-9)

	c := AnalyzeComplexity("Notwithstanding considerable philosophical disagreement, consciousness remains fundamentally mysterious.")
	for _, v := range []float64{c.ReadingLevel, c.InformationDensity, c.Abstraction, c.Syntactic, c.Overall} {
		assert.True(t, v >= 0 && v <= 1)
	}
	assert.Greater(t, c.ReadingLevel, AnalyzeComplexity("The cat sat.").ReadingLevel)
}

func TestRunCollectsAllAnalyses(t *testing.T) {
	r, err := Run(context.Background(), "The vast sea is calm. Joy!", Options{VAD: lexicon.Builtin()})
	require.NoError(t, err)
	assert.Equal(t, 6, r.WordCount)
	assert.Equal(t, 2, r.Structural.SentenceCount)
	assert.Equal(t, 6, r.Lexical.TotalWords)
	assert.Greater(t, r.Sentiment.Mood, 0.0)
	assert.NotZero(t, r.Phonetic.VowelRatio)
	assert.NotZero(t, r.Complexity.Overall)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, "anything", Options{})
	assert.True(t, errors.Is(err, context.Canceled))
}
