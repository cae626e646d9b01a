package analysis

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// Punctuation is a mark that shapes phrasing.
type Punctuation int

const (
	PunctNone Punctuation = iota
	PunctPeriod
	PunctComma
	PunctExclamation
	PunctQuestion
	PunctSemicolon
	PunctColon
	PunctDash
	PunctEllipsis
	PunctQuotes
)

var punctNames = [...]string{"none", "period", "comma", "exclamation", "question", "semicolon", "colon", "dash", "ellipsis", "quotes"}

func (p Punctuation) String() string {
	if p < 0 || int(p) >= len(punctNames) {
		return "none"
	}
	return punctNames[p]
}

// PunctuationCounts holds raw counts and their share of all marks.
type PunctuationCounts struct {
	Counts map[Punctuation]float64
	Ratios map[Punctuation]float64
	Total  float64
}

// Ratio is a nil-safe accessor.
func (p PunctuationCounts) Ratio(k Punctuation) float64 { return p.Ratios[k] }

// Count is a nil-safe accessor.
func (p PunctuationCounts) Count(k Punctuation) float64 { return p.Counts[k] }

// Action is what a punctuation mark asks of the music at a phrase boundary.
type Action struct {
	PhraseEnd      bool
	ResolveToTonic bool
	AvoidTonic     bool
	Rising         bool
	DynamicAccent  float64
	TensionSpike   float64
	BuildTension   float64
	ModulationHint bool
	Anticipation   bool
	FadeOut        bool
	SuspendHarmony bool
	ExtendLastNote time.Duration
	Breath         time.Duration
	Silence        time.Duration
}

var actions = map[Punctuation]Action{
	PunctPeriod:      {PhraseEnd: true, ResolveToTonic: true, Silence: 800 * time.Millisecond},
	PunctExclamation: {PhraseEnd: true, DynamicAccent: 2.0, TensionSpike: 0.4, Silence: 600 * time.Millisecond},
	PunctQuestion:    {PhraseEnd: true, Rising: true, AvoidTonic: true, Silence: 700 * time.Millisecond},
	PunctComma:       {Breath: 300 * time.Millisecond},
	PunctSemicolon:   {ModulationHint: true, Silence: 500 * time.Millisecond},
	PunctColon:       {BuildTension: 0.3, Anticipation: true, Silence: 400 * time.Millisecond},
	PunctEllipsis:    {FadeOut: true, SuspendHarmony: true, ExtendLastNote: 2 * time.Second},
}

// ActionFor returns the musical action of a mark; unknown marks continue.
func ActionFor(p Punctuation) Action {
	return actions[p]
}

// Phrase is one sentence treated as a musical phrase.
type Phrase struct {
	Index     int
	Text      string
	WordCount int
	Ending    Punctuation
	Duration  time.Duration // words x 300ms
	Action    Action
}

// Arc is the intensity contour implied by sentence lengths.
type Arc string

const (
	ArcFlat     Arc = "flat"
	ArcRising   Arc = "rising"
	ArcFalling  Arc = "falling"
	ArcBalanced Arc = "balanced"
)

// Structural is the sentence- and punctuation-level profile of a text.
type Structural struct {
	SentenceCount         int
	ParagraphCount        int
	AverageSentenceLength float64
	SentenceLengthStdDev  float64
	Punctuation           PunctuationCounts
	Repetition            float64
	Type                  string // prose, poetry, complex
	Formal                bool
	Arc                   Arc
	Phrases               []Phrase
}

var (
	sentenceEnd    = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
	paragraphBreak = regexp.MustCompile(`\n\n+`)
	ellipsisMark   = regexp.MustCompile(`\.{3}|…`)
	quoteMark      = regexp.MustCompile(`["'“”]`)
	dashMark       = regexp.MustCompile(`[-—]`)
)

const msPerWord = 300 * time.Millisecond

type sentence struct {
	text       string
	terminator string
	words      int
}

// splitSentences breaks only on . ! and ?, so a semicolon or colon ends a
// phrase only when it closes the text. Inside a sentence they are counted as
// punctuation but never become a phrase ending.
func splitSentences(text string) []sentence {
	var out []sentence
	add := func(body, term string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		out = append(out, sentence{text: body, terminator: strings.TrimSpace(term), words: len(Words(body))})
	}
	last := 0
	for _, m := range sentenceEnd.FindAllStringIndex(text, -1) {
		add(text[last:m[0]], text[m[0]:m[1]])
		last = m[1]
	}
	add(text[last:], "")
	return out
}

func endingOf(s sentence) Punctuation {
	term := s.terminator
	if term == "" {
		term = strings.TrimSpace(s.text)
	}
	switch {
	case strings.HasSuffix(term, "...") || strings.HasSuffix(term, "…"):
		return PunctEllipsis
	case strings.HasSuffix(term, "."):
		return PunctPeriod
	case strings.HasSuffix(term, "!"):
		return PunctExclamation
	case strings.HasSuffix(term, "?"):
		return PunctQuestion
	case strings.HasSuffix(term, ";"):
		return PunctSemicolon
	case strings.HasSuffix(term, ":"):
		return PunctColon
	}
	return PunctNone
}

// AnalyzeStructural splits text into sentences and paragraphs and profiles
// punctuation, repetition and arc.
func AnalyzeStructural(text string) Structural {
	sentences := splitSentences(text)
	avg, std := sentenceStats(sentences)

	paragraphs := 0
	for _, p := range paragraphBreak.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			paragraphs++
		}
	}

	s := Structural{
		SentenceCount:         len(sentences),
		ParagraphCount:        paragraphs,
		AverageSentenceLength: avg,
		SentenceLengthStdDev:  std,
		Punctuation:           countPunctuation(text),
		Repetition:            repetition(text),
		Type:                  "prose",
		Formal:                avg > 15,
		Arc:                   arcOf(sentences),
	}
	if avg < 8 && std < 3 {
		s.Type = "poetry"
	}
	if avg > 20 {
		s.Type = "complex"
	}
	for i, sen := range sentences {
		ending := endingOf(sen)
		s.Phrases = append(s.Phrases, Phrase{
			Index:     i,
			Text:      strings.TrimSpace(sen.text) + sen.terminator,
			WordCount: sen.words,
			Ending:    ending,
			Duration:  time.Duration(sen.words) * msPerWord,
			Action:    ActionFor(ending),
		})
	}
	return s
}

func sentenceStats(sentences []sentence) (avg, std float64) {
	if len(sentences) == 0 {
		return 0, 0
	}
	var sum float64
	for _, s := range sentences {
		sum += float64(s.words)
	}
	avg = sum / float64(len(sentences))
	var variance float64
	for _, s := range sentences {
		d := float64(s.words) - avg
		variance += d * d
	}
	return avg, math.Sqrt(variance / float64(len(sentences)))
}

// arcOf compares the first and last thirds of the sentences; a third that is
// 1.3 times longer on average sets the direction.
func arcOf(sentences []sentence) Arc {
	if len(sentences) < 3 {
		return ArcFlat
	}
	k := len(sentences) / 3
	first, _ := sentenceStats(sentences[:k])
	last, _ := sentenceStats(sentences[len(sentences)-k:])
	switch {
	case last > first*1.3:
		return ArcRising
	case first > last*1.3:
		return ArcFalling
	default:
		return ArcBalanced
	}
}

func countPunctuation(text string) PunctuationCounts {
	counts := map[Punctuation]float64{
		PunctPeriod:      float64(strings.Count(text, ".")),
		PunctComma:       float64(strings.Count(text, ",")),
		PunctExclamation: float64(strings.Count(text, "!")),
		PunctQuestion:    float64(strings.Count(text, "?")),
		PunctSemicolon:   float64(strings.Count(text, ";")),
		PunctColon:       float64(strings.Count(text, ":")),
		PunctDash:        float64(len(dashMark.FindAllStringIndex(text, -1))),
		PunctEllipsis:    float64(len(ellipsisMark.FindAllStringIndex(text, -1))),
		PunctQuotes:      float64(len(quoteMark.FindAllStringIndex(text, -1))) / 2,
	}
	var total float64
	for _, c := range counts {
		total += c
	}
	div := total
	if div == 0 {
		div = 1
	}
	ratios := make(map[Punctuation]float64, len(counts))
	for k, c := range counts {
		ratios[k] = c / div
	}
	return PunctuationCounts{Counts: counts, Ratios: ratios, Total: total}
}

// repetition is the share of distinct words that occur more than once.
func repetition(text string) float64 {
	counts := make(map[string]int)
	for _, w := range LowerWords(text) {
		counts[w]++
	}
	if len(counts) == 0 {
		return 0
	}
	repeated := 0
	for _, c := range counts {
		if c > 1 {
			repeated++
		}
	}
	return float64(repeated) / float64(len(counts))
}

// AccentFrequency is the exclamation share of all punctuation.
func (s Structural) AccentFrequency() float64 { return s.Punctuation.Ratio(PunctExclamation) }

// BreathFrequency is the comma share of all punctuation.
func (s Structural) BreathFrequency() float64 { return s.Punctuation.Ratio(PunctComma) }

// Suspensions is the ellipsis share of all punctuation.
func (s Structural) Suspensions() float64 { return s.Punctuation.Ratio(PunctEllipsis) }

// DynamicRange widens with exclamations, from 0.5 up to 1.
func (s Structural) DynamicRange() float64 { return s.AccentFrequency()*0.5 + 0.5 }
