package mapping

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/textscape-go/internal/analysis"
	"github.com/cbegin/textscape-go/internal/lexicon"
	"github.com/cbegin/textscape-go/internal/music"
	"github.com/cbegin/textscape-go/internal/rules"
	"github.com/cbegin/textscape-go/internal/scales"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 7))
}

func mapText(t *testing.T, m Mapper, text string) *music.Parameters {
	t.Helper()
	if m.Rand == nil {
		m.Rand = seeded(1)
	}
	p, err := m.Map(context.Background(), text)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func TestEmptyTextGivesNeutralParameters(t *testing.T) {
	p := mapText(t, Mapper{VAD: lexicon.Builtin()}, "")
	assert.Equal(t, 0.0, p.Mood)
	assert.Equal(t, 0.25, p.Tension)
	assert.Equal(t, 0.45, p.Density)
	assert.Equal(t, 0.85, p.Tempo)
	assert.Equal(t, 54, p.Root)
	assert.NotEmpty(t, p.ScaleNotes)
}

func TestRepeatedFear(t *testing.T) {
	p := mapText(t, Mapper{VAD: lexicon.Builtin()}, strings.Repeat("fear ", 50))
	assert.Equal(t, 49, p.Root)
	assert.Equal(t, "saba", p.Scale.ID)
	assert.Less(t, p.Mood, -0.6)
	assert.Greater(t, p.Tension, 0.6)
}

func TestExclamationsRaiseTension(t *testing.T) {
	excited := "Run now! Go fast! Stop here! Look up! Move on! Turn back! Wake up! Hold on! Come in! Sit down!"
	calm := strings.ReplaceAll(excited, "!", ".")
	m := Mapper{VAD: lexicon.Builtin()}
	hot := mapText(t, m, excited)
	cool := mapText(t, m, calm)
	assert.Greater(t, hot.Tension, cool.Tension+0.2)
	assert.Equal(t, cool.Root, hot.Root)
}

func TestScaleAndRootComeFromTonalCenter(t *testing.T) {
	for _, text := range []string{"joy and light", "the cold dark sea", "I wonder; do you?", "x"} {
		p := mapText(t, Mapper{VAD: lexicon.Builtin()}, text)
		assert.Equal(t, p.Tonal.GlobalKey, p.Root, text)
		assert.Equal(t, p.Tonal.Mode.ID, p.Scale.ID, text)
		assert.Equal(t, p.Tonal.Scale, p.ScaleNotes, text)
	}
}

func TestRangesAndVoiceCap(t *testing.T) {
	texts := []string{
		"",
		"!!!",
		strings.Repeat("storm rage fury explosive! ", 40),
		"A quiet, slow, gentle evening by the still lake; nothing stirs...",
		"The vast enormous crowded city hums with crystalline, sharp, rough energy.",
	}
	for i, text := range texts {
		p := mapText(t, Mapper{VAD: lexicon.Builtin(), Rand: seeded(uint64(i))}, text)
		assert.True(t, p.Mood >= -1 && p.Mood <= 1, text)
		assert.True(t, p.Tension >= 0 && p.Tension <= 1, text)
		assert.True(t, p.Density >= rules.MinDensity && p.Density <= rules.MaxDensity, text)
		assert.True(t, p.Tempo >= rules.MinTempo && p.Tempo <= rules.MaxTempo, text)
		assert.LessOrEqual(t, len(p.ActiveVoices), rules.MaxVoices)
		assert.GreaterOrEqual(t, p.Root, 48)
		assert.LessOrEqual(t, p.Root, 60)
		assert.Len(t, p.VoiceWeights, len(music.VoiceTypes))
		for v, w := range p.VoiceWeights {
			assert.True(t, w >= 0 && w <= 1, "%s=%f", v, w)
		}
	}
}

func TestUserBias(t *testing.T) {
	p := mapText(t, Mapper{Bias: UserBias{Mood: 5, Density: -5}}, "a walk in the park")
	assert.Equal(t, 1.0, p.Mood)
	assert.Equal(t, rules.MinDensity, p.Density)
}

func TestCultureSelectsPool(t *testing.T) {
	p := mapText(t, Mapper{VAD: lexicon.Builtin(), Culture: scales.EastAsian}, "joy and love and light")
	assert.Equal(t, scales.EastAsian, p.Scale.Culture)
	assert.Equal(t, scales.EastAsian, p.Culture)

	def := mapText(t, Mapper{}, "joy")
	assert.Equal(t, scales.Multicultural, def.Culture)
}

func TestCulturalConceptBlend(t *testing.T) {
	plain := mapText(t, Mapper{}, "the old house by the road")
	concept := mapText(t, Mapper{}, "the old house by the road, saudade")
	assert.Less(t, concept.Mood, plain.Mood)
}

func TestEmotionBlendUsesFirstEmotionAtFixedWeight(t *testing.T) {
	joy, _ := lexicon.EmotionFor("joy")
	fear, _ := lexicon.EmotionFor("fear")
	base := rules.Base{Mood: 0.5, Tension: 0.5, Density: 0.5, Tempo: 1}
	s := analysis.Sentiment{Emotions: []analysis.DetectedEmotion{
		{Emotion: joy, Count: 1, Share: 0.1},
		{Emotion: fear, Count: 9, Share: 0.9},
	}}
	got := applyCulture(base, s)
	assert.InDelta(t, 0.5*0.6+0.8*0.4, got.Mood, 1e-9)
	assert.InDelta(t, 0.5*0.6+0.2*0.4, got.Tension, 1e-9)
	assert.InDelta(t, 0.5*0.6+0.6*0.4, got.Density, 1e-9)
	assert.InDelta(t, 1*0.6+1.2*0.4, got.Tempo, 1e-9)

	assert.Equal(t, base, applyCulture(base, analysis.Sentiment{}))
}

func TestRepeatedFearBlend(t *testing.T) {
	report, err := analysis.Run(context.Background(), strings.Repeat("fear ", 50), analysis.Options{VAD: lexicon.Builtin()})
	require.NoError(t, err)
	base := baseParameters(report)
	got := applyCulture(base, report.Sentiment)
	assert.InDelta(t, base.Mood*0.6-0.7*0.4, got.Mood, 1e-9)
	assert.InDelta(t, base.Tension*0.6+0.9*0.4, got.Tension, 1e-9)
}

func TestEffects(t *testing.T) {
	p := mapText(t, Mapper{}, "a vast and distant hall")
	assert.Equal(t, "cathedral", p.Effects.ReverbSize)
	assert.InDelta(t, 0.62, p.Effects.ReverbMix, 1e-9)
	assert.Equal(t, defaultHighPass, p.Effects.HighPass)

	p = mapText(t, Mapper{}, "a distant light")
	assert.InDelta(t, 0.3, p.Effects.HighPass, 1e-9)

	p = mapText(t, Mapper{}, "a sharp edge")
	assert.InDelta(t, 0.9, p.Effects.LowPass, 1e-9)

	p = mapText(t, Mapper{}, "the table")
	assert.Equal(t, music.Effects{
		ReverbSize: "cathedral",
		ReverbMix:  0.5,
		DelayTime:  DelayTime(p.Tempo),
		DelayMix:   0.15,
		LowPass:    0.8,
		HighPass:   0.1,
		Attack:     time.Duration(p.Report.Phonetic.AttackMs() * float64(time.Millisecond)),
	}, p.Effects)
}

func TestAttackFollowsHarshness(t *testing.T) {
	assert.Equal(t, 10*time.Millisecond, mapText(t, Mapper{}, "kit kat").Effects.Attack)
	assert.Equal(t, 500*time.Millisecond, mapText(t, Mapper{}, "moon lull").Effects.Attack)
}

func TestDelayTime(t *testing.T) {
	assert.Equal(t, 750*time.Millisecond, DelayTime(1))
	assert.Equal(t, DelayTime(rules.MinTempo), DelayTime(0))
}

func TestSeededVoiceSelectionIsRepeatable(t *testing.T) {
	text := "Morning light over the quiet river, birds singing softly."
	a := mapText(t, Mapper{Rand: seeded(42)}, text)
	b := mapText(t, Mapper{Rand: seeded(42)}, text)
	assert.Equal(t, a.ActiveVoices, b.ActiveVoices)
	assert.Equal(t, a.VoiceWeights, b.VoiceWeights)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Mapper{}.Map(ctx, "words")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
