package textscape

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/textscape-go/internal/clock"
	apperr "github.com/cbegin/textscape-go/internal/errors"
	"github.com/cbegin/textscape-go/internal/music"
)

const sampleText = "The quiet river runs under a silver moon. Memory drifts, slow and warm; " +
	"somewhere a bell answers the wind... Why does the night feel so gentle?"

func newTestPlayer(t *testing.T) *Player {
	t.Helper()
	p, err := NewPlayer(8000, WithoutAudioDevice(), WithClock(clock.NewManualClock(time.Time{})), WithSeed(11))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestNewPlayerRejectsBadSampleRate(t *testing.T) {
	_, err := NewPlayer(0)
	assert.Error(t, err)
}

func TestMasterVolume(t *testing.T) {
	p, err := NewPlayer(8000, WithoutAudioDevice(), WithClock(clock.NewManualClock(time.Time{})), WithMasterVolume(0.4))
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, 0.4, p.MasterVolume())
	p.SetMasterVolume(0.7)
	assert.Equal(t, 0.7, p.MasterVolume())
	p.SetMasterVolume(-2)
	assert.Zero(t, p.MasterVolume())
}

func TestMapTextToMusicIsRepeatableWithASeed(t *testing.T) {
	a, err := MapTextToMusic(sampleText, WithSeed(5))
	require.NoError(t, err)
	b, err := MapTextToMusic(sampleText, WithSeed(5))
	require.NoError(t, err)
	assert.Equal(t, a.Root, b.Root)
	assert.Equal(t, a.Scale.Name, b.Scale.Name)
	assert.Equal(t, a.ActiveVoices, b.ActiveVoices)
	assert.Equal(t, a.VoiceWeights, b.VoiceWeights)
}

func TestMapTextToMusicOnEmptyText(t *testing.T) {
	p, err := MapTextToMusic("")
	require.NoError(t, err)
	assert.Zero(t, p.Mood)
	assert.NotEmpty(t, p.ScaleNotes)
}

func TestComposeIsRepeatableWithASeed(t *testing.T) {
	a, err := Compose(sampleText, nil, WithSeed(9))
	require.NoError(t, err)
	b, err := Compose(sampleText, nil, WithSeed(9))
	require.NoError(t, err)
	assert.Equal(t, a.Duration, b.Duration)
	assert.Equal(t, a.Timeline, b.Timeline)
	assert.Equal(t, sampleText, a.Text)
}

func TestComposeEmptyText(t *testing.T) {
	_, err := Compose("   ", nil)
	assert.ErrorIs(t, err, apperr.ErrEmptyInput)
}

func TestPlayTextRunsToCompletion(t *testing.T) {
	p := newTestPlayer(t)
	events := p.Watch()

	c, err := p.PlayText(context.Background(), sampleText)
	require.NoError(t, err)
	require.NotNil(t, c)

	p.Loop().Advance(time.Second)
	assert.InDelta(t, float64(time.Second)/float64(c.Duration), p.Progress(), 1e-9)
	assert.Equal(t, c.Duration-time.Second, p.Remaining())

	var progress int
	for len(events) > 0 {
		if ev := <-events; ev.Kind == EventProgress {
			progress++
		}
	}
	assert.Equal(t, 10, progress)

	p.Loop().Advance(c.Duration)
	p.Wait()
	assert.Zero(t, p.Elapsed())
}

func TestPauseHoldsPlayback(t *testing.T) {
	p := newTestPlayer(t)
	_, err := p.PlayText(context.Background(), sampleText)
	require.NoError(t, err)

	p.Loop().Advance(2 * time.Second)
	p.Pause()
	p.Loop().Advance(30 * time.Second)
	assert.Equal(t, 2*time.Second, p.Elapsed())

	require.NoError(t, p.Resume())
	p.Loop().Advance(time.Second)
	assert.Equal(t, 3*time.Second, p.Elapsed())
}

func TestStopReleasesWait(t *testing.T) {
	p := newTestPlayer(t)
	_, err := p.PlayText(context.Background(), sampleText)
	require.NoError(t, err)
	p.Loop().Advance(time.Second)

	events := p.Watch()
	p.Stop()
	p.Wait()
	require.Len(t, events, 1)
	assert.Equal(t, EventStopped, (<-events).Kind)
	assert.Zero(t, p.Progress())
}

func TestPlayTextEmpty(t *testing.T) {
	p := newTestPlayer(t)
	_, err := p.PlayText(context.Background(), "")
	assert.ErrorIs(t, err, apperr.ErrEmptyInput)
}

func TestDriftUntilStopped(t *testing.T) {
	p := newTestPlayer(t)
	events := p.Watch()
	params, err := p.Drift(context.Background(), sampleText)
	require.NoError(t, err)
	require.NotNil(t, params)
	assert.True(t, p.Drifting())

	p.Loop().Advance(6 * time.Second)
	assert.Equal(t, 6*time.Second, p.Elapsed())
	assert.NotEmpty(t, events)
	for len(events) > 0 {
		ev := <-events
		assert.Equal(t, EventNote, ev.Kind)
		assert.Contains(t, params.ScaleNotes, ev.Note)
	}

	p.Stop()
	assert.False(t, p.Drifting())
	p.Wait()
}

func TestPlayReplacesDrift(t *testing.T) {
	p := newTestPlayer(t)
	_, err := p.Drift(context.Background(), sampleText)
	require.NoError(t, err)
	p.Loop().Advance(time.Second)

	_, err = p.PlayText(context.Background(), sampleText)
	require.NoError(t, err)
	assert.False(t, p.Drifting())
}

func TestRenderPullsFromTheSynth(t *testing.T) {
	var tapped int
	p, err := NewPlayer(8000, WithoutAudioDevice(), WithClock(clock.NewManualClock(time.Time{})),
		WithSampleTap(func(b []float32) { tapped += len(b) }))
	require.NoError(t, err)
	defer p.Close()

	c := &Composition{
		Duration: 20 * time.Second,
		Timeline: map[VoiceType][]ScheduledEvent{
			music.Pulse: {{Duration: 200 * time.Millisecond, Note: 69, Frequency: 440, Velocity: 0.8, Voice: music.Pulse}},
		},
		Params: &Parameters{Effects: music.Effects{ReverbSize: "room"}},
	}
	require.NoError(t, p.Play(c))
	p.Loop().Advance(0)

	buf := make([]float32, 800)
	p.Render(buf)
	assert.Equal(t, 800, tapped)
	var peak float32
	for _, s := range buf {
		peak = max(peak, s, -s)
	}
	assert.Greater(t, peak, float32(0))
}
