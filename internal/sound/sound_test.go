package sound

import (
	"encoding/binary"
	"io"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/textscape-go/internal/music"
)

const testRate = 8000

func render(s *Synth, d time.Duration) []float32 {
	buf := make([]float32, int(d.Seconds()*testRate)*2)
	s.Process(buf)
	return buf
}

func peak(buf []float32) float64 {
	var p float64
	for _, v := range buf {
		p = max(p, math.Abs(float64(v)))
	}
	return p
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	assert.True(t, r.Initialized())
	assert.False(t, NewUninitializedRecorder().Initialized())

	h1 := r.PlayNote(music.Melody, 440, time.Second, 0.5)
	h2 := r.PlayNote(music.Drone, 110, time.Second, 0.3)
	assert.NotEqual(t, h1, h2)
	r.StopVoiceType(music.Melody)
	r.StopAll()
	r.SetEffects(music.Effects{ReverbSize: "hall"})

	assert.Len(t, r.Notes(), 2)
	assert.Len(t, r.NotesFor(music.Drone), 1)
	assert.Equal(t, []music.VoiceType{music.Melody}, r.Stopped())
	assert.Equal(t, 1, r.StopAllCount())
	assert.Len(t, r.Effects(), 1)

	r.Reset()
	assert.Empty(t, r.Notes())
	assert.Zero(t, r.StopAllCount())
}

func TestSynthPlaysAndReleases(t *testing.T) {
	s := NewSynth(testRate)
	assert.True(t, s.Initialized())
	assert.NotZero(t, s.PlayNote(music.Pulse, 440, 100*time.Millisecond, 1))
	assert.Equal(t, 1, s.Sounding())

	buf := render(s, 100*time.Millisecond)
	assert.Greater(t, peak(buf), 0.01)

	// Hold plus the 200 ms release.
	render(s, 300*time.Millisecond)
	assert.Zero(t, s.Sounding())
	assert.Equal(t, 400*time.Millisecond, s.Elapsed())
}

func TestSynthRejectsBadNotes(t *testing.T) {
	s := NewSynth(testRate)
	assert.Zero(t, s.PlayNote(music.Melody, 0, time.Second, 1))
	assert.Zero(t, s.PlayNote(music.Melody, 440, 0, 1))
	assert.Zero(t, s.PlayNote(music.VoiceType(99), 440, time.Second, 1))
	assert.Zero(t, s.Sounding())
}

func TestSynthStealsOldestOnChannel(t *testing.T) {
	s := NewSynth(testRate)
	limit := PatchFor(music.Pulse).MaxTones
	for i := 0; i < limit+2; i++ {
		s.PlayNote(music.Pulse, 220+float64(i)*10, 10*time.Second, 1)
	}
	s.PlayNote(music.Drone, 55, 10*time.Second, 1)
	render(s, 300*time.Millisecond)
	assert.Equal(t, limit, s.Sounding(music.Pulse))
	assert.Equal(t, 1, s.Sounding(music.Drone))
}

func TestSynthStop(t *testing.T) {
	s := NewSynth(testRate)
	s.PlayNote(music.Pad, 220, 10*time.Second, 1)
	s.PlayNote(music.Melody, 440, 10*time.Second, 1)
	s.StopVoiceType(music.Pad)
	render(s, 300*time.Millisecond)
	assert.Zero(t, s.Sounding(music.Pad))
	assert.Equal(t, 1, s.Sounding(music.Melody))

	s.StopAll()
	render(s, 300*time.Millisecond)
	assert.Zero(t, s.Sounding())
	assert.Zero(t, peak(render(s, 50*time.Millisecond)))
}

func TestSynthMasterGain(t *testing.T) {
	s := NewSynth(testRate)
	s.SetMasterGain(-1)
	assert.Zero(t, s.MasterGain())
	s.PlayNote(music.Melody, 440, time.Second, 1)
	assert.Zero(t, peak(render(s, 200*time.Millisecond)))

	s.SetMasterGain(0.5)
	assert.Equal(t, 0.5, s.MasterGain())
	s.SetEffects(music.Effects{ReverbSize: "room", ReverbMix: 0.3, LowPass: 1})
	assert.Greater(t, peak(render(s, 200*time.Millisecond)), 0.0)
}

func TestEffectsSetMelodyAttack(t *testing.T) {
	s := NewSynth(testRate)
	s.PlayNote(music.Melody, 440, time.Second, 1)
	assert.Equal(t, int64(480), s.tones[0].attack)

	s.SetEffects(music.Effects{ReverbSize: "room", Attack: 500 * time.Millisecond})
	s.PlayNote(music.Melody, 440, time.Second, 1)
	s.PlayNote(music.Pulse, 440, time.Second, 1)
	require.Len(t, s.tones, 3)
	assert.Equal(t, int64(4000), s.tones[1].attack)
	assert.Equal(t, int64(40), s.tones[2].attack)

	s.SetEffects(music.Effects{ReverbSize: "room", Attack: 10 * time.Millisecond})
	s.PlayNote(music.Melody, 440, time.Second, 1)
	assert.Equal(t, int64(80), s.tones[3].attack)
}

func TestLFO(t *testing.T) {
	l := NewLFO(1, 1, SwellTriangle)
	assert.True(t, l.Active())
	assert.InDelta(t, -1, l.Sample(4), 1e-9)
	assert.InDelta(t, 0, l.Sample(4), 1e-9)
	assert.InDelta(t, 1, l.Sample(4), 1e-9)
	assert.InDelta(t, 0, l.Sample(4), 1e-9)

	l.Set(0.5, 1, SwellSine)
	l.Reset()
	assert.InDelta(t, 0, l.Sample(4), 1e-9)
	assert.InDelta(t, 0.5, l.Sample(4), 1e-9)

	l.Set(0, 1, SwellSine)
	assert.False(t, l.Active())
	assert.Zero(t, l.Sample(4))
}

type constSource float32

func (c constSource) Process(dst []float32) {
	for i := range dst {
		dst[i] = float32(c)
	}
}

func TestStreamReader(t *testing.T) {
	r := NewStreamReader(constSource(0.25))
	p := make([]byte, 20)
	n, err := r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, float32(0.25), math.Float32frombits(binary.LittleEndian.Uint32(p[12:])))

	n, err = r.Read(make([]byte, 4))
	assert.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, r.Close())
	_, err = r.Read(p)
	assert.ErrorIs(t, err, io.EOF)
}
