// Package sound is the tone-producing side of the pipeline: the Layer
// contract the engines play through, a recording fake, a sine synth and the
// audio device output.
package sound

import (
	"sync"
	"time"

	"github.com/cbegin/textscape-go/internal/music"
)

// Handle identifies one sounding note.
type Handle uint64

// Layer plays tones on named voice channels.
type Layer interface {
	PlayNote(voice music.VoiceType, hz float64, d time.Duration, velocity float64) Handle
	StopVoiceType(voice music.VoiceType)
	StopAll()
	Initialized() bool
}

// EffectsSetter is implemented by layers with a configurable effects chain.
type EffectsSetter interface {
	SetEffects(fx music.Effects)
}

// Note is one PlayNote call seen by a Recorder.
type Note struct {
	Voice     music.VoiceType
	Frequency float64
	Duration  time.Duration
	Velocity  float64
	Handle    Handle
}

// Recorder is a Layer that only remembers what it was asked to do.
type Recorder struct {
	mu       sync.Mutex
	notes    []Note
	stopped  []music.VoiceType
	stopAll  int
	effects  []music.Effects
	next     Handle
	disabled bool
}

// NewRecorder returns an initialized recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// NewUninitializedRecorder reports Initialized() == false.
func NewUninitializedRecorder() *Recorder { return &Recorder{disabled: true} }

func (r *Recorder) PlayNote(voice music.VoiceType, hz float64, d time.Duration, velocity float64) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.notes = append(r.notes, Note{Voice: voice, Frequency: hz, Duration: d, Velocity: velocity, Handle: r.next})
	return r.next
}

func (r *Recorder) StopVoiceType(voice music.VoiceType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = append(r.stopped, voice)
}

func (r *Recorder) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopAll++
}

func (r *Recorder) Initialized() bool { return !r.disabled }

func (r *Recorder) SetEffects(fx music.Effects) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.effects = append(r.effects, fx)
}

// Notes returns a copy of every recorded note.
func (r *Recorder) Notes() []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Note(nil), r.notes...)
}

// NotesFor filters the recorded notes by voice.
func (r *Recorder) NotesFor(voice music.VoiceType) []Note {
	var out []Note
	for _, n := range r.Notes() {
		if n.Voice == voice {
			out = append(out, n)
		}
	}
	return out
}

// StopAllCount is how many times StopAll was called.
func (r *Recorder) StopAllCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopAll
}

// Stopped lists StopVoiceType calls in order.
func (r *Recorder) Stopped() []music.VoiceType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]music.VoiceType(nil), r.stopped...)
}

// Effects lists SetEffects calls in order.
func (r *Recorder) Effects() []music.Effects {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]music.Effects(nil), r.effects...)
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes, r.stopped, r.effects = nil, nil, nil
	r.stopAll = 0
}
