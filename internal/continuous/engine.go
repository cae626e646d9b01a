// Package continuous plays an endless piece: every active voice re-triggers
// itself on a 100 ms poll, choosing notes from Markov chains and chord rules
// in the global key.
package continuous

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cbegin/textscape-go/internal/clock"
	apperr "github.com/cbegin/textscape-go/internal/errors"
	"github.com/cbegin/textscape-go/internal/logger"
	"github.com/cbegin/textscape-go/internal/music"
	"github.com/cbegin/textscape-go/internal/rules"
	"github.com/cbegin/textscape-go/internal/scales"
	"github.com/cbegin/textscape-go/internal/sound"
)

const (
	PollInterval = 100 * time.Millisecond
	maxStagger   = 2 * time.Second
)

// backoff is how long a voice waits after its gate skipped a tick.
var backoff = map[music.VoiceType]time.Duration{
	music.Drone:      2000 * time.Millisecond,
	music.Pad:        2000 * time.Millisecond,
	music.Melody:     1000 * time.Millisecond,
	music.Texture:    500 * time.Millisecond,
	music.Pulse:      1000 * time.Millisecond,
	music.Atmosphere: 3000 * time.Millisecond,
}

// VoiceState is the live state of one voice.
type VoiceState struct {
	Voice       music.VoiceType
	Weight      float64
	NextTrigger time.Time
	Note        int   // last single note, rules.NoNote before the first
	Chord       []int // last chord for pad and atmosphere
	Triggers    int
}

// Trigger describes one voice firing.
type Trigger struct {
	Session  uuid.UUID
	Voice    music.VoiceType
	At       time.Duration // since start
	Notes    []int
	Duration time.Duration
	Velocity float64
}

// Engine generates until stopped. It is safe for concurrent use; all
// generation happens on the loop.
type Engine struct {
	loop  *clock.Loop
	layer sound.Layer
	rng   *rand.Rand

	mu        sync.Mutex
	running   bool
	session   uuid.UUID
	group     *clock.Group
	params    *music.Parameters
	start     time.Time
	elapsed   time.Duration
	voices    []*VoiceState
	melody    Chain
	melodyIn  []int
	texture   Chain
	textureIn []int
	onTrigger func(Trigger)
}

// New binds an engine to a loop and sound layer. A nil rng is seeded from
// the runtime.
func New(loop *clock.Loop, layer sound.Layer, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Engine{loop: loop, layer: layer, rng: rng}
}

// OnTrigger registers a callback for every voice that plays. It is called
// on the loop, outside the engine lock.
func (e *Engine) OnTrigger(fn func(Trigger)) {
	e.mu.Lock()
	e.onTrigger = fn
	e.mu.Unlock()
}

// Start begins generating from params.
func (e *Engine) Start(params *music.Parameters) error {
	if params == nil {
		return apperr.Wrap("drift", errors.New("no musical parameters"))
	}
	if e.layer == nil || !e.layer.Initialized() {
		logger.Warn("sound layer not initialized", logger.Fields{"stage": "drift"})
		return apperr.Wrap("drift", errors.New("sound layer not initialized"))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return apperr.ErrAlreadyRunning
	}
	if fx, ok := e.layer.(sound.EffectsSetter); ok {
		fx.SetEffects(params.Effects)
	}

	e.params = params
	e.melodyIn = scales.InRange(params.ScaleNotes, 60, 84)
	e.melody = MelodicChain(e.melodyIn)
	e.textureIn = scales.InRange(params.ScaleNotes, 72, 128)
	e.texture = TextureChain(e.textureIn)

	e.start = e.loop.Now()
	e.elapsed = 0
	e.voices = e.voices[:0]
	for _, v := range params.ActiveVoices {
		e.voices = append(e.voices, &VoiceState{
			Voice:       v,
			Weight:      params.Weight(v),
			NextTrigger: e.start.Add(time.Duration(e.rng.Float64() * float64(maxStagger))),
			Note:        rules.NoNote,
		})
	}
	e.session = uuid.New()
	e.group = e.loop.NewGroup()
	e.group.Every(PollInterval, e.tick)
	e.running = true

	logger.Info("continuous engine started", logger.Fields{
		"session": e.session.String(),
		"key":     scales.NoteName(params.Root),
		"scale":   params.Scale.ID,
		"voices":  len(e.voices),
	})
	return nil
}

// Stop cancels the poll and silences every voice. Stopping a stopped engine
// does nothing.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.group.Cancel()
	e.elapsed = e.loop.Now().Sub(e.start)
	e.voices = nil
	session := e.session
	elapsed := e.elapsed
	e.mu.Unlock()

	e.layer.StopAll()
	logger.Info("continuous engine stopped", logger.Fields{
		"session": session.String(),
		"elapsed": elapsed.String(),
	})
}

func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Session identifies the current or last run.
func (e *Engine) Session() uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Elapsed is the time since Start, frozen at Stop.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return e.loop.Now().Sub(e.start)
	}
	return e.elapsed
}

// Voices returns a copy of the voice states.
func (e *Engine) Voices() []VoiceState {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]VoiceState, len(e.voices))
	for i, v := range e.voices {
		out[i] = *v
		out[i].Chord = append([]int(nil), v.Chord...)
	}
	return out
}

func (e *Engine) tick() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	now := e.loop.Now()
	e.elapsed = now.Sub(e.start)
	var fired []Trigger
	for _, st := range e.voices {
		if now.Before(st.NextTrigger) {
			continue
		}
		if tr, ok := e.trigger(st, now); ok {
			fired = append(fired, tr)
		}
	}
	cb := e.onTrigger
	e.mu.Unlock()

	if cb != nil {
		for _, tr := range fired {
			cb(tr)
		}
	}
}

// gate is the per-tick chance that a due voice plays.
func (e *Engine) gate(st *VoiceState) float64 {
	w := st.Weight
	switch st.Voice {
	case music.Drone, music.Pad:
		return 0.5 + 0.5*w
	case music.Melody:
		return w
	case music.Texture:
		return e.params.Density * w
	case music.Pulse:
		return 0.7 * w
	case music.Atmosphere:
		return 0.6 * w
	}
	return 0
}

func (e *Engine) between(lo, hi time.Duration) time.Duration {
	return lo + time.Duration(e.rng.Float64()*float64(hi-lo))
}

func (e *Engine) velocity(lo, hi float64) float64 {
	return lo + e.rng.Float64()*(hi-lo)
}

func (e *Engine) trigger(st *VoiceState, now time.Time) (Trigger, bool) {
	if e.rng.Float64() >= e.gate(st) {
		st.NextTrigger = now.Add(backoff[st.Voice])
		return Trigger{}, false
	}
	p := e.params
	tempo := max(p.Tempo, rules.MinTempo)
	tr := Trigger{Session: e.session, Voice: st.Voice, At: now.Sub(e.start)}
	var next time.Duration

	switch st.Voice {
	case music.Drone:
		low := scales.InRange(p.ScaleNotes, p.Root, p.Root+12)
		if len(low) == 0 {
			break
		}
		tr.Notes = []int{low[0]}
		tr.Duration = e.between(20*time.Second, 30*time.Second)
		tr.Velocity = 0.25
		next = time.Duration(float64(tr.Duration) * 0.9)

	case music.Pad:
		tr.Notes = rules.SelectChordNotes(e.rng, p.ScaleNotes, p.Root, int(2+p.Density*2), p.Tension)
		tr.Duration = e.between(6*time.Second, 12*time.Second)
		tr.Velocity = e.velocity(0.3, 0.5)
		next = time.Duration(float64(tr.Duration) * 0.8)

	case music.Melody:
		if len(e.melodyIn) == 0 {
			break
		}
		n, ok := e.melody.Next(e.rng, st.Note)
		if !ok {
			n = e.melodyIn[e.rng.IntN(len(e.melodyIn))]
		}
		tr.Notes = []int{n}
		tr.Duration = e.between(800*time.Millisecond, 1800*time.Millisecond)
		tr.Velocity = e.velocity(0.4, 0.7)
		next = time.Duration(float64(e.between(600*time.Millisecond, 1400*time.Millisecond)) / tempo)
		// The melody is a single line.
		e.layer.StopVoiceType(music.Melody)

	case music.Texture:
		if len(e.textureIn) == 0 {
			break
		}
		n, ok := e.texture.Next(e.rng, st.Note)
		if !ok {
			n = e.textureIn[e.rng.IntN(len(e.textureIn))]
		}
		tr.Notes = []int{n}
		tr.Duration = e.between(time.Second, 3*time.Second)
		tr.Velocity = e.velocity(0.2, 0.4)
		next = e.between(800*time.Millisecond, 2300*time.Millisecond)

	case music.Pulse:
		notes := scales.InRange(p.ScaleNotes, 48, 72)
		if len(notes) == 0 {
			break
		}
		tr.Notes = []int{notes[e.rng.IntN(len(notes))]}
		tr.Duration = rules.MinNoteDuration
		tr.Velocity = e.velocity(0.25, 0.4)
		next = time.Duration(float64(2*time.Second) / tempo)

	case music.Atmosphere:
		if len(p.ScaleNotes) == 0 {
			break
		}
		root := p.ScaleNotes[len(p.ScaleNotes)/3]
		tr.Notes = rules.SelectChordNotes(e.rng, p.ScaleNotes, root, 3+e.rng.IntN(2), 0.2)
		tr.Duration = e.between(10*time.Second, 18*time.Second)
		tr.Velocity = e.velocity(0.2, 0.35)
		next = e.between(8*time.Second, 14*time.Second)
	}

	if len(tr.Notes) == 0 {
		st.NextTrigger = now.Add(backoff[st.Voice])
		return Trigger{}, false
	}
	tr.Notes = p.Tonal.EnforceKeyLock(tr.Notes)
	for _, n := range tr.Notes {
		e.layer.PlayNote(st.Voice, scales.MIDIToFrequency(n), tr.Duration, tr.Velocity)
	}
	if len(tr.Notes) == 1 {
		st.Note = tr.Notes[0]
	} else {
		st.Chord = tr.Notes
	}
	st.Triggers++
	st.NextTrigger = now.Add(next)
	return tr, true
}
