// Package scheduler plays a bounded composition against a sound layer with
// pause, resume, stop and progress reporting.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cbegin/textscape-go/internal/clock"
	apperr "github.com/cbegin/textscape-go/internal/errors"
	"github.com/cbegin/textscape-go/internal/logger"
	"github.com/cbegin/textscape-go/internal/music"
	"github.com/cbegin/textscape-go/internal/sound"
)

// ProgressInterval is how often OnProgress is called while playing.
const ProgressInterval = 100 * time.Millisecond

type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Scheduler owns one composition at a time. Every timer of a playback
// session lives in one clock.Group, so pausing or stopping cancels them all
// before anything new is armed.
type Scheduler struct {
	loop  *clock.Loop
	layer sound.Layer

	mu      sync.Mutex
	comp    *music.Composition
	events  []music.ScheduledEvent
	state   State
	session uuid.UUID
	group   *clock.Group
	start   time.Time
	pauseAt time.Time
	paused  time.Duration

	onProgress func(float64)
	onEvent    func(music.VoiceType, music.ScheduledEvent)
	onComplete func()
}

func New(loop *clock.Loop, layer sound.Layer) *Scheduler {
	return &Scheduler{loop: loop, layer: layer}
}

func (s *Scheduler) OnProgress(fn func(float64)) {
	s.mu.Lock()
	s.onProgress = fn
	s.mu.Unlock()
}

func (s *Scheduler) OnEvent(fn func(music.VoiceType, music.ScheduledEvent)) {
	s.mu.Lock()
	s.onEvent = fn
	s.mu.Unlock()
}

func (s *Scheduler) OnComplete(fn func()) {
	s.mu.Lock()
	s.onComplete = fn
	s.mu.Unlock()
}

// LoadComposition stops any playback and replaces the composition.
func (s *Scheduler) LoadComposition(c *music.Composition) {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comp = c
	s.events = nil
	if c != nil {
		s.events = c.Events()
	}
}

// Composition returns the loaded composition.
func (s *Scheduler) Composition() *music.Composition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comp
}

// Play starts from the beginning, or resumes after Pause. Without an
// initialized sound layer it logs a warning and does nothing.
func (s *Scheduler) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.comp == nil {
		return apperr.ErrNoComposition
	}
	if s.layer == nil || !s.layer.Initialized() {
		logger.Warn("sound layer not initialized, ignoring play", logger.Fields{"stage": "scheduler"})
		return nil
	}

	now := s.loop.Now()
	switch s.state {
	case Playing:
		return nil
	case Paused:
		s.paused += now.Sub(s.pauseAt)
		s.pauseAt = time.Time{}
		s.state = Playing
		elapsed := s.elapsedLocked(now)
		s.arm(elapsed, false)
		logger.Debug("playback resumed", logger.Fields{"session": s.session.String(), "elapsed": elapsed.String()})
		return nil
	}

	s.state = Playing
	s.start = now
	s.paused = 0
	s.session = uuid.New()
	if fx, ok := s.layer.(sound.EffectsSetter); ok && s.comp.Params != nil {
		fx.SetEffects(s.comp.Params.Effects)
	}
	s.arm(0, true)
	logger.Info("playback started", logger.Fields{
		"session":  s.session.String(),
		"duration": s.comp.Duration.String(),
		"events":   len(s.events),
	})
	return nil
}

// arm schedules every event after elapsed (at or after it when inclusive),
// the completion and the progress poll in a fresh group.
func (s *Scheduler) arm(elapsed time.Duration, inclusive bool) {
	g := s.loop.NewGroup()
	s.group = g
	session := s.session
	for _, ev := range s.events {
		if ev.Time < elapsed || (!inclusive && ev.Time == elapsed) {
			continue
		}
		g.AfterFunc(ev.Time-elapsed, func() { s.fire(session, ev) })
	}
	g.AfterFunc(s.comp.Duration-elapsed, func() { s.complete(session) })
	g.Every(ProgressInterval, func() { s.progress(session) })
}

func (s *Scheduler) current(session uuid.UUID) bool {
	return s.state == Playing && s.session == session
}

func (s *Scheduler) fire(session uuid.UUID, ev music.ScheduledEvent) {
	s.mu.Lock()
	if !s.current(session) {
		s.mu.Unlock()
		return
	}
	layer, cb := s.layer, s.onEvent
	s.mu.Unlock()

	layer.PlayNote(ev.Voice, ev.Frequency, ev.Duration, ev.Velocity)
	if cb != nil {
		cb(ev.Voice, ev)
	}
}

func (s *Scheduler) progress(session uuid.UUID) {
	s.mu.Lock()
	if !s.current(session) {
		s.mu.Unlock()
		return
	}
	p := s.progressLocked(s.loop.Now())
	cb := s.onProgress
	s.mu.Unlock()

	if cb != nil {
		cb(p)
	}
}

func (s *Scheduler) complete(session uuid.UUID) {
	s.mu.Lock()
	if !s.current(session) {
		s.mu.Unlock()
		return
	}
	progress, done := s.onProgress, s.onComplete
	s.stopLocked()
	s.mu.Unlock()

	logger.Info("playback complete", logger.Fields{"session": session.String()})
	if progress != nil {
		progress(1)
	}
	if done != nil {
		done()
	}
}

// Pause cancels everything pending. Play resumes.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Playing {
		return
	}
	s.group.Cancel()
	s.pauseAt = s.loop.Now()
	s.state = Paused
}

// Stop cancels everything, silences the layer and resets timing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.group != nil {
		s.group.Cancel()
		s.group = nil
	}
	if s.layer != nil && s.layer.Initialized() && s.state != Stopped {
		s.layer.StopAll()
	}
	s.state = Stopped
	s.start, s.pauseAt = time.Time{}, time.Time{}
	s.paused = 0
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Session identifies the current or last playback.
func (s *Scheduler) Session() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// PausedFor is the total time spent paused in this playback.
func (s *Scheduler) PausedFor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// StartedAt is when the current playback began; zero when stopped.
func (s *Scheduler) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start
}

// Elapsed is now - start - paused time. It does not move while paused.
func (s *Scheduler) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked(s.loop.Now())
}

func (s *Scheduler) elapsedLocked(now time.Time) time.Duration {
	switch s.state {
	case Playing:
		return now.Sub(s.start) - s.paused
	case Paused:
		return s.pauseAt.Sub(s.start) - s.paused
	default:
		return 0
	}
}

// Progress is the played fraction in [0,1].
func (s *Scheduler) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressLocked(s.loop.Now())
}

func (s *Scheduler) progressLocked(now time.Time) float64 {
	if s.comp == nil || s.comp.Duration <= 0 {
		return 0
	}
	return min(max(float64(s.elapsedLocked(now))/float64(s.comp.Duration), 0), 1)
}

// Remaining is the time left to play.
func (s *Scheduler) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.comp == nil {
		return 0
	}
	return max(s.comp.Duration-s.elapsedLocked(s.loop.Now()), 0)
}

// FormatTime renders d as m:ss.
func FormatTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
