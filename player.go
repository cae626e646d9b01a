package textscape

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cbegin/textscape-go/internal/clock"
	"github.com/cbegin/textscape-go/internal/continuous"
	"github.com/cbegin/textscape-go/internal/scheduler"
	"github.com/cbegin/textscape-go/internal/sound"
)

// PlaybackEvent carries progress, notes and the end of playback from Watch().
type PlaybackEvent struct {
	Kind     int // EventProgress, EventNote, EventCompleted or EventStopped
	Progress float64
	Voice    VoiceType
	Note     int
	At       time.Duration
}

const (
	EventProgress int = iota
	EventNote
	EventCompleted
	EventStopped
)

// tapSource runs the synth and hands every buffer to the sample tap.
type tapSource struct {
	synth *sound.Synth
	tap   func([]float32)
}

func (t tapSource) Process(dst []float32) {
	t.synth.Process(dst)
	if t.tap != nil {
		t.tap(dst)
	}
}

// Player plays text live, either as a bounded composition or as an endless
// drift. One Player owns one synth and one timer loop.
type Player struct {
	mu         sync.Mutex
	opts       options
	sampleRate int
	synth      *sound.Synth
	loop       *clock.Loop
	cancelLoop context.CancelFunc
	out        *sound.Output
	sched      *scheduler.Scheduler
	drift      *continuous.Engine
	volume     float64
	done       chan struct{}
	eventCh    chan PlaybackEvent
	eventChMu  sync.Mutex
}

func NewPlayer(sampleRate int, opts ...Option) (*Player, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := buildOptions(opts)
	synth := sound.NewSynth(sampleRate)
	synth.SetMasterGain(cfg.volume)
	loop := clock.NewLoop(cfg.clock)

	p := &Player{
		opts:       cfg,
		sampleRate: sampleRate,
		synth:      synth,
		loop:       loop,
		sched:      scheduler.New(loop, synth),
		drift:      continuous.New(loop, synth, cfg.rand()),
		volume:     cfg.volume,
	}
	p.sched.OnProgress(func(v float64) {
		p.sendEvent(PlaybackEvent{Kind: EventProgress, Progress: v})
	})
	p.sched.OnEvent(func(v VoiceType, ev ScheduledEvent) {
		p.sendEvent(PlaybackEvent{Kind: EventNote, Voice: v, Note: ev.Note, At: ev.Time})
	})
	p.sched.OnComplete(func() {
		p.sendEvent(PlaybackEvent{Kind: EventCompleted, Progress: 1})
		p.signalDone()
	})
	p.drift.OnTrigger(func(tr continuous.Trigger) {
		for _, n := range tr.Notes {
			p.sendEvent(PlaybackEvent{Kind: EventNote, Voice: tr.Voice, Note: n, At: tr.At})
		}
	})

	if cfg.clock == nil {
		ctx, cancel := context.WithCancel(context.Background())
		p.cancelLoop = cancel
		go func() { _ = loop.Run(ctx) }()
	}
	return p, nil
}

// Loop is the timer loop driving playback. With WithClock the caller
// advances it.
func (p *Player) Loop() *clock.Loop { return p.loop }

// ensureOutput opens the audio device on first use.
func (p *Player) ensureOutput() error {
	if !p.opts.device || p.out != nil {
		return nil
	}
	out, err := sound.NewOutput(p.sampleRate, tapSource{synth: p.synth, tap: p.opts.sampleTap})
	if err != nil {
		return err
	}
	p.out = out
	return nil
}

// begin stops whatever is playing and opens a new done channel.
func (p *Player) begin() error {
	p.drift.Stop()
	p.sched.Stop()
	if p.done != nil {
		close(p.done)
	}
	p.done = make(chan struct{})
	if err := p.ensureOutput(); err != nil {
		return err
	}
	if p.out != nil {
		p.out.Play()
	}
	return nil
}

// PlayText composes a bounded piece from text and starts playing it.
func (p *Player) PlayText(ctx context.Context, text string) (*Composition, error) {
	params, err := mapperFor(p.opts).Map(ctx, text)
	if err != nil {
		return nil, err
	}
	c, err := Compose(text, params, p.seedOption()...)
	if err != nil {
		return nil, err
	}
	return c, p.Play(c)
}

// Play starts an already composed piece.
func (p *Player) Play(c *Composition) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.begin(); err != nil {
		return err
	}
	p.sched.LoadComposition(c)
	return p.sched.Play()
}

// Drift maps text and generates from it until Stop.
func (p *Player) Drift(ctx context.Context, text string) (*Parameters, error) {
	params, err := mapperFor(p.opts).Map(ctx, text)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.begin(); err != nil {
		return nil, err
	}
	return params, p.drift.Start(params)
}

func (p *Player) seedOption() []Option {
	if p.opts.seeded {
		return []Option{WithSeed(p.opts.seed)}
	}
	return nil
}

func (p *Player) sendEvent(ev PlaybackEvent) {
	p.eventChMu.Lock()
	ch := p.eventCh
	p.eventChMu.Unlock()
	if ch != nil {
		select {
		case ch <- ev:
		default:
			// Channel full; drop event
		}
	}
}

func (p *Player) signalDone() {
	p.mu.Lock()
	done := p.done
	p.done = nil
	p.mu.Unlock()
	if done != nil {
		close(done)
	}
}

// Pause holds a bounded piece and the audio device. Drift keeps generating
// but is not heard until Resume.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sched.Pause()
	if p.out != nil {
		p.out.Pause()
	}
}

func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out != nil {
		p.out.Play()
	}
	if p.sched.State() == scheduler.Paused {
		return p.sched.Play()
	}
	return nil
}

// Stop ends playback or drift and releases Wait.
func (p *Player) Stop() {
	p.mu.Lock()
	p.sched.Stop()
	p.drift.Stop()
	done := p.done
	p.done = nil
	p.mu.Unlock()
	if done != nil {
		p.sendEvent(PlaybackEvent{Kind: EventStopped})
		close(done)
	}
}

// Close stops playback, the timer loop and the audio device.
func (p *Player) Close() error {
	p.Stop()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancelLoop != nil {
		p.cancelLoop()
		p.cancelLoop = nil
	}
	if p.out == nil {
		return nil
	}
	err := p.out.Close()
	p.out = nil
	return err
}

// Wait blocks until the current piece completes or is stopped. A drift
// only ends with Stop. Wait returns immediately when nothing is playing.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Watch returns a channel that receives playback events. The channel is
// buffered (cap 64) and events are dropped when it is full. Only the most
// recent Watch() channel receives events.
func (p *Player) Watch() <-chan PlaybackEvent {
	ch := make(chan PlaybackEvent, 64)
	p.eventChMu.Lock()
	p.eventCh = ch
	p.eventChMu.Unlock()
	return ch
}

// SetMasterVolume sets runtime volume scalar. 1.0 is default.
func (p *Player) SetMasterVolume(volume float64) {
	volume = max(volume, 0)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
	p.synth.SetMasterGain(volume)
}

func (p *Player) MasterVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Progress of the bounded piece in [0,1].
func (p *Player) Progress() float64 { return p.sched.Progress() }

// Elapsed is the played time of the bounded piece, or the drift time.
func (p *Player) Elapsed() time.Duration {
	if p.drift.Running() {
		return p.drift.Elapsed()
	}
	return p.sched.Elapsed()
}

// Remaining is the time left in the bounded piece.
func (p *Player) Remaining() time.Duration { return p.sched.Remaining() }

// Drifting reports whether the continuous engine is running.
func (p *Player) Drifting() bool { return p.drift.Running() }

// Render pulls samples from the synth directly. It is meant for players
// created WithoutAudioDevice.
func (p *Player) Render(dst []float32) {
	tapSource{synth: p.synth, tap: p.opts.sampleTap}.Process(dst)
}
