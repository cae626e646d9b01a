package sound

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cbegin/textscape-go/internal/effects"
	"github.com/cbegin/textscape-go/internal/music"
)

const twoPi = 2 * math.Pi

// Patch is the fixed sound of one voice channel.
type Patch struct {
	Attack   time.Duration
	Release  time.Duration
	Gain     float64
	Pan      float64 // -1 left .. +1 right
	Octave   float64 // level of the second partial
	Swell    bool    // amplitude LFO
	MaxTones int     // per-channel polyphony
}

var patches = map[music.VoiceType]Patch{
	music.Drone:      {Attack: 3 * time.Second, Release: 4 * time.Second, Gain: 0.22, Octave: 0.1, MaxTones: 2},
	music.Pad:        {Attack: 1500 * time.Millisecond, Release: 3 * time.Second, Gain: 0.12, Pan: -0.2, Octave: 0.2, Swell: true, MaxTones: 8},
	music.Melody:     {Attack: 60 * time.Millisecond, Release: 800 * time.Millisecond, Gain: 0.16, Pan: 0.15, MaxTones: 3},
	music.Texture:    {Attack: 10 * time.Millisecond, Release: 400 * time.Millisecond, Gain: 0.07, Pan: 0.4, MaxTones: 6},
	music.Pulse:      {Attack: 5 * time.Millisecond, Release: 200 * time.Millisecond, Gain: 0.1, Pan: -0.35, MaxTones: 2},
	music.Atmosphere: {Attack: 4 * time.Second, Release: 5 * time.Second, Gain: 0.08, Octave: 0.3, Swell: true, MaxTones: 8},
}

// PatchFor returns the patch of a voice channel.
func PatchFor(v music.VoiceType) Patch { return patches[v] }

// stopFade is how quickly StopVoiceType and StopAll silence a channel.
const stopFade = 250 * time.Millisecond

type tone struct {
	id       Handle
	voice    music.VoiceType
	patch    Patch
	step     float64 // phase increment per sample
	phase    float64
	velocity float64
	left     float64
	right    float64

	age          int64
	attack       int64
	hold         int64
	release      int64
	releaseStart int64 // -1 while not releasing
	releaseLevel float64
	done         bool
}

func (t *tone) releasing() bool { return t.releaseStart >= 0 }

func (t *tone) startRelease(samples int64) {
	if t.releasing() {
		t.release = min(t.release, samples)
		return
	}
	t.releaseLevel = t.level()
	t.releaseStart = t.age
	t.release = max(samples, 1)
}

func (t *tone) level() float64 {
	if t.age < t.attack {
		return float64(t.age) / float64(t.attack)
	}
	return 1
}

func (t *tone) envelope() float64 {
	if !t.releasing() && t.age >= t.hold {
		t.startRelease(t.release)
	}
	if t.releasing() {
		r := t.age - t.releaseStart
		if r >= t.release {
			t.done = true
			return 0
		}
		return t.releaseLevel * (1 - float64(r)/float64(t.release))
	}
	return t.level()
}

// Synth is a sine tone pool with one channel per voice type. It implements
// Layer for the engines and SampleSource for the audio output.
type Synth struct {
	mu         sync.Mutex
	sampleRate float64
	tones      []*tone
	next       Handle
	chain      *effects.Chain
	attack     time.Duration // melody override from the text's effects
	swell      *LFO
	frames     int64
	masterGain atomic.Uint64
}

// NewSynth returns a synth with the default effect chain.
func NewSynth(sampleRate int) *Synth {
	s := &Synth{
		sampleRate: float64(sampleRate),
		chain:      effects.NewChain(effects.NewLimiter(sampleRate)),
		swell:      NewLFO(0.25, 0.08, SwellSine),
	}
	s.SetMasterGain(1)
	return s
}

func (s *Synth) samples(d time.Duration) int64 {
	return int64(d.Seconds() * s.sampleRate)
}

// PlayNote starts a tone. When the channel is full its oldest sounding tone
// is faded out to make room.
func (s *Synth) PlayNote(voice music.VoiceType, hz float64, d time.Duration, velocity float64) Handle {
	patch, ok := patches[voice]
	if !ok || hz <= 0 || d <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var sounding []*tone
	for _, t := range s.tones {
		if t.voice == voice && !t.releasing() {
			sounding = append(sounding, t)
		}
	}
	for i := 0; i <= len(sounding)-patch.MaxTones; i++ {
		sounding[i].startRelease(s.samples(stopFade))
	}

	attack := patch.Attack
	if voice == music.Melody && s.attack > 0 {
		attack = s.attack
	}
	angle := (patch.Pan + 1) / 2 * math.Pi / 2
	s.next++
	s.tones = append(s.tones, &tone{
		id:           s.next,
		voice:        voice,
		patch:        patch,
		step:         twoPi * hz / s.sampleRate,
		velocity:     min(max(velocity, 0), 1),
		left:         math.Cos(angle),
		right:        math.Sin(angle),
		attack:       max(s.samples(attack), 1),
		hold:         s.samples(d),
		release:      max(s.samples(patch.Release), 1),
		releaseStart: -1,
	})
	return s.next
}

// StopVoiceType fades out every tone on a channel.
func (s *Synth) StopVoiceType(voice music.VoiceType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tones {
		if t.voice == voice {
			t.startRelease(s.samples(stopFade))
		}
	}
}

// StopAll fades out every tone.
func (s *Synth) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tones {
		t.startRelease(s.samples(stopFade))
	}
}

func (s *Synth) Initialized() bool { return s.sampleRate > 0 }

// SetEffects rebuilds the master chain and sets the melody attack.
func (s *Synth) SetEffects(fx music.Effects) {
	chain := effects.FromSettings(int(s.sampleRate), fx)
	s.mu.Lock()
	s.chain = chain
	s.attack = fx.Attack
	s.mu.Unlock()
}

func (s *Synth) SetMasterGain(gain float64) {
	s.masterGain.Store(math.Float64bits(max(gain, 0)))
}

func (s *Synth) MasterGain() float64 {
	return math.Float64frombits(s.masterGain.Load())
}

// Sounding is the number of tones not yet finished, optionally filtered by
// voice.
func (s *Synth) Sounding(voices ...music.VoiceType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tones {
		if t.done {
			continue
		}
		if len(voices) == 0 {
			n++
			continue
		}
		for _, v := range voices {
			if t.voice == v {
				n++
				break
			}
		}
	}
	return n
}

// Elapsed is the amount of audio rendered so far.
func (s *Synth) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Duration(s.frames) * time.Second / time.Duration(s.sampleRate)
}

// Process renders interleaved stereo frames into dst.
func (s *Synth) Process(dst []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gain := s.MasterGain()
	for i := 0; i+1 < len(dst); i += 2 {
		swell := 1 + s.swell.Sample(s.sampleRate)
		var l, r float64
		for _, t := range s.tones {
			if t.done {
				continue
			}
			env := t.envelope()
			sig := math.Sin(t.phase)
			if t.patch.Octave > 0 {
				sig += t.patch.Octave * math.Sin(2*t.phase)
			}
			sig *= env * t.velocity * t.patch.Gain
			if t.patch.Swell {
				sig *= swell
			}
			l += sig * t.left
			r += sig * t.right
			t.phase += t.step
			if t.phase >= twoPi {
				t.phase -= twoPi
			}
			t.age++
		}
		lo, ro := s.chain.Process(float32(l), float32(r))
		dst[i] = float32(clamp(float64(lo)*gain, -1, 1))
		dst[i+1] = float32(clamp(float64(ro)*gain, -1, 1))
		s.frames++
	}
	live := s.tones[:0]
	for _, t := range s.tones {
		if !t.done {
			live = append(live, t)
		}
	}
	clear(s.tones[len(live):])
	s.tones = live
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
