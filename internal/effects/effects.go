package effects

import (
	"github.com/cbegin/textscape-go/internal/music"
)

// Effector processes one stereo frame.
type Effector interface {
	Process(l, r float32) (float32, float32)
	Reset()
}

// Chain applies effects in order.
type Chain struct {
	effects []Effector
}

func NewChain(effects ...Effector) *Chain {
	return &Chain{effects: effects}
}

func (c *Chain) Process(l, r float32) (float32, float32) {
	for _, e := range c.effects {
		l, r = e.Process(l, r)
	}
	return l, r
}

func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}

func (c *Chain) Add(e Effector) {
	c.effects = append(c.effects, e)
}

// Len is the number of effects in the chain.
func (c *Chain) Len() int { return len(c.effects) }

const (
	delayFeedback = 0.35
	delayCross    = 0.3
)

// FromSettings builds the master chain for a piece: tone filter, delay,
// reverb, then a limiter to keep stacked pads out of clipping.
func FromSettings(sampleRate int, fx music.Effects) *Chain {
	c := NewChain(NewTone(sampleRate, fx.LowPass, fx.HighPass))
	if fx.DelayMix > 0 && fx.DelayTime > 0 {
		c.Add(NewDelay(sampleRate, fx.DelayTime, delayFeedback, delayCross, float32(fx.DelayMix)))
	}
	if fx.ReverbMix > 0 {
		c.Add(NewRoomReverb(sampleRate, fx.ReverbSize, float32(fx.ReverbMix)))
	}
	c.Add(NewLimiter(sampleRate))
	return c
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
