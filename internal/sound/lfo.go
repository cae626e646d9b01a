package sound

import "math"

// Swell shapes for the slow amplitude modulation on sustained voices.
const (
	SwellTriangle = iota
	SwellSine
)

// LFO is a slow oscillator returning values in [-depth, +depth].
type LFO struct {
	depth  float64
	rateHz float64
	shape  int
	phase  float64 // [0,1)
}

// NewLFO returns an oscillator starting at phase 0.
func NewLFO(depth, rateHz float64, shape int) *LFO {
	l := &LFO{}
	l.Set(depth, rateHz, shape)
	return l
}

// Set changes depth, rate and shape without resetting the phase.
func (l *LFO) Set(depth, rateHz float64, shape int) {
	if shape != SwellSine {
		shape = SwellTriangle
	}
	l.depth, l.rateHz, l.shape = depth, rateHz, shape
}

// Sample returns the value at the current phase and advances one sample.
func (l *LFO) Sample(sampleRate float64) float64 {
	if !l.Active() || sampleRate <= 0 {
		return 0
	}
	var v float64
	if l.shape == SwellSine {
		v = math.Sin(2 * math.Pi * l.phase)
	} else if l.phase < 0.5 {
		v = 4*l.phase - 1
	} else {
		v = 3 - 4*l.phase
	}
	l.phase += l.rateHz / sampleRate
	l.phase -= math.Floor(l.phase)
	return v * l.depth
}

// Active reports whether the LFO modulates anything.
func (l *LFO) Active() bool { return l.depth != 0 && l.rateHz != 0 }

// Reset returns to phase 0.
func (l *LFO) Reset() { l.phase = 0 }
