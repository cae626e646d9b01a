package effects

import "time"

// Delay is a stereo feedback delay with cross-channel bleed.
type Delay struct {
	left, right []float32
	pos         int
	feedback    float32
	cross       float32
	wet         float32
}

// NewDelay sizes the line to d. feedback, cross and wet are 0..1.
func NewDelay(sampleRate int, d time.Duration, feedback, cross, wet float32) *Delay {
	n := max(int(d.Seconds()*float64(sampleRate)), 1)
	return &Delay{
		left:     make([]float32, n),
		right:    make([]float32, n),
		feedback: clamp(feedback, 0, 0.95),
		cross:    clamp(cross, 0, 1),
		wet:      clamp(wet, 0, 1),
	}
}

func (d *Delay) Process(l, r float32) (float32, float32) {
	tapL, tapR := d.left[d.pos], d.right[d.pos]
	keep := d.feedback * (1 - d.cross)
	swap := d.feedback * d.cross
	d.left[d.pos] = l + tapL*keep + tapR*swap
	d.right[d.pos] = r + tapR*keep + tapL*swap
	d.pos = (d.pos + 1) % len(d.left)
	dry := 1 - d.wet
	return l*dry + tapL*d.wet, r*dry + tapR*d.wet
}

func (d *Delay) Reset() {
	clear(d.left)
	clear(d.right)
	d.pos = 0
}

// Length is the delay line duration.
func (d *Delay) Length(sampleRate int) time.Duration {
	return time.Duration(float64(len(d.left)) / float64(sampleRate) * float64(time.Second))
}
