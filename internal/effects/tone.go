package effects

import "math"

// Tone is a one-pole low-pass followed by a one-pole high-pass.
type Tone struct {
	lpAlpha  float32
	hpAlpha  float32
	lpL, lpR float32
	hpL, hpR float32
}

// LowPassHz maps a 0..1 brightness onto 200 Hz .. 20 kHz, exponentially.
func LowPassHz(v float64) float64 {
	return 200 * math.Pow(100, clamp64(v, 0, 1))
}

// HighPassHz maps 0..1 onto 20 Hz .. 800 Hz, exponentially.
func HighPassHz(v float64) float64 {
	return 20 * math.Pow(40, clamp64(v, 0, 1))
}

// NewTone takes normalized cutoffs as carried in the piece's effect settings.
func NewTone(sampleRate int, lowPass, highPass float64) *Tone {
	return &Tone{
		lpAlpha: onePole(sampleRate, LowPassHz(lowPass)),
		hpAlpha: onePole(sampleRate, HighPassHz(highPass)),
	}
}

func onePole(sampleRate int, hz float64) float32 {
	hz = min(hz, float64(sampleRate)*0.45)
	rc := 1 / (2 * math.Pi * hz)
	dt := 1 / float64(sampleRate)
	return float32(dt / (rc + dt))
}

func (t *Tone) Process(l, r float32) (float32, float32) {
	t.lpL += t.lpAlpha * (l - t.lpL)
	t.lpR += t.lpAlpha * (r - t.lpR)
	// The high-pass tracks the low end and subtracts it.
	t.hpL += t.hpAlpha * (t.lpL - t.hpL)
	t.hpR += t.hpAlpha * (t.lpR - t.hpR)
	return t.lpL - t.hpL, t.lpR - t.hpR
}

func (t *Tone) Reset() {
	t.lpL, t.lpR = 0, 0
	t.hpL, t.hpR = 0, 0
}

func clamp64(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
