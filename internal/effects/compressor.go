package effects

import "math"

// Compressor is a per-channel peak compressor.
type Compressor struct {
	threshold float32
	ratio     float32
	attack    float32 // smoothing coefficients
	release   float32
	makeup    float32
	envL      float32
	envR      float32
}

// NewCompressor takes the threshold and makeup in dB and the attack and
// release in ms.
func NewCompressor(sampleRate int, thresholdDB, ratio, attackMs, releaseMs, makeupDB float32) *Compressor {
	return &Compressor{
		threshold: dbToGain(thresholdDB),
		ratio:     max(ratio, 1),
		attack:    coefficient(sampleRate, attackMs),
		release:   coefficient(sampleRate, releaseMs),
		makeup:    dbToGain(makeupDB),
	}
}

// NewLimiter is a fast, high-ratio compressor for the end of the master
// chain.
func NewLimiter(sampleRate int) *Compressor {
	return NewCompressor(sampleRate, -3, 20, 1, 120, 0)
}

func dbToGain(db float32) float32 {
	return float32(math.Pow(10, float64(db)/20))
}

func coefficient(sampleRate int, ms float32) float32 {
	return float32(1 - math.Exp(-1/(float64(ms)*float64(sampleRate)/1000)))
}

func (c *Compressor) Process(l, r float32) (float32, float32) {
	c.envL = c.follow(c.envL, l)
	c.envR = c.follow(c.envR, r)
	return l * c.gain(c.envL) * c.makeup, r * c.gain(c.envR) * c.makeup
}

func (c *Compressor) follow(env, x float32) float32 {
	level := float32(math.Abs(float64(x)))
	if level > env {
		return env + c.attack*(level-env)
	}
	return env + c.release*(level-env)
}

func (c *Compressor) gain(env float32) float32 {
	if env <= c.threshold || c.threshold <= 0 {
		return 1
	}
	return float32(math.Pow(float64(env/c.threshold), float64(1/c.ratio-1)))
}

func (c *Compressor) Reset() {
	c.envL, c.envR = 0, 0
}
