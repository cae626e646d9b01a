package effects

// Room is a reverb size preset.
type Room struct {
	Size     float32 // scales comb lengths
	Feedback float32 // decay
}

var rooms = map[string]Room{
	"small":     {Size: 0.2, Feedback: 0.5},
	"room":      {Size: 0.35, Feedback: 0.62},
	"hall":      {Size: 0.6, Feedback: 0.76},
	"cathedral": {Size: 0.9, Feedback: 0.86},
}

// RoomFor returns the preset for a size name; unknown names get a hall.
func RoomFor(name string) (Room, bool) {
	r, ok := rooms[name]
	if !ok {
		return rooms["hall"], false
	}
	return r, true
}

// Reverb is a Schroeder reverb: four parallel combs into two allpasses.
type Reverb struct {
	combs   [4]comb
	allpass [2]allpass
	wet     float32
}

type comb struct {
	buf []float32
	pos int
	fb  float32
}

type allpass struct {
	buf []float32
	pos int
	fb  float32
}

// NewRoomReverb builds a reverb from a named room preset.
func NewRoomReverb(sampleRate int, room string, wet float32) *Reverb {
	r, _ := RoomFor(room)
	return NewReverb(sampleRate, r.Size, r.Feedback, wet)
}

// NewReverb takes a size and feedback in 0..1 and a wet mix.
func NewReverb(sampleRate int, size, feedback, wet float32) *Reverb {
	base := max(int(float32(sampleRate)*size*0.05), 10)
	fb := clamp(feedback, 0, 0.95)
	rv := &Reverb{wet: clamp(wet, 0, 1)}
	// Mutually prime-ish ratios keep the combs from reinforcing each other.
	for i, ratio := range [4]int{1000, 1117, 1271, 1437} {
		rv.combs[i] = comb{buf: make([]float32, base*ratio/1000), fb: fb}
	}
	for i, ratio := range [2]int{347, 213} {
		rv.allpass[i] = allpass{buf: make([]float32, max(base*ratio/1000, 1)), fb: 0.5}
	}
	return rv
}

func (rv *Reverb) Process(l, r float32) (float32, float32) {
	in := (l + r) * 0.5
	var out float32
	for i := range rv.combs {
		out += rv.combs[i].step(in)
	}
	out *= 0.25
	for i := range rv.allpass {
		out = rv.allpass[i].step(out)
	}
	dry := 1 - rv.wet
	return l*dry + out*rv.wet, r*dry + out*rv.wet
}

func (rv *Reverb) Reset() {
	for i := range rv.combs {
		clear(rv.combs[i].buf)
		rv.combs[i].pos = 0
	}
	for i := range rv.allpass {
		clear(rv.allpass[i].buf)
		rv.allpass[i].pos = 0
	}
}

func (c *comb) step(in float32) float32 {
	out := c.buf[c.pos]
	c.buf[c.pos] = in + out*c.fb
	c.pos = (c.pos + 1) % len(c.buf)
	return out
}

func (a *allpass) step(in float32) float32 {
	delayed := a.buf[a.pos]
	a.buf[a.pos] = in + delayed*a.fb
	a.pos = (a.pos + 1) % len(a.buf)
	return delayed - in
}
