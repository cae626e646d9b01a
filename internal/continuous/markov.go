package continuous

import "math/rand/v2"

// Transition is one weighted edge of a Chain.
type Transition struct {
	Note   int
	Weight float64
}

// Chain maps a note to the notes that may follow it.
type Chain map[int][]Transition

// Melodic transition weights by scale steps.
const (
	stepWeight   = 0.3
	skipWeight   = 0.1
	leapWeight   = 0.05
	repeatWeight = 0.1
)

// MelodicChain favours neighbouring scale steps over skips and leaps, and
// lets a note repeat. notes must be sorted.
func MelodicChain(notes []int) Chain {
	c := make(Chain, len(notes))
	for i, n := range notes {
		var ts []Transition
		for _, e := range []struct {
			steps  int
			weight float64
		}{{1, stepWeight}, {2, skipWeight}, {4, leapWeight}} {
			if i-e.steps >= 0 {
				ts = append(ts, Transition{notes[i-e.steps], e.weight})
			}
			if i+e.steps < len(notes) {
				ts = append(ts, Transition{notes[i+e.steps], e.weight})
			}
		}
		c[n] = append(ts, Transition{n, repeatWeight})
	}
	return c
}

// TextureChain lets any note follow any other with equal weight.
func TextureChain(notes []int) Chain {
	c := make(Chain, len(notes))
	if len(notes) == 0 {
		return c
	}
	w := 1 / float64(len(notes))
	for _, n := range notes {
		ts := make([]Transition, len(notes))
		for i, m := range notes {
			ts[i] = Transition{m, w}
		}
		c[n] = ts
	}
	return c
}

// Next draws a successor of from. It reports false when from is not in the
// chain.
func (c Chain) Next(rng *rand.Rand, from int) (int, bool) {
	ts := c[from]
	if len(ts) == 0 {
		return 0, false
	}
	var total float64
	for _, t := range ts {
		total += t.Weight
	}
	r := rng.Float64() * total
	for _, t := range ts {
		r -= t.Weight
		if r <= 0 {
			return t.Note, true
		}
	}
	return ts[len(ts)-1].Note, true
}
