// Package compose generates bounded pieces: a fixed timeline of notes with
// an intro, a development shaped by the text's arc, and an outro.
package compose

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/cbegin/textscape-go/internal/analysis"
	apperr "github.com/cbegin/textscape-go/internal/errors"
	"github.com/cbegin/textscape-go/internal/logger"
	"github.com/cbegin/textscape-go/internal/music"
	"github.com/cbegin/textscape-go/internal/rules"
	"github.com/cbegin/textscape-go/internal/scales"
	"github.com/cbegin/textscape-go/internal/tonal"
)

const (
	MinDuration = 20 * time.Second
	MaxDuration = 300 * time.Second

	readingPerWord = 300 * time.Millisecond
	edgePadding    = 8 * time.Second
	maxEdge        = 4 * time.Second
	edgeShare      = 0.15

	melodyLow  = 60 // C4
	melodyHigh = 84

	suspensionHold = 4 * time.Second
)

// Duration is the length of a piece for a word count at a tempo.
func Duration(words int, tempo float64) time.Duration {
	if tempo <= 0 {
		tempo = rules.MinTempo
	}
	d := time.Duration(float64(time.Duration(words)*readingPerWord)/tempo) + edgePadding
	return min(max(d, MinDuration), MaxDuration)
}

// BuildArc lays out intro, development and outro over d.
func BuildArc(d time.Duration, shape analysis.Arc) music.Arc {
	edge := min(maxEdge, time.Duration(float64(d)*edgeShare))
	dev := music.Section{Name: "development", Start: edge, Duration: d - 2*edge}
	switch shape {
	case analysis.ArcRising:
		dev.Density, dev.DensityEnd = 0.5, 1.0
		dev.Dynamic, dev.DynamicEnd = 0.6, 0.9
	case analysis.ArcFalling:
		dev.Density, dev.DensityEnd = 1.0, 0.5
		dev.Dynamic, dev.DynamicEnd = 0.9, 0.6
	default:
		dev.Density, dev.DensityEnd = 0.8, 0.8
		dev.Dynamic, dev.DynamicEnd = 0.75, 0.75
	}
	return music.Arc{
		Shape: shape,
		Sections: []music.Section{
			{Name: "intro", Start: 0, Duration: edge, Density: 0.3, DensityEnd: 0.3, Dynamic: 0.4, DynamicEnd: 0.4},
			dev,
			{Name: "outro", Start: d - edge, Duration: edge, Density: 0.2, DensityEnd: 0.2, Dynamic: 0.3, DynamicEnd: 0.3},
		},
	}
}

// Engine generates compositions. All random choices come from Rand.
type Engine struct {
	Rand *rand.Rand
}

func New(rng *rand.Rand) *Engine {
	return &Engine{Rand: rng}
}

// articulation is how the text's sound and punctuation shape note lengths,
// dynamics and rests.
type articulation struct {
	sustain    float64 // 0.2 dry .. 1 ringing
	legato     bool
	dynamics   float64 // share of the arc's dynamic swing, 0.5..1
	breath     float64 // comma share of punctuation
	suspension float64 // ellipsis share of punctuation
}

func articulationOf(ph analysis.Phonetic, st analysis.Structural) articulation {
	return articulation{
		sustain:    ph.SustainLevel(),
		legato:     ph.Legato(),
		dynamics:   st.DynamicRange(),
		breath:     st.BreathFrequency(),
		suspension: st.Suspensions(),
	}
}

// hold lets legato notes overlap the next onset and detaches the rest.
func (a articulation) hold(d, gap time.Duration) time.Duration {
	if a.legato {
		return max(d, gap+gap/4)
	}
	return min(d, gap*3/4)
}

// piece is what every voice generator reads.
type piece struct {
	rng      *rand.Rand
	params   *music.Parameters
	arc      music.Arc
	art      articulation
	duration time.Duration
	weight   float64
	tempo    float64
	phrases  []analysis.Phrase
}

func (p *piece) between(lo, hi time.Duration) time.Duration {
	return lo + time.Duration(p.rng.Float64()*float64(hi-lo))
}

func (p *piece) pick(notes []int) int {
	return notes[p.rng.IntN(len(notes))]
}

// event builds one note. Velocity follows the section dynamics at t, swinging
// as far as the text's dynamic range allows.
func (p *piece) event(v music.VoiceType, t, d time.Duration, note int, velocity float64) music.ScheduledEvent {
	if !exempt[v] {
		d = rules.ClampDuration(d)
	}
	dyn := 1 - (1-p.arc.DynamicAt(t))*p.art.dynamics
	return music.ScheduledEvent{
		Time:      t,
		Duration:  d,
		Note:      note,
		Frequency: scales.MIDIToFrequency(note),
		Velocity:  min(max(velocity*dyn, 0), 1),
		Voice:     v,
	}
}

// exempt voices sustain beyond the note duration limit.
var exempt = map[music.VoiceType]bool{
	music.Drone:      true,
	music.Atmosphere: true,
}

type generator func(p *piece) []music.ScheduledEvent

var generators = map[music.VoiceType]generator{
	music.Drone:      droneEvents,
	music.Pad:        padEvents,
	music.Melody:     melodyEvents,
	music.Texture:    textureEvents,
	music.Pulse:      pulseEvents,
	music.Atmosphere: atmosphereEvents,
}

// Generate builds the timeline for every active voice. Text without words
// yields an EmptyInputError.
func (e *Engine) Generate(text string, params *music.Parameters) (*music.Composition, error) {
	words := len(strings.Fields(text))
	if words == 0 {
		return nil, apperr.NewEmptyInputError("compose")
	}
	if params == nil {
		return nil, apperr.Wrap("compose", fmt.Errorf("no musical parameters"))
	}
	rng := e.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	var art articulation
	var shape analysis.Arc
	var phrases []analysis.Phrase
	if r := params.Report; r != nil {
		shape, phrases = r.Structural.Arc, r.Structural.Phrases
		art = articulationOf(r.Phonetic, r.Structural)
	} else {
		s := analysis.AnalyzeStructural(text)
		shape, phrases = s.Arc, s.Phrases
		art = articulationOf(analysis.AnalyzePhonetic(text), s)
	}

	tempo := params.Tempo
	if tempo <= 0 {
		tempo = rules.MinTempo
	}
	d := Duration(words, tempo)
	c := &music.Composition{
		Duration: d,
		Arc:      BuildArc(d, shape),
		Timeline: make(map[music.VoiceType][]music.ScheduledEvent, len(params.ActiveVoices)),
		Params:   params,
		Text:     text,
	}
	for _, v := range params.ActiveVoices {
		gen, ok := generators[v]
		if !ok {
			logger.Warn("no generator for voice", logger.Fields{"voice": v.String()})
			continue
		}
		w := params.Weight(v)
		if w <= 0 {
			w = 0.5
		}
		events := gen(&piece{rng: rng, params: params, arc: c.Arc, art: art, duration: d, weight: w, tempo: tempo, phrases: phrases})
		sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })
		c.Timeline[v] = events
	}

	logger.Debug("composition", logger.Fields{
		"duration": d.String(),
		"arc":      string(shape),
		"voices":   len(c.Timeline),
		"events":   c.EventCount(),
	})
	return c, nil
}

func droneEvents(p *piece) []music.ScheduledEvent {
	root := p.params.Root
	low := scales.InRange(p.params.ScaleNotes, root, root+12)
	if len(low) == 0 {
		return nil
	}
	events := []music.ScheduledEvent{
		p.event(music.Drone, 0, p.duration, low[0], 0.3*p.weight),
	}
	if fifth := nearestTo(low[1:], root+7); fifth > 0 {
		events = append(events, p.event(music.Drone, 2*time.Second, p.duration-2*time.Second, fifth, 0.2*p.weight))
	}
	return events
}

// nearestTo returns the note closest to target, the lower one on a tie, or 0
// for no notes.
func nearestTo(notes []int, target int) int {
	best := 0
	for _, n := range notes {
		if best == 0 || abs(n-target) < abs(best-target) {
			best = n
		}
	}
	return best
}

func padEvents(p *piece) []music.ScheduledEvent {
	prm := p.params
	progression := rules.Progression(prm.ScaleNotes, prm.Root, prm.Mood, prm.Tension, 4)
	if len(progression) == 0 {
		return nil
	}
	size := int(2 + prm.Density*2)
	var events []music.ScheduledEvent
	for t, i := 3*time.Second, 0; t < p.duration-maxEdge; i++ {
		chord := rules.SelectChordNotes(p.rng, prm.ScaleNotes, progression[i%len(progression)], size, prm.Tension)
		for _, n := range chord {
			d := time.Duration(float64(p.between(6*time.Second, 10*time.Second)) * (0.5 + p.art.sustain))
			events = append(events, p.event(music.Pad, t, d, n, (0.4+p.rng.Float64()*0.2)*p.weight))
		}
		t += p.between(4*time.Second, 8*time.Second)
	}
	return events
}

// melodyEvents plays one phrase per sentence. A sentence ending that moves
// the key gets a tail in the temporary key, followed by a return to the
// tonic when the modulation resolves.
func melodyEvents(p *piece) []music.ScheduledEvent {
	mid := scales.InRange(p.params.ScaleNotes, melodyLow, melodyHigh)
	if len(mid) == 0 {
		return nil
	}
	tempo := p.tempo
	step := func() time.Duration {
		return time.Duration(float64(p.between(400*time.Millisecond, time.Second)) / tempo)
	}
	end := p.duration - maxEdge

	var events []music.ScheduledEvent
	t := 5 * time.Second
	prev := rules.NoNote
	for _, ph := range p.phrases {
		if t >= end {
			break
		}
		if p.rng.Float64() > p.weight {
			continue
		}
		dir := rules.AnyDirection
		if ph.Ending == analysis.PunctQuestion {
			dir = rules.Up
		}
		count := 3 + p.rng.IntN(4)
		for i := 0; i < count && t < end; i++ {
			prev = rules.NextMelodicNote(p.rng, mid, prev, dir)
			d := p.between(800*time.Millisecond, 2*time.Second)
			velocity := 0.5 + p.rng.Float64()*0.2
			gap := step()
			events = append(events, p.event(music.Melody, t, p.art.hold(d, gap), prev, velocity))
			t += gap
		}
		if region, ok := p.params.Tonal.Modulated(ph.Ending); ok && t < end {
			var tail []music.ScheduledEvent
			tail, prev = modulationTail(p, region, t, prev)
			events = append(events, tail...)
			t += region.Modulation.Duration
		}
		// Commas lengthen every breath; an ellipsis hangs before the next phrase.
		rest := float64(p.between(time.Second, 3*time.Second)) / tempo * (1 + p.art.breath)
		if ph.Ending == analysis.PunctEllipsis {
			rest += p.art.suspension * float64(suspensionHold)
		}
		t += time.Duration(rest)
	}
	return events
}

func modulationTail(p *piece, region tonal.Region, t time.Duration, prev int) ([]music.ScheduledEvent, int) {
	notes := scales.InRange(region.Notes, melodyLow, melodyHigh)
	if region.Modulation.AvoidTonic {
		var kept []int
		for _, n := range notes {
			if (n-region.Root)%12 != 0 {
				kept = append(kept, n)
			}
		}
		notes = kept
	}
	if len(notes) == 0 {
		return nil, prev
	}
	var events []music.ScheduledEvent
	half := region.Modulation.Duration / 2
	for i := 0; i < 2; i++ {
		prev = rules.NextMelodicNote(p.rng, notes, prev, rules.AnyDirection)
		events = append(events, p.event(music.Melody, t+time.Duration(i)*half, half, prev, 0.55))
	}
	if region.Modulation.Resolves {
		prev = tonicNear(p.params.Tonal, prev)
		events = append(events, p.event(music.Melody, t+region.Modulation.Duration, 1500*time.Millisecond, prev, 0.5))
	}
	return events, prev
}

// tonicNear returns the global tonic closest to n.
func tonicNear(c tonal.Center, n int) int {
	best := c.GlobalKey
	for k := c.GlobalKey - 36; k <= c.GlobalKey+36; k += 12 {
		if abs(k-n) < abs(best-n) {
			best = k
		}
	}
	return best
}

func textureEvents(p *piece) []music.ScheduledEvent {
	high := scales.InRange(p.params.ScaleNotes, 72, 128)
	if len(high) == 0 {
		return nil
	}
	var events []music.ScheduledEvent
	for t := 6 * time.Second; t < p.duration-maxEdge; t += p.between(500*time.Millisecond, 2*time.Second) {
		if p.rng.Float64() < p.params.Density*p.weight*p.arc.DensityAt(t) {
			events = append(events, p.event(music.Texture, t, p.between(time.Second, 3*time.Second), p.pick(high), 0.2+p.rng.Float64()*0.3))
		}
	}
	return events
}

func pulseEvents(p *piece) []music.ScheduledEvent {
	notes := scales.InRange(p.params.ScaleNotes, 48, 72)
	if len(notes) == 0 || p.weight < 0.3 {
		return nil
	}
	interval := time.Duration(float64(2*time.Second) / p.tempo)
	var events []music.ScheduledEvent
	for t := 8 * time.Second; t < p.duration-maxEdge; t += interval {
		if p.rng.Float64() < p.weight*0.7 {
			events = append(events, p.event(music.Pulse, t, 400*time.Millisecond, p.pick(notes), 0.3+p.rng.Float64()*0.2))
		}
	}
	return events
}

func atmosphereEvents(p *piece) []music.ScheduledEvent {
	notes := p.params.ScaleNotes
	if len(notes) == 0 {
		return nil
	}
	root := notes[len(notes)/3]
	var events []music.ScheduledEvent
	for t := 4 * time.Second; t < p.duration-2*maxEdge; t += p.between(8*time.Second, 14*time.Second) {
		chord := rules.SelectChordNotes(p.rng, notes, root, 3+p.rng.IntN(2), 0.2)
		for _, n := range chord {
			events = append(events, p.event(music.Atmosphere, t, p.between(10*time.Second, 18*time.Second), n, (0.25+p.rng.Float64()*0.15)*p.weight))
		}
	}
	return events
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
