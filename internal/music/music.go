// Package music holds the value types passed between the mapper, the
// engines and the scheduler.
package music

import (
	"sort"
	"time"

	"github.com/cbegin/textscape-go/internal/analysis"
	"github.com/cbegin/textscape-go/internal/scales"
	"github.com/cbegin/textscape-go/internal/tonal"
)

// VoiceType is a musical role. Every event and voice state carries one.
type VoiceType int

const (
	Drone VoiceType = iota
	Pad
	Melody
	Texture
	Pulse
	Atmosphere
)

// VoiceTypes lists every voice in generation order.
var VoiceTypes = []VoiceType{Drone, Pad, Melody, Texture, Pulse, Atmosphere}

var voiceNames = [...]string{"drone", "pad", "melody", "texture", "pulse", "atmosphere"}

func (v VoiceType) String() string {
	if v < 0 || int(v) >= len(voiceNames) {
		return "unknown"
	}
	return voiceNames[v]
}

// ParseVoiceType is the inverse of String.
func ParseVoiceType(s string) (VoiceType, bool) {
	for i, n := range voiceNames {
		if n == s {
			return VoiceType(i), true
		}
	}
	return 0, false
}

// MarshalText lets voice types key YAML and JSON maps by name.
func (v VoiceType) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// Effects are the global effect settings for a piece.
type Effects struct {
	ReverbSize string        `yaml:"reverb_size"`
	ReverbMix  float64       `yaml:"reverb_mix"`
	DelayTime  time.Duration `yaml:"delay_time"`
	DelayMix   float64       `yaml:"delay_mix"`
	LowPass    float64       `yaml:"low_pass"`
	HighPass   float64       `yaml:"high_pass"`
	Attack     time.Duration `yaml:"attack"` // melody onset; zero keeps the patch's
}

// Parameters is everything the engines need to generate a piece.
type Parameters struct {
	Mood         float64               `yaml:"mood"`
	Tension      float64               `yaml:"tension"`
	Density      float64               `yaml:"density"`
	Tempo        float64               `yaml:"tempo"`
	Scale        scales.Scale          `yaml:"-"`
	Root         int                   `yaml:"root"`
	ScaleNotes   []int                 `yaml:"-"`
	VoiceWeights map[VoiceType]float64 `yaml:"voice_weights"`
	ActiveVoices []VoiceType           `yaml:"active_voices"`
	Effects      Effects               `yaml:"effects"`
	Culture      scales.Culture        `yaml:"culture"`

	Tonal  tonal.Center     `yaml:"-"`
	Report *analysis.Report `yaml:"-"`
}

// Active reports whether v is among the active voices.
func (p *Parameters) Active(v VoiceType) bool {
	for _, a := range p.ActiveVoices {
		if a == v {
			return true
		}
	}
	return false
}

// Weight returns the voice weight, 0 when unset.
func (p *Parameters) Weight(v VoiceType) float64 {
	return p.VoiceWeights[v]
}

// ScheduledEvent is one note of a bounded composition.
type ScheduledEvent struct {
	Time      time.Duration
	Duration  time.Duration
	Note      int
	Frequency float64
	Velocity  float64
	Voice     VoiceType
}

// Section is one part of the arc. Density and Dynamic move linearly from
// their start values to the End values across the section.
type Section struct {
	Name       string
	Start      time.Duration
	Duration   time.Duration
	Density    float64 // multiplier on generation gates
	DensityEnd float64
	Dynamic    float64 // multiplier on velocity
	DynamicEnd float64
}

// End is the first instant after the section.
func (s Section) End() time.Duration { return s.Start + s.Duration }

func (s Section) progress(t time.Duration) float64 {
	if s.Duration <= 0 {
		return 0
	}
	return min(max(float64(t-s.Start)/float64(s.Duration), 0), 1)
}

// DensityAt interpolates the density multiplier at t.
func (s Section) DensityAt(t time.Duration) float64 {
	return s.Density + (s.DensityEnd-s.Density)*s.progress(t)
}

// DynamicAt interpolates the dynamic level at t.
func (s Section) DynamicAt(t time.Duration) float64 {
	return s.Dynamic + (s.DynamicEnd-s.Dynamic)*s.progress(t)
}

// Arc is the intro, development and outro of a piece.
type Arc struct {
	Shape    analysis.Arc
	Sections []Section
}

// SectionAt returns the section containing t, or the last section past the
// end.
func (a Arc) SectionAt(t time.Duration) Section {
	for _, s := range a.Sections {
		if t < s.End() {
			return s
		}
	}
	if len(a.Sections) == 0 {
		return Section{Density: 1, DensityEnd: 1, Dynamic: 1, DynamicEnd: 1}
	}
	return a.Sections[len(a.Sections)-1]
}

func (a Arc) DensityAt(t time.Duration) float64 { return a.SectionAt(t).DensityAt(t) }
func (a Arc) DynamicAt(t time.Duration) float64 { return a.SectionAt(t).DynamicAt(t) }

// Composition is a finished bounded piece.
type Composition struct {
	Duration time.Duration
	Arc      Arc
	Timeline map[VoiceType][]ScheduledEvent
	Params   *Parameters
	Text     string
}

// Events flattens the timeline sorted by time. Events at the same instant
// keep voice order.
func (c *Composition) Events() []ScheduledEvent {
	var out []ScheduledEvent
	for _, v := range VoiceTypes {
		out = append(out, c.Timeline[v]...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// EventCount is the number of events across all voices.
func (c *Composition) EventCount() int {
	n := 0
	for _, evs := range c.Timeline {
		n += len(evs)
	}
	return n
}
