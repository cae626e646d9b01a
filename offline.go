package textscape

import (
	"bytes"
	"encoding/binary"
	"io"
	"time"

	"github.com/cbegin/textscape-go/internal/clock"
	"github.com/cbegin/textscape-go/internal/continuous"
	apperr "github.com/cbegin/textscape-go/internal/errors"
	"github.com/cbegin/textscape-go/internal/scheduler"
	"github.com/cbegin/textscape-go/internal/sound"
)

// RenderTail is rendered after a piece ends so releases can decay.
const RenderTail = time.Second

// renderBlock is how much audio is rendered between timer advances.
const renderBlock = 10 * time.Millisecond

// offline renders a synth while stepping a manual clock in lockstep.
type offline struct {
	synth *sound.Synth
	clock *clock.ManualClock
	loop  *clock.Loop
	rate  int
}

func newOffline(sampleRate int) *offline {
	c := clock.NewManualClock(time.Time{})
	return &offline{synth: sound.NewSynth(sampleRate), clock: c, loop: clock.NewLoop(c), rate: sampleRate}
}

func (o *offline) render(d time.Duration) []float32 {
	frames := int(d.Seconds() * float64(o.rate))
	block := max(int(renderBlock.Seconds()*float64(o.rate)), 1)
	out := make([]float32, frames*2)
	for done := 0; done < frames; done += block {
		n := min(block, frames-done)
		o.loop.Advance(time.Duration(n) * time.Second / time.Duration(o.rate))
		o.synth.Process(out[done*2 : (done+n)*2])
	}
	return out
}

// RenderComposition plays c through a fresh synth faster than real time and
// returns interleaved stereo samples.
func RenderComposition(c *Composition, sampleRate int) ([]float32, error) {
	if c == nil {
		return nil, apperr.ErrNoComposition
	}
	o := newOffline(sampleRate)
	s := scheduler.New(o.loop, o.synth)
	s.LoadComposition(c)
	if err := s.Play(); err != nil {
		return nil, err
	}
	return o.render(c.Duration + RenderTail), nil
}

// RenderDrift runs the continuous engine for d and returns the samples.
func RenderDrift(params *Parameters, sampleRate int, d time.Duration, opts ...Option) ([]float32, error) {
	o := newOffline(sampleRate)
	e := continuous.New(o.loop, o.synth, buildOptions(opts).rand())
	if err := e.Start(params); err != nil {
		return nil, err
	}
	out := o.render(d)
	e.Stop()
	return append(out, o.render(RenderTail)...), nil
}

type wavHeader struct {
	RIFF       [4]byte
	ChunkSize  uint32
	WAVE       [4]byte
	Fmt        [4]byte
	FmtSize    uint32
	Format     uint16
	Channels   uint16
	SampleRate uint32
	ByteRate   uint32
	BlockAlign uint16
	Bits       uint16
	Data       [4]byte
	DataSize   uint32
}

const wavFormatFloat = 3

// WriteWAV writes samples as a 32-bit float WAV stream.
func WriteWAV(w io.Writer, samples []float32, sampleRate, channels int) error {
	dataSize := uint32(len(samples) * 4)
	h := wavHeader{
		RIFF:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:  36 + dataSize,
		WAVE:       [4]byte{'W', 'A', 'V', 'E'},
		Fmt:        [4]byte{'f', 'm', 't', ' '},
		FmtSize:    16,
		Format:     wavFormatFloat,
		Channels:   uint16(channels),
		SampleRate: uint32(sampleRate),
		ByteRate:   uint32(sampleRate * channels * 4),
		BlockAlign: uint16(channels * 4),
		Bits:       32,
		Data:       [4]byte{'d', 'a', 't', 'a'},
		DataSize:   dataSize,
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, samples)
}

func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	var buf bytes.Buffer
	buf.Grow(44 + len(samples)*4)
	_ = WriteWAV(&buf, samples, sampleRate, channels)
	return buf.Bytes()
}
