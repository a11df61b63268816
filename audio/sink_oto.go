package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

const bytesPerFrame = numChannels * 4

// otoStream adapts a Sink to oto's pull model: oto reads interleaved float32
// little endian frames and every Read renders exactly that many frames.
type otoStream struct {
	sink   *Sink
	ctx    *oto.Context
	player *oto.Player
	planar [numChannels][]float32
	view   [][]float32
	mu     sync.Mutex
}

// OpenOto creates an oto context and a player pulling from s. oto allows one
// context per process.
func OpenOto(s *Sink, sampleRate float64, framesPerBuffer int) (Stream, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(sampleRate),
		ChannelCount: numChannels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("sink: create oto context: %w", err)
	}
	<-ready

	o := &otoStream{
		sink: s,
		ctx:  ctx,
		view: make([][]float32, numChannels),
	}
	o.grow(framesPerBuffer)
	o.player = ctx.NewPlayer(o)
	return o, nil
}

func (o *otoStream) grow(frames int) {
	for ch := range o.planar {
		if cap(o.planar[ch]) < frames {
			o.planar[ch] = make([]float32, frames)
		}
	}
}

// Read renders len(p)/8 frames into p.
func (o *otoStream) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	// oto picks the read size, so the buffers can only be sized here
	o.grow(frames)
	for ch := range o.planar {
		o.view[ch] = o.planar[ch][:frames]
	}
	o.sink.Process(o.view)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < numChannels; ch++ {
			off := i*bytesPerFrame + ch*4
			binary.LittleEndian.PutUint32(p[off:], math.Float32bits(o.view[ch][i]))
		}
	}
	return frames * bytesPerFrame, nil
}

func (o *otoStream) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.player.Play()
	return nil
}

func (o *otoStream) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	return err
}
