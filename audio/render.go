package audio

import (
	"fmt"
	"io"
	"time"

	wav "github.com/youpy/go-wav"
)

const bitsPerSample = 16

// RenderWAV runs proc over events block by block, the way an audio callback
// would, and writes 16 bit stereo PCM to w. Rendering continues for tail after
// the last event. It returns the number of frames written.
func RenderWAV(w io.Writer, proc *Processor, events []TimedEvent, blockSize int, tail time.Duration) (int64, error) {
	if blockSize <= 0 {
		blockSize = bufferSize
	}
	rate := float64(proc.SampleRate())
	var last int64
	if len(events) > 0 {
		last = events[len(events)-1].Frame
	}
	total := last + int64(tail.Seconds()*rate)
	if total <= 0 {
		return 0, nil
	}

	proc.Prepare(rate, blockSize)
	out := [][]float32{make([]float32, blockSize), make([]float32, blockSize)}
	block := make([]NoteEvent, 0, maxEvents)
	samples := make([]wav.Sample, blockSize)
	writer := wav.NewWriter(w, uint32(total), numChannels, uint32(rate), bitsPerSample)

	next := 0
	for pos := int64(0); pos < total; pos += int64(blockSize) {
		n := blockSize
		if rest := total - pos; rest < int64(n) {
			n = int(rest)
		}
		block = block[:0]
		for next < len(events) && events[next].Frame < pos+int64(n) {
			ev := events[next].Event
			ev.Offset = int(events[next].Frame - pos)
			block = append(block, ev)
			next++
		}
		proc.RenderBlock(out, 0, n, block)

		for i := 0; i < n; i++ {
			samples[i].Values[0] = toPCM(out[0][i])
			samples[i].Values[1] = toPCM(out[1][i])
		}
		if err := writer.WriteSamples(samples[:n]); err != nil {
			return pos, fmt.Errorf("render: write samples: %w", err)
		}
	}
	return total, nil
}

func toPCM(v float32) int {
	const scale = 1<<(bitsPerSample-1) - 1
	return int(clamp32(v, -1, 1) * scale)
}
