package audio

import (
	"fmt"
	"math"

	"github.com/ktye/fft"
)

// Analysis summarizes a rendered signal.
type Analysis struct {
	PeakHz float64 // centre frequency of the loudest bin
	RMS    float64
	Peak   float64 // largest absolute sample value
}

// Analyze windows samples with a Hann window and finds the strongest
// frequency. len(samples) has to be a power of 2.
func Analyze(samples []float32, sampleRate float64) (Analysis, error) {
	var a Analysis
	n := len(samples)
	if n < 2 || n&(n-1) != 0 {
		return a, fmt.Errorf("analyze: %d samples is not a power of 2", n)
	}
	f, err := fft.New(n)
	if err != nil {
		return a, fmt.Errorf("analyze: %w", err)
	}
	buf := make([]complex128, n)
	var sum float64
	for i, s := range samples {
		v := float64(s)
		sum += v * v
		a.Peak = math.Max(a.Peak, math.Abs(v))
		env := (1 - math.Cos(2*math.Pi*float64(i)/float64(n))) / 2
		buf[i] = complex(v*env, 0)
	}
	a.RMS = math.Sqrt(sum / float64(n))

	buf = f.Transform(buf)
	var best float64
	var bin int
	// skip DC
	for i := 1; i <= n/2; i++ {
		re, im := real(buf[i]), imag(buf[i])
		if mag := re*re + im*im; mag > best {
			best, bin = mag, i
		}
	}
	a.PeakHz = float64(bin) * sampleRate / float64(n)
	return a, nil
}

// RenderNote plays a held pitch on a scratch processor with a copy of the
// values in props and returns numSamples of the left channel. It is safe to
// call while props drive a running synth.
func RenderNote(props *Props, sampleRate float64, pitch, numSamples int, seed uint64) []float32 {
	scratch := NewProps()
	proc := NewProcessor(scratch, 1, seed)
	for _, key := range scratch.Keys() {
		if p := props.Param(key); p != nil {
			scratch.Param(key).Store(p.Load())
		}
	}
	block := bufferSize
	proc.Prepare(sampleRate, block)
	out := [][]float32{make([]float32, block), make([]float32, block)}
	samples := make([]float32, 0, numSamples)
	events := []NoteEvent{{Kind: NoteOn, Pitch: pitch, Velocity: defaultVelocity}}
	for len(samples) < numSamples {
		n := min(block, numSamples-len(samples))
		proc.RenderBlock(out, 0, n, events)
		samples = append(samples, out[0][:n]...)
		events = nil
	}
	return samples
}
