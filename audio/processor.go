package audio

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
)

const (
	numChannels    = 2
	maxDelayMillis = 2000
)

// Processor renders blocks of audio: synth voices, amplitude modulated and
// layered with noise, then bit depth and sample rate reduction and an
// optional feedback delay. RenderBlock is meant for the audio thread and does
// not allocate once Prepare has sized the buffers; Prepare and Reset must not
// run concurrently with it.
type Processor struct {
	knobs *knobs
	ctl   Controls
	bank  *VoiceBank
	rng   *rand.Rand

	sampleRate float32
	noise      [numChannels][]float32
	work       [numChannels][]float32
	workView   [][]float32

	delays    [numChannels]DelayLine
	delayTime float32
}

// NewProcessor registers the processor's parameters on props and creates a
// bank of numVoices voices. seed makes the noise sequence reproducible.
func NewProcessor(props *Props, numVoices int, seed uint64) *Processor {
	p := &Processor{
		knobs:      registerKnobs(props),
		bank:       NewVoiceBank(numVoices, AnySound),
		rng:        newNoiseSource(seed),
		sampleRate: defaultSampleRate,
		workView:   make([][]float32, numChannels),
		delayTime:  -1,
	}
	p.Prepare(defaultSampleRate, bufferSize)
	return p
}

func newNoiseSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (p *Processor) Bank() *VoiceBank { return p.bank }

func (p *Processor) SampleRate() float32 { return p.sampleRate }

// Prepare propagates the sample rate to every voice and sizes the working
// buffers for blocks of up to maxBlockSize samples. The delay lines are
// resized, which discards their contents.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize int) {
	if sampleRate <= 0 {
		sampleRate = defaultSampleRate
	}
	p.sampleRate = float32(sampleRate)
	p.bank.Prepare(p.sampleRate, maxBlockSize)
	p.resize(maxBlockSize)

	size := int(math32.Ceil(p.sampleRate*maxDelayMillis/1000)) + 1
	for ch := range p.delays {
		p.delays[ch].SetSizeInSamples(size)
	}
	p.delayTime = -1
}

// resize makes sure the working buffers hold n samples. They are only
// reallocated when n grows past their capacity.
func (p *Processor) resize(n int) {
	for ch := 0; ch < numChannels; ch++ {
		if cap(p.work[ch]) < n {
			p.work[ch] = make([]float32, n)
			p.noise[ch] = make([]float32, n)
		}
		p.work[ch] = p.work[ch][:n]
		p.noise[ch] = p.noise[ch][:n]
		p.workView[ch] = p.work[ch]
	}
}

// Reset silences all voices and clears the delay lines.
func (p *Processor) Reset() {
	p.bank.Stop()
	for ch := range p.delays {
		p.delays[ch].Clear()
	}
}

// HasTail reports whether output continues after the input stops beyond the
// voice envelopes. It never does.
func (p *Processor) HasTail() bool { return false }

func (p *Processor) TailLengthSeconds() float64 { return 0 }

// RenderBlock renders numSamples into out[ch][start:start+numSamples],
// applying events (sorted by offset, relative to start) at their offsets. The
// first channel is written to a mono destination; channels past the second
// are zeroed.
func (p *Processor) RenderBlock(out [][]float32, start, numSamples int, events []NoteEvent) {
	if numSamples <= 0 || len(out) == 0 {
		return
	}
	p.resize(numSamples)
	for ch := 0; ch < numChannels; ch++ {
		clear(p.work[ch])
		clear(p.noise[ch])
	}

	p.knobs.load(&p.ctl)
	ctl := &p.ctl

	Noise(ctl.NoiseKind, p.noise[0], p.rng)
	for i := range p.noise[0] {
		p.noise[0][i] *= ctl.NoiseGain
	}
	copy(p.noise[1], p.noise[0])

	p.bank.SetControls(ctl)
	p.bank.Render(p.workView, 0, numSamples, events)

	for ch := 0; ch < numChannels; ch++ {
		work, noise := p.work[ch], p.noise[ch]
		for i := range work {
			noise[i] *= work[i]
			work[i] += noise[i]
		}
		Quantize(work, ctl.BitDepth)
		Decimate(work, ctl.RateDivide)
	}

	if ctl.DelayMix > 0 {
		p.applyDelay(ctl)
	}

	for ch := range out {
		dst := out[ch][start : start+numSamples]
		if ch >= numChannels {
			clear(dst)
			continue
		}
		for i, s := range p.work[ch] {
			dst[i] = s * ctl.Level
		}
	}
}

func (p *Processor) applyDelay(ctl *Controls) {
	if ctl.DelayTime != p.delayTime {
		samples := math32.Max(1, ctl.DelayTime*p.sampleRate/1000)
		for ch := range p.delays {
			p.delays[ch].SetDelayTimeInSamples(samples)
		}
		p.delayTime = ctl.DelayTime
	}
	for ch := 0; ch < numChannels; ch++ {
		d := &p.delays[ch]
		d.SetFeedback(ctl.DelayFeedback)
		work := p.work[ch]
		for i, s := range work {
			work[i] = s*(1-ctl.DelayMix) + d.Process(s)*ctl.DelayMix
		}
	}
}
