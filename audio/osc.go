package audio

import "github.com/chewxy/math32"

// Waveform selects the shaping function an Osc applies to its phase.
type Waveform int

const (
	Triangle Waveform = iota
	Sine
	Square
)

func (w Waveform) String() string {
	switch w {
	case Triangle:
		return "triangle"
	case Sine:
		return "sine"
	case Square:
		return "square"
	default:
		return "unknown"
	}
}

const (
	twoPi             = 2 * math32.Pi
	defaultSampleRate = 44100
	defaultPulseWidth = 0.5
)

// Shape returns the output of waveform w at phase p. The triangle is the quiet,
// offset variant that sits in [-0.5, 0].
func Shape(w Waveform, p, pulseWidth float32) float32 {
	switch w {
	case Sine:
		return math32.Sin(p * twoPi)
	case Square:
		if p > pulseWidth {
			return -0.5
		}
		return 0.5
	default:
		return math32.Abs(p-0.5) - 0.5
	}
}

// Osc is a phase accumulator driving one of the waveform shapes. SetSampleRate
// has to be called before SetFrequency, the phase delta is computed from the
// sample rate at the time the frequency is set.
type Osc struct {
	Wave       Waveform
	phase      float32
	phaseDelta float32
	sampleRate float32
	freq       float32
	pulseWidth float32
}

func NewOsc(w Waveform) *Osc {
	return &Osc{
		Wave:       w,
		sampleRate: defaultSampleRate,
		pulseWidth: defaultPulseWidth,
	}
}

func (o *Osc) SetSampleRate(sr float32) { o.sampleRate = sr }

func (o *Osc) SetFrequency(freq float32) {
	o.freq = freq
	o.phaseDelta = freq / o.sampleRate
}

func (o *Osc) Frequency() float32 { return o.freq }

// SetPulseWidth only affects the square wave.
func (o *Osc) SetPulseWidth(pw float32) { o.pulseWidth = clamp32(pw, 0, 1) }

func (o *Osc) Phase() float32 { return o.phase }

// Reset moves the phase back to the start of the cycle.
func (o *Osc) Reset() { o.phase = 0 }

// Process advances the phase by one sample and returns the shaped output.
func (o *Osc) Process() float32 {
	o.phase += o.phaseDelta
	if o.phase >= 1 {
		o.phase -= 1
	} else if o.phase < 0 {
		o.phase += 1
	}
	// a delta outside (-1, 1) or float32 rounding near the edges can leave the
	// phase out of range after the single step above
	if o.phase < 0 || o.phase >= 1 {
		o.phase -= math32.Floor(o.phase)
		if o.phase >= 1 {
			o.phase = 0
		}
	}
	return Shape(o.Wave, o.phase, o.pulseWidth)
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func midiToFreq(note int) float32 {
	return 440 * math32.Pow(2, float32(note-69)/12)
}
