package audio

import "github.com/chewxy/math32"

const (
	PropDetune        = "detune"
	PropNoise         = "noise"
	PropRate          = "rate"
	PropBits          = "bits"
	PropDetuneOn      = "detuneOn"
	PropDetuneMix     = "detuneMix"
	PropLFOSpeed      = "lfoSpeed"
	PropWave          = "wave"
	PropPulseWidth    = "pulseWidth"
	PropDelayTime     = "delay.time"
	PropDelayFeedback = "delay.feedback"
	PropDelayMix      = "delay.mix"
	PropLevel         = "level"
	PropNoiseKind     = "noiseKind"
)

// Controls is a snapshot of the knobs, taken once per block by the audio
// thread.
type Controls struct {
	Detune     float32 // Hz the detune oscillator sweeps below the note
	DetuneOn   bool
	DetuneMix  float32
	LFORate    float32
	Wave       Waveform
	PulseWidth float32

	NoiseKind  NoiseKind
	NoiseGain  float32 // linear, already mapped from the noise knob
	BitDepth   float32
	RateDivide int

	DelayTime     float32 // milliseconds
	DelayFeedback float32
	DelayMix      float32

	Level float32 // linear output gain
}

// knobs holds the registered params the processor reads every block.
type knobs struct {
	detune, noise, rate, bits, detuneOn, detuneMix, lfoSpeed *Param
	wave, pulseWidth                                         *Param
	delayTime, delayFeedback, delayMix                       *Param
	level, noiseKind                                         *Param
}

func registerKnobs(props *Props) *knobs {
	return &knobs{
		detune:        props.MustRegister(PropDetune, "Hz", 0, 20, 0, 2),
		noise:         props.MustRegister(PropNoise, "", 0, 100, 1, 2),
		rate:          props.MustRegister(PropRate, "x", 0, 50, 1, 0),
		bits:          props.MustRegister(PropBits, "bits", 1, 32, 1, 24),
		detuneOn:      props.MustRegister(PropDetuneOn, "", 0, 1, 0, 0.1),
		detuneMix:     props.MustRegister(PropDetuneMix, "", 0, 1, 0, 0.7),
		lfoSpeed:      props.MustRegister(PropLFOSpeed, "Hz", 0, 400, 0, 10),
		wave:          props.MustRegister(PropWave, "", 0, 2, 1, float64(Triangle)),
		pulseWidth:    props.MustRegister(PropPulseWidth, "", 0, 1, 0, defaultPulseWidth),
		delayTime:     props.MustRegister(PropDelayTime, "ms", 0, maxDelayMillis, 0, 250),
		delayFeedback: props.MustRegister(PropDelayFeedback, "", 0, 1, 0, 0.3),
		delayMix:      props.MustRegister(PropDelayMix, "", 0, 1, 0, 0),
		level:         props.MustRegister(PropLevel, "dB", -40, 10, 0, 0),
		noiseKind:     props.MustRegister(PropNoiseKind, "", 0, 1, 1, float64(WhiteNoise)),
	}
}

func (k *knobs) load(c *Controls) {
	c.Detune = float32(k.detune.Load())
	c.DetuneOn = k.detuneOn.Load() > 0.5
	c.DetuneMix = float32(k.detuneMix.Load())
	c.LFORate = float32(k.lfoSpeed.Load())
	c.Wave = Waveform(k.wave.Load())
	c.PulseWidth = float32(k.pulseWidth.Load())
	c.NoiseKind = NoiseKind(k.noiseKind.Load())
	c.NoiseGain = NoiseGain(float32(k.noise.Load()))
	c.BitDepth = float32(k.bits.Load())
	c.RateDivide = int(k.rate.Load())
	c.DelayTime = float32(k.delayTime.Load())
	c.DelayFeedback = float32(k.delayFeedback.Load())
	c.DelayMix = float32(k.delayMix.Load())
	c.Level = DecibelsToGain(float32(k.level.Load()))
}

// minusInfinityDb is the level at and below which a gain is treated as silence.
const minusInfinityDb = -100

func DecibelsToGain(db float32) float32 {
	if db <= minusInfinityDb {
		return 0
	}
	return math32.Pow(10, db*0.05)
}

// NoiseGain maps the 0-100 noise knob linearly onto -120..0 dB and returns the
// linear gain, clamped to [0, 1].
func NoiseGain(amount float32) float32 {
	db := clamp32(-120+120*(amount/100), -120, 0)
	return clamp32(DecibelsToGain(db), 0, 1)
}
