package audio

type voiceState int

const (
	voiceIdle voiceState = iota
	voiceSounding
	voiceReleasing
)

func (s voiceState) String() string {
	switch s {
	case voiceSounding:
		return "sounding"
	case voiceReleasing:
		return "releasing"
	default:
		return "idle"
	}
}

// silence is the envelope level below which a releasing voice stops.
const silence = 0.001

// Voice plays one note at a time. It owns a primary oscillator, a sine
// oscillator whose pitch is swept below the primary by an LFO, and an ADSR.
type Voice struct {
	osc    *Osc
	detune *Osc
	lfo    *Osc
	env    *envelope

	state    voiceState
	pitch    int
	velocity int
	freq     float32

	// remaining samples before an automatic note off, -1 when held
	remaining int

	detuneOn     bool
	detuneAmount float32
	detuneMix    float32
}

func NewVoice() *Voice {
	return &Voice{
		osc:          NewOsc(Triangle),
		detune:       NewOsc(Sine),
		lfo:          NewOsc(Sine),
		env:          newEnvelope(voiceEnvelope),
		detuneAmount: 2,
		remaining:    -1,
	}
}

// SetSampleRate propagates sr to every oscillator and the envelope. Frequencies
// are recomputed so the phase deltas follow the new rate.
func (v *Voice) SetSampleRate(sr float32) {
	for _, o := range []*Osc{v.osc, v.detune, v.lfo} {
		o.SetSampleRate(sr)
		o.SetFrequency(o.Frequency())
	}
	v.env.setSampleRate(sr)
}

// SetControls pushes the shared per-block parameters into the voice.
func (v *Voice) SetControls(c *Controls) {
	v.detuneAmount = c.Detune
	v.detuneMix = c.DetuneMix
	v.detuneOn = c.DetuneOn
	v.osc.Wave = c.Wave
	v.osc.SetPulseWidth(c.PulseWidth)
	v.lfo.SetFrequency(c.LFORate)
}

// NoteOn starts pitch, retriggering the envelope from zero. A positive
// duration releases the note on its own after that many samples.
func (v *Voice) NoteOn(pitch, velocity, duration int) {
	v.pitch = pitch
	v.velocity = velocity
	v.freq = midiToFreq(pitch)
	v.osc.SetFrequency(v.freq)
	v.remaining = -1
	if duration > 0 {
		v.remaining = duration
	}
	v.env.reset()
	v.env.noteOn()
	v.state = voiceSounding
}

// NoteOff lets the note ring out under the envelope release.
func (v *Voice) NoteOff() {
	if v.state != voiceSounding {
		return
	}
	v.env.noteOff()
	v.state = voiceReleasing
}

// Stop silences the voice immediately.
func (v *Voice) Stop() {
	v.env.reset()
	v.state = voiceIdle
	v.remaining = -1
}

func (v *Voice) Active() bool { return v.state != voiceIdle }

func (v *Voice) Pitch() int { return v.pitch }

func (v *Voice) Level() float32 { return v.env.level() }

// Render adds the voice output to buf, one mono sample per element. It does
// nothing while idle.
func (v *Voice) Render(buf []float32) {
	if v.state == voiceIdle {
		return
	}
	for n := range buf {
		if v.remaining == 0 {
			v.NoteOff()
		}
		if v.remaining > 0 {
			v.remaining--
		}

		v.detune.SetFrequency(v.freq - (v.lfo.Process()+1)*v.detuneAmount)
		primary := v.osc.Process()
		mixed := primary*(1-v.detuneMix) + v.detune.Process()*v.detuneMix
		envVal := v.env.value()

		sample := primary
		if v.detuneOn {
			sample = mixed
		}
		buf[n] += sample * envVal

		if v.state == voiceReleasing && envVal < silence {
			v.Stop()
			return
		}
	}
}
