package audio

type envelopeState int

const (
	stateIdle envelopeState = iota
	stateAttack
	stateDecay
	stateSustain
	stateRelease
)

// EnvelopeParams holds segment times in seconds and the sustain level.
type EnvelopeParams struct {
	Attack  float32
	Decay   float32
	Sustain float32
	Release float32
}

// voiceEnvelope is the fixed contour every voice uses.
var voiceEnvelope = EnvelopeParams{
	Attack:  0.1,
	Decay:   0.2,
	Sustain: 0.1,
	Release: 0.1,
}

// envelope is a linear ADSR.
type envelope struct {
	params     EnvelopeParams
	sampleRate float32

	attackRate  float32
	decayRate   float32
	releaseRate float32

	val   float32
	state envelopeState
}

func newEnvelope(p EnvelopeParams) *envelope {
	e := &envelope{params: p, sampleRate: defaultSampleRate}
	e.recalculate()
	return e
}

func (e *envelope) setSampleRate(sr float32) {
	e.sampleRate = sr
	e.recalculate()
}

func (e *envelope) recalculate() {
	e.attackRate = rate(1, e.params.Attack, e.sampleRate)
	e.decayRate = rate(1-e.params.Sustain, e.params.Decay, e.sampleRate)
	e.releaseRate = rate(e.params.Sustain, e.params.Release, e.sampleRate)
}

func rate(distance, seconds, sampleRate float32) float32 {
	if seconds <= 0 {
		return -1
	}
	return distance / (seconds * sampleRate)
}

func (e *envelope) reset() {
	e.val = 0
	e.state = stateIdle
}

func (e *envelope) noteOn() {
	switch {
	case e.attackRate > 0:
		e.state = stateAttack
	case e.decayRate > 0:
		e.val = 1
		e.state = stateDecay
	default:
		e.val = e.params.Sustain
		e.state = stateSustain
	}
}

func (e *envelope) noteOff() {
	if e.state == stateIdle {
		return
	}
	if e.params.Release > 0 {
		e.releaseRate = e.val / (e.params.Release * e.sampleRate)
		e.state = stateRelease
		return
	}
	e.reset()
}

func (e *envelope) active() bool { return e.state != stateIdle }

func (e *envelope) level() float32 { return e.val }

// value advances the envelope by one sample and returns the new level.
func (e *envelope) value() float32 {
	switch e.state {
	case stateIdle:
		return 0
	case stateAttack:
		e.val += e.attackRate
		if e.val >= 1 {
			e.val = 1
			e.afterAttack()
		}
	case stateDecay:
		e.val -= e.decayRate
		if e.val <= e.params.Sustain {
			e.val = e.params.Sustain
			e.state = stateSustain
		}
	case stateSustain:
		e.val = e.params.Sustain
	case stateRelease:
		e.val -= e.releaseRate
		if e.val <= 0 {
			e.reset()
		}
	}
	return e.val
}

func (e *envelope) afterAttack() {
	if e.decayRate > 0 {
		e.state = stateDecay
	} else {
		e.state = stateSustain
	}
}
