package audio

import (
	"math"
	"testing"
)

func TestEnvelopeStages(t *testing.T) {
	env := newEnvelope(EnvelopeParams{Attack: 0.1, Decay: 0.2, Sustain: 0.5, Release: 0.1})
	env.setSampleRate(100)

	if got := env.value(); got != 0 {
		t.Fatalf("idle envelope: want 0, got %v", got)
	}

	env.noteOn()
	var peak float32
	for n := 0; n < 10; n++ {
		peak = env.value()
	}
	if math.Abs(float64(peak)-1) > 1e-5 {
		t.Errorf("level after attack: want ~1, got %v", peak)
	}

	for n := 0; n < 25; n++ {
		env.value()
	}
	if want, got := stateSustain, env.state; want != got {
		t.Fatalf("want state %v, got %v", want, got)
	}
	if got := env.value(); got != 0.5 {
		t.Errorf("sustain level: want 0.5, got %v", got)
	}

	env.noteOff()
	if want, got := stateRelease, env.state; want != got {
		t.Fatalf("want state %v, got %v", want, got)
	}
	for n := 0; n < 12 && env.active(); n++ {
		env.value()
	}
	if env.active() {
		t.Errorf("envelope still active after release, level %v", env.level())
	}
	if got := env.value(); got != 0 {
		t.Errorf("released envelope: want 0, got %v", got)
	}
}

func TestEnvelopeNoteOffWhileIdle(t *testing.T) {
	env := newEnvelope(voiceEnvelope)
	env.noteOff()
	if env.active() {
		t.Errorf("note off should not start an idle envelope")
	}
}

func TestEnvelopeWithoutAttack(t *testing.T) {
	env := newEnvelope(EnvelopeParams{Attack: 0, Decay: 0, Sustain: 0.3, Release: 0})
	env.noteOn()
	if got := env.value(); got != 0.3 {
		t.Errorf("want sustain level right away, got %v", got)
	}
	env.noteOff()
	if env.active() {
		t.Errorf("zero release should stop the envelope at once")
	}
}
