package audio

import (
	"math"
	"testing"
)

func TestAnalyzeSine(t *testing.T) {
	const n = 4096
	const rate = 44100.
	osc := NewOsc(Sine)
	osc.SetSampleRate(rate)
	osc.SetFrequency(1000)
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = osc.Process()
	}
	a, err := Analyze(samples, rate)
	if err != nil {
		t.Fatal(err)
	}
	binWidth := rate / n
	if math.Abs(a.PeakHz-1000) > binWidth {
		t.Errorf("want peak near 1000 Hz, got %v", a.PeakHz)
	}
	if math.Abs(a.RMS-1/math.Sqrt2) > 0.01 {
		t.Errorf("want rms %v, got %v", 1/math.Sqrt2, a.RMS)
	}
	if a.Peak > 1 || a.Peak < 0.99 {
		t.Errorf("want peak close to 1, got %v", a.Peak)
	}
}

func TestAnalyzeSize(t *testing.T) {
	if _, err := Analyze(make([]float32, 1000), 44100); err == nil {
		t.Error("expected error for a size that is not a power of 2")
	}
}

func TestRenderNotePitch(t *testing.T) {
	props := NewProps()
	registerKnobs(props)
	if err := props.Set(PropNoise, 0); err != nil {
		t.Fatal(err)
	}
	if err := props.Set(PropWave, int(Sine)); err != nil {
		t.Fatal(err)
	}
	samples := RenderNote(props, 44100, 69, 8192, 1)
	if len(samples) != 8192 {
		t.Fatalf("want 8192 samples, got %v", len(samples))
	}
	a, err := Analyze(samples, 44100)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(a.PeakHz-440) > 44100./8192 {
		t.Errorf("want peak near 440 Hz, got %v", a.PeakHz)
	}
}
