package audio

import (
	"math"
	"reflect"
	"testing"
)

func TestDelayLineImpulse(t *testing.T) {
	var d DelayLine
	d.SetSizeInSamples(4)
	d.SetDelayTimeInSamples(2)
	d.SetFeedback(0)

	var got []float32
	for _, in := range []float32{1, 0, 0, 0, 0, 0} {
		got = append(got, d.Process(in))
	}
	want := []float32{0, 0, 1, 0, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want %v, got %v", want, got)
		}
	}
}

func TestDelayLineFractionalRead(t *testing.T) {
	var d DelayLine
	d.SetSizeInSamples(8)
	d.SetDelayTimeInSamples(1.5)

	var got []float32
	for _, in := range []float32{1, 0, 0, 0} {
		got = append(got, d.Process(in))
	}
	want := []float32{0, 0.5, 0.5, 0}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Fatalf("want %v, got %v", want, got)
		}
	}
}

func TestDelayLineFeedback(t *testing.T) {
	var d DelayLine
	d.SetSizeInSamples(4)
	d.SetDelayTimeInSamples(2)
	d.SetFeedback(0.5)

	var got []float32
	for _, in := range []float32{1, 0, 0, 0, 0, 0, 0} {
		got = append(got, d.Process(in))
	}
	// the impulse comes back every delay period, halved each time
	want := []float32{0, 0, 1, 0, 0.5, 0, 0.25}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want %v, got %v", want, got)
		}
	}
}

func TestDelayLineFeedbackClamped(t *testing.T) {
	var d DelayLine
	d.SetFeedback(-1)
	if d.feedback != 0 {
		t.Errorf("want feedback 0, got %v", d.feedback)
	}
	d.SetFeedback(1.5)
	if d.feedback != 1 {
		t.Errorf("want feedback 1, got %v", d.feedback)
	}
}

func TestDelayLineLongDelayWraps(t *testing.T) {
	var d DelayLine
	d.SetSizeInSamples(4)
	for _, delay := range []float32{5, 9, 13.5, 400} {
		d.SetDelayTimeInSamples(delay)
		if d.readIndex < 0 || d.readIndex >= 4 {
			t.Errorf("delay %v: read index %v out of range", delay, d.readIndex)
		}
		for n := 0; n < 10; n++ {
			d.Process(1)
		}
	}
}

func TestDelayLineLastSlotInterpolatesWithFirst(t *testing.T) {
	var d DelayLine
	d.SetSizeInSamples(4)
	d.data = []float32{2, 0, 0, 4}
	d.readIndex = 3.5
	if got := d.interpolate(); got != 3 {
		t.Errorf("want 3, got %v", got)
	}
}

func TestDelayLineResizeZeroes(t *testing.T) {
	var d DelayLine
	d.SetSizeInSamples(4)
	d.SetDelayTimeInSamples(1)
	for n := 0; n < 4; n++ {
		d.Process(1)
	}
	d.SetSizeInSamples(8)
	for i, v := range d.data {
		if v != 0 {
			t.Fatalf("data[%d] = %v after resize", i, v)
		}
	}
	if want, got := 8, d.Size(); want != got {
		t.Errorf("want size %v, got %v", want, got)
	}
}

func TestDelayLineShrinkKeepsDelayTime(t *testing.T) {
	var d DelayLine
	d.SetSizeInSamples(16)
	d.SetDelayTimeInSamples(2)
	d.SetSizeInSamples(4)

	var got []float32
	for _, in := range []float32{1, 0, 0, 0, 0} {
		got = append(got, d.Process(in))
	}
	if want := []float32{0, 0, 1, 0, 0}; !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}
