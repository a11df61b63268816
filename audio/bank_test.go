package audio

import (
	"reflect"
	"testing"
)

func newTestBank(voices int) *VoiceBank {
	b := NewVoiceBank(voices, AnySound)
	b.Prepare(44100, 256)
	b.SetControls(&Controls{Detune: 2, DetuneMix: 0.7, LFORate: 10, Wave: Triangle, PulseWidth: 0.5})
	return b
}

func stereo(n int) [][]float32 {
	return [][]float32{make([]float32, n), make([]float32, n)}
}

func pitches(b *VoiceBank) []int {
	var ps []int
	for _, v := range b.voices {
		if v.Active() {
			ps = append(ps, v.pitch)
		} else {
			ps = append(ps, -1)
		}
	}
	return ps
}

func TestVoiceBankPrefersIdleVoices(t *testing.T) {
	b := newTestBank(3)
	b.NoteOn(60, 100, 0)
	b.NoteOn(64, 100, 0)
	if want, got := []int{60, 64, -1}, pitches(b); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestVoiceBankDropsNoteWhenAllSounding(t *testing.T) {
	b := newTestBank(2)
	b.NoteOn(60, 100, 0)
	b.NoteOn(62, 100, 0)
	b.NoteOn(64, 100, 0)
	if want, got := []int{60, 62}, pitches(b); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
	if want, got := int64(1), b.Dropped(); want != got {
		t.Errorf("want %v dropped, got %v", want, got)
	}
}

func TestVoiceBankStealsQuietestReleasingVoice(t *testing.T) {
	b := newTestBank(3)
	b.NoteOn(60, 100, 0)
	b.Render(stereo(256), 0, 256, nil)
	b.NoteOn(62, 100, 0)
	b.NoteOn(64, 100, 0)
	b.Render(stereo(256), 0, 256, nil)

	// 60 has been playing longer so it is louder when released
	b.NoteOff(60)
	b.NoteOff(62)
	b.NoteOn(67, 100, 0)
	if want, got := []int{60, 67, 64}, pitches(b); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
	if want, got := int64(0), b.Dropped(); want != got {
		t.Errorf("want %v dropped, got %v", want, got)
	}
}

func TestVoiceBankRetriggerReleasesPreviousVoice(t *testing.T) {
	b := newTestBank(3)
	b.NoteOn(60, 100, 0)
	b.NoteOn(60, 100, 0)
	if want, got := voiceReleasing, b.voices[0].state; want != got {
		t.Errorf("first voice: want %v, got %v", want, got)
	}
	if want, got := voiceSounding, b.voices[1].state; want != got {
		t.Errorf("second voice: want %v, got %v", want, got)
	}
}

func TestVoiceBankZeroVelocityIsNoteOff(t *testing.T) {
	b := newTestBank(2)
	b.NoteOn(60, 100, 0)
	b.NoteOn(60, 0, 0)
	if want, got := voiceReleasing, b.voices[0].state; want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if b.voices[1].Active() {
		t.Errorf("velocity zero should not start a voice")
	}
}

func TestVoiceBankIgnoresNotesOutsideSound(t *testing.T) {
	b := NewVoiceBank(2, Sound{LowNote: 60, HighNote: 72})
	b.NoteOn(59, 100, 0)
	b.NoteOn(73, 100, 0)
	if got := b.ActiveVoices(); got != 0 {
		t.Errorf("want no active voices, got %v", got)
	}
	b.NoteOn(60, 100, 0)
	if got := b.ActiveVoices(); got != 1 {
		t.Errorf("want 1 active voice, got %v", got)
	}
}

func TestVoiceBankRenderDoublesChannels(t *testing.T) {
	b := newTestBank(4)
	out := stereo(256)
	b.Render(out, 0, 256, []NoteEvent{{Kind: NoteOn, Pitch: 60, Velocity: 100}})
	if !nonZero(out[0]) {
		t.Fatal("no output")
	}
	if !reflect.DeepEqual(out[0], out[1]) {
		t.Error("channels differ")
	}
}

func TestVoiceBankRenderAddsToOutput(t *testing.T) {
	b := newTestBank(1)
	out := stereo(8)
	for ch := range out {
		for i := range out[ch] {
			out[ch][i] = 1
		}
	}
	b.Render(out, 0, 8, nil)
	for _, s := range out[0] {
		if s != 1 {
			t.Fatalf("silent bank changed output: %v", out[0])
		}
	}
}

func TestVoiceBankEventsAtOffsets(t *testing.T) {
	b := newTestBank(2)
	out := stereo(256)
	events := []NoteEvent{
		{Kind: NoteOn, Pitch: 60, Velocity: 100, Offset: 100},
		{Kind: NoteOn, Pitch: 67, Velocity: 100, Offset: 400},
	}
	b.Render(out, 0, 256, events)
	if nonZero(out[0][:100]) {
		t.Error("output before the note on offset")
	}
	if !nonZero(out[0][100:]) {
		t.Error("no output after the note on offset")
	}
	// offsets past the block land at its end
	if want, got := []int{60, 67}, pitches(b); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestVoiceBankRenderRange(t *testing.T) {
	b := newTestBank(1)
	out := stereo(300)
	b.NoteOn(60, 100, 0)
	b.Render(out, 44, 256, nil)
	if nonZero(out[0][:44]) {
		t.Error("wrote before start sample")
	}
	if !nonZero(out[0][44:]) {
		t.Error("nothing written in range")
	}
}

func TestVoiceBankChannel(t *testing.T) {
	b := NewVoiceBank(2, Sound{LowNote: 0, HighNote: 127, Channel: 2})
	b.Prepare(44100, 256)
	b.Render(stereo(256), 0, 256, []NoteEvent{
		{Kind: NoteOn, Channel: 1, Pitch: 60, Velocity: 100},
		{Kind: NoteOn, Channel: 2, Pitch: 62, Velocity: 100},
		{Kind: NoteOn, Pitch: 64, Velocity: 100},
	})
	if want, got := []int{62, 64}, pitches(b); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}
