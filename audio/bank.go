package audio

import "sync/atomic"

// Sound describes which notes and channels the bank responds to. A zero
// channel accepts every channel, and events without a channel are accepted
// by every Sound.
type Sound struct {
	LowNote  int
	HighNote int
	Channel  int
}

// AnySound applies to every note on every channel.
var AnySound = Sound{LowNote: 0, HighNote: 127}

func (s Sound) AppliesToNote(pitch int) bool {
	return pitch >= s.LowNote && pitch <= s.HighNote
}

func (s Sound) AppliesToChannel(ch int) bool {
	return s.Channel == 0 || ch == 0 || s.Channel == ch
}

// VoiceBank owns a fixed pool of voices and mixes them into a shared buffer.
type VoiceBank struct {
	voices  []*Voice
	sound   Sound
	mono    []float32
	dropped atomic.Int64
}

func NewVoiceBank(numVoices int, sound Sound) *VoiceBank {
	if numVoices < 1 {
		numVoices = 1
	}
	b := &VoiceBank{sound: sound}
	for n := 0; n < numVoices; n++ {
		b.voices = append(b.voices, NewVoice())
	}
	return b
}

func (b *VoiceBank) Voices() []*Voice { return b.voices }

// Prepare sets the sample rate on every voice and sizes the mono mix buffer
// for blocks of up to maxBlockSize samples.
func (b *VoiceBank) Prepare(sampleRate float32, maxBlockSize int) {
	for _, v := range b.voices {
		v.SetSampleRate(sampleRate)
	}
	if cap(b.mono) < maxBlockSize {
		b.mono = make([]float32, maxBlockSize)
	}
}

func (b *VoiceBank) SetControls(c *Controls) {
	for _, v := range b.voices {
		v.SetControls(c)
	}
}

// NoteOn releases any voice already sounding pitch and starts it on a new one.
// Idle voices are preferred; when there are none the releasing voice closest
// to silence is stolen. If every voice is still sounding the note is dropped.
func (b *VoiceBank) NoteOn(pitch, velocity, duration int) {
	if !b.sound.AppliesToNote(pitch) {
		return
	}
	if velocity == 0 {
		b.NoteOff(pitch)
		return
	}
	for _, v := range b.voices {
		if v.state == voiceSounding && v.pitch == pitch {
			v.NoteOff()
		}
	}
	v := b.findFreeVoice()
	if v == nil {
		b.dropped.Add(1)
		return
	}
	v.NoteOn(pitch, velocity, duration)
}

func (b *VoiceBank) NoteOff(pitch int) {
	for _, v := range b.voices {
		if v.state == voiceSounding && v.pitch == pitch {
			v.NoteOff()
		}
	}
}

// AllNotesOff releases every sounding voice.
func (b *VoiceBank) AllNotesOff() {
	for _, v := range b.voices {
		v.NoteOff()
	}
}

// Stop silences every voice immediately.
func (b *VoiceBank) Stop() {
	for _, v := range b.voices {
		v.Stop()
	}
}

// Dropped returns how many notes were ignored because no voice was available.
func (b *VoiceBank) Dropped() int64 { return b.dropped.Load() }

// ActiveVoices counts voices that are sounding or releasing.
func (b *VoiceBank) ActiveVoices() int {
	var n int
	for _, v := range b.voices {
		if v.Active() {
			n++
		}
	}
	return n
}

func (b *VoiceBank) findFreeVoice() *Voice {
	var steal *Voice
	for _, v := range b.voices {
		switch v.state {
		case voiceIdle:
			return v
		case voiceReleasing:
			if steal == nil || v.Level() < steal.Level() {
				steal = v
			}
		}
	}
	return steal
}

// Render adds numSamples of every active voice to out[ch][start:], the same
// mono signal on each channel. Events are applied at their offsets, relative
// to start, and have to be sorted by offset.
func (b *VoiceBank) Render(out [][]float32, start, numSamples int, events []NoteEvent) {
	pos := 0
	for _, ev := range events {
		offset := ev.Offset
		if offset < pos {
			offset = pos
		}
		if offset > numSamples {
			offset = numSamples
		}
		b.renderVoices(out, start+pos, offset-pos)
		pos = offset
		b.dispatch(ev)
	}
	b.renderVoices(out, start+pos, numSamples-pos)
}

func (b *VoiceBank) dispatch(ev NoteEvent) {
	if !b.sound.AppliesToChannel(ev.Channel) {
		return
	}
	switch ev.Kind {
	case NoteOn:
		b.NoteOn(ev.Pitch, ev.Velocity, ev.Duration)
	case NoteOff:
		b.NoteOff(ev.Pitch)
	case AllNotesOff:
		b.AllNotesOff()
	}
}

func (b *VoiceBank) renderVoices(out [][]float32, start, n int) {
	if n <= 0 {
		return
	}
	if cap(b.mono) < n {
		// only reached when the host skipped Prepare
		b.mono = make([]float32, n)
	}
	mono := b.mono[:n]
	for i := range mono {
		mono[i] = 0
	}
	for _, v := range b.voices {
		v.Render(mono)
	}
	for ch := range out {
		dst := out[ch][start : start+n]
		for i, s := range mono {
			dst[i] += s
		}
	}
}
