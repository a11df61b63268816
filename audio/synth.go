package audio

import (
	"sync/atomic"
	"time"
)

const (
	sampleRate = 44100
	bufferSize = 512
	numVoices  = 20

	// maxEvents bounds the note events handled in a single block; later ones
	// wait in the queue for the next block.
	maxEvents = 256
)

// Config sizes a Synth.
type Config struct {
	SampleRate float64
	BufferSize int
	Voices     int
	Seed       uint64
}

// DefaultConfig matches the rates the sinks open their streams with.
func DefaultConfig() Config {
	return Config{
		SampleRate: sampleRate,
		BufferSize: bufferSize,
		Voices:     numVoices,
		Seed:       uint64(time.Now().UnixNano()),
	}
}

// Synth is the playable device. NoteOn, NoteOff and Send queue events from a
// single control goroutine; PlayNote is for tickers running on the audio
// thread ahead of Process. Both queues are drained by Process.
type Synth struct {
	*Props
	proc   *Processor
	events *eventBuffer
	sched  *eventBuffer
	block  []NoteEvent
	out    [][]float32
	blocks atomic.Uint64
	active atomic.Int64
}

func NewSynth(cfg Config) *Synth {
	if cfg.Voices <= 0 {
		cfg.Voices = numVoices
	}
	props := NewProps()
	s := &Synth{
		Props:  props,
		proc:   NewProcessor(props, cfg.Voices, cfg.Seed),
		events: newEventBuffer(maxEvents),
		sched:  newEventBuffer(maxEvents),
		block:  make([]NoteEvent, 0, maxEvents),
		out:    make([][]float32, numChannels),
	}
	for ch := range s.out {
		s.out[ch] = make([]float32, cfg.BufferSize)
	}
	s.proc.Prepare(cfg.SampleRate, cfg.BufferSize)
	return s
}

func (s *Synth) Processor() *Processor { return s.proc }

// NoteOn queues a held note for the start of the next block.
func (s *Synth) NoteOn(pitch, velocity int) {
	s.events.push(NoteEvent{Kind: NoteOn, Pitch: pitch, Velocity: velocity})
}

func (s *Synth) NoteOff(pitch int) {
	s.events.push(NoteEvent{Kind: NoteOff, Pitch: pitch})
}

// PlayNote queues a note at offset samples into the next block that is
// released after duration samples. Notes are dropped when the queue is full.
func (s *Synth) PlayNote(offset, pitch, velocity, duration int) {
	s.sched.tryPush(NoteEvent{
		Kind:     NoteOn,
		Pitch:    pitch,
		Velocity: velocity,
		Offset:   offset,
		Duration: duration,
	})
}

// Panic releases every sounding voice.
func (s *Synth) Panic() { s.events.push(NoteEvent{Kind: AllNotesOff}) }

// Send queues an arbitrary event.
func (s *Synth) Send(ev NoteEvent) { s.events.push(ev) }

// Process renders one block and adds it to samples, planar channels of equal
// length. A mono destination gets the left channel.
func (s *Synth) Process(samples [][]float32) {
	if len(samples) == 0 {
		return
	}
	n := len(samples[0])
	for ch := range s.out {
		if cap(s.out[ch]) < n {
			s.out[ch] = make([]float32, n)
		}
		s.out[ch] = s.out[ch][:n]
	}
	s.block = s.block[:0]
	// offsets past the block are clamped to its end by the voice bank
	s.events.iter(-1, s.collect)
	s.sched.iter(-1, s.collect)
	sortEvents(s.block)
	s.proc.RenderBlock(s.out, 0, n, s.block)
	for ch := range samples {
		if ch >= len(s.out) {
			break
		}
		for i, v := range s.out[ch] {
			samples[ch][i] += v
		}
	}
	s.active.Store(int64(s.proc.bank.ActiveVoices()))
	s.blocks.Add(1)
}

func (s *Synth) collect(ev NoteEvent) bool {
	if len(s.block) == cap(s.block) {
		return false
	}
	s.block = append(s.block, ev)
	return true
}

// Stats is a snapshot of counters kept by the audio thread.
type Stats struct {
	Blocks       uint64
	ActiveVoices int64
	Dropped      int64
}

// Stats reads counters maintained by the audio thread. ActiveVoices is
// as of the end of the last block.
func (s *Synth) Stats() Stats {
	return Stats{
		Blocks:       s.blocks.Load(),
		ActiveVoices: s.active.Load(),
		Dropped:      s.proc.bank.Dropped(),
	}
}
