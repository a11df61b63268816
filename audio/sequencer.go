package audio

import (
	"math"
	"sync/atomic"
)

// Pulses per quarter note
const PPQN = 960.

const defaultVelocity = 100

type Clip struct {
	Length     int
	instrument Playable
	notes      []note
}

func NewClip(length float64, p Playable) *Clip {
	return &Clip{
		Length:     int(length * PPQN),
		instrument: p,
	}
}

type Playable interface {
	PlayNote(offset, pitch, velocity, duration int)
}

// AddNote places pitch at position beats from the start of the clip, held for
// length beats. Pitches outside 1-127 are ignored.
func (c *Clip) AddNote(position float64, pitch int, length float64) {
	if pitch < 1 || pitch > 127 {
		return
	}
	c.notes = append(c.notes, note{
		pos:      int(position * PPQN),
		pitch:    pitch,
		velocity: defaultVelocity,
		length:   length,
	})
}

func (c *Clip) Notes() int { return len(c.notes) }

type note struct {
	pos      int // position of the note measured in PPQN from the start of a clip
	pitch    int // pitch as a midi note number
	velocity int
	length   float64 // note length in beats
}

// Sequencer loops clips in time with the audio thread. It is a Ticker: every
// Tick schedules the notes that fall in the next buffer.
type Sequencer struct {
	*Props
	bpm         *Param
	clips       atomic.Pointer[map[string]*Clip]
	sampleRate  float64
	totalPulses uint64
}

const PropBPM = "bpm"

func NewSequencer(props *Props, sampleRate float64) *Sequencer {
	seq := &Sequencer{
		Props:      props,
		sampleRate: sampleRate,
		bpm:        props.MustRegister(PropBPM, "bpm", 1, 500, 0, 120),
	}
	seq.SetClips(map[string]*Clip{})
	return seq
}

// Clips returns the current clip map, which must not be modified.
func (s *Sequencer) Clips() map[string]*Clip { return *s.clips.Load() }

// SetClips replaces the clip map. Callers build a new map rather than
// modifying the one returned by Clips.
func (s *Sequencer) SetClips(clips map[string]*Clip) { s.clips.Store(&clips) }

func (s *Sequencer) Tick(numSamples int) {
	bpm := s.bpm.Load()
	clips := s.Clips()

	// The number of pulses to schedule for each buffer will be fractional,
	// because the PPQN is not a multiple of the buffer size. Truncating it
	// causes the next pulse to be a few samples early, but it's not noticeable.
	numPulses := int(math.Floor(PPQN * (bpm / 60.) / (s.sampleRate / float64(numSamples))))
	samplesPerPulse := s.sampleRate / ((bpm * PPQN) / 60.)

	for _, clip := range clips {
		if clip.Length <= 0 {
			continue
		}
		pos := int(s.totalPulses % uint64(clip.Length)) // current position within the clip
		nextPos := pos + numPulses                      // next position within the clip

		for _, note := range clip.notes {
			duration := int(note.length * s.sampleRate / (bpm / 60.))

			if nextPos > clip.Length {
				// We've reached the end of the clip so also check start of clip for notes to schedule.
				if note.pos >= pos || note.pos < nextPos-clip.Length {
					offset := int(math.Round(float64(clip.Length-pos+note.pos) * samplesPerPulse))
					if note.pos >= pos {
						offset = int(math.Round(float64(note.pos-pos) * samplesPerPulse))
					}
					clip.instrument.PlayNote(offset, note.pitch, note.velocity, duration)
				}
			} else {
				if note.pos >= pos && note.pos < nextPos {
					offset := int(math.Round(float64(note.pos-pos) * samplesPerPulse))
					clip.instrument.PlayNote(offset, note.pitch, note.velocity, duration)
				}
			}
		}
	}
	s.totalPulses += uint64(numPulses)
}
