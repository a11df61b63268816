package audio

import (
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// DecodeMIDI converts a raw channel message into a note event at offset.
// MIDI channels 0-15 become 1-16 on the event.
// Note on with velocity zero decodes as note off. Everything that is not a
// note message, including pitch bend and controllers, reports false.
func DecodeMIDI(b []byte, offset int) (NoteEvent, bool) {
	if len(b) < 3 {
		return NoteEvent{}, false
	}
	var channel, key, velocity uint8
	msg := midi.Message(b)
	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		return NoteEvent{Kind: NoteOn, Channel: int(channel) + 1, Pitch: int(key), Velocity: int(velocity), Offset: offset}, true
	// note on with velocity zero ends up here
	case msg.GetNoteEnd(&channel, &key):
		return NoteEvent{Kind: NoteOff, Channel: int(channel) + 1, Pitch: int(key), Offset: offset}, true
	default:
		return NoteEvent{}, false
	}
}

// TimedEvent is a note event at an absolute frame position.
type TimedEvent struct {
	Frame int64
	Event NoteEvent
}

// LoadSMF reads the note messages from every track of a standard MIDI file
// and places them at frame positions for sampleRate, following the file's
// tempo changes. The result is sorted by frame.
func LoadSMF(path string, sampleRate float64) ([]TimedEvent, error) {
	var events []TimedEvent
	rd := smf.ReadTracks(path).Do(func(te smf.TrackEvent) {
		ev, ok := DecodeMIDI([]byte(te.Message), 0)
		if !ok {
			return
		}
		frame := int64(float64(te.AbsMicroSeconds) * sampleRate / 1e6)
		events = append(events, TimedEvent{Frame: frame, Event: ev})
	})
	if err := rd.Error(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Frame < events[j].Frame
	})
	return events, nil
}
