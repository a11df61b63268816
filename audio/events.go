package audio

import "fmt"

// NoteKind distinguishes note starts from note ends. AllNotesOff releases
// every sounding voice.
type NoteKind int

const (
	NoteOn NoteKind = iota
	NoteOff
	AllNotesOff
)

// NoteEvent is a note start or end at a sample offset within a block.
type NoteEvent struct {
	Kind     NoteKind
	Channel  int // 1-16, 0 when the source has no channel
	Pitch    int
	Velocity int
	Offset   int
	Duration int // samples until an automatic note off, 0 to hold
}

func (e NoteEvent) String() string {
	switch e.Kind {
	case NoteOff:
		return fmt.Sprintf("off{pitch:%d offset:%d}", e.Pitch, e.Offset)
	case AllNotesOff:
		return fmt.Sprintf("alloff{offset:%d}", e.Offset)
	}
	return fmt.Sprintf("on{pitch:%d vel:%d offset:%d dur:%d}", e.Pitch, e.Velocity, e.Offset, e.Duration)
}

// sortEvents orders events by offset without allocating. Events sharing an
// offset keep their relative order.
func sortEvents(events []NoteEvent) {
	for i := 1; i < len(events); i++ {
		for j := i; j > 0 && events[j].Offset < events[j-1].Offset; j-- {
			events[j], events[j-1] = events[j-1], events[j]
		}
	}
}
