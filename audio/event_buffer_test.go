package audio

import (
	"context"
	"reflect"
	"runtime"
	"testing"
)

func TestEventBufferOffset(t *testing.T) {
	buf := newEventBuffer(8)
	buf.push(NoteEvent{Offset: 2})
	buf.push(NoteEvent{Offset: 3})

	var events []NoteEvent
	collect := func(ev NoteEvent) bool {
		events = append(events, ev)
		return true
	}
	buf.iter(2, collect)
	if want, got := 0, len(events); want != got {
		t.Errorf("expected zero events, got %v", got)
	}

	buf.iter(4, collect)
	if want, got := 2, len(events); want != got {
		t.Errorf("expected %v events, got %v", want, got)
	}
}

func TestEventBufferStopKeepsEvents(t *testing.T) {
	buf := newEventBuffer(8)
	for n := 0; n < 3; n++ {
		buf.push(NoteEvent{Pitch: 60 + n})
	}

	var events []NoteEvent
	buf.iter(-1, func(ev NoteEvent) bool {
		if len(events) == 2 {
			return false
		}
		events = append(events, ev)
		return true
	})
	if want, got := 2, len(events); want != got {
		t.Fatalf("expected %v events, got %v", want, got)
	}

	buf.iter(-1, func(ev NoteEvent) bool {
		events = append(events, ev)
		return true
	})
	if want, got := 62, events[len(events)-1].Pitch; want != got {
		t.Errorf("want remaining event with pitch %v, got %v", want, got)
	}
}

func TestEventBufferTryPush(t *testing.T) {
	buf := newEventBuffer(2)
	if !buf.tryPush(NoteEvent{Pitch: 1}) || !buf.tryPush(NoteEvent{Pitch: 2}) {
		t.Fatal("push into empty queue failed")
	}
	if buf.tryPush(NoteEvent{Pitch: 3}) {
		t.Error("push into full queue succeeded")
	}
	buf.iter(-1, func(NoteEvent) bool { return true })
	if !buf.tryPush(NoteEvent{Pitch: 3}) {
		t.Error("push after drain failed")
	}
}

func TestEventBuffer(t *testing.T) {
	buf := newEventBuffer(8)

	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	var events []NoteEvent
	collect := func(ev NoteEvent) bool {
		events = append(events, ev)
		return true
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				buf.iter(-1, collect)
				done <- struct{}{}
				return
			default:
				buf.iter(-1, collect)
				runtime.Gosched()
			}
		}
	}()

	const numEvents = 1_000_000
	for n := 0; n < numEvents; n++ {
		buf.push(NoteEvent{Offset: n})
	}

	cancel()
	<-done

	if len(events) != numEvents {
		t.Errorf("wrong number of events: want %v, got %v", numEvents, len(events))
	}

	prev := -1
	for _, ev := range events {
		if want, got := prev+1, ev.Offset; want != got {
			t.Errorf("discontinuous event offset: want: %v, got %v", want, ev.Offset)
		}
		prev++
	}
}

func TestSortEvents(t *testing.T) {
	events := []NoteEvent{
		{Pitch: 1, Offset: 30},
		{Pitch: 2, Offset: 10},
		{Pitch: 3, Offset: 30},
		{Pitch: 4, Offset: 0},
	}
	sortEvents(events)
	var pitches []int
	for _, ev := range events {
		pitches = append(pitches, ev.Pitch)
	}
	if want, got := []int{4, 2, 1, 3}, pitches; !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}
