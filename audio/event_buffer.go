package audio

import (
	"runtime"
	"sync/atomic"
)

// eventBuffer is a lock-free spsc queue of note events.
type eventBuffer struct {
	events      []NoteEvent
	read, write atomic.Uint32
}

func newEventBuffer(size int) *eventBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic("event buffer size must be a power of 2")
	}
	return &eventBuffer{events: make([]NoteEvent, size)}
}

// push blocks the producer while the queue is full.
func (b *eventBuffer) push(ev NoteEvent) {
	for b.write.Load()-b.read.Load() == uint32(len(b.events)) {
		runtime.Gosched()
	}
	write := b.write.Load()
	b.events[write%uint32(len(b.events))] = ev
	b.write.Store(write + 1)
}

// tryPush queues ev unless the queue is full. It never blocks, so it is the
// one to use when the producer is the audio thread itself.
func (b *eventBuffer) tryPush(ev NoteEvent) bool {
	write := b.write.Load()
	if write-b.read.Load() == uint32(len(b.events)) {
		return false
	}
	b.events[write%uint32(len(b.events))] = ev
	b.write.Store(write + 1)
	return true
}

// iter calls f for every queued event with an offset below untilOffset, in
// push order, and stops at the first one that isn't or when f returns false.
// Events that were not handed to f stay queued. An untilOffset of -1 drains
// the queue.
func (b *eventBuffer) iter(untilOffset int, f func(NoteEvent) bool) {
	read := b.read.Load()
	write := b.write.Load()
	for read != write {
		ev := b.events[read%uint32(len(b.events))]
		if ev.Offset >= untilOffset && untilOffset != -1 {
			break
		}
		if !f(ev) {
			break
		}
		read++
	}
	b.read.Store(read)
}
