package audio

import "github.com/chewxy/math32"

// DelayLine is a circular buffer with feedback and a fractional, linearly
// interpolated read position.
type DelayLine struct {
	data      []float32
	readIndex float32
	write     int
	delayTime float32
	feedback  float32
}

// SetSizeInSamples replaces the buffer with a zeroed one of length n. The read
// and write positions are kept while they fit; a shrink that leaves either
// outside the buffer moves them back in with the current delay time.
func (d *DelayLine) SetSizeInSamples(n int) {
	if n < 1 {
		n = 1
	}
	d.data = make([]float32, n)
	if d.write >= n {
		d.write = 0
	}
	if d.readIndex >= float32(n) {
		d.SetDelayTimeInSamples(d.delayTime)
	}
}

func (d *DelayLine) Size() int { return len(d.data) }

// SetDelayTimeInSamples places the read position t samples behind the write
// position. Delay times longer than the buffer wrap around as many times as
// needed.
func (d *DelayLine) SetDelayTimeInSamples(t float32) {
	if len(d.data) == 0 {
		return
	}
	size := float32(len(d.data))
	d.delayTime = t
	d.readIndex = float32(d.write) - t
	if d.readIndex < 0 {
		d.readIndex += size
	}
	if d.readIndex < 0 || d.readIndex >= size {
		d.readIndex = math32.Mod(d.readIndex, size)
		if d.readIndex < 0 {
			d.readIndex += size
		}
		if d.readIndex >= size {
			d.readIndex = 0
		}
	}
}

func (d *DelayLine) DelayTime() float32 { return d.delayTime }

// SetFeedback clamps g to [0, 1].
func (d *DelayLine) SetFeedback(g float32) { d.feedback = clamp32(g, 0, 1) }

// Clear zeroes the buffer without touching the read and write positions.
func (d *DelayLine) Clear() {
	for i := range d.data {
		d.data[i] = 0
	}
}

// Process returns the delayed sample and writes in plus the fed back output
// at the write position.
func (d *DelayLine) Process(in float32) float32 {
	if len(d.data) == 0 {
		return 0
	}
	out := d.interpolate()
	d.data[d.write] = in + out*d.feedback

	size := float32(len(d.data))
	d.readIndex++
	if d.readIndex >= size {
		d.readIndex -= size
	}
	d.write++
	if d.write >= len(d.data) {
		d.write = 0
	}
	return out
}

func (d *DelayLine) interpolate() float32 {
	a := int(d.readIndex)
	b := a + 1
	if b >= len(d.data) {
		b = 0
	}
	frac := d.readIndex - float32(a)
	return (1-frac)*d.data[a] + frac*d.data[b]
}
