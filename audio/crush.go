package audio

import "github.com/chewxy/math32"

// Quantize reduces buf to 2^bitDepth levels per unit by subtracting the
// remainder modulo the step size, which truncates toward zero.
func Quantize(buf []float32, bitDepth float32) {
	bitDepth = clamp32(bitDepth, 1, 32)
	step := 1 / math32.Pow(2, bitDepth)
	for i, v := range buf {
		buf[i] = v - math32.Mod(v, step)
	}
}

// Decimate holds the first sample of every run of factor samples for the
// rest of the run. Factors below 2 leave buf unchanged.
func Decimate(buf []float32, factor int) {
	if factor < 2 {
		return
	}
	for i := range buf {
		if r := i % factor; r != 0 {
			buf[i] = buf[i-r]
		}
	}
}
