package audio

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
)

// NoiseKind selects the distribution used by Noise.
type NoiseKind int

const (
	WhiteNoise NoiseKind = iota
	UniformNoise
)

// maxRejects bounds the Box-Muller rejection loop; if every draw is this close
// to zero the smallest usable variate is substituted.
const maxRejects = 16

// epsilon is the smallest normal float32, below which log(u1) is not usable.
const epsilon = 1.17549435e-38

// Noise fills dst with samples of the given kind drawn from r.
func Noise(kind NoiseKind, dst []float32, r *rand.Rand) {
	if kind == UniformNoise {
		Uniform(dst, r)
		return
	}
	Gaussian(dst, r)
}

// Uniform fills dst with samples uniformly distributed in [-1, 1].
func Uniform(dst []float32, r *rand.Rand) {
	for i := range dst {
		dst[i] = (r.Float32() - 0.5) * 2
	}
}

// Gaussian fills dst with normally distributed samples (mean 0, standard
// deviation 1) using the Box-Muller transform. Each pair of uniform draws
// produces two outputs; even positions get the cosine term and odd positions
// the sine term. The output is not clamped.
func Gaussian(dst []float32, r *rand.Rand) {
	var z1 float32
	for i := range dst {
		if i%2 == 1 {
			dst[i] = z1
			continue
		}
		u1 := r.Float32()
		for n := 0; u1 <= epsilon; n++ {
			if n == maxRejects {
				u1 = epsilon
				break
			}
			u1 = r.Float32()
		}
		u2 := r.Float32()
		mag := math32.Sqrt(-2 * math32.Log(u1))
		dst[i] = mag * math32.Cos(twoPi*u2)
		z1 = mag * math32.Sin(twoPi*u2)
	}
}
