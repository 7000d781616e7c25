// Package noise provides deterministic 2D value noise for procedural
// texturing. All functions are pure: the same coordinates and seed
// always produce the same value, on every platform.
package noise

import "math"

// Hash32 is a 32-bit integer finalizer with good avalanche behavior.
func Hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// hash2i mixes a 2D lattice coordinate with a seed.
func hash2i(x, y int, seed uint32) uint32 {
	h := seed
	h ^= Hash32(uint32(x) + 0x9e3779b9 + (h << 6) + (h >> 2))
	h ^= Hash32(uint32(y) + 0x9e3779b9 + (h << 6) + (h >> 2))
	return Hash32(h)
}

// rand01 returns a uniform value in [0, 1) for a lattice coordinate.
func rand01(x, y int, seed uint32) float32 {
	h := hash2i(x, y, seed)
	return float32((h>>8)&0x00ffffff) * (1.0 / 16777216.0)
}

func smoothstep(t float32) float32 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Value2 returns smooth value noise in [-1, 1] at (x, y).
func Value2(x, y float32, seed uint32) float32 {
	x0 := int(math.Floor(float64(x)))
	y0 := int(math.Floor(float64(y)))
	x1 := x0 + 1
	y1 := y0 + 1

	u := smoothstep(x - float32(x0))
	v := smoothstep(y - float32(y0))

	v00 := rand01(x0, y0, seed)*2 - 1
	v10 := rand01(x1, y0, seed)*2 - 1
	v01 := rand01(x0, y1, seed)*2 - 1
	v11 := rand01(x1, y1, seed)*2 - 1

	a := lerp(v00, v10, u)
	b := lerp(v01, v11, u)
	return lerp(a, b, v)
}

// FBM2 sums octaves of [Value2] with halving amplitude and doubling
// frequency, normalized back into [-1, 1].
func FBM2(x, y float32, seed uint32, octaves int) float32 {
	var sum, norm float32
	amp := float32(1)
	freq := float32(1)

	for i := 0; i < octaves; i++ {
		sum += Value2(x*freq, y*freq, seed+uint32(i)*1013) * amp
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}
