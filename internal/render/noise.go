package render

import "math"

// valueNoise is a deterministic 3D value-noise field. The cloud only needs
// soft billows, not gradient-noise fidelity, so a hashed lattice with
// smoothstep interpolation is enough.
type valueNoise struct {
	seed uint32
}

func newValueNoise(seed uint32) *valueNoise {
	return &valueNoise{seed: seed}
}

func (n *valueNoise) lattice(x, y, z int32) float64 {
	h := uint32(x)*0x8da6b343 + uint32(y)*0xd8163841 + uint32(z)*0xcb1ab31f + n.seed*0x9e3779b9
	h = (h ^ (h >> 13)) * 0x85ebca6b
	h ^= h >> 16
	return float64(h&0xffff) / 65535.0
}

// at samples the noise field at a continuous coordinate, in [0,1].
func (n *valueNoise) at(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	xi, yi, zi := int32(fx), int32(fy), int32(fz)
	tx, ty, tz := smoothstep(x-fx), smoothstep(y-fy), smoothstep(z-fz)

	c000 := n.lattice(xi, yi, zi)
	c100 := n.lattice(xi+1, yi, zi)
	c010 := n.lattice(xi, yi+1, zi)
	c110 := n.lattice(xi+1, yi+1, zi)
	c001 := n.lattice(xi, yi, zi+1)
	c101 := n.lattice(xi+1, yi, zi+1)
	c011 := n.lattice(xi, yi+1, zi+1)
	c111 := n.lattice(xi+1, yi+1, zi+1)

	bottom := lerp(lerp(c000, c100, tx), lerp(c010, c110, tx), ty)
	top := lerp(lerp(c001, c101, tx), lerp(c011, c111, tx), ty)
	return lerp(bottom, top, tz)
}

// fbm layers octaves of value noise into a billowing density field, in [0,1].
func (n *valueNoise) fbm(x, y, z float64, octaves int) float64 {
	var sum, norm float64
	amp, freq := 1.0, 1.0
	for i := 0; i < octaves; i++ {
		sum += amp * n.at(x*freq, y*freq, z*freq)
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / norm
}

func smoothstep(t float64) float64 { return t * t * (3 - 2*t) }

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
