package terrain

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
)

// Generate fills every cell of the heightmap using the named algorithm and
// recomputes the bounds. The hydraulic kind lays down a fractal base and, if
// the params request iterations, runs droplet erosion on the result.
func Generate(hm *HeightmapData, kind GeneratorKind, p GeneratorParams) error {
	if hm == nil {
		return fmt.Errorf("generate: nil heightmap")
	}
	if p.Scale <= 0 {
		return fmt.Errorf("generate: scale must be positive, got %g", p.Scale)
	}
	if p.Octaves < 1 {
		p.Octaves = 1
	}

	switch kind {
	case GenLayered:
		generateLayered(hm, p)
	case GenRidged:
		generateRidged(hm, p)
	case GenCellular:
		generateCellular(hm, p)
	case GenPerlin:
		generatePerlin(hm, p)
	case GenHydraulic:
		generateLayered(hm, p)
		if p.ErosionIterations > 0 {
			settings := DefaultErosionSettings()
			settings.Iterations = p.ErosionIterations
			sim := NewErosionSimulator(p.Seed)
			if err := sim.SimulateHydraulic(hm, settings); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("generate: unknown generator kind %q", kind)
	}

	hm.RecomputeBounds()
	return nil
}

// generateLayered sums octaves of simplex noise with doubling frequency and
// persistence-scaled amplitude, remapped from [-1,1] to [0,1] and scaled by
// the target amplitude.
func generateLayered(hm *HeightmapData, p GeneratorParams) {
	ng := NewNoiseGenerator(p.Seed)
	for y := 0; y < hm.Height; y++ {
		for x := 0; x < hm.Width; x++ {
			hm.Set(x, y, fractalAt(ng, float64(x), float64(y), p))
		}
	}
}

func fractalAt(ng *NoiseGenerator, x, y float64, p GeneratorParams) float32 {
	var total, maxAmp float64
	freq := 1.0
	amp := 1.0
	for o := 0; o < p.Octaves; o++ {
		total += ng.Noise2D(x*freq/p.Scale, y*freq/p.Scale) * amp
		maxAmp += amp
		amp *= p.Persistence
		freq *= 2.0
	}
	normalized := total / maxAmp      // [-1, 1]
	return float32((normalized + 1) / 2 * float64(p.Amplitude))
}

// generateRidged accumulates 1-|noise| per octave raised to the ridge power,
// which sharpens ridgelines. Unlike the layered kind the result is not
// remapped to [0,1].
func generateRidged(hm *HeightmapData, p GeneratorParams) {
	ng := NewNoiseGenerator(p.Seed)
	power := p.RidgePower
	if power <= 0 {
		power = 1
	}
	for y := 0; y < hm.Height; y++ {
		for x := 0; x < hm.Width; x++ {
			var total, maxAmp float64
			freq := 1.0
			amp := 1.0
			for o := 0; o < p.Octaves; o++ {
				n := ng.Noise2D(float64(x)*freq/p.Scale, float64(y)*freq/p.Scale)
				ridged := 1 - math.Abs(n)
				total += math.Pow(ridged, power) * amp
				maxAmp += amp
				amp *= p.Persistence
				freq *= 2.0
			}
			hm.Set(x, y, float32(total/maxAmp*float64(p.Amplitude)))
		}
	}
}

// generateCellular computes a Voronoi-style field: the distance from each
// cell to the nearest of nine hashed feature points in the surrounding 3x3
// block, inverted and shaped by the falloff exponent.
func generateCellular(hm *HeightmapData, p GeneratorParams) {
	falloff := p.CellFalloff
	if falloff <= 0 {
		falloff = 1
	}
	for y := 0; y < hm.Height; y++ {
		for x := 0; x < hm.Width; x++ {
			cx := float64(x) / p.Scale
			cy := float64(y) / p.Scale
			ix := noiseFloor(cx)
			iy := noiseFloor(cy)

			minDist := math.MaxFloat64
			for ny := iy - 1; ny <= iy+1; ny++ {
				for nx := ix - 1; nx <= ix+1; nx++ {
					px := float64(nx) + cellHash(nx, ny, p.Seed)
					py := float64(ny) + cellHash(nx, ny, p.Seed^0x9e3779b9)
					dx := cx - px
					dy := cy - py
					if d := math.Sqrt(dx*dx + dy*dy); d < minDist {
						minDist = d
					}
				}
			}
			if minDist > 1 {
				minDist = 1
			}
			hm.Set(x, y, float32(math.Pow(1-minDist, falloff)*float64(p.Amplitude)))
		}
	}
}

// cellHash returns a deterministic value in [0,1) for a cell coordinate pair.
func cellHash(x, y int, seed int64) float64 {
	h := uint64(seed) ^ uint64(int64(x))*0x9E3779B97F4A7C15 ^ uint64(int64(y))*0xC2B2AE3D27D4EB4F
	h ^= h >> 29
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 32
	return float64(h&0xFFFFFF) / float64(1<<24)
}

// generatePerlin fills the grid with octaved Perlin noise remapped to
// [0, amplitude]. alpha=2, beta=2 give terrain-like roughness.
func generatePerlin(hm *HeightmapData, p GeneratorParams) {
	pn := perlin.NewPerlin(2, 2, int32(p.Octaves), p.Seed)
	for y := 0; y < hm.Height; y++ {
		for x := 0; x < hm.Width; x++ {
			n := pn.Noise2D(float64(x)/p.Scale, float64(y)/p.Scale) // ~[-1, 1]
			hm.Set(x, y, float32((n+1)/2*float64(p.Amplitude)))
		}
	}
}
