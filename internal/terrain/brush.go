package terrain

import (
	"fmt"
	"math"
)

// falloffWeight maps a normalized distance ratio in [0,1] to an intensity
// multiplier for the given curve.
func falloffWeight(curve FalloffCurve, d float32) float32 {
	switch curve {
	case FalloffSmooth:
		return 1 - d*d*(3-2*d)
	case FalloffSphere:
		return float32(math.Sqrt(float64(1 - d*d)))
	case FalloffTip:
		return (1 - d) * (1 - d)
	default: // linear
		return 1 - d
	}
}

// ApplyBrush applies one falloff-weighted brush stroke centered at the given
// world position. The pixel radius is derived from the brush size relative to
// the terrain width, so a brush covers the same world-space area at any
// resolution. Bounds are recomputed over the full grid before returning.
func ApplyBrush(hm *HeightmapData, cfg TerrainConfig, worldX, worldZ float32, b BrushSettings) error {
	if hm == nil {
		return fmt.Errorf("brush: nil heightmap")
	}
	if b.Size <= 0 {
		return fmt.Errorf("brush: radius must be positive, got %g", b.Size)
	}
	switch b.Type {
	case BrushRaise, BrushLower, BrushSmooth, BrushFlatten, BrushNoise:
	default:
		return fmt.Errorf("brush: unknown brush type %q", b.Type)
	}

	cx, cy := cfg.WorldToGrid(hm, worldX, worldZ)
	radius := b.Size / cfg.Width * float32(hm.Width)

	minX := int(math.Floor(float64(cx - radius)))
	maxX := int(math.Ceil(float64(cx + radius)))
	minY := int(math.Floor(float64(cy - radius)))
	maxY := int(math.Ceil(float64(cy + radius)))

	// Flatten targets the stroke's starting cell unless the caller pinned a
	// height; smooth reads neighborhoods from a pre-stroke snapshot so the
	// iteration order cannot bias the result.
	var target float32
	var snapshot []float32
	switch b.Type {
	case BrushFlatten:
		if b.HasTarget {
			target = b.TargetHeight
		} else {
			sx := clampInt(int(cx+0.5), 0, hm.Width-1)
			sy := clampInt(int(cy+0.5), 0, hm.Height-1)
			target = hm.At(sx, sy)
		}
	case BrushSmooth:
		snapshot = make([]float32, len(hm.Data))
		copy(snapshot, hm.Data)
	}

	var ng *NoiseGenerator
	if b.Type == BrushNoise {
		ng = NewNoiseGenerator(b.NoiseSeed)
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !hm.InBounds(x, y) {
				continue
			}
			dx := float32(x) - cx
			dy := float32(y) - cy
			d := float32(math.Sqrt(float64(dx*dx+dy*dy))) / radius
			if d > 1 {
				continue
			}
			weight := b.Strength * falloffWeight(b.Falloff, d)

			idx := hm.Index(x, y)
			switch b.Type {
			case BrushRaise:
				hm.Data[idx] += weight
			case BrushLower:
				hm.Data[idx] -= weight
			case BrushSmooth:
				avg := boxAverage(snapshot, hm.Width, hm.Height, x, y, 3)
				hm.Data[idx] += (avg - hm.Data[idx]) * weight
			case BrushFlatten:
				hm.Data[idx] += (target - hm.Data[idx]) * weight
			case BrushNoise:
				n := ng.Noise2D(float64(x)*b.NoiseScale, float64(y)*b.NoiseScale)
				hm.Data[idx] += float32(n) * weight
			}
		}
	}

	hm.RecomputeBounds()
	return nil
}

// boxAverage returns the mean of the cells within the given radius of (x, y),
// counting only in-range samples.
func boxAverage(data []float32, width, height, x, y, radius int) float32 {
	var sum float32
	var count int
	for ny := y - radius; ny <= y+radius; ny++ {
		for nx := x - radius; nx <= x+radius; nx++ {
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			sum += data[ny*width+nx]
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float32(count)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
