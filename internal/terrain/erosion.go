package terrain

import (
	"fmt"
	"math"
	"math/rand"
)

// maxDropletSteps caps how far a single droplet can travel.
const maxDropletSteps = 100

// ErosionSimulator runs droplet-based hydraulic erosion and an optional
// thermal pass. The simulator owns its random source so identical seeds
// reproduce identical terrain.
type ErosionSimulator struct {
	rng *rand.Rand
}

// NewErosionSimulator creates a simulator with a seeded random source.
func NewErosionSimulator(seed int64) *ErosionSimulator {
	return &ErosionSimulator{rng: rand.New(rand.NewSource(seed))}
}

// SimulateHydraulic runs settings.Iterations independent droplets over the
// heightmap, then the thermal pass if enabled, and recomputes bounds.
// Zero iterations with thermal disabled leaves the data bit-identical.
func (e *ErosionSimulator) SimulateHydraulic(hm *HeightmapData, s ErosionSettings) error {
	if hm == nil {
		return fmt.Errorf("erosion: nil heightmap")
	}
	if s.Iterations < 0 {
		return fmt.Errorf("erosion: iterations must be non-negative, got %d", s.Iterations)
	}

	for i := 0; i < s.Iterations; i++ {
		e.traceDroplet(hm, s)
	}

	if s.ThermalErosion {
		thermalPass(hm, s)
	}

	hm.RecomputeBounds()
	return nil
}

// traceDroplet spawns one droplet at a random continuous position and walks
// it downhill, eroding and depositing sediment along the way.
func (e *ErosionSimulator) traceDroplet(hm *HeightmapData, s ErosionSettings) {
	posX := e.rng.Float32() * float32(hm.Width-1)
	posY := e.rng.Float32() * float32(hm.Height-1)

	var dirX, dirY float32
	speed := float32(1)
	water := s.RainAmount
	sediment := float32(0)

	for step := 0; step < maxDropletSteps; step++ {
		ix := int(posX)
		iy := int(posY)
		if !hm.InBounds(ix, iy) {
			return
		}

		gradX, gradY := gradientAt(hm, ix, iy)

		// Blend inertia with the downhill direction. A near-zero result
		// means the droplet sits on flat or symmetric ground; stop rather
		// than divide by zero.
		dirX = dirX*0.5 - gradX*0.5
		dirY = dirY*0.5 - gradY*0.5
		length := float32(math.Sqrt(float64(dirX*dirX + dirY*dirY)))
		if length < 0.01 {
			return
		}
		dirX /= length
		dirY /= length

		newX := posX + dirX
		newY := posY + dirY
		if newX < 0 || newY < 0 || newX > float32(hm.Width-1) || newY > float32(hm.Height-1) {
			return
		}

		oldHeight := hm.SampleHeight(posX, posY)
		newHeight := hm.SampleHeight(newX, newY)
		deltaHeight := newHeight - oldHeight

		capacity := -deltaHeight * speed * water * s.SedimentCapacity
		if capacity < s.MinSlope {
			capacity = s.MinSlope
		}

		idx := hm.Index(ix, iy)
		if sediment > capacity || deltaHeight > 0 {
			// Moving uphill: drop enough to fill the pit. Otherwise shed the
			// excess over capacity.
			var deposit float32
			if deltaHeight > 0 {
				deposit = deltaHeight
				if deposit > sediment {
					deposit = sediment
				}
			} else {
				deposit = (sediment - capacity) * s.DepositionStrength
			}
			hm.Data[idx] += deposit
			sediment -= deposit
		} else {
			erode := (capacity - sediment) * s.ErosionStrength
			if erode > -deltaHeight {
				erode = -deltaHeight
			}
			hm.Data[idx] -= erode
			sediment += erode
		}

		speedSq := speed*speed + deltaHeight*s.Gravity
		if speedSq < 0 {
			speedSq = 0
		}
		speed = float32(math.Sqrt(float64(speedSq)))

		water *= 1 - s.EvaporationRate
		if water < 0.01 {
			return
		}

		posX = newX
		posY = newY
	}
}

// gradientAt samples the local height gradient via central differences.
// Neighbor reads are clamped to the grid so border cells never index out of
// range.
func gradientAt(hm *HeightmapData, x, y int) (float32, float32) {
	x0 := clampInt(x-1, 0, hm.Width-1)
	x1 := clampInt(x+1, 0, hm.Width-1)
	y0 := clampInt(y-1, 0, hm.Height-1)
	y1 := clampInt(y+1, 0, hm.Height-1)

	gradX := (hm.At(x1, y) - hm.At(x0, y)) * 0.5
	gradY := (hm.At(x, y1) - hm.At(x, y0)) * 0.5
	return gradX, gradY
}

// thermalPass relaxes slopes steeper than the talus angle, moving material
// from each interior cell to its steepest lower neighbor. Transfers go
// through a delta buffer so the scan order cannot bias the result.
func thermalPass(hm *HeightmapData, s ErosionSettings) {
	talus := float32(math.Tan(float64(s.ThermalAngleDegrees) * math.Pi / 180))
	deltas := make([]float32, len(hm.Data))

	offsets := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for y := 1; y < hm.Height-1; y++ {
		for x := 1; x < hm.Width-1; x++ {
			h := hm.At(x, y)

			var maxDelta float32
			lowestX, lowestY := x, y
			for _, o := range offsets {
				nx, ny := x+o[0], y+o[1]
				if delta := h - hm.At(nx, ny); delta > maxDelta {
					maxDelta = delta
					lowestX, lowestY = nx, ny
				}
			}

			if maxDelta > talus {
				transfer := (maxDelta - talus) * s.ThermalStrength * 0.5
				deltas[hm.Index(x, y)] -= transfer
				deltas[hm.Index(lowestX, lowestY)] += transfer
			}
		}
	}

	for i, d := range deltas {
		hm.Data[i] += d
	}
}
