package terrain

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// scatterSize holds the per-axis scale ranges a prototype allows.
type scatterSize struct {
	minWidth, maxWidth   float32
	minHeight, maxHeight float32
}

// AutoPlaceTrees scatters tree instances across the heightmap using the
// prototype's density, slope/height filters, and noise mask, and returns the
// new placements. Density is a target average, not an exact count: the noise
// mask probabilistically rejects probes.
func AutoPlaceTrees(hm *HeightmapData, cfg TerrainConfig, proto TreePrototype, seed int64) ([]Placement, error) {
	size := scatterSize{proto.MinWidth, proto.MaxWidth, proto.MinHeight, proto.MaxHeight}
	return scatter(hm, cfg, proto.ID, proto.Filter, size, seed)
}

// AutoPlaceGrass scatters grass patches with the same probe model as trees.
func AutoPlaceGrass(hm *HeightmapData, cfg TerrainConfig, proto GrassPrototype, seed int64) ([]Placement, error) {
	size := scatterSize{proto.MinWidth, proto.MaxWidth, proto.MinHeight, proto.MaxHeight}
	return scatter(hm, cfg, proto.ID, proto.Filter, size, seed)
}

// AutoPlaceDetail scatters a detail layer (rocks, debris) with uniform scale.
func AutoPlaceDetail(hm *HeightmapData, cfg TerrainConfig, layer DetailLayer, seed int64) ([]Placement, error) {
	size := scatterSize{layer.MinScale, layer.MaxScale, layer.MinScale, layer.MaxScale}
	return scatter(hm, cfg, layer.ID, layer.Filter, size, seed)
}

// scatter steps a probe grid across the heightmap at a spacing derived from
// the density, rejects probes failing the height, slope, or noise filters,
// and records one jittered instance per surviving probe.
func scatter(hm *HeightmapData, cfg TerrainConfig, protoID string, f ScatterFilter, size scatterSize, seed int64) ([]Placement, error) {
	if hm == nil {
		return nil, fmt.Errorf("scatter: nil heightmap")
	}
	if f.Density <= 0 {
		return nil, fmt.Errorf("scatter: density must be positive, got %g", f.Density)
	}

	spacing := int(math.Sqrt(1 / float64(f.Density)))
	if spacing < 1 {
		spacing = 1
	}

	rng := rand.New(rand.NewSource(seed))
	ng := NewNoiseGenerator(seed)
	heightRange := hm.MaxHeight - hm.MinHeight
	cellX, cellY := cfg.CellSize(hm)

	var placed []Placement
	for py := 0; py < hm.Height; py += spacing {
		for px := 0; px < hm.Width; px += spacing {
			normHeight := float32(0)
			if heightRange > 0 {
				normHeight = (hm.At(px, py) - hm.MinHeight) / heightRange
			}
			if normHeight < f.HeightMin || normHeight > f.HeightMax {
				continue
			}
			if slopeDegreesAt(hm, px, py, cellX, cellY) > f.SlopeLimit {
				continue
			}
			if ng.Noise2D(float64(px)*f.NoiseScale, float64(py)*f.NoiseScale) < f.NoiseThreshold {
				continue
			}

			// Jitter within one cell; elevation comes from the unjittered
			// probe so the instance sits on sampled ground.
			jx := float32(px) + rng.Float32()
			jy := float32(py) + rng.Float32()
			if jx > float32(hm.Width-1) {
				jx = float32(hm.Width - 1)
			}
			if jy > float32(hm.Height-1) {
				jy = float32(hm.Height - 1)
			}

			u := jx / float32(hm.Width-1)
			v := jy / float32(hm.Height-1)
			world := mgl32.Vec3{
				cfg.Position.X() + (u-0.5)*cfg.Width,
				hm.At(px, py),
				cfg.Position.Z() + (v-0.5)*cfg.Depth,
			}

			w := size.minWidth + rng.Float32()*(size.maxWidth-size.minWidth)
			h := size.minHeight + rng.Float32()*(size.maxHeight-size.minHeight)

			placed = append(placed, Placement{
				PrototypeID: protoID,
				Position:    world,
				Rotation:    rng.Float32() * 2 * math.Pi,
				Scale:       mgl32.Vec3{w, h, w},
			})
		}
	}
	return placed, nil
}
