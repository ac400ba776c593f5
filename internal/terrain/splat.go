package terrain

import (
	"fmt"
	"math"
)

// splatChannels is the number of blend weights packed into one splat map.
const splatChannels = 4

// NewSplatMap allocates a zeroed splat map.
func NewSplatMap(width, height int) (*SplatMap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("splat map dimensions must be positive, got %dx%d", width, height)
	}
	return &SplatMap{
		Width:    width,
		Height:   height,
		Channels: splatChannels,
		Data:     make([]float32, width*height*splatChannels),
	}, nil
}

// At returns the weight of the given channel at texel (x, y).
func (s *SplatMap) At(x, y, channel int) float32 {
	return s.Data[(y*s.Width+x)*s.Channels+channel]
}

// Set writes the weight of the given channel at texel (x, y).
func (s *SplatMap) Set(x, y, channel int, v float32) {
	s.Data[(y*s.Width+x)*s.Channels+channel] = v
}

// PaintLayer adds falloff-weighted blend weight for one texture layer around
// a world position, then renormalizes each touched texel so its weights
// across all splat maps sum to 1. Returns false without painting when the
// layer index has no backing splat map channel.
func PaintLayer(maps []*SplatMap, cfg TerrainConfig, worldX, worldZ float32, layerIndex int, b BrushSettings) (bool, error) {
	if b.Size <= 0 {
		return false, fmt.Errorf("splat paint: radius must be positive, got %g", b.Size)
	}
	if layerIndex < 0 || layerIndex/splatChannels >= len(maps) {
		return false, nil
	}

	sm := maps[layerIndex/splatChannels]
	channel := layerIndex % splatChannels

	// Same spatial model as the heightmap brush, but in splat texels.
	u := (worldX-cfg.Position.X())/cfg.Width + 0.5
	v := (worldZ-cfg.Position.Z())/cfg.Depth + 0.5
	cx := u * float32(sm.Width-1)
	cy := v * float32(sm.Height-1)
	radius := b.Size / cfg.Width * float32(sm.Width)

	minX := int(math.Floor(float64(cx - radius)))
	maxX := int(math.Ceil(float64(cx + radius)))
	minY := int(math.Floor(float64(cy - radius)))
	maxY := int(math.Ceil(float64(cy + radius)))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if x < 0 || x >= sm.Width || y < 0 || y >= sm.Height {
				continue
			}
			dx := float32(x) - cx
			dy := float32(y) - cy
			d := float32(math.Sqrt(float64(dx*dx+dy*dy))) / radius
			if d > 1 {
				continue
			}
			sm.Set(x, y, channel, sm.At(x, y, channel)+b.Strength*falloffWeight(b.Falloff, d))
			normalizeTexel(maps, x, y)
		}
	}
	return true, nil
}

// normalizeTexel rescales every channel of (x, y) across all splat maps so
// they sum to 1. A texel with no weight anywhere is left untouched.
func normalizeTexel(maps []*SplatMap, x, y int) {
	var total float32
	for _, sm := range maps {
		for c := 0; c < sm.Channels; c++ {
			total += sm.At(x, y, c)
		}
	}
	if total <= 0 {
		return
	}
	for _, sm := range maps {
		for c := 0; c < sm.Channels; c++ {
			sm.Set(x, y, c, sm.At(x, y, c)/total)
		}
	}
}

// AutoGenerateSplatMaps rebuilds splat weights for every texel from the
// layers' height- and slope-bands. It resizes the splat map list to
// ceil(len(layers)/4) maps, replaces any map whose resolution differs from
// the heightmap's, clears all prior data, and returns the (possibly
// re-allocated) list. A texel matching no band is
// assigned fully to layer 0 so the per-texel normalization invariant holds
// everywhere.
func AutoGenerateSplatMaps(hm *HeightmapData, cfg TerrainConfig, layers []TerrainLayer, maps []*SplatMap) ([]*SplatMap, error) {
	if hm == nil {
		return nil, fmt.Errorf("auto splat: nil heightmap")
	}
	if len(layers) == 0 {
		return maps[:0], nil
	}

	needed := (len(layers) + splatChannels - 1) / splatChannels
	if len(maps) > needed {
		maps = maps[:needed]
	}
	// Reallocate maps whose resolution no longer matches the heightmap
	// (e.g. after a heightmap import replaced the grid).
	for i, sm := range maps {
		if sm == nil || sm.Width != hm.Width || sm.Height != hm.Height {
			fresh, err := NewSplatMap(hm.Width, hm.Height)
			if err != nil {
				return nil, err
			}
			maps[i] = fresh
		} else {
			clear(sm.Data)
		}
	}
	for len(maps) < needed {
		sm, err := NewSplatMap(hm.Width, hm.Height)
		if err != nil {
			return nil, err
		}
		maps = append(maps, sm)
	}

	heightRange := hm.MaxHeight - hm.MinHeight
	cellX, cellY := cfg.CellSize(hm)
	weights := make([]float32, len(layers))

	for y := 0; y < hm.Height; y++ {
		for x := 0; x < hm.Width; x++ {
			heightPct := float32(0)
			if heightRange > 0 {
				heightPct = (hm.At(x, y) - hm.MinHeight) / heightRange * 100
			}
			slopeDeg := slopeDegreesAt(hm, x, y, cellX, cellY)

			var total float32
			for i, layer := range layers {
				v := heightPct
				if layer.Rule == BlendSlope {
					v = slopeDeg
				}
				weights[i] = bandWeight(v, layer.Min, layer.Max, layer.Falloff)
				total += weights[i]
			}
			if total <= 0 {
				weights[0] = 1
				for i := 1; i < len(weights); i++ {
					weights[i] = 0
				}
				total = 1
			}

			for i := range layers {
				maps[i/splatChannels].Set(x, y, i%splatChannels, weights[i]/total)
			}
		}
	}
	return maps, nil
}

// bandWeight is 1 inside [min,max], falls off linearly to 0 over the falloff
// distance outside either edge, and is 0 beyond.
func bandWeight(v, min, max, falloff float32) float32 {
	if v >= min && v <= max {
		return 1
	}
	if falloff <= 0 {
		return 0
	}
	var dist float32
	if v < min {
		dist = min - v
	} else {
		dist = v - max
	}
	if dist >= falloff {
		return 0
	}
	return 1 - dist/falloff
}

// slopeDegreesAt returns the surface slope angle at a cell, from the
// world-space height gradient sampled by central differences.
func slopeDegreesAt(hm *HeightmapData, x, y int, cellX, cellY float32) float32 {
	x0 := clampInt(x-1, 0, hm.Width-1)
	x1 := clampInt(x+1, 0, hm.Width-1)
	y0 := clampInt(y-1, 0, hm.Height-1)
	y1 := clampInt(y+1, 0, hm.Height-1)

	var dhdx, dhdy float32
	if x1 > x0 {
		dhdx = (hm.At(x1, y) - hm.At(x0, y)) / (float32(x1-x0) * cellX)
	}
	if y1 > y0 {
		dhdy = (hm.At(x, y1) - hm.At(x, y0)) / (float32(y1-y0) * cellY)
	}

	grad := math.Sqrt(float64(dhdx*dhdx + dhdy*dhdy))
	if grad > 1 {
		grad = 1
	}
	return float32(math.Asin(grad) * 180 / math.Pi)
}
