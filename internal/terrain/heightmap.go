package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// NewHeightmapData allocates a flat heightmap. Non-positive dimensions are a
// caller error and fail fast.
func NewHeightmapData(width, height int) (*HeightmapData, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("heightmap dimensions must be positive, got %dx%d", width, height)
	}
	return &HeightmapData{
		Width:  width,
		Height: height,
		Data:   make([]float32, width*height),
	}, nil
}

// Index returns the linear index for cell (x, y).
func (h *HeightmapData) Index(x, y int) int { return y*h.Width + x }

// At returns the elevation at cell (x, y).
func (h *HeightmapData) At(x, y int) float32 { return h.Data[y*h.Width+x] }

// Set writes the elevation at cell (x, y) without updating bounds.
// Callers batching writes must call RecomputeBounds afterward.
func (h *HeightmapData) Set(x, y int, v float32) { h.Data[y*h.Width+x] = v }

// InBounds reports whether (x, y) is a valid cell.
func (h *HeightmapData) InBounds(x, y int) bool {
	return x >= 0 && x < h.Width && y >= 0 && y < h.Height
}

// RecomputeBounds rescans the full grid and updates MinHeight/MaxHeight.
// O(Width·Height); every mutating operation calls this before returning.
func (h *HeightmapData) RecomputeBounds() {
	if len(h.Data) == 0 {
		h.MinHeight, h.MaxHeight = 0, 0
		return
	}
	min, max := h.Data[0], h.Data[0]
	for _, v := range h.Data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	h.MinHeight, h.MaxHeight = min, max
}

// Clone returns a deep copy sharing no storage with the receiver.
func (h *HeightmapData) Clone() *HeightmapData {
	c := &HeightmapData{
		Width:     h.Width,
		Height:    h.Height,
		Data:      make([]float32, len(h.Data)),
		MinHeight: h.MinHeight,
		MaxHeight: h.MaxHeight,
	}
	copy(c.Data, h.Data)
	return c
}

// SampleHeight returns the bilinearly interpolated elevation at the
// continuous grid position (fx, fy). Positions outside the grid are clamped
// to the edge.
func (h *HeightmapData) SampleHeight(fx, fy float32) float32 {
	if fx < 0 {
		fx = 0
	}
	if fy < 0 {
		fy = 0
	}
	maxX := float32(h.Width - 1)
	maxY := float32(h.Height - 1)
	if fx > maxX {
		fx = maxX
	}
	if fy > maxY {
		fy = maxY
	}

	x0 := int(fx)
	y0 := int(fy)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 > h.Width-1 {
		x1 = h.Width - 1
	}
	if y1 > h.Height-1 {
		y1 = h.Height - 1
	}
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	south := h.At(x0, y0)*(1-tx) + h.At(x1, y0)*tx
	north := h.At(x0, y1)*(1-tx) + h.At(x1, y1)*tx
	return south*(1-ty) + north*ty
}

// ToGrayscale exports the heightmap as 0-255 normalized grayscale samples,
// one byte per cell in row-major order. A flat heightmap exports as all
// zeros. Encoding the samples into a raster format is the caller's job.
func (h *HeightmapData) ToGrayscale() []uint8 {
	out := make([]uint8, len(h.Data))
	span := h.MaxHeight - h.MinHeight
	if span <= 0 {
		return out
	}
	for i, v := range h.Data {
		out[i] = uint8((v - h.MinHeight) / span * 255)
	}
	return out
}

// FromGrayscale fills a heightmap from 0-255 samples, mapping the byte range
// onto [0, maxHeight]. The sample slice must hold width*height values.
func FromGrayscale(samples []uint8, width, height int, maxHeight float32) (*HeightmapData, error) {
	hm, err := NewHeightmapData(width, height)
	if err != nil {
		return nil, err
	}
	if len(samples) != width*height {
		return nil, fmt.Errorf("grayscale sample count %d does not match %dx%d grid", len(samples), width, height)
	}
	for i, s := range samples {
		hm.Data[i] = float32(s) / 255 * maxHeight
	}
	hm.RecomputeBounds()
	return hm, nil
}

// GridToWorld maps heightmap cell (x, y) with the given elevation to a world
// position using the terrain's size and placement.
func (c TerrainConfig) GridToWorld(hm *HeightmapData, x, y int, elevation float32) mgl32.Vec3 {
	u := float32(x) / float32(hm.Width-1)
	v := float32(y) / float32(hm.Height-1)
	return mgl32.Vec3{
		c.Position.X() + (u-0.5)*c.Width,
		elevation,
		c.Position.Z() + (v-0.5)*c.Depth,
	}
}

// WorldToGrid maps a world-space (x, z) position to continuous heightmap
// coordinates. Results may lie outside the grid.
func (c TerrainConfig) WorldToGrid(hm *HeightmapData, worldX, worldZ float32) (float32, float32) {
	u := (worldX-c.Position.X())/c.Width + 0.5
	v := (worldZ-c.Position.Z())/c.Depth + 0.5
	return u * float32(hm.Width-1), v * float32(hm.Height-1)
}

// CellSize returns the world-space spacing between adjacent heightmap cells
// along X and Z.
func (c TerrainConfig) CellSize(hm *HeightmapData) (float32, float32) {
	return c.Width / float32(hm.Width-1), c.Depth / float32(hm.Height-1)
}
