package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Downsample produces a ceil(W/L) x ceil(H/L) heightmap where each output
// cell is the mean of the corresponding LxL input block. Partial blocks at
// the far edges average only in-range samples.
func Downsample(hm *HeightmapData, lodLevel int) (*HeightmapData, error) {
	if hm == nil {
		return nil, fmt.Errorf("downsample: nil heightmap")
	}
	if lodLevel < 1 {
		return nil, fmt.Errorf("downsample: lod level must be >= 1, got %d", lodLevel)
	}

	outW := (hm.Width + lodLevel - 1) / lodLevel
	outH := (hm.Height + lodLevel - 1) / lodLevel
	out, err := NewHeightmapData(outW, outH)
	if err != nil {
		return nil, err
	}

	for oy := 0; oy < outH; oy++ {
		for ox := 0; ox < outW; ox++ {
			var sum float32
			var count int
			for dy := 0; dy < lodLevel; dy++ {
				for dx := 0; dx < lodLevel; dx++ {
					x := ox*lodLevel + dx
					y := oy*lodLevel + dy
					if x >= hm.Width || y >= hm.Height {
						continue
					}
					sum += hm.At(x, y)
					count++
				}
			}
			out.Set(ox, oy, sum/float32(count))
		}
	}
	out.RecomputeBounds()
	return out, nil
}

// BuildMesh emits flat geometry buffers for the whole grid: W*H vertices,
// per-vertex normals from central-difference gradients, UVs spanning [0,1],
// and (W-1)*(H-1)*2 triangles with consistent winding. The heightmap may be
// a downsampled LOD grid; positions still span the full terrain extent.
func BuildMesh(hm *HeightmapData, cfg TerrainConfig) (*TerrainMesh, error) {
	if hm == nil {
		return nil, fmt.Errorf("mesh: nil heightmap")
	}
	if hm.Width < 2 || hm.Height < 2 {
		return nil, fmt.Errorf("mesh: grid must be at least 2x2, got %dx%d", hm.Width, hm.Height)
	}

	w, h := hm.Width, hm.Height
	mesh := &TerrainMesh{
		Positions: make([]float32, 0, w*h*3),
		Normals:   make([]float32, 0, w*h*3),
		UVs:       make([]float32, 0, w*h*2),
		Indices:   make([]uint32, 0, (w-1)*(h-1)*6),
	}

	cellX, cellY := cfg.CellSize(hm)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pos := cfg.GridToWorld(hm, x, y, hm.At(x, y))
			mesh.Positions = append(mesh.Positions, pos.X(), pos.Y(), pos.Z())

			n := vertexNormal(hm, x, y, cellX, cellY)
			mesh.Normals = append(mesh.Normals, n.X(), n.Y(), n.Z())

			mesh.UVs = append(mesh.UVs, float32(x)/float32(w-1), float32(y)/float32(h-1))
		}
	}

	for y := 0; y < h-1; y++ {
		for x := 0; x < w-1; x++ {
			i := uint32(y*w + x)
			mesh.Indices = append(mesh.Indices,
				i, i+uint32(w), i+1,
				i+1, i+uint32(w), i+uint32(w)+1,
			)
		}
	}
	return mesh, nil
}

// BuildChunk builds geometry for the sub-rectangle starting at
// (chunkX*chunkSize, chunkZ*chunkSize), spanning chunkSize cells, sampled
// every lodLevel cells. UVs stay in full-terrain space so adjacent chunks
// tile without texture seams; geometric seams between differing LOD levels
// are not stitched. Returns nil for chunk coordinates outside the grid.
func BuildChunk(hm *HeightmapData, cfg TerrainConfig, chunkX, chunkZ, chunkSize, lodLevel int) (*TerrainMesh, error) {
	if hm == nil {
		return nil, fmt.Errorf("chunk: nil heightmap")
	}
	if chunkSize < 1 || lodLevel < 1 {
		return nil, fmt.Errorf("chunk: size and lod level must be >= 1, got size=%d lod=%d", chunkSize, lodLevel)
	}

	x0 := chunkX * chunkSize
	y0 := chunkZ * chunkSize
	if chunkX < 0 || chunkZ < 0 || x0 >= hm.Width-1 || y0 >= hm.Height-1 {
		return nil, nil
	}

	xEnd := x0 + chunkSize
	if xEnd > hm.Width-1 {
		xEnd = hm.Width - 1
	}
	yEnd := y0 + chunkSize
	if yEnd > hm.Height-1 {
		yEnd = hm.Height - 1
	}

	countX := (xEnd-x0)/lodLevel + 1
	countY := (yEnd-y0)/lodLevel + 1
	if countX < 2 || countY < 2 {
		return nil, nil
	}

	mesh := &TerrainMesh{
		Positions: make([]float32, 0, countX*countY*3),
		Normals:   make([]float32, 0, countX*countY*3),
		UVs:       make([]float32, 0, countX*countY*2),
		Indices:   make([]uint32, 0, (countX-1)*(countY-1)*6),
	}

	cellX, cellY := cfg.CellSize(hm)
	for iy := 0; iy < countY; iy++ {
		gy := y0 + iy*lodLevel
		for ix := 0; ix < countX; ix++ {
			gx := x0 + ix*lodLevel

			pos := cfg.GridToWorld(hm, gx, gy, hm.At(gx, gy))
			mesh.Positions = append(mesh.Positions, pos.X(), pos.Y(), pos.Z())

			n := vertexNormal(hm, gx, gy, cellX, cellY)
			mesh.Normals = append(mesh.Normals, n.X(), n.Y(), n.Z())

			mesh.UVs = append(mesh.UVs,
				float32(gx)/float32(hm.Width-1),
				float32(gy)/float32(hm.Height-1),
			)
		}
	}

	for iy := 0; iy < countY-1; iy++ {
		for ix := 0; ix < countX-1; ix++ {
			i := uint32(iy*countX + ix)
			mesh.Indices = append(mesh.Indices,
				i, i+uint32(countX), i+1,
				i+1, i+uint32(countX), i+uint32(countX)+1,
			)
		}
	}
	return mesh, nil
}

// LODForDistance picks a power-of-two LOD level from ascending distance
// thresholds: crossing thresholds[i] selects 2^(i+1), below the first
// threshold full resolution (1) is used.
func LODForDistance(distance float32, thresholds []float32) int {
	lod := 1
	for i, th := range thresholds {
		if distance >= th {
			lod = 1 << (i + 1)
		}
	}
	return lod
}

// vertexNormal derives a unit surface normal from the world-space height
// gradient, with neighbor reads clamped to the grid edge.
func vertexNormal(hm *HeightmapData, x, y int, cellX, cellY float32) mgl32.Vec3 {
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
	return mgl32.Vec3{-dhdx, 1, -dhdy}.Normalize()
}
