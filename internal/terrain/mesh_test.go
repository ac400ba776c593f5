package terrain

import (
	"math"
	"testing"
)

func TestBuildMeshTopology(t *testing.T) {
	for _, size := range []int{2, 9, 17} {
		hm, _ := NewHeightmapData(size, size)
		if err := Generate(hm, GenLayered, GeneratorParams{Seed: 2, Scale: 20, Octaves: 2, Persistence: 0.5, Amplitude: 5}); err != nil {
			t.Fatal(err)
		}

		mesh, err := BuildMesh(hm, testConfig(size))
		if err != nil {
			t.Fatalf("size %d: build failed: %v", size, err)
		}

		wantVerts := size * size
		wantTris := (size - 1) * (size - 1) * 2
		if mesh.VertexCount() != wantVerts {
			t.Errorf("size %d: expected %d vertices, got %d", size, wantVerts, mesh.VertexCount())
		}
		if mesh.TriangleCount() != wantTris {
			t.Errorf("size %d: expected %d triangles, got %d", size, wantTris, mesh.TriangleCount())
		}
		if len(mesh.Normals) != wantVerts*3 {
			t.Errorf("size %d: expected %d normal components, got %d", size, wantVerts*3, len(mesh.Normals))
		}
		if len(mesh.UVs) != wantVerts*2 {
			t.Errorf("size %d: expected %d UV components, got %d", size, wantVerts*2, len(mesh.UVs))
		}

		for i, idx := range mesh.Indices {
			if int(idx) >= wantVerts {
				t.Fatalf("size %d: index %d at %d out of range", size, idx, i)
			}
		}
	}
}

func TestBuildMeshNormalsAreUnit(t *testing.T) {
	hm, _ := NewHeightmapData(17, 17)
	if err := Generate(hm, GenRidged, GeneratorParams{Seed: 6, Scale: 10, Octaves: 3, Persistence: 0.5, Amplitude: 15, RidgePower: 2}); err != nil {
		t.Fatal(err)
	}

	mesh, err := BuildMesh(hm, testConfig(17))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < len(mesh.Normals); i += 3 {
		nx := float64(mesh.Normals[i])
		ny := float64(mesh.Normals[i+1])
		nz := float64(mesh.Normals[i+2])
		length := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if math.Abs(length-1) > 1e-4 {
			t.Fatalf("normal %d has length %f", i/3, length)
		}
		if ny <= 0 {
			t.Fatalf("normal %d points downward", i/3)
		}
	}
}

func TestBuildMeshUVCorners(t *testing.T) {
	hm, _ := NewHeightmapData(9, 9)
	mesh, err := BuildMesh(hm, testConfig(9))
	if err != nil {
		t.Fatal(err)
	}

	if mesh.UVs[0] != 0 || mesh.UVs[1] != 0 {
		t.Errorf("first vertex UV = (%f, %f), want (0,0)", mesh.UVs[0], mesh.UVs[1])
	}
	last := mesh.VertexCount() - 1
	if mesh.UVs[last*2] != 1 || mesh.UVs[last*2+1] != 1 {
		t.Errorf("last vertex UV = (%f, %f), want (1,1)", mesh.UVs[last*2], mesh.UVs[last*2+1])
	}
}

func TestDownsampleShape(t *testing.T) {
	tests := []struct {
		w, h, lod    int
		wantW, wantH int
	}{
		{16, 16, 4, 4, 4},
		{17, 17, 4, 5, 5},
		{100, 60, 10, 10, 6},
		{9, 9, 1, 9, 9},
	}

	for _, tt := range tests {
		hm, _ := NewHeightmapData(tt.w, tt.h)
		out, err := Downsample(hm, tt.lod)
		if err != nil {
			t.Fatalf("downsample %dx%d lod %d failed: %v", tt.w, tt.h, tt.lod, err)
		}
		if out.Width != tt.wantW || out.Height != tt.wantH {
			t.Errorf("downsample %dx%d lod %d: got %dx%d, want %dx%d",
				tt.w, tt.h, tt.lod, out.Width, out.Height, tt.wantW, tt.wantH)
		}
	}
}

func TestDownsampleAveragesBlocks(t *testing.T) {
	hm, _ := NewHeightmapData(4, 4)
	// Top-left 2x2 block holds 1,2,3,4 -> mean 2.5.
	hm.Set(0, 0, 1)
	hm.Set(1, 0, 2)
	hm.Set(0, 1, 3)
	hm.Set(1, 1, 4)
	hm.RecomputeBounds()

	out, err := Downsample(hm, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.At(0, 0); got != 2.5 {
		t.Errorf("expected block mean 2.5, got %f", got)
	}
	if got := out.At(1, 1); got != 0 {
		t.Errorf("expected untouched block mean 0, got %f", got)
	}
	assertBounds(t, out)
}

func TestDownsamplePartialEdgeBlocks(t *testing.T) {
	hm, _ := NewHeightmapData(5, 5)
	for i := range hm.Data {
		hm.Data[i] = 3
	}
	hm.RecomputeBounds()

	out, err := Downsample(hm, 2)
	if err != nil {
		t.Fatal(err)
	}
	// Edge blocks average fewer samples but the mean of a constant field is
	// still the constant.
	if out.Width != 3 || out.Height != 3 {
		t.Fatalf("expected 3x3, got %dx%d", out.Width, out.Height)
	}
	for i, v := range out.Data {
		if v != 3 {
			t.Fatalf("cell %d = %f, want 3", i, v)
		}
	}
}

func TestBuildChunkTopologyAndUVs(t *testing.T) {
	hm, _ := NewHeightmapData(33, 33)
	if err := Generate(hm, GenLayered, GeneratorParams{Seed: 8, Scale: 25, Octaves: 2, Persistence: 0.5, Amplitude: 10}); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(33)

	chunk, err := BuildChunk(hm, cfg, 0, 0, 16, 1)
	if err != nil {
		t.Fatalf("chunk build failed: %v", err)
	}
	if chunk == nil {
		t.Fatal("expected chunk, got nil")
	}
	if chunk.VertexCount() != 17*17 {
		t.Errorf("expected 289 vertices, got %d", chunk.VertexCount())
	}
	if chunk.TriangleCount() != 16*16*2 {
		t.Errorf("expected 512 triangles, got %d", chunk.TriangleCount())
	}

	// UVs stay in full-terrain space so neighboring chunks share edge UVs.
	next, err := BuildChunk(hm, cfg, 1, 0, 16, 1)
	if err != nil || next == nil {
		t.Fatalf("neighbor chunk build failed: %v", err)
	}
	// Right edge of chunk 0 and left edge of chunk 1 sample column 16.
	rightU := chunk.UVs[16*2]
	leftU := next.UVs[0]
	if rightU != leftU {
		t.Errorf("chunk edge UVs differ: %f vs %f", rightU, leftU)
	}
	if rightU != 16.0/32.0 {
		t.Errorf("expected shared edge U %f, got %f", 16.0/32.0, rightU)
	}
}

func TestBuildChunkLOD(t *testing.T) {
	hm, _ := NewHeightmapData(33, 33)
	cfg := testConfig(33)

	chunk, err := BuildChunk(hm, cfg, 0, 0, 16, 2)
	if err != nil {
		t.Fatal(err)
	}
	// 17 samples downsampled by 2 -> 9 per side.
	if chunk.VertexCount() != 9*9 {
		t.Errorf("expected 81 vertices at LOD 2, got %d", chunk.VertexCount())
	}
}

func TestBuildChunkOutOfRangeIsSentinel(t *testing.T) {
	hm, _ := NewHeightmapData(33, 33)
	cfg := testConfig(33)

	chunk, err := BuildChunk(hm, cfg, 5, 0, 16, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunk != nil {
		t.Error("expected nil for a chunk outside the grid")
	}

	if _, err := BuildChunk(hm, cfg, 0, 0, 0, 1); err == nil {
		t.Error("expected error for zero chunk size")
	}
}

func TestLODForDistance(t *testing.T) {
	thresholds := []float32{50, 100, 200}
	tests := []struct {
		distance float32
		want     int
	}{
		{0, 1},
		{49, 1},
		{50, 2},
		{99, 2},
		{100, 4},
		{200, 8},
		{10000, 8},
	}

	for _, tt := range tests {
		if got := LODForDistance(tt.distance, thresholds); got != tt.want {
			t.Errorf("LODForDistance(%f) = %d, want %d", tt.distance, got, tt.want)
		}
	}

	if got := LODForDistance(500, nil); got != 1 {
		t.Errorf("expected default LOD 1 with no thresholds, got %d", got)
	}
}
