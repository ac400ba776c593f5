package terrain

import (
	"testing"
)

func newTestService() *TerrainService {
	return NewTerrainService(nil)
}

func TestServiceCreateGetDelete(t *testing.T) {
	svc := newTestService()

	a, err := svc.CreateTerrain("alpha", testConfig(33))
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.CreateTerrain("beta", testConfig(33))
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Fatalf("instances share id %q", a.ID)
	}
	if a.Heightmap.Width != 33 || a.Heightmap.Height != 33 {
		t.Errorf("heightmap is %dx%d, want 33x33", a.Heightmap.Width, a.Heightmap.Height)
	}

	if got := svc.Get(a.ID); got != a {
		t.Error("Get returned a different instance")
	}
	if got := svc.Get("terrain_999"); got != nil {
		t.Errorf("expected nil for unknown id, got %v", got)
	}
	if got := len(svc.List()); got != 2 {
		t.Errorf("expected 2 instances, got %d", got)
	}

	if !svc.Delete(a.ID) {
		t.Error("Delete reported missing for an existing instance")
	}
	if svc.Delete(a.ID) {
		t.Error("Delete reported success for an already-deleted instance")
	}
	if got := svc.Get(a.ID); got != nil {
		t.Error("deleted instance still reachable")
	}
}

func TestServiceCreateTerrainValidation(t *testing.T) {
	svc := newTestService()
	cfg := testConfig(33)
	cfg.Resolution = 1
	if _, err := svc.CreateTerrain("bad", cfg); err == nil {
		t.Error("expected error for resolution below 2")
	}
}

func TestServiceCreateFromPreset(t *testing.T) {
	svc := newTestService()

	inst, err := svc.CreateFromPreset("hills", "rolling-hills", testConfig(65), 7)
	if err != nil {
		t.Fatal(err)
	}
	if inst == nil {
		t.Fatal("expected instance for built-in preset")
	}
	if inst.Heightmap.MaxHeight <= inst.Heightmap.MinHeight {
		t.Error("preset generation left the heightmap flat")
	}
	if len(inst.Layers) == 0 {
		t.Error("preset did not attach default layers")
	}
	if len(inst.SplatMaps) == 0 {
		t.Error("preset did not auto-generate splat maps")
	}
	assertBounds(t, inst.Heightmap)
}

func TestServiceCreateFromPresetUnknown(t *testing.T) {
	svc := newTestService()

	inst, err := svc.CreateFromPreset("x", "no-such-preset", testConfig(33), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst != nil {
		t.Error("expected nil instance for unknown preset")
	}
	if got := len(svc.List()); got != 0 {
		t.Errorf("unknown preset leaked %d instances", got)
	}
}

func TestServiceRegisteredPresetShadowsBuiltin(t *testing.T) {
	svc := newTestService()
	svc.RegisterPresets([]TerrainPreset{{
		ID:        "rolling-hills",
		Name:      "Custom Hills",
		Generator: GenRidged,
		Params:    GeneratorParams{Scale: 30, Octaves: 3, Persistence: 0.5, Amplitude: 20, RidgePower: 2},
	}})

	inst, err := svc.CreateFromPreset("custom", "rolling-hills", testConfig(33), 3)
	if err != nil {
		t.Fatal(err)
	}
	if inst == nil {
		t.Fatal("expected instance")
	}
	// The registered preset has no default layers, unlike the built-in.
	if len(inst.Layers) != 0 {
		t.Errorf("expected registered preset to win, got %d layers from the built-in", len(inst.Layers))
	}
}

func TestServiceBrushAndErode(t *testing.T) {
	svc := newTestService()
	inst, err := svc.CreateTerrain("sculpt", testConfig(33))
	if err != nil {
		t.Fatal(err)
	}

	brush := BrushSettings{Type: BrushRaise, Size: 10, Strength: 5, Falloff: FalloffSmooth}
	ok, err := svc.ApplyBrush(inst.ID, 0, 0, brush)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("brush reported unknown id for an existing instance")
	}
	if inst.Heightmap.MaxHeight <= 0 {
		t.Error("raise brush did not raise the surface")
	}

	before := inst.Heightmap.Clone()
	settings := DefaultErosionSettings()
	settings.Iterations = 2000
	ok, err = svc.Erode(inst.ID, settings, 11)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("erode reported unknown id for an existing instance")
	}
	changed := false
	for i := range before.Data {
		if before.Data[i] != inst.Heightmap.Data[i] {
			changed = true
			break
		}
	}
	if !changed {
		t.Error("erosion left the sculpted hill untouched")
	}

	if ok, err := svc.ApplyBrush("terrain_999", 0, 0, brush); ok || err != nil {
		t.Errorf("unknown id: got ok=%v err=%v, want false,nil", ok, err)
	}
	if ok, err := svc.Erode("terrain_999", settings, 1); ok || err != nil {
		t.Errorf("unknown id: got ok=%v err=%v, want false,nil", ok, err)
	}
}

func TestServiceSplat(t *testing.T) {
	svc := newTestService()
	inst, err := svc.CreateFromPreset("hills", "rolling-hills", testConfig(33), 5)
	if err != nil || inst == nil {
		t.Fatalf("preset create failed: %v", err)
	}

	ok, err := svc.AutoSplat(inst.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("auto splat reported unknown id")
	}
	assertSplatNormalized(t, inst.SplatMaps)

	brush := BrushSettings{Size: 8, Strength: 0.8, Falloff: FalloffLinear}
	ok, err = svc.PaintSplat(inst.ID, 0, 0, 1, brush)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("paint reported failure for a valid layer")
	}
	assertSplatNormalized(t, inst.SplatMaps)

	if ok, _ := svc.PaintSplat(inst.ID, 0, 0, 99, brush); ok {
		t.Error("expected false for a layer index with no channel")
	}
	if ok, err := svc.AutoSplat("terrain_999"); ok || err != nil {
		t.Errorf("unknown id: got ok=%v err=%v, want false,nil", ok, err)
	}
}

func TestServiceAutoSplatAfterImport(t *testing.T) {
	svc := newTestService()
	inst, err := svc.CreateFromPreset("resized", "rolling-hills", testConfig(16), 21)
	if err != nil || inst == nil {
		t.Fatalf("preset create failed: %v", err)
	}
	if len(inst.SplatMaps) == 0 || inst.SplatMaps[0].Width != 16 {
		t.Fatal("expected 16x16 splat maps from preset creation")
	}

	// Import a raster at a different resolution, then regenerate splats.
	samples := make([]uint8, 32*32)
	for i := range samples {
		samples[i] = uint8(i % 256)
	}
	if ok, err := svc.ImportHeightmap(inst.ID, samples, 32, 32); !ok || err != nil {
		t.Fatalf("import failed: ok=%v err=%v", ok, err)
	}

	ok, err := svc.AutoSplat(inst.ID)
	if err != nil {
		t.Fatalf("auto splat after import failed: %v", err)
	}
	if !ok {
		t.Fatal("auto splat reported unknown id")
	}
	if inst.SplatMaps[0].Width != 32 || inst.SplatMaps[0].Height != 32 {
		t.Fatalf("splat maps not resized: got %dx%d, want 32x32",
			inst.SplatMaps[0].Width, inst.SplatMaps[0].Height)
	}
	assertSplatNormalized(t, inst.SplatMaps)
}

func TestServiceScatter(t *testing.T) {
	svc := newTestService()
	inst, err := svc.CreateTerrain("flat", testConfig(50))
	if err != nil {
		t.Fatal(err)
	}

	proto := TreePrototype{
		ID:       "pine",
		MinWidth: 0.8, MaxWidth: 1.2,
		MinHeight: 0.8, MaxHeight: 1.2,
		Filter: ScatterFilter{
			Density:    0.01,
			SlopeLimit: 45,
			HeightMin:  0, HeightMax: 1,
			NoiseScale:     0.05,
			NoiseThreshold: -1,
		},
	}
	count, err := svc.ScatterTrees(inst.ID, proto, 9)
	if err != nil {
		t.Fatal(err)
	}
	if count == 0 {
		t.Fatal("no trees placed on a flat permissive terrain")
	}
	if len(inst.Placements) != count {
		t.Errorf("placements not recorded: have %d, placed %d", len(inst.Placements), count)
	}

	grass := GrassPrototype{
		ID:       "meadow",
		MinWidth: 1, MaxWidth: 1,
		MinHeight: 1, MaxHeight: 1,
		Filter: proto.Filter,
	}
	gcount, err := svc.ScatterGrass(inst.ID, grass, 9)
	if err != nil {
		t.Fatal(err)
	}
	if gcount == 0 {
		t.Error("no grass placed on a flat permissive terrain")
	}
	if len(inst.Placements) != count+gcount {
		t.Errorf("expected %d placements, got %d", count+gcount, len(inst.Placements))
	}

	if n, err := svc.ScatterTrees("terrain_999", proto, 1); n != 0 || err != nil {
		t.Errorf("unknown id: got n=%d err=%v, want 0,nil", n, err)
	}
}

func TestServiceBuildMeshAndChunk(t *testing.T) {
	svc := newTestService()
	inst, err := svc.CreateFromPreset("m", "mountain-ridge", testConfig(33), 4)
	if err != nil || inst == nil {
		t.Fatalf("preset create failed: %v", err)
	}

	full, err := svc.BuildMesh(inst.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if full.VertexCount() != 33*33 {
		t.Errorf("expected %d vertices, got %d", 33*33, full.VertexCount())
	}

	coarse, err := svc.BuildMesh(inst.ID, 4)
	if err != nil {
		t.Fatal(err)
	}
	// ceil(33/4) = 9 samples per side after downsampling.
	if coarse.VertexCount() != 9*9 {
		t.Errorf("expected %d vertices at LOD 4, got %d", 9*9, coarse.VertexCount())
	}

	chunk, err := svc.BuildChunk(inst.ID, 0, 0, 16, 1)
	if err != nil {
		t.Fatal(err)
	}
	if chunk == nil || chunk.VertexCount() != 17*17 {
		t.Error("chunk build returned wrong geometry")
	}
	if out, err := svc.BuildChunk(inst.ID, 9, 9, 16, 1); out != nil || err != nil {
		t.Errorf("out-of-range chunk: got mesh=%v err=%v, want nil,nil", out, err)
	}
	if out, err := svc.BuildMesh("terrain_999", 1); out != nil || err != nil {
		t.Errorf("unknown id: got mesh=%v err=%v, want nil,nil", out, err)
	}
	if _, err := svc.BuildMesh(inst.ID, 0); err == nil {
		t.Error("expected error for lod level 0")
	}
	if _, err := svc.BuildMesh(inst.ID, -1); err == nil {
		t.Error("expected error for negative lod level")
	}
}

func TestServiceHeightmapRoundTrip(t *testing.T) {
	svc := newTestService()
	inst, err := svc.CreateFromPreset("io", "rolling-hills", testConfig(33), 13)
	if err != nil || inst == nil {
		t.Fatalf("preset create failed: %v", err)
	}

	samples := svc.ExportHeightmap(inst.ID)
	if len(samples) != 33*33 {
		t.Fatalf("expected %d samples, got %d", 33*33, len(samples))
	}

	ok, err := svc.ImportHeightmap(inst.ID, samples, 33, 33)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("import reported unknown id")
	}
	if inst.Heightmap.Width != 33 || inst.Heightmap.Height != 33 {
		t.Errorf("imported heightmap is %dx%d", inst.Heightmap.Width, inst.Heightmap.Height)
	}
	if inst.Heightmap.MaxHeight > inst.Config.Height {
		t.Errorf("imported heights exceed the configured range: %f > %f",
			inst.Heightmap.MaxHeight, inst.Config.Height)
	}

	if got := svc.ExportHeightmap("terrain_999"); got != nil {
		t.Error("expected nil export for unknown id")
	}
	if _, err := svc.ImportHeightmap(inst.ID, samples, 10, 10); err == nil {
		t.Error("expected error for mismatched sample count")
	}
}
