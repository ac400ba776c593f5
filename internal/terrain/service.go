package terrain

import (
	"fmt"

	"go.uber.org/zap"
)

// TerrainService owns the collection of terrain instances and composes the
// generation, sculpting, and mesh components into editor-facing operations.
// It is the sole authority on instance lifetime. All methods assume a single
// logical caller; the service performs no internal locking.
type TerrainService struct {
	log      *zap.Logger
	terrains map[string]*TerrainInstance
	presets  []TerrainPreset // registered on top of the built-in catalog
	nextID   int
}

// NewTerrainService creates an empty service. A nil logger disables logging.
func NewTerrainService(log *zap.Logger) *TerrainService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TerrainService{
		log:      log,
		terrains: make(map[string]*TerrainInstance),
	}
}

// CreateTerrain creates an empty (flat) terrain instance.
func (s *TerrainService) CreateTerrain(name string, cfg TerrainConfig) (*TerrainInstance, error) {
	if cfg.Resolution < 2 {
		return nil, fmt.Errorf("terrain resolution must be at least 2, got %d", cfg.Resolution)
	}
	hm, err := NewHeightmapData(cfg.Resolution, cfg.Resolution)
	if err != nil {
		return nil, err
	}

	s.nextID++
	inst := &TerrainInstance{
		ID:        fmt.Sprintf("terrain_%d", s.nextID),
		Name:      name,
		Config:    cfg,
		Heightmap: hm,
	}
	s.terrains[inst.ID] = inst
	s.log.Info("terrain created",
		zap.String("id", inst.ID),
		zap.String("name", name),
		zap.Int("resolution", cfg.Resolution))
	return inst, nil
}

// CreateFromPreset creates a terrain, fills its heightmap with the preset's
// generator, and attaches the preset's default layers with auto-generated
// splat maps. An unknown preset id returns nil without error.
func (s *TerrainService) CreateFromPreset(name, presetID string, cfg TerrainConfig, seed int64) (*TerrainInstance, error) {
	preset := s.lookupPreset(presetID)
	if preset == nil {
		s.log.Warn("unknown terrain preset", zap.String("preset", presetID))
		return nil, nil
	}

	inst, err := s.CreateTerrain(name, cfg)
	if err != nil {
		return nil, err
	}

	params := preset.Params
	params.Seed = seed
	if err := Generate(inst.Heightmap, preset.Generator, params); err != nil {
		delete(s.terrains, inst.ID)
		return nil, fmt.Errorf("generating preset %q: %w", presetID, err)
	}

	inst.Layers = append([]TerrainLayer(nil), preset.DefaultLayers...)
	if len(inst.Layers) > 0 {
		maps, err := AutoGenerateSplatMaps(inst.Heightmap, inst.Config, inst.Layers, nil)
		if err != nil {
			delete(s.terrains, inst.ID)
			return nil, err
		}
		inst.SplatMaps = maps
	}

	s.log.Info("terrain generated from preset",
		zap.String("id", inst.ID),
		zap.String("preset", presetID),
		zap.Int64("seed", seed))
	return inst, nil
}

// Get returns the instance with the given id, or nil if unknown.
func (s *TerrainService) Get(id string) *TerrainInstance {
	return s.terrains[id]
}

// List returns all instances in unspecified order.
func (s *TerrainService) List() []*TerrainInstance {
	out := make([]*TerrainInstance, 0, len(s.terrains))
	for _, inst := range s.terrains {
		out = append(out, inst)
	}
	return out
}

// Delete removes an instance and reports whether it existed.
func (s *TerrainService) Delete(id string) bool {
	if _, ok := s.terrains[id]; !ok {
		return false
	}
	delete(s.terrains, id)
	s.log.Info("terrain deleted", zap.String("id", id))
	return true
}

// RegisterPresets adds presets (e.g. loaded from a YAML catalog) on top of
// the built-in ones. Registered presets shadow built-ins with the same id.
func (s *TerrainService) RegisterPresets(presets []TerrainPreset) {
	s.presets = append(s.presets, presets...)
}

func (s *TerrainService) lookupPreset(id string) *TerrainPreset {
	for i := range s.presets {
		if s.presets[i].ID == id {
			return &s.presets[i]
		}
	}
	return PresetByID(id)
}

// ApplyBrush applies a brush stroke to an instance. Returns false for an
// unknown terrain id.
func (s *TerrainService) ApplyBrush(id string, worldX, worldZ float32, b BrushSettings) (bool, error) {
	inst := s.terrains[id]
	if inst == nil {
		return false, nil
	}
	if err := ApplyBrush(inst.Heightmap, inst.Config, worldX, worldZ, b); err != nil {
		return false, err
	}
	return true, nil
}

// Erode runs hydraulic (and optionally thermal) erosion on an instance.
// The call blocks until all iterations complete.
func (s *TerrainService) Erode(id string, settings ErosionSettings, seed int64) (bool, error) {
	inst := s.terrains[id]
	if inst == nil {
		return false, nil
	}
	sim := NewErosionSimulator(seed)
	if err := sim.SimulateHydraulic(inst.Heightmap, settings); err != nil {
		return false, err
	}
	s.log.Debug("erosion pass complete",
		zap.String("id", id),
		zap.Int("iterations", settings.Iterations),
		zap.Bool("thermal", settings.ThermalErosion))
	return true, nil
}

// PaintSplat paints blend weight for one layer around a world position.
// Returns false for an unknown terrain id or a layer index with no channel.
func (s *TerrainService) PaintSplat(id string, worldX, worldZ float32, layerIndex int, b BrushSettings) (bool, error) {
	inst := s.terrains[id]
	if inst == nil {
		return false, nil
	}
	return PaintLayer(inst.SplatMaps, inst.Config, worldX, worldZ, layerIndex, b)
}

// AutoSplat regenerates all splat maps from the instance's layer bands.
func (s *TerrainService) AutoSplat(id string) (bool, error) {
	inst := s.terrains[id]
	if inst == nil {
		return false, nil
	}
	maps, err := AutoGenerateSplatMaps(inst.Heightmap, inst.Config, inst.Layers, inst.SplatMaps)
	if err != nil {
		return false, err
	}
	inst.SplatMaps = maps
	return true, nil
}

// ScatterTrees places instances of a tree prototype and appends them to the
// instance's placement records. Returns the number placed.
func (s *TerrainService) ScatterTrees(id string, proto TreePrototype, seed int64) (int, error) {
	inst := s.terrains[id]
	if inst == nil {
		return 0, nil
	}
	placed, err := AutoPlaceTrees(inst.Heightmap, inst.Config, proto, seed)
	if err != nil {
		return 0, err
	}
	inst.Placements = append(inst.Placements, placed...)
	s.log.Debug("trees scattered",
		zap.String("id", id),
		zap.String("prototype", proto.ID),
		zap.Int("count", len(placed)))
	return len(placed), nil
}

// ScatterGrass places instances of a grass prototype. Returns the number
// placed.
func (s *TerrainService) ScatterGrass(id string, proto GrassPrototype, seed int64) (int, error) {
	inst := s.terrains[id]
	if inst == nil {
		return 0, nil
	}
	placed, err := AutoPlaceGrass(inst.Heightmap, inst.Config, proto, seed)
	if err != nil {
		return 0, err
	}
	inst.Placements = append(inst.Placements, placed...)
	return len(placed), nil
}

// BuildMesh builds the full-terrain mesh at the given LOD level.
func (s *TerrainService) BuildMesh(id string, lodLevel int) (*TerrainMesh, error) {
	if lodLevel < 1 {
		return nil, fmt.Errorf("mesh: lod level must be >= 1, got %d", lodLevel)
	}
	inst := s.terrains[id]
	if inst == nil {
		return nil, nil
	}
	hm := inst.Heightmap
	if lodLevel > 1 {
		var err error
		if hm, err = Downsample(hm, lodLevel); err != nil {
			return nil, err
		}
	}
	return BuildMesh(hm, inst.Config)
}

// BuildChunk builds geometry for one chunk of the terrain at the given LOD.
// Returns nil for chunk coordinates outside the grid.
func (s *TerrainService) BuildChunk(id string, chunkX, chunkZ, chunkSize, lodLevel int) (*TerrainMesh, error) {
	inst := s.terrains[id]
	if inst == nil {
		return nil, nil
	}
	return BuildChunk(inst.Heightmap, inst.Config, chunkX, chunkZ, chunkSize, lodLevel)
}

// ExportHeightmap returns the instance's heightmap as 0-255 grayscale
// samples, or nil for an unknown id. Raster encoding is the caller's job.
func (s *TerrainService) ExportHeightmap(id string) []uint8 {
	inst := s.terrains[id]
	if inst == nil {
		return nil
	}
	return inst.Heightmap.ToGrayscale()
}

// ImportHeightmap replaces the instance's heightmap from grayscale samples,
// mapping the byte range onto [0, Config.Height].
func (s *TerrainService) ImportHeightmap(id string, samples []uint8, width, height int) (bool, error) {
	inst := s.terrains[id]
	if inst == nil {
		return false, nil
	}
	hm, err := FromGrayscale(samples, width, height, inst.Config.Height)
	if err != nil {
		return false, err
	}
	inst.Heightmap = hm
	return true, nil
}
