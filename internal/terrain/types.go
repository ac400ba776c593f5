// Package terrain implements procedural heightmap generation, sculpting,
// erosion, texture splatting, vegetation scatter, and LOD mesh construction.
// It is renderer-agnostic: mesh builders emit flat numeric buffers and the
// raster codec for heightmap exchange lives with the caller.
package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
)

// HeightmapData is a row-major 2D grid of elevation samples.
// MinHeight and MaxHeight track the true bounds of Data; every mutating
// operation recomputes them before returning.
type HeightmapData struct {
	Width, Height int
	Data          []float32
	MinHeight     float32
	MaxHeight     float32
}

// TerrainConfig describes the logical size and placement of one terrain.
// The heightmap cell at normalized coordinate (u,v) maps to world
// (Position.X + (u-0.5)*Width, elevation, Position.Z + (v-0.5)*Depth).
type TerrainConfig struct {
	Width      float32    `yaml:"width"`  // world extent along X
	Depth      float32    `yaml:"depth"`  // world extent along Z
	Height     float32    `yaml:"height"` // max elevation scale
	Resolution int        `yaml:"resolution"`
	Position   mgl32.Vec3 `yaml:"position"`
}

// BlendRule selects which surface property drives a layer's auto-splat band.
type BlendRule string

const (
	BlendHeight BlendRule = "height" // band in percent of the height range
	BlendSlope  BlendRule = "slope"  // band in degrees
)

// TerrainLayer binds a texture to a height- or slope-band for auto splatting.
type TerrainLayer struct {
	Texture string    `yaml:"texture"`
	Rule    BlendRule `yaml:"rule"`
	Min     float32   `yaml:"min"`
	Max     float32   `yaml:"max"`
	Falloff float32   `yaml:"falloff"`
}

// SplatMap holds per-texel blend weights for up to four texture layers.
// Data is row-major with Channels values per texel.
type SplatMap struct {
	Width, Height int
	Channels      int
	Data          []float32
}

// BrushType selects what a brush stroke does to the heightmap.
type BrushType string

const (
	BrushRaise   BrushType = "raise"
	BrushLower   BrushType = "lower"
	BrushSmooth  BrushType = "smooth"
	BrushFlatten BrushType = "flatten"
	BrushNoise   BrushType = "noise"
)

// FalloffCurve maps normalized brush distance [0,1] to an intensity
// multiplier.
type FalloffCurve string

const (
	FalloffLinear FalloffCurve = "linear"
	FalloffSmooth FalloffCurve = "smooth"
	FalloffSphere FalloffCurve = "sphere"
	FalloffTip    FalloffCurve = "tip"
)

// BrushSettings parameterizes one brush stroke. Size is a radius in world
// units; Strength is caller-supplied and not clamped.
type BrushSettings struct {
	Type     BrushType
	Size     float32
	Strength float32
	Falloff  FalloffCurve

	// Flatten only. When HasTarget is false the stroke flattens toward the
	// height at its starting cell.
	TargetHeight float32
	HasTarget    bool

	// Noise brush only.
	NoiseScale float64
	NoiseSeed  int64
}

// ErosionSettings parameterizes droplet-based hydraulic erosion and the
// optional thermal pass.
type ErosionSettings struct {
	Iterations          int     `yaml:"iterations"`
	ErosionStrength     float32 `yaml:"erosion_strength"`
	DepositionStrength  float32 `yaml:"deposition_strength"`
	SedimentCapacity    float32 `yaml:"sediment_capacity"`
	EvaporationRate     float32 `yaml:"evaporation_rate"`
	MinSlope            float32 `yaml:"min_slope"`
	Gravity             float32 `yaml:"gravity"`
	RainAmount          float32 `yaml:"rain_amount"`
	ThermalErosion      bool    `yaml:"thermal_erosion"`
	ThermalStrength     float32 `yaml:"thermal_strength"`
	ThermalAngleDegrees float32 `yaml:"thermal_angle"`
}

// DefaultErosionSettings returns droplet parameters tuned for interactive use.
func DefaultErosionSettings() ErosionSettings {
	return ErosionSettings{
		Iterations:          10000,
		ErosionStrength:     0.3,
		DepositionStrength:  0.3,
		SedimentCapacity:    4.0,
		EvaporationRate:     0.02,
		MinSlope:            0.01,
		Gravity:             4.0,
		RainAmount:          1.0,
		ThermalErosion:      false,
		ThermalStrength:     0.5,
		ThermalAngleDegrees: 35,
	}
}

// ScatterFilter restricts where procedural placement probes may land.
type ScatterFilter struct {
	Density        float32 `yaml:"density"`          // target instances per cell²
	SlopeLimit     float32 `yaml:"slope_limit"`      // degrees
	HeightMin      float32 `yaml:"height_min"`       // normalized [0,1]
	HeightMax      float32 `yaml:"height_max"`       // normalized [0,1]
	NoiseScale     float64 `yaml:"noise_scale"`
	NoiseThreshold float64 `yaml:"noise_threshold"` // probes below are rejected
}

// TreePrototype is a scatter template for tree instances.
type TreePrototype struct {
	ID        string        `yaml:"id"`
	Mesh      string        `yaml:"mesh"`
	MinWidth  float32       `yaml:"min_width"`
	MaxWidth  float32       `yaml:"max_width"`
	MinHeight float32       `yaml:"min_height"`
	MaxHeight float32       `yaml:"max_height"`
	Filter    ScatterFilter `yaml:"filter"`
}

// GrassPrototype is a scatter template for grass patches.
type GrassPrototype struct {
	ID        string        `yaml:"id"`
	Texture   string        `yaml:"texture"`
	MinWidth  float32       `yaml:"min_width"`
	MaxWidth  float32       `yaml:"max_width"`
	MinHeight float32       `yaml:"min_height"`
	MaxHeight float32       `yaml:"max_height"`
	Filter    ScatterFilter `yaml:"filter"`
}

// DetailLayer is a scatter template for small surface detail (rocks, debris).
type DetailLayer struct {
	ID       string        `yaml:"id"`
	Mesh     string        `yaml:"mesh"`
	MinScale float32       `yaml:"min_scale"`
	MaxScale float32       `yaml:"max_scale"`
	Filter   ScatterFilter `yaml:"filter"`
}

// Placement records one scattered object instance in world space.
type Placement struct {
	PrototypeID string
	Position    mgl32.Vec3
	Rotation    float32 // yaw in radians
	Scale       mgl32.Vec3
}

// TerrainInstance aggregates everything owned by one editable terrain.
// Instances are exclusively owned by their TerrainService and must only be
// mutated from a single goroutine.
type TerrainInstance struct {
	ID        string
	Name      string
	Config    TerrainConfig
	Heightmap *HeightmapData
	Layers    []TerrainLayer
	SplatMaps []*SplatMap
	Trees     []TreePrototype
	Grasses   []GrassPrototype
	Details   []DetailLayer

	Placements []Placement
}

// GeneratorKind names a heightmap generation algorithm.
type GeneratorKind string

const (
	GenLayered   GeneratorKind = "layered"
	GenRidged    GeneratorKind = "ridged"
	GenCellular  GeneratorKind = "cellular"
	GenHydraulic GeneratorKind = "hydraulic"
	GenPerlin    GeneratorKind = "perlin"
)

// GeneratorParams parameterizes heightmap generation. Unused fields are
// ignored by kinds that do not need them.
type GeneratorParams struct {
	Seed        int64   `yaml:"seed"`
	Scale       float64 `yaml:"scale"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Amplitude   float32 `yaml:"amplitude"`
	RidgePower  float64 `yaml:"ridge_power"`
	CellFalloff float64 `yaml:"cell_falloff"`

	// Hydraulic kind only: erosion applied after the fractal base layer.
	ErosionIterations int `yaml:"erosion_iterations"`
}

// TerrainPreset is a named one-shot recipe for creating a terrain.
type TerrainPreset struct {
	ID            string          `yaml:"id"`
	Name          string          `yaml:"name"`
	Category      string          `yaml:"category"`
	Generator     GeneratorKind   `yaml:"generator"`
	Params        GeneratorParams `yaml:"params"`
	DefaultLayers []TerrainLayer  `yaml:"default_layers"`
}

// TerrainMesh holds renderer-agnostic geometry buffers: three floats per
// position and normal, two per UV, and uint32 triangle indices.
type TerrainMesh struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices in the mesh.
func (m *TerrainMesh) VertexCount() int { return len(m.Positions) / 3 }

// TriangleCount returns the number of triangles in the mesh.
func (m *TerrainMesh) TriangleCount() int { return len(m.Indices) / 3 }
