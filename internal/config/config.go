// Package config handles tool configuration loading and management.
package config

import "github.com/Davaakhatan/PromptPlay-sub005/internal/terrain"

// Config holds all terrain tool settings.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Erosion ErosionConfig `yaml:"erosion"`
	Mesh    MeshConfig    `yaml:"mesh"`
	Export  ExportConfig  `yaml:"export"`
	Presets PresetsConfig `yaml:"presets"`
	Logging LoggingConfig `yaml:"logging"`
}

// TerrainConfig holds the default shape of newly created terrains.
type TerrainConfig struct {
	Width      float32 `yaml:"width"`  // world extent along X
	Depth      float32 `yaml:"depth"`  // world extent along Z
	Height     float32 `yaml:"height"` // max elevation scale
	Resolution int     `yaml:"resolution"`
	Seed       int64   `yaml:"seed"`
	Preset     string  `yaml:"preset"`
}

// ErosionConfig holds erosion pass settings.
type ErosionConfig struct {
	Iterations      int     `yaml:"iterations"`
	Thermal         bool    `yaml:"thermal"`
	ThermalAngleDeg float32 `yaml:"thermal_angle_deg"`
}

// MeshConfig holds mesh build settings.
type MeshConfig struct {
	ChunkSize     int       `yaml:"chunk_size"`
	LODThresholds []float32 `yaml:"lod_thresholds"` // world distances, ascending
}

// ExportConfig holds output settings.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// PresetsConfig points at an optional extra preset catalog.
type PresetsConfig struct {
	File string `yaml:"file"` // YAML catalog loaded on top of the built-ins
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Width:      512,
			Depth:      512,
			Height:     100,
			Resolution: 513,
			Seed:       0,
			Preset:     "rolling-hills",
		},
		Erosion: ErosionConfig{
			Iterations:      10000,
			Thermal:         false,
			ThermalAngleDeg: 35,
		},
		Mesh: MeshConfig{
			ChunkSize:     64,
			LODThresholds: []float32{200, 400, 800},
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Presets: PresetsConfig{
			File: "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// TerrainSettings converts the configured defaults to a terrain config.
func (c *Config) TerrainSettings() terrain.TerrainConfig {
	return terrain.TerrainConfig{
		Width:      c.Terrain.Width,
		Depth:      c.Terrain.Depth,
		Height:     c.Terrain.Height,
		Resolution: c.Terrain.Resolution,
	}
}

// ErosionSettings converts the configured erosion section to simulation
// settings, starting from the simulation defaults.
func (c *Config) ErosionSettings() terrain.ErosionSettings {
	s := terrain.DefaultErosionSettings()
	if c.Erosion.Iterations > 0 {
		s.Iterations = c.Erosion.Iterations
	}
	s.ThermalErosion = c.Erosion.Thermal
	if c.Erosion.ThermalAngleDeg > 0 {
		s.ThermalAngleDegrees = c.Erosion.ThermalAngleDeg
	}
	return s
}
