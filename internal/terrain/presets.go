package terrain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// builtinPresets is the static catalog surfaced to UI layers for one-click
// terrain creation.
var builtinPresets = []TerrainPreset{
	{
		ID:        "rolling-hills",
		Name:      "Rolling Hills",
		Category:  "plains",
		Generator: GenLayered,
		Params: GeneratorParams{
			Scale:       120,
			Octaves:     4,
			Persistence: 0.45,
			Amplitude:   8,
		},
		DefaultLayers: []TerrainLayer{
			{Texture: "grass", Rule: BlendHeight, Min: 0, Max: 70, Falloff: 15},
			{Texture: "dirt", Rule: BlendHeight, Min: 60, Max: 100, Falloff: 15},
		},
	},
	{
		ID:        "mountain-ridge",
		Name:      "Mountain Ridge",
		Category:  "mountains",
		Generator: GenRidged,
		Params: GeneratorParams{
			Scale:       180,
			Octaves:     5,
			Persistence: 0.5,
			Amplitude:   40,
			RidgePower:  2,
		},
		DefaultLayers: []TerrainLayer{
			{Texture: "rock", Rule: BlendSlope, Min: 30, Max: 90, Falloff: 10},
			{Texture: "grass", Rule: BlendSlope, Min: 0, Max: 35, Falloff: 10},
			{Texture: "snow", Rule: BlendHeight, Min: 75, Max: 100, Falloff: 10},
		},
	},
	{
		ID:        "cellular-plateau",
		Name:      "Cellular Plateau",
		Category:  "mesas",
		Generator: GenCellular,
		Params: GeneratorParams{
			Scale:       40,
			Amplitude:   20,
			CellFalloff: 2,
		},
		DefaultLayers: []TerrainLayer{
			{Texture: "sandstone", Rule: BlendSlope, Min: 25, Max: 90, Falloff: 8},
			{Texture: "sand", Rule: BlendSlope, Min: 0, Max: 30, Falloff: 8},
		},
	},
	{
		ID:        "eroded-valley",
		Name:      "Eroded Valley",
		Category:  "mountains",
		Generator: GenHydraulic,
		Params: GeneratorParams{
			Scale:             150,
			Octaves:           5,
			Persistence:       0.5,
			Amplitude:         30,
			ErosionIterations: 20000,
		},
		DefaultLayers: []TerrainLayer{
			{Texture: "rock", Rule: BlendSlope, Min: 35, Max: 90, Falloff: 10},
			{Texture: "grass", Rule: BlendHeight, Min: 0, Max: 60, Falloff: 20},
			{Texture: "dirt", Rule: BlendHeight, Min: 50, Max: 100, Falloff: 20},
		},
	},
	{
		ID:        "perlin-island",
		Name:      "Perlin Island",
		Category:  "islands",
		Generator: GenPerlin,
		Params: GeneratorParams{
			Scale:     90,
			Octaves:   3,
			Amplitude: 12,
		},
		DefaultLayers: []TerrainLayer{
			{Texture: "sand", Rule: BlendHeight, Min: 0, Max: 25, Falloff: 10},
			{Texture: "grass", Rule: BlendHeight, Min: 20, Max: 100, Falloff: 10},
		},
	},
}

// Presets returns the built-in preset catalog. The returned slice is shared;
// callers must not mutate it.
func Presets() []TerrainPreset {
	return builtinPresets
}

// PresetByID returns the preset with the given id, or nil if unknown.
func PresetByID(id string) *TerrainPreset {
	for i := range builtinPresets {
		if builtinPresets[i].ID == id {
			return &builtinPresets[i]
		}
	}
	return nil
}

// PresetsByCategory returns all presets in the given category. An unknown
// category yields an empty slice.
func PresetsByCategory(category string) []TerrainPreset {
	var out []TerrainPreset
	for _, p := range builtinPresets {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// LoadPresetFile reads additional presets from a YAML file. Each preset must
// carry an id and a known generator kind.
func LoadPresetFile(path string) ([]TerrainPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset file: %w", err)
	}

	var presets []TerrainPreset
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("parsing preset file %s: %w", path, err)
	}

	for i, p := range presets {
		if p.ID == "" {
			return nil, fmt.Errorf("preset %d in %s has no id", i, path)
		}
		switch p.Generator {
		case GenLayered, GenRidged, GenCellular, GenHydraulic, GenPerlin:
		default:
			return nil, fmt.Errorf("preset %q has unknown generator kind %q", p.ID, p.Generator)
		}
	}
	return presets, nil
}
