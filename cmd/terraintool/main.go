// terraintool is a CLI utility for generating and processing terrains.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Davaakhatan/PromptPlay-sub005/internal/config"
	"github.com/Davaakhatan/PromptPlay-sub005/internal/logger"
	"github.com/Davaakhatan/PromptPlay-sub005/internal/terrain"
)

func main() {
	config.ParseFlags()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "presets":
		cmdPresets(cfg)
	case "generate", "gen":
		cmdGenerate(cfg, args)
	case "erode":
		cmdErode(cfg, args)
	case "mesh":
		cmdMesh(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terraintool - procedural terrain utility

Usage:
  terraintool [options] <command> [args]

Commands:
  presets                       List available terrain presets
  generate [name]               Generate a terrain and export heightmap + splats
  erode <in.png> [out.png]      Run erosion over a heightmap image
  mesh <in.png> [out.obj]       Build a mesh from a heightmap image

Options:
  -config <file>     Config file path
  -preset <id>       Terrain preset id
  -seed <n>          Generation seed
  -resolution <n>    Heightmap resolution
  -out <dir>         Output directory
  -debug             Enable debug logging

Examples:
  terraintool -preset mountain-ridge -seed 42 generate alps
  terraintool erode alps.png alps_eroded.png
  terraintool mesh alps.png alps.obj`)
}

// newService builds a terrain service with any extra preset catalog from the
// config registered.
func newService(cfg *config.Config) *terrain.TerrainService {
	svc := terrain.NewTerrainService(logger.Log)
	if cfg.Presets.File != "" {
		presets, err := terrain.LoadPresetFile(cfg.Presets.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading preset catalog: %v\n", err)
			os.Exit(1)
		}
		svc.RegisterPresets(presets)
	}
	return svc
}

func cmdPresets(cfg *config.Config) {
	presets := terrain.Presets()
	if cfg.Presets.File != "" {
		extra, err := terrain.LoadPresetFile(cfg.Presets.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading preset catalog: %v\n", err)
			os.Exit(1)
		}
		presets = append(extra, presets...)
	}

	fmt.Printf("%-20s %-22s %-12s %s\n", "ID", "NAME", "CATEGORY", "GENERATOR")
	for _, p := range presets {
		fmt.Printf("%-20s %-22s %-12s %s\n", p.ID, p.Name, p.Category, p.Generator)
	}
}

func cmdGenerate(cfg *config.Config, args []string) {
	name := "terrain"
	if len(args) > 0 {
		name = args[0]
	}

	svc := newService(cfg)
	inst, err := svc.CreateFromPreset(name, cfg.Terrain.Preset, cfg.TerrainSettings(), cfg.Terrain.Seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if inst == nil {
		fmt.Fprintf(os.Stderr, "Unknown preset: %s (run 'terraintool presets')\n", cfg.Terrain.Preset)
		os.Exit(1)
	}

	outPath := filepath.Join(cfg.Export.Dir, name+".png")
	samples := svc.ExportHeightmap(inst.ID)
	if err := WriteHeightmapPNG(outPath, samples, inst.Heightmap.Width, inst.Heightmap.Height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Heightmap: %s (%dx%d)\n", outPath, inst.Heightmap.Width, inst.Heightmap.Height)

	for i, sm := range inst.SplatMaps {
		splatPath := filepath.Join(cfg.Export.Dir, fmt.Sprintf("%s_splat%d.png", name, i))
		if err := WriteSplatPNG(splatPath, sm); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Splat map: %s\n", splatPath)
	}
}

func cmdErode(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: terraintool erode <in.png> [out.png]")
		os.Exit(1)
	}

	inPath := args[0]
	outPath := derivedPath(cfg, inPath, "_eroded.png")
	if len(args) > 1 {
		outPath = args[1]
	}

	svc := newService(cfg)
	inst := importTerrain(svc, cfg, inPath)

	ok, err := svc.Erode(inst.ID, cfg.ErosionSettings(), cfg.Terrain.Seed)
	if err != nil || !ok {
		fmt.Fprintf(os.Stderr, "Error eroding: %v\n", err)
		os.Exit(1)
	}

	samples := svc.ExportHeightmap(inst.ID)
	if err := WriteHeightmapPNG(outPath, samples, inst.Heightmap.Width, inst.Heightmap.Height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Eroded heightmap: %s (%d droplets)\n", outPath, cfg.Erosion.Iterations)
}

func cmdMesh(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("mesh", flag.ExitOnError)
	lod := fs.Int("lod", 1, "LOD level (power of two downsampling)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: terraintool mesh [-lod N] <in.png> [out.obj]")
		os.Exit(1)
	}

	inPath := fs.Arg(0)
	outPath := derivedPath(cfg, inPath, ".obj")
	if fs.NArg() > 1 {
		outPath = fs.Arg(1)
	}

	svc := newService(cfg)
	inst := importTerrain(svc, cfg, inPath)

	mesh, err := svc.BuildMesh(inst.ID, *lod)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building mesh: %v\n", err)
		os.Exit(1)
	}

	if err := WriteMeshOBJ(outPath, mesh); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Mesh: %s (%d vertices, %d triangles)\n", outPath, mesh.VertexCount(), mesh.TriangleCount())
}

// importTerrain creates an instance backed by the heightmap image at path.
func importTerrain(svc *terrain.TerrainService, cfg *config.Config, path string) *terrain.TerrainInstance {
	samples, width, height, err := ReadHeightmapPNG(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading heightmap: %v\n", err)
		os.Exit(1)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	inst, err := svc.CreateTerrain(name, cfg.TerrainSettings())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if _, err := svc.ImportHeightmap(inst.ID, samples, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error importing heightmap: %v\n", err)
		os.Exit(1)
	}
	return inst
}

// derivedPath builds an output path in the export dir from the input name.
func derivedPath(cfg *config.Config, inPath, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	return filepath.Join(cfg.Export.Dir, base+suffix)
}
