package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagSeed       = flag.Int64("seed", 0, "Generation seed (0 keeps the configured seed)")
	flagPreset     = flag.String("preset", "", "Terrain preset id")
	flagResolution = flag.Int("resolution", 0, "Heightmap resolution (samples per side)")
	flagOut        = flag.String("out", "", "Output directory")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed != 0 {
		cfg.Terrain.Seed = *flagSeed
	}
	if *flagPreset != "" {
		cfg.Terrain.Preset = *flagPreset
	}
	if *flagResolution > 0 {
		cfg.Terrain.Resolution = *flagResolution
	}
	if *flagOut != "" {
		cfg.Export.Dir = *flagOut
	}
}
