package config

import "flag"

var (
	flagConfig    string
	flagDebug     bool
	flagChunkSize int
	flagWorkers   = -1
	flagUnloaded  string
	flagUV        string
	flagMaterials string
)

// BindFlags registers the config flags on fs. Subcommands call it on their
// own flag set before parsing.
func BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&flagConfig, "config", "", "Path to config file")
	fs.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	fs.IntVar(&flagChunkSize, "chunk-size", 0, "Chunk edge length (power of two)")
	fs.IntVar(&flagWorkers, "workers", -1, "Meshing workers (0 = one per CPU)")
	fs.StringVar(&flagUnloaded, "unloaded", "", "Faces against unloaded chunks: occlude or visible")
	fs.StringVar(&flagUV, "uv", "", "UV mode: tiled or stretched")
	fs.StringVar(&flagMaterials, "materials", "", "Path to material definitions")
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if flagDebug {
		cfg.Logging.Level = "debug"
	}
	if flagChunkSize > 0 {
		cfg.Chunk.Size = flagChunkSize
	}
	if flagWorkers >= 0 {
		cfg.Meshing.Workers = flagWorkers
	}
	if flagUnloaded != "" {
		cfg.Chunk.UnloadedNeighbors = flagUnloaded
	}
	if flagUV != "" {
		cfg.Meshing.UVMode = flagUV
	}
	if flagMaterials != "" {
		cfg.Materials.Path = flagMaterials
	}
}
