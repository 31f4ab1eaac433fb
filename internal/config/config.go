// Package config handles voxmesh configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/voxmesh/internal/logger"
	"github.com/Faultbox/voxmesh/internal/mesh"
	"github.com/Faultbox/voxmesh/internal/voxel"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all settings.
type Config struct {
	Chunk     ChunkConfig     `yaml:"chunk"`
	Meshing   MeshingConfig   `yaml:"meshing"`
	Materials MaterialsConfig `yaml:"materials"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ChunkConfig holds chunk storage settings.
type ChunkConfig struct {
	Size              int    `yaml:"size"`               // Edge length, power of two
	UnloadedNeighbors string `yaml:"unloaded_neighbors"` // occlude | visible
}

// MeshingConfig holds mesher and mesh builder settings.
type MeshingConfig struct {
	Workers    int    `yaml:"workers"` // 0 = one per CPU
	UVMode     string `yaml:"uv_mode"` // tiled | stretched
	WorldSpace bool   `yaml:"world_space"`
}

// MaterialsConfig holds the material table location.
type MaterialsConfig struct {
	Path string `yaml:"path"` // Empty = built-in table
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"` // console | json
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Chunk: ChunkConfig{
			Size:              32,
			UnloadedNeighbors: "occlude",
		},
		Meshing: MeshingConfig{
			Workers:    0,
			UVMode:     "tiled",
			WorldSpace: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  logger.FormatConsole,
			LogFile: "",
		},
	}
}

// Validate checks every setting and returns the first problem found.
func (c *Config) Validate() error {
	if c.Chunk.Size < 1 || c.Chunk.Size > voxel.MaxChunkSize || c.Chunk.Size&(c.Chunk.Size-1) != 0 {
		return fmt.Errorf("%w: chunk.size %d must be a power of two in [1, %d]", ErrInvalidConfig, c.Chunk.Size, voxel.MaxChunkSize)
	}
	if _, err := c.UnloadedPolicy(); err != nil {
		return fmt.Errorf("%w: chunk.unloaded_neighbors: %v", ErrInvalidConfig, err)
	}
	if c.Meshing.Workers < 0 {
		return fmt.Errorf("%w: meshing.workers %d is negative", ErrInvalidConfig, c.Meshing.Workers)
	}
	if _, err := c.UVMode(); err != nil {
		return fmt.Errorf("%w: meshing.uv_mode: %v", ErrInvalidConfig, err)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalidConfig, err)
	}
	if !logger.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// LoggerOptions returns the logger settings for this config.
func (c *Config) LoggerOptions() logger.Options {
	opts := logger.Options{
		Level:   c.Logging.Level,
		Format:  c.Logging.Format,
		Console: true,
	}
	if c.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(c.Logging.LogFile)
	}
	return opts
}

// UnloadedPolicy returns the parsed chunk.unloaded_neighbors setting.
func (c *Config) UnloadedPolicy() (voxel.UnloadedPolicy, error) {
	return voxel.ParseUnloadedPolicy(c.Chunk.UnloadedNeighbors)
}

// UVMode returns the parsed meshing.uv_mode setting.
func (c *Config) UVMode() (mesh.UVMode, error) {
	return mesh.ParseUVMode(c.Meshing.UVMode)
}
