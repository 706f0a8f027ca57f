// Package config loads runtime settings for the ndindex command and kernels.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/ndindex/internal/parallel"
)

// Output formats.
const (
	FormatAuto  = "auto"  // Table on a terminal, TSV otherwise.
	FormatTable = "table" // Aligned columns.
	FormatTSV   = "tsv"   // Tab-separated values.
)

// Config is the top-level configuration file.
type Config struct {
	// Parallel controls how kernels split the index space across workers.
	Parallel parallel.Config `yaml:"parallel"`

	// Output controls how the command prints iterator positions.
	Output Output `yaml:"output"`
}

// Output describes result rendering.
type Output struct {
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Parallel: parallel.DefaultConfig(),
		Output:   Output{Format: FormatAuto},
	}
}

// Load reads and validates a YAML configuration file.
// Fields missing from the file keep their Default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes and validates YAML configuration data.
// path is only used in error messages.
func Parse(data []byte, path string) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate(path string) error {
	if c.Parallel.Enabled && c.Parallel.NumWorkers < 1 {
		return fmt.Errorf("%s: parallel.workers must be at least 1, got %d", path, c.Parallel.NumWorkers)
	}
	if c.Parallel.MinChunkSize < 1 {
		return fmt.Errorf("%s: parallel.min_chunk must be at least 1, got %d", path, c.Parallel.MinChunkSize)
	}
	switch c.Output.Format {
	case FormatAuto, FormatTable, FormatTSV:
	default:
		return fmt.Errorf("%s: output.format %q is not one of auto, table, tsv", path, c.Output.Format)
	}
	return nil
}
