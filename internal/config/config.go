package config

import (
	"encoding/json"
	"fmt"
	"os"

	"vrm-optimizer/internal/optimize"
)

// Config holds all re-encoding and output settings.
type Config struct {
	// Per-class texture settings
	MaxSize       int `json:"max_size"`
	Quality       int `json:"webp_quality"`
	ThumbMax      int `json:"thumb_max"`
	ThumbQuality  int `json:"thumb_quality"`
	NormalMax     int `json:"normal_max"`
	NormalQuality int `json:"normal_quality"`

	// Target-size search
	TargetMB    float64 `json:"target_mb"`
	MaxAttempts int     `json:"max_attempts"`

	// Output
	Suffix  string `json:"suffix"`
	InPlace bool   `json:"inplace"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	MaxSize       int
	Quality       int
	ThumbMax      int
	ThumbQuality  int
	NormalMax     int
	NormalQuality int
	TargetMB      float64
	MaxAttempts   int
	Suffix        string
	InPlace       bool
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.MaxSize > 0 {
		c.MaxSize = flags.MaxSize
	}
	if flags.Quality > 0 {
		c.Quality = flags.Quality
	}
	if flags.ThumbMax > 0 {
		c.ThumbMax = flags.ThumbMax
	}
	if flags.ThumbQuality > 0 {
		c.ThumbQuality = flags.ThumbQuality
	}
	if flags.NormalMax > 0 {
		c.NormalMax = flags.NormalMax
	}
	if flags.NormalQuality > 0 {
		c.NormalQuality = flags.NormalQuality
	}
	if flags.TargetMB > 0 {
		c.TargetMB = flags.TargetMB
	}
	if flags.MaxAttempts > 0 {
		c.MaxAttempts = flags.MaxAttempts
	}
	if flags.Suffix != "" {
		c.Suffix = flags.Suffix
	}
	if flags.InPlace {
		c.InPlace = true
	}

	defaults := optimize.DefaultSettings()
	if c.MaxSize <= 0 {
		c.MaxSize = defaults.MaxSize
	}
	if c.Quality <= 0 {
		c.Quality = defaults.Quality
	}
	if c.ThumbMax <= 0 {
		c.ThumbMax = defaults.ThumbMax
	}
	if c.ThumbQuality <= 0 {
		c.ThumbQuality = defaults.ThumbQuality
	}
	if c.NormalMax <= 0 {
		c.NormalMax = defaults.NormalMax
	}
	if c.NormalQuality <= 0 {
		c.NormalQuality = defaults.NormalQuality
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = optimize.DefaultMaxAttempts
	}
	if c.Suffix == "" {
		c.Suffix = "_optimized"
	}
}

// Settings returns the per-class baseline the pipeline consumes.
func (c Config) Settings() optimize.Settings {
	return optimize.Settings{
		MaxSize:       c.MaxSize,
		Quality:       c.Quality,
		ThumbMax:      c.ThumbMax,
		ThumbQuality:  c.ThumbQuality,
		NormalMax:     c.NormalMax,
		NormalQuality: c.NormalQuality,
	}
}

// TargetBytes converts the target size to bytes; 0 disables the search.
func (c Config) TargetBytes() int {
	if c.TargetMB <= 0 {
		return 0
	}
	return int(c.TargetMB * 1024 * 1024)
}
