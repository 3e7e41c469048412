// Package config handles asset baker configuration loading and management.
package config

// Config holds all baker settings.
type Config struct {
	Output   OutputConfig  `yaml:"output"`
	Mesh     MeshConfig    `yaml:"mesh"`
	Textures TextureConfig `yaml:"textures"`
	Logging  LoggingConfig `yaml:"logging"`
}

// OutputConfig controls where baked assets are written.
type OutputConfig struct {
	// Dir overrides the output directory. Empty means "output" next to the executable.
	Dir string `yaml:"dir"`
}

// MeshConfig holds mesh conversion settings.
type MeshConfig struct {
	// AllowCountMismatch bakes primitives whose attributes disagree on element
	// count, zero-filling the shorter ones, instead of rejecting them.
	AllowCountMismatch bool `yaml:"allow_count_mismatch"`
}

// TextureConfig holds texture conversion settings.
type TextureConfig struct {
	Enabled     bool `yaml:"enabled"`
	MaxSize     int  `yaml:"max_size"`     // 0 = keep source dimensions
	WebPPreview bool `yaml:"webp_preview"` // also write a lossless .webp next to each texture
	FailOnError bool `yaml:"fail_on_error"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir: "",
		},
		Mesh: MeshConfig{
			AllowCountMismatch: false,
		},
		Textures: TextureConfig{
			Enabled:     true,
			MaxSize:     0,
			WebPPreview: false,
			FailOnError: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
