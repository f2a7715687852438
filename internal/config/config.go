// Package config handles converter configuration loading and management.
package config

// Config holds all converter settings.
type Config struct {
	Import   ImportConfig  `yaml:"import" toml:"import"`
	Export   ExportConfig  `yaml:"export" toml:"export"`
	Textures TextureConfig `yaml:"textures" toml:"textures"`
	Logging  LoggingConfig `yaml:"logging" toml:"logging"`
}

// ImportConfig holds OBJ8 parsing settings.
type ImportConfig struct {
	LoadTextures bool `yaml:"load_textures" toml:"load_textures"`
	ShowProgress bool `yaml:"show_progress" toml:"show_progress"`
	ShowLog      bool `yaml:"show_log" toml:"show_log"` // print import diagnostics
}

// ExportConfig holds glTF output settings.
type ExportConfig struct {
	Format string  `yaml:"format" toml:"format"` // "gltf" or "glb"
	FPS    float64 `yaml:"fps" toml:"fps"`       // keyframe rate
	Out    string  `yaml:"out" toml:"out"`       // output directory, empty = next to input
}

// TextureConfig holds texture lookup settings.
type TextureConfig struct {
	// Fallbacks are extensions tried, in order, when a texture is missing
	// under its declared name.
	Fallbacks []string `yaml:"fallbacks" toml:"fallbacks"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Import: ImportConfig{
			LoadTextures: true,
			ShowProgress: false,
			ShowLog:      false,
		},
		Export: ExportConfig{
			Format: "glb",
			FPS:    24,
			Out:    "",
		},
		Textures: TextureConfig{
			Fallbacks: []string{".png", ".tga", ".bmp"},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
