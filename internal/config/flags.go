package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config alone.
type Flags struct {
	Config     string
	Debug      bool
	Format     string
	FPS        float64
	Out        string
	NoTextures bool
}

// RegisterFlags defines the shared flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file (.yaml or .toml)")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Format, "format", "", "Export format: gltf or glb")
	fs.Float64Var(&f.FPS, "fps", 0, "Keyframe rate for exported animations")
	fs.StringVar(&f.Out, "out", "", "Output directory")
	fs.BoolVar(&f.NoTextures, "no-textures", false, "Do not load texture images")
	return f
}

// ParseFlags registers the shared flags on fs and parses args.
func ParseFlags(fs *flag.FlagSet, args []string) (*Flags, error) {
	f := RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
		cfg.Import.ShowLog = true
	}
	if f.Format != "" {
		cfg.Export.Format = f.Format
	}
	if f.FPS > 0 {
		cfg.Export.FPS = f.FPS
	}
	if f.Out != "" {
		cfg.Export.Out = f.Out
	}
	if f.NoTextures {
		cfg.Import.LoadTextures = false
	}
}
