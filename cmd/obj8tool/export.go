package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/obj8conv/internal/config"
	"github.com/Faultbox/obj8conv/internal/export"
	"github.com/Faultbox/obj8conv/internal/logger"
	"github.com/Faultbox/obj8conv/internal/texture"
)

// newTextureLoader returns the loader shared by every model of one command,
// or nil when textures are not loaded.
func newTextureLoader(cfg *config.Config) *texture.Loader {
	if !cfg.Import.LoadTextures {
		return nil
	}
	return texture.NewLoader(cfg.Textures.Fallbacks, logger.Named("texture"))
}

// prepareOutput creates the configured output directory.
func prepareOutput(cfg *config.Config) error {
	if cfg.Export.Out == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.Export.Out, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}

func cmdExport(args []string) error {
	cfg, fs, err := setup("export", args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: obj8tool export [options] <file.obj>...")
	}
	if err := prepareOutput(cfg); err != nil {
		return err
	}

	images := newTextureLoader(cfg)
	failed := 0
	for _, input := range fs.Args() {
		out, err := convert(input, cfg, images)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", input, err)
			failed++
			continue
		}
		fmt.Printf("%s -> %s\n", input, out)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d models failed", failed, fs.NArg())
	}
	return nil
}

// convert parses input and writes it in the configured format. It returns
// the output path.
func convert(input string, cfg *config.Config, images *texture.Loader) (string, error) {
	res, err := load(input, cfg, images)
	if err != nil {
		return "", err
	}

	out := export.OutputPath(input, cfg.Export.Out, cfg.Export.Format)
	err = export.WriteFile(res.Root, out, export.Options{
		Format: cfg.Export.Format,
		FPS:    cfg.Export.FPS,
		Logger: logger.Named("export"),
	})
	if err != nil {
		return "", err
	}

	logger.Info("converted model",
		zap.String("input", input),
		zap.String("output", out),
		zap.Int("diagnostics", len(res.Log)))
	return out, nil
}
