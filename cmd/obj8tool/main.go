// obj8tool is a CLI utility for inspecting X-Plane OBJ8 models and
// converting them to glTF.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/obj8conv/internal/config"
	"github.com/Faultbox/obj8conv/internal/logger"
	"github.com/Faultbox/obj8conv/internal/texture"
	"github.com/Faultbox/obj8conv/pkg/obj8"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "tree":
		err = cmdTree(args)
	case "export", "x":
		err = cmdExport(args)
	case "watch":
		err = cmdWatch(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`obj8tool - X-Plane OBJ8 model utility

Usage:
  obj8tool <command> [options]

Commands:
  info <file.obj>                    Show model summary
  tree <file.obj>                    Print the scene tree
  export [options] <file.obj>...     Convert models to glTF
  watch [options] <file.obj|dir>     Re-export models when they change
  config [options]                   Print the effective configuration

Options (export, watch, config):
  -config <path>    Config file (.yaml or .toml)
  -format gltf|glb  Output format
  -fps <n>          Keyframe rate
  -out <dir>        Output directory
  -no-textures      Do not load texture images
  -debug            Enable debug logging

Examples:
  obj8tool info cockpit.obj
  obj8tool export -format gltf -out ./build door.obj hatch.obj
  obj8tool watch -fps 30 ./objects`)
}

// setup parses the shared flags and prepares config and logging.
func setup(name string, args []string) (*config.Config, *flag.FlagSet, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	flags, err := config.ParseFlags(fs, args)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, nil, err
	}
	return cfg, fs, nil
}

// load parses a model with diagnostics silenced unless configured. images
// may be nil, in which case textures are recorded but not decoded.
func load(path string, cfg *config.Config, images *texture.Loader) (*obj8.Result, error) {
	opts := obj8.Options{Logger: logger.Named("import")}
	if images != nil {
		opts.Images = images
	}
	if cfg != nil {
		if cfg.Import.ShowProgress {
			opts.Progress = progressPrinter(path)
		}
	}

	res, err := obj8.ParseFile(path, opts)
	if cfg != nil && cfg.Import.ShowLog && res != nil {
		for _, line := range res.Log {
			fmt.Fprintf(os.Stderr, "  %s\n", line)
		}
	}
	return res, err
}

func progressPrinter(path string) func(done, total int64) {
	return func(done, total int64) {
		fmt.Fprintf(os.Stderr, "\r%s: %3d%%", path, done*100/total)
		if done >= total {
			fmt.Fprintln(os.Stderr)
		}
	}
}

func cmdInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: obj8tool info <file.obj>")
	}

	res, err := load(args[0], nil, nil)
	if err != nil {
		return err
	}
	root := res.Root
	s := root.Stats()

	fmt.Printf("Model:     %s\n", root.Filename)
	fmt.Printf("Version:   %d\n", res.Version)
	fmt.Printf("Groups:    %d\n", s.Groups)
	fmt.Printf("Meshes:    %d (%d empty, %d animated)\n", s.Meshes, s.EmptyMeshes, s.AnimatedMeshes)
	fmt.Printf("Triangles: %d\n", s.Triangles)
	fmt.Printf("Keys:      %d translation, %d rotation\n", s.TranslationKeys, s.RotationKeys)
	fmt.Printf("Lines:     %d\n", len(root.Lines))

	for _, tex := range []struct {
		label string
		ref   *obj8.TextureRef
	}{
		{"Texture", root.Texture},
		{"Lit", root.TextureLit},
		{"Normal", root.TextureNormal},
	} {
		if tex.ref != nil {
			fmt.Printf("%-10s %s\n", tex.label+":", tex.ref.Name)
		}
	}

	if len(s.Datarefs) > 0 {
		fmt.Println()
		fmt.Println("Datarefs:")
		for _, d := range s.Datarefs {
			fmt.Printf("  %s\n", d)
		}
	}
	if len(root.Metadata) > 0 {
		fmt.Println()
		fmt.Println("Metadata:")
		for _, m := range root.Metadata {
			fmt.Printf("  %s\n", strings.TrimPrefix(m, "####_"))
		}
	}
	return nil
}

func cmdTree(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: obj8tool tree <file.obj>")
	}

	res, err := load(args[0], nil, nil)
	if err != nil {
		return err
	}
	return obj8.Dump(os.Stdout, res.Root)
}

func cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	save := fs.String("save", "", "Write the effective config to this path")
	asTOML := fs.Bool("toml", false, "Print as TOML instead of YAML")
	flags, err := config.ParseFlags(fs, args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	if *save != "" {
		if err := cfg.SaveTo(*save); err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", *save)
		return nil
	}

	data, err := cfg.Marshal(*asTOML)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
