// Package export writes imported OBJ8 scenes as glTF 2.0 models.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/obj8conv/pkg/obj8"
)

// Output formats.
const (
	FormatGLTF = "gltf" // JSON with a side-car .bin buffer
	FormatGLB  = "glb"  // single binary file
)

// ErrFormat is returned for an unknown output format.
var ErrFormat = errors.New("unknown export format")

// Options configures an export.
type Options struct {
	Format string
	// FPS converts 1-based keyframe numbers to seconds.
	FPS float64
	// Generator is written to the asset header.
	Generator string
	Logger    *zap.Logger
}

func (o *Options) normalize() error {
	switch o.Format {
	case "":
		o.Format = FormatGLB
	case FormatGLTF, FormatGLB:
	default:
		return fmt.Errorf("%w: %q", ErrFormat, o.Format)
	}
	if o.FPS <= 0 {
		o.FPS = 24
	}
	if o.Generator == "" {
		o.Generator = "obj8conv"
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return nil
}

// WriteFile converts root and saves it to path.
func WriteFile(root *obj8.Root, path string, opts Options) error {
	if err := opts.normalize(); err != nil {
		return err
	}

	doc, err := Build(root, opts)
	if err != nil {
		return err
	}

	// A scene without geometry leaves the default buffer empty, and glTF
	// forbids zero-length buffers.
	if len(doc.Buffers) > 0 && doc.Buffers[0].ByteLength == 0 {
		doc.Buffers = nil
	}

	if opts.Format == FormatGLB {
		err = gltf.SaveBinary(doc, path)
	} else {
		if len(doc.Buffers) > 0 {
			doc.Buffers[0].URI = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".bin"
		}
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	opts.Logger.Info("wrote model",
		zap.String("file", path),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("meshes", len(doc.Meshes)),
		zap.Int("animations", len(doc.Animations)))
	return nil
}

// OutputPath returns the path a model converted from input is written to.
// An empty outDir places it next to input.
func OutputPath(input, outDir, format string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+"."+format)
}
