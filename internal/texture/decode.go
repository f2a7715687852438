// Package texture provides image decoding and caching for model textures.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// decoders maps lower-case file extensions to image decoders. TGA has no
// magic number, so formats are picked by extension rather than sniffed.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".tga":  tga.Decode,
	".bmp":  bmp.Decode,
	".webp": webp.Decode,
}

// Supported reports whether files with the extension of path can be
// decoded.
func Supported(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Decode decodes the image in r using the decoder for the extension of
// name.
func Decode(r io.Reader, name string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(name))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported texture format %q", ext)
	}
	img, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding %s image: %w", strings.TrimPrefix(ext, "."), err)
	}
	return img, nil
}

// ToNRGBA converts any image to non-premultiplied RGBA.
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// Opaque sources; draw fills alpha with 255.
		draw.Draw(dst, b, src, b.Min, draw.Src)
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				dst.SetNRGBA(x, y, color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA))
			}
		}
	}
	return dst
}

// EncodePNG encodes img as PNG. glTF only accepts PNG and JPEG images.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
