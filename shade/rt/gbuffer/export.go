package gbuffer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/gekko3d/lumen/shade/rt/core"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrUnknownTarget     = errors.New("unknown export target")
	ErrNoCamera          = errors.New("no camera")
)

type Format string

const (
	FormatPNG  Format = "png"
	FormatTIFF Format = "tiff"
	FormatBMP  Format = "bmp"
)

// ParseFormat accepts a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "png":
		return FormatPNG, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "bmp":
		return FormatBMP, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnsupportedFormat)
}

type Target int

const (
	TargetColor Target = iota
	TargetNormal
	TargetMaterial
)

func (t Target) String() string {
	switch t {
	case TargetColor:
		return "color"
	case TargetNormal:
		return "normal"
	case TargetMaterial:
		return "material"
	}
	return "unknown"
}

func to8(x float32) uint8 {
	if !(x > 0) {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(x*255 + 0.5)
}

// Image converts one output target into an 8-bit image. Normals are decoded
// and remapped to [0,1]; colour and material are written as stored.
func Image(t *Targets, kind Target) (*image.NRGBA, error) {
	if t == nil || !t.valid() {
		return nil, fmt.Errorf("export %s: %w", kind, ErrInvalidDimensions)
	}
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			i := t.Index(x, y)
			var c color.NRGBA
			switch kind {
			case TargetColor:
				v := t.Color[i]
				c = color.NRGBA{to8(v[0]), to8(v[1]), to8(v[2]), to8(v[3])}
			case TargetNormal:
				n := DecodeOctahedral(t.Normal[i])
				c = color.NRGBA{to8((n[0] + 1) / 2), to8((n[1] + 1) / 2), to8((n[2] + 1) / 2), 255}
			case TargetMaterial:
				m := t.Material[i]
				c = color.NRGBA{to8(m[0]), to8(m[1]), to8(m[2]), to8(m[3])}
			default:
				return nil, fmt.Errorf("export %d: %w", kind, ErrUnknownTarget)
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img, nil
}

// DepthImage visualizes depth as inverted linear grayscale between the
// camera's near and far planes.
func DepthImage(g *GBuffer, cam *core.Camera) (*image.Gray, error) {
	if g == nil || g.Width <= 0 || g.Height <= 0 || len(g.Depth) < g.Width*g.Height {
		return nil, fmt.Errorf("export depth: %w", ErrInvalidDimensions)
	}
	if cam == nil {
		return nil, fmt.Errorf("export depth: %w", ErrNoCamera)
	}
	span := max(cam.Far-cam.Near, core.Epsilon)
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			lin := cam.LinearDepth(g.Depth[g.Index(x, y)])
			t := (lin - cam.Near) / span
			img.SetGray(x, y, color.Gray{Y: to8(1 - t)})
		}
	}
	return img, nil
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatBMP:
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// Export writes one output target to w.
func Export(w io.Writer, t *Targets, kind Target, format Format) error {
	img, err := Image(t, kind)
	if err != nil {
		return err
	}
	return Encode(w, img, format)
}

func ExportDepth(w io.Writer, g *GBuffer, cam *core.Camera, format Format) error {
	img, err := DepthImage(g, cam)
	if err != nil {
		return err
	}
	return Encode(w, img, format)
}
