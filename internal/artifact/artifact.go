package artifact

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yyyoichi/svdcompress/internal/channel"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	_ "golang.org/x/image/webp"
)

// Decode reads and decodes the image at path in any registered format.
func Decode(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, format, nil
}

type encoder func(w io.Writer, img image.Image) error

var encoders = map[string]encoder{
	".png": encodePNG,
	".jpg": func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	},
	".gif": func(w io.Writer, img image.Image) error {
		return gif.Encode(w, img, nil)
	},
	".bmp": bmp.Encode,
	".tif": func(w io.Writer, img image.Image) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	},
}

func init() {
	encoders[".jpeg"] = encoders[".jpg"]
	encoders[".tiff"] = encoders[".tif"]
}

// translucent keeps the alpha channel of an opaque image. png.Encode writes
// opaque images as RGB, which would drop a channel from the output.
type translucent struct {
	*image.NRGBA
}

func (translucent) Opaque() bool { return false }

func encodePNG(w io.Writer, img image.Image) error {
	if m, ok := img.(*image.NRGBA); ok {
		img = translucent{m}
	}
	return png.Encode(w, img)
}

// Encode writes img to path in the format implied by its extension.
// Unknown or missing extensions are written as PNG.
// NRGBA images keep all four channels in PNG and TIFF files, even when fully opaque.
func Encode(path string, img image.Image) error {
	enc, ok := encoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		enc = encodePNG
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := enc(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// BasePath strips the extension from path: "out/img.png" becomes "out/img".
func BasePath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// ComponentWriter stores factor images as "<Base>_<channel>_<component>.png".
// Each call writes its own file, so it can be shared between goroutines.
type ComponentWriter struct {
	Base string
}

var _ channel.Exporter = ComponentWriter{}

func (w ComponentWriter) Path(name string, c channel.Component) string {
	return fmt.Sprintf("%s_%s_%s.png", w.Base, name, c)
}

func (w ComponentWriter) Export(name string, c channel.Component, img *image.Gray) error {
	return Encode(w.Path(name, c), img)
}
