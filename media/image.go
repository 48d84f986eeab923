package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"github.com/stupid-simple/pinpack/asset"
	"github.com/stupid-simple/pinpack/pathbuilder"
	"github.com/stupid-simple/pinpack/settings"
	_ "golang.org/x/image/bmp"
)

// ImagePipeline converts cover and topper images to PNG and re-encodes PNG output
// according to the image compression tier.
type ImagePipeline struct {
	convert     bool
	compression settings.MediaCompression
}

func NewImagePipeline(s settings.PackageSettings) *ImagePipeline {
	return &ImagePipeline{
		convert:     s.ConvertImages,
		compression: s.ImageCompression,
	}
}

// Process implements Processor.
func (p *ImagePipeline) Process(ctx context.Context, a asset.Asset) (asset.Asset, error) {
	ext := strings.ToLower(pathbuilder.Extension(a.Name()))
	isPNG := ext == "png"
	out := a

	var errs []error
	if p.convert && !isPNG && pathbuilder.IsConvertibleImage(ext) {
		converted, err := ConvertToPNG(a)
		if err != nil {
			errs = append(errs, fmt.Errorf("could not convert image to png: %w", err))
		} else {
			out = converted
			isPNG = true
		}
	}

	if ctx.Err() != nil {
		return out, ctx.Err()
	}

	// Only PNG output is re-encoded; other formats are written as they are.
	if p.compression.Enabled() && isPNG {
		compressed, err := CompressPNG(out, p.compression)
		if err != nil {
			errs = append(errs, fmt.Errorf("could not compress image: %w", err))
		} else {
			out = compressed
		}
	}

	return out, errors.Join(errs...)
}

// ConvertToPNG decodes a JPEG, GIF, BMP or PNG image and encodes it as PNG.
// The returned asset is named after a with a ".png" extension.
func ConvertToPNG(a asset.Asset) (asset.Asset, error) {
	img, err := decode(a)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}

	name := pathbuilder.RemoveExtension(a.Name()) + ".png"
	return asset.NewFromBytes(name, buf.Bytes(), a.ModTime()), nil
}

// CompressPNG re-encodes an image as PNG for the given tier.
// The high tier also reduces opaque images to a 256 color palette.
// The input is returned when re-encoding does not make it smaller.
func CompressPNG(a asset.Asset, tier settings.MediaCompression) (asset.Asset, error) {
	img, err := decode(a)
	if err != nil {
		return nil, err
	}

	encoder := png.Encoder{CompressionLevel: png.DefaultCompression}
	switch tier {
	case settings.MediaCompressionMedium:
		encoder.CompressionLevel = png.BestCompression
	case settings.MediaCompressionHigh:
		encoder.CompressionLevel = png.BestCompression
		if isOpaque(img) {
			img = quantize(img)
		}
	}

	buf := &bytes.Buffer{}
	if err := encoder.Encode(buf, img); err != nil {
		return nil, err
	}
	if int64(buf.Len()) >= a.Size() {
		return a, nil
	}
	return asset.NewFromBytes(a.Name(), buf.Bytes(), a.ModTime()), nil
}

func decode(a asset.Asset) (image.Image, error) {
	r, err := a.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedImage, a.Name(), err)
	}
	return img, nil
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

func quantize(img image.Image) image.Image {
	bounds := img.Bounds()
	pal := image.NewPaletted(bounds, palette.Plan9)
	draw.FloydSteinberg.Draw(pal, bounds, img, bounds.Min)
	return pal
}
