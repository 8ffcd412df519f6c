package region

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"
)

// cropQuality matches the lossy re-encode quality used for identification crops.
const cropQuality = 90

// ErrImageLoad reports that the source image could not be decoded. Terminal
// for the single region, not for the batch.
var ErrImageLoad = errors.New("image load error")

// ErrRender reports that the crop surface could not be produced from a decoded
// image. Terminal for the single region, not for the batch.
var ErrRender = errors.New("render error")

// Crop decodes source, draws the region's pixel bounds into a buffer sized to
// the crop, and re-encodes it as JPEG.
func Crop(source []byte, sel SelectionRegion) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("%w: decode source: %w", ErrImageLoad, err)
	}

	bounds := img.Bounds()
	rect := image.Rect(
		sel.PixelBounds.X,
		sel.PixelBounds.Y,
		sel.PixelBounds.X+sel.PixelBounds.Width,
		sel.PixelBounds.Y+sel.PixelBounds.Height,
	).Add(bounds.Min).Intersect(bounds)

	if rect.Empty() {
		return nil, fmt.Errorf("%w: region %s outside image %dx%d", ErrRender, sel.ID, bounds.Dx(), bounds.Dy())
	}

	crop := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(crop, crop.Bounds(), img, rect.Min, draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, crop, &jpeg.Options{Quality: cropQuality}); err != nil {
		return nil, fmt.Errorf("%w: encode crop: %w", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// Dimensions decodes just the image header and returns natural width/height.
func Dimensions(source []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(source))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: decode config: %w", ErrImageLoad, err)
	}
	return cfg.Width, cfg.Height, nil
}
