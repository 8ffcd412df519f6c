package region_test

import (
	"errors"
	"testing"

	"prodid/internal/region"
	"prodid/internal/testsupport"
)

func TestCropProducesJPEGOfRegionSize(t *testing.T) {
	source := testsupport.MustPNG(t, 400, 300)
	geom := squareGeometry(400, 300)
	sel, err := region.FromDrag(50, 50, 250, 200, geom)
	if err != nil {
		t.Fatalf("FromDrag failed: %v", err)
	}

	crop, err := region.Crop(source, sel)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	w, h, err := region.Dimensions(crop)
	if err != nil {
		t.Fatalf("Dimensions failed: %v", err)
	}
	if w != sel.PixelBounds.Width || h != sel.PixelBounds.Height {
		t.Fatalf("crop is %dx%d, want %dx%d", w, h, sel.PixelBounds.Width, sel.PixelBounds.Height)
	}
}

func TestCropRejectsUndecodableSource(t *testing.T) {
	sel, err := region.FromTap(50, 50, squareGeometry(100, 100))
	if err != nil {
		t.Fatalf("FromTap failed: %v", err)
	}
	_, err = region.Crop([]byte("not an image"), sel)
	if !errors.Is(err, region.ErrImageLoad) {
		t.Fatalf("expected ErrImageLoad, got %v", err)
	}
}

func TestCropRejectsRegionOutsideImage(t *testing.T) {
	source := testsupport.MustPNG(t, 100, 100)
	sel := region.SelectionRegion{
		ID:          "region_test",
		Type:        region.TypeRectangle,
		PixelBounds: region.PixelBounds{X: 500, Y: 500, Width: 50, Height: 50},
	}
	_, err := region.Crop(source, sel)
	if !errors.Is(err, region.ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}
}

func TestDimensionsReadsHeader(t *testing.T) {
	source := testsupport.MustPNG(t, 321, 123)
	w, h, err := region.Dimensions(source)
	if err != nil {
		t.Fatalf("Dimensions failed: %v", err)
	}
	if w != 321 || h != 123 {
		t.Fatalf("got %dx%d, want 321x123", w, h)
	}
}
