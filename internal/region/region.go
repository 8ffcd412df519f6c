package region

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Type discriminates how a selection was made.
type Type string

const (
	TypeTap       Type = "tap"
	TypeRectangle Type = "rectangle"
)

// tapFraction sizes a tap selection relative to the shorter image edge.
// minFraction floors both dimensions of any selection.
const (
	tapFraction = 0.30
	minFraction = 0.10
)

// PixelBounds is a rectangle in natural-pixel coordinates.
type PixelBounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SelectionRegion describes a sub-area of an image in both normalized (0-1)
// and natural-pixel coordinates. Normalized fields always derive from
// PixelBounds divided by the image dimensions.
type SelectionRegion struct {
	ID          string      `json:"id"`
	Type        Type        `json:"type"`
	CenterX     float64     `json:"centerX"`
	CenterY     float64     `json:"centerY"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	PixelBounds PixelBounds `json:"pixelBounds"`
}

// Geometry carries the display and natural dimensions needed to translate
// on-screen gestures into natural-pixel space.
type Geometry struct {
	DisplayWidth  float64
	DisplayHeight float64
	NaturalWidth  int
	NaturalHeight int
}

func (g Geometry) validate() error {
	if g.DisplayWidth <= 0 || g.DisplayHeight <= 0 {
		return fmt.Errorf("display dimensions must be positive, got %vx%v", g.DisplayWidth, g.DisplayHeight)
	}
	if g.NaturalWidth <= 0 || g.NaturalHeight <= 0 {
		return fmt.Errorf("natural dimensions must be positive, got %dx%d", g.NaturalWidth, g.NaturalHeight)
	}
	return nil
}

// FromTap builds a square selection centered on a tap point. The square is
// sized at 30% of the shorter natural edge, shrunk (never shifted past the
// image edge) when it would overflow, and floored at 10% of the shorter edge.
func FromTap(tapX, tapY float64, geom Geometry) (SelectionRegion, error) {
	if err := geom.validate(); err != nil {
		return SelectionRegion{}, err
	}

	nw := float64(geom.NaturalWidth)
	nh := float64(geom.NaturalHeight)
	scaleX := nw / geom.DisplayWidth
	scaleY := nh / geom.DisplayHeight

	naturalX := clampFloat(tapX*scaleX, 0, nw)
	naturalY := clampFloat(tapY*scaleY, 0, nh)

	size := math.Min(nw, nh) * tapFraction
	half := size / 2

	cropX := naturalX - half
	cropY := naturalY - half
	cropW := size
	cropH := size

	// Shrink the overflowing side instead of sliding the center.
	if cropX < 0 {
		cropW += cropX
		cropX = 0
	}
	if cropY < 0 {
		cropH += cropY
		cropY = 0
	}
	if cropX+cropW > nw {
		cropW = nw - cropX
	}
	if cropY+cropH > nh {
		cropH = nh - cropY
	}

	// Floor both dimensions, pulling the origin back so the rectangle stays
	// inside the image.
	minSize := math.Min(nw, nh) * minFraction
	if cropW < minSize {
		cropW = minSize
		if cropX+cropW > nw {
			cropX = nw - cropW
		}
	}
	if cropH < minSize {
		cropH = minSize
		if cropY+cropH > nh {
			cropY = nh - cropH
		}
	}

	return build(TypeTap, naturalX/nw, naturalY/nh, cropX, cropY, cropW, cropH, nw, nh), nil
}

// FromDrag builds a rectangular selection from two drag corners in display
// coordinates. Dragging direction does not matter; coordinates are normalized
// by min/max, scaled to natural-pixel space, and clamped to image bounds.
func FromDrag(startX, startY, endX, endY float64, geom Geometry) (SelectionRegion, error) {
	if err := geom.validate(); err != nil {
		return SelectionRegion{}, err
	}

	nw := float64(geom.NaturalWidth)
	nh := float64(geom.NaturalHeight)
	scaleX := nw / geom.DisplayWidth
	scaleY := nh / geom.DisplayHeight

	left := math.Min(startX, endX) * scaleX
	top := math.Min(startY, endY) * scaleY
	right := math.Max(startX, endX) * scaleX
	bottom := math.Max(startY, endY) * scaleY

	cropX := clampFloat(left, 0, nw)
	cropY := clampFloat(top, 0, nh)
	cropW := math.Min(right-left, nw-cropX)
	cropH := math.Min(bottom-top, nh-cropY)
	if cropW < 0 {
		cropW = 0
	}
	if cropH < 0 {
		cropH = 0
	}

	centerX := (cropX + cropW/2) / nw
	centerY := (cropY + cropH/2) / nh

	return build(TypeRectangle, centerX, centerY, cropX, cropY, cropW, cropH, nw, nh), nil
}

func build(kind Type, centerX, centerY, x, y, w, h, nw, nh float64) SelectionRegion {
	// Round the origin first, then cap the size to the remaining extent.
	// Rounding origin and size independently can push the rectangle one pixel
	// past the image edge when both carry half fractions.
	px := int(math.Round(x))
	py := int(math.Round(y))
	pw := int(math.Round(w))
	ph := int(math.Round(h))
	if px+pw > int(nw) {
		pw = int(nw) - px
	}
	if py+ph > int(nh) {
		ph = int(nh) - py
	}
	return SelectionRegion{
		ID:      "region_" + uuid.NewString(),
		Type:    kind,
		CenterX: centerX,
		CenterY: centerY,
		X:       x / nw,
		Y:       y / nh,
		Width:   w / nw,
		Height:  h / nh,
		PixelBounds: PixelBounds{
			X:      px,
			Y:      py,
			Width:  pw,
			Height: ph,
		},
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
