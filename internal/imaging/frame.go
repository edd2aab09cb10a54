package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ErrEmptyRegion is returned when a frame is requested for a region with no
// area, which is what an untouched bounding box converts to.
var ErrEmptyRegion = errors.New("empty frame region")

// NormalizeFrame crops region out of src and pads it to a square.
//
// The square's side is max(region width, region height). The cropped pixels
// are anchored at (0,0) of the square; the rest of the square is filled with
// background. Padding instead of stretching keeps the sketch's aspect ratio
// when the frame is later resized to a classifier's input resolution.
//
// Parameters:
//   - src: The ink surface image.
//   - region: Pixel rectangle to extract (Max exclusive). Must be non-empty
//     and lie inside src's bounds.
//   - background: Fill color for the padded area.
//
// Returns:
//   - *image.NRGBA: A side x side image with origin (0,0).
//   - error: ErrEmptyRegion for a zero-area region, or a bounds error.
//
// # Example
//
// A bounding box {minX:50, minY:60, maxX:150, maxY:100} is the region
// (50,60)-(151,101), 101x41 pixels. The frame is 101x101 with the crop in
// rows 0..40 and background below.
func NormalizeFrame(src image.Image, region image.Rectangle, background color.Color) (*image.NRGBA, error) {
	if region.Empty() {
		return nil, ErrEmptyRegion
	}

	bounds := src.Bounds()
	if !region.In(bounds) {
		return nil, fmt.Errorf("frame region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			region.Min.X, region.Min.Y, region.Max.X, region.Max.Y,
			bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}

	side := region.Dx()
	if region.Dy() > side {
		side = region.Dy()
	}

	frame := imaging.New(side, side, background)
	cut := imaging.Crop(src, region)
	return imaging.Paste(frame, cut, image.Pt(0, 0)), nil
}
