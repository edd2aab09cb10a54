// Package imaging turns sketch pixels into classifier input and PNG files.
//
// It covers the image side of the evaluation pipeline:
//   - NormalizeFrame crops the inked region and pads it to a square
//   - ToTensor resizes a frame to a model's resolution and flattens it into
//     a [1, R, R, 3] float32 tensor of 0-255 RGB values
//   - Export and ExportFilename encode the evaluated image as base64 PNG
//   - ImageCache loads saved sketches from disk for batch classification
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Regions are
// image.Rectangle values: Min is inclusive and Max is exclusive.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The other functions are
// stateless and never modify their input images.
package imaging
