// Package canvas implements the pixel surface that sketch strokes are drawn on.
//
// A Surface is a fixed-size, mutable 2D pixel buffer supporting four
// operations: line-segment drawing, rectangular read, rectangular write and
// solid fill. Coordinates are 0-based with (0,0) at the top-left corner.
//
// Canvas is the default Surface. It rasterizes strokes with gogpu/gg using
// round line caps.
package canvas

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"

	"github.com/ironsheep/sketch-classifier/internal/log"
)

// Surface is the capability the stroke pipeline needs from a drawing target.
type Surface interface {
	// DrawSegment strokes a line from one point to another in the ink color.
	DrawSegment(from, to image.Point)

	// ReadRect returns a copy of the pixels inside r, clipped to Bounds.
	// The returned image has its origin at (0,0).
	ReadRect(r image.Rectangle) image.Image

	// WriteRect copies img onto the surface with its top-left corner at at.
	// Pixels falling outside the surface are dropped.
	WriteRect(img image.Image, at image.Point)

	// Fill paints the whole surface with the background color.
	Fill()

	// Bounds returns the surface rectangle.
	Bounds() image.Rectangle

	// Snapshot returns a copy of the full surface.
	Snapshot() image.Image
}

// Options configures a Canvas.
type Options struct {
	Width      int
	Height     int
	LineWidth  float64
	Ink        color.Color
	Background color.Color
}

// DefaultOptions returns a 400x400 white canvas with 2px black ink.
func DefaultOptions() Options {
	return Options{
		Width:      400,
		Height:     400,
		LineWidth:  2,
		Ink:        color.Black,
		Background: color.White,
	}
}

// Canvas is a Surface backed by a gg drawing context.
type Canvas struct {
	dc   *gg.Context
	opts Options
}

// New creates a canvas and fills it with the background color.
func New(opts Options) *Canvas {
	if opts.Ink == nil {
		opts.Ink = color.Black
	}
	if opts.Background == nil {
		opts.Background = color.White
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = 2
	}

	c := &Canvas{
		dc:   gg.NewContext(opts.Width, opts.Height),
		opts: opts,
	}
	c.dc.SetLineCap(gg.LineCapRound)
	c.dc.SetLineWidth(opts.LineWidth)
	c.dc.SetColor(opts.Ink)
	c.Fill()
	return c
}

// DrawSegment implements Surface.
func (c *Canvas) DrawSegment(from, to image.Point) {
	c.dc.DrawLine(float64(from.X), float64(from.Y), float64(to.X), float64(to.Y))
	if err := c.dc.Stroke(); err != nil {
		log.Warning.Printf("failed to stroke segment %v-%v: %v", from, to, err)
	}
}

// ReadRect implements Surface.
func (c *Canvas) ReadRect(r image.Rectangle) image.Image {
	return imaging.Crop(c.dc.Image(), r)
}

// WriteRect implements Surface.
func (c *Canvas) WriteRect(img image.Image, at image.Point) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c.dc.SetPixel(at.X+x-b.Min.X, at.Y+y-b.Min.Y, gg.FromColor(img.At(x, y)))
		}
	}
}

// Fill implements Surface.
func (c *Canvas) Fill() {
	c.dc.ClearWithColor(gg.FromColor(c.opts.Background))
}

// Bounds implements Surface.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.opts.Width, c.opts.Height)
}

// Snapshot implements Surface.
func (c *Canvas) Snapshot() image.Image {
	return c.dc.Image()
}

// Background returns the fill color used by Fill.
func (c *Canvas) Background() color.Color {
	return c.opts.Background
}

// Close releases the drawing context.
func (c *Canvas) Close() error {
	return c.dc.Close()
}
