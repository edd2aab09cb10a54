package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// ExportResult contains an encoded sketch ready for download.
type ExportResult struct {
	Filename    string `json:"filename"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Bytes decodes the PNG payload.
func (r *ExportResult) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(r.ImageBase64)
}

// ExportFilename names an export after the stages that produced it:
// "image", then "_smo" when smoothing was on and "_re" when the frame was
// cropped, then ".png".
func ExportFilename(smoothed, cropped bool) string {
	name := "image"
	if smoothed {
		name += "_smo"
	}
	if cropped {
		name += "_re"
	}
	return name + ".png"
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// Export encodes img as a base64 PNG.
//
// If maxSize is positive and the image is larger than maxSize in either
// dimension it is shrunk to fit, preserving aspect ratio.
func Export(img image.Image, filename string, maxSize int) (*ExportResult, error) {
	if maxSize > 0 {
		b := img.Bounds()
		if b.Dx() > maxSize || b.Dy() > maxSize {
			img = resize.Thumbnail(uint(maxSize), uint(maxSize), img, resize.Bilinear)
		}
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}

	return &ExportResult{
		Filename:    filename,
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
