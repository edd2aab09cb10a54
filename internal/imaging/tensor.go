package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/transform"
)

// Tensor is a dense float32 tensor in NHWC layout.
//
// Classifier inputs are always a single batch of square RGB images, so Shape
// is [1, R, R, 3] where R is the model's input resolution.
type Tensor struct {
	Shape [4]int    `json:"shape"`
	Data  []float32 `json:"data"`
}

// Len returns the number of elements implied by Shape.
func (t Tensor) Len() int {
	return t.Shape[0] * t.Shape[1] * t.Shape[2] * t.Shape[3]
}

// At returns the channel value at (y, x) of the first batch entry.
func (t Tensor) At(y, x, channel int) float32 {
	return t.Data[(y*t.Shape[2]+x)*t.Shape[3]+channel]
}

// ToTensor converts an image to a classifier input tensor.
//
// The image is bilinearly resized to resolution x resolution, its alpha
// channel is dropped and each of the three remaining channels is stored as
// a float32 in the 0-255 range.
//
// Returns an error if resolution is not positive or img has no pixels.
func ToTensor(img image.Image, resolution int) (Tensor, error) {
	if resolution <= 0 {
		return Tensor{}, fmt.Errorf("invalid tensor resolution %d", resolution)
	}
	if img.Bounds().Empty() {
		return Tensor{}, fmt.Errorf("cannot build tensor from empty image")
	}

	resized := transform.Resize(img, resolution, resolution, transform.Linear)

	t := Tensor{
		Shape: [4]int{1, resolution, resolution, 3},
		Data:  make([]float32, resolution*resolution*3),
	}

	i := 0
	for y := 0; y < resolution; y++ {
		for x := 0; x < resolution; x++ {
			off := resized.PixOffset(x, y)
			t.Data[i] = float32(resized.Pix[off])
			t.Data[i+1] = float32(resized.Pix[off+1])
			t.Data[i+2] = float32(resized.Pix[off+2])
			i += 3
		}
	}

	return t, nil
}
