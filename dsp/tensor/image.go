package tensor

import (
	"fmt"
	"image"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Gray builds an 8-bit grayscale image from m, one pixel per cell. Cells are
// clamped to [0, 255] and truncated to integers.
func Gray(m mat.Matrix) *image.Gray {
	rows, cols := m.Dims()
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+cols]
		for x := range row {
			row[x] = toByte(m.At(y, x))
		}
	}
	return img
}

func toByte(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}

// Resize scales src to width × height with bilinear interpolation.
func Resize(src *image.Gray, width, height int) (*image.Gray, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("tensor resize size must be > 0: %dx%d", width, height)
	}
	if src == nil || src.Bounds().Empty() {
		return nil, fmt.Errorf("tensor resize of empty image")
	}
	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// ToTensor converts img to a height × width matrix of floats in [0, 1].
func ToTensor(img *image.Gray) *mat.Dense {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := mat.NewDense(h, w, nil)
	raw := out.RawMatrix()

	row := make([]float64, w)
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			row[x] = float64(img.Pix[off+x])
		}
		vecmath.ScaleBlock(raw.Data[y*raw.Stride:y*raw.Stride+w], row, 1.0/255)
	}
	return out
}

// Normalize maps every cell of m to (v - mean) / std in place.
func Normalize(m *mat.Dense, mean, std float64) error {
	if std == 0 || math.IsNaN(std) || math.IsInf(std, 0) {
		return fmt.Errorf("tensor normalize std must be finite and non-zero: %f", std)
	}
	raw := m.RawMatrix()
	for r := 0; r < raw.Rows; r++ {
		row := raw.Data[r*raw.Stride : r*raw.Stride+raw.Cols]
		floats.AddConst(-mean, row)
		vecmath.ScaleBlockInPlace(row, 1/std)
	}
	return nil
}
