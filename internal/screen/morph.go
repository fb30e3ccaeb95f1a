package screen

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// GrayToMat converts a single-channel image to a CV_8U Mat.
// The caller owns the returned Mat.
func GrayToMat(img *image.Gray) (gocv.Mat, error) {
	mat, err := gocv.ImageGrayToMatGray(img)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to convert mask: %w", err)
	}
	return mat, nil
}

// MatToGray converts a CV_8U Mat back to a Go image.
func MatToGray(mat gocv.Mat) (*image.Gray, error) {
	if mat.Type() != gocv.MatTypeCV8U {
		return nil, fmt.Errorf("unexpected mat type %v", mat.Type())
	}
	rows, cols := mat.Rows(), mat.Cols()
	out := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			out.Pix[y*out.Stride+x] = mat.GetUCharAt(y, x)
		}
	}
	return out, nil
}

// Erode applies a square morphological erosion of the given radius to a
// mask, removing isolated pixels and thinning strokes. Pixels beyond the
// border count as On, so shapes touching the edge are not eaten from outside.
func Erode(mask *image.Gray, radius int) (*image.Gray, error) {
	if radius <= 0 {
		return mask, nil
	}

	src, err := GrayToMat(mask)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: 2*radius + 1, Y: 2*radius + 1})
	defer kernel.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Erode(src, &dst, kernel)

	return MatToGray(dst)
}
