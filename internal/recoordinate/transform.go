// Package recoordinate fits and applies the affine transform that
// re-expresses instrument coordinates in the frame of the currently
// loaded image, using three shared reference marks.
package recoordinate

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"lasermark/pkg/geometry"
)

// ErrDegenerateReferenceSet is returned when the three source reference
// points are collinear or coincident, so no unique affine map exists.
var ErrDegenerateReferenceSet = errors.New("degenerate reference set")

// collinearTol is the area threshold below which a source triplet is
// considered degenerate.
const collinearTol = 1e-9

// FitAffine computes the unique 2D affine transform T with
// T(src[i]) == dst[i] for the three correspondences. Correspondence is
// positional: callers must supply both sides in matching order.
func FitAffine(src, dst [3]geometry.Point2D) (geometry.AffineTransform, error) {
	if geometry.Collinear(src[0], src[1], src[2], collinearTol) {
		return geometry.AffineTransform{}, fmt.Errorf(
			"%w: source points %v are collinear", ErrDegenerateReferenceSet, src)
	}

	// Six equations in the six unknowns a, b, tx, c, d, ty:
	//   x' = a*x + b*y + tx
	//   y' = c*x + d*y + ty
	A := mat.NewDense(6, 6, nil)
	B := mat.NewVecDense(6, nil)

	for i := 0; i < 3; i++ {
		x, y := src[i].X, src[i].Y
		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		B.SetVec(i*2, dst[i].X)

		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		B.SetVec(i*2+1, dst[i].Y)
	}

	var params mat.VecDense
	if err := params.SolveVec(A, B); err != nil {
		return geometry.AffineTransform{}, fmt.Errorf("%w: %v", ErrDegenerateReferenceSet, err)
	}

	return geometry.AffineTransform{
		A:  params.AtVec(0),
		B:  params.AtVec(1),
		TX: params.AtVec(2),
		C:  params.AtVec(3),
		D:  params.AtVec(4),
		TY: params.AtVec(5),
	}, nil
}

// ApplyToPixel applies t to (x, y) and rounds to integer pixel
// coordinates, half away from zero. Rounding happens only at this
// boundary; the transform itself stays in floating point.
func ApplyToPixel(t geometry.AffineTransform, x, y float64) (int, int) {
	p := t.Apply(geometry.Point2D{X: x, Y: y})
	return int(math.Round(p.X)), int(math.Round(p.Y))
}
