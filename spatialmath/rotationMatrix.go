package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrix is a 3x3 matrix in row major order.
// m[3*r + c] is the element in the r'th row and c'th column.
type RotationMatrix struct {
	mat [9]float64
}

// NewRotationMatrix creates the rotation matrix from a row-major slice of nine floats.
func NewRotationMatrix(m []float64) (*RotationMatrix, error) {
	if len(m) != 9 {
		return nil, newRotationMatrixInputError(m)
	}
	mat := [9]float64{}
	copy(mat[:], m)
	return &RotationMatrix{mat}, nil
}

// At returns the float corresponding to the element at the specified location.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat[3*row+col]
}

// Row returns the row of the matrix at the given index.
func (rm *RotationMatrix) Row(row int) [3]float64 {
	return [3]float64{rm.mat[3*row], rm.mat[3*row+1], rm.mat[3*row+2]}
}

// Mat3 returns the matrix as an mgl64 (column major) 3x3 matrix.
func (rm *RotationMatrix) Mat3() mgl64.Mat3 {
	var m mgl64.Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.Set(r, c, rm.At(r, c))
		}
	}
	return m
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (rm *RotationMatrix) RotationMatrix() *RotationMatrix {
	return rm
}

// Quaternion returns orientation in quaternion representation.
func (rm *RotationMatrix) Quaternion() quat.Number {
	q := mgl64.Mat4ToQuat(rm.Mat3().Mat4()).Normalize()
	out := quat.Number{Real: q.W, Imag: q.V[0], Jmag: q.V[1], Kmag: q.V[2]}
	if out.Real < 0 {
		out = Flip(out)
	}
	return out
}

// AxisAngles returns the orientation in axis angle representation.
func (rm *RotationMatrix) AxisAngles() *R4AA {
	return QuatToR4AA(rm.Quaternion())
}

// EulerAngles returns orientation in Euler angle representation.
func (rm *RotationMatrix) EulerAngles() *EulerAngles {
	return QuatToEulerAngles(rm.Quaternion())
}

// IsOrthonormal reports whether the rows of the matrix are unit length and mutually orthogonal, and the matrix is
// a proper rotation (determinant +1), all within tol.
func (rm *RotationMatrix) IsOrthonormal(tol float64) bool {
	m := rm.Mat3()
	product := m.Mul3(m.Transpose())
	if !product.ApproxEqualThreshold(mgl64.Ident3(), tol) {
		return false
	}
	return math.Abs(m.Det()-1) <= tol
}
