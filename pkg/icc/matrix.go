package icc

// Matrix3 is a row-major 3x3 matrix over the PCS.
type Matrix3 [3][3]float32

// RGBMatrix holds the three device-to-PCS matrix columns read from the
// rXYZ/gXYZ/bXYZ tags.
type RGBMatrix struct {
	R, G, B XYZ
}

// AsMatrix3 lays the three columns out as a row-major matrix so MulVec can
// apply it to a linear RGB triple in one pass.
func (m RGBMatrix) AsMatrix3() Matrix3 {
	return Matrix3{
		{m.R.X, m.G.X, m.B.X},
		{m.R.Y, m.G.Y, m.B.Y},
		{m.R.Z, m.G.Z, m.B.Z},
	}
}

// MulVec applies the matrix to a 3-vector.
func (m Matrix3) MulVec(v [3]float32) [3]float32 {
	return [3]float32{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Mul composes two matrices, a applied after b (a.Mul(b).MulVec(v) == a.MulVec(b.MulVec(v))).
func (a Matrix3) Mul(b Matrix3) Matrix3 {
	var out Matrix3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var s float32
			for k := 0; k < 3; k++ {
				s += a[r][k] * b[k][c]
			}
			out[r][c] = s
		}
	}
	return out
}

// bradfordM and its inverse implement the Bradford cone-response transform
// used to build a chromatic-adaptation matrix when a profile has no chad tag.
var bradfordM = Matrix3{
	{0.8951, 0.2664, -0.1614},
	{-0.7502, 1.7135, 0.0367},
	{0.0389, -0.0685, 1.0296},
}

var bradfordMInv = Matrix3{
	{0.9869929, -0.1470543, 0.1599627},
	{0.4323053, 0.5183603, 0.0492912},
	{-0.0085287, 0.0400428, 0.9684867},
}

// bradfordAdaptation builds the 3x3 matrix that adapts an XYZ tristimulus
// value from src white to dst white via the Bradford cone-response model.
func bradfordAdaptation(src, dst XYZ) Matrix3 {
	s := bradfordM.MulVec([3]float32{src.X, src.Y, src.Z})
	d := bradfordM.MulVec([3]float32{dst.X, dst.Y, dst.Z})

	var scale Matrix3
	scale[0][0] = d[0] / s[0]
	scale[1][1] = d[1] / s[1]
	scale[2][2] = d[2] / s[2]

	return bradfordMInv.Mul(scale).Mul(bradfordM)
}
