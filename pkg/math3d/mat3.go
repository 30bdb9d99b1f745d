package math3d

// Mat3 is a 3x3 matrix stored row-major: m[row*3+col]. Row-major storage
// matches how the rasterizer and shaders build these matrices — directly
// from three basis/edge vectors, one per row (see NewMat3Rows) — rather
// than from a column-major transform pipeline like Mat4.
type Mat3 [9]float64

// NewMat3Rows builds a matrix from three row vectors.
func NewMat3Rows(r1, r2, r3 Vec3) Mat3 {
	return Mat3{
		r1.X, r1.Y, r1.Z,
		r2.X, r2.Y, r2.Z,
		r3.X, r3.Y, r3.Z,
	}
}

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Mat4Upper3x3 extracts the upper-left 3x3 block of a column-major Mat4,
// converting it to Mat3's row-major storage.
func Mat4Upper3x3(m Mat4) Mat3 {
	return Mat3{
		m.Get(0, 0), m.Get(0, 1), m.Get(0, 2),
		m.Get(1, 0), m.Get(1, 1), m.Get(1, 2),
		m.Get(2, 0), m.Get(2, 1), m.Get(2, 2),
	}
}

// Row returns row i (0-indexed) as a Vec3.
func (m Mat3) Row(i int) Vec3 {
	return Vec3{m[i*3+0], m[i*3+1], m[i*3+2]}
}

// Mul multiplies two matrices: a * b.
func (a Mat3) Mul(b Mat3) Mat3 {
	var m Mat3
	for row := range 3 {
		for col := range 3 {
			var sum float64
			for k := range 3 {
				sum += a[row*3+k] * b[k*3+col]
			}
			m[row*3+col] = sum
		}
	}
	return m
}

// MulVec3 transforms a Vec3, dotting each row of m against v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m.Row(0).Dot(v),
		m.Row(1).Dot(v),
		m.Row(2).Dot(v),
	}
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Determinant returns the determinant via cofactor expansion along row 0.
func (m Mat3) Determinant() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Inverse returns the inverse of the matrix via adjugate-over-determinant.
// The caller is responsible for ensuring the matrix is non-singular; a
// singular matrix produces Inf/NaN entries rather than a defensive
// fallback, matching the core's no-defensive-checks error policy.
func (m Mat3) Inverse() Mat3 {
	invDet := 1.0 / m.Determinant()

	return Mat3{
		(m[4]*m[8] - m[5]*m[7]) * invDet,
		(m[2]*m[7] - m[1]*m[8]) * invDet,
		(m[1]*m[5] - m[2]*m[4]) * invDet,

		(m[5]*m[6] - m[3]*m[8]) * invDet,
		(m[0]*m[8] - m[2]*m[6]) * invDet,
		(m[2]*m[3] - m[0]*m[5]) * invDet,

		(m[3]*m[7] - m[4]*m[6]) * invDet,
		(m[1]*m[6] - m[0]*m[7]) * invDet,
		(m[0]*m[4] - m[1]*m[3]) * invDet,
	}
}
