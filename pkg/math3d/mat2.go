package math3d

// Mat2 is a 2x2 matrix stored in column-major order.
//
// | 0  2 |
// | 1  3 |
type Mat2 [4]float64

// Identity2 returns the 2x2 identity matrix.
func Identity2() Mat2 {
	return Mat2{1, 0, 0, 1}
}

// Mul multiplies two matrices: a * b.
func (a Mat2) Mul(b Mat2) Mat2 {
	var m Mat2
	for col := range 2 {
		for row := range 2 {
			var sum float64
			for k := range 2 {
				sum += a[row+k*2] * b[k+col*2]
			}
			m[row+col*2] = sum
		}
	}
	return m
}

// MulVec2 transforms a Vec2.
func (m Mat2) MulVec2(v Vec2) Vec2 {
	return Vec2{
		m[0]*v.X + m[2]*v.Y,
		m[1]*v.X + m[3]*v.Y,
	}
}

// Transpose returns the transposed matrix.
func (m Mat2) Transpose() Mat2 {
	return Mat2{m[0], m[2], m[1], m[3]}
}

// Determinant returns the determinant of the matrix.
func (m Mat2) Determinant() float64 {
	return m[0]*m[3] - m[2]*m[1]
}

// Inverse returns the inverse of the matrix. The caller is responsible for
// ensuring the matrix is non-singular; a singular matrix produces a result
// with Inf/NaN entries rather than a defensive fallback.
func (m Mat2) Inverse() Mat2 {
	invDet := 1.0 / m.Determinant()
	return Mat2{
		m[3] * invDet, -m[1] * invDet,
		-m[2] * invDet, m[0] * invDet,
	}
}
