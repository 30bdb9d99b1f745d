package math3d

// Project4D appends a w coordinate to a Vec3, lifting it into homogeneous
// clip space.
func Project4D(v Vec3, w float64) Vec4 {
	return V4FromV3(v, w)
}

// Project3D performs the perspective divide {x/w, y/w, z/w}.
func Project3D(v Vec4) Vec3 {
	return v.PerspectiveDivide()
}

// TruncateV2 drops the Z component, used to turn an NDC-screen Vec3 into
// an integer-addressable 2D point.
func TruncateV2(v Vec3) Vec2 {
	return Vec2{v.X, v.Y}
}

// TruncateV2i is TruncateV2 truncated toward zero to integer pixel
// coordinates.
func TruncateV2i(v Vec3) Vec2i {
	return Vec2i{int(v.X), int(v.Y)}
}
