package math3d

import "testing"

func TestVec3NormalizeUnitLength(t *testing.T) {
	v := V3(3, 4, 0).Normalize()
	if !approxEqual(v.Len(), 1, 1e-9) {
		t.Fatalf("expected unit length, got %v", v.Len())
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	got := Vec3{}.Normalize()
	if got != (Vec3{}) {
		t.Fatalf("normalize of zero vector should be zero, got %v", got)
	}
}

func TestVec3CrossOrthogonalToOperands(t *testing.T) {
	a := V3(1, 0, 0)
	b := V3(0, 1, 0)
	c := a.Cross(b)

	if !approxEqual(c.Dot(a), 0, 1e-9) {
		t.Fatalf("cross product not orthogonal to a: dot=%v", c.Dot(a))
	}
	if !approxEqual(c.Dot(b), 0, 1e-9) {
		t.Fatalf("cross product not orthogonal to b: dot=%v", c.Dot(b))
	}
	if c != V3(0, 0, 1) {
		t.Fatalf("expected +Z, got %v", c)
	}
}

func TestVec3AddSubInverse(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, -5, 6)
	if a.Add(b).Sub(b) != a {
		t.Fatalf("add then sub should round-trip")
	}
}

func TestVec3MinMax(t *testing.T) {
	a := V3(1, 5, -3)
	b := V3(4, 2, -3)
	if a.Min(b) != V3(1, 2, -3) {
		t.Fatalf("min wrong: %v", a.Min(b))
	}
	if a.Max(b) != V3(4, 5, -3) {
		t.Fatalf("max wrong: %v", a.Max(b))
	}
}

func TestVec2NormalizeZero(t *testing.T) {
	got := Zero2().Normalize()
	if got != (Vec2{}) {
		t.Fatalf("normalize of zero Vec2 should be zero, got %v", got)
	}
}

func TestVec2NormalizeUnitLength(t *testing.T) {
	v := V2(3, 4).Normalize()
	if !approxEqual(v.Len(), 1, 1e-9) {
		t.Fatalf("expected unit length, got %v", v.Len())
	}
}

func TestVec4PerspectiveDivide(t *testing.T) {
	v := V4(2, 4, 6, 2)
	got := v.PerspectiveDivide()
	want := V3(1, 2, 3)
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestVec4PerspectiveDivideZeroW(t *testing.T) {
	v := V4(1, 2, 3, 0)
	got := v.PerspectiveDivide()
	if got != V3(1, 2, 3) {
		t.Fatalf("zero-w divide should pass through unscaled, got %v", got)
	}
}
