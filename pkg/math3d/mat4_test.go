package math3d

import "testing"

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}

func mat4ApproxEqual(t *testing.T, got, want Mat4, eps float64) {
	t.Helper()
	for i := range got {
		if !approxEqual(got[i], want[i], eps) {
			t.Fatalf("mat4 mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}

func TestMat4MulIdentity(t *testing.T) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.7))
	mat4ApproxEqual(t, m.Mul(Identity()), m, epsilon)
	mat4ApproxEqual(t, Identity().Mul(m), m, epsilon)
}

func TestMat4InverseRoundTrip(t *testing.T) {
	cases := []Mat4{
		Identity(),
		Translate(V3(3, -2, 5)),
		RotateX(0.4),
		RotateY(1.1),
		RotateX(0.4).Mul(RotateY(1.1)),
		Scale(V3(2, 3, 0.5)),
		Translate(V3(1, 2, 3)).Mul(RotateY(0.5)).Mul(Scale(V3(2, 2, 2))),
	}

	for i, m := range cases {
		got := m.Mul(m.Inverse())
		mat4ApproxEqual(t, got, Identity(), 1e-6)
		t.Logf("case %d ok", i)
	}
}

func TestMat4TransposeInvolution(t *testing.T) {
	m := Translate(V3(1, 2, 3)).Mul(RotateX(0.9))
	mat4ApproxEqual(t, m.Transpose().Transpose(), m, epsilon)
}

func TestMat4MulVec3Translation(t *testing.T) {
	m := Translate(V3(1, 2, 3))
	got := m.MulVec3(V3(0, 0, 0))
	want := V3(1, 2, 3)
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMat4MulVec3DirIgnoresTranslation(t *testing.T) {
	m := Translate(V3(10, 20, 30))
	got := m.MulVec3Dir(V3(1, 0, 0))
	want := V3(1, 0, 0)
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMat4RotateYPreservesLength(t *testing.T) {
	v := V3(1, 2, 3)
	rotated := RotateY(1.23).MulVec3(v)
	if !approxEqual(rotated.Len(), v.Len(), 1e-9) {
		t.Fatalf("rotation changed length: %v -> %v", v.Len(), rotated.Len())
	}
}

func TestMat4LookAtOrthonormalBasis(t *testing.T) {
	m := LookAt(V3(0, 0, 5), V3(0, 0, 0), V3(0, 1, 0))
	right := V3(m.Get(0, 0), m.Get(0, 1), m.Get(0, 2))
	up := V3(m.Get(1, 0), m.Get(1, 1), m.Get(1, 2))

	if !approxEqual(right.Len(), 1, 1e-9) {
		t.Fatalf("right basis not unit length: %v", right.Len())
	}
	if !approxEqual(up.Len(), 1, 1e-9) {
		t.Fatalf("up basis not unit length: %v", up.Len())
	}
	if !approxEqual(right.Dot(up), 0, 1e-9) {
		t.Fatalf("right/up not orthogonal: dot=%v", right.Dot(up))
	}
}
