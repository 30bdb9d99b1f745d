package math3d

import "testing"

func TestProject4DThenProject3D(t *testing.T) {
	v := V3(1, 2, 3)
	clip := Project4D(v, 2)
	got := Project3D(clip)
	want := V3(0.5, 1, 1.5)
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTruncateV2DropsZ(t *testing.T) {
	got := TruncateV2(V3(4, 5, 6))
	want := V2(4, 5)
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTruncateV2iTruncates(t *testing.T) {
	got := TruncateV2i(V3(4.7, 5.2, 0))
	want := V2i(4, 5)
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}
