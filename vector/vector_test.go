package vector

import (
	"math"
	"testing"
)

func TestAddSub(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector
		want Vector
	}{
		{"add positive", New(1, 2), New(3, 4), New(4, 6)},
		{"add negative", New(-1, -2), New(1, 2), New(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Add(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Add(%v,%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			back := Sub(got, tt.b)
			if math.Abs(back[0]-tt.a[0]) > 1e-9 || math.Abs(back[1]-tt.a[1]) > 1e-9 {
				t.Errorf("Sub(Add(a,b),b) = %v, want %v", back, tt.a)
			}
		})
	}
}

func TestAddInto(t *testing.T) {
	var out Vector
	AddInto(&out, New(1, 1), New(2, 3))
	if out != (New(3, 4)) {
		t.Errorf("AddInto = %v, want (3,4)", out)
	}
}

func TestCross(t *testing.T) {
	// unit x cross unit y should be +1 (CCW)
	if got := Cross(New(1, 0), New(0, 1)); math.Abs(got-1) > 1e-12 {
		t.Errorf("Cross(x,y) = %v, want 1", got)
	}
}

func TestPerp(t *testing.T) {
	v := New(1, 0)
	p := Perp(v, false)
	if Dot(v, p) != 0 {
		t.Errorf("Perp not orthogonal: dot=%v", Dot(v, p))
	}
	pn := Perp(v, true)
	if p != Neg(pn) {
		t.Errorf("Perp(negative) should be opposite of Perp(positive): %v vs %v", p, pn)
	}
}

func TestNormalise(t *testing.T) {
	v := Normalise(New(3, 4))
	if math.Abs(Magnitude(v)-1) > 1e-12 {
		t.Errorf("Normalise magnitude = %v, want 1", Magnitude(v))
	}
	if z := Normalise(Zero); z != Zero {
		t.Errorf("Normalise(zero) = %v, want zero", z)
	}
}

func TestRotateFullCircle(t *testing.T) {
	v := New(1, 0)
	got := Rotate(v, 2*math.Pi)
	if math.Abs(got[0]-v[0]) > 1e-9 || math.Abs(got[1]-v[1]) > 1e-9 {
		t.Errorf("Rotate by 2pi = %v, want %v", got, v)
	}
	quarter := Rotate(v, math.Pi/2)
	if math.Abs(quarter[0]) > 1e-9 || math.Abs(quarter[1]-1) > 1e-9 {
		t.Errorf("Rotate by pi/2 = %v, want (0,1)", quarter)
	}
}
