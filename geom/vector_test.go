package geom

import (
	"math"
	"testing"
)

func TestVector3(t *testing.T) {
	zero := NewVector3(0, 0, 0)
	if zero.Len() != 0 || zero.LenSqr() != 0 || zero.Dot(zero) != 0 {
		t.Error("len != 0")
	}

	if *zero.Normalize() != *NewVector3(0, 0, 0) {
		t.Error("Normalize should keep zero vector.", zero)
	}

	if *NewVector3(1, 0, 0).Add(NewVector3(0, 1, 0)) != *NewVector3(1, 1, 0) {
		t.Error("Vector.Add()")
	}

	if *NewVector3(1, 0, 0).Cross(NewVector3(0, 1, 0)) != *NewVector3(0, 0, 1) {
		t.Error("Vector.Cross()")
	}

	if *NewVector3(3, 0, 4).Normalize() != *NewVector3(0.6, 0, 0.8) {
		t.Error("Vector.Normalize()")
	}
}

func TestZUpFromYUp(t *testing.T) {
	up := NewVector3(0, 1, 0).ZUpFromYUp()
	if *up != *NewVector3(0, 0, 1) {
		t.Error("Y-up should map to Z-up", up)
	}
	fwd := NewVector3(0, 0, 1).ZUpFromYUp()
	if *fwd != *NewVector3(0, -1, 0) {
		t.Error("+Z should map to -Y", fwd)
	}
	// handedness is preserved
	x, y := NewVector3(1, 0, 0).ZUpFromYUp(), NewVector3(0, 1, 0).ZUpFromYUp()
	if *x.Cross(y) != *NewVector3(0, 0, 1).ZUpFromYUp() {
		t.Error("cross product changed", x.Cross(y))
	}
}

func TestTRSMatrix(t *testing.T) {
	const eps = 0.000001

	// 90 degrees around Z
	s := float32(math.Sqrt(0.5))
	mat := NewTRSMatrix4(NewVector3(1, 2, 3), &Quaternion{Z: s, W: s}, NewVector3(2, 2, 2))

	p := mat.ApplyTo(NewVector3(1, 0, 0))
	if p.Sub(NewVector3(1, 4, 3)).Len() > eps {
		t.Error("ApplyTo: ", p)
	}

	if *NewMatrix4().Mul(NewMatrix4()) != *NewMatrix4() {
		t.Error("identity * identity")
	}
}
