package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// NumRotations is the order of the cube's proper rotation group.
const NumRotations = 24

// Rotation indexes one entry of the fixed rotation table. The same index
// always denotes the same rotation, so a cloud can be rotated point by
// point and stay index-synchronous.
type Rotation int

// Identity is the table entry mapping (x,y,z) to (x,y,z).
const Identity Rotation = 14

// signedPermutation writes output axis i as sign[i] * input axis src[i].
type signedPermutation struct {
	src  [3]int
	sign [3]int
}

var rotationTable = [NumRotations]signedPermutation{
	{src: [3]int{0, 1, 2}, sign: [3]int{-1, -1, 1}},  // (-x,-y, z)
	{src: [3]int{0, 2, 1}, sign: [3]int{-1, -1, -1}}, // (-x,-z,-y)
	{src: [3]int{0, 1, 2}, sign: [3]int{-1, 1, -1}},  // (-x, y,-z)
	{src: [3]int{0, 2, 1}, sign: [3]int{-1, 1, 1}},   // (-x, z, y)
	{src: [3]int{1, 0, 2}, sign: [3]int{-1, -1, -1}}, // (-y,-x,-z)
	{src: [3]int{1, 2, 0}, sign: [3]int{-1, -1, 1}},  // (-y,-z, x)
	{src: [3]int{1, 0, 2}, sign: [3]int{-1, 1, 1}},   // (-y, x, z)
	{src: [3]int{1, 2, 0}, sign: [3]int{-1, 1, -1}},  // (-y, z,-x)
	{src: [3]int{2, 0, 1}, sign: [3]int{-1, -1, 1}},  // (-z,-x, y)
	{src: [3]int{2, 1, 0}, sign: [3]int{-1, -1, -1}}, // (-z,-y,-x)
	{src: [3]int{2, 0, 1}, sign: [3]int{-1, 1, -1}},  // (-z, x,-y)
	{src: [3]int{2, 1, 0}, sign: [3]int{-1, 1, 1}},   // (-z, y, x)
	{src: [3]int{0, 1, 2}, sign: [3]int{1, -1, -1}},  // ( x,-y,-z)
	{src: [3]int{0, 2, 1}, sign: [3]int{1, -1, 1}},   // ( x,-z, y)
	{src: [3]int{0, 1, 2}, sign: [3]int{1, 1, 1}},    // ( x, y, z)
	{src: [3]int{0, 2, 1}, sign: [3]int{1, 1, -1}},   // ( x, z,-y)
	{src: [3]int{1, 0, 2}, sign: [3]int{1, -1, 1}},   // ( y,-x, z)
	{src: [3]int{1, 2, 0}, sign: [3]int{1, -1, -1}},  // ( y,-z,-x)
	{src: [3]int{1, 0, 2}, sign: [3]int{1, 1, -1}},   // ( y, x,-z)
	{src: [3]int{1, 2, 0}, sign: [3]int{1, 1, 1}},    // ( y, z, x)
	{src: [3]int{2, 0, 1}, sign: [3]int{1, -1, -1}},  // ( z,-x,-y)
	{src: [3]int{2, 1, 0}, sign: [3]int{1, -1, 1}},   // ( z,-y, x)
	{src: [3]int{2, 0, 1}, sign: [3]int{1, 1, 1}},    // ( z, x, y)
	{src: [3]int{2, 1, 0}, sign: [3]int{1, 1, -1}},   // ( z, y,-x)
}

// AllRotations returns every rotation in table order.
func AllRotations() []Rotation {
	out := make([]Rotation, NumRotations)
	for i := range out {
		out[i] = Rotation(i)
	}
	return out
}

// Valid reports whether r indexes the rotation table.
func (r Rotation) Valid() bool {
	return r >= 0 && r < NumRotations
}

// Apply rotates p. It panics if r is not a valid table index.
func (r Rotation) Apply(p Point3) Point3 {
	e := rotationTable[r]
	c := [3]int{p.X, p.Y, p.Z}
	return Point3{
		X: e.sign[0] * c[e.src[0]],
		Y: e.sign[1] * c[e.src[1]],
		Z: e.sign[2] * c[e.src[2]],
	}
}

// IsIdentity reports whether r leaves every point unchanged.
func (r Rotation) IsIdentity() bool {
	return r == Identity
}

// Inverse returns the table entry that undoes r.
func (r Rotation) Inverse() Rotation {
	probe := Point3{X: 1, Y: 2, Z: 3}
	rotated := r.Apply(probe)
	for _, inv := range AllRotations() {
		if inv.Apply(rotated) == probe {
			return inv
		}
	}
	panic(fmt.Sprintf("geom: rotation %d has no inverse in table", r))
}

// Matrix returns r as a 3x3 matrix acting on column vectors.
func (r Rotation) Matrix() *mat.Dense {
	e := rotationTable[r]
	m := mat.NewDense(3, 3, nil)
	for row := 0; row < 3; row++ {
		m.Set(row, e.src[row], float64(e.sign[row]))
	}
	return m
}

// String names the rotation by the image of (x,y,z), e.g. "(-y,z,-x)".
func (r Rotation) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rotation(%d)", int(r))
	}
	e := rotationTable[r]
	axes := [3]string{"x", "y", "z"}
	var parts [3]string
	for i := range parts {
		parts[i] = axes[e.src[i]]
		if e.sign[i] < 0 {
			parts[i] = "-" + parts[i]
		}
	}
	return "(" + parts[0] + "," + parts[1] + "," + parts[2] + ")"
}

// Rotations returns the 24 images of p in table order.
func Rotations(p Point3) [NumRotations]Point3 {
	var out [NumRotations]Point3
	for i := range out {
		out[i] = Rotation(i).Apply(p)
	}
	return out
}

// rotationTolerance bounds float error when checking determinants of
// matrices whose entries are all 0 or ±1.
const rotationTolerance = 1e-9

// CheckRotations verifies that every table entry is a proper rotation
// (orthonormal with determinant +1), that the entries are pairwise
// distinct and that Identity really is the identity.
func CheckRotations() error {
	identity := mat.NewDiagDense(3, []float64{1, 1, 1})
	seen := make(map[Point3]Rotation, NumRotations)
	probe := Point3{X: 1, Y: 2, Z: 3}

	for _, r := range AllRotations() {
		m := r.Matrix()
		if det := mat.Det(m); math.Abs(det-1) > rotationTolerance {
			return fmt.Errorf("rotation %d %s: determinant %v, want 1", r, r, det)
		}

		var mmt mat.Dense
		mmt.Mul(m, m.T())
		if !mat.EqualApprox(&mmt, identity, rotationTolerance) {
			return fmt.Errorf("rotation %d %s: not orthonormal", r, r)
		}

		img := r.Apply(probe)
		if prev, dup := seen[img]; dup {
			return fmt.Errorf("rotation %d %s duplicates rotation %d", r, r, prev)
		}
		seen[img] = r
	}

	if Identity.Apply(probe) != probe {
		return fmt.Errorf("identity entry %d maps %v to %v", Identity, probe, Identity.Apply(probe))
	}
	return nil
}
