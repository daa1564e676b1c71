package geom

import "fmt"

// Point3 is a beacon or scanner position on the integer lattice.
type Point3 struct {
	X, Y, Z int
}

// Add returns the sum of points p and q.
func (p Point3) Add(q Point3) Point3 {
	return Point3{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Sub returns the difference of points p and q.
func (p Point3) Sub(q Point3) Point3 {
	return Point3{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Neg returns p reflected through the origin.
func (p Point3) Neg() Point3 {
	return Point3{X: -p.X, Y: -p.Y, Z: -p.Z}
}

// Manhattan returns the taxicab distance between p and q.
func (p Point3) Manhattan(q Point3) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y) + abs(p.Z-q.Z)
}

// NormSquared returns the squared Euclidean distance of p from the origin.
func (p Point3) NormSquared() int {
	return p.X*p.X + p.Y*p.Y + p.Z*p.Z
}

// Less orders points by X, then Y, then Z.
func (p Point3) Less(q Point3) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	if p.Y != q.Y {
		return p.Y < q.Y
	}
	return p.Z < q.Z
}

// String formats p the way scanner reports write it.
func (p Point3) String() string {
	return fmt.Sprintf("%d,%d,%d", p.X, p.Y, p.Z)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
