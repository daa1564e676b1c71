package geom

import "sort"

// Cloud is an ordered list of beacons in one scanner's frame.
// Rotate and Translate return new clouds; the receiver is never modified.
type Cloud []Point3

// Rotate returns the cloud with r applied to every point, order preserved.
func (c Cloud) Rotate(r Rotation) Cloud {
	out := make(Cloud, len(c))
	for i, p := range c {
		out[i] = r.Apply(p)
	}
	return out
}

// Translate returns the cloud shifted by t.
func (c Cloud) Translate(t Point3) Cloud {
	out := make(Cloud, len(c))
	for i, p := range c {
		out[i] = p.Add(t)
	}
	return out
}

// Clone returns a copy of c.
func (c Cloud) Clone() Cloud {
	out := make(Cloud, len(c))
	copy(out, c)
	return out
}

// PointSet is a set of points in the global frame.
type PointSet map[Point3]struct{}

// NewPointSet returns a set holding the given points.
func NewPointSet(points ...Point3) PointSet {
	s := make(PointSet, len(points))
	for _, p := range points {
		s[p] = struct{}{}
	}
	return s
}

// Add inserts p.
func (s PointSet) Add(p Point3) {
	s[p] = struct{}{}
}

// AddAll inserts every point of c and returns how many were new.
func (s PointSet) AddAll(c Cloud) int {
	added := 0
	for _, p := range c {
		if _, ok := s[p]; !ok {
			s[p] = struct{}{}
			added++
		}
	}
	return added
}

// Contains reports whether p is in the set.
func (s PointSet) Contains(p Point3) bool {
	_, ok := s[p]
	return ok
}

// Len returns the number of distinct points.
func (s PointSet) Len() int {
	return len(s)
}

// Count returns how many points of c are members of s.
func (s PointSet) Count(c Cloud) int {
	n := 0
	for _, p := range c {
		if _, ok := s[p]; ok {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of s.
func (s PointSet) Clone() PointSet {
	out := make(PointSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// Points returns the members sorted by X, Y, Z.
func (s PointSet) Points() []Point3 {
	out := make([]Point3, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
