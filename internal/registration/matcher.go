package registration

import "github.com/banshee-data/beacon.report/internal/geom"

// Match is an accepted alignment of a candidate cloud onto the anchor.
type Match struct {
	Rotation geom.Rotation // applied to the candidate's local beacons
	Offset   geom.Point3   // added after rotating; the scanner's global position
	Beacons  geom.Cloud    // candidate beacons in the global frame
	Overlap  int           // beacons of Beacons already present in the anchor
}

// TryRegister looks for a rotation and translation that put at least
// threshold of the candidate's beacons onto anchor points. Rotations are
// tried in table order and anchor points in sorted order; the first
// alignment reaching the threshold wins. A false result is the normal
// outcome for a candidate that does not overlap the anchor yet.
//
// Neither anchor nor candidate is modified. A threshold below 1 is treated
// as 1.
func TryRegister(anchor geom.PointSet, candidate geom.Cloud, threshold int) (Match, bool) {
	if threshold < 1 {
		threshold = 1
	}
	if len(candidate) < threshold || anchor.Len() < threshold {
		return Match{}, false
	}

	anchorPoints := anchor.Points()
	for _, r := range geom.AllRotations() {
		rotated := candidate.Rotate(r)
		// Different (a, c) pairs often imply the same offset; each offset
		// only needs counting once per rotation.
		tried := make(map[geom.Point3]struct{}, len(anchorPoints)*len(rotated))
		for _, a := range anchorPoints {
			for _, c := range rotated {
				offset := a.Sub(c)
				if _, done := tried[offset]; done {
					continue
				}
				tried[offset] = struct{}{}

				if n := overlapAt(anchor, rotated, offset, threshold); n >= threshold {
					placed := rotated.Translate(offset)
					return Match{
						Rotation: r,
						Offset:   offset,
						Beacons:  placed,
						Overlap:  anchor.Count(placed),
					}, true
				}
			}
		}
	}
	return Match{}, false
}

// overlapAt counts rotated points that land on the anchor after adding
// offset. It stops as soon as the threshold is reached or can no longer be.
func overlapAt(anchor geom.PointSet, rotated geom.Cloud, offset geom.Point3, threshold int) int {
	n := 0
	for i, p := range rotated {
		if anchor.Contains(p.Add(offset)) {
			n++
			if n >= threshold {
				return n
			}
		}
		if n+len(rotated)-i-1 < threshold {
			return n
		}
	}
	return n
}
