package registration

import (
	"sort"

	"github.com/banshee-data/beacon.report/internal/geom"
)

// BeaconCount returns the number of distinct beacons in the merged map.
func (m *Map) BeaconCount() int {
	return m.Beacons.Len()
}

// Positions returns the scanner positions in registration order.
func (m *Map) Positions() []geom.Point3 {
	out := make([]geom.Point3, len(m.Placements))
	for i, p := range m.Placements {
		out[i] = p.Position
	}
	return out
}

// MaxScannerDistance returns the largest Manhattan distance between any two
// scanner positions, or 0 for a single scanner.
func (m *Map) MaxScannerDistance() int {
	best := 0
	for i, p := range m.Placements {
		for _, q := range m.Placements[i+1:] {
			if d := p.Position.Manhattan(q.Position); d > best {
				best = d
			}
		}
	}
	return best
}

// ScannerDistances returns every pairwise Manhattan distance between
// scanner positions, sorted ascending. It does not depend on which scanner
// defined the global frame.
func (m *Map) ScannerDistances() []int {
	n := len(m.Placements)
	out := make([]int, 0, n*(n-1)/2)
	for i, p := range m.Placements {
		for _, q := range m.Placements[i+1:] {
			out = append(out, p.Position.Manhattan(q.Position))
		}
	}
	sort.Ints(out)
	return out
}

// Placement returns the placement of scanner id.
func (m *Map) Placement(id int) (Placement, bool) {
	for _, p := range m.Placements {
		if p.ScannerID == id {
			return p, true
		}
	}
	return Placement{}, false
}
