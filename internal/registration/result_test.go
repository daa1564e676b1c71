package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/beacon.report/internal/geom"
)

func TestMap_Aggregates(t *testing.T) {
	m := &Map{
		Beacons: geom.NewPointSet(geom.Point3{X: 1}, geom.Point3{X: 2}, geom.Point3{X: 1}),
		Placements: []Placement{
			{ScannerID: 0, Position: geom.Point3{}},
			{ScannerID: 3, Position: geom.Point3{X: 1105, Y: -1205, Z: 1229}},
			{ScannerID: 7, Position: geom.Point3{X: -92, Y: -2380, Z: -20}},
		},
	}

	assert.Equal(t, 2, m.BeaconCount())
	assert.Equal(t, 3621, m.MaxScannerDistance())
	assert.Equal(t, []int{2492, 3539, 3621}, m.ScannerDistances())
	assert.Equal(t, []geom.Point3{{}, {X: 1105, Y: -1205, Z: 1229}, {X: -92, Y: -2380, Z: -20}}, m.Positions())

	p, ok := m.Placement(7)
	assert.True(t, ok)
	assert.Equal(t, geom.Point3{X: -92, Y: -2380, Z: -20}, p.Position)

	_, ok = m.Placement(5)
	assert.False(t, ok)
}

func TestStalledError(t *testing.T) {
	err := &StalledError{Remaining: []int{2, 5}, Registered: []int{0, 1}, Passes: 1, Threshold: 12}
	assert.Equal(t, "registration stalled after 1 idle pass(es): scanners [2 5] never shared 12 beacons with the map of scanners [0 1]", err.Error())
	assert.ErrorIs(t, err, ErrRegistrationStalled)
	assert.NotErrorIs(t, err, ErrNoScanners)
}
