package registration

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/beacon.report/internal/geom"
	"github.com/banshee-data/beacon.report/internal/scanner"
	"github.com/banshee-data/beacon.report/internal/testutil"
)

func exampleScanners(t *testing.T) []scanner.Scanner {
	t.Helper()
	scanners, err := scanner.ParseReport(testutil.ExampleReader())
	require.NoError(t, err)
	return scanners
}

// sharedWithScanner0 lists, in scanner 1's frame, the twelve beacons that
// scanners 0 and 1 both see.
var sharedWithScanner0 = geom.Cloud{
	{X: 686, Y: 422, Z: 578}, {X: 605, Y: 423, Z: 415}, {X: 515, Y: 917, Z: -361},
	{X: -336, Y: 658, Z: 858}, {X: -476, Y: 619, Z: 847}, {X: -460, Y: 603, Z: -452},
	{X: 729, Y: 430, Z: 532}, {X: -322, Y: 571, Z: 750}, {X: -355, Y: 545, Z: -477},
	{X: 413, Y: 935, Z: -424}, {X: -391, Y: 539, Z: -444}, {X: 553, Y: 889, Z: -390},
}

func TestTryRegister_ExampleScanner1(t *testing.T) {
	scanners := exampleScanners(t)
	anchor := geom.NewPointSet(scanners[0].Beacons...)

	match, ok := TryRegister(anchor, scanners[1].Beacons, 12)
	require.True(t, ok)

	assert.Equal(t, testutil.ExamplePositions[1], match.Offset)
	assert.Equal(t, 12, match.Overlap)
	assert.Len(t, match.Beacons, len(scanners[1].Beacons))

	// The shared beacons land on scanner 0's coordinates.
	assert.True(t, anchor.Contains(geom.Point3{X: -618, Y: -824, Z: -621}))
	shared := sharedWithScanner0.Rotate(match.Rotation).Translate(match.Offset)
	assert.Equal(t, 12, anchor.Count(shared))
	assert.Contains(t, match.Beacons, geom.Point3{X: -618, Y: -824, Z: -621})
	assert.Contains(t, match.Beacons, geom.Point3{X: 459, Y: -707, Z: 401})
}

func TestTryRegister_NoOverlap(t *testing.T) {
	scanners := exampleScanners(t)
	anchor := geom.NewPointSet(scanners[0].Beacons...)

	// Only scanner 1 overlaps scanner 0 directly.
	for _, s := range scanners[2:] {
		_, ok := TryRegister(anchor, s.Beacons, 12)
		assert.False(t, ok, "scanner %d", s.ID)
	}
}

func TestTryRegister_ThresholdBoundary(t *testing.T) {
	scanners := exampleScanners(t)
	anchor := geom.NewPointSet(scanners[0].Beacons...)

	// Drop one shared beacon: eleven remain under the true alignment.
	var candidate geom.Cloud
	for _, p := range scanners[1].Beacons {
		if p != sharedWithScanner0[0] {
			candidate = append(candidate, p)
		}
	}
	require.Len(t, candidate, len(scanners[1].Beacons)-1)

	_, ok := TryRegister(anchor, candidate, 12)
	assert.False(t, ok, "threshold-1 shared beacons must not register")

	match, ok := TryRegister(anchor, candidate, 11)
	require.True(t, ok)
	assert.Equal(t, testutil.ExamplePositions[1], match.Offset)
	assert.Equal(t, 11, match.Overlap)
}

func TestTryRegister_LeavesInputsUntouched(t *testing.T) {
	scanners := exampleScanners(t)
	anchor := geom.NewPointSet(scanners[0].Beacons...)
	anchorBefore := anchor.Points()

	for _, s := range scanners[1:] {
		before := s.Beacons.Clone()
		TryRegister(anchor, s.Beacons, 12)
		if diff := cmp.Diff(before, s.Beacons); diff != "" {
			t.Errorf("scanner %d cloud modified (-before +after):\n%s", s.ID, diff)
		}
	}
	if diff := cmp.Diff(anchorBefore, anchor.Points()); diff != "" {
		t.Errorf("anchor modified (-before +after):\n%s", diff)
	}
}

func TestTryRegister_Degenerate(t *testing.T) {
	anchor := geom.NewPointSet(geom.Point3{X: 1, Y: 2, Z: 3})

	_, ok := TryRegister(anchor, nil, 12)
	assert.False(t, ok, "empty candidate")

	_, ok = TryRegister(geom.NewPointSet(), geom.Cloud{{X: 1, Y: 2, Z: 3}}, 1)
	assert.False(t, ok, "empty anchor")

	_, ok = TryRegister(anchor, geom.Cloud{{X: 1, Y: 2, Z: 3}}, 2)
	assert.False(t, ok, "fewer points than the threshold")

	// A non-positive threshold behaves like 1: any single point aligns.
	match, ok := TryRegister(anchor, geom.Cloud{{X: 9, Y: 9, Z: 9}}, 0)
	require.True(t, ok)
	assert.Equal(t, 1, match.Overlap)
	assert.Equal(t, geom.Cloud{{X: 1, Y: 2, Z: 3}}, match.Beacons)
}

func TestTryRegister_SyntheticGroundTruth(t *testing.T) {
	rep, err := scanner.Synthesize(scanner.SynthOptions{Scanners: 4, Seed: 11})
	require.NoError(t, err)

	for i := 1; i < len(rep.Scanners); i++ {
		prev := rep.Scanners[i-1]
		anchor := geom.NewPointSet(prev.Beacons.Rotate(rep.Rotations[i-1].Inverse()).Translate(rep.Positions[i-1])...)

		match, ok := TryRegister(anchor, rep.Scanners[i].Beacons, 12)
		require.True(t, ok, "scanner %d", i)
		assert.Equal(t, rep.Positions[i], match.Offset, "scanner %d", i)
		assert.Equal(t, rep.Rotations[i].Inverse(), match.Rotation, "scanner %d", i)
	}
}
