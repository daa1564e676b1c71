// Package testutil provides shared test fixtures and helpers.
//
// The canonical five-scanner report lives in testdata and is embedded so
// that every package can register it without path juggling.
package testutil

import (
	_ "embed"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/beacon.report/internal/geom"
)

// ExampleReport is the canonical five-scanner report.
//
//go:embed testdata/example_scanners.txt
var ExampleReport string

// Known answers for ExampleReport with scanner 0 as the bootstrap.
const (
	ExampleBeaconCount        = 79
	ExampleMaxScannerDistance = 3621
)

// ExamplePositions holds each example scanner's position in scanner 0's frame.
var ExamplePositions = map[int]geom.Point3{
	0: {X: 0, Y: 0, Z: 0},
	1: {X: 68, Y: -1246, Z: -43},
	2: {X: 1105, Y: -1205, Z: 1229},
	3: {X: -92, Y: -2380, Z: -20},
	4: {X: -20, Y: -1133, Z: 1061},
}

// ExampleReader returns a fresh reader over ExampleReport.
func ExampleReader() *strings.Reader {
	return strings.NewReader(ExampleReport)
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// TempPath returns name joined onto a per-test temporary directory.
func TempPath(t testing.TB, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}
