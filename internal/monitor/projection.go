// Package monitor renders a merged beacon map for inspection: static plots
// through gonum/plot and an interactive HTML page through go-echarts.
package monitor

import (
	"fmt"
	"strings"

	"github.com/banshee-data/beacon.report/internal/geom"
)

// Projection selects the two axes a 3D map is flattened onto.
type Projection int

const (
	ProjectXY Projection = iota
	ProjectXZ
	ProjectYZ
)

// Projections lists every projection in display order.
var Projections = []Projection{ProjectXY, ProjectXZ, ProjectYZ}

// ParseProjection accepts "xy", "xz" or "yz" in any case.
func ParseProjection(s string) (Projection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xy":
		return ProjectXY, nil
	case "xz":
		return ProjectXZ, nil
	case "yz":
		return ProjectYZ, nil
	}
	return 0, fmt.Errorf("unknown projection %q (want xy, xz or yz)", s)
}

func (p Projection) String() string {
	switch p {
	case ProjectXZ:
		return "XZ"
	case ProjectYZ:
		return "YZ"
	default:
		return "XY"
	}
}

// Axes returns the horizontal and vertical coordinates of pt.
func (p Projection) Axes(pt geom.Point3) (h, v int) {
	switch p {
	case ProjectXZ:
		return pt.X, pt.Z
	case ProjectYZ:
		return pt.Y, pt.Z
	default:
		return pt.X, pt.Y
	}
}

func (p Projection) labels() (h, v string) {
	s := p.String()
	return s[:1], s[1:]
}
