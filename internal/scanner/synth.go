package scanner

import (
	"fmt"
	"math/rand"

	"github.com/banshee-data/beacon.report/internal/geom"
)

// SynthOptions controls Synthesize. Zero fields take the defaults below.
type SynthOptions struct {
	Scanners int   // number of scanners in the chain (default 5)
	Range    int   // scanners see beacons within ±Range on every axis (default 1000)
	Spacing  int   // distance between chain neighbours along the step axis (default 1200)
	Overlap  int   // beacons placed in each neighbour pair's shared region (default 12)
	Filler   int   // extra beacons scattered around each scanner (default 14, negative for none)
	Seed     int64 // random seed; equal seeds give equal reports
}

func (o SynthOptions) withDefaults() SynthOptions {
	if o.Scanners <= 0 {
		o.Scanners = 5
	}
	if o.Range <= 0 {
		o.Range = 1000
	}
	if o.Spacing <= 0 {
		o.Spacing = 1200
	}
	if o.Overlap <= 0 {
		o.Overlap = 12
	}
	if o.Filler < 0 {
		o.Filler = 0
	} else if o.Filler == 0 {
		o.Filler = 14
	}
	return o
}

// SynthReport is a generated report plus the ground truth that produced it.
// Positions[i] and Rotations[i] describe Scanners[i]: a beacon b in the
// global frame appears in scanner i's report as Rotations[i].Apply(b - Positions[i]).
type SynthReport struct {
	Scanners  []Scanner
	Positions []geom.Point3
	Rotations []geom.Rotation
	Beacons   geom.PointSet
}

// Synthesize builds a chain of scanners where each scanner shares at least
// Overlap beacons with its predecessor. Scanner 0 sits at the origin with
// the identity rotation, so its frame is the global frame.
func Synthesize(opts SynthOptions) (*SynthReport, error) {
	o := opts.withDefaults()
	if o.Spacing >= 2*o.Range {
		return nil, fmt.Errorf("spacing %d leaves no overlap for range %d", o.Spacing, o.Range)
	}
	rng := rand.New(rand.NewSource(o.Seed))

	positions := make([]geom.Point3, o.Scanners)
	rotations := make([]geom.Rotation, o.Scanners)
	rotations[0] = geom.Identity
	jitter := (2*o.Range - o.Spacing) / 4
	for i := 1; i < o.Scanners; i++ {
		var step [3]int
		axis := rng.Intn(3)
		for a := range step {
			if a == axis {
				step[a] = o.Spacing
				if rng.Intn(2) == 0 {
					step[a] = -o.Spacing
				}
				continue
			}
			step[a] = randIn(rng, -jitter, jitter)
		}
		positions[i] = positions[i-1].Add(geom.Point3{X: step[0], Y: step[1], Z: step[2]})
		rotations[i] = geom.Rotation(rng.Intn(geom.NumRotations))
	}

	beacons := geom.NewPointSet()
	for i := 1; i < o.Scanners; i++ {
		lo, hi := sharedBox(positions[i-1], positions[i], o.Range)
		scatter(rng, beacons, lo, hi, o.Overlap)
	}
	for i := 0; i < o.Scanners; i++ {
		r := geom.Point3{X: o.Range, Y: o.Range, Z: o.Range}
		scatter(rng, beacons, positions[i].Sub(r), positions[i].Add(r), o.Filler)
	}

	all := beacons.Points()
	scanners := make([]Scanner, o.Scanners)
	for i := range scanners {
		var local geom.Cloud
		for _, b := range all {
			d := b.Sub(positions[i])
			if abs(d.X) <= o.Range && abs(d.Y) <= o.Range && abs(d.Z) <= o.Range {
				local = append(local, rotations[i].Apply(d))
			}
		}
		rng.Shuffle(len(local), func(a, b int) { local[a], local[b] = local[b], local[a] })
		scanners[i] = Scanner{ID: i, Beacons: local}
	}

	return &SynthReport{
		Scanners:  scanners,
		Positions: positions,
		Rotations: rotations,
		Beacons:   beacons,
	}, nil
}

// sharedBox returns the corners of the region both scanners can see.
func sharedBox(a, b geom.Point3, reach int) (lo, hi geom.Point3) {
	lo = geom.Point3{X: max(a.X, b.X) - reach, Y: max(a.Y, b.Y) - reach, Z: max(a.Z, b.Z) - reach}
	hi = geom.Point3{X: min(a.X, b.X) + reach, Y: min(a.Y, b.Y) + reach, Z: min(a.Z, b.Z) + reach}
	return lo, hi
}

// scatter adds n new distinct points drawn uniformly from the box [lo, hi].
func scatter(rng *rand.Rand, set geom.PointSet, lo, hi geom.Point3, n int) {
	for added := 0; added < n; {
		p := geom.Point3{
			X: randIn(rng, lo.X, hi.X),
			Y: randIn(rng, lo.Y, hi.Y),
			Z: randIn(rng, lo.Z, hi.Z),
		}
		if set.Contains(p) {
			continue
		}
		set.Add(p)
		added++
	}
}

func randIn(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
