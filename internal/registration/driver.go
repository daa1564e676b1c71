package registration

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/beacon.report/internal/config"
	"github.com/banshee-data/beacon.report/internal/geom"
	"github.com/banshee-data/beacon.report/internal/monitoring"
	"github.com/banshee-data/beacon.report/internal/scanner"
)

// Options controls Register. The zero value registers sequentially with
// the default threshold and idle-pass bound.
type Options struct {
	Threshold     int  // coinciding beacons needed to accept an alignment
	MaxIdlePasses int  // consecutive fruitless passes before *StalledError
	Workers       int  // >1 evaluates each round's candidates concurrently
	Bootstrap     *int // scanner ID defining the global frame; nil means the first scanner

	// OnPlacement, when set, is called from the driver goroutine after each
	// scanner is committed, including the bootstrap. anchor is the live map
	// and must not be modified or retained.
	OnPlacement func(p Placement, anchor geom.PointSet)
}

// OptionsFromConfig converts a loaded RegistrationConfig into Options.
func OptionsFromConfig(cfg *config.RegistrationConfig) Options {
	opts := Options{
		Threshold:     cfg.GetOverlapThreshold(),
		MaxIdlePasses: cfg.GetMaxIdlePasses(),
		Workers:       cfg.GetWorkers(),
	}
	if id, ok := cfg.GetBootstrapScanner(); ok {
		opts.Bootstrap = &id
	}
	return opts
}

func (o Options) withDefaults() Options {
	if o.Threshold < 1 {
		o.Threshold = config.DefaultOverlapThreshold
	}
	if o.MaxIdlePasses < 1 {
		o.MaxIdlePasses = config.DefaultMaxIdlePasses
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o
}

// Placement records where one scanner sits in the global frame.
type Placement struct {
	ScannerID    int
	Position     geom.Point3   // scanner origin in the global frame
	Rotation     geom.Rotation // maps the scanner's local axes onto global axes
	Overlap      int           // beacons shared with the map when it was placed
	Round        int           // driver round that placed it; 0 for the bootstrap
	TotalBeacons int           // map size right after this placement
}

// Map is the merged result of a registration run.
type Map struct {
	Beacons    geom.PointSet
	Placements []Placement // registration order
	Rounds     int
	Attempts   int // TryRegister calls made
}

// Register places every scanner into the frame of the bootstrap scanner.
//
// Each round scans the worklist from the start. Sequentially, the first
// scanner that matches is merged and the round ends, so the enlarged map is
// offered to earlier candidates again. With Workers > 1 every candidate is
// tried concurrently against a frozen copy of the map and all matches are
// merged in worklist order. A round that places nothing is idle; after
// MaxIdlePasses idle rounds in a row Register gives up with *StalledError.
//
// Register never returns a partial map.
func Register(ctx context.Context, scanners []scanner.Scanner, opts Options) (*Map, error) {
	if len(scanners) == 0 {
		return nil, ErrNoScanners
	}
	opts = opts.withDefaults()

	boot := 0
	if opts.Bootstrap != nil {
		boot = -1
		for i, s := range scanners {
			if s.ID == *opts.Bootstrap {
				boot = i
				break
			}
		}
		if boot < 0 {
			return nil, fmt.Errorf("%w: %d", ErrUnknownBootstrap, *opts.Bootstrap)
		}
	}

	m := &Map{Beacons: geom.NewPointSet()}
	m.commit(opts, scanners[boot].ID, Match{
		Rotation: geom.Identity,
		Beacons:  scanners[boot].Beacons,
		Overlap:  0,
	})

	worklist := make([]scanner.Scanner, 0, len(scanners)-1)
	worklist = append(worklist, scanners[:boot]...)
	worklist = append(worklist, scanners[boot+1:]...)

	idle := 0
	for len(worklist) > 0 {
		m.Rounds++

		var (
			placed int
			err    error
		)
		if opts.Workers > 1 {
			worklist, placed, err = m.concurrentRound(ctx, worklist, opts)
		} else {
			worklist, placed, err = m.sequentialRound(ctx, worklist, opts)
		}
		if err != nil {
			return nil, err
		}

		if placed > 0 {
			idle = 0
			continue
		}
		idle++
		monitoring.Debugf("registration round %d: no progress (%d/%d idle passes, %d scanners left)",
			m.Rounds, idle, opts.MaxIdlePasses, len(worklist))
		if idle >= opts.MaxIdlePasses {
			stalled := &StalledError{
				Passes:    idle,
				Threshold: opts.Threshold,
			}
			for _, s := range worklist {
				stalled.Remaining = append(stalled.Remaining, s.ID)
			}
			for _, p := range m.Placements {
				stalled.Registered = append(stalled.Registered, p.ScannerID)
			}
			monitoring.Logf("registration stalled: %v", stalled)
			return nil, stalled
		}
	}

	monitoring.Debugf("registered %d scanners into %d beacons in %d rounds (%d attempts)",
		len(m.Placements), m.Beacons.Len(), m.Rounds, m.Attempts)
	return m, nil
}

// sequentialRound merges the first worklist entry that matches and returns
// the worklist without it.
func (m *Map) sequentialRound(ctx context.Context, worklist []scanner.Scanner, opts Options) ([]scanner.Scanner, int, error) {
	for i, s := range worklist {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		m.Attempts++
		match, ok := TryRegister(m.Beacons, s.Beacons, opts.Threshold)
		if !ok {
			continue
		}
		m.commit(opts, s.ID, match)

		rest := make([]scanner.Scanner, 0, len(worklist)-1)
		rest = append(rest, worklist[:i]...)
		rest = append(rest, worklist[i+1:]...)
		return rest, 1, nil
	}
	return worklist, 0, nil
}

// concurrentRound tries every worklist entry against the current map at
// once. The map is only read until all attempts have finished.
func (m *Map) concurrentRound(ctx context.Context, worklist []scanner.Scanner, opts Options) ([]scanner.Scanner, int, error) {
	matches := make([]*Match, len(worklist))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range worklist {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if match, ok := TryRegister(m.Beacons, worklist[i].Beacons, opts.Threshold); ok {
				matches[i] = &match
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	// errgroup only reports errors from the attempts; a cancellation that
	// arrives after the last attempt started still stops the run.
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	m.Attempts += len(worklist)

	rest := make([]scanner.Scanner, 0, len(worklist))
	placed := 0
	for i, s := range worklist {
		if matches[i] == nil {
			rest = append(rest, s)
			continue
		}
		m.commit(opts, s.ID, *matches[i])
		placed++
	}
	return rest, placed, nil
}

func (m *Map) commit(opts Options, id int, match Match) {
	m.Beacons.AddAll(match.Beacons)
	p := Placement{
		ScannerID:    id,
		Position:     match.Offset,
		Rotation:     match.Rotation,
		Overlap:      match.Overlap,
		Round:        m.Rounds,
		TotalBeacons: m.Beacons.Len(),
	}
	m.Placements = append(m.Placements, p)
	monitoring.Debugf("placed scanner %d at %v rotation %v (overlap %d, map %d beacons)",
		id, p.Position, p.Rotation, p.Overlap, p.TotalBeacons)
	if opts.OnPlacement != nil {
		opts.OnPlacement(p, m.Beacons)
	}
}
