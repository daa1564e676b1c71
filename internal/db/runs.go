package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/beacon.report/internal/geom"
	"github.com/banshee-data/beacon.report/internal/registration"
)

// ErrRunNotFound is returned by LoadRun for an unknown run ID.
var ErrRunNotFound = errors.New("registration run not found")

// RunMeta describes how a registration run was produced.
type RunMeta struct {
	InputSHA256 string
	Threshold   int
	Workers     int
}

// Run is the summary row of a stored registration run.
type Run struct {
	RunID              string
	CreatedAt          time.Time
	InputSHA256        string
	Threshold          int
	Workers            int
	ScannerCount       int
	BeaconCount        int
	MaxScannerDistance int
	Rounds             int
}

// RecordRun stores m with its placements and beacons in one transaction
// and returns the new run ID.
func (db *DB) RecordRun(ctx context.Context, m *registration.Map, meta RunMeta) (string, error) {
	runID := uuid.NewString()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin run transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO registration_runs (
			run_id, created_unix_nanos, input_sha256, overlap_threshold, workers,
			scanner_count, beacon_count, max_scanner_distance, rounds
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, db.Clock.Now().UnixNano(), meta.InputSHA256, meta.Threshold, meta.Workers,
		len(m.Placements), m.BeaconCount(), m.MaxScannerDistance(), m.Rounds,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	placeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scanner_placements (
			run_id, seq, scanner_id, x, y, z, rotation, overlap, round, total_beacons
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare placement insert: %w", err)
	}
	defer placeStmt.Close()
	for seq, p := range m.Placements {
		if _, err := placeStmt.ExecContext(ctx, runID, seq, p.ScannerID,
			p.Position.X, p.Position.Y, p.Position.Z,
			int(p.Rotation), p.Overlap, p.Round, p.TotalBeacons); err != nil {
			return "", fmt.Errorf("failed to insert placement of scanner %d: %w", p.ScannerID, err)
		}
	}

	beaconStmt, err := tx.PrepareContext(ctx, `INSERT INTO run_beacons (run_id, x, y, z) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare beacon insert: %w", err)
	}
	defer beaconStmt.Close()
	for _, b := range m.Beacons.Points() {
		if _, err := beaconStmt.ExecContext(ctx, runID, b.X, b.Y, b.Z); err != nil {
			return "", fmt.Errorf("failed to insert beacon %v: %w", b, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

const runColumns = `run_id, created_unix_nanos, input_sha256, overlap_threshold, workers,
	scanner_count, beacon_count, max_scanner_distance, rounds`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		r       Run
		created int64
	)
	err := row.Scan(&r.RunID, &created, &r.InputSHA256, &r.Threshold, &r.Workers,
		&r.ScannerCount, &r.BeaconCount, &r.MaxScannerDistance, &r.Rounds)
	if err != nil {
		return Run{}, err
	}
	r.CreatedAt = time.Unix(0, created)
	return r, nil
}

// ListRuns returns every stored run, newest first.
func (db *DB) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+runColumns+` FROM registration_runs ORDER BY created_unix_nanos DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LoadRun reads a stored run back into a registration.Map. Attempts are
// not stored and come back as zero.
func (db *DB) LoadRun(ctx context.Context, runID string) (Run, *registration.Map, error) {
	run, err := scanRun(db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM registration_runs WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return Run{}, nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}

	m := &registration.Map{Beacons: geom.NewPointSet(), Rounds: run.Rounds}

	rows, err := db.QueryContext(ctx, `
		SELECT scanner_id, x, y, z, rotation, overlap, round, total_beacons
		FROM scanner_placements WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return Run{}, nil, fmt.Errorf("failed to load placements: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			p   registration.Placement
			rot int
		)
		if err := rows.Scan(&p.ScannerID, &p.Position.X, &p.Position.Y, &p.Position.Z,
			&rot, &p.Overlap, &p.Round, &p.TotalBeacons); err != nil {
			return Run{}, nil, fmt.Errorf("failed to scan placement: %w", err)
		}
		p.Rotation = geom.Rotation(rot)
		m.Placements = append(m.Placements, p)
	}
	if err := rows.Err(); err != nil {
		return Run{}, nil, err
	}

	brows, err := db.QueryContext(ctx, `SELECT x, y, z FROM run_beacons WHERE run_id = ?`, runID)
	if err != nil {
		return Run{}, nil, fmt.Errorf("failed to load beacons: %w", err)
	}
	defer brows.Close()
	for brows.Next() {
		var b geom.Point3
		if err := brows.Scan(&b.X, &b.Y, &b.Z); err != nil {
			return Run{}, nil, fmt.Errorf("failed to scan beacon: %w", err)
		}
		m.Beacons.Add(b)
	}
	if err := brows.Err(); err != nil {
		return Run{}, nil, err
	}
	return run, m, nil
}

// DeleteRun removes a run and, through the foreign keys, its placements
// and beacons.
func (db *DB) DeleteRun(ctx context.Context, runID string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM registration_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", runID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}
