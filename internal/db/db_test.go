package db

import (
	"context"
	"io/fs"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/beacon.report/internal/registration"
	"github.com/banshee-data/beacon.report/internal/scanner"
	"github.com/banshee-data/beacon.report/internal/testutil"
	"github.com/banshee-data/beacon.report/internal/timeutil"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(testutil.TempPath(t, "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func exampleMap(t *testing.T) *registration.Map {
	t.Helper()
	scanners, err := scanner.ParseReport(testutil.ExampleReader())
	require.NoError(t, err)
	m, err := registration.Register(context.Background(), scanners, registration.Options{})
	require.NoError(t, err)
	return m
}

func TestPragmasApplied(t *testing.T) {
	db := newTestDB(t)

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var busyTimeout int
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, 5000, busyTimeout)

	var foreignKeys int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)
}

func TestEmbeddedMigrations(t *testing.T) {
	migFS, err := getMigrationsFS()
	require.NoError(t, err)

	entries, err := fs.ReadDir(migFS, ".")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{
		"000001_registration_runs.down.sql",
		"000001_registration_runs.up.sql",
	}, names)
}

func TestMigrateVersionAndDown(t *testing.T) {
	db := newTestDB(t)
	migFS, err := getMigrationsFS()
	require.NoError(t, err)

	version, dirty, err := db.MigrateVersion(migFS)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Running up again is a no-op.
	require.NoError(t, db.MigrateUp(migFS))

	require.NoError(t, db.MigrateDown(migFS))
	version, _, err = db.MigrateVersion(migFS)
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)

	var tables int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='registration_runs'`).Scan(&tables))
	assert.Equal(t, 0, tables)
}

func TestMigrateUp_CustomFS(t *testing.T) {
	db, err := OpenDB(testutil.TempPath(t, "custom.db"))
	require.NoError(t, err)
	defer db.Close()

	migFS := fstest.MapFS{
		"000001_init.up.sql":   &fstest.MapFile{Data: []byte("CREATE TABLE IF NOT EXISTS t1 (id INTEGER PRIMARY KEY);")},
		"000001_init.down.sql": &fstest.MapFile{Data: []byte("DROP TABLE IF EXISTS t1;")},
	}
	require.NoError(t, db.MigrateUp(migFS))

	version, _, err := db.MigrateVersion(migFS)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestRecordAndLoadRun(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	m := exampleMap(t)

	runID, err := db.RecordRun(ctx, m, RunMeta{InputSHA256: "abc123", Threshold: 12, Workers: 1})
	require.NoError(t, err)
	assert.Len(t, runID, 36)

	run, loaded, err := db.LoadRun(ctx, runID)
	require.NoError(t, err)

	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, "abc123", run.InputSHA256)
	assert.Equal(t, 12, run.Threshold)
	assert.Equal(t, 5, run.ScannerCount)
	assert.Equal(t, testutil.ExampleBeaconCount, run.BeaconCount)
	assert.Equal(t, testutil.ExampleMaxScannerDistance, run.MaxScannerDistance)
	assert.Equal(t, m.Rounds, run.Rounds)
	assert.False(t, run.CreatedAt.IsZero())

	if diff := cmp.Diff(m.Placements, loaded.Placements); diff != "" {
		t.Errorf("placements mismatch (-recorded +loaded):\n%s", diff)
	}
	if diff := cmp.Diff(m.Beacons.Points(), loaded.Beacons.Points()); diff != "" {
		t.Errorf("beacons mismatch (-recorded +loaded):\n%s", diff)
	}
	assert.Equal(t, testutil.ExampleMaxScannerDistance, loaded.MaxScannerDistance())
}

func TestListAndDeleteRuns(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	m := exampleMap(t)

	runs, err := db.ListRuns(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := db.RecordRun(ctx, m, RunMeta{Threshold: 12, Workers: 1})
	require.NoError(t, err)
	second, err := db.RecordRun(ctx, m, RunMeta{Threshold: 12, Workers: 4})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	runs, err = db.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.ElementsMatch(t, []string{first, second}, []string{runs[0].RunID, runs[1].RunID})

	require.NoError(t, db.DeleteRun(ctx, first))

	var orphans int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM run_beacons WHERE run_id = ?`, first).Scan(&orphans))
	assert.Equal(t, 0, orphans, "beacons cascade with their run")

	_, _, err = db.LoadRun(ctx, first)
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.ErrorIs(t, db.DeleteRun(ctx, first), ErrRunNotFound)

	runs, err = db.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, second, runs[0].RunID)
	assert.Equal(t, 4, runs[0].Workers)
}

func TestListRuns_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	m := exampleMap(t)

	start := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	clock := timeutil.NewMockClock(start)
	db.Clock = clock

	older, err := db.RecordRun(ctx, m, RunMeta{Threshold: 12, Workers: 1})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	newer, err := db.RecordRun(ctx, m, RunMeta{Threshold: 11, Workers: 1})
	require.NoError(t, err)

	runs, err := db.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer, runs[0].RunID)
	assert.Equal(t, older, runs[1].RunID)
	assert.True(t, runs[1].CreatedAt.Equal(start), "CreatedAt = %v", runs[1].CreatedAt)
	assert.True(t, runs[0].CreatedAt.Equal(start.Add(time.Minute)))
}
