// Command beacons merges scanner reports into one beacon map.
//
// The report is read from stdin. Part 1 prints the number of distinct
// beacons, part 2 the largest Manhattan distance between two scanners.
//
//	beacons [flags] <1|2> < report.txt
package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/beacon.report/internal/config"
	"github.com/banshee-data/beacon.report/internal/db"
	"github.com/banshee-data/beacon.report/internal/geom"
	"github.com/banshee-data/beacon.report/internal/monitor"
	"github.com/banshee-data/beacon.report/internal/monitoring"
	"github.com/banshee-data/beacon.report/internal/registration"
	"github.com/banshee-data/beacon.report/internal/scanner"
	"github.com/banshee-data/beacon.report/internal/timeutil"
	"github.com/banshee-data/beacon.report/internal/version"
)

var (
	configPath  = flag.String("config", "", "Registration config file (.json, .yaml or .yml)")
	workers     = flag.Int("workers", 0, "Concurrent match workers (0 keeps the config value)")
	threshold   = flag.Int("threshold", 0, "Coinciding beacons required to place a scanner (0 keeps the config value)")
	dbPath      = flag.String("db", "", "Record the run in this SQLite database")
	plotPath    = flag.String("plot", "", "Write a projection of the merged map (.png, .svg or .pdf)")
	plotProj    = flag.String("plot-projection", "xy", "Projection used by -plot: xy, xz or yz")
	chartPath   = flag.String("chart", "", "Write an interactive HTML page of the merged map")
	verbose     = flag.Bool("v", false, "Enable debug logging")
	showVersion = flag.Bool("version", false, "Print version information and exit")
)

var clock timeutil.Clock = timeutil.RealClock{}

const usageText = "usage: beacons [flags] <1|2> < report.txt\n"

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usageText)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println("beacons", version.String())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, flag.Args(), os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code. stdout
// receives the answer only when everything, including the optional
// artefacts, succeeded.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || (args[0] != "1" && args[0] != "2") {
		fmt.Fprint(stderr, usageText)
		return 2
	}
	monitoring.SetVerbose(*verbose)

	m, err := solve(ctx, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "beacons: %v\n", err)
		return 1
	}

	answer := m.BeaconCount()
	if args[0] == "2" {
		answer = m.MaxScannerDistance()
	}
	fmt.Fprintln(stdout, answer)
	return 0
}

func solve(ctx context.Context, stdin io.Reader) (*registration.Map, error) {
	if err := geom.CheckRotations(); err != nil {
		return nil, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	input, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	scanners, err := scanner.ParseReport(bytes.NewReader(input))
	if err != nil {
		return nil, err
	}
	monitoring.Debugf("parsed %d scanners", len(scanners))

	start := clock.Now()
	m, err := registration.Register(ctx, scanners, registration.OptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}
	monitoring.Debugf("registration took %v", clock.Since(start))

	if *dbPath != "" {
		sum := sha256.Sum256(input)
		meta := db.RunMeta{
			InputSHA256: hex.EncodeToString(sum[:]),
			Threshold:   cfg.GetOverlapThreshold(),
			Workers:     cfg.GetWorkers(),
		}
		if err := recordRun(ctx, *dbPath, m, meta); err != nil {
			return nil, err
		}
	}
	if *plotPath != "" {
		proj, err := monitor.ParseProjection(*plotProj)
		if err != nil {
			return nil, err
		}
		if err := monitor.SaveMapPlot(m, *plotPath, proj); err != nil {
			return nil, err
		}
		monitoring.Logf("wrote map plot to %s", *plotPath)
	}
	if *chartPath != "" {
		if err := writeChart(*chartPath, m); err != nil {
			return nil, err
		}
		monitoring.Logf("wrote map page to %s", *chartPath)
	}
	return m, nil
}

// loadConfig reads -config (or the built-in defaults) and applies the
// -threshold and -workers overrides.
func loadConfig() (*config.RegistrationConfig, error) {
	cfg := config.DefaultRegistrationConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadRegistrationConfig(*configPath); err != nil {
			return nil, err
		}
	}
	if *threshold != 0 {
		cfg.SetOverlapThreshold(*threshold)
	}
	if *workers != 0 {
		cfg.SetWorkers(*workers)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func recordRun(ctx context.Context, path string, m *registration.Map, meta db.RunMeta) error {
	d, err := db.NewDB(path)
	if err != nil {
		return fmt.Errorf("failed to open run database: %w", err)
	}
	defer d.Close()
	d.Clock = clock

	runID, err := d.RecordRun(ctx, m, meta)
	if err != nil {
		return err
	}
	monitoring.Logf("recorded run %s in %s", runID, path)
	return nil
}

func writeChart(path string, m *registration.Map) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	title := fmt.Sprintf("Beacon map: %d scanners", len(m.Placements))
	if err := monitor.WriteMapPage(f, m, title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
