// Command gen-scanners writes a synthetic scanner report to stdout. The
// ground-truth scanner positions are logged to stderr so the output of
// `beacons 2` can be checked by hand.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/banshee-data/beacon.report/internal/scanner"
)

func main() {
	count := flag.Int("n", 5, "number of scanners")
	rangeFlag := flag.Int("range", 1000, "detection range on each axis")
	spacing := flag.Int("spacing", 1200, "distance between neighbouring scanners")
	overlap := flag.Int("overlap", 12, "beacons shared by each neighbouring pair")
	filler := flag.Int("filler", 14, "extra beacons per scanner (negative for none)")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	rep, err := scanner.Synthesize(scanner.SynthOptions{
		Scanners: *count,
		Range:    *rangeFlag,
		Spacing:  *spacing,
		Overlap:  *overlap,
		Filler:   *filler,
		Seed:     *seed,
	})
	if err != nil {
		log.Fatalf("failed to synthesize report: %v", err)
	}
	if err := scanner.WriteReport(os.Stdout, rep.Scanners); err != nil {
		log.Fatalf("failed to write report: %v", err)
	}
	for i, s := range rep.Scanners {
		log.Printf("scanner %d at %s rotation %s", s.ID, rep.Positions[i], rep.Rotations[i])
	}
	log.Printf("%d distinct beacons", rep.Beacons.Len())
}
