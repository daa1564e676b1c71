package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/banshee-data/beacon.report/internal/geom"
)

// Scanner is one sensor's report: its ID from the header line and the
// beacons it detected, in its own frame and in input order.
type Scanner struct {
	ID      int
	Beacons geom.Cloud
}

// ErrMalformed is matched by every *ParseError.
var ErrMalformed = errors.New("malformed scanner report")

var (
	ErrBadHeader        = errors.New("malformed scanner header")
	ErrBeaconOutside    = errors.New("beacon line outside a scanner block")
	ErrMissingSeparator = errors.New("missing blank line before scanner header")
	ErrFieldCount       = errors.New("beacon line needs three comma-separated values")
	ErrBadCoordinate    = errors.New("coordinate is not an integer")
	ErrDuplicateScanner = errors.New("duplicate scanner id")
	ErrEmptyScanner     = errors.New("scanner reports no beacons")
	ErrEmptyReport      = errors.New("report contains no scanners")
)

// ParseError reports where a scanner report went wrong. Line is 1-based;
// it is 0 for problems with the report as a whole.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("parse scanner report: %v", e.Err)
	}
	return fmt.Sprintf("parse scanner report: line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrMalformed) match any parse failure.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformed
}

var headerRE = regexp.MustCompile(`^---\s*scanner\s+(-?\d+)\s*---$`)

// ParseReport reads a full scanner report. It either returns every scanner
// or fails on the first malformed line; there is no partial result.
func ParseReport(r io.Reader) ([]Scanner, error) {
	var (
		scanners []Scanner
		current  *Scanner
		seen     = make(map[int]int) // id -> header line
		lineNo   int
	)

	closeBlock := func() error {
		if current == nil {
			return nil
		}
		if len(current.Beacons) == 0 {
			return &ParseError{Line: seen[current.ID], Text: fmt.Sprintf("--- scanner %d ---", current.ID), Err: ErrEmptyScanner}
		}
		scanners = append(scanners, *current)
		current = nil
		return nil
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())

		if line == "" {
			if err := closeBlock(); err != nil {
				return nil, err
			}
			continue
		}

		if strings.HasPrefix(line, "---") {
			if current != nil {
				return nil, &ParseError{Line: lineNo, Text: line, Err: ErrMissingSeparator}
			}
			id, err := parseHeader(line)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Text: line, Err: err}
			}
			if first, dup := seen[id]; dup {
				return nil, &ParseError{Line: lineNo, Text: line, Err: fmt.Errorf("%w: %d (first seen on line %d)", ErrDuplicateScanner, id, first)}
			}
			seen[id] = lineNo
			current = &Scanner{ID: id}
			continue
		}

		if current == nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: ErrBeaconOutside}
		}
		p, err := ParsePoint(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
		current.Beacons = append(current.Beacons, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scanner report: %w", err)
	}
	if err := closeBlock(); err != nil {
		return nil, err
	}
	if len(scanners) == 0 {
		return nil, &ParseError{Err: ErrEmptyReport}
	}
	return scanners, nil
}

func parseHeader(line string) (int, error) {
	m := headerRE.FindStringSubmatch(line)
	if m == nil {
		return 0, ErrBadHeader
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	return id, nil
}

// ParsePoint parses one "x,y,z" beacon line.
func ParsePoint(s string) (geom.Point3, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return geom.Point3{}, fmt.Errorf("%w: got %d", ErrFieldCount, len(fields))
	}
	var c [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return geom.Point3{}, fmt.Errorf("%w: %q", ErrBadCoordinate, strings.TrimSpace(f))
		}
		c[i] = v
	}
	return geom.Point3{X: c[0], Y: c[1], Z: c[2]}, nil
}

// WriteReport writes scanners in the format ParseReport reads.
func WriteReport(w io.Writer, scanners []Scanner) error {
	bw := bufio.NewWriter(w)
	for i, s := range scanners {
		if i > 0 {
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(bw, "--- scanner %d ---\n", s.ID); err != nil {
			return err
		}
		for _, p := range s.Beacons {
			if _, err := fmt.Fprintln(bw, p.String()); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
