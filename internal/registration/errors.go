package registration

import (
	"errors"
	"fmt"
)

var (
	// ErrNoScanners is returned when Register is given an empty report.
	ErrNoScanners = errors.New("no scanners to register")
	// ErrUnknownBootstrap is returned when the requested bootstrap scanner
	// is not part of the report.
	ErrUnknownBootstrap = errors.New("bootstrap scanner not in report")
	// ErrRegistrationStalled is matched by every *StalledError.
	ErrRegistrationStalled = errors.New("registration stalled")
)

// StalledError reports scanners that never reached the overlap threshold
// against the growing map. The input does not form a connected overlap graph.
type StalledError struct {
	Remaining  []int // IDs still in the worklist, in worklist order
	Registered []int // IDs placed before the stall, in registration order
	Passes     int   // consecutive idle passes before giving up
	Threshold  int
}

func (e *StalledError) Error() string {
	return fmt.Sprintf("registration stalled after %d idle pass(es): scanners %v never shared %d beacons with the map of scanners %v",
		e.Passes, e.Remaining, e.Threshold, e.Registered)
}

// Is lets errors.Is(err, ErrRegistrationStalled) match.
func (e *StalledError) Is(target error) bool {
	return target == ErrRegistrationStalled
}
