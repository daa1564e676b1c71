package registration

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain fails the package if a concurrent round leaves goroutines behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
