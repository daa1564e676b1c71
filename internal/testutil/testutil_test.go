package testutil

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestExampleReport_Shape(t *testing.T) {
	t.Parallel()

	headers := strings.Count(ExampleReport, "--- scanner ")
	if headers != len(ExamplePositions) {
		t.Fatalf("example has %d scanner headers, ExamplePositions has %d", headers, len(ExamplePositions))
	}
	if !strings.HasPrefix(ExampleReport, "--- scanner 0 ---\n404,-588,-901\n") {
		t.Errorf("unexpected example prefix: %q", ExampleReport[:40])
	}
	if got := ExamplePositions[0]; got.X != 0 || got.Y != 0 || got.Z != 0 {
		t.Errorf("bootstrap position = %v, want origin", got)
	}
}

func TestExampleReader_Fresh(t *testing.T) {
	t.Parallel()

	a, b := ExampleReader(), ExampleReader()
	buf := make([]byte, 8)
	if _, err := a.Read(buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if b.Len() != len(ExampleReport) {
		t.Errorf("second reader shares state with the first: %d bytes left", b.Len())
	}
}

func TestAssertHelpers_Passing(t *testing.T) {
	t.Parallel()

	fakeT := &testing.T{}
	AssertNoError(fakeT, nil)
	AssertError(fakeT, errors.New("something wrong"))
	if fakeT.Failed() {
		t.Error("helpers failed on passing input")
	}
}

func TestTempPath(t *testing.T) {
	t.Parallel()

	p := TempPath(t, "run.db")
	if filepath.Base(p) != "run.db" {
		t.Errorf("TempPath base = %q", filepath.Base(p))
	}
	if !filepath.IsAbs(p) {
		t.Errorf("TempPath %q is not absolute", p)
	}
}
