package progress

import (
	"os"
	"testing"

	"golang.org/x/term"
)

func TestScanSpinnerNilSafe(t *testing.T) {
	var s *ScanSpinner
	s.Found(3)
	s.Done()
}

func TestScanSpinnerWithoutTerminal(t *testing.T) {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		t.Skip("stderr is a terminal")
	}
	s := NewScanSpinner("snes")
	if s.bar != nil {
		t.Fatal("expected no bar without a terminal")
	}
	s.Found(1)
	s.Found(2)
	s.Done()
}
