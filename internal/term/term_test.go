package term

import (
	"os"
	"testing"

	"github.com/mattn/go-isatty"
)

func newOrSkip(t *testing.T) *Controller {
	t.Helper()
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		t.Skip("stdin is not a terminal in this test environment")
	}
	ctl, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { ctl.Close() })
	return ctl
}

func TestNewSavesShellModes(t *testing.T) {
	ctl := newOrSkip(t)
	if ctl.FD() < 0 {
		t.Errorf("FD() = %d, want a valid descriptor", ctl.FD())
	}
	modes := ctl.ShellModes()
	again, err := ctl.SaveModes()
	if err != nil {
		t.Fatalf("SaveModes() error = %v", err)
	}
	if modes != again {
		t.Error("ShellModes() and an immediate SaveModes() should agree")
	}
}

func TestSetForegroundAndReclaim(t *testing.T) {
	ctl := newOrSkip(t)
	if err := ctl.SetForeground(os.Getpid()); err != nil {
		t.Fatalf("SetForeground() error = %v", err)
	}
	if err := ctl.Reclaim(); err != nil {
		t.Fatalf("Reclaim() error = %v", err)
	}
}

func TestRestoreModes(t *testing.T) {
	ctl := newOrSkip(t)
	modes, err := ctl.SaveModes()
	if err != nil {
		t.Fatalf("SaveModes() error = %v", err)
	}
	if err := ctl.RestoreModes(modes); err != nil {
		t.Fatalf("RestoreModes() error = %v", err)
	}
}

func TestNewFailsWithoutATerminal(t *testing.T) {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		t.Skip("stdin is a terminal in this test environment")
	}
	if _, err := New(); err == nil {
		t.Error("New() should fail when stdin is not a terminal")
	}
}
