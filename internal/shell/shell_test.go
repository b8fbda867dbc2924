package shell

import (
	"os"
	"os/exec"
	"syscall"
	"testing"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

func newOrSkip(t *testing.T) *Shell {
	t.Helper()
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		t.Skip("stdin is not a terminal in this test environment")
	}
	sh, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return sh
}

func TestNewInitializesState(t *testing.T) {
	sh := newOrSkip(t)
	defer sh.Term.Close()

	if sh.Table == nil {
		t.Error("New() did not initialize the Job Table")
	}
	if sh.Table.Len() != 1 {
		t.Errorf("fresh Job Table Len() = %d, want 1", sh.Table.Len())
	}
	if sh.Term == nil {
		t.Error("New() did not initialize the Terminal Controller")
	}
	if sh.Notifier == nil {
		t.Error("New() did not initialize the Child-State Reaper")
	}
}

func TestShutdownWithNoJobsClosesTerminal(t *testing.T) {
	sh := newOrSkip(t)
	if err := sh.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func TestShutdownKillsRemainingJobs(t *testing.T) {
	sh := newOrSkip(t)

	cmd := exec.Command("sleep", "30")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	pid := cmd.Process.Pid
	idx := sh.Table.AddJob(pid, true, sh.Term.ShellModes())
	sh.Table.AddProcess(idx, pid, []string{"sleep", "30"})

	if err := sh.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	if err := unix.Kill(pid, 0); err == nil {
		unix.Kill(pid, unix.SIGKILL)
		t.Error("Shutdown() should have terminated the remaining background job")
	}
}
