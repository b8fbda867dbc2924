// Package shell is the Lifecycle component: it owns the process-wide
// state every other component needs (the Job Table, the Terminal
// Controller, and the Child-State Reaper's notification channel),
// bundled into a single *Shell passed explicitly to the rest of the
// shell instead of living in package-level globals.
//
// Grounded on original_source/jobs.c's initjobs/shutdownjobs, translated
// to package the Job Table, the terminal duplicate, and saved terminal
// modes as a single Shell context passed explicitly to every component:
// initialized on startup, torn down on shutdown.
package shell

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/corvid-sh/corvid/internal/job"
	"github.com/corvid-sh/corvid/internal/jobtable"
	"github.com/corvid-sh/corvid/internal/reaper"
	"github.com/corvid-sh/corvid/internal/report"
	"github.com/corvid-sh/corvid/internal/sigmask"
	"github.com/corvid-sh/corvid/internal/term"
)

// Shell bundles the shell's process-wide, shared state.
type Shell struct {
	Table    *jobtable.Table
	Term     *term.Controller
	Notifier *reaper.Notifier
}

// New performs the Lifecycle's startup sequence: verifies stdin is a
// terminal, takes control of it, saves the shell's terminal modes,
// subscribes to SIGCHLD, and installs the shell's own signal contract,
// ignoring SIGTSTP/SIGTTIN/SIGTTOU. The shell ignores the interactive
// stop signal and the background-read/write signals; children restore
// default handling before exec.
func New() (*Shell, error) {
	ctl, err := term.New()
	if err != nil {
		return nil, fmt.Errorf("shell: %w", err)
	}
	ignoreJobControlSignals()
	return &Shell{
		Table:    jobtable.New(),
		Term:     ctl,
		Notifier: reaper.New(),
	}, nil
}

// NewHeadless performs the same startup sequence as New but without the
// controlling-terminal requirement, for the "-c" one-shot non-interactive
// mode (cmd/corvid/main.go), which spec.md's CLI surface never
// anticipates running without a terminal but which this repo's test
// harness needs in order to drive the shell end-to-end without a pty.
// Terminal-handoff operations on the resulting Shell's Term are no-ops
// (see term.NewHeadless).
func NewHeadless() (*Shell, error) {
	ignoreJobControlSignals()
	return &Shell{
		Table:    jobtable.New(),
		Term:     term.NewHeadless(),
		Notifier: reaper.New(),
	}, nil
}

// Shutdown performs the Lifecycle's shutdown sequence: blocks SIGCHLD,
// sends SIGTERM then SIGCONT to every remaining job's process group,
// waits for each to leave the Running state, reports the survivors as
// Finished, then releases the terminal duplicate.
//
// Grounded on original_source/jobs.c's shutdownjobs, which repeats
// killjob+sigsuspend per slot rather than broadcasting one signal to
// every job at once. That per-slot loop is preserved here so a job that
// traps SIGTERM still gets its own SIGCONT/wait cycle.
func (s *Shell) Shutdown() error {
	scope := sigmask.Enter()

	for i := 0; i < s.Table.Len(); i++ {
		j := s.Table.Job(i)
		if j == nil {
			continue
		}
		if err := unix.Kill(-j.Pgid, unix.SIGTERM); err != nil && err != unix.ESRCH {
			scope.Close()
			return fmt.Errorf("shell: shutdown: kill -%d SIGTERM: %w", j.Pgid, err)
		}
		if err := unix.Kill(-j.Pgid, unix.SIGCONT); err != nil && err != unix.ESRCH {
			scope.Close()
			return fmt.Errorf("shell: shutdown: kill -%d SIGCONT: %w", j.Pgid, err)
		}
		for {
			reaper.Poll(s.Table)
			cur := s.Table.Job(i)
			if cur == nil || cur.State != job.Running {
				break
			}
			<-s.Notifier.C()
		}
	}

	// Per spec.md §4.9: report, then restore the original signal mask,
	// then release the terminal duplicate.
	report.Report(s.Table, report.Finished)
	scope.Close()
	return s.Term.Close()
}

func ignoreJobControlSignals() {
	// These dispositions intentionally persist for the shell's own
	// lifetime (unlike the per-fork ignore/reset bracket in
	// internal/executor, which only needs to survive the fork/exec
	// window for the child it wraps).
	ignoreSignal(unix.SIGTSTP)
	ignoreSignal(unix.SIGTTIN)
	ignoreSignal(unix.SIGTTOU)
}
