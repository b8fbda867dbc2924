// Package fgmonitor implements the Foreground Monitor: it blocks the
// prompt until the job in slot 0 either terminates or stops, then
// always reclaims the terminal for the shell before returning.
//
// Grounded on original_source/jobs.c's monitorjob. The C version suspends
// via sigsuspend(mask), which atomically installs the pre-block signal
// mask and waits for any signal, closing the race where SIGCHLD could
// otherwise arrive in the gap between checking job state and suspending.
// That race does not exist here: signal.Notify (see internal/reaper's
// Notifier) subscribes a buffered channel independently
// of whether anyone is currently receiving from it, so a SIGCHLD that
// arrives between the state check and the channel receive below is
// already queued and the receive returns immediately. No lost wakeup is
// possible without an explicit sigsuspend equivalent.
package fgmonitor

import (
	"github.com/corvid-sh/corvid/internal/job"
	"github.com/corvid-sh/corvid/internal/jobtable"
	"github.com/corvid-sh/corvid/internal/reaper"
	"github.com/corvid-sh/corvid/internal/shell"
)

// Wait blocks until the foreground job (slot 0) is no longer Running,
// reaps and recomputes state on every wakeup, and unconditionally
// reclaims the terminal for the shell before returning. If the job
// stopped, its current terminal modes are saved into the job and it is
// relocated to a new background slot so it survives as a suspended job;
// if it finished, its exit code is returned.
func Wait(sh *shell.Shell) (int, error) {
	t := sh.Table
	reaper.Poll(t)
	state, code := t.StateOf(jobtable.Foreground)
	for state == job.Running {
		<-sh.Notifier.C()
		reaper.Poll(t)
		state, code = t.StateOf(jobtable.Foreground)
	}

	if state == job.Stopped {
		modes, err := sh.Term.SaveModes()
		if err != nil {
			return 0, err
		}
		t.Job(jobtable.Foreground).SavedTmodes = modes
		idx := t.AllocBackground()
		if err := t.Move(jobtable.Foreground, idx); err != nil {
			return 0, err
		}
	}

	if err := sh.Term.Reclaim(); err != nil {
		return 0, err
	}

	if state == job.Finished {
		return code, nil
	}
	return 0, nil
}
