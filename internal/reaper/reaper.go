//go:build linux

// Package reaper implements the Child-State Reaper: it consumes
// asynchronous child-state-change notifications (SIGCHLD) and updates
// per-process and per-job state in the job table.
//
// Grounded on original_source/jobs.c's sigchld_handler, translated to use
// a self-pipe-equivalent instead of mutating shared state directly from
// a signal handler: signal.Notify delivers SIGCHLD to a buffered
// channel, and Poll (ordinary, non-signal Go code) does the actual
// waitpid-equivalent polling and state updates, the way
// other_examples/889c3989_mmichie-gosh__job.go's ReapChildren and
// pebble's internals/reaper/reaper.go both structure their reaping
// loops around a notification channel.
package reaper

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"github.com/corvid-sh/corvid/internal/job"
	"github.com/corvid-sh/corvid/internal/jobtable"
)

// Notifier delivers a value each time SIGCHLD is received.
type Notifier struct {
	ch chan os.Signal
}

// New returns a Notifier subscribed to SIGCHLD. The caller must call Stop
// when done to release the subscription.
func New() *Notifier {
	ch := make(chan os.Signal, 8)
	signal.Notify(ch, unix.SIGCHLD)
	return &Notifier{ch: ch}
}

// C is the channel to select on, or to drain non-blockingly, for a pending
// SIGCHLD notification.
func (n *Notifier) C() <-chan os.Signal { return n.ch }

// Stop unsubscribes from SIGCHLD.
func (n *Notifier) Stop() {
	signal.Stop(n.ch)
}

// Poll performs a non-blocking waitpid sweep: for every slot, for every
// process whose pid has an available state change, it updates the
// process state (and, on termination, its exit code), then recomputes
// the job's aggregate state. It tolerates the absence of any pending
// state change; it never blocks.
func Poll(t *jobtable.Table) {
	for i := 0; i < t.Len(); i++ {
		j := t.Job(i)
		if j == nil {
			continue
		}
		for _, p := range j.Processes {
			if p.State == job.Finished {
				continue
			}
			var status unix.WaitStatus
			pid, err := unix.Wait4(p.Pid, &status, unix.WNOHANG|unix.WUNTRACED|unix.WCONTINUED, nil)
			if err != nil || pid <= 0 {
				continue
			}
			switch {
			case status.Exited() || status.Signaled():
				p.State = job.Finished
				code := int(status)
				p.ExitCode = &code
			case status.Stopped():
				p.State = job.Stopped
			case status.Continued():
				p.State = job.Running
			}
		}
		j.Recompute()
	}
}
