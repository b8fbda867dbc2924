// Package report implements the Background Reporter: after every
// completed prompt it walks the Job Table and prints one line per
// background job whose state matches a filter, freeing finished slots
// as it goes.
//
// Grounded on original_source/jobs.c's watchjobs, translated to operate
// on *jobtable.Table and golang.org/x/sys/unix's WaitStatus decoder
// instead of the raw WIFEXITED/WIFSIGNALED/WEXITSTATUS macros.
//
// Report takes the Job Table directly rather than the shared *shell.Shell
// context the rest of the shell threads through. internal/shell.Shutdown
// is itself a caller of Report, and Go import graphs are acyclic, so the
// Background Reporter sits below internal/shell and depends only on the
// state it actually touches.
package report

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/corvid-sh/corvid/internal/job"
	"github.com/corvid-sh/corvid/internal/jobtable"
)

// Filter selects which job states Report prints. The All value reports
// every non-empty background slot, matching watchjobs's "which == ALL"
// case.
type Filter struct {
	state job.State
	all   bool
}

var (
	Running  = Filter{state: job.Running}
	Stopped  = Filter{state: job.Stopped}
	Finished = Filter{state: job.Finished}
	All      = Filter{all: true}
)

// Report scans every background slot. Slot 0, the foreground job, is
// never reported here; that is the Foreground Monitor's job. It prints
// the message matching each job's state, when it matches filter, and
// frees finished jobs from the table immediately after reporting them,
// so a second Report call with filter Finished reports nothing for them.
func Report(t *jobtable.Table, filter Filter) {
	for i := jobtable.Foreground + 1; i < t.Len(); i++ {
		j := t.Job(i)
		if j == nil {
			continue
		}
		if !filter.all && j.State != filter.state {
			continue
		}
		switch j.State {
		case job.Running:
			fmt.Printf("[%d] running '%s'\n", i, j.Command)
		case job.Stopped:
			fmt.Printf("[%d] suspended '%s'\n", i, j.Command)
		case job.Finished:
			reportFinished(i, j)
			t.Free(i)
		}
	}
}

func reportFinished(i int, j *job.Job) {
	raw := j.ExitCode()
	ws := unix.WaitStatus(raw)
	switch {
	case ws.Exited():
		fmt.Printf("[%d] exited '%s', status=%d\n", i, j.Command, ws.ExitStatus())
	case ws.Signaled():
		fmt.Printf("[%d] killed '%s' by signal %d\n", i, j.Command, raw)
	}
}
