// Package jobtable implements the Job Table: an indexable collection of job
// slots where slot 0 is reserved for the current foreground job and slots
// >=1 hold background jobs.
//
// Grounded on original_source/jobs.c's jobs[] array (allocjob/addjob/addproc
// /movejob/jobstate/jobcmd) and on other_examples/889c3989_mmichie-gosh__job.go
// .go's JobManager for the idiomatic Go rendering of a job registry with
// add/list/remove operations.
//
// Every exported method here is meant to run with the child signal
// blocked (see internal/sigmask); callers are responsible for holding a
// sigmask.Scope for the duration of a call. Because this shell's reaper
// is ordinary code invoked synchronously on the same goroutine as the
// rest of the shell (see internal/reaper), rather than a true
// async-signal-safe handler, no additional locking is required here: Go
// never runs two goroutines' worth of job-table code concurrently unless
// the caller arranges it, and this program never does.
package jobtable

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/corvid-sh/corvid/internal/job"
)

// Foreground is the reserved slot index for the current foreground job.
const Foreground = 0

// Table is the shell's Job Table.
type Table struct {
	slots []*job.Job
}

// New returns an empty table with one slot (slot 0).
func New() *Table {
	return &Table{slots: []*job.Job{{}}}
}

// AllocBackground returns the lowest free slot >=1, growing the table if
// none is free.
func (t *Table) AllocBackground() int {
	for i := Foreground + 1; i < len(t.slots); i++ {
		if t.slots[i].Free() {
			return i
		}
	}
	t.slots = append(t.slots, &job.Job{})
	return len(t.slots) - 1
}

// AddJob registers a new job with the given pgid and the shell's current
// terminal modes as its initially-saved modes. For a foreground job it
// returns slot 0 (which must already be free, by invariant); for a
// background job it allocates a new slot first.
func (t *Table) AddJob(pgid int, background bool, shellModes unix.Termios) int {
	idx := Foreground
	if background {
		idx = t.AllocBackground()
	}
	j := t.slots[idx]
	*j = job.Job{
		Pgid:        pgid,
		State:       job.Running,
		SavedTmodes: shellModes,
	}
	return idx
}

// AddProcess appends a process to job index, extending the job's
// human-readable command rendering with argv.
func (t *Table) AddProcess(index int, pid int, argv []string) {
	j := t.slots[index]
	j.Processes = append(j.Processes, &job.Process{Pid: pid, State: job.Running})
	j.Command = job.AppendCommand(j.Command, argv)
}

// Move relocates the job at from into to, which must be free; from is left
// as an empty, free slot.
func (t *Table) Move(from, to int) error {
	if !t.slots[to].Free() {
		return fmt.Errorf("jobtable: destination slot %d is not free", to)
	}
	t.slots[to] = t.slots[from]
	t.slots[from] = &job.Job{}
	return nil
}

// StateOf returns the job's current state; if it is Finished, the job is
// deleted and its exit code is returned as the second value.
func (t *Table) StateOf(index int) (job.State, int) {
	j := t.slots[index]
	state := j.State
	if state == job.Finished {
		code := j.ExitCode()
		t.slots[index] = &job.Job{}
		return state, code
	}
	return state, 0
}

// Free releases slot index unconditionally, used by the Background
// Reporter once it has rendered a Finished job's report.
func (t *Table) Free(index int) {
	t.slots[index] = &job.Job{}
}

// CommandOf returns the human-readable command line for index.
func (t *Table) CommandOf(index int) string {
	return t.slots[index].Command
}

// Job returns the job record at index, for read-only inspection (e.g. by
// the reaper or the background reporter). It is nil if the slot is free.
func (t *Table) Job(index int) *job.Job {
	if index >= len(t.slots) {
		return nil
	}
	j := t.slots[index]
	if j.Free() {
		return nil
	}
	return j
}

// Len returns the number of slots, including slot 0.
func (t *Table) Len() int {
	return len(t.slots)
}

// HighestActive returns the highest-indexed non-finished, non-free
// background job, or -1 if there is none: the "no argument given" default
// original_source/jobs.c's resumejob uses for fg/bg.
func (t *Table) HighestActive() int {
	for i := len(t.slots) - 1; i > Foreground; i-- {
		if !t.slots[i].Free() && t.slots[i].State != job.Finished {
			return i
		}
	}
	return -1
}
