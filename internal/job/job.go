// Package job defines the process and job records tracked by the shell's
// job table.
package job

import (
	"strings"

	"golang.org/x/sys/unix"
)

// State is the lifecycle state shared by processes and jobs.
type State int

const (
	Running State = iota
	Stopped
	Finished
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopped:
		return "suspended"
	case Finished:
		return "exited"
	default:
		return "unknown"
	}
}

// Process is the unit tracked by child-state notifications: one forked,
// possibly-exec'd, child.
type Process struct {
	Pid      int
	State    State
	ExitCode *int // raw wait status word; nil until the process finishes
}

// Job is a group of processes sharing one process group, run together from
// one command line.
type Job struct {
	Pgid      int // 0 means the slot is free
	Processes []*Process
	State     State
	Command   string // stages joined by " | ", args by " "
	// SavedTmodes holds the terminal modes captured when this job most
	// recently lost the foreground.
	SavedTmodes unix.Termios
}

// Free reports whether this slot holds no job.
func (j *Job) Free() bool {
	return j.Pgid == 0
}

// AppendCommand extends the human-readable command-line rendering: stages
// are joined by " | ", and a stage's own arguments are joined by " ".
func AppendCommand(cmd string, argv []string) string {
	var b strings.Builder
	b.WriteString(cmd)
	if cmd != "" {
		b.WriteString(" | ")
	}
	b.WriteString(strings.Join(argv, " "))
	return b.String()
}

// ExitCode returns the last stage's exit code, the job's exit code by
// convention.
func (j *Job) ExitCode() int {
	if len(j.Processes) == 0 {
		return 0
	}
	last := j.Processes[len(j.Processes)-1]
	if last.ExitCode == nil {
		return 0
	}
	return *last.ExitCode
}

// Recompute derives the job's aggregate state from its processes:
// Running iff all live processes are Running, Stopped iff all live
// processes are Stopped, Finished iff every process is Finished.
func (j *Job) Recompute() {
	if len(j.Processes) == 0 {
		return
	}
	finished, running, stopped := 0, 0, 0
	for _, p := range j.Processes {
		switch p.State {
		case Finished:
			finished++
		case Running:
			running++
		case Stopped:
			stopped++
		}
	}
	live := len(j.Processes) - finished
	switch {
	case finished == len(j.Processes):
		j.State = Finished
	case stopped == live:
		j.State = Stopped
	case running == live:
		j.State = Running
	}
}
