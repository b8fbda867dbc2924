// Package builtins implements the shell's built-in command set: cd,
// exit/quit, jobs, fg, bg, kill. A builtin dispatcher returns a
// non-negative exit code when tokens name a builtin (already executed)
// or reports "not a builtin" otherwise.
//
// fg/bg/kill are grounded on original_source/jobs.c's resumejob and
// killjob: fg/bg with no job-number argument resume the highest-numbered
// non-finished job (resumejob's "j < 0" branch); fg additionally moves
// the job to slot 0, transfers the terminal, and runs the Foreground
// Monitor, exactly mirroring jobs.c's movejob/setfgpgrp/monitorjob
// sequence.
package builtins

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/corvid-sh/corvid/internal/fgmonitor"
	"github.com/corvid-sh/corvid/internal/job"
	"github.com/corvid-sh/corvid/internal/jobtable"
	"github.com/corvid-sh/corvid/internal/report"
	"github.com/corvid-sh/corvid/internal/shell"
)

// names is the set of words recognized as builtins, used by callers that
// need to know whether a stage should dispatch to this package instead
// of exec'ing an external program (see internal/executor's pipeline-stage
// re-exec path).
var names = map[string]bool{
	"cd": true, "exit": true, "quit": true,
	"jobs": true, "fg": true, "bg": true, "kill": true,
}

// Is reports whether word names a builtin.
func Is(word string) bool { return names[word] }

// Dispatch runs argv[0]'s builtin if it is one, returning its exit code,
// whether it was exit/quit, and handled=true; otherwise it returns
// (-1, false, false) as the "not a builtin" sentinel.
func Dispatch(argv []string, sh *shell.Shell) (code int, exit bool, handled bool) {
	if len(argv) == 0 || !Is(argv[0]) {
		return -1, false, false
	}
	switch argv[0] {
	case "cd":
		return cd(argv), false, true
	case "exit", "quit":
		return exitCode(argv), true, true
	case "jobs":
		report.Report(sh.Table, report.All)
		return 0, false, true
	case "fg":
		return resume(sh, argv, false), false, true
	case "bg":
		return resume(sh, argv, true), false, true
	case "kill":
		return killJob(sh, argv), false, true
	}
	return -1, false, false
}

func cd(argv []string) int {
	dir := os.Getenv("HOME")
	if len(argv) > 1 {
		dir = argv[1]
	}
	if dir == "" {
		dir = "/"
	}
	if err := os.Chdir(dir); err != nil {
		fmt.Fprintf(os.Stderr, "cd: %v\n", err)
		return 1
	}
	return 0
}

func exitCode(argv []string) int {
	if len(argv) > 1 {
		if n, err := strconv.Atoi(argv[1]); err == nil {
			return n
		}
	}
	return 0
}

// jobArg parses an optional job-number argument at argv[1] (accepting a
// bare number or a leading '%', e.g. "1" or "%1"). It returns -1 (meaning
// "unspecified, use the default") when no argument was given.
func jobArg(argv []string) (int, error) {
	if len(argv) < 2 {
		return -1, nil
	}
	s := strings.TrimPrefix(argv[1], "%")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid job number %q", argv[1])
	}
	return n, nil
}

func resume(sh *shell.Shell, argv []string, bg bool) int {
	j, err := jobArg(argv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", argv[0], err)
		return 1
	}
	if j < 0 {
		j = sh.Table.HighestActive()
	}
	if j <= jobtable.Foreground || sh.Table.Job(j) == nil {
		fmt.Fprintf(os.Stderr, "%s: no such job\n", argv[0])
		return 1
	}

	rec := sh.Table.Job(j)
	fmt.Printf("[%d] continue '%s'\n", j, rec.Command)

	if bg {
		if err := unix.Kill(-rec.Pgid, unix.SIGCONT); err != nil {
			fmt.Fprintf(os.Stderr, "bg: %v\n", err)
			return 1
		}
		for _, p := range rec.Processes {
			if p.State == job.Stopped {
				p.State = job.Running
			}
		}
		rec.Recompute()
		return 0
	}

	if err := sh.Table.Move(j, jobtable.Foreground); err != nil {
		fmt.Fprintf(os.Stderr, "fg: %v\n", err)
		return 1
	}
	fg := sh.Table.Job(jobtable.Foreground)
	if err := sh.Term.SetForeground(fg.Pgid); err != nil {
		fmt.Fprintf(os.Stderr, "fg: %v\n", err)
		return 1
	}
	if err := sh.Term.RestoreModes(fg.SavedTmodes); err != nil {
		fmt.Fprintf(os.Stderr, "fg: %v\n", err)
		return 1
	}
	if err := unix.Kill(-fg.Pgid, unix.SIGCONT); err != nil {
		fmt.Fprintf(os.Stderr, "fg: %v\n", err)
		return 1
	}
	code, err := fgmonitor.Wait(sh)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fg: %v\n", err)
		return 1
	}
	return code
}

func killJob(sh *shell.Shell, argv []string) int {
	j, err := jobArg(argv)
	if err != nil || j < 0 {
		fmt.Fprintf(os.Stderr, "kill: usage: kill <job>\n")
		return 1
	}
	rec := sh.Table.Job(j)
	if rec == nil {
		fmt.Fprintf(os.Stderr, "kill: no such job\n")
		return 1
	}
	if err := unix.Kill(-rec.Pgid, unix.SIGTERM); err != nil {
		fmt.Fprintf(os.Stderr, "kill: %v\n", err)
		return 1
	}
	unix.Kill(-rec.Pgid, unix.SIGCONT)
	return 0
}
