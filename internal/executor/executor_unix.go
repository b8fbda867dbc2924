//go:build linux

package executor

import (
	"os/signal"

	"golang.org/x/sys/unix"
)

// resetJobControlSignals/reignoreJobControlSignals bracket exactly the
// fork call (cmd.Start) so the forked-but-not-yet-exec'd child inherits
// default disposition for the job-control stop/tty signals, then
// restores the shell's own SIGTSTP/SIGTTIN/SIGTTOU ignore (installed
// once at startup by internal/shell.New) immediately afterward.
//
// This works because signal disposition is a per-process, inherited-at-
// fork property: a child's disposition is fixed at the instant it is
// cloned from the parent, independent of what the parent's disposition
// becomes afterward. Resetting to SIG_DFL just before the fork and
// re-installing SIG_IGN just after it therefore gives the child default
// handling (which execve then preserves, since only "ignored" survives
// exec unmodified and SIG_DFL trivially does) without ever leaving the
// shell itself briefly stoppable by its own terminal I/O.
func resetJobControlSignals() {
	signal.Reset(unix.SIGTSTP, unix.SIGTTIN, unix.SIGTTOU)
}

func reignoreJobControlSignals() {
	signal.Ignore(unix.SIGTSTP, unix.SIGTTIN, unix.SIGTTOU)
}
