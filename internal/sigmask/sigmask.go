//go:build linux

// Package sigmask implements the shell's signal-masking discipline: a
// scope with SIGCHLD blocked on the calling thread. The Executor holds one
// while it launches and waits on a job, and Shutdown holds one while it
// terminates the remaining jobs. The Background Reporter calls from
// cmd/corvid and the jobs/fg/bg builtins read and change the job table
// without one.
//
// This shell never runs job-table code from an actual asynchronous signal
// handler (see internal/reaper's package comment for why), so Scope's
// blocking is not load-bearing for memory safety the way it is in
// original_source/jobs.c's C implementation, where sigchld_handler really
// does run preemptively on the main thread's stack. It is kept here
// because it is cheap, it encodes the masking discipline as a scoped
// resource that is hard to forget to close, and a future change that
// reintroduces true async reaping (for example runtime.AfterFunc from a
// C signal trampoline) would need it.
package sigmask

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// Scope is a blocked-SIGCHLD critical section around job-table work.
type Scope struct {
	prior unix.Sigset_t
}

// Enter blocks SIGCHLD on the current OS thread and returns a Scope whose
// Close restores the previous mask. The goroutine is pinned to its current
// thread until Close, so the mask applies for the scope's whole lifetime.
func Enter() *Scope {
	runtime.LockOSThread()
	var set unix.Sigset_t
	sigaddset(&set, int(unix.SIGCHLD))
	var prior unix.Sigset_t
	if err := unix.RtSigprocmask(unix.SIG_BLOCK, &set, &prior); err != nil {
		panic("sigmask: block SIGCHLD: " + err.Error())
	}
	return &Scope{prior: prior}
}

// Close restores the mask that was active before the matching Enter.
func (s *Scope) Close() {
	defer runtime.UnlockOSThread()
	if err := unix.RtSigprocmask(unix.SIG_SETMASK, &s.prior, nil); err != nil {
		panic("sigmask: restore mask: " + err.Error())
	}
}

func sigaddset(set *unix.Sigset_t, sig int) {
	set.Val[(sig-1)/64] |= 1 << uint((sig-1)%64)
}
