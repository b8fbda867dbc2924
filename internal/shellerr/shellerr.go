// Package shellerr implements the shell's process-wide error reporter:
// syscall failures during setup are fatal because the shell's invariants
// (job table consistency, terminal ownership) cannot be restored once a
// critical section has been entered and abandoned halfway.
//
// Grounded on cmd/jsh/main.go's pattern of printing the error and
// calling os.Exit(1) directly rather than returning through several
// layers of caller.
package shellerr

import (
	"fmt"
	"os"
)

// Fatal prints msg and err to stderr and terminates the process with a
// non-zero exit code. It never returns.
func Fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "corvid: %s: %v\n", msg, err)
	os.Exit(1)
}
