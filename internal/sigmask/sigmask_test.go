package sigmask

import (
	"testing"

	"golang.org/x/sys/unix"
)

func sigchldBlocked(t *testing.T) bool {
	t.Helper()
	var cur unix.Sigset_t
	if err := unix.RtSigprocmask(unix.SIG_SETMASK, nil, &cur); err != nil {
		t.Fatalf("RtSigprocmask query error = %v", err)
	}
	bit := cur.Val[(unix.SIGCHLD-1)/64] & (1 << uint((unix.SIGCHLD-1)%64))
	return bit != 0
}

func TestEnterBlocksSIGCHLDAndCloseRestores(t *testing.T) {
	if sigchldBlocked(t) {
		t.Skip("SIGCHLD already blocked in the test process")
	}

	scope := Enter()
	if !sigchldBlocked(t) {
		t.Fatal("Enter() did not block SIGCHLD")
	}
	scope.Close()
	if sigchldBlocked(t) {
		t.Fatal("Close() did not restore the prior mask")
	}
}

func TestNestedScopes(t *testing.T) {
	outer := Enter()
	if !sigchldBlocked(t) {
		t.Fatal("outer Enter() did not block SIGCHLD")
	}
	inner := Enter()
	if !sigchldBlocked(t) {
		t.Fatal("inner Enter() should leave SIGCHLD blocked")
	}
	inner.Close()
	if !sigchldBlocked(t) {
		t.Fatal("closing the inner scope should leave SIGCHLD blocked, since the outer scope still holds it")
	}
	outer.Close()
	if sigchldBlocked(t) {
		t.Fatal("closing the outer scope should unblock SIGCHLD")
	}
}
