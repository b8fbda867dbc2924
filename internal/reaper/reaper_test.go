package reaper

import (
	"os/exec"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/corvid-sh/corvid/internal/job"
	"github.com/corvid-sh/corvid/internal/jobtable"
)

func TestPollReapsFinishedProcess(t *testing.T) {
	cmd := exec.Command("true")
	if err := cmd.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	pid := cmd.Process.Pid

	tb := jobtable.New()
	idx := tb.AddJob(pid, false, unix.Termios{})
	tb.AddProcess(idx, pid, []string{"true"})

	deadline := time.Now().Add(2 * time.Second)
	for {
		Poll(tb)
		j := tb.Job(idx)
		if j == nil || j.State == job.Finished {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Poll() never observed the process finishing")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPollIgnoresEmptySlots(t *testing.T) {
	tb := jobtable.New()
	// Should not panic on a table with only the free foreground slot.
	Poll(tb)
}

func TestNotifierSubscribesToSIGCHLD(t *testing.T) {
	n := New()
	defer n.Stop()

	cmd := exec.Command("true")
	if err := cmd.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	select {
	case <-n.C():
	case <-time.After(2 * time.Second):
		t.Fatal("did not receive a SIGCHLD notification for the exited child")
	}
}
