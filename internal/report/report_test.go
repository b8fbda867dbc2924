package report

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/corvid-sh/corvid/internal/job"
	"github.com/corvid-sh/corvid/internal/jobtable"
)

// captureStdout runs fn with os.Stdout replaced by a pipe and returns
// whatever fn wrote to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()
	w.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("io.Copy() error = %v", err)
	}
	return buf.String()
}

func TestReportRunning(t *testing.T) {
	tb := jobtable.New()
	idx := tb.AddJob(1, true, unix.Termios{})
	tb.AddProcess(idx, 1, []string{"sleep", "10"})

	out := captureStdout(t, func() { Report(tb, Running) })
	if !strings.Contains(out, "running 'sleep 10'") {
		t.Errorf("Report() output = %q", out)
	}
	if tb.Job(idx) == nil {
		t.Error("a Running job should not be freed by Report")
	}
}

func TestReportStopped(t *testing.T) {
	tb := jobtable.New()
	idx := tb.AddJob(1, true, unix.Termios{})
	tb.AddProcess(idx, 1, []string{"vi"})
	tb.Job(idx).State = job.Stopped

	out := captureStdout(t, func() { Report(tb, Stopped) })
	if !strings.Contains(out, "suspended 'vi'") {
		t.Errorf("Report() output = %q", out)
	}
}

func TestReportFinishedFreesSlot(t *testing.T) {
	tb := jobtable.New()
	idx := tb.AddJob(1, true, unix.Termios{})
	code := 0
	tb.AddProcess(idx, 1, []string{"true"})
	j := tb.Job(idx)
	j.Processes[0].ExitCode = &code
	j.State = job.Finished

	out := captureStdout(t, func() { Report(tb, Finished) })
	if !strings.Contains(out, "exited 'true', status=0") {
		t.Errorf("Report() output = %q", out)
	}
	if tb.Job(idx) != nil {
		t.Error("Finished job should be freed after Report")
	}
}

func TestReportFinishedSignaled(t *testing.T) {
	tb := jobtable.New()
	idx := tb.AddJob(1, true, unix.Termios{})
	raw := int(unix.SIGKILL)
	tb.AddProcess(idx, 1, []string{"loop"})
	j := tb.Job(idx)
	j.Processes[0].ExitCode = &raw
	j.State = job.Finished

	out := captureStdout(t, func() { Report(tb, Finished) })
	if !strings.Contains(out, "killed 'loop' by signal") {
		t.Errorf("Report() output = %q", out)
	}
}

func TestReportIdempotentAfterFree(t *testing.T) {
	tb := jobtable.New()
	idx := tb.AddJob(1, true, unix.Termios{})
	code := 0
	tb.AddProcess(idx, 1, []string{"true"})
	j := tb.Job(idx)
	j.Processes[0].ExitCode = &code
	j.State = job.Finished

	captureStdout(t, func() { Report(tb, Finished) })
	out := captureStdout(t, func() { Report(tb, Finished) })
	if out != "" {
		t.Errorf("second Report() call should print nothing, got %q", out)
	}
}

func TestReportSkipsForegroundSlot(t *testing.T) {
	tb := jobtable.New()
	tb.AddJob(1, false, unix.Termios{})
	out := captureStdout(t, func() { Report(tb, All) })
	if out != "" {
		t.Errorf("Report() should never print slot 0, got %q", out)
	}
}

func TestReportFilterSkipsNonMatching(t *testing.T) {
	tb := jobtable.New()
	idx := tb.AddJob(1, true, unix.Termios{})
	tb.AddProcess(idx, 1, []string{"sleep", "1"})

	out := captureStdout(t, func() { Report(tb, Stopped) })
	if out != "" {
		t.Errorf("Report() with a non-matching filter should print nothing, got %q", out)
	}
}
