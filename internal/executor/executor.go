// Package executor implements the Executor component: it drives
// single-stage and pipeline execution, forking children, assigning
// process groups, wiring standard descriptors, and handing builtins
// either to the shell's own process (foreground single-stage) or to a
// forked child (pipeline stage). That asymmetry is preserved
// deliberately; see stageCmd below.
//
// Grounded on original_source/shell.c's do_job/do_stage/do_pipeline.
// Go's os/exec already performs the "child side" of the double-setpgid
// race fix: SysProcAttr{Setpgid: true, Pgid: pgid} makes the
// forked-not-yet-exec'd child call setpgid on itself (or join pgid, if
// known) before execve runs, inside the same runtime-managed fork/exec
// sequence the C source hand-rolls. The parent-side half of that race
// fix is the explicit unix.Setpgid call just after Start() below.
package executor

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/corvid-sh/corvid/internal/builtins"
	"github.com/corvid-sh/corvid/internal/fgmonitor"
	"github.com/corvid-sh/corvid/internal/jobtable"
	"github.com/corvid-sh/corvid/internal/redir"
	"github.com/corvid-sh/corvid/internal/shell"
	"github.com/corvid-sh/corvid/internal/sigmask"
)

// Result is what a completed (or backgrounded) pipeline hands back to
// the prompt loop.
type Result struct {
	Code int
	Exit bool // true if the command was an "exit"/"quit" builtin
}

// Run executes pl: a single stage or a multi-stage pipeline, foreground
// or background, per pl.Background.
func Run(sh *shell.Shell, pl *redir.Pipeline) (Result, error) {
	if len(pl.Stages) == 1 {
		return runSingle(sh, pl.Stages[0], pl.Background)
	}
	code, err := runPipeline(sh, pl.Stages, pl.Background)
	return Result{Code: code}, err
}

// runSingle runs a non-pipeline command. A foreground builtin runs in
// the shell's own process without forking; everything else forks
// exactly one child.
func runSingle(sh *shell.Shell, st redir.Stage, bg bool) (Result, error) {
	in, out, err := st.OpenFiles()
	if err != nil {
		return Result{}, err
	}

	if !bg {
		if code, exit, handled := builtins.Dispatch(st.Argv, sh); handled {
			closeIfNotNil(in)
			closeIfNotNil(out)
			return Result{Code: code, Exit: exit}, nil
		}
	}

	scope := sigmask.Enter()
	defer scope.Close()

	cmd := exec.Command(st.Argv[0], st.Argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Stdin = fileOr(in, os.Stdin)
	cmd.Stdout = fileOr(out, os.Stdout)
	cmd.Stderr = os.Stderr

	resetJobControlSignals()
	startErr := cmd.Start()
	reignoreJobControlSignals()
	if startErr != nil {
		closeIfNotNil(in)
		closeIfNotNil(out)
		return Result{}, fmt.Errorf("executor: start %q: %w", st.Argv[0], startErr)
	}

	pid := cmd.Process.Pid
	_ = unix.Setpgid(pid, pid)

	idx := sh.Table.AddJob(pid, bg, sh.Term.ShellModes())
	sh.Table.AddProcess(idx, pid, st.Argv)

	closeIfNotNil(in)
	closeIfNotNil(out)

	if bg {
		fmt.Printf("[%d] running '%s'\n", idx, sh.Table.CommandOf(idx))
		return Result{Code: 0}, nil
	}

	if err := sh.Term.SetForeground(pid); err != nil {
		return Result{}, err
	}
	code, err := fgmonitor.Wait(sh)
	return Result{Code: code}, err
}

// runPipeline runs k>=2 stages chained by pipes, each stage joining the
// same process group as the first stage's pid.
func runPipeline(sh *shell.Shell, stages []redir.Stage, bg bool) (int, error) {
	scope := sigmask.Enter()
	defer scope.Close()

	var pgid, idx int
	var curInput *os.File // feeds this stage's stdin; nil for the first stage

	for i, st := range stages {
		redirIn, redirOut, err := st.OpenFiles()
		if err != nil {
			return 0, err
		}

		var nextInput, pipeWrite *os.File
		if i < len(stages)-1 {
			r, w, perr := os.Pipe()
			if perr != nil {
				closeIfNotNil(redirIn)
				closeIfNotNil(redirOut)
				return 0, fmt.Errorf("executor: pipe: %w", perr)
			}
			nextInput, pipeWrite = r, w
		}

		stdin := os.Stdin
		switch {
		case curInput != nil:
			stdin = curInput
		case redirIn != nil:
			stdin = redirIn
		}
		stdout := os.Stdout
		if pipeWrite != nil {
			stdout = pipeWrite
		}
		if redirOut != nil {
			stdout = redirOut
		}

		cmd, err := stageCmd(st)
		if err != nil {
			closeIfNotNil(curInput)
			closeIfNotNil(redirIn)
			closeIfNotNil(redirOut)
			closeIfNotNil(nextInput)
			closeIfNotNil(pipeWrite)
			return 0, err
		}
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pgid: pgid}
		cmd.Stdin, cmd.Stdout, cmd.Stderr = stdin, stdout, os.Stderr

		resetJobControlSignals()
		startErr := cmd.Start()
		reignoreJobControlSignals()
		if startErr != nil {
			closeIfNotNil(curInput)
			closeIfNotNil(redirIn)
			closeIfNotNil(redirOut)
			closeIfNotNil(nextInput)
			closeIfNotNil(pipeWrite)
			return 0, fmt.Errorf("executor: start %q: %w", st.Argv[0], startErr)
		}

		pid := cmd.Process.Pid
		if i == 0 {
			pgid = pid
			idx = sh.Table.AddJob(pgid, bg, sh.Term.ShellModes())
		}
		_ = unix.Setpgid(pid, pgid)
		sh.Table.AddProcess(idx, pid, st.Argv)

		closeIfNotNil(curInput)
		closeIfNotNil(redirIn)
		closeIfNotNil(redirOut)
		closeIfNotNil(pipeWrite)
		curInput = nextInput
	}

	if bg {
		fmt.Printf("[%d] running '%s'\n", idx, sh.Table.CommandOf(idx))
		return 0, nil
	}

	fg := sh.Table.Job(jobtable.Foreground)
	if err := sh.Term.SetForeground(fg.Pgid); err != nil {
		return 0, err
	}
	return fgmonitor.Wait(sh)
}

// stageCmd builds the *exec.Cmd for one pipeline stage. A builtin stage
// is not run in the shell's own process the way a foreground single-
// stage builtin is: the Go runtime offers no safe way to run arbitrary
// Go code in a forked-but-not-yet-exec'd child the way the C source's
// do_stage does, so a builtin named inside a pipeline instead re-execs
// the shell's own binary with a hidden "-builtin" argument. The
// re-exec'd process dispatches straight to internal/builtins and exits
// with its code, preserving the observable asymmetry (the builtin runs
// in a genuinely separate process, with its own transient job table)
// without needing a raw fork().
func stageCmd(st redir.Stage) (*exec.Cmd, error) {
	if !builtins.Is(st.Argv[0]) {
		return exec.Command(st.Argv[0], st.Argv[1:]...), nil
	}
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("executor: locate self for builtin stage %q: %w", st.Argv[0], err)
	}
	args := append([]string{"-builtin"}, st.Argv...)
	return exec.Command(self, args...), nil
}

func fileOr(f *os.File, def *os.File) *os.File {
	if f != nil {
		return f
	}
	return def
}

func closeIfNotNil(f *os.File) {
	if f != nil {
		f.Close()
	}
}
