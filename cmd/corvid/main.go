// Command corvid is an interactive job-control shell.
//
// Grounded on cmd/jsh/main.go's pattern of a small flag-parsing main that
// builds a config and hands off to the engine, adapted here to the shell
// core's own Lifecycle (internal/shell) instead of an embedded JS engine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/corvid-sh/corvid/internal/builtins"
	"github.com/corvid-sh/corvid/internal/executor"
	"github.com/corvid-sh/corvid/internal/jobtable"
	"github.com/corvid-sh/corvid/internal/lexer"
	"github.com/corvid-sh/corvid/internal/prompt"
	"github.com/corvid-sh/corvid/internal/redir"
	"github.com/corvid-sh/corvid/internal/report"
	"github.com/corvid-sh/corvid/internal/shell"
	"github.com/corvid-sh/corvid/internal/shellerr"
	"github.com/corvid-sh/corvid/internal/shlog"
)

// corvid takes no flags affecting the core shell behavior. "-c" is
// test-harness plumbing: run one command line non-interactively and
// exit, for use from cmd/corvid/main_test.go. "-builtin" is an internal,
// undocumented flag: the Executor re-execs the shell binary with it to
// run a builtin inside a pipeline stage's forked child (see the comment
// on stageCmd in internal/executor for why).
func main() {
	if len(os.Args) > 1 && os.Args[1] == "-builtin" {
		os.Exit(runBuiltinStage(os.Args[2:]))
	}

	cmdFlag := flag.String("c", "", "run one command line and exit")
	flag.Parse()

	if *cmdFlag != "" {
		sh, err := shell.NewHeadless()
		if err != nil {
			shellerr.Fatal("startup", err)
		}
		os.Exit(runOnce(sh, *cmdFlag))
	}

	sh, err := shell.New()
	if err != nil {
		shellerr.Fatal("startup", err)
	}
	os.Exit(repl(sh))
}

func runBuiltinStage(argv []string) int {
	if len(argv) == 0 {
		return 127
	}
	sh := &shell.Shell{Table: jobtable.New()}
	code, _, handled := builtins.Dispatch(argv, sh)
	if !handled {
		return 127
	}
	return code
}

func runOnce(sh *shell.Shell, line string) int {
	code, _ := eval(sh, line)
	report.Report(sh.Table, report.Finished)
	if err := sh.Shutdown(); err != nil {
		shlog.Error(err)
	}
	return code
}

func repl(sh *shell.Shell) int {
	rd := prompt.New()
	ctx := context.Background()

	for {
		line, err := rd.Read(ctx)
		if err != nil {
			if errors.Is(err, prompt.ErrInterrupted) {
				fmt.Println()
				continue
			}
			if errors.Is(err, io.EOF) {
				break
			}
			shlog.Error(err)
			break
		}

		if strings.TrimSpace(line) != "" {
			_, exit := eval(sh, line)
			if exit {
				break
			}
		}
		report.Report(sh.Table, report.Finished)
	}

	fmt.Println()
	if err := sh.Shutdown(); err != nil {
		shlog.Error(err)
		return 1
	}
	return 0
}

// eval is the per-prompt data-flow pipeline: tokenizer -> Redirection
// Builder -> Executor.
func eval(sh *shell.Shell, line string) (code int, exit bool) {
	tokens := lexer.Tokenize(line)
	if len(tokens) == 0 {
		return 0, false
	}
	pl, err := redir.Parse(tokens)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1, false
	}
	res, err := executor.Run(sh, pl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1, false
	}
	return res.Code, res.Exit
}
