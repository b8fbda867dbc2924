// Package redir implements the Redirection & Pipe Builder: it walks a
// token stream from internal/lexer and produces a pipeline description,
// one or more stages, each with its own argv and optional input/output
// redirection, plus whether the whole pipeline runs in the background.
//
// Grounded on original_source/jobs.c's command-line builder, which folds
// T_INPUT/T_OUTPUT/T_PIPE/T_BGJOB tokens into an argv array per stage and
// opens redirection targets with O_CREAT|O_WRONLY|O_APPEND: append, not
// truncate, so that > never destroys existing output. File descriptors
// are marked close-on-exec and un-marked only on the child side of an
// exec.Cmd, the way other_examples/atinylittleshell-gsh exec_unix.go.go
// wires redirections into os/exec rather than performing raw dup2 calls.
package redir

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/corvid-sh/corvid/internal/lexer"
)

// Stage is one command in a pipeline: a program and its arguments, plus at
// most one input and one output redirection target.
type Stage struct {
	Argv       []string
	InputPath  string // "" if this stage reads its predecessor's stdout (or the shell's stdin)
	OutputPath string // "" if this stage writes to its successor's stdin (or the shell's stdout)
}

// Pipeline is a fully parsed command line: one or more stages connected by
// pipes, and whether it should run in the background.
type Pipeline struct {
	Stages     []Stage
	Background bool
}

// Parse builds a Pipeline from tokens. It rejects empty stages (two
// adjacent pipes, a leading pipe, or a trailing pipe) and requires that a
// T_BGJOB token, if present, be the final token, exactly the restriction
// original_source/jobs.c's tokenizer loop enforces.
func Parse(tokens []lexer.Token) (*Pipeline, error) {
	p := &Pipeline{}
	cur := Stage{}
	haveStage := false

	flush := func() error {
		if len(cur.Argv) == 0 {
			return fmt.Errorf("redir: empty command in pipeline")
		}
		p.Stages = append(p.Stages, cur)
		cur = Stage{}
		haveStage = false
		return nil
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Kind {
		case lexer.Word:
			cur.Argv = append(cur.Argv, tok.Text)
			haveStage = true
		case lexer.Input:
			i++
			if i >= len(tokens) || tokens[i].Kind != lexer.Word {
				return nil, fmt.Errorf("redir: expected filename after '<'")
			}
			cur.InputPath = tokens[i].Text
		case lexer.Output:
			i++
			if i >= len(tokens) || tokens[i].Kind != lexer.Word {
				return nil, fmt.Errorf("redir: expected filename after '>'")
			}
			cur.OutputPath = tokens[i].Text
		case lexer.Pipe:
			if err := flush(); err != nil {
				return nil, err
			}
		case lexer.Bgjob:
			if i != len(tokens)-1 {
				return nil, fmt.Errorf("redir: '&' must be the last token")
			}
			p.Background = true
		default:
			return nil, fmt.Errorf("redir: unrecognized token")
		}
	}
	if haveStage || len(p.Stages) > 0 {
		if err := flush(); err != nil {
			return nil, err
		}
	} else if len(p.Stages) == 0 {
		return nil, fmt.Errorf("redir: empty command")
	}
	return p, nil
}

// OpenFiles opens every redirection target named in a stage, marking each
// descriptor close-on-exec. The executor hands the files to a child as its
// stdin or stdout, and os/exec duplicates them onto descriptor 0 or 1 in
// that child. The caller owns closing the returned files once the pipeline
// has been launched.
func (s Stage) OpenFiles() (in, out *os.File, err error) {
	if s.InputPath != "" {
		in, err = os.OpenFile(s.InputPath, os.O_RDONLY, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("redir: open %q for input: %w", s.InputPath, err)
		}
		if cerr := cloexec(in); cerr != nil {
			in.Close()
			return nil, nil, cerr
		}
	}
	if s.OutputPath != "" {
		out, err = os.OpenFile(s.OutputPath, os.O_WRONLY|os.O_CREAT|os.O_APPEND, 0700)
		if err != nil {
			if in != nil {
				in.Close()
			}
			return nil, nil, fmt.Errorf("redir: open %q for output: %w", s.OutputPath, err)
		}
		if cerr := cloexec(out); cerr != nil {
			if in != nil {
				in.Close()
			}
			out.Close()
			return nil, nil, cerr
		}
	}
	return in, out, nil
}

func cloexec(f *os.File) error {
	if _, err := unix.FcntlInt(f.Fd(), unix.F_SETFD, unix.FD_CLOEXEC); err != nil {
		return fmt.Errorf("redir: fcntl FD_CLOEXEC on %s: %w", f.Name(), err)
	}
	return nil
}
