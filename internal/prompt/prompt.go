// Package prompt implements the Prompt Reader: it reads one line at a
// time from the controlling terminal using a line-editing stack,
// translating a Ctrl-C keystroke into a recoverable "interrupted read"
// error and EOF into shutdown.
//
// Grounded on native/shell/shell.go's pattern of driving
// github.com/hymkor/go-multiline-ny's Editor with a
// github.com/mattn/go-colorable writer and recognizing
// github.com/nyaosorg/go-readline-ny's CtrlC sentinel error for the
// interrupted-read case. A keystroke-level sentinel error stands in for
// the no-op SIGINT handler's EINTR in the original C implementation,
// since go-multiline-ny's own terminal driver is what is actually
// reading from the tty, not a raw read(2) call this package could
// interrupt directly.
package prompt

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/hymkor/go-multiline-ny"
	"github.com/mattn/go-colorable"
	"github.com/nyaosorg/go-readline-ny"
)

// ErrInterrupted is returned by Read when the user presses Ctrl-C, a
// recoverable interrupt-during-read case.
var ErrInterrupted = errors.New("prompt: interrupted")

// Reader reads one logical command line at a time from the terminal.
type Reader struct {
	ed multiline.Editor
}

// New returns a Reader configured with the shell's "# " prompt.
func New() *Reader {
	r := &Reader{}
	r.ed.SetPrompt(writePrompt)
	r.ed.SetWriter(colorable.NewColorableStdout())
	r.ed.SubmitOnEnterWhen(func(lines []string, _ int) bool { return true })
	return r
}

// Read returns the next line, io.EOF at end of input, or ErrInterrupted
// if the read was broken by Ctrl-C.
func (r *Reader) Read(ctx context.Context) (string, error) {
	lines, err := r.ed.Read(ctx)
	if err != nil {
		switch {
		case errors.Is(err, readline.CtrlC):
			return "", ErrInterrupted
		case errors.Is(err, io.EOF):
			return "", io.EOF
		default:
			return "", err
		}
	}
	return strings.Join(lines, ""), nil
}

func writePrompt(w io.Writer, lineNo int) (int, error) {
	if lineNo == 0 {
		return w.Write([]byte("# "))
	}
	return w.Write([]byte("  "))
}
