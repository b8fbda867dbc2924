// Package shlog is the shell's diagnostic (non-protocol) logger.
//
// User-facing job-control messages ("[n] running '...'") are NOT routed
// through this package. They are the shell's literal stdout protocol and
// are written directly by internal/report and internal/builtins, matching
// a direct-write convention for protocol output. This package exists for
// everything else: non-fatal errors (such as a failed shutdown) and the
// occasional debug trace; fatal setup errors go through internal/shellerr. It
// wraps log/slog behind a package-level default writer and a handful of
// leveled helpers instead of using slog's handler API directly.
package shlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultWriter io.Writer = os.Stderr

// SetOutput redirects all shlog output; used by tests to capture it.
func SetOutput(w io.Writer) {
	defaultWriter = w
}

func Println(args ...interface{}) {
	fmt.Fprintln(defaultWriter, args...)
}

func Printf(format string, args ...interface{}) {
	fmt.Fprintf(defaultWriter, format, args...)
}

// Log writes one leveled line: "LEVEL message", with the level name
// padded to a fixed column.
func Log(level slog.Level, args ...interface{}) {
	strLevel := level.String()
	if pad := 5 - len(strLevel); pad > 0 {
		strLevel += strings.Repeat(" ", pad)
	}
	fmt.Fprintln(defaultWriter, strLevel, fmt.Sprint(args...))
}

func Debug(args ...interface{}) { Log(slog.LevelDebug, args...) }
func Info(args ...interface{})  { Log(slog.LevelInfo, args...) }
func Warn(args ...interface{})  { Log(slog.LevelWarn, args...) }
func Error(args ...interface{}) { Log(slog.LevelError, args...) }
