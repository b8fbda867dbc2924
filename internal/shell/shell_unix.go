//go:build linux

package shell

import (
	"os"
	"os/signal"
)

func ignoreSignal(sig os.Signal) {
	signal.Ignore(sig)
}
