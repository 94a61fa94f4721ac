//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"os"

	"golang.org/x/sys/unix"
)

// termiosIoctls holds the platform requests that read and write terminal
// attributes.
type termiosIoctls struct {
	get uint
	set uint
}

// readPasswordNoEcho turns terminal echo off for one line. Non-terminal
// stdin, such as a pipe, is read as is.
func readPasswordNoEcho(stdin *os.File) ([]byte, error) {
	if stdin == nil {
		return nil, errNoTerminal
	}

	fd := int(stdin.Fd())
	saved, err := unix.IoctlGetTermios(fd, echoIoctls.get)
	if err != nil {
		return readSecretLine(stdin)
	}
	silent := *saved
	silent.Lflag &^= unix.ECHO
	if err := unix.IoctlSetTermios(fd, echoIoctls.set, &silent); err != nil {
		return nil, err
	}
	defer unix.IoctlSetTermios(fd, echoIoctls.set, saved) //nolint:errcheck

	return readSecretLine(stdin)
}
