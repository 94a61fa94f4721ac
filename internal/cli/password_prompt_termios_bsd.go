//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import "golang.org/x/sys/unix"

var echoIoctls = termiosIoctls{get: unix.TIOCGETA, set: unix.TIOCSETA}
