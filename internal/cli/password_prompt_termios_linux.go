//go:build linux

package cli

import "golang.org/x/sys/unix"

var echoIoctls = termiosIoctls{get: unix.TCGETS, set: unix.TCSETS}
