//go:build windows

package cli

import (
	"os"

	"golang.org/x/sys/windows"
)

// readPasswordNoEcho disables console echo for one line. Redirected stdin
// is read as is.
func readPasswordNoEcho(stdin *os.File) ([]byte, error) {
	if stdin == nil {
		return nil, errNoTerminal
	}

	console := windows.Handle(stdin.Fd())
	var saved uint32
	if err := windows.GetConsoleMode(console, &saved); err != nil {
		return readSecretLine(stdin)
	}
	if err := windows.SetConsoleMode(console, saved&^windows.ENABLE_ECHO_INPUT); err != nil {
		return nil, err
	}
	defer windows.SetConsoleMode(console, saved) //nolint:errcheck

	return readSecretLine(stdin)
}
