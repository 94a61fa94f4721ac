package cli

import (
	"bytes"
	"errors"
	"io"
)

var errNoTerminal = errors.New("stdin unavailable")

// readSecretLine reads up to the first newline one byte at a time, so the
// next prompt on the same stream still sees its own line. A final line
// without a newline is accepted for piped input.
func readSecretLine(source io.Reader) ([]byte, error) {
	var line []byte
	single := make([]byte, 1)
	for {
		count, err := source.Read(single)
		if count == 1 {
			if single[0] == '\n' {
				break
			}
			line = append(line, single[0])
		}
		if errors.Is(err, io.EOF) {
			if len(line) == 0 {
				return nil, io.ErrUnexpectedEOF
			}
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return bytes.TrimRight(line, "\r"), nil
}
