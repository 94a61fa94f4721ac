package cli

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadSecretLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "unix newline", input: "Secret1Pass\nrest", want: "Secret1Pass"},
		{name: "windows newline", input: "Secret1Pass\r\n", want: "Secret1Pass"},
		{name: "no trailing newline", input: "Secret1Pass", want: "Secret1Pass"},
	}
	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := readSecretLine(strings.NewReader(testCase.input))
			if err != nil {
				t.Fatalf("readSecretLine: %v", err)
			}
			if string(got) != testCase.want {
				t.Fatalf("readSecretLine = %q, want %q", got, testCase.want)
			}
		})
	}

	source := strings.NewReader("First1Pass\nSecond1Pass\n")
	first, _ := readSecretLine(source)
	second, _ := readSecretLine(source)
	if string(first) != "First1Pass" || string(second) != "Second1Pass" {
		t.Fatalf("expected consecutive lines, got %q and %q", first, second)
	}

	if _, err := readSecretLine(strings.NewReader("")); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF on empty input, got %v", err)
	}
}

func TestReadPasswordNoEchoFromRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdin")
	if err := os.WriteFile(path, []byte("Piped1Pass\n"), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open input: %v", err)
	}
	defer file.Close()

	got, err := readPasswordNoEcho(file)
	if err != nil {
		t.Fatalf("readPasswordNoEcho: %v", err)
	}
	if string(got) != "Piped1Pass" {
		t.Fatalf("readPasswordNoEcho = %q", got)
	}

	if _, err := readPasswordNoEcho(nil); !errors.Is(err, errNoTerminal) {
		t.Fatalf("expected errNoTerminal for nil stdin, got %v", err)
	}
}
