package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/ekklesia/internal/db"
	"github.com/terraincognita07/ekklesia/internal/security"
	"github.com/terraincognita07/ekklesia/internal/services"
	"gorm.io/gorm"
)

const temporaryPasswordLength = 12

// PasswordReader reads one secret line after showing prompt.
type PasswordReader func(prompt string) ([]byte, error)

type ResetPasswordOptions struct {
	// ReadPassword, when set, asks the operator for the new password
	// instead of generating a temporary one.
	ReadPassword PasswordReader
	Out          io.Writer
}

// RunResetPasswordCommand replaces the password of username. Tokens issued
// before the reset stop working.
func RunResetPasswordCommand(ctx context.Context, database *gorm.DB, username string, options ResetPasswordOptions) error {
	out := options.Out
	if out == nil {
		out = os.Stdout
	}

	password, generated, err := choosePassword(options.ReadPassword)
	if err != nil {
		return err
	}

	users := services.NewUserService(db.NewUserRepository(database))
	if err := users.ResetPassword(ctx, username, password); err != nil {
		if services.ErrorKind(err) == services.KindNotFound {
			return fmt.Errorf("user %q not found", username)
		}
		return fmt.Errorf("reset password: %w", err)
	}

	fmt.Fprintln(out, "Password reset successful")
	if generated {
		fmt.Fprintf(out, "Temporary password: %s\n", password)
		fmt.Fprintln(out, "Share it over a private channel; existing sessions were signed out.")
	}
	return nil
}

func choosePassword(read PasswordReader) (string, bool, error) {
	if read == nil {
		password, err := security.TemporaryPassword(temporaryPasswordLength)
		if err != nil {
			return "", false, fmt.Errorf("generate temporary password: %w", err)
		}
		return password, true, nil
	}

	first, err := read("New password: ")
	if err != nil {
		return "", false, fmt.Errorf("read password: %w", err)
	}
	second, err := read("Repeat password: ")
	if err != nil {
		return "", false, fmt.Errorf("read password: %w", err)
	}
	if !bytes.Equal(first, second) {
		return "", false, errors.New("passwords do not match")
	}
	if err := services.ValidatePasswordStrength(string(first)); err != nil {
		return "", false, err
	}
	return string(first), false, nil
}

// TerminalPasswordReader prompts on prompts and reads from stdin with echo
// disabled.
func TerminalPasswordReader(stdin *os.File, prompts io.Writer) PasswordReader {
	return func(prompt string) ([]byte, error) {
		fmt.Fprint(prompts, prompt)
		password, err := readPasswordNoEcho(stdin)
		fmt.Fprintln(prompts)
		return password, err
	}
}
