package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// passphrase resolves the sender-key passphrase: the configured value wins;
// otherwise the user is prompted when running interactively. Non-interactive
// runs with no configured passphrase get nil, which only works for
// unprotected keys.
func (a *App) passphrase() ([]byte, error) {
	if a.cfg.KeyPassphrase != "" {
		return []byte(a.cfg.KeyPassphrase), nil
	}
	if !isTerminal(int(os.Stdin.Fd())) {
		return nil, nil
	}
	return GetPassword(os.Stdout)
}

// GetPassword prints a prompt to w and reads a passphrase from the user's
// terminal without echo. The returned byte slice should be wiped by the
// caller when no longer needed.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter key passphrase: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
