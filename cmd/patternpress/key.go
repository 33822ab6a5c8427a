package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/patternpress/patternpress"
)

// Run executes the "key set" command.
func (c *KeySetCmd) Run(deps *Dependencies) error {
	key, err := deps.ReadKey()
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}

	if err := deps.Credentials.Set(strings.TrimSpace(key)); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", patternpress.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, "API key saved to the OS keychain.")
	return nil
}

// Run executes the "key clear" command.
func (c *KeyClearCmd) Run(deps *Dependencies) error {
	if err := deps.Credentials.Delete(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", patternpress.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, "API key removed.")
	return nil
}

// promptKey reads the API key from the terminal without echoing it.
func promptKey() (string, error) {
	fmt.Fprint(os.Stderr, "API key: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
