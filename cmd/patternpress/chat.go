package main

import (
	"fmt"

	"github.com/patternpress/patternpress"
)

// Run executes the chat command.
func (c *ChatCmd) Run(deps *Dependencies) error {
	if err := deps.RunChat(deps.Session); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", patternpress.ErrorMessage(err))
		return err
	}
	return nil
}
