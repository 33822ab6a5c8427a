package main

import (
	"context"
	"io"

	"github.com/patternpress/patternpress"
	"github.com/patternpress/patternpress/chat"
	"github.com/patternpress/patternpress/toml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	Config      *toml.Config
	Index       patternpress.IndexLoader
	Credentials patternpress.CredentialStore
	Session     *chat.Session

	// ReadKey reads the API key during "key set". Defaults to a hidden
	// terminal prompt; tests override it.
	ReadKey func() (string, error)

	// RunChat starts the interactive chat interface. Defaults to the
	// bubbletea program; tests override it.
	RunChat func(*chat.Session) error
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `short:"c" default:"patternpress.toml" help:"Path to the config file"`

	Build  BuildCmd  `cmd:"" help:"Compile the pattern corpus into the site content tree and index"`
	Search SearchCmd `cmd:"" help:"Search the pattern index from the command line"`
	Chat   ChatCmd   `cmd:"" help:"Chat with the pattern library"`
	Key    KeyCmd    `cmd:"" help:"Manage the chat provider API key"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct{}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query []string `arg:"" help:"Search terms"`
	Top   int      `short:"n" default:"5" help:"Maximum number of results"`
}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct{}

// KeyCmd groups credential management subcommands.
type KeyCmd struct {
	Set   KeySetCmd   `cmd:"" help:"Save the chat provider API key to the OS keychain"`
	Clear KeyClearCmd `cmd:"" help:"Remove the saved API key"`
}

// KeySetCmd is the "key set" subcommand.
type KeySetCmd struct{}

// KeyClearCmd is the "key clear" subcommand.
type KeyClearCmd struct{}
