package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/patternpress/patternpress"
	"github.com/patternpress/patternpress/chat"
	pphttp "github.com/patternpress/patternpress/http"
	"github.com/patternpress/patternpress/keyring"
	"github.com/patternpress/patternpress/site"
	"github.com/patternpress/patternpress/toml"
	"github.com/patternpress/patternpress/tui"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. When nil, Run wires the real
	// implementations from the config file.
	Index       patternpress.IndexLoader
	Credentials patternpress.CredentialStore
	ReadKey     func() (string, error)
	RunChat     func(*chat.Session) error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("patternpress"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'patternpress --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// The resolved command, not the raw arguments: "-c foo.toml chat" and
	// "chat" select the same services. Kong reports subcommand paths like
	// "key set" and argument placeholders like "search <query>"; the
	// leading word identifies the command group.
	cmd, _, _ := strings.Cut(kongCtx.Command(), " ")

	cfg, err := toml.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("failed to load config %q: %w", cli.Config, err)
	}
	deps.Config = &cfg

	// Only "chat" and "key" touch the OS keychain.
	if cmd == "chat" || cmd == "key" {
		deps.Credentials = m.Credentials
		if deps.Credentials == nil {
			store, err := keyring.NewStore()
			if err != nil {
				fmt.Fprintln(stderr, "Hint: no OS keychain available on this system")
				return fmt.Errorf("failed to open keychain: %w", err)
			}
			deps.Credentials = store
		}

		deps.ReadKey = m.ReadKey
		if deps.ReadKey == nil {
			deps.ReadKey = promptKey
		}
	}

	if cmd == "search" {
		deps.Index = m.Index
		if deps.Index == nil {
			deps.Index = &site.IndexFile{Path: cfg.IndexPath}
		}
	}

	if cmd == "chat" {
		deps.Index = m.Index
		if deps.Index == nil {
			deps.Index = &pphttp.IndexClient{URL: cfg.ResolvedIndexURL()}
		}
		deps.Session = &chat.Session{
			Index: deps.Index,
			Content: &pphttp.ContentClient{
				BaseURL: cfg.SiteURL,
				CharCap: cfg.ContextCharCap,
			},
			Completer: &pphttp.ChatClient{
				BaseURL:   cfg.ChatURL,
				Model:     cfg.Model,
				MaxTokens: cfg.MaxTokens,
			},
			Credentials: deps.Credentials,
			TopK:        cfg.TopK,
			ContextDocs: cfg.ContextDocs,
		}
		deps.RunChat = m.RunChat
		if deps.RunChat == nil {
			deps.RunChat = runChatProgram
		}
	}

	return kongCtx.Run(deps)
}

func runChatProgram(session *chat.Session) error {
	p := tea.NewProgram(tui.New(session), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
