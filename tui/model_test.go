package tui_test

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patternpress/patternpress"
	"github.com/patternpress/patternpress/chat"
	"github.com/patternpress/patternpress/mock"
	"github.com/patternpress/patternpress/tui"
)

func newTestSession(key string) *chat.Session {
	stored := key
	return &chat.Session{
		Index: &mock.IndexLoader{
			LoadFn: func(ctx context.Context) ([]patternpress.IndexEntry, error) {
				return []patternpress.IndexEntry{
					{Title: "Gateway Hardening", Category: "security", Slug: "gateway-hardening", URL: "/patterns/security/gateway-hardening/"},
				}, nil
			},
		},
		Content: &mock.ContentFetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "content", nil
			},
		},
		Completer: &mock.Completer{
			CompleteFn: func(ctx context.Context, apiKey string, messages []patternpress.ChatMessage, onDelta patternpress.DeltaFunc) error {
				onDelta("answer")
				return nil
			},
		},
		Credentials: &mock.CredentialStore{
			GetFn: func() (string, error) {
				if stored == "" {
					return "", patternpress.Errorf(patternpress.ENOTFOUND, "no credential saved")
				}
				return stored, nil
			},
			SetFn:    func(value string) error { stored = value; return nil },
			DeleteFn: func() error { stored = ""; return nil },
		},
	}
}

func TestModel_CredentialEntry(t *testing.T) {
	t.Parallel()

	session := newTestSession("")
	m := tui.New(session)
	require.Equal(t, chat.StateNoCredential, session.State())

	// The key prompt should mention where the credential goes.
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	view := updated.View()
	assert.Contains(t, view, "keychain")

	// Typing a key and pressing enter saves it and switches to idle.
	model := updated.(tui.Model)
	for _, r := range "sk-test" {
		next, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		model = next.(tui.Model)
	}
	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = next.(tui.Model)

	assert.Equal(t, chat.StateIdle, session.State())
	assert.NotContains(t, model.View(), "keychain")
}

func TestModel_ViewShowsState(t *testing.T) {
	t.Parallel()

	session := newTestSession("sk-test")
	m := tui.New(session)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	view := updated.View()
	assert.Contains(t, view, "patternpress chat")
	assert.Contains(t, view, "idle")
	assert.True(t, strings.Contains(view, "ctrl+k"))
}

func TestModel_EmptySubmitIsNoop(t *testing.T) {
	t.Parallel()

	session := newTestSession("sk-test")
	m := tui.New(session)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model := next.(tui.Model)

	next, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, chat.StateIdle, session.State())
	assert.NotContains(t, next.View(), "You:")
}
