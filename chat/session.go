// Package chat orchestrates retrieval-grounded chat requests: scoring
// the pattern index against a question, fetching context for the top
// matches, assembling the grounding prompt, and streaming the
// completion.
package chat

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/patternpress/patternpress"
)

// State identifies where the session is in its request lifecycle.
type State int

// Session states.
const (
	StateNoCredential State = iota
	StateIdle
	StateScoring
	StateFetchingContext
	StateStreaming
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNoCredential:
		return "no-credential"
	case StateIdle:
		return "idle"
	case StateScoring:
		return "scoring"
	case StateFetchingContext:
		return "fetching-context"
	case StateStreaming:
		return "streaming"
	case StateError:
		return "error"
	}
	return "unknown"
}

// DefaultContextDocs is the number of top-scored entries whose content
// is fetched for the grounding prompt.
const DefaultContextDocs = 3

// NoMatchReply is the assistant message used when a query scores zero
// index entries. The provider is never called in that case.
const NoMatchReply = "I couldn't find anything relevant in the pattern library for that question. Try rephrasing it, or browse the categories directly."

// Session coordinates one retrieval-grounded conversation. A single
// request is in flight at a time: Ask returns an EINVALID error when
// called while a previous request is still running. There is no
// cancellation of an in-flight request beyond the caller's context.
type Session struct {
	Index       patternpress.IndexLoader
	Content     patternpress.ContentFetcher
	Completer   patternpress.Completer
	Credentials patternpress.CredentialStore
	Logger      *slog.Logger

	// TopK bounds the scored candidates; ContextDocs bounds how many of
	// them are fetched. Zero values use the defaults.
	TopK        int
	ContextDocs int

	mu    sync.Mutex
	state State
	index indexCell
}

// Init resolves the starting state from the credential store and
// returns it.
func (s *Session) Init() State {
	if _, err := s.Credentials.Get(); err != nil {
		s.setState(StateNoCredential)
	} else {
		s.setState(StateIdle)
	}
	return s.State()
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// SaveCredential persists the credential and moves the session to Idle.
// No validation call is made; validity is discovered on the first real
// request.
func (s *Session) SaveCredential(credential string) error {
	if err := s.Credentials.Set(credential); err != nil {
		return err
	}
	s.setState(StateIdle)
	return nil
}

// ClearCredential deletes the stored credential. The caller owns the
// transcript and is expected to reset it alongside.
func (s *Session) ClearCredential() error {
	if err := s.Credentials.Delete(); err != nil {
		return err
	}
	s.setState(StateNoCredential)
	return nil
}

// AckError returns the session to Idle once an error has been surfaced
// to the user.
func (s *Session) AckError() {
	s.mu.Lock()
	if s.state == StateError {
		s.state = StateIdle
	}
	s.mu.Unlock()
}

// InvalidateIndex drops the memoized pattern index so the next request
// reloads it.
func (s *Session) InvalidateIndex() {
	s.index.invalidate()
}

// Ask runs one full retrieval-grounded request for question, forwarding
// response deltas to onDelta in arrival order. On failure the session
// moves to StateError until AckError is called.
func (s *Session) Ask(ctx context.Context, question string, onDelta patternpress.DeltaFunc) error {
	s.mu.Lock()
	switch s.state {
	case StateNoCredential:
		s.mu.Unlock()
		return patternpress.Errorf(patternpress.EUNAUTHORIZED, "no credential saved")
	case StateScoring, StateFetchingContext, StateStreaming:
		s.mu.Unlock()
		return patternpress.Errorf(patternpress.EINVALID, "a request is already in flight")
	}
	s.state = StateScoring
	s.mu.Unlock()

	if err := s.ask(ctx, question, onDelta); err != nil {
		s.setState(StateError)
		return err
	}
	s.setState(StateIdle)
	return nil
}

func (s *Session) ask(ctx context.Context, question string, onDelta patternpress.DeltaFunc) error {
	// The credential is read on every request, never cached.
	credential, err := s.Credentials.Get()
	if err != nil {
		return err
	}

	entries, err := s.index.load(ctx, s.Index)
	if err != nil {
		return err
	}

	k := s.TopK
	if k <= 0 {
		k = patternpress.DefaultTopK
	}
	ranked := patternpress.RankEntries(question, entries, k)
	if len(ranked) == 0 {
		onDelta(NoMatchReply)
		return nil
	}

	s.setState(StateFetchingContext)
	docs, err := s.fetchContext(ctx, ranked)
	if err != nil {
		return err
	}

	prompt := patternpress.BuildGroundingPrompt(docs, question)
	messages := []patternpress.ChatMessage{
		{Role: patternpress.RoleSystem, Content: patternpress.SystemInstruction},
		{Role: patternpress.RoleUser, Content: prompt},
	}

	s.setState(StateStreaming)
	return s.Completer.Complete(ctx, credential, messages, onDelta)
}

// fetchContext fans out content fetches for the top entries with bounded
// concurrency and waits for all of them to settle. Individual failures
// degrade to a smaller prompt; only losing every document is an error.
// Results keep score order regardless of fetch completion order.
func (s *Session) fetchContext(ctx context.Context, ranked []patternpress.ScoredEntry) ([]patternpress.RetrievedDoc, error) {
	n := s.ContextDocs
	if n <= 0 {
		n = DefaultContextDocs
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	top := ranked[:n]

	docs := make([]*patternpress.RetrievedDoc, len(top))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultContextDocs)
	for i, scored := range top {
		g.Go(func() error {
			content, err := s.Content.Fetch(gctx, scored.Entry.URL)
			if err != nil {
				s.logger().Warn("context fetch failed",
					"url", scored.Entry.URL,
					"error", err,
				)
				return nil
			}
			docs[i] = &patternpress.RetrievedDoc{
				Title:   scored.Entry.Title,
				URL:     scored.Entry.URL,
				Content: content,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := make([]patternpress.RetrievedDoc, 0, len(docs))
	for _, doc := range docs {
		if doc != nil {
			result = append(result, *doc)
		}
	}
	if len(result) == 0 {
		return nil, patternpress.Errorf(patternpress.EINTERNAL, "could not fetch content for any matching pattern")
	}
	return result, nil
}

func (s *Session) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Notice renders err as a user-facing message, distinguishing credential
// failures from everything else.
func Notice(err error) string {
	if patternpress.ErrorCode(err) == patternpress.EUNAUTHORIZED {
		return "Your API key was rejected by the chat provider. Clear it and save a new one."
	}
	return "Something went wrong: " + patternpress.ErrorMessage(err)
}

// indexCell memoizes the loaded pattern index. It is initialized on
// first use and lives until the session is torn down or invalidated;
// after loading, the entries are read-only shared state.
type indexCell struct {
	mu      sync.Mutex
	loaded  bool
	entries []patternpress.IndexEntry
}

func (c *indexCell) load(ctx context.Context, loader patternpress.IndexLoader) ([]patternpress.IndexEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.entries, nil
	}
	entries, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.entries = entries
	c.loaded = true
	return entries, nil
}

func (c *indexCell) invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.entries = nil
	c.mu.Unlock()
}
