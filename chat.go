package patternpress

import "context"

// Chat transcript roles. RoleSystem only appears on the wire; the
// transcript itself holds user and assistant entries.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one transcript entry. The content of the most recent
// assistant entry grows incrementally while a response streams; it is
// owned exclusively by the transcript holder.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// IndexLoader loads the pattern index artifact.
type IndexLoader interface {
	Load(ctx context.Context) ([]IndexEntry, error)
}

// ContentFetcher retrieves the primary content of a rendered pattern
// page as markdown text, truncated to the fetcher's character cap.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// DeltaFunc receives incremental content deltas in arrival order.
type DeltaFunc func(delta string)

// Completer streams a chat completion for the given messages, invoking
// onDelta once per received content delta. It returns EUNAUTHORIZED when
// the provider rejects the credential.
type Completer interface {
	Complete(ctx context.Context, credential string, messages []ChatMessage, onDelta DeltaFunc) error
}

// CredentialStore owns the chat provider credential. The credential is
// written only by explicit save and clear actions and read on every
// request. Get returns ENOTFOUND when no credential has been saved.
type CredentialStore interface {
	Get() (string, error)
	Set(credential string) error
	Delete() error
}
