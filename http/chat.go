package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/patternpress/patternpress"
)

// Stream framing constants for the chat provider's SSE responses.
const (
	dataPrefix   = "data:"
	doneSentinel = "[DONE]"
)

// DefaultMaxTokens is the max-output-size hint sent to the provider.
const DefaultMaxTokens = 1024

// Ensure ChatClient implements patternpress.Completer at compile time.
var _ patternpress.Completer = (*ChatClient)(nil)

// ChatClient streams chat completions from an OpenAI-compatible
// provider. The client deliberately carries no request timeout; an
// in-flight stream runs to completion or failure.
type ChatClient struct {
	// BaseURL of the provider API, e.g. "https://openrouter.ai/api/v1".
	BaseURL string

	Model     string
	MaxTokens int

	client *http.Client
}

// NewChatClient creates a new ChatClient.
func NewChatClient(baseURL, model string) *ChatClient {
	return &ChatClient{
		BaseURL:   strings.TrimSuffix(baseURL, "/"),
		Model:     model,
		MaxTokens: DefaultMaxTokens,
		client:    &http.Client{},
	}
}

type completionRequest struct {
	Model     string                     `json:"model"`
	Messages  []patternpress.ChatMessage `json:"messages"`
	Stream    bool                       `json:"stream"`
	MaxTokens int                        `json:"max_tokens"`
}

// streamFrame is one decoded data frame. The content delta lives at
// choices[0].delta.content.
type streamFrame struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Complete issues a streaming completion request and forwards content
// deltas to onDelta in arrival order. Authentication failures return
// EUNAUTHORIZED; other failures return EINTERNAL with the provider's
// detail.
func (c *ChatClient) Complete(ctx context.Context, credential string, messages []patternpress.ChatMessage, onDelta patternpress.DeltaFunc) error {
	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	body, err := json.Marshal(completionRequest{
		Model:     c.Model,
		Messages:  messages,
		Stream:    true,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return patternpress.Errorf(patternpress.EINTERNAL, "chat request failed: %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return patternpress.Errorf(patternpress.EUNAUTHORIZED, "chat provider rejected the credential (HTTP %d)", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return patternpress.Errorf(patternpress.EINTERNAL, "chat provider returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	return ConsumeStream(resp.Body, onDelta)
}

func (c *ChatClient) httpClient() *http.Client {
	if c.client != nil {
		return c.client
	}
	return http.DefaultClient
}

// ConsumeStream reads an SSE response body and forwards content deltas
// in arrival order. Lines split across network chunks are buffered until
// complete; malformed data frames are skipped without aborting the
// stream. The stream ends at the [DONE] sentinel or EOF.
func ConsumeStream(r io.Reader, onDelta patternpress.DeltaFunc) error {
	reader := bufio.NewReader(r)

	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			if done := handleStreamLine(line, onDelta); done {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return patternpress.Errorf(patternpress.EINTERNAL, "stream read failed: %v", err)
		}
	}
}

// handleStreamLine processes one complete stream line. It reports
// whether the end-of-stream sentinel was seen.
func handleStreamLine(line string, onDelta patternpress.DeltaFunc) bool {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, dataPrefix) {
		// Blank frame separators and unknown fields are ignored.
		return false
	}

	payload := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
	if payload == doneSentinel {
		return true
	}

	var frame streamFrame
	if err := json.Unmarshal([]byte(payload), &frame); err != nil {
		// One bad frame must not abort the stream.
		return false
	}
	if len(frame.Choices) > 0 {
		if delta := frame.Choices[0].Delta.Content; delta != "" {
			onDelta(delta)
		}
	}
	return false
}
