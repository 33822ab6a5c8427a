// Package toml loads patternpress configuration from an optional TOML
// file. Every setting has a usable default, so the configuration file
// and all command-line arguments are optional.
package toml

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultPath is the configuration file looked up when no explicit path
// is given.
const DefaultPath = "patternpress.toml"

// Config holds build and runtime settings.
type Config struct {
	// Build pipeline roots.
	CorpusDir string `toml:"corpus_dir"`
	OutputDir string `toml:"output_dir"`
	IndexPath string `toml:"index_path"`

	// Runtime endpoints. IndexURL defaults to SiteURL + "/pattern-index.json".
	SiteURL  string `toml:"site_url"`
	IndexURL string `toml:"index_url"`

	// Chat provider settings.
	ChatURL   string `toml:"chat_url"`
	Model     string `toml:"model"`
	MaxTokens int    `toml:"max_tokens"`

	// Retrieval settings.
	TopK           int `toml:"top_k"`
	ContextDocs    int `toml:"context_docs"`
	ContextCharCap int `toml:"context_char_cap"`

	// Extras are one-off documents emitted alongside the corpus.
	Extras []Extra `toml:"extras"`
}

// Extra configures a one-off document transform, declared as an
// [[extras]] table.
type Extra struct {
	Source      string `toml:"source"`
	Dest        string `toml:"dest"`
	Title       string `toml:"title"`
	Description string `toml:"description"`

	// Category used to resolve relative links in the document.
	Category string `toml:"category"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		CorpusDir:      "patterns",
		OutputDir:      "site/src/content/docs/patterns",
		IndexPath:      "site/public/pattern-index.json",
		SiteURL:        "http://localhost:4321",
		ChatURL:        "https://openrouter.ai/api/v1",
		Model:          "openai/gpt-4o-mini",
		MaxTokens:      1024,
		TopK:           5,
		ContextDocs:    3,
		ContextCharCap: 8000,
	}
}

// Load reads the file at path, if it exists, and overlays it on the
// defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ResolvedIndexURL returns the explicit index URL, or one derived from
// the site origin.
func (c Config) ResolvedIndexURL() string {
	if c.IndexURL != "" {
		return c.IndexURL
	}
	return c.SiteURL + "/pattern-index.json"
}
