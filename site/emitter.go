// Package site compiles the pattern corpus into per-document site
// sources and the pattern index artifact.
package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/patternpress/patternpress"
)

// Extra describes a one-off top-level document transform: the same link
// rewrite as pattern documents, with its own frontmatter and output
// target.
type Extra struct {
	Source      string
	Dest        string
	Title       string
	Description string

	// Category used to resolve relative links in the document.
	Category patternpress.Category
}

// Emitter orchestrates the whole corpus in one pass: it clears
// previously generated output, writes per-document transformed files
// with injected metadata headers, and serializes the pattern index.
//
// The pipeline is a pure function of the corpus on disk. Rerunning it
// against an unchanged corpus reproduces byte-identical output.
type Emitter struct {
	// CorpusDir is the corpus root, one subdirectory per category.
	CorpusDir string

	// OutputDir receives the transformed documents, one subdirectory
	// per category. It is deleted and recreated on every run.
	OutputDir string

	// IndexPath is the file the pattern index artifact is written to.
	IndexPath string

	// Extras are one-off top-level transforms applied after the corpus.
	Extras []Extra

	Logger *slog.Logger
}

// Result summarizes a build.
type Result struct {
	Emitted int
	Skipped int
}

// Build runs the full pipeline. A document that fails to parse is
// skipped with a warning; only a missing corpus root or a filesystem
// failure aborts the run.
func (e *Emitter) Build(ctx context.Context) (*Result, error) {
	if _, err := os.Stat(e.CorpusDir); err != nil {
		return nil, patternpress.Errorf(patternpress.ENOTFOUND, "corpus directory %q not found", e.CorpusDir)
	}

	if err := os.RemoveAll(e.OutputDir); err != nil {
		return nil, fmt.Errorf("clear output directory: %w", err)
	}
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return nil, err
	}

	var result Result
	entries := make([]patternpress.IndexEntry, 0)
	seen := make(map[string]bool)

	for _, category := range patternpress.Categories() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		files, err := e.corpusFiles(category)
		if err != nil {
			return nil, err
		}

		for _, src := range files {
			pattern, err := e.emitDocument(src, category, seen)
			if err != nil {
				return nil, err
			}
			if pattern == nil {
				result.Skipped++
				continue
			}
			entries = append(entries, patternpress.EntryFromPattern(pattern))
			result.Emitted++
		}
	}

	for _, extra := range e.Extras {
		if err := e.emitExtra(extra); err != nil {
			return nil, err
		}
	}

	if err := e.writeIndex(entries); err != nil {
		return nil, err
	}

	return &result, nil
}

// corpusFiles returns the markdown files for a category in sorted order.
// Deterministic ordering keeps rebuilds byte-identical. A category with
// no directory simply has no documents yet.
func (e *Emitter) corpusFiles(category patternpress.Category) ([]string, error) {
	dir := filepath.Join(e.CorpusDir, string(category))
	dirEntries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var files []string
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".md") {
			continue
		}
		files = append(files, filepath.Join(dir, de.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// emitDocument transforms one corpus document. A nil pattern with a nil
// error means the document was skipped.
func (e *Emitter) emitDocument(src string, category patternpress.Category, seen map[string]bool) (*patternpress.Pattern, error) {
	raw, err := os.ReadFile(src)
	if err != nil {
		return nil, err
	}

	pattern := patternpress.ParseDocument(string(raw), category, src)
	if pattern == nil {
		e.logger().Warn("skipping document without title", "path", src)
		return nil, nil
	}
	if err := pattern.Validate(); err != nil {
		e.logger().Warn("skipping invalid document",
			"path", src,
			"error", patternpress.ErrorMessage(err),
		)
		return nil, nil
	}

	route := string(pattern.Category) + "/" + pattern.Slug
	if seen[route] {
		return nil, patternpress.Errorf(patternpress.ECONFLICT, "duplicate pattern route %q (source %s)", route, src)
	}
	seen[route] = true

	body := patternpress.StripTitleLine(string(raw))
	body = patternpress.RewriteLinks(body, pattern.Category)

	outPath := filepath.Join(e.OutputDir, string(pattern.Category), pattern.Slug+".md")
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(outPath, []byte(FormatDocument(pattern, body)), 0644); err != nil {
		return nil, err
	}

	return pattern, nil
}

func (e *Emitter) emitExtra(extra Extra) error {
	raw, err := os.ReadFile(extra.Source)
	if err != nil {
		return fmt.Errorf("read extra document %q: %w", extra.Source, err)
	}

	body := patternpress.StripTitleLine(string(raw))
	body = patternpress.RewriteLinks(body, extra.Category)

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %s\n", quote(extra.Title))
	fmt.Fprintf(&b, "description: %s\n", quote(extra.Description))
	b.WriteString("---\n\n")
	b.WriteString(strings.TrimLeft(body, "\n"))

	if err := os.MkdirAll(filepath.Dir(extra.Dest), 0755); err != nil {
		return err
	}
	return os.WriteFile(extra.Dest, []byte(b.String()), 0644)
}

// writeIndex serializes the index entries as a single JSON array. The
// artifact is the sole contract between build time and runtime.
func (e *Emitter) writeIndex(entries []patternpress.IndexEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(e.IndexPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(e.IndexPath, append(data, '\n'), 0644)
}

func (e *Emitter) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// FormatDocument renders a pattern with its generated metadata header.
// The header keys are emitted in fixed order; the nested badge block is
// derived from the pattern status.
func FormatDocument(p *patternpress.Pattern, body string) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %s\n", quote(p.Title))
	fmt.Fprintf(&b, "description: %s\n", quote(p.Description))
	fmt.Fprintf(&b, "category: %s\n", p.Category)
	fmt.Fprintf(&b, "status: %s\n", p.Status)
	fmt.Fprintf(&b, "version: %s\n", quote(p.Version))
	fmt.Fprintf(&b, "lastValidated: %s\n", quote(p.LastValidated))
	b.WriteString("sidebar:\n")
	b.WriteString("  badge:\n")
	fmt.Fprintf(&b, "    text: %s\n", p.Status)
	fmt.Fprintf(&b, "    variant: %s\n", p.Status.BadgeVariant())
	b.WriteString("---\n\n")
	b.WriteString(strings.TrimLeft(body, "\n"))
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
