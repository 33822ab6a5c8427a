package patternpress

import (
	"path/filepath"
	"strings"
)

// titleMarker is the lead-in for the document title line.
const titleMarker = "# "

// descriptionCap limits the derived description length.
const descriptionCap = 200

// ParseDocument extracts a pattern metadata record from one raw corpus
// document. The returned record is nil when the document has no
// recognizable title line; that is a skip signal, not a fatal condition.
// Every other field is independently optional and falls back to its
// documented default, so malformed input never produces an error.
//
// The category argument is the directory-derived default; a recognized
// `Category:` metadata value overrides it, an unrecognized one is
// ignored.
func ParseDocument(raw string, category Category, sourcePath string) *Pattern {
	lines := strings.Split(raw, "\n")

	title := extractTitle(lines)
	if title == "" {
		return nil
	}

	p := &Pattern{
		Title:         title,
		Category:      category,
		Status:        StatusTested,
		Version:       DefaultVersion,
		LastValidated: DefaultLastValidated,
		Slug:          SlugFromPath(sourcePath),
		SourcePath:    sourcePath,
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, ">") {
			parseMetadataLine(trimmed, p)
		}
	}

	p.ProblemStatement = extractProblemStatement(lines)
	p.Description = deriveDescription(p.ProblemStatement)

	return p
}

// SlugFromPath derives a pattern slug from the document's file name.
func SlugFromPath(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// StripTitleLine removes the first title line from a document body. The
// site renderer derives its own heading from metadata, so the duplicate
// is dropped before emission.
func StripTitleLine(raw string) string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, titleMarker) {
			return strings.Join(append(lines[:i:i], lines[i+1:]...), "\n")
		}
	}
	return raw
}

func extractTitle(lines []string) string {
	for _, line := range lines {
		if strings.HasPrefix(line, titleMarker) {
			return strings.TrimSpace(strings.TrimPrefix(line, titleMarker))
		}
	}
	return ""
}

// parseMetadataLine scans one blockquote line for labeled fields.
// Fields are separated by "|", labels are matched case-insensitively,
// and bold markers around labels are ignored. Field order is
// irrelevant; unrecognized labels are skipped.
func parseMetadataLine(line string, p *Pattern) {
	line = strings.TrimSpace(strings.TrimPrefix(line, ">"))
	line = strings.ReplaceAll(line, "**", "")

	for _, segment := range strings.Split(line, "|") {
		label, value, ok := strings.Cut(segment, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch strings.ToLower(strings.TrimSpace(label)) {
		case "category":
			if c, ok := ParseCategory(value); ok {
				p.Category = c
			}
		case "status":
			p.Status = ParseStatus(value)
		case "version":
			p.Version = value
		case "last validated":
			p.LastValidated = value
		case "layer on top of", "layers on top of":
			p.LayerOnTopOf = value
		case "known issues":
			p.KnownIssues = value
		case "see also":
			p.SeeAlso = value
		}
	}
}

// extractProblemStatement collects the first paragraph following a
// "Problem" heading. Non-blank lines are joined with single spaces.
// Accumulation stops at the next heading, or at the first blank line
// after content has started; leading blank lines do not terminate it.
func extractProblemStatement(lines []string) string {
	var parts []string
	inProblem := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !inProblem {
			// Section headings only; a level-1 title that happens to
			// mention "problem" does not start a problem section.
			if strings.HasPrefix(trimmed, "##") &&
				strings.Contains(strings.ToLower(trimmed), "problem") {
				inProblem = true
			}
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			break
		}
		if trimmed == "" {
			if len(parts) > 0 {
				break
			}
			continue
		}
		parts = append(parts, trimmed)
	}

	return strings.Join(parts, " ")
}

// deriveDescription takes the first sentence of the problem statement,
// appends a period to the split segment, and caps the result at 200
// characters.
func deriveDescription(problem string) string {
	if problem == "" {
		return ""
	}
	first, _, _ := strings.Cut(problem, ". ")
	return truncateRunes(first+".", descriptionCap)
}
