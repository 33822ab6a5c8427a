package patternpress

import "unicode/utf8"

// indexProblemStatementCap limits the problem statement carried into the
// index artifact.
const indexProblemStatementCap = 500

// IndexEntry is the slim runtime projection of a Pattern. The generated
// index artifact is a single JSON array of these records and is the sole
// contract between build time and runtime.
type IndexEntry struct {
	Title            string `json:"title"`
	Category         string `json:"category"`
	CategoryLabel    string `json:"categoryLabel"`
	Slug             string `json:"slug"`
	Status           string `json:"status"`
	Version          string `json:"version"`
	Description      string `json:"description"`
	ProblemStatement string `json:"problemStatement"`
	URL              string `json:"url"`
}

// EntryFromPattern projects a full pattern record into its index entry.
func EntryFromPattern(p *Pattern) IndexEntry {
	return IndexEntry{
		Title:            p.Title,
		Category:         string(p.Category),
		CategoryLabel:    p.Category.Label(),
		Slug:             p.Slug,
		Status:           string(p.Status),
		Version:          p.Version,
		Description:      p.Description,
		ProblemStatement: truncateRunes(p.ProblemStatement, indexProblemStatementCap),
		URL:              p.URL(),
	}
}

// truncateRunes caps s at n runes without splitting a multi-byte
// character.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
