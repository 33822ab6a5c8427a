package patternpress

import (
	"sort"
	"strings"
)

// DefaultTopK is the default number of entries returned by RankEntries.
const DefaultTopK = 5

// Score weights per match tier. A token can contribute several tiers at
// once; tiers are additive, not exclusive.
const (
	weightTitle       = 10
	weightCategory    = 5
	weightDescription = 3
	weightProblem     = 2
	weightAnywhere    = 1
)

// stopWords are query tokens that carry no search signal.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "how": {}, "what": {}, "why": {},
	"when": {}, "where": {}, "can": {}, "does": {}, "with": {}, "that": {},
	"this": {}, "you": {}, "your": {}, "are": {}, "was": {}, "has": {},
	"have": {}, "not": {}, "but": {}, "all": {}, "any": {}, "its": {},
	"from": {}, "into": {}, "about": {}, "should": {}, "would": {},
	"could": {},
}

// ScoredEntry pairs an index entry with its relevance score for a query.
type ScoredEntry struct {
	Entry IndexEntry
	Score int
}

// QueryTokens normalizes a free-text query: whitespace-split, lowercased,
// surrounding punctuation trimmed, with stop-words and tokens of length
// two or less dropped.
func QueryTokens(query string) []string {
	var tokens []string
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		tok = strings.Trim(tok, `.,;:!?"'()`)
		if len(tok) <= 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// RankEntries scores every entry against the query and returns the top k
// matches in descending score order. Zero-score entries are excluded.
// Ties retain the original entry order, which reflects corpus processing
// order. A query that normalizes to no tokens yields no results.
func RankEntries(query string, entries []IndexEntry, k int) []ScoredEntry {
	tokens := QueryTokens(query)
	if len(tokens) == 0 {
		return nil
	}
	if k <= 0 {
		k = DefaultTopK
	}

	scored := make([]ScoredEntry, 0, len(entries))
	for _, entry := range entries {
		if score := scoreEntry(tokens, entry); score > 0 {
			scored = append(scored, ScoredEntry{Entry: entry, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

func scoreEntry(tokens []string, entry IndexEntry) int {
	title := strings.ToLower(entry.Title)
	category := strings.ToLower(entry.Category)
	label := strings.ToLower(entry.CategoryLabel)
	description := strings.ToLower(entry.Description)
	problem := strings.ToLower(entry.ProblemStatement)
	surface := title + " " + category + " " + label + " " + description + " " + problem

	score := 0
	for _, tok := range tokens {
		if strings.Contains(title, tok) {
			score += weightTitle
		}
		if tok == category || tokenInFields(label, tok) {
			score += weightCategory
		}
		if strings.Contains(description, tok) {
			score += weightDescription
		}
		if strings.Contains(problem, tok) {
			score += weightProblem
		}
		if strings.Contains(surface, tok) {
			score += weightAnywhere
		}
	}
	return score
}

// tokenInFields reports whether tok exactly matches one of the
// whitespace-separated words of s.
func tokenInFields(s, tok string) bool {
	for _, field := range strings.Fields(s) {
		if strings.Trim(field, "&") == tok {
			return true
		}
	}
	return false
}
