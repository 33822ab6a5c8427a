package patternpress

import "strings"

// Category identifies a topic bucket in the pattern corpus. The set is
// closed: documents that cannot be resolved to one of these categories
// are not routed anywhere.
type Category string

// The closed category set.
const (
	CategoryArchitecture  Category = "architecture"
	CategorySecurity      Category = "security"
	CategoryOperations    Category = "operations"
	CategoryIntegration   Category = "integration"
	CategoryData          Category = "data"
	CategoryObservability Category = "observability"
)

// Categories returns the closed category set in canonical corpus
// processing order.
func Categories() []Category {
	return []Category{
		CategoryArchitecture,
		CategorySecurity,
		CategoryOperations,
		CategoryIntegration,
		CategoryData,
		CategoryObservability,
	}
}

// ValidCategory reports whether c belongs to the closed category set.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryArchitecture, CategorySecurity, CategoryOperations,
		CategoryIntegration, CategoryData, CategoryObservability:
		return true
	}
	return false
}

// ParseCategory resolves a free-text value to a category by name or
// label, case-insensitively. The second return value reports success.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		if s == string(c) || s == strings.ToLower(c.Label()) {
			return c, true
		}
	}
	return "", false
}

// Label returns the human-readable category name used on the site.
func (c Category) Label() string {
	switch c {
	case CategoryArchitecture:
		return "Architecture & Design"
	case CategorySecurity:
		return "Security & Hardening"
	case CategoryOperations:
		return "Operations & Cost"
	case CategoryIntegration:
		return "Integration Patterns"
	case CategoryData:
		return "Data & State"
	case CategoryObservability:
		return "Observability & Debugging"
	}
	return string(c)
}

// Status describes how well a pattern has been validated.
type Status string

// The closed status set.
const (
	StatusDraft      Status = "draft"
	StatusTested     Status = "tested"
	StatusStable     Status = "stable"
	StatusDeprecated Status = "deprecated"
)

// ParseStatus resolves a free-text value to a status. Unknown or empty
// values fall back to StatusTested.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusDraft:
		return StatusDraft
	case StatusStable:
		return StatusStable
	case StatusDeprecated:
		return StatusDeprecated
	}
	return StatusTested
}

// BadgeVariant returns the site badge variant for the status.
func (s Status) BadgeVariant() string {
	switch s {
	case StatusDraft:
		return "caution"
	case StatusStable:
		return "success"
	case StatusDeprecated:
		return "danger"
	}
	return "note"
}

// Defaults for optional pattern metadata fields.
const (
	DefaultVersion       = "unverified"
	DefaultLastValidated = "unknown"
)

// Pattern is the full build-time metadata record extracted from one
// corpus document.
type Pattern struct {
	Title            string   `json:"title"`
	Category         Category `json:"category"`
	Status           Status   `json:"status"`
	Version          string   `json:"version"`
	LastValidated    string   `json:"lastValidated"`
	Slug             string   `json:"slug"`
	SourcePath       string   `json:"sourcePath"`
	ProblemStatement string   `json:"problemStatement"`
	Description      string   `json:"description"`

	// Optional free-text annotations.
	LayerOnTopOf string `json:"layerOnTopOf,omitempty"`
	KnownIssues  string `json:"knownIssues,omitempty"`
	SeeAlso      string `json:"seeAlso,omitempty"`
}

// Validate returns an error if the pattern contains invalid fields.
func (p *Pattern) Validate() error {
	if p.Title == "" {
		return Errorf(EINVALID, "pattern title required")
	}
	if !ValidCategory(p.Category) {
		return Errorf(EINVALID, "unknown pattern category %q", p.Category)
	}
	if p.Slug == "" {
		return Errorf(EINVALID, "pattern slug required")
	}
	return nil
}

// URL returns the site route for the pattern.
func (p *Pattern) URL() string {
	return PatternURL(p.Category, p.Slug)
}

// PatternURL returns the canonical site route for a category and slug.
func PatternURL(category Category, slug string) string {
	return "/patterns/" + string(category) + "/" + slug + "/"
}
