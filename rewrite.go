package patternpress

import (
	"regexp"
	"strings"
)

// fenceMarker delimits code-fenced regions; links inside them are never
// rewritten.
const fenceMarker = "```"

var linkRe = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)\)`)

// RewriteLinks rewrites intra-corpus relative links in a document body
// into absolute site routes of the form /patterns/{category}/{slug}/.
// Scheme-qualified external links, fragment-only links, and links inside
// fenced code blocks pass through untouched. A link whose resolved
// category falls outside the closed category set is left unmodified
// rather than rewritten into a broken route.
func RewriteLinks(body string, category Category) string {
	lines := strings.Split(body, "\n")
	inFence := false

	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), fenceMarker) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		lines[i] = linkRe.ReplaceAllStringFunc(line, func(match string) string {
			sub := linkRe.FindStringSubmatch(match)
			route, ok := resolveTarget(sub[2], category)
			if !ok {
				return match
			}
			return "[" + sub[1] + "](" + route + ")"
		})
	}

	return strings.Join(lines, "\n")
}

// resolveTarget maps a relative link target to a site route. The second
// return value is false when the target must be left untouched.
func resolveTarget(target string, category Category) (string, bool) {
	if strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:") {
		return "", false
	}
	if strings.HasPrefix(target, "#") || strings.HasPrefix(target, "/") {
		return "", false
	}

	path, fragment, _ := strings.Cut(target, "#")

	var cat Category
	var slug string
	switch {
	case strings.HasPrefix(path, "../"):
		// Parent-relative: first segment names the category.
		segs := strings.Split(strings.TrimPrefix(path, "../"), "/")
		if len(segs) < 2 {
			return "", false
		}
		cat = Category(segs[0])
		slug = slugFromSegment(segs[1])
	case strings.Contains(path, "/"):
		// Multi-segment: second-to-last names the category.
		segs := strings.Split(path, "/")
		cat = Category(segs[len(segs)-2])
		slug = slugFromSegment(segs[len(segs)-1])
	default:
		// Bare file name: same category as the source document.
		cat = category
		slug = slugFromSegment(path)
	}

	if !ValidCategory(cat) || slug == "" {
		return "", false
	}

	route := PatternURL(cat, slug)
	if fragment != "" {
		route += "#" + fragment
	}
	return route, true
}

func slugFromSegment(seg string) string {
	return strings.ToLower(strings.TrimSuffix(seg, ".md"))
}
