package patternpress

import (
	"fmt"
	"strings"
)

// SystemInstruction constrains the assistant to the retrieved patterns.
const SystemInstruction = "You are a helpful assistant answering questions about an infrastructure pattern library. Answer based only on the patterns provided. If the answer is not in the patterns, say so."

// RetrievedDoc is a fetched pattern page ready for prompt assembly.
type RetrievedDoc struct {
	Title   string
	URL     string
	Content string
}

// BuildGroundingPrompt assembles the retrieved patterns and the question
// into a single user prompt.
func BuildGroundingPrompt(docs []RetrievedDoc, question string) string {
	var sb strings.Builder
	sb.WriteString("<patterns>\n")
	for i, doc := range docs {
		sb.WriteString("<pattern>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<title>%s</title>\n", doc.Title)
		fmt.Fprintf(&sb, "<url>%s</url>\n", doc.URL)
		fmt.Fprintf(&sb, "<content>%s</content>\n", doc.Content)
		sb.WriteString("</pattern>\n")
	}
	sb.WriteString("</patterns>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}
