package llm

import "strings"

// BuildPrompt assembles the grounded generation prompt from the user's
// question and the passages selected by the relevance gate. Passages are
// concatenated in retrieval order, separated by blank lines.
func BuildPrompt(query string, passages []string) string {
	var b strings.Builder

	b.WriteString("Answer the user's question using the following agricultural advice:\n\n")
	b.WriteString(strings.Join(passages, "\n\n"))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(query)

	return b.String()
}
