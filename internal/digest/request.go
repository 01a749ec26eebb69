package digest

import (
	"fmt"
	"strings"
	"time"
)

// BuildRequest flattens normalized messages into a single provider prompt:
// the system prompt, a blank line, then one line per message in original
// order. It reports false for empty input; the provider must never be
// called with nothing to summarize.
func BuildRequest(messages []Message, prompt string) (string, bool) {
	if len(messages) == 0 {
		return "", false
	}

	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\n")
	for _, m := range messages {
		sb.WriteString(fmt.Sprintf("%s | %s | %s: %s\n", m.Chat, m.Sender, m.Time.Format(time.RFC3339), m.Text))
	}
	return sb.String(), true
}
