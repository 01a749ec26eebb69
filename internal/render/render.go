package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/avelichko/tg-digest/internal/digest"
)

// maxSummaryLineLen caps each summary category line. The underlying material
// never defined an exact budget; 120 runes keeps a line readable on a phone.
const maxSummaryLineLen = 120

// Markdown renders the long-form digest document. Sections appear only for
// non-empty categories; an all-empty digest renders just the title line.
// Output is deterministic for a given digest and timestamp.
func Markdown(d *digest.Digest, ts time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Telegram Digest - %s\n\n", ts.Format("2006-01-02 15:04")))

	if len(d.Urgent) > 0 {
		sb.WriteString("## 🚨 Urgent Items\n")
		for _, item := range d.Urgent {
			sb.WriteString(fmt.Sprintf("- %s\n", item))
		}
		sb.WriteString("\n")
	}

	if len(d.UnansweredMentions) > 0 {
		sb.WriteString("## ❓ Needs Your Response\n")
		for _, mention := range d.UnansweredMentions {
			sb.WriteString(fmt.Sprintf("- %s\n", mention))
		}
		sb.WriteString("\n")
	}

	if len(d.Calendar) > 0 {
		sb.WriteString("## 📅 Calendar Events\n")
		for _, event := range d.Calendar {
			sb.WriteString(fmt.Sprintf("- %s - %s%s\n", event.Event, event.Date, atTime(event.Time)))
		}
		sb.WriteString("\n")
	}

	if len(d.Decisions) > 0 {
		sb.WriteString("## ✅ Decisions Made\n")
		for _, decision := range d.Decisions {
			sb.WriteString(fmt.Sprintf("- %s\n", decision))
		}
		sb.WriteString("\n")
	}

	if len(d.Topics) > 0 {
		sb.WriteString("## 💬 Topics Discussed\n")
		for _, topic := range d.Topics {
			sb.WriteString(fmt.Sprintf("### %s\n", topic.Topic))
			if len(topic.Participants) > 0 {
				sb.WriteString(fmt.Sprintf("*Participants: %s*\n", strings.Join(topic.Participants, ", ")))
			}
			sb.WriteString(fmt.Sprintf("%s\n\n", topic.Summary))
		}
	}

	if len(d.PeopleUpdates) > 0 {
		sb.WriteString("## 👥 People Updates\n")
		for _, update := range d.PeopleUpdates {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", update.Person, update.Update))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Summary renders the short delivery text: a counts banner, at most one line
// per actionable category, and at most one upcoming calendar line. Zero-item
// categories are omitted, so a quiet period yields a very short message.
func Summary(d *digest.Digest) string {
	lines := []string{countsBanner(d)}

	if line, ok := categoryLine("🚨", d.Urgent); ok {
		lines = append(lines, line)
	}
	if line, ok := categoryLine("❓", d.UnansweredMentions); ok {
		lines = append(lines, line)
	}
	if line, ok := categoryLine("✅", d.Decisions); ok {
		lines = append(lines, line)
	}

	if len(d.Calendar) > 0 {
		next := d.Calendar[0]
		lines = append(lines, truncate(fmt.Sprintf("📅 Next: %s - %s%s", next.Event, next.Date, atTime(next.Time)), maxSummaryLineLen))
	}

	return strings.Join(lines, "\n")
}

func countsBanner(d *digest.Digest) string {
	var parts []string
	if n := len(d.Urgent); n > 0 {
		parts = append(parts, fmt.Sprintf("%d urgent", n))
	}
	if n := len(d.Decisions); n > 0 {
		parts = append(parts, fmt.Sprintf("%d decisions", n))
	}
	if n := len(d.UnansweredMentions); n > 0 {
		parts = append(parts, fmt.Sprintf("%d need response", n))
	}
	if len(parts) == 0 {
		return "🔔 Digest: no significant activity"
	}
	return "🔔 Digest: " + strings.Join(parts, ", ")
}

func categoryLine(marker string, items []string) (string, bool) {
	if len(items) == 0 {
		return "", false
	}
	line := fmt.Sprintf("%s %s", marker, items[0])
	if len(items) > 1 {
		line += fmt.Sprintf(" (+%d more)", len(items)-1)
	}
	return truncate(line, maxSummaryLineLen), true
}

func atTime(t string) string {
	if t == "" {
		return ""
	}
	return " at " + t
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
