package digest

import (
	"time"

	"github.com/avelichko/tg-digest/internal/source"
)

// Message is the canonical, provider-independent message shape. Text is
// never empty and Time is always UTC.
type Message struct {
	Chat   string
	Sender string
	Time   time.Time
	Text   string
}

// Normalize converts one raw message into canonical form. It reports false
// when the message is older than the cutoff or has no textual content; those
// are filtered silently, not errors.
func Normalize(raw source.RawMessage, cutoff time.Time) (Message, bool) {
	if raw.Text == "" || raw.Time.Before(cutoff) {
		return Message{}, false
	}
	sender := raw.Sender
	if sender == "" {
		sender = "Unknown"
	}
	return Message{
		Chat:   raw.Chat,
		Sender: sender,
		Time:   raw.Time.UTC(),
		Text:   raw.Text,
	}, true
}

// NormalizeAll filters and converts a chat's messages, preserving their
// arrival order.
func NormalizeAll(raws []source.RawMessage, cutoff time.Time) []Message {
	var out []Message
	for _, raw := range raws {
		if m, ok := Normalize(raw, cutoff); ok {
			out = append(out, m)
		}
	}
	return out
}
