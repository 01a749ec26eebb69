package source

import (
	"context"
	"time"

	"github.com/avelichko/tg-digest/internal/config"
)

// RawMessage is a provider-native message as returned by the chat source.
// Text is empty for non-text messages; callers filter those out.
type RawMessage struct {
	Chat   string
	ChatID int64
	Sender string
	Time   time.Time
	Text   string
}

// Source fetches recent messages from a single watched chat. A failure for
// one chat must not affect fetches for other chats.
type Source interface {
	FetchRecent(ctx context.Context, entry config.WatchlistEntry, cutoff time.Time) ([]RawMessage, error)
}
