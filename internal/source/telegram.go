package source

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avelichko/tg-digest/internal/config"
)

const (
	updatePageSize = 100
	// One getUpdates sweep serves every chat in a run; the snapshot is
	// reused until it goes stale, so a later scheduled run pulls fresh.
	updateSnapshotTTL = time.Minute
)

// telegramAPI is the slice of the Bot API client the source needs.
type telegramAPI interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
	GetChat(config tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error)
}

// TelegramSource collects messages the bot has received in its watched chats.
// The Bot API has no history endpoint, so collection reads the pending update
// queue (retained by Telegram for 24 hours) and buckets messages per chat.
type TelegramSource struct {
	api       telegramAPI
	fetchedAt time.Time
	byChat    map[int64][]RawMessage
}

// NewTelegram creates a source backed by a Telegram Bot API client.
func NewTelegram(api telegramAPI) *TelegramSource {
	return &TelegramSource{api: api}
}

// FetchRecent returns the messages from one watched chat at or after cutoff,
// in arrival order. Resolution failures (unknown chat, missing permissions)
// are per-chat errors and do not poison other chats.
func (s *TelegramSource) FetchRecent(ctx context.Context, entry config.WatchlistEntry, cutoff time.Time) ([]RawMessage, error) {
	if err := s.load(ctx); err != nil {
		return nil, fmt.Errorf("telegram: fetch updates: %w", err)
	}

	chatID, chatName, err := s.resolve(entry)
	if err != nil {
		return nil, fmt.Errorf("telegram: resolve chat %s: %w", entry.Ref(), err)
	}

	var out []RawMessage
	for _, m := range s.byChat[chatID] {
		if m.Time.Before(cutoff) {
			continue
		}
		m.Chat = chatName
		out = append(out, m)
	}
	return out, nil
}

// load drains the pending update queue into per-chat buckets.
func (s *TelegramSource) load(ctx context.Context) error {
	if !s.fetchedAt.IsZero() && time.Since(s.fetchedAt) < updateSnapshotTTL {
		return nil
	}

	byChat := make(map[int64][]RawMessage)
	offset := 0
	total := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		updates, err := s.api.GetUpdates(tgbotapi.UpdateConfig{
			Offset: offset,
			Limit:  updatePageSize,
		})
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			break
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			msg := u.Message
			if msg == nil || msg.Chat == nil {
				continue
			}
			raw := RawMessage{
				Chat:   chatTitle(msg.Chat),
				ChatID: msg.Chat.ID,
				Sender: senderName(msg.From),
				Time:   msg.Time().UTC(),
				Text:   msg.Text,
			}
			byChat[msg.Chat.ID] = append(byChat[msg.Chat.ID], raw)
			total++
		}

		if len(updates) < updatePageSize {
			break
		}
	}

	s.byChat = byChat
	s.fetchedAt = time.Now()
	log.Printf("Collected %d pending updates across %d chats", total, len(byChat))
	return nil
}

// resolve maps a watchlist entry to a concrete chat ID and display name.
func (s *TelegramSource) resolve(entry config.WatchlistEntry) (int64, string, error) {
	var cfg tgbotapi.ChatInfoConfig
	if entry.ChatID != 0 {
		cfg.ChatConfig = tgbotapi.ChatConfig{ChatID: entry.ChatID}
	} else {
		username := entry.Name
		if !strings.HasPrefix(username, "@") {
			username = "@" + username
		}
		cfg.ChatConfig = tgbotapi.ChatConfig{SuperGroupUsername: username}
	}

	chat, err := s.api.GetChat(cfg)
	if err != nil {
		return 0, "", err
	}

	name := chatTitle(&chat)
	if name == "" {
		name = entry.Ref()
	}
	return chat.ID, name, nil
}

func chatTitle(chat *tgbotapi.Chat) string {
	switch {
	case chat.Title != "":
		return chat.Title
	case chat.UserName != "":
		return "@" + chat.UserName
	case chat.FirstName != "":
		return strings.TrimSpace(chat.FirstName + " " + chat.LastName)
	default:
		return fmt.Sprintf("%d", chat.ID)
	}
}

func senderName(from *tgbotapi.User) string {
	if from == nil {
		return "Unknown"
	}
	if from.FirstName != "" {
		name := from.FirstName
		if from.LastName != "" {
			name += " " + from.LastName
		}
		return name
	}
	if from.UserName != "" {
		return "@" + from.UserName
	}
	return "Unknown"
}
