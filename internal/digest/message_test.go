package digest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichko/tg-digest/internal/source"
)

func TestNormalizeFiltersByCutoff(t *testing.T) {
	cutoff := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	_, ok := Normalize(source.RawMessage{Text: "too old", Time: cutoff.Add(-time.Minute)}, cutoff)
	assert.False(t, ok)

	m, ok := Normalize(source.RawMessage{Text: "exactly at cutoff", Time: cutoff}, cutoff)
	require.True(t, ok, "messages at the cutoff are included")
	assert.Equal(t, "exactly at cutoff", m.Text)

	_, ok = Normalize(source.RawMessage{Text: "recent", Time: cutoff.Add(time.Hour)}, cutoff)
	assert.True(t, ok)
}

func TestNormalizeFiltersEmptyText(t *testing.T) {
	cutoff := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	_, ok := Normalize(source.RawMessage{Text: "", Time: cutoff.Add(time.Hour)}, cutoff)
	assert.False(t, ok)
}

func TestNormalizeDefaultsSenderAndUTC(t *testing.T) {
	cutoff := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	moscow := time.FixedZone("MSK", 3*60*60)

	m, ok := Normalize(source.RawMessage{
		Chat: "Family",
		Text: "hi",
		Time: time.Date(2026, 8, 23, 16, 0, 0, 0, moscow),
	}, cutoff)
	require.True(t, ok)

	assert.Equal(t, "Unknown", m.Sender)
	assert.Equal(t, time.UTC, m.Time.Location())
	assert.Equal(t, 13, m.Time.Hour())
}

func TestNormalizeAllPreservesOrder(t *testing.T) {
	cutoff := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	raws := []source.RawMessage{
		{Text: "first", Sender: "a", Time: cutoff.Add(1 * time.Minute)},
		{Text: "", Sender: "b", Time: cutoff.Add(2 * time.Minute)},
		{Text: "second", Sender: "c", Time: cutoff.Add(3 * time.Minute)},
		{Text: "dropped", Sender: "d", Time: cutoff.Add(-time.Minute)},
		{Text: "third", Sender: "e", Time: cutoff.Add(4 * time.Minute)},
	}

	got := NormalizeAll(raws, cutoff)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "second", got[1].Text)
	assert.Equal(t, "third", got[2].Text)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	cutoff := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	raw := source.RawMessage{Chat: "c", Sender: "", Text: "hi", Time: cutoff.Add(time.Hour)}
	orig := raw

	_, _ = Normalize(raw, cutoff)
	assert.Equal(t, orig, raw)
}
