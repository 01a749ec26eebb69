package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/avelichko/tg-digest/internal/config"
	"github.com/avelichko/tg-digest/internal/deliver"
	"github.com/avelichko/tg-digest/internal/digest"
	"github.com/avelichko/tg-digest/internal/llm"
	"github.com/avelichko/tg-digest/internal/render"
	"github.com/avelichko/tg-digest/internal/source"
)

// Stage names the step of the pipeline a failure happened in.
type Stage string

const (
	StageCollecting Stage = "collecting"
	StageRequesting Stage = "requesting llm"
	StageValidating Stage = "validating"
	StageWriting    Stage = "writing digest"
	StageDelivering Stage = "delivering"
)

// FileWriter persists the rendered document and returns its path.
type FileWriter interface {
	Write(content string, ts time.Time) (string, error)
}

// Runner orchestrates one collect -> normalize -> summarize -> validate ->
// render -> deliver pass. A fetch failure in one chat is absorbed; any
// failure past collection aborts the run.
type Runner struct {
	watchlist *config.Watchlist
	hoursBack int
	prompt    string
	source    source.Source
	provider  llm.Provider
	writer    FileWriter
	deliverer deliver.Deliverer
	now       func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithNow overrides the run clock, which stamps the cutoff, the document
// title, and the output filename.
func WithNow(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

func New(wl *config.Watchlist, hoursBack int, prompt string, src source.Source, p llm.Provider, w FileWriter, d deliver.Deliverer, opts ...Option) *Runner {
	r := &Runner{
		watchlist: wl,
		hoursBack: hoursBack,
		prompt:    prompt,
		source:    src,
		provider:  p,
		writer:    w,
		deliverer: d,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the full pipeline once. It returns nil both on a delivered
// digest and when there was nothing to summarize.
func (r *Runner) Run(ctx context.Context) error {
	now := r.now().UTC()
	cutoff := now.Add(-time.Duration(r.hoursBack) * time.Hour)
	chats := r.watchlist.Enabled()

	log.Printf("Starting digest run: %d watched chats, cutoff %s (%dh back)", len(chats), cutoff.Format(time.RFC3339), r.hoursBack)

	messages, failed := r.collect(ctx, chats, cutoff)
	if len(chats) > 0 && failed == len(chats) {
		return fmt.Errorf("runner: %s: all %d chats failed", StageCollecting, failed)
	}

	prompt, ok := digest.BuildRequest(messages, r.prompt)
	if !ok {
		log.Println("No messages in the time window, nothing to summarize")
		return nil
	}
	log.Printf("Sending %d messages to the LLM provider", len(messages))

	raw, err := r.provider.Complete(ctx, prompt)
	if err != nil {
		return fmt.Errorf("runner: %s: %w", StageRequesting, err)
	}

	result, err := digest.Parse(raw)
	if err != nil {
		// Keep the unusable reply around for diagnosis.
		var malformed *digest.MalformedResponseError
		var violation *digest.SchemaViolationError
		switch {
		case errors.As(err, &malformed):
			log.Printf("Provider returned non-JSON response: %q", malformed.Raw)
		case errors.As(err, &violation):
			log.Printf("Provider response failed schema validation, raw response: %q", violation.Raw)
		}
		return fmt.Errorf("runner: %s: %w", StageValidating, err)
	}

	markdown := render.Markdown(result, now)
	summary := render.Summary(result)

	// The file is written before delivery is attempted, so a delivery
	// failure never loses the computed digest.
	path, err := r.writer.Write(markdown, now)
	if err != nil {
		return fmt.Errorf("runner: %s: %w", StageWriting, err)
	}
	log.Printf("Digest saved to %s", path)

	if err := r.deliverer.Deliver(ctx, summary); err != nil {
		return fmt.Errorf("runner: %s: %w", StageDelivering, err)
	}

	log.Println("Digest run completed successfully")
	return nil
}

// collect fetches and normalizes each enabled chat independently. A failing
// chat is logged and skipped; the run continues with the survivors.
func (r *Runner) collect(ctx context.Context, chats []config.WatchlistEntry, cutoff time.Time) ([]digest.Message, int) {
	var messages []digest.Message
	failed := 0

	for _, entry := range chats {
		raws, err := r.source.FetchRecent(ctx, entry, cutoff)
		if err != nil {
			failed++
			log.Printf("WARNING: skipping chat %s: %v", entry.Ref(), err)
			continue
		}
		normalized := digest.NormalizeAll(raws, cutoff)
		log.Printf("Collected %d messages from %s (%d after cutoff/text filter)", len(raws), entry.Ref(), len(normalized))
		messages = append(messages, normalized...)
	}

	return messages, failed
}
