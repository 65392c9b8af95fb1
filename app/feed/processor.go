package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/rss-relay/app/database"
)

// Processor drives one feed end to end: fetch, dedup check, classify,
// enrich, dispatch, record. One entry's failure never aborts the feed
// loop.
type Processor struct {
	fetcher    *Fetcher
	classifier *Classifier
	enricher   *Enricher
	dispatcher Dispatcher
	items      database.ItemRepository
}

func NewProcessor(fetcher *Fetcher, classifier *Classifier, enricher *Enricher,
	dispatcher Dispatcher, items database.ItemRepository) *Processor {
	return &Processor{
		fetcher:    fetcher,
		classifier: classifier,
		enricher:   enricher,
		dispatcher: dispatcher,
		items:      items,
	}
}

// ProcessFeed runs one feed within a scan and returns its success and
// error counts. A feed-level fetch or parse failure yields zero counts:
// the feed is logged, not surfaced as item errors.
func (p *Processor) ProcessFeed(ctx context.Context, feedName, feedURL string, scanID int64) Result {
	var result Result

	entries, outcome, err := p.fetcher.Run(ctx, feedURL)
	if err != nil {
		slog.Error("Feed unavailable", "feed", feedName, "outcome", outcome.String(), "error", err)
		return result
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			slog.Warn("Feed processing cancelled", "feed", feedName, "error", ctx.Err())
			return result
		default:
		}

		recorded, failed, err := p.processEntry(ctx, feedName, scanID, entry)
		if err != nil {
			slog.Error("Entry processing failed", "feed", feedName, "link", entry.Link, "error", err)
			result.Error++
			continue
		}
		if !recorded {
			continue
		}
		if failed {
			result.Error++
		} else {
			result.Success++
		}
	}

	slog.Info("Feed processed",
		"feed", feedName,
		"entries", len(entries),
		"success", result.Success,
		"errors", result.Error)

	return result
}

// processEntry handles one entry. recorded reports whether a new ledger
// row was written; failed reports whether that row carries a failed
// dispatch. Already-seen addresses and race losers return (false, false,
// nil).
func (p *Processor) processEntry(ctx context.Context, feedName string, scanID int64, entry Entry) (recorded bool, failed bool, err error) {
	if entry.Link == "" {
		return false, false, fmt.Errorf("entry has no link")
	}

	address := Address(entry.Link)

	seen, err := p.items.IsProcessed(address)
	if err != nil {
		return false, false, fmt.Errorf("failed to check dedup ledger: %w", err)
	}
	if seen {
		slog.Debug("Entry already processed, skipping", "feed", feedName, "link", entry.Link)
		return false, false, nil
	}

	kind := p.classifier.Run(entry.Link, entry)
	enrichment := p.enricher.Run(ctx, entry.Link, entry, kind)

	slog.Debug("Entry enriched",
		"feed", feedName,
		"link", entry.Link,
		"kind", kind.String(),
		"partial", enrichment.Partial)

	if sendErr := p.dispatcher.Send(ctx, entry.Title, entry.Link, enrichment.Summary); sendErr != nil {
		accepted, recErr := p.items.RecordItem(feedName, entry.Link, entry.Title, address,
			scanID, database.StatusFailed, sendErr.Error())
		if recErr != nil {
			return false, false, fmt.Errorf("failed to record item: %w", recErr)
		}
		return accepted, true, nil
	}

	accepted, recErr := p.items.RecordItem(feedName, entry.Link, entry.Title, address,
		scanID, database.StatusSuccess, "")
	if recErr != nil {
		return false, false, fmt.Errorf("failed to record item: %w", recErr)
	}
	return accepted, false, nil
}
