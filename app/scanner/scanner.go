package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lysyi3m/rss-relay/app/config"
	"github.com/lysyi3m/rss-relay/app/database"
	"github.com/lysyi3m/rss-relay/app/feed"
)

// Scanner runs one complete pass over all configured feeds, bounded by a
// scan_history record. Feeds are processed by a small worker pool;
// per-feed results are summed only after every worker has finished.
type Scanner struct {
	processor   *feed.Processor
	scans       database.ScanRepository
	feedsFile   string
	workerCount int
}

func NewScanner(processor *feed.Processor, scans database.ScanRepository, feedsFile string, workerCount int) *Scanner {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Scanner{
		processor:   processor,
		scans:       scans,
		feedsFile:   feedsFile,
		workerCount: workerCount,
	}
}

// Run executes one scan: reload the feed list, process every feed, close
// the scan record with the aggregated counts. Side effects happen only
// through the store and the sink.
func (s *Scanner) Run(ctx context.Context) error {
	sources, err := config.Load(s.feedsFile)
	if err != nil {
		return fmt.Errorf("failed to load feed sources: %w", err)
	}

	scanID, err := s.scans.StartScan(len(sources))
	if err != nil {
		return fmt.Errorf("failed to start scan: %w", err)
	}

	slog.Info("Scan started", "scan_id", scanID, "feeds", len(sources))

	var (
		mu           sync.Mutex
		totalSuccess int
		totalError   int
		errorDetails []string
	)

	queue := make(chan config.Source)
	var wg sync.WaitGroup

	for i := 0; i < s.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for source := range queue {
				result, detail := s.processSource(ctx, source, scanID)

				mu.Lock()
				totalSuccess += result.Success
				totalError += result.Error
				if detail != "" {
					errorDetails = append(errorDetails, detail)
					totalError++
				}
				mu.Unlock()
			}
		}()
	}

queueLoop:
	for _, source := range sources {
		select {
		case queue <- source:
		case <-ctx.Done():
			slog.Warn("Scan cancelled while queueing feeds", "scan_id", scanID, "error", ctx.Err())
			break queueLoop
		}
	}
	close(queue)
	wg.Wait()

	if err := s.scans.EndScan(scanID, totalSuccess, totalError, errorDetails); err != nil {
		return fmt.Errorf("failed to end scan: %w", err)
	}

	slog.Info("Scan finished",
		"scan_id", scanID,
		"success", totalSuccess,
		"errors", totalError)

	return nil
}

// processSource shields the scan from a single feed blowing up: a panic
// while processing one feed becomes one scan-level error detail.
func (s *Scanner) processSource(ctx context.Context, source config.Source, scanID int64) (result feed.Result, detail string) {
	defer func() {
		if r := recover(); r != nil {
			detail = fmt.Sprintf("error processing feed %s: %v", source.Name, r)
			slog.Error("Feed processing panicked", "feed", source.Name, "panic", r)
		}
	}()

	slog.Info("Processing feed", "feed", source.Name, "url", source.URL)
	result = s.processor.ProcessFeed(ctx, source.Name, source.URL, scanID)
	return result, ""
}
