package scanner

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler runs scans periodically: one immediately on Start, then one
// per interval. Stop cancels the context and waits for the in-flight
// scan to finish or fail cleanly.
type Scheduler struct {
	scanner  *Scanner
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewScheduler(scanner *Scanner, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		scanner:  scanner,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.runScan()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.runScan()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) runScan() {
	start := time.Now()

	if err := s.scanner.Run(s.ctx); err != nil {
		slog.Error("Scan failed", "error", err)
		return
	}

	slog.Debug("Scan cycle complete", "duration", time.Since(start))
}
