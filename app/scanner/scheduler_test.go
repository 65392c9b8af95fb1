package scanner

import (
	"testing"
	"time"
)

func (r *fakeScanRepo) startedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Condition not met before timeout")
}

func TestSchedulerRunsImmediately(t *testing.T) {
	itemRepo := newFakeItemRepo()
	scanRepo := &fakeScanRepo{}
	scanner, _ := newScanFixture(t, itemRepo, scanRepo)

	scheduler := NewScheduler(scanner, time.Hour)
	scheduler.Start()
	defer scheduler.Stop()

	waitFor(t, 5*time.Second, func() bool {
		return scanRepo.startedCount() == 1
	})
}

func TestSchedulerRunsPeriodically(t *testing.T) {
	itemRepo := newFakeItemRepo()
	scanRepo := &fakeScanRepo{}
	scanner, _ := newScanFixture(t, itemRepo, scanRepo)

	scheduler := NewScheduler(scanner, 50*time.Millisecond)
	scheduler.Start()
	defer scheduler.Stop()

	waitFor(t, 5*time.Second, func() bool {
		return scanRepo.startedCount() >= 2
	})
}

func TestSchedulerStop(t *testing.T) {
	itemRepo := newFakeItemRepo()
	scanRepo := &fakeScanRepo{}
	scanner, _ := newScanFixture(t, itemRepo, scanRepo)

	scheduler := NewScheduler(scanner, time.Hour)
	scheduler.Start()

	waitFor(t, 5*time.Second, func() bool {
		return scanRepo.startedCount() == 1
	})

	scheduler.Stop()

	if got := scanRepo.startedCount(); got != 1 {
		t.Errorf("Expected no further scans after Stop, got: %d", got)
	}
}
