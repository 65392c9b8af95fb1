package database

import (
	"time"
)

// Item statuses recorded in the processed_items ledger.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// ProcessedItem is one row of the append-only dedup ledger. Rows are
// written once by RecordItem and never updated or deleted.
type ProcessedItem struct {
	ID            int64
	FeedName      string
	Link          string
	Title         string
	LinkHash      string
	ProcessedTime time.Time
	ScanID        int64
	Status        string
	ErrorMessage  string
}

// Scan is one row of scan_history. EndTime is nil while the scan is
// still running.
type Scan struct {
	ID           int64
	StartTime    time.Time
	EndTime      *time.Time
	TotalFeeds   int
	SuccessCount int
	ErrorCount   int
	ErrorDetail  []string
}
