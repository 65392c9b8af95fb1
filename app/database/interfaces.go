package database

// ItemRepository is the durable set of previously-forwarded items.
// RecordItem is the sole writer and the sole dedup enforcement point;
// IsProcessed exists only to skip redundant enrichment and dispatch work.
type ItemRepository interface {
	IsProcessed(linkHash string) (bool, error)
	RecordItem(feedName, link, title, linkHash string, scanID int64, status, errorMessage string) (bool, error)

	GetRecentItems(limit int) ([]ProcessedItem, error)
	GetItemCount() (int, error)
}

// ScanRepository handles scan-level bookkeeping, independent of
// item-level dedup.
type ScanRepository interface {
	StartScan(totalFeeds int) (int64, error)
	EndScan(scanID int64, successCount, errorCount int, errorDetail []string) error

	GetRecentScans(limit int) ([]Scan, error)
	GetLastScan() (*Scan, error)
}
