package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ ItemRepository = (*ItemRepositoryImpl)(nil)

// ItemRepositoryImpl handles database operations for the processed_items ledger
type ItemRepositoryImpl struct {
	db *DB
}

func NewItemRepository(db *DB) *ItemRepositoryImpl {
	return &ItemRepositoryImpl{db: db}
}

// IsProcessed checks whether a content address already exists in the ledger.
func (r *ItemRepositoryImpl) IsProcessed(linkHash string) (bool, error) {
	var one int
	err := r.db.QueryRow("SELECT 1 FROM processed_items WHERE link_hash = ? LIMIT 1", linkHash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check processed item: %w", err)
	}
	return true, nil
}

// RecordItem inserts one ledger row. It returns false without an error
// when the content address already exists: the UNIQUE constraint on
// link_hash resolves concurrent writers, not a pre-check.
func (r *ItemRepositoryImpl) RecordItem(feedName, link, title, linkHash string, scanID int64, status, errorMessage string) (bool, error) {
	var errMsg sql.NullString
	if errorMessage != "" {
		errMsg = sql.NullString{String: errorMessage, Valid: true}
	}

	res, err := r.db.Exec(`
		INSERT INTO processed_items
			(feed_name, item_link, item_title, link_hash, processed_time, scan_history_id, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(link_hash) DO NOTHING
	`, feedName, link, title, linkHash, time.Now().UTC(), scanID, status, errMsg)
	if err != nil {
		return false, fmt.Errorf("failed to record item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

// GetRecentItems returns the most recently processed items, newest first.
func (r *ItemRepositoryImpl) GetRecentItems(limit int) ([]ProcessedItem, error) {
	rows, err := r.db.Query(`
		SELECT id, feed_name, item_link, item_title, link_hash,
		       processed_time, COALESCE(scan_history_id, 0), status, COALESCE(error_message, '')
		FROM processed_items
		ORDER BY processed_time DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent items: %w", err)
	}
	defer rows.Close()

	var items []ProcessedItem
	for rows.Next() {
		var item ProcessedItem
		err := rows.Scan(
			&item.ID, &item.FeedName, &item.Link, &item.Title, &item.LinkHash,
			&item.ProcessedTime, &item.ScanID, &item.Status, &item.ErrorMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

// GetItemCount returns the total number of ledger rows.
func (r *ItemRepositoryImpl) GetItemCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM processed_items").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get item count: %w", err)
	}
	return count, nil
}
