package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

var _ ScanRepository = (*ScanRepositoryImpl)(nil)

// ScanRepositoryImpl handles database operations for scan_history
type ScanRepositoryImpl struct {
	db *DB
}

func NewScanRepository(db *DB) *ScanRepositoryImpl {
	return &ScanRepositoryImpl{db: db}
}

// StartScan creates a new scan record with the end time unset.
func (r *ScanRepositoryImpl) StartScan(totalFeeds int) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO scan_history (start_time, total_feeds, success_count, error_count)
		VALUES (?, ?, 0, 0)
	`, time.Now().UTC(), totalFeeds)
	if err != nil {
		return 0, fmt.Errorf("failed to start scan: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get scan id: %w", err)
	}

	return id, nil
}

// EndScan closes a scan record with final counts and the ordered error
// detail list.
func (r *ScanRepositoryImpl) EndScan(scanID int64, successCount, errorCount int, errorDetail []string) error {
	detail, err := json.Marshal(errorDetail)
	if err != nil {
		return fmt.Errorf("failed to encode error detail: %w", err)
	}

	_, err = r.db.Exec(`
		UPDATE scan_history
		SET end_time = ?, success_count = ?, error_count = ?, error_detail = ?
		WHERE id = ?
	`, time.Now().UTC(), successCount, errorCount, string(detail), scanID)
	if err != nil {
		return fmt.Errorf("failed to end scan: %w", err)
	}

	return nil
}

// GetRecentScans returns the most recent scans, newest first.
func (r *ScanRepositoryImpl) GetRecentScans(limit int) ([]Scan, error) {
	rows, err := r.db.Query(`
		SELECT id, start_time, end_time, total_feeds, success_count, error_count, COALESCE(error_detail, '[]')
		FROM scan_history
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent scans: %w", err)
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		scan, err := scanRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		scans = append(scans, *scan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scan rows: %w", err)
	}

	return scans, nil
}

// GetLastScan returns the most recent scan, or nil if none exist.
func (r *ScanRepositoryImpl) GetLastScan() (*Scan, error) {
	row := r.db.QueryRow(`
		SELECT id, start_time, end_time, total_feeds, success_count, error_count, COALESCE(error_detail, '[]')
		FROM scan_history
		ORDER BY id DESC
		LIMIT 1
	`)

	scan, err := scanRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return scan, nil
}

func scanRow(scanFn func(dest ...any) error) (*Scan, error) {
	var scan Scan
	var detail string

	err := scanFn(&scan.ID, &scan.StartTime, &scan.EndTime, &scan.TotalFeeds,
		&scan.SuccessCount, &scan.ErrorCount, &detail)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan scan row: %w", err)
	}

	if err := json.Unmarshal([]byte(detail), &scan.ErrorDetail); err != nil {
		return nil, fmt.Errorf("failed to decode error detail: %w", err)
	}

	return &scan, nil
}
