package api

import (
	"github.com/lysyi3m/rss-relay/app/database"
)

type Handler struct {
	itemRepo database.ItemRepository
	scanRepo database.ScanRepository
}

type scanResponse struct {
	ID           int64    `json:"id"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time,omitempty"`
	TotalFeeds   int      `json:"total_feeds"`
	SuccessCount int      `json:"success_count"`
	ErrorCount   int      `json:"error_count"`
	ErrorDetail  []string `json:"error_detail,omitempty"`
}

type itemResponse struct {
	ID            int64  `json:"id"`
	FeedName      string `json:"feed_name"`
	Link          string `json:"link"`
	Title         string `json:"title"`
	LinkHash      string `json:"link_hash"`
	ProcessedTime string `json:"processed_time"`
	ScanID        int64  `json:"scan_id"`
	Status        string `json:"status"`
	ErrorMessage  string `json:"error_message,omitempty"`
}
