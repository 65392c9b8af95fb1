package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-relay/app/database"
)

const defaultListLimit = 50

func NewHandler(itemRepo database.ItemRepository, scanRepo database.ScanRepository) *Handler {
	return &Handler{
		itemRepo: itemRepo,
		scanRepo: scanRepo,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if count, err := h.itemRepo.GetItemCount(); err == nil {
		health["processed_items"] = count
	}

	if scan, err := h.scanRepo.GetLastScan(); err == nil && scan != nil {
		health["last_scan"] = scanToResponse(*scan)
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) ListScans(c *gin.Context) {
	limit := parseLimit(c.Query("limit"))

	scans, err := h.scanRepo.GetRecentScans(limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_scans", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]scanResponse, 0, len(scans))
	for _, scan := range scans {
		response = append(response, scanToResponse(scan))
	}

	c.JSON(http.StatusOK, gin.H{"scans": response})
}

func (h *Handler) ListItems(c *gin.Context) {
	limit := parseLimit(c.Query("limit"))

	items, err := h.itemRepo.GetRecentItems(limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_items", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]itemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, itemResponse{
			ID:            item.ID,
			FeedName:      item.FeedName,
			Link:          item.Link,
			Title:         item.Title,
			LinkHash:      item.LinkHash,
			ProcessedTime: item.ProcessedTime.UTC().Format(time.RFC3339),
			ScanID:        item.ScanID,
			Status:        item.Status,
			ErrorMessage:  item.ErrorMessage,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": response})
}

func scanToResponse(scan database.Scan) scanResponse {
	response := scanResponse{
		ID:           scan.ID,
		StartTime:    scan.StartTime.UTC().Format(time.RFC3339),
		TotalFeeds:   scan.TotalFeeds,
		SuccessCount: scan.SuccessCount,
		ErrorCount:   scan.ErrorCount,
		ErrorDetail:  scan.ErrorDetail,
	}
	if scan.EndTime != nil {
		response.EndTime = scan.EndTime.UTC().Format(time.RFC3339)
	}
	return response
}

func parseLimit(raw string) int {
	if raw == "" {
		return defaultListLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	return limit
}
