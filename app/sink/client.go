package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Client forwards enriched items to the external sink API. Send never
// retries: a failed dispatch is reported to the caller and recorded as a
// failed item for the scan.
type Client struct {
	httpClient *http.Client
	apiURL     string
	folder     string
}

func NewClient(httpClient *http.Client, apiURL, folder string) *Client {
	return &Client{
		httpClient: httpClient,
		apiURL:     apiURL,
		folder:     folder,
	}
}

type payload struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Folder      string   `json:"folder"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
}

// Send posts one item to the sink. A nil return means the sink answered
// with a 2xx status; any transport error or other status is a failure.
func (c *Client) Send(ctx context.Context, title, link, summary string) error {
	body, err := json.Marshal(payload{
		Type:        "url",
		Title:       title,
		Content:     link,
		Folder:      c.folder,
		Description: summary,
		Tags:        []string{},
	})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post item: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sink API error: %d %s", resp.StatusCode, resp.Status)
	}

	return nil
}
