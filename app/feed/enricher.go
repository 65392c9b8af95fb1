package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// youtubeIDPattern extracts the 11-character video identifier from the
// common youtube URL shapes (watch, embed, short links).
var youtubeIDPattern = regexp.MustCompile(`(?:youtube(?:-nocookie)?\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/ ]{11})`)

// Enricher augments entries per content kind. It never returns an error:
// every internal failure degrades to a partial Enrichment so a failed
// extraction or summarization can never block forwarding.
type Enricher struct {
	httpClient *http.Client
	summarizer Summarizer
	userAgent  string
}

func NewEnricher(httpClient *http.Client, summarizer Summarizer, userAgent string) *Enricher {
	return &Enricher{
		httpClient: httpClient,
		summarizer: summarizer,
		userAgent:  userAgent,
	}
}

func (e *Enricher) Run(ctx context.Context, link string, entry Entry, kind Kind) Enrichment {
	switch kind {
	case KindVideo:
		return e.enrichVideo(link, entry)
	case KindAudio:
		return e.enrichAudio(link, entry)
	case KindOther:
		return Enrichment{
			Kind:   kind,
			Fields: map[string]string{"original_url": link},
		}
	default:
		return e.enrichArticle(ctx, link)
	}
}

// enrichArticle extracts readable text from the page and asks the
// summarizer for a summary. Both steps are best-effort.
func (e *Enricher) enrichArticle(ctx context.Context, link string) Enrichment {
	enrichment := Enrichment{Kind: KindArticle, Partial: true}

	content, err := e.extractText(ctx, link)
	if err != nil {
		slog.Warn("Article text extraction failed", "url", link, "error", err)
		return enrichment
	}

	if e.summarizer == nil {
		return enrichment
	}

	summary, err := e.summarizer.Summarize(ctx, content)
	if err != nil {
		slog.Warn("Article summarization failed", "url", link, "error", err)
		return enrichment
	}

	enrichment.Summary = strings.TrimSpace(summary)
	enrichment.Partial = enrichment.Summary == ""
	return enrichment
}

func (e *Enricher) enrichVideo(link string, entry Entry) Enrichment {
	fields := map[string]string{"original_url": link}

	matches := youtubeIDPattern.FindStringSubmatch(link)
	if matches == nil {
		return Enrichment{Kind: KindVideo, Partial: true, Fields: fields}
	}

	videoID := matches[1]
	fields["video_id"] = videoID
	fields["thumbnail"] = fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID)
	if entry.Duration != "" {
		fields["duration"] = entry.Duration
	}

	return Enrichment{Kind: KindVideo, Fields: fields}
}

func (e *Enricher) enrichAudio(link string, entry Entry) Enrichment {
	fields := map[string]string{"original_url": link}

	enrichment := Enrichment{Kind: KindAudio, Partial: true, Fields: fields}
	for _, enclosure := range entry.Enclosures {
		if strings.Contains(strings.ToLower(enclosure.Type), "audio") {
			fields["audio_url"] = enclosure.URL
			enrichment.Partial = false
			break
		}
	}

	if entry.Duration != "" {
		fields["duration"] = entry.Duration
	}

	return enrichment
}

func (e *Enricher) extractText(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	pageURL, _ := url.Parse(link)
	article, err := readability.FromReader(strings.NewReader(string(data)), pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no content extracted from page")
	}

	return text, nil
}
