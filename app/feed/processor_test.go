package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/rss-relay/app/database"
)

type recordedItem struct {
	feedName     string
	link         string
	title        string
	linkHash     string
	scanID       int64
	status       string
	errorMessage string
}

type fakeItemRepo struct {
	processed map[string]bool
	records   []recordedItem
	reject    bool
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{processed: make(map[string]bool)}
}

func (r *fakeItemRepo) IsProcessed(linkHash string) (bool, error) {
	return r.processed[linkHash], nil
}

func (r *fakeItemRepo) RecordItem(feedName, link, title, linkHash string, scanID int64, status, errorMessage string) (bool, error) {
	if r.reject {
		return false, nil
	}
	r.records = append(r.records, recordedItem{feedName, link, title, linkHash, scanID, status, errorMessage})
	return true, nil
}

func (r *fakeItemRepo) GetRecentItems(limit int) ([]database.ProcessedItem, error) {
	return nil, nil
}

func (r *fakeItemRepo) GetItemCount() (int, error) {
	return len(r.records), nil
}

type sentItem struct {
	title   string
	link    string
	summary string
}

type fakeDispatcher struct {
	failLinks map[string]bool
	sent      []sentItem
}

func (d *fakeDispatcher) Send(_ context.Context, title, link, summary string) error {
	if d.failLinks[link] {
		return fmt.Errorf("sink API error: 503 Service Unavailable")
	}
	d.sent = append(d.sent, sentItem{title, link, summary})
	return nil
}

// newFeedServer serves a two-entry feed at /feed and readable article
// pages at the entry links, so enrichment stays inside the test.
func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/feed" {
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>%s</link>
    <item>
      <title>First Post</title>
      <link>%s/first</link>
    </item>
    <item>
      <title>Second Post</title>
      <link>%s/second</link>
    </item>
  </channel>
</rss>`, server.URL, server.URL, server.URL)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleHTML))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestProcessor(server *httptest.Server, repo *fakeItemRepo, dispatcher *fakeDispatcher) *Processor {
	client := &http.Client{Timeout: 5 * time.Second}
	fetcher := NewFetcher(client, "test-agent/1.0")
	classifier := NewClassifier()
	enricher := NewEnricher(client, &fakeSummarizer{summary: "summary text"}, "test-agent/1.0")
	return NewProcessor(fetcher, classifier, enricher, dispatcher, repo)
}

func TestProcessFeed(t *testing.T) {
	server := newFeedServer(t)
	repo := newFakeItemRepo()
	dispatcher := &fakeDispatcher{}
	processor := newTestProcessor(server, repo, dispatcher)

	result := processor.ProcessFeed(context.Background(), "test", server.URL+"/feed", 1)

	if result.Success != 2 || result.Error != 0 {
		t.Errorf("Expected 2 successes, got: %+v", result)
	}
	if len(repo.records) != 2 {
		t.Fatalf("Expected 2 recorded items, got: %d", len(repo.records))
	}
	for _, record := range repo.records {
		if record.status != database.StatusSuccess {
			t.Errorf("Expected success status, got: %s", record.status)
		}
		if record.scanID != 1 {
			t.Errorf("Expected scan id 1, got: %d", record.scanID)
		}
		if len(record.linkHash) != 32 {
			t.Errorf("Expected 32-character link hash, got: %s", record.linkHash)
		}
	}
	if len(dispatcher.sent) != 2 {
		t.Fatalf("Expected 2 dispatched items, got: %d", len(dispatcher.sent))
	}
	if dispatcher.sent[0].summary != "summary text" {
		t.Errorf("Expected summary forwarded to sink, got: %s", dispatcher.sent[0].summary)
	}
}

func TestProcessFeedSkipsProcessed(t *testing.T) {
	server := newFeedServer(t)
	repo := newFakeItemRepo()
	repo.processed[Address(server.URL+"/first")] = true
	dispatcher := &fakeDispatcher{}
	processor := newTestProcessor(server, repo, dispatcher)

	result := processor.ProcessFeed(context.Background(), "test", server.URL+"/feed", 1)

	if result.Success != 1 || result.Error != 0 {
		t.Errorf("Expected 1 success, got: %+v", result)
	}
	if len(repo.records) != 1 {
		t.Fatalf("Expected 1 recorded item, got: %d", len(repo.records))
	}
	if repo.records[0].link != server.URL+"/second" {
		t.Errorf("Expected only the unseen entry recorded, got: %s", repo.records[0].link)
	}
}

func TestProcessFeedDispatchFailure(t *testing.T) {
	server := newFeedServer(t)
	repo := newFakeItemRepo()
	dispatcher := &fakeDispatcher{failLinks: map[string]bool{server.URL + "/second": true}}
	processor := newTestProcessor(server, repo, dispatcher)

	result := processor.ProcessFeed(context.Background(), "test", server.URL+"/feed", 1)

	if result.Success != 1 || result.Error != 1 {
		t.Errorf("Expected 1 success and 1 error, got: %+v", result)
	}

	var failedRecord *recordedItem
	for i := range repo.records {
		if repo.records[i].status == database.StatusFailed {
			failedRecord = &repo.records[i]
		}
	}
	if failedRecord == nil {
		t.Fatal("Expected a failed item recorded")
	}
	if !strings.Contains(failedRecord.errorMessage, "503") {
		t.Errorf("Expected dispatch error recorded, got: %s", failedRecord.errorMessage)
	}
}

func TestProcessFeedFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	repo := newFakeItemRepo()
	dispatcher := &fakeDispatcher{}
	processor := newTestProcessor(server, repo, dispatcher)

	result := processor.ProcessFeed(context.Background(), "test", server.URL, 1)

	// An unavailable feed contributes no counts to the scan
	if result.Success != 0 || result.Error != 0 {
		t.Errorf("Expected zero counts, got: %+v", result)
	}
	if len(repo.records) != 0 {
		t.Errorf("Expected no recorded items, got: %d", len(repo.records))
	}
}

func TestProcessFeedEntryWithoutLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Broken Feed</title>
    <link>https://example.com</link>
    <item>
      <title>No Link Here</title>
    </item>
  </channel>
</rss>`))
	}))
	defer server.Close()

	repo := newFakeItemRepo()
	dispatcher := &fakeDispatcher{}
	processor := newTestProcessor(server, repo, dispatcher)

	result := processor.ProcessFeed(context.Background(), "test", server.URL, 1)

	if result.Success != 0 || result.Error != 1 {
		t.Errorf("Expected 1 error, got: %+v", result)
	}
	if len(repo.records) != 0 {
		t.Errorf("Expected no recorded items, got: %d", len(repo.records))
	}
}

func TestProcessFeedRaceLoserNotCounted(t *testing.T) {
	server := newFeedServer(t)
	repo := newFakeItemRepo()
	repo.reject = true
	dispatcher := &fakeDispatcher{}
	processor := newTestProcessor(server, repo, dispatcher)

	result := processor.ProcessFeed(context.Background(), "test", server.URL+"/feed", 1)

	// Another worker recorded the same addresses first
	if result.Success != 0 || result.Error != 0 {
		t.Errorf("Expected zero counts when every insert loses the race, got: %+v", result)
	}
}

func TestProcessFeedCancelledContext(t *testing.T) {
	server := newFeedServer(t)
	repo := newFakeItemRepo()
	dispatcher := &fakeDispatcher{}
	processor := newTestProcessor(server, repo, dispatcher)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := processor.ProcessFeed(ctx, "test", server.URL+"/feed", 1)

	if result.Success != 0 || result.Error != 0 {
		t.Errorf("Expected zero counts, got: %+v", result)
	}
}
