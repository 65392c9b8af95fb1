package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// fallbackEncodings is tried in order when a feed's declared charset does
// not match its bytes. CJK feeds commonly mis-declare GBK content as
// UTF-8, so the simplified-Chinese encodings come first.
var fallbackEncodings = []string{"gb2312", "gbk", "iso-8859-1"}

// encodingDecl matches the encoding attribute of an XML declaration.
var encodingDecl = regexp.MustCompile(`(?i)\s+encoding\s*=\s*["']([^"']*)["']`)

type Fetcher struct {
	httpClient   *http.Client
	gofeedParser *gofeed.Parser
	userAgent    string
}

func NewFetcher(httpClient *http.Client, userAgent string) *Fetcher {
	return &Fetcher{
		httpClient:   httpClient,
		gofeedParser: gofeed.NewParser(),
		userAgent:    userAgent,
	}
}

// Run retrieves and parses one feed. A character-encoding mismatch is
// recovered by re-decoding the raw bytes with each fallback encoding;
// any other parse failure is fatal for the feed and is never retried.
//
// The mismatch check inspects the bytes, not just the parse result: the
// XML tokenizer passes invalid UTF-8 through character data untouched,
// so mis-declared GBK would otherwise "parse" into mojibake.
func (f *Fetcher) Run(ctx context.Context, feedURL string) ([]Entry, Outcome, error) {
	data, err := f.fetch(ctx, feedURL)
	if err != nil {
		return nil, OutcomeFetchError, err
	}

	if utf8.Valid(data) {
		entries, err := f.parse(data)
		if err == nil {
			return entries, OutcomeOK, nil
		}
		if !isEncodingError(err) {
			return nil, OutcomeParseError, err
		}
		// The declaration names a charset the parser rejects but the
		// bytes are UTF-8 already, so dropping it is enough.
		if entries, stripErr := f.parse(stripEncodingDecl(data)); stripErr == nil {
			return entries, OutcomeOK, nil
		}
	} else if name := declaredEncoding(data); name != "" && !strings.EqualFold(name, "utf-8") {
		// Correctly declared legacy charset: the parser's charset
		// reader transcodes it.
		entries, err := f.parse(data)
		if err == nil {
			return entries, OutcomeOK, nil
		}
		if !isEncodingError(err) {
			return nil, OutcomeParseError, err
		}
	}

	// The bytes are not UTF-8 and the declaration is missing, wrong, or
	// unusable. The first fallback encoding that decodes and parses
	// cleanly wins.
	slog.Debug("Feed charset mismatch, trying fallback encodings", "url", feedURL)

	for _, name := range fallbackEncodings {
		decoded, decErr := decodeAs(data, name)
		if decErr != nil {
			continue
		}
		entries, parseErr := f.parse(decoded)
		if parseErr != nil {
			continue
		}
		slog.Debug("Feed recovered with fallback encoding", "url", feedURL, "encoding", name)
		return entries, OutcomeOK, nil
	}

	return nil, OutcomeParseError, fmt.Errorf("failed to parse feed with fallback encodings")
}

func (f *Fetcher) fetch(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func (f *Fetcher) parse(data []byte) ([]Entry, error) {
	parsed, err := f.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entries = append(entries, normalizeItem(item))
	}

	return entries, nil
}

// normalizeItem converts a gofeed item into a concrete Entry. Media
// content declarations are folded into the enclosure list so downstream
// classification never probes the raw extension map.
func normalizeItem(item *gofeed.Item) Entry {
	entry := Entry{
		Link:  item.Link,
		Title: item.Title,
	}

	for _, enclosure := range item.Enclosures {
		if enclosure == nil {
			continue
		}
		entry.Enclosures = append(entry.Enclosures, Enclosure{
			URL:  enclosure.URL,
			Type: enclosure.Type,
		})
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, content := range media["content"] {
			entry.Enclosures = append(entry.Enclosures, Enclosure{
				URL:  content.Attrs["url"],
				Type: content.Attrs["type"],
			})
			if entry.Duration == "" {
				entry.Duration = content.Attrs["duration"]
			}
		}
	}

	if item.ITunesExt != nil && item.ITunesExt.Duration != "" {
		entry.Duration = item.ITunesExt.Duration
	}

	return entry
}

// isEncodingError reports whether a parse failure names a charset
// problem rather than a structural one.
func isEncodingError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "encoding") || strings.Contains(msg, "charset")
}

// declaredEncoding returns the encoding named by the XML declaration, or
// "" when there is none.
func declaredEncoding(data []byte) string {
	idx := bytes.Index(data, []byte("?>"))
	if idx < 0 {
		return ""
	}
	matches := encodingDecl.FindSubmatch(data[:idx])
	if matches == nil {
		return ""
	}
	return string(matches[1])
}

// decodeAs transcodes the raw bytes from the named encoding to UTF-8 and
// drops the stale declaration. A replacement character in the output
// means the bytes were not actually that encoding, so the next rung of
// the ladder gets a chance.
func decodeAs(data []byte, name string) ([]byte, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("failed to decode as %s: %w", name, err)
	}

	if bytes.ContainsRune(decoded, utf8.RuneError) {
		return nil, fmt.Errorf("bytes are not valid %s", name)
	}

	return stripEncodingDecl(decoded), nil
}

func stripEncodingDecl(data []byte) []byte {
	if idx := bytes.Index(data, []byte("?>")); idx >= 0 {
		decl := encodingDecl.ReplaceAll(data[:idx], nil)
		return append(decl, data[idx:]...)
	}
	return data
}
