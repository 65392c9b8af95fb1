package feed

import "context"

// Kind is the closed set of content kinds assigned by the Classifier.
type Kind int

const (
	KindArticle Kind = iota
	KindVideo
	KindAudio
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindArticle:
		return "article"
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	default:
		return "other"
	}
}

// Enclosure is one declared media attachment of an entry.
type Enclosure struct {
	URL  string
	Type string
}

// Entry is one syndication item as parsed from a feed. It exists only
// for the duration of processing that item.
type Entry struct {
	Link       string
	Title      string
	Enclosures []Enclosure
	Duration   string
}

// Outcome classifies the result of fetching and parsing one feed.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeFetchError
	OutcomeParseError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeFetchError:
		return "fetch_error"
	default:
		return "parse_error"
	}
}

// Enrichment is the best-effort augmentation of one entry. Partial is
// set when an internal step failed and fields are missing; it never
// blocks dispatch.
type Enrichment struct {
	Kind    Kind
	Summary string
	Partial bool
	Fields  map[string]string
}

// Result holds per-feed success and error counts for one scan.
type Result struct {
	Success int
	Error   int
}

// Summarizer produces a natural-language summary of extracted article
// text.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
}

// Dispatcher forwards one enriched item to the external sink. A nil
// return means the sink accepted the item.
type Dispatcher interface {
	Send(ctx context.Context, title, link, summary string) error
}
