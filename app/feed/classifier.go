package feed

import (
	"net/url"
	"strings"
)

// videoDomains is the known set of video-hosting domains. Subdomains
// match too (www.youtube.com, player.vimeo.com).
var videoDomains = []string{
	"youtube.com",
	"youtu.be",
	"youtube-nocookie.com",
	"vimeo.com",
}

type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Run assigns a content kind to an entry. It is total: unknown or empty
// entries classify as articles, the optimistic default.
func (c *Classifier) Run(link string, entry Entry) Kind {
	if isVideoHost(link) {
		return KindVideo
	}

	for _, enclosure := range entry.Enclosures {
		if strings.Contains(strings.ToLower(enclosure.Type), "audio") {
			return KindAudio
		}
	}

	return KindArticle
}

func isVideoHost(link string) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	for _, domain := range videoDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}

	return false
}
