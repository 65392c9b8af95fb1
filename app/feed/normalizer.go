package feed

import (
	"encoding/hex"
	"net/url"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// NormalizeURL canonicalizes a link for deduplication: the host is
// lower-cased and the fragment stripped, everything else is left
// untouched. Unparseable URLs pass through unchanged.
func NormalizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""

	return parsed.String()
}

// Address derives the stable content address of a link: the hex-encoded
// 128-bit BLAKE2b hash of the normalized URL. The hash is unkeyed, so
// the mapping is identical across runs and platforms.
func Address(raw string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(NormalizeURL(raw)))
	return hex.EncodeToString(h.Sum(nil))
}
