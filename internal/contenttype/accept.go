package contenttype

import (
	"mime"
	"strconv"
	"strings"

	"github.com/assetforge/forge/pkg/assetapi"
)

// Accept is one entry of a parsed accept preference list: a mime type
// pattern and its quality value.
type Accept struct {
	Type    string  `json:"type"`
	Quality float64 `json:"quality"`
}

// ParseAccept parses a quality-weighted accept header into an ordered list
// of (pattern, quality) pairs. An empty header means "anything", i.e.
// a single */* entry at quality 1. Entries that fail to parse are skipped;
// q values are clamped to [0, 1] and default to 1.
func ParseAccept(header string) []Accept {
	if strings.TrimSpace(header) == "" {
		return []Accept{{Type: assetapi.MimeWildcard, Quality: 1.0}}
	}

	var accepts []Accept
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		mediaType, params, err := mime.ParseMediaType(part)
		if err != nil {
			continue
		}
		q := 1.0
		if raw, ok := params["q"]; ok {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			q = parsed
		}
		if q < 0 {
			q = 0
		} else if q > 1 {
			q = 1
		}
		accepts = append(accepts, Accept{Type: mediaType, Quality: q})
	}
	return accepts
}

// Pattern specificity ranks: exact type > type/* > */*.
const (
	specNone = iota
	specFullWildcard
	specSubtypeWildcard
	specExact
)

// matchSpecificity reports how specifically pattern matches candidate,
// or specNone when it does not match.
func matchSpecificity(pattern, candidate string) int {
	switch {
	case pattern == candidate:
		return specExact
	case pattern == assetapi.MimeWildcard:
		return specFullWildcard
	case strings.HasSuffix(pattern, "/*"):
		prefix := strings.TrimSuffix(pattern, "*")
		if strings.HasPrefix(candidate, prefix) {
			return specSubtypeWildcard
		}
	}
	return specNone
}
