package feedimporter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// ErrMarkerMismatch is returned when open and close markers do not pair up.
var ErrMarkerMismatch = errors.New("feed markers do not pair up")

// ExtractBetweenMarkers returns the text between each open/close marker
// pair, in document order. Unequal counts, a close marker before its open
// marker and nested open markers are all ErrMarkerMismatch.
func ExtractBetweenMarkers(text, open, close string) ([]string, error) {
	if open == "" || close == "" {
		return nil, fmt.Errorf("ExtractBetweenMarkers(): markers must not be empty")
	}
	entries := []string{}
	pos := 0
	for {
		o := strings.Index(text[pos:], open)
		c := strings.Index(text[pos:], close)
		switch {
		case o < 0 && c < 0:
			return entries, nil
		case o < 0 || (c >= 0 && c < o):
			return nil, fmt.Errorf("%w: close marker at offset %d has no open marker", ErrMarkerMismatch, pos+c)
		}

		start := pos + o + len(open)
		end := strings.Index(text[start:], close)
		if end < 0 {
			return nil, fmt.Errorf("%w: open marker at offset %d is never closed", ErrMarkerMismatch, pos+o)
		}
		if n := strings.Index(text[start:start+end], open); n >= 0 {
			return nil, fmt.Errorf("%w: open marker at offset %d is nested", ErrMarkerMismatch, start+n)
		}
		entries = append(entries, text[start:start+end])
		pos = start + end + len(close)
	}
}

// ExtractItemLinks parses an RSS, Atom or JSON feed and returns its item links.
func ExtractItemLinks(text string) ([]string, error) {
	feed, err := gofeed.NewParser().ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("ExtractItemLinks(): %w", err)
	}
	links := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		if link := strings.TrimSpace(item.Link); link != "" {
			links = append(links, link)
		}
	}
	return links, nil
}

// dedupe keeps the first occurrence of every entry.
func dedupe(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
