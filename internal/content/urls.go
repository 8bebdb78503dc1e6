package content

import (
	"regexp"
	"strings"
)

// urlPattern matches http(s) URLs embedded in prose. CJK characters terminate
// a match because body text regularly runs straight into a URL with no space.
var urlPattern = regexp.MustCompile(`https?://[^\s\p{Han}]+`)

// Image URL heuristics: a known image extension (query/fragment allowed
// after it), or a host segment typical of image CDNs.
var (
	imageExtPattern  = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|bmp|webp|svg)(?:[?#]\S*)?$`)
	imageHostPattern = regexp.MustCompile(`(?i)(?:img\.|image\.|pic\.|photo\.|cdn\.|oss\.|qpic\.)`)
)

// trailingPunct are separator characters that prose wraps around a URL but
// that are never part of it: closing brackets, quotes, and both half- and
// full-width sentence punctuation. Query characters (? & = % #) stay.
const trailingPunct = `),.;:!?'"]>}，。；：！？""''》】）、＞』」`

// Segment is one alternating piece of scanned content: either plain text or
// a detected image URL (never both).
type Segment struct {
	Text string
	URL  string
}

// ScanImageURLs splits text into alternating text/URL segments, preserving
// source order. URLs that do not look like images stay inside text segments.
// Trailing punctuation stripped off a URL is pushed into the following text
// segment so nothing from the source is lost.
func ScanImageURLs(text string) []Segment {
	var segs []Segment
	last := 0

	for _, loc := range urlPattern.FindAllStringIndex(text, -1) {
		raw := text[loc[0]:loc[1]]
		url, trailing := SanitizeURL(raw)
		if !IsLikelyImageURL(url) {
			continue
		}
		if pre := text[last:loc[0]]; pre != "" {
			segs = append(segs, Segment{Text: pre})
		}
		segs = append(segs, Segment{URL: url})
		if trailing != "" {
			segs = append(segs, Segment{Text: trailing})
		}
		last = loc[1]
	}

	if rest := text[last:]; rest != "" || len(segs) == 0 {
		segs = append(segs, Segment{Text: rest})
	}
	return segs
}

// SanitizeURL strips trailing separator punctuation from a matched URL and
// returns the clean URL plus whatever was stripped. If stripping would
// consume the whole match, the original string is returned untouched.
func SanitizeURL(raw string) (clean, trailing string) {
	s := raw
	for s != "" {
		r := []rune(s)
		lastR := string(r[len(r)-1])
		if !strings.Contains(trailingPunct, lastR) {
			break
		}
		trailing = lastR + trailing
		s = string(r[:len(r)-1])
	}
	if s == "" {
		return raw, ""
	}
	return s, trailing
}

// IsLikelyImageURL reports whether a URL plausibly points at an image,
// based on extension or image-host naming. Ambiguous URLs are not images:
// fetching an article page and embedding the HTML bytes is worse than
// leaving a link in the text.
func IsLikelyImageURL(url string) bool {
	if url == "" {
		return false
	}
	return imageExtPattern.MatchString(url) || imageHostPattern.MatchString(url)
}
