// Package content prepares raw row text for document rendering: whitespace
// normalization, paragraph splitting, embedded image URL detection, and
// inline emphasis parsing.
package content

import (
	"regexp"
	"strings"
)

// tickerPattern matches stock-ticker parentheticals like （688333.SH） or
// (3931.HK), with full- or half-width brackets and dots. These are editorial
// noise in financial news feeds and are stripped before rendering.
var tickerPattern = regexp.MustCompile(`[（(]\s*\d{4,6}\s*[．.]\s*[A-Za-z]{1,5}\s*[)）]`)

var (
	spaceRuns     = regexp.MustCompile(`[ \t]+`)
	blankLineRuns = regexp.MustCompile(`\n\s*\n\s*\n+`)
	paraBreaks    = regexp.MustCompile(`\n{2,}`)
)

// Clean normalizes row body text: strips ticker parentheticals and full-width
// spaces, collapses space runs, trims each line, and compresses three or more
// consecutive blank lines down to one blank line.
func Clean(s string) string {
	s = tickerPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "　", "")
	s = spaceRuns.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")

	return blankLineRuns.ReplaceAllString(s, "\n\n")
}

// SplitParagraphs splits cleaned text into paragraphs on blank lines.
// Text without blank lines yields a single paragraph. Empty input yields nil.
func SplitParagraphs(s string) []string {
	var out []string
	for _, part := range paraBreaks.Split(s, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// sentenceEnders are punctuation that disqualifies a line from being treated
// as an inline heading.
const sentenceEnders = "。；;.!！？?:："

// LooksLikeInlineHeading reports whether a content line reads like a short
// section title that should be bolded. The heuristic targets CJK prose:
// short lines without sentence punctuation, or a "关键词：描述" pattern.
func LooksLikeInlineHeading(s string) bool {
	t := strings.TrimSpace(s)
	n := len([]rune(t))
	if n < 6 || n > 50 {
		return false
	}
	lower := strings.ToLower(t)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return false
	}

	// "关键词：描述" pattern: short keyword prefix before a colon.
	if idx := strings.IndexAny(t, "：:"); idx > 0 {
		prefix := []rune(t[:idx])
		suffix := t[idx:]
		suffix = strings.TrimLeft(suffix, "：:")
		if len(prefix) >= 2 && len(prefix) <= 8 &&
			!strings.ContainsAny(lastRune(suffix), "。；;.!！？?") &&
			countHan(t) >= 3 {
			return true
		}
	}

	if strings.ContainsAny(lastRune(t), sentenceEnders) {
		return false
	}
	for _, ch := range "，、；。.!！？" {
		if strings.ContainsRune(t, ch) {
			return false
		}
	}
	if countHan(t) < 2 {
		return false
	}

	punct := 0
	for _, r := range t {
		if strings.ContainsRune(`''()（）[]【】<>《》—-··+/:"`, r) {
			punct++
		}
	}
	limit := n / 6
	if limit < 2 {
		limit = 2
	}
	return punct <= limit
}

func lastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return ""
	}
	return string(r[len(r)-1])
}

func countHan(s string) int {
	count := 0
	for _, r := range s {
		if r >= 0x4e00 && r <= 0x9fff {
			count++
		}
	}
	return count
}
