package csv2docx

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-csv2docx/internal/content"
)

// renderer writes rows onto a Document. It carries cross-row state: the
// set of level-1 headings already written, so repeated section headers
// collapse into one no matter how far apart their rows are.
type renderer struct {
	fetcher  *Fetcher
	noImages bool

	seenHeading1 map[string]bool
}

// rowRender reports what a rendered row produced.
type rowRender struct {
	title    string
	warnings []string
}

// renderRow writes one row. Image failures degrade to warnings; anything
// that panics inside rendering is converted to an error so one malformed
// row cannot abort the run.
func (r *renderer) renderRow(ctx context.Context, doc Document, row Row, tpl *Template) (res rowRender, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("rendering row panicked: %v", p)
		}
	}()
	if err := ctx.Err(); err != nil {
		return rowRender{}, err
	}

	r.renderHeadings(doc, row, tpl)
	res.title = r.renderTitle(doc, row, tpl)
	res.warnings = r.renderContent(ctx, doc, row, tpl)
	r.renderSourceDate(doc, row, tpl)
	if content.Clean(row.Get(FieldContent)) != "" {
		r.renderReturnLink(doc, tpl)
	}
	return res, nil
}

// renderHeadings writes heading_1 and heading_2. A heading_1 already
// written for an earlier row is suppressed so every section header
// appears once per run.
func (r *renderer) renderHeadings(doc Document, row Row, tpl *Template) {
	if h1 := row.Get(FieldHeading1); h1 != "" && !r.seenHeading1[h1] {
		if level, ok := tpl.HeadingLevel(FieldHeading1); ok {
			doc.AppendHeading(level, h1, ParagraphStyle{})
		}
		if r.seenHeading1 == nil {
			r.seenHeading1 = make(map[string]bool)
		}
		r.seenHeading1[h1] = true
	}
	if h2 := row.Get(FieldHeading2); h2 != "" {
		if level, ok := tpl.HeadingLevel(FieldHeading2); ok {
			doc.AppendHeading(level, h2, ParagraphStyle{})
		}
	}
}

// renderTitle writes the row title as a heading. heading_3 wins over title
// when both are present. Ticker parentheticals are stripped and the result
// is wrapped by the template's title format.
func (r *renderer) renderTitle(doc Document, row Row, tpl *Template) string {
	field := FieldHeading3
	raw := row.Get(FieldHeading3)
	if raw == "" {
		field = FieldTitle
		raw = row.Get(FieldTitle)
	}
	if raw == "" {
		return ""
	}

	title := content.Clean(raw)
	if title == "" {
		return ""
	}
	if level, ok := tpl.HeadingLevel(field); ok {
		doc.AppendHeading(level, tpl.FormatTitle(title), tpl.TitleStyle())
	}
	return title
}

// renderContent writes the body paragraphs, interleaving inline images at
// the position their URL held in the text.
func (r *renderer) renderContent(ctx context.Context, doc Document, row Row, tpl *Template) []string {
	body := content.Clean(row.Get(FieldContent))
	if body == "" {
		return nil
	}

	var warnings []string
	style := tpl.ContentStyle()
	for _, para := range content.SplitParagraphs(body) {
		for _, line := range splitLines(para) {
			warnings = append(warnings, r.renderLine(ctx, doc, line, tpl, style)...)
		}
	}
	return warnings
}

// renderLine writes one content line as paragraphs, interleaving inline
// images at the position their URL held in the text.
func (r *renderer) renderLine(ctx context.Context, doc Document, line string, tpl *Template, style ParagraphStyle) []string {
	var warnings []string
	for _, seg := range content.ScanImageURLs(line) {
		switch {
		case seg.URL != "":
			if w := r.renderImage(ctx, doc, seg.URL, tpl); w != "" {
				warnings = append(warnings, w)
			}
		case content.LooksLikeInlineHeading(seg.Text):
			doc.AppendParagraph([]TextSpan{{Text: seg.Text, Bold: true}}, style)
		case seg.Text != "":
			doc.AppendParagraph(toTextSpans(content.Spans(seg.Text)), style)
		}
	}
	return warnings
}

func splitLines(para string) []string {
	var out []string
	for _, line := range strings.Split(para, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// renderImage fetches and places one inline image, returning a warning
// message on failure.
func (r *renderer) renderImage(ctx context.Context, doc Document, url string, tpl *Template) string {
	if r.noImages || r.fetcher == nil {
		return ""
	}
	img, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Sprintf("image skipped: %s: %v", url, err)
	}
	doc.AppendImage(img.Data, img.Format, img.Width, img.Height, tpl.ImageStyle())
	return ""
}

// renderSourceDate writes the combined attribution line.
func (r *renderer) renderSourceDate(doc Document, row Row, tpl *Template) {
	source := row.Get(FieldSource)
	date := row.Get(FieldDate)
	if source == "" && date == "" {
		return
	}

	var line string
	switch {
	case source != "" && date != "":
		line = source + " " + date
	case source != "":
		line = "来源：" + source
	default:
		line = date
	}
	doc.AppendParagraph([]TextSpan{{Text: line}}, tpl.SourceDateStyle())
}

// renderReturnLink writes the link back to the table of contents bookmark.
func (r *renderer) renderReturnLink(doc Document, tpl *Template) {
	link := tpl.ReturnLink()
	if link == nil {
		return
	}
	doc.AppendReturnLink(tpl.TargetBookmark(), link.Text, ParagraphStyle{
		Underline: link.Underline,
		Alignment: link.Alignment,
	})
}

func toTextSpans(spans []content.Span) []TextSpan {
	out := make([]TextSpan, len(spans))
	for i, sp := range spans {
		out[i] = TextSpan{Text: sp.Text, Bold: sp.Bold}
	}
	return out
}

// collectImageURLs gathers every distinct image URL across rows, in first
// appearance order, for prefetching.
func collectImageURLs(rows []Row) []string {
	var urls []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, seg := range content.ScanImageURLs(content.Clean(row.Get(FieldContent))) {
			if seg.URL != "" && !seen[seg.URL] {
				seen[seg.URL] = true
				urls = append(urls, seg.URL)
			}
		}
	}
	return urls
}
