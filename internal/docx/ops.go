package docx

import (
	"fmt"
	"strings"
)

// AddHeading appends a paragraph using the template's HeadingN style.
// Levels outside 1..9 fall back to a plain paragraph.
func (d *Document) AddHeading(level int, text string, f TextFormat) {
	if level >= 1 && level <= 9 {
		f.StyleID = fmt.Sprintf("Heading%d", level)
	}
	d.appended.WriteString("<w:p>")
	d.appended.WriteString(paraProps(f))
	d.appended.WriteString(textRun(text, runProps(f, f.Bold, false)))
	d.appended.WriteString("</w:p>")
}

// AddParagraph appends a paragraph built from spans. Each span may force
// bold independently of the base format.
func (d *Document) AddParagraph(spans []Span, f TextFormat) {
	d.appended.WriteString("<w:p>")
	d.appended.WriteString(paraProps(f))
	for _, sp := range spans {
		d.appended.WriteString(textRun(sp.Text, runProps(f, f.Bold || sp.Bold, false)))
	}
	d.appended.WriteString("</w:p>")
}

// AddPicture appends a paragraph holding one inline picture. The image
// bytes become a fresh media part; ext selects the content type ("png" or
// "jpeg"). Extents are in EMU.
func (d *Document) AddPicture(data []byte, ext string, cx, cy int64, pf PictureFormat) {
	relID := d.addMedia(data, ext)
	id := d.nextDrawing
	d.nextDrawing++

	d.appended.WriteString("<w:p>")
	d.appended.WriteString(paraProps(TextFormat{Alignment: pf.Alignment}))
	d.appended.WriteString(drawingXML(relID, fmt.Sprintf("Picture %d", id), id, cx, cy))
	d.appended.WriteString("</w:p>")
}

// AddInternalLink appends a paragraph whose single run is a hyperlink to a
// bookmark inside the document.
func (d *Document) AddInternalLink(anchor, label string, f TextFormat) {
	d.appended.WriteString("<w:p>")
	d.appended.WriteString(paraProps(f))
	d.appended.WriteString(`<w:hyperlink w:anchor="` + xmlEscape(anchor) + `">`)
	d.appended.WriteString(textRun(label, runProps(f, f.Bold, true)))
	d.appended.WriteString(`</w:hyperlink>`)
	d.appended.WriteString("</w:p>")
}

// EnsureBookmark guarantees a bookmark named name exists in the document.
// When the template already defines it, nothing changes. Otherwise the
// bookmark wraps the first template paragraph whose text contains keyword,
// falling back to the first paragraph, then to a fresh empty paragraph at
// the top of the body.
func (d *Document) EnsureBookmark(name, keyword string) {
	if d.hasBookmark(name) {
		return
	}
	id := d.nextBookmark
	d.nextBookmark++
	start := fmt.Sprintf(`<w:bookmarkStart w:id="%d" w:name="%s"/>`, id, xmlEscape(name))
	end := fmt.Sprintf(`<w:bookmarkEnd w:id="%d"/>`, id)

	pStart, pEnd := d.anchorParagraph(keyword)
	if pStart == -1 {
		body := strings.Index(d.bodyPrefix, "<w:body>")
		if body == -1 {
			d.appended.WriteString("<w:p>" + start + end + "</w:p>")
			return
		}
		pos := body + len("<w:body>")
		d.bodyPrefix = d.bodyPrefix[:pos] + "<w:p>" + start + end + "</w:p>" + d.bodyPrefix[pos:]
		return
	}
	// Insert the end marker first so the start offset stays valid.
	d.bodyPrefix = d.bodyPrefix[:pEnd] + end + d.bodyPrefix[pEnd:]
	d.bodyPrefix = d.bodyPrefix[:pStart] + start + d.bodyPrefix[pStart:]
}

func (d *Document) hasBookmark(name string) bool {
	marker := `w:name="` + xmlEscape(name) + `"`
	return strings.Contains(d.bodyPrefix, marker) || strings.Contains(d.appended.String(), marker)
}

// anchorParagraph locates the template paragraph that should receive a
// bookmark: the first one containing keyword, else the first paragraph.
// It returns the offset just inside the opening tag and the offset of the
// closing tag, or (-1, -1) when the template body has no paragraphs.
func (d *Document) anchorParagraph(keyword string) (int, int) {
	s := d.bodyPrefix
	at := -1
	if keyword != "" {
		at = strings.Index(s, xmlEscape(keyword))
	}
	if at == -1 {
		open := paragraphOpen(s, 0)
		if open == -1 {
			return -1, -1
		}
		at = open
	}

	open := paragraphOpenBefore(s, at)
	if open == -1 {
		// Keyword matched outside any paragraph, e.g. in an attribute.
		open = paragraphOpen(s, 0)
		if open == -1 {
			return -1, -1
		}
	}
	gt := strings.Index(s[open:], ">")
	if gt == -1 {
		return -1, -1
	}
	inside := open + gt + 1
	closeIdx := strings.Index(s[inside:], "</w:p>")
	if closeIdx == -1 {
		return -1, -1
	}
	return inside, inside + closeIdx
}

// paragraphOpen finds a w:p start tag at or after from, skipping w:pPr and
// other prefixed elements.
func paragraphOpen(s string, from int) int {
	plain := strings.Index(s[from:], "<w:p>")
	attr := strings.Index(s[from:], "<w:p ")
	switch {
	case plain == -1 && attr == -1:
		return -1
	case plain == -1:
		return from + attr
	case attr == -1 || plain < attr:
		return from + plain
	default:
		return from + attr
	}
}

// paragraphOpenBefore finds the last w:p start tag before pos.
func paragraphOpenBefore(s string, pos int) int {
	plain := strings.LastIndex(s[:pos], "<w:p>")
	attr := strings.LastIndex(s[:pos], "<w:p ")
	if attr > plain {
		return attr
	}
	return plain
}
