package csv2docx

import (
	"fmt"

	"github.com/alnah/go-csv2docx/internal/docx"
	"github.com/alnah/go-csv2docx/internal/imaging"
)

// ParagraphStyle describes text and paragraph formatting for generated
// content. Zero values inherit from the document template.
type ParagraphStyle struct {
	FontName     string
	FontSizePt   float64
	Bold         bool
	Underline    bool
	Alignment    string  // "left", "center", "right", "justify"
	LineSpacing  float64 // multiple of single line height
	SpaceAfterPt float64
	IndentChars  int // first-line indent in characters
}

// TextSpan is a run of paragraph text with an optional bold override.
type TextSpan struct {
	Text string
	Bold bool
}

// ImageStyle bounds and positions an inline picture.
type ImageStyle struct {
	MaxWidthInches  float64
	MaxHeightInches float64
	Alignment       string
}

// Document receives rendered content. The default implementation writes an
// OOXML archive; tests substitute a recording fake via WithOpener.
type Document interface {
	// AppendHeading adds a heading paragraph at the given outline level.
	AppendHeading(level int, text string, style ParagraphStyle)

	// AppendParagraph adds a body paragraph built from spans.
	AppendParagraph(spans []TextSpan, style ParagraphStyle)

	// AppendImage adds an inline picture. Format is "png" or "jpeg" and the
	// pixel dimensions are the image's natural size before fitting.
	AppendImage(data []byte, format string, widthPx, heightPx int, style ImageStyle)

	// AppendReturnLink adds a paragraph linking back to a named bookmark.
	AppendReturnLink(anchor, label string, style ParagraphStyle)

	// EnsureBookmark guarantees a bookmark exists, anchoring it at the first
	// template paragraph containing keyword when it must be created.
	EnsureBookmark(name, keyword string)

	// AppendDocument merges another .docx file after the generated content.
	AppendDocument(path string) error

	// Save writes the document to path.
	Save(path string) error
}

// DocumentOpener creates a Document from a start template path.
type DocumentOpener func(templatePath string) (Document, error)

// openDocx is the default opener backed by internal/docx.
func openDocx(templatePath string) (Document, error) {
	d, err := docx.Open(templatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenTemplate, err)
	}
	return &docxDocument{doc: d}, nil
}

// docxDocument adapts the public Document interface onto the OOXML writer.
type docxDocument struct {
	doc *docx.Document
}

var _ Document = (*docxDocument)(nil)

func toTextFormat(s ParagraphStyle) docx.TextFormat {
	return docx.TextFormat{
		FontName:     s.FontName,
		FontSizePt:   s.FontSizePt,
		Bold:         s.Bold,
		Underline:    s.Underline,
		Alignment:    s.Alignment,
		LineSpacing:  s.LineSpacing,
		SpaceAfterPt: s.SpaceAfterPt,
		IndentChars:  s.IndentChars,
	}
}

func (d *docxDocument) AppendHeading(level int, text string, style ParagraphStyle) {
	d.doc.AddHeading(level, text, toTextFormat(style))
}

func (d *docxDocument) AppendParagraph(spans []TextSpan, style ParagraphStyle) {
	runs := make([]docx.Span, len(spans))
	for i, sp := range spans {
		runs[i] = docx.Span{Text: sp.Text, Bold: sp.Bold}
	}
	d.doc.AddParagraph(runs, toTextFormat(style))
}

func (d *docxDocument) AppendImage(data []byte, format string, widthPx, heightPx int, style ImageStyle) {
	wIn, hIn := imaging.FitSize(widthPx, heightPx, style.MaxWidthInches, style.MaxHeightInches)
	d.doc.AddPicture(data, format, docx.EMU(wIn), docx.EMU(hIn), docx.PictureFormat{
		Alignment: style.Alignment,
	})
}

func (d *docxDocument) AppendReturnLink(anchor, label string, style ParagraphStyle) {
	d.doc.AddInternalLink(anchor, label, toTextFormat(style))
}

func (d *docxDocument) EnsureBookmark(name, keyword string) {
	d.doc.EnsureBookmark(name, keyword)
}

func (d *docxDocument) AppendDocument(path string) error {
	return d.doc.AppendDocument(path)
}

func (d *docxDocument) Save(path string) error {
	if err := d.doc.Save(path); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDocument, err)
	}
	return nil
}
