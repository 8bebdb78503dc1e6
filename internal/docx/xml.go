package docx

import (
	"fmt"
	"strings"
)

// Span is a run of text with an optional bold toggle layered over the
// paragraph's base format.
type Span struct {
	Text string
	Bold bool
}

// TextFormat describes run and paragraph properties for generated content.
// Zero values mean "inherit from the document style".
type TextFormat struct {
	FontName     string
	FontSizePt   float64
	Bold         bool
	Underline    bool
	Alignment    string  // "left", "center", "right", "justify"
	LineSpacing  float64 // multiple of single line height
	SpaceAfterPt float64
	IndentChars  int // first-line indent in characters
	StyleID      string
}

// PictureFormat positions an inline picture.
type PictureFormat struct {
	Alignment string
}

// EMU converts inches to English Metric Units, the length unit of
// DrawingML extents.
func EMU(inches float64) int64 {
	return int64(inches * 914400)
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string {
	return escaper.Replace(s)
}

// alignmentVal maps a format alignment to the w:jc value. OOXML spells
// justified text "both".
func alignmentVal(alignment string) string {
	switch alignment {
	case "left", "center", "right":
		return alignment
	case "justify":
		return "both"
	default:
		return ""
	}
}

// paraProps renders the w:pPr element, or "" when every property is unset.
func paraProps(f TextFormat) string {
	var b strings.Builder
	if f.StyleID != "" {
		fmt.Fprintf(&b, `<w:pStyle w:val="%s"/>`, xmlEscape(f.StyleID))
	}
	if jc := alignmentVal(f.Alignment); jc != "" {
		fmt.Fprintf(&b, `<w:jc w:val="%s"/>`, jc)
	}
	if f.LineSpacing > 0 || f.SpaceAfterPt > 0 {
		b.WriteString("<w:spacing")
		if f.SpaceAfterPt > 0 {
			// Spacing after is measured in twentieths of a point.
			fmt.Fprintf(&b, ` w:after="%d"`, int(f.SpaceAfterPt*20+0.5))
		}
		if f.LineSpacing > 0 {
			// Auto line rule measures in 240ths of a line.
			fmt.Fprintf(&b, ` w:line="%d" w:lineRule="auto"`, int(f.LineSpacing*240+0.5))
		}
		b.WriteString("/>")
	}
	if f.IndentChars > 0 {
		fmt.Fprintf(&b, `<w:ind w:firstLineChars="%d"/>`, f.IndentChars*100)
	}
	if b.Len() == 0 {
		return ""
	}
	return "<w:pPr>" + b.String() + "</w:pPr>"
}

// runProps renders the w:rPr element for a run, or "" when empty. The bold
// argument overrides f.Bold so individual spans can toggle weight.
func runProps(f TextFormat, bold, hyperlink bool) string {
	var b strings.Builder
	if hyperlink {
		b.WriteString(`<w:rStyle w:val="Hyperlink"/>`)
	}
	if f.FontName != "" {
		name := xmlEscape(f.FontName)
		fmt.Fprintf(&b, `<w:rFonts w:ascii="%s" w:eastAsia="%s" w:hAnsi="%s" w:cs="%s"/>`,
			name, name, name, name)
	}
	if bold {
		b.WriteString("<w:b/>")
	}
	if f.Underline {
		b.WriteString(`<w:u w:val="single"/>`)
	}
	if f.FontSizePt > 0 {
		// Half-points.
		sz := int(f.FontSizePt*2 + 0.5)
		fmt.Fprintf(&b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, sz, sz)
	}
	if b.Len() == 0 {
		return ""
	}
	return "<w:rPr>" + b.String() + "</w:rPr>"
}

// textRun renders a single w:r with escaped text. Whitespace is preserved so
// leading and trailing spaces survive round-tripping through Word.
func textRun(text, props string) string {
	return "<w:r>" + props + `<w:t xml:space="preserve">` + xmlEscape(text) + "</w:t></w:r>"
}

// drawingXML renders an inline picture anchored to a run. Namespaces are
// declared on the elements themselves so the fragment stays valid no matter
// which declarations the template's document root carries.
func drawingXML(relID, name string, docPrID int, cx, cy int64) string {
	return fmt.Sprintf(`<w:r><w:drawing>`+
		`<wp:inline distT="0" distB="0" distL="0" distR="0" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">`+
		`<wp:extent cx="%[4]d" cy="%[5]d"/>`+
		`<wp:docPr id="%[3]d" name="%[2]s"/>`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:nvPicPr><pic:cNvPr id="%[3]d" name="%[2]s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%[1]s" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[4]d" cy="%[5]d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`,
		relID, xmlEscape(name), docPrID, cx, cy)
}
