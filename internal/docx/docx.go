// Package docx writes Word documents by manipulating the OOXML package
// directly: a .docx file is a zip archive whose word/document.xml carries the
// body content. The package opens an existing template, splices generated
// paragraphs into the body, and rebuilds the archive on save. It never
// depends on an external Word library.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/alnah/go-csv2docx/internal/fileutil"
)

// Sentinel errors for document operations.
var (
	ErrOpenArchive   = errors.New("failed to open docx archive")
	ErrNoDocumentXML = errors.New("archive has no word/document.xml")
	ErrMalformedBody = errors.New("document.xml has no body element")
)

// OOXML part names manipulated directly.
const (
	documentPart     = "word/document.xml"
	documentRelsPart = "word/_rels/document.xml.rels"
	contentTypesPart = "[Content_Types].xml"
)

const relsSkeleton = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

// Relationship type URIs.
const (
	relTypeImage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
)

var (
	relIDPattern      = regexp.MustCompile(`Id="rId(\d+)"`)
	bookmarkIDPattern = regexp.MustCompile(`<w:bookmarkStart[^>]*w:id="(\d+)"`)
)

// Document is a Word document opened from a template archive. Generated
// content accumulates in memory and is spliced into the body on Save.
// Not safe for concurrent use.
type Document struct {
	parts map[string][]byte // archive parts except document.xml and its rels
	order []string          // original archive entry order

	bodyPrefix string // document.xml up to the insertion point
	bodySuffix string // trailing sectPr and closing tags
	appended   strings.Builder

	rels  string            // word/_rels/document.xml.rels, mutated in place
	media map[string][]byte // new media parts, path -> bytes

	nextRelID    int
	nextMediaID  int
	nextBookmark int
	nextDrawing  int
}

// Open reads a .docx template and prepares it for appending content.
func Open(path string) (*Document, error) {
	parts, order, err := readArchive(path)
	if err != nil {
		return nil, err
	}

	docXML, ok := parts[documentPart]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoDocumentXML, path)
	}
	delete(parts, documentPart)

	prefix, suffix, err := splitBody(string(docXML))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	d := &Document{
		parts:        parts,
		order:        order,
		bodyPrefix:   prefix,
		bodySuffix:   suffix,
		media:        make(map[string][]byte),
		nextRelID:    1,
		nextMediaID:  1,
		nextBookmark: 1,
		nextDrawing:  1,
	}

	if rels, ok := parts[documentRelsPart]; ok {
		d.rels = string(rels)
		delete(parts, documentRelsPart)
	} else {
		d.rels = relsSkeleton
		d.order = append(d.order, documentRelsPart)
	}
	for _, m := range relIDPattern.FindAllStringSubmatch(d.rels, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= d.nextRelID {
			d.nextRelID = n + 1
		}
	}
	for _, m := range bookmarkIDPattern.FindAllStringSubmatch(prefix, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= d.nextBookmark {
			d.nextBookmark = n + 1
		}
	}
	for name := range parts {
		if strings.HasPrefix(name, "word/media/") {
			d.nextMediaID++
		}
	}

	return d, nil
}

// readArchive loads every entry of a zip archive into memory.
func readArchive(path string) (map[string][]byte, []string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrOpenArchive, path, err)
	}
	defer func() { _ = r.Close() }()

	parts := make(map[string][]byte, len(r.File))
	order := make([]string, 0, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrOpenArchive, f.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrOpenArchive, f.Name, err)
		}
		parts[f.Name] = data
		order = append(order, f.Name)
	}
	return parts, order, nil
}

// splitBody cuts document.xml at the point where generated paragraphs are
// inserted: before the body-level sectPr when present, otherwise right
// before the body close tag, so section properties always stay last.
func splitBody(s string) (prefix, suffix string, err error) {
	idx := strings.LastIndex(s, "<w:sectPr")
	if idx == -1 {
		idx = strings.LastIndex(s, "</w:body>")
	}
	if idx == -1 {
		return "", "", ErrMalformedBody
	}
	return s[:idx], s[idx:], nil
}

// addRelationship registers a relationship and returns its rId.
func (d *Document) addRelationship(relType, target string, external bool) string {
	id := fmt.Sprintf("rId%d", d.nextRelID)
	d.nextRelID++

	var b strings.Builder
	b.WriteString(`<Relationship Id="`)
	b.WriteString(id)
	b.WriteString(`" Type="`)
	b.WriteString(relType)
	b.WriteString(`" Target="`)
	b.WriteString(xmlEscape(target))
	b.WriteString(`"`)
	if external {
		b.WriteString(` TargetMode="External"`)
	}
	b.WriteString(`/>`)

	d.rels = strings.Replace(d.rels, "</Relationships>", b.String()+"</Relationships>", 1)
	return id
}

// addMedia stores image bytes as a fresh media part and returns its rId.
func (d *Document) addMedia(data []byte, ext string) string {
	var name string
	for {
		name = fmt.Sprintf("word/media/image%d.%s", d.nextMediaID, ext)
		d.nextMediaID++
		if _, taken := d.parts[name]; !taken {
			if _, taken := d.media[name]; !taken {
				break
			}
		}
	}
	d.media[name] = data
	d.ensureContentType(ext)
	return d.addRelationship(relTypeImage, strings.TrimPrefix(name, "word/"), false)
}

// ensureContentType registers a Default content type for an image extension.
func (d *Document) ensureContentType(ext string) {
	ct, ok := d.parts[contentTypesPart]
	if !ok {
		return
	}
	s := string(ct)
	marker := `Extension="` + ext + `"`
	if strings.Contains(s, marker) {
		return
	}
	mime := "image/" + ext
	if ext == "jpg" {
		mime = "image/jpeg"
	}
	entry := `<Default Extension="` + ext + `" ContentType="` + mime + `"/>`
	open := strings.Index(s, "<Types")
	if open == -1 {
		return
	}
	gt := strings.Index(s[open:], ">")
	if gt == -1 {
		return
	}
	pos := open + gt + 1
	d.parts[contentTypesPart] = []byte(s[:pos] + entry + s[pos:])
}

// documentXML assembles the final document.xml contents.
func (d *Document) documentXML() string {
	return d.bodyPrefix + d.appended.String() + d.bodySuffix
}

// Save rebuilds the archive and writes it to path atomically: the zip is
// assembled in memory, written to a temp file, and renamed into place, so a
// failed write never leaves a partial document.
func (d *Document) Save(path string) error {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name string, data []byte) error {
		w, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("creating zip entry %s: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing zip entry %s: %w", name, err)
		}
		return nil
	}

	for _, name := range d.order {
		var data []byte
		switch name {
		case documentPart:
			data = []byte(d.documentXML())
		case documentRelsPart:
			data = []byte(d.rels)
		default:
			data = d.parts[name]
		}
		if err := write(name, data); err != nil {
			return err
		}
	}
	// Media parts are new entries, ordered for reproducible archives.
	for _, name := range sortedKeys(d.media) {
		if err := write(name, d.media[name]); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes())
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
