package docx

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

var (
	relTagPattern       = regexp.MustCompile(`<Relationship\s[^>]*?/?>`)
	relRefPattern       = regexp.MustCompile(`r:(?:embed|id|link)="(rId\d+)"`)
	bookmarkNamePattern = regexp.MustCompile(`<w:bookmarkStart[^>]*w:name="([^"]*)"`)
)

// AppendDocument merges the body of another .docx file onto the end of the
// generated content, after a page break. Media referenced by the appended
// body is copied into this archive under fresh relationship IDs, and
// bookmarks whose names collide with existing ones are renamed with a
// numeric suffix, internal hyperlinks included.
func (d *Document) AppendDocument(otherPath string) error {
	parts, _, err := readArchive(otherPath)
	if err != nil {
		return err
	}
	docXML, ok := parts[documentPart]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoDocumentXML, otherPath)
	}

	fragment, err := bodyContent(string(docXML))
	if err != nil {
		return fmt.Errorf("%s: %w", otherPath, err)
	}

	fragment, err = d.importRelationships(fragment, parts)
	if err != nil {
		return fmt.Errorf("%s: %w", otherPath, err)
	}
	fragment = d.renameCollidingBookmarks(fragment)

	d.appended.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
	d.appended.WriteString(fragment)
	return nil
}

// bodyContent extracts the paragraphs of document.xml, excluding the
// trailing section properties.
func bodyContent(s string) (string, error) {
	open := strings.Index(s, "<w:body")
	if open == -1 {
		return "", ErrMalformedBody
	}
	gt := strings.Index(s[open:], ">")
	if gt == -1 {
		return "", ErrMalformedBody
	}
	start := open + gt + 1
	end := strings.LastIndex(s, "<w:sectPr")
	if end == -1 || end < start {
		end = strings.LastIndex(s, "</w:body>")
	}
	if end == -1 || end < start {
		return "", ErrMalformedBody
	}
	return s[start:end], nil
}

// importRelationships rewrites relationship references inside the fragment
// to point at relationships registered in this document. Image parts are
// copied over; external hyperlinks are re-registered with their original
// target. References to relationship kinds the body cannot carry are left
// untouched, which is harmless because nothing resolves them.
func (d *Document) importRelationships(fragment string, parts map[string][]byte) (string, error) {
	rels, ok := parts[documentRelsPart]
	if !ok {
		return fragment, nil
	}

	idMap := make(map[string]string)
	for _, tag := range relTagPattern.FindAllString(string(rels), -1) {
		id := attrValue(tag, "Id")
		if id == "" || !strings.Contains(fragment, `"`+id+`"`) {
			continue
		}
		relType := attrValue(tag, "Type")
		target := attrValue(tag, "Target")
		switch relType {
		case relTypeImage:
			partName := path.Clean("word/" + target)
			data, ok := parts[partName]
			if !ok {
				return "", fmt.Errorf("%w: missing media part %s", ErrOpenArchive, partName)
			}
			ext := strings.TrimPrefix(path.Ext(partName), ".")
			if ext == "" {
				ext = "png"
			}
			idMap[id] = d.addMedia(data, ext)
		case relTypeHyperlink:
			idMap[id] = d.addRelationship(relTypeHyperlink, target, true)
		}
	}

	return relRefPattern.ReplaceAllStringFunc(fragment, func(ref string) string {
		m := relRefPattern.FindStringSubmatch(ref)
		newID, ok := idMap[m[1]]
		if !ok {
			return ref
		}
		return strings.Replace(ref, m[1], newID, 1)
	}), nil
}

// renameCollidingBookmarks renames fragment bookmarks that clash with names
// already present, appending _2, _3, ... until the name is free. Anchors of
// internal hyperlinks follow the rename so links inside the appended
// content keep working.
func (d *Document) renameCollidingBookmarks(fragment string) string {
	existing := make(map[string]bool)
	for _, src := range []string{d.bodyPrefix, d.appended.String()} {
		for _, m := range bookmarkNamePattern.FindAllStringSubmatch(src, -1) {
			existing[m[1]] = true
		}
	}

	for _, m := range bookmarkNamePattern.FindAllStringSubmatch(fragment, -1) {
		name := m[1]
		if !existing[name] {
			existing[name] = true
			continue
		}
		renamed := name
		for n := 2; existing[renamed]; n++ {
			renamed = fmt.Sprintf("%s_%d", name, n)
		}
		existing[renamed] = true
		fragment = strings.ReplaceAll(fragment, `w:name="`+name+`"`, `w:name="`+renamed+`"`)
		fragment = strings.ReplaceAll(fragment, `w:anchor="`+name+`"`, `w:anchor="`+renamed+`"`)
	}
	return fragment
}

// attrValue pulls one attribute value out of a single XML tag.
func attrValue(tag, name string) string {
	marker := name + `="`
	idx := strings.Index(tag, marker)
	if idx == -1 {
		return ""
	}
	rest := tag[idx+len(marker):]
	end := strings.Index(rest, `"`)
	if end == -1 {
		return ""
	}
	return rest[:end]
}
