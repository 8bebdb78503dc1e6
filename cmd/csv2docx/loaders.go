package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	csv2docx "github.com/alnah/go-csv2docx"
)

// Sentinel errors for input loading.
var (
	ErrReadInput        = errors.New("failed to read input file")
	ErrUnsupportedInput = errors.New("unsupported input format")
	ErrInputEncoding    = errors.New("input is not valid UTF-8 or GB18030")
	ErrEmptyInput       = errors.New("input has no data rows")
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// headerAliases maps localized column headers onto canonical field names.
// Canonical names pass through unchanged.
var headerAliases = map[string]string{
	"一级标题": csv2docx.FieldHeading1,
	"二级标题": csv2docx.FieldHeading2,
	"三级标题": csv2docx.FieldHeading3,
	"标题":   csv2docx.FieldTitle,
	"内容":   csv2docx.FieldContent,
	"来源":   csv2docx.FieldSource,
	"日期":   csv2docx.FieldDate,
}

// loadRows reads input rows from a .csv or .json file.
func loadRows(path string) ([]csv2docx.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadInput, path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseCSV(data)
	case ".json":
		return parseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %s (expected .csv or .json)", ErrUnsupportedInput, path)
	}
}

// decodeText returns UTF-8 text from raw bytes. BOM-marked and valid UTF-8
// input passes through; everything else goes through charset detection with
// a GB18030 fallback, the dominant legacy encoding for this kind of feed.
func decodeText(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		return bytes.TrimPrefix(data, utf8BOM), nil
	}
	if utf8.Valid(data) {
		return data, nil
	}

	if enc, _, certain := charset.DetermineEncoding(data, "text/plain"); certain {
		if decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder())); err == nil && utf8.Valid(decoded) {
			return decoded, nil
		}
	}

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), simplifiedchinese.GB18030.NewDecoder()))
	if err != nil || !utf8.Valid(decoded) {
		return nil, ErrInputEncoding
	}
	return decoded, nil
}

// canonicalField maps an input header to a recognized field name, or ""
// when the column is not recognized.
func canonicalField(header string) string {
	h := strings.TrimSpace(header)
	if alias, ok := headerAliases[h]; ok {
		return alias
	}
	h = strings.ToLower(h)
	for _, f := range csv2docx.RecognizedFields {
		if h == f {
			return f
		}
	}
	return ""
}

func parseCSV(data []byte) ([]csv2docx.Row, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	fields := make([]string, len(header))
	for i, h := range header {
		fields[i] = canonicalField(h)
	}

	var rows []csv2docx.Row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrReadInput, len(rows)+2, err)
		}
		row := csv2docx.Row{}
		for i, value := range record {
			if i < len(fields) && fields[i] != "" {
				row[fields[i]] = value
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	return rows, nil
}

func parseJSON(data []byte) ([]csv2docx.Row, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	var records []map[string]any
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber() // keep numeric cells verbatim, not in scientific notation
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	rows := make([]csv2docx.Row, 0, len(records))
	for _, record := range records {
		row := csv2docx.Row{}
		for key, value := range record {
			field := canonicalField(key)
			if field == "" || value == nil {
				continue
			}
			switch v := value.(type) {
			case string:
				row[field] = v
			default:
				row[field] = fmt.Sprint(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
