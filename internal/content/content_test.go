package content_test

import (
	"reflect"
	"testing"

	"github.com/alnah/go-csv2docx/internal/content"
)

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips half-width ticker",
			input: "公司发布公告(3931.HK)业绩增长",
			want:  "公司发布公告业绩增长",
		},
		{
			name:  "strips full-width ticker",
			input: "金博股份（688333.SH）今日涨停",
			want:  "金博股份今日涨停",
		},
		{
			name:  "removes full-width spaces",
			input: "　　首行缩进文本",
			want:  "首行缩进文本",
		},
		{
			name:  "collapses space runs",
			input: "a  \t  b",
			want:  "a b",
		},
		{
			name:  "trims line ends",
			input: "  line one  \n  line two  ",
			want:  "line one\nline two",
		},
		{
			name:  "compresses blank line runs",
			input: "para one\n\n\n\n\npara two",
			want:  "para one\n\npara two",
		},
		{
			name:  "plain text untouched",
			input: "普通文本",
			want:  "普通文本",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := content.Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitParagraphs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single paragraph", "one block", []string{"one block"}},
		{"two paragraphs", "first\n\nsecond", []string{"first", "second"}},
		{"single newline stays in paragraph", "line a\nline b", []string{"line a\nline b"}},
		{"whitespace-only parts dropped", "a\n\n   \n\nb", []string{"a", "b"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := content.SplitParagraphs(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitParagraphs(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		raw          string
		wantClean    string
		wantTrailing string
	}{
		{"bare URL", "http://x.com/a.png", "http://x.com/a.png", ""},
		{"closing paren", "http://x.com/a.png)", "http://x.com/a.png", ")"},
		{"full-width comma", "http://x.com/a.png，", "http://x.com/a.png", "，"},
		{"stacked punctuation", `http://x.com/a.png）。`, "http://x.com/a.png", "）。"},
		{"query chars survive", "http://x.com/a.png?w=100&h=50", "http://x.com/a.png?w=100&h=50", ""},
		{"all punctuation keeps original", "），。", "），。", ""},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			clean, trailing := content.SanitizeURL(tt.raw)
			if clean != tt.wantClean || trailing != tt.wantTrailing {
				t.Errorf("SanitizeURL(%q) = (%q, %q), want (%q, %q)",
					tt.raw, clean, trailing, tt.wantClean, tt.wantTrailing)
			}
		})
	}
}

func TestIsLikelyImageURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want bool
	}{
		{"http://x.com/a.png", true},
		{"http://x.com/a.JPG", true},
		{"http://x.com/a.webp?token=1", true},
		{"http://img.example.com/photo", true},
		{"http://cdn.example.com/asset", true},
		{"http://example.com/article/123.html", false},
		{"http://example.com/news", false},
		{"", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			if got := content.IsLikelyImageURL(tt.url); got != tt.want {
				t.Errorf("IsLikelyImageURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestScanImageURLs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []content.Segment
	}{
		{
			name:  "no URLs",
			input: "只有文本",
			want:  []content.Segment{{Text: "只有文本"}},
		},
		{
			name:  "text URL text",
			input: "see http://x.com/img.png here",
			want: []content.Segment{
				{Text: "see "},
				{URL: "http://x.com/img.png"},
				{Text: " here"},
			},
		},
		{
			name:  "URL with trailing punctuation restored as text",
			input: "图示：http://x.com/a.png，如上",
			want: []content.Segment{
				{Text: "图示："},
				{URL: "http://x.com/a.png"},
				{Text: "，"},
				{Text: "如上"},
			},
		},
		{
			name:  "non-image URL stays in text",
			input: "详见 http://example.com/article/1.html 报道",
			want:  []content.Segment{{Text: "详见 http://example.com/article/1.html 报道"}},
		},
		{
			name:  "two images in order",
			input: "http://a.com/1.png mid http://b.com/2.jpg",
			want: []content.Segment{
				{URL: "http://a.com/1.png"},
				{Text: " mid "},
				{URL: "http://b.com/2.jpg"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := content.ScanImageURLs(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ScanImageURLs(%q) =\n  %+v\nwant\n  %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSpans(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []content.Span
	}{
		{
			name:  "plain text single span",
			input: "普通文本",
			want:  []content.Span{{Text: "普通文本"}},
		},
		{
			name:  "bold in middle",
			input: "前文**重点**后文",
			want: []content.Span{
				{Text: "前文"},
				{Text: "重点", Bold: true},
				{Text: "后文"},
			},
		},
		{
			name:  "whole line bold",
			input: "**全部加粗**",
			want:  []content.Span{{Text: "全部加粗", Bold: true}},
		},
		{
			name:  "stray asterisk dropped",
			input: "带*号文本",
			want:  []content.Span{{Text: "带号文本"}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := content.Spans(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Spans(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLooksLikeInlineHeading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"short section title", "市场回顾与展望", true},
		{"keyword colon pattern", "新房：日均增长较快，改善客群向外环突围", true},
		{"sentence with period", "这是一个完整的句子。", false},
		{"contains comma", "第一点，第二点还有更多", false},
		{"too short", "标题", false},
		{"url", "http://example.com/page", false},
		{"mostly latin", "abcdef ghijkl", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := content.LooksLikeInlineHeading(tt.input); got != tt.want {
				t.Errorf("LooksLikeInlineHeading(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
