package csv2docx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// docCall records one Document method invocation.
type docCall struct {
	op     string // heading, para, image, link, bookmark, merge, save
	level  int
	text   string
	spans  []TextSpan
	anchor string
	style  ParagraphStyle
	img    ImageStyle
}

// fakeDocument records every call for assertions. It can be armed to panic
// on a specific heading text or to fail merging.
type fakeDocument struct {
	calls        []docCall
	savedPath    string
	mergeErr     error
	panicHeading string
}

var _ Document = (*fakeDocument)(nil)

func (d *fakeDocument) AppendHeading(level int, text string, style ParagraphStyle) {
	if d.panicHeading != "" && text == d.panicHeading {
		panic("heading exploded")
	}
	d.calls = append(d.calls, docCall{op: "heading", level: level, text: text, style: style})
}

func (d *fakeDocument) AppendParagraph(spans []TextSpan, style ParagraphStyle) {
	var text strings.Builder
	for _, sp := range spans {
		text.WriteString(sp.Text)
	}
	d.calls = append(d.calls, docCall{op: "para", text: text.String(), spans: spans, style: style})
}

func (d *fakeDocument) AppendImage(data []byte, format string, w, h int, style ImageStyle) {
	d.calls = append(d.calls, docCall{op: "image", text: format, img: style})
}

func (d *fakeDocument) AppendReturnLink(anchor, label string, style ParagraphStyle) {
	d.calls = append(d.calls, docCall{op: "link", anchor: anchor, text: label, style: style})
}

func (d *fakeDocument) EnsureBookmark(name, keyword string) {
	d.calls = append(d.calls, docCall{op: "bookmark", text: name, anchor: keyword})
}

func (d *fakeDocument) AppendDocument(path string) error {
	d.calls = append(d.calls, docCall{op: "merge", text: path})
	return d.mergeErr
}

func (d *fakeDocument) Save(path string) error {
	d.savedPath = path
	d.calls = append(d.calls, docCall{op: "save", text: path})
	return nil
}

func (d *fakeDocument) ops(op string) []docCall {
	var out []docCall
	for _, c := range d.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func testTemplate(t *testing.T, d Descriptor) *Template {
	t.Helper()
	if d.StartTemplate == "" {
		d.StartTemplate = "start.docx"
	}
	return resolveTemplate("test", d, func(p string) string { return p })
}

func renderOne(t *testing.T, row Row, d Descriptor) *fakeDocument {
	t.Helper()

	doc := &fakeDocument{}
	rend := &renderer{noImages: true}
	if _, err := rend.renderRow(context.Background(), doc, row, testTemplate(t, d)); err != nil {
		t.Fatalf("renderRow() error = %v", err)
	}
	return doc
}

func TestRenderRowHeadingOrder(t *testing.T) {
	t.Parallel()

	doc := renderOne(t, Row{
		FieldHeading1: "宏观",
		FieldHeading2: "货币政策",
		FieldTitle:    "央行动态",
		FieldContent:  "今日无增量信息。",
	}, Descriptor{})

	headings := doc.ops("heading")
	if len(headings) != 3 {
		t.Fatalf("got %d headings, want 3: %+v", len(headings), headings)
	}
	if headings[0].level != 1 || headings[0].text != "宏观" {
		t.Errorf("first heading = %+v, want level 1 宏观", headings[0])
	}
	if headings[1].level != 2 || headings[1].text != "货币政策" {
		t.Errorf("second heading = %+v, want level 2 货币政策", headings[1])
	}
	if headings[2].level != 3 || headings[2].text != "【央行动态】" {
		t.Errorf("title heading = %+v, want level 3 wrapped title", headings[2])
	}
}

func TestRenderRowHeading1Dedupe(t *testing.T) {
	t.Parallel()

	doc := &fakeDocument{}
	rend := &renderer{noImages: true}
	tpl := testTemplate(t, Descriptor{})
	ctx := context.Background()

	rows := []Row{
		{FieldHeading1: "宏观", FieldTitle: "第一条"},
		{FieldHeading1: "宏观", FieldTitle: "第二条"},
		{FieldHeading1: "行业", FieldTitle: "第三条"},
		{FieldHeading1: "宏观", FieldTitle: "第四条"},
	}
	for _, row := range rows {
		if _, err := rend.renderRow(ctx, doc, row, tpl); err != nil {
			t.Fatalf("renderRow() error = %v", err)
		}
	}

	var level1 []string
	for _, c := range doc.ops("heading") {
		if c.level == 1 {
			level1 = append(level1, c.text)
		}
	}
	want := []string{"宏观", "行业"}
	if len(level1) != len(want) || level1[0] != want[0] || level1[1] != want[1] {
		t.Errorf("level-1 headings = %v, want %v", level1, want)
	}
}

func TestRenderRowHeading3WinsOverTitle(t *testing.T) {
	t.Parallel()

	doc := renderOne(t, Row{
		FieldHeading3: "首选标题",
		FieldTitle:    "备用标题",
	}, Descriptor{})

	headings := doc.ops("heading")
	if len(headings) != 1 {
		t.Fatalf("got %d headings, want 1", len(headings))
	}
	if headings[0].text != "【首选标题】" {
		t.Errorf("title = %q, want 【首选标题】", headings[0].text)
	}
}

func TestRenderRowTitleStripsTicker(t *testing.T) {
	t.Parallel()

	doc := renderOne(t, Row{FieldTitle: "比亚迪（002594.SZ）发布年报"}, Descriptor{})
	headings := doc.ops("heading")
	if len(headings) != 1 || headings[0].text != "【比亚迪发布年报】" {
		t.Errorf("headings = %+v, want ticker stripped and wrapped", headings)
	}
}

func TestRenderRowContentParagraphs(t *testing.T) {
	t.Parallel()

	doc := renderOne(t, Row{
		FieldContent: "第一段内容，较长的一句话在这里结束。\n\n**加粗**的第二段。",
	}, Descriptor{})

	paras := doc.ops("para")
	if len(paras) != 2 {
		t.Fatalf("got %d paragraphs, want 2: %+v", len(paras), paras)
	}
	if paras[1].text != "加粗的第二段。" {
		t.Errorf("second paragraph text = %q", paras[1].text)
	}
	if len(paras[1].spans) < 2 || !paras[1].spans[0].Bold {
		t.Errorf("bold emphasis lost: %+v", paras[1].spans)
	}
}

func TestRenderRowInlineHeadingBolded(t *testing.T) {
	t.Parallel()

	doc := renderOne(t, Row{
		FieldContent: "盈利预测与估值\n我们维持此前的盈利预测不变，预计全年收入保持稳定增长。",
	}, Descriptor{})

	paras := doc.ops("para")
	if len(paras) != 2 {
		t.Fatalf("got %d paragraphs, want 2: %+v", len(paras), paras)
	}
	if len(paras[0].spans) != 1 || !paras[0].spans[0].Bold {
		t.Errorf("inline heading not bolded: %+v", paras[0].spans)
	}
	if paras[1].spans[0].Bold {
		t.Errorf("body line bolded: %+v", paras[1].spans)
	}
}

func TestRenderRowSourceDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		row  Row
		want string
	}{
		{name: "both", row: Row{FieldSource: "证券时报", FieldDate: "2026-08-31"}, want: "证券时报 2026-08-31"},
		{name: "source only", row: Row{FieldSource: "证券时报"}, want: "来源：证券时报"},
		{name: "date only", row: Row{FieldDate: "2026-08-31"}, want: "2026-08-31"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := renderOne(t, tt.row, Descriptor{})
			paras := doc.ops("para")
			if len(paras) != 1 || paras[0].text != tt.want {
				t.Errorf("source line = %+v, want %q", paras, tt.want)
			}
		})
	}
}

func TestRenderRowReturnLink(t *testing.T) {
	t.Parallel()

	row := Row{FieldTitle: "标题", FieldContent: "正文内容。"}
	doc := renderOne(t, row, Descriptor{TargetBookmark: "目录"})
	links := doc.ops("link")
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1", len(links))
	}
	if links[0].anchor != "目录" || links[0].text != "返回目录" {
		t.Errorf("link = %+v, want anchor 目录 text 返回目录", links[0])
	}
	if !links[0].style.Underline || links[0].style.Alignment != "right" {
		t.Errorf("link style = %+v, want underlined right", links[0].style)
	}

	// Only rows with body content navigate back to the table of contents.
	titleOnly := renderOne(t, Row{FieldTitle: "只有标题"}, Descriptor{TargetBookmark: "目录"})
	if got := titleOnly.ops("link"); len(got) != 0 {
		t.Errorf("title-only row produced %d links, want none", len(got))
	}
	headingOnly := renderOne(t, Row{FieldHeading1: "宏观"}, Descriptor{TargetBookmark: "目录"})
	if got := headingOnly.ops("link"); len(got) != 0 {
		t.Errorf("heading-only row produced %d links, want none", len(got))
	}
}

func TestRenderRowImageSuccess(t *testing.T) {
	t.Parallel()

	data := pngBytes(t, 64, 64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	doc := &fakeDocument{}
	rend := &renderer{fetcher: NewFetcher(testPolicy, srv.Client())}
	row := Row{FieldContent: "如下图所示：" + srv.URL + "/chart.png\n后续说明文字在这里。"}

	res, err := rend.renderRow(context.Background(), doc, row, testTemplate(t, Descriptor{}))
	if err != nil {
		t.Fatalf("renderRow() error = %v", err)
	}
	if len(res.warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.warnings)
	}
	images := doc.ops("image")
	if len(images) != 1 || images[0].text != "png" {
		t.Fatalf("images = %+v, want one png", images)
	}
	if images[0].img.MaxWidthInches != 5.5 {
		t.Errorf("image style = %+v, want default bounds", images[0].img)
	}
}

func TestRenderRowImageFailureIsWarning(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	doc := &fakeDocument{}
	rend := &renderer{fetcher: NewFetcher(testPolicy, srv.Client())}
	row := Row{FieldContent: "配图：" + srv.URL + "/gone.png\n正文继续，不受影响的一段长文字。"}

	res, err := rend.renderRow(context.Background(), doc, row, testTemplate(t, Descriptor{}))
	if err != nil {
		t.Fatalf("renderRow() error = %v", err)
	}
	if len(res.warnings) != 1 || !strings.Contains(res.warnings[0], "gone.png") {
		t.Errorf("warnings = %v, want one naming the URL", res.warnings)
	}
	if len(doc.ops("image")) != 0 {
		t.Errorf("failed image still placed")
	}
	if len(doc.ops("para")) == 0 {
		t.Errorf("surrounding text lost")
	}
}

func TestRenderRowPanicBecomesError(t *testing.T) {
	t.Parallel()

	doc := &fakeDocument{panicHeading: "【炸弹】"}
	rend := &renderer{noImages: true}
	_, err := rend.renderRow(context.Background(), doc, Row{FieldTitle: "炸弹"}, testTemplate(t, Descriptor{}))
	if err == nil || !strings.Contains(err.Error(), "panicked") {
		t.Errorf("renderRow() error = %v, want recovered panic", err)
	}
}
