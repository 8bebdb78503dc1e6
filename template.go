package csv2docx

import "strings"

// Defaults applied when a descriptor leaves styling unset.
const (
	defaultTitleFormat     = "【{}】"
	defaultReturnLinkText  = "返回目录"
	defaultReturnLinkAlign = "right"
	defaultImageMaxWidth   = 5.5
	defaultImageMaxHeight  = 6.0
)

// defaultHeadingLevels maps row fields to outline levels when a descriptor
// carries no title_mapping.
var defaultHeadingLevels = map[string]int{
	FieldHeading1: 1,
	FieldHeading2: 2,
	FieldHeading3: 3,
	FieldTitle:    3,
}

// Descriptor is the YAML schema for one template entry in the registry.
type Descriptor struct {
	Name           string            `yaml:"name"`
	StartTemplate  string            `yaml:"start_template"`
	EndTemplate    string            `yaml:"end_template"`
	TargetBookmark string            `yaml:"target_bookmark"`
	ReturnLink     *ReturnLinkConfig `yaml:"return_link"`
	TitleMapping   map[string]int    `yaml:"title_mapping"`
	Styles         StylesConfig      `yaml:"styles"`
}

// ReturnLinkConfig configures the per-row link back to the table of
// contents bookmark.
type ReturnLinkConfig struct {
	Text      string `yaml:"text"`
	Alignment string `yaml:"alignment"`
	Underline *bool  `yaml:"underline"`
}

// StylesConfig groups the formatting of each rendered element.
type StylesConfig struct {
	Content    TextStyleConfig  `yaml:"content"`
	Title      TitleStyleConfig `yaml:"title"`
	SourceDate TextStyleConfig  `yaml:"source_date"`
	Image      ImageStyleConfig `yaml:"image"`
}

// TextStyleConfig is the YAML schema for paragraph formatting.
type TextStyleConfig struct {
	FontName     string  `yaml:"font_name"`
	FontSizePt   float64 `yaml:"font_size_pt"`
	Bold         bool    `yaml:"bold"`
	Alignment    string  `yaml:"alignment"`
	LineSpacing  float64 `yaml:"line_spacing"`
	SpaceAfterPt float64 `yaml:"space_after_pt"`
	IndentChars  int     `yaml:"indent_chars"`
}

// TitleStyleConfig extends text styling with a wrapping format, e.g.
// "【{}】" to bracket the title text.
type TitleStyleConfig struct {
	TextStyleConfig `yaml:",inline"`
	Format          string `yaml:"format"`
}

// ImageStyleConfig bounds inline pictures, in inches.
type ImageStyleConfig struct {
	MaxWidthInches  float64 `yaml:"max_width_inches"`
	MaxHeightInches float64 `yaml:"max_height_inches"`
	Alignment       string  `yaml:"alignment"`
}

// ReturnLink is a resolved return-link with defaults applied.
type ReturnLink struct {
	Text      string
	Alignment string
	Underline bool
}

// Template is a fully resolved template: descriptor values with defaults
// applied and file paths made absolute against the config location.
type Template struct {
	id             string
	name           string
	startTemplate  string
	endTemplate    string
	targetBookmark string
	returnLink     *ReturnLink
	headingLevels  map[string]int
	titleFormat    string
	styles         StylesConfig
}

// ID returns the registry key of the template.
func (t *Template) ID() string { return t.id }

// Name returns the human-readable template name, falling back to the ID.
func (t *Template) Name() string {
	if t.name != "" {
		return t.name
	}
	return t.id
}

// StartTemplate returns the absolute path of the start .docx file.
func (t *Template) StartTemplate() string { return t.startTemplate }

// EndTemplate returns the absolute path of the end .docx file, or "" when
// the template merges nothing.
func (t *Template) EndTemplate() string { return t.endTemplate }

// TargetBookmark returns the bookmark name return-links point at, or ""
// when the template defines none.
func (t *Template) TargetBookmark() string { return t.targetBookmark }

// ReturnLink returns the resolved return-link, or nil when disabled. Links
// are only rendered when TargetBookmark is also set.
func (t *Template) ReturnLink() *ReturnLink { return t.returnLink }

// HeadingLevel maps a row field to its outline level. The second return is
// false for fields that do not render as headings.
func (t *Template) HeadingLevel(field string) (int, bool) {
	level, ok := t.headingLevels[field]
	return level, ok
}

// FormatTitle wraps a title according to the template's format string. The
// "{}" placeholder receives the title; a format without a placeholder acts
// as a prefix.
func (t *Template) FormatTitle(title string) string {
	format := t.titleFormat
	if format == "" {
		format = defaultTitleFormat
	}
	if strings.Contains(format, "{}") {
		return strings.Replace(format, "{}", title, 1)
	}
	return format + title
}

// ContentStyle returns the paragraph style for body content.
func (t *Template) ContentStyle() ParagraphStyle {
	return toParagraphStyle(t.styles.Content)
}

// TitleStyle returns the paragraph style for row titles.
func (t *Template) TitleStyle() ParagraphStyle {
	return toParagraphStyle(t.styles.Title.TextStyleConfig)
}

// SourceDateStyle returns the paragraph style for the source and date line.
func (t *Template) SourceDateStyle() ParagraphStyle {
	return toParagraphStyle(t.styles.SourceDate)
}

// ImageStyle returns the bounds applied to inline pictures.
func (t *Template) ImageStyle() ImageStyle {
	s := t.styles.Image
	if s.MaxWidthInches <= 0 {
		s.MaxWidthInches = defaultImageMaxWidth
	}
	if s.MaxHeightInches <= 0 {
		s.MaxHeightInches = defaultImageMaxHeight
	}
	return ImageStyle{
		MaxWidthInches:  s.MaxWidthInches,
		MaxHeightInches: s.MaxHeightInches,
		Alignment:       s.Alignment,
	}
}

func toParagraphStyle(c TextStyleConfig) ParagraphStyle {
	return ParagraphStyle{
		FontName:     c.FontName,
		FontSizePt:   c.FontSizePt,
		Bold:         c.Bold,
		Alignment:    c.Alignment,
		LineSpacing:  c.LineSpacing,
		SpaceAfterPt: c.SpaceAfterPt,
		IndentChars:  c.IndentChars,
	}
}

// resolveTemplate applies defaults and normalizes a descriptor.
func resolveTemplate(id string, d Descriptor, resolvePath func(string) string) *Template {
	t := &Template{
		id:             id,
		name:           d.Name,
		startTemplate:  resolvePath(d.StartTemplate),
		targetBookmark: d.TargetBookmark,
		titleFormat:    d.Styles.Title.Format,
		styles:         d.Styles,
	}
	if d.EndTemplate != "" {
		t.endTemplate = resolvePath(d.EndTemplate)
	}

	if len(d.TitleMapping) > 0 {
		t.headingLevels = d.TitleMapping
	} else {
		t.headingLevels = defaultHeadingLevels
	}

	// A return-link needs a bookmark to point at.
	if d.TargetBookmark != "" {
		link := &ReturnLink{
			Text:      defaultReturnLinkText,
			Alignment: defaultReturnLinkAlign,
			Underline: true,
		}
		if d.ReturnLink != nil {
			if d.ReturnLink.Text != "" {
				link.Text = d.ReturnLink.Text
			}
			if d.ReturnLink.Alignment != "" {
				link.Alignment = d.ReturnLink.Alignment
			}
			if d.ReturnLink.Underline != nil {
				link.Underline = *d.ReturnLink.Underline
			}
		}
		t.returnLink = link
	}
	return t
}
