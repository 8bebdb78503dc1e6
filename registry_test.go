package csv2docx

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// writeRegistryFixture writes a config plus the .docx files it references
// and returns the config path.
func writeRegistryFixture(t *testing.T, config string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range []string{"start.docx", "end.docx"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("stub"), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(config), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const basicConfig = `templates:
  daily:
    name: Daily Report
    start_template: start.docx
    end_template: end.docx
    target_bookmark: 目录
  weekly:
    start_template: start.docx
  minimal:
    start_template: start.docx
`

func TestLoadRegistryMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadRegistry() error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadRegistryPreservesOrder(t *testing.T) {
	t.Parallel()

	reg, err := LoadRegistry(writeRegistryFixture(t, basicConfig))
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	want := []string{"daily", "weekly", "minimal"}
	if got := reg.Available(); !reflect.DeepEqual(got, want) {
		t.Errorf("Available() = %v, want %v", got, want)
	}
}

func TestParseRegistryErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  string
		wantErr error
	}{
		{
			name:    "invalid yaml",
			config:  "templates: [unclosed",
			wantErr: ErrConfigParse,
		},
		{
			name:    "no templates key",
			config:  "other: value\n",
			wantErr: ErrConfigParse,
		},
		{
			name:    "empty templates",
			config:  "templates: {}\n",
			wantErr: ErrConfigParse,
		},
		{
			name:    "templates not a mapping",
			config:  "templates:\n  - daily\n",
			wantErr: ErrConfigParse,
		},
		{
			name:    "missing start template",
			config:  "templates:\n  daily:\n    name: Daily\n",
			wantErr: ErrMissingStartTemplate,
		},
		{
			name:    "unknown template key",
			config:  "templates:\n  daily:\n    start_template: start.docx\n    targt_bookmark: 目录\n",
			wantErr: ErrConfigParse,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseRegistry([]byte(tt.config), ".")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseRegistry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateUnknownTemplateListsAvailable(t *testing.T) {
	t.Parallel()

	reg, err := LoadRegistry(writeRegistryFixture(t, basicConfig))
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}

	_, err = reg.Create("monthly")
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("Create() error = %v, want ErrUnknownTemplate", err)
	}
	if !strings.Contains(err.Error(), "daily, weekly, minimal") {
		t.Errorf("error does not list available templates: %v", err)
	}
}

func TestCreateResolvesPathsAgainstConfigDir(t *testing.T) {
	t.Parallel()

	path := writeRegistryFixture(t, basicConfig)
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}

	tpl, err := reg.Create("daily")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	wantStart := filepath.Join(filepath.Dir(path), "start.docx")
	if tpl.StartTemplate() != wantStart {
		t.Errorf("StartTemplate() = %q, want %q", tpl.StartTemplate(), wantStart)
	}
	wantEnd := filepath.Join(filepath.Dir(path), "end.docx")
	if tpl.EndTemplate() != wantEnd {
		t.Errorf("EndTemplate() = %q, want %q", tpl.EndTemplate(), wantEnd)
	}
}

func TestCreateMissingTemplateFile(t *testing.T) {
	t.Parallel()

	config := "templates:\n  daily:\n    start_template: absent.docx\n"
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(config), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	if _, err := reg.Create("daily"); !errors.Is(err, ErrTemplateFileNotFound) {
		t.Errorf("Create() error = %v, want ErrTemplateFileNotFound", err)
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	reg, err := LoadRegistry(writeRegistryFixture(t, basicConfig))
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}

	d, ok := reg.Describe("daily")
	if !ok {
		t.Fatalf("Describe(daily) not found")
	}
	if d.Name != "Daily Report" {
		t.Errorf("Name = %q, want %q", d.Name, "Daily Report")
	}
	if _, ok := reg.Describe("monthly"); ok {
		t.Errorf("Describe(monthly) found a template that does not exist")
	}
}
