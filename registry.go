package csv2docx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-csv2docx/internal/fileutil"
	"github.com/alnah/go-csv2docx/internal/yamlutil"
)

// Registry holds the templates parsed from a config file, preserving the
// order they were declared in.
type Registry struct {
	baseDir   string
	ids       []string
	templates map[string]Descriptor
}

// LoadRegistry reads and parses a registry config file. Relative template
// paths in the config resolve against the config file's directory.
func LoadRegistry(path string) (*Registry, error) {
	if !fileutil.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigNotFound, path, err)
	}
	baseDir := filepath.Dir(path)
	return ParseRegistry(data, baseDir)
}

// ParseRegistry parses registry config bytes. Relative template paths
// resolve against baseDir.
func ParseRegistry(data []byte, baseDir string) (*Registry, error) {
	doc, err := yamlutil.UnmarshalOrdered(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	var entries yaml.MapSlice
	for _, item := range doc {
		if key, ok := item.Key.(string); ok && key == "templates" {
			entries, ok = item.Value.(yaml.MapSlice)
			if !ok {
				return nil, fmt.Errorf("%w: templates must be a mapping", ErrConfigParse)
			}
			break
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: config defines no templates", ErrConfigParse)
	}

	r := &Registry{
		baseDir:   baseDir,
		templates: make(map[string]Descriptor, len(entries)),
	}
	for _, item := range entries {
		id := fmt.Sprintf("%v", item.Key)
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, ErrEmptyTemplateID)
		}
		if _, dup := r.templates[id]; dup {
			return nil, fmt.Errorf("%w: duplicate template %q", ErrConfigParse, id)
		}

		// Round-trip the entry through YAML to decode it into the schema.
		// Strict decoding surfaces misspelled keys instead of silently
		// dropping them.
		raw, err := yamlutil.Marshal(item.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: template %q: %v", ErrConfigParse, id, err)
		}
		var d Descriptor
		if err := yamlutil.UnmarshalStrict(raw, &d); err != nil {
			return nil, fmt.Errorf("%w: template %q: %v", ErrConfigParse, id, err)
		}
		if strings.TrimSpace(d.StartTemplate) == "" {
			return nil, fmt.Errorf("%w: template %q", ErrMissingStartTemplate, id)
		}

		r.ids = append(r.ids, id)
		r.templates[id] = d
	}
	return r, nil
}

// Available returns template IDs in declaration order.
func (r *Registry) Available() []string {
	ids := make([]string, len(r.ids))
	copy(ids, r.ids)
	return ids
}

// Describe returns the raw descriptor of a template, for listings.
func (r *Registry) Describe(id string) (Descriptor, bool) {
	d, ok := r.templates[id]
	return d, ok
}

// Create resolves a template by ID, verifying its .docx files exist.
func (r *Registry) Create(id string) (*Template, error) {
	d, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)",
			ErrUnknownTemplate, id, strings.Join(r.ids, ", "))
	}

	t := resolveTemplate(id, d, r.resolvePath)
	if !fileutil.FileExists(t.startTemplate) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateFileNotFound, t.startTemplate)
	}
	if t.endTemplate != "" && !fileutil.FileExists(t.endTemplate) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateFileNotFound, t.endTemplate)
	}
	return t, nil
}

func (r *Registry) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.baseDir, p)
}
