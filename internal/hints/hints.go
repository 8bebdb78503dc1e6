// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import "strings"

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/csv2docx/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/csv2docx") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForUnknownTemplate returns hints for unknown template errors.
func ForUnknownTemplate(available []string) string {
	if len(available) == 0 {
		return format("the config defines no templates")
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForTemplateFile returns hints for missing start/end template files.
func ForTemplateFile() string {
	return format("template paths are resolved relative to the config file")
}

// ForImageFetch returns hints for remote image download errors.
func ForImageFetch() string {
	return format("use --image-timeout to wait longer, or --no-images to skip downloads")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForInputEncoding returns hints for CSV files that fail to decode.
func ForInputEncoding() string {
	return format("supported encodings: UTF-8 (with or without BOM), GB18030")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
