package csv2docx

import "errors"

// Sentinel errors for library operations.
var (
	// Registry errors.
	ErrConfigNotFound       = errors.New("config file not found")
	ErrConfigParse          = errors.New("failed to parse config")
	ErrMissingStartTemplate = errors.New("template has no start_template")
	ErrTemplateFileNotFound = errors.New("template file not found")
	ErrUnknownTemplate      = errors.New("unknown template")
	ErrEmptyTemplateID      = errors.New("template ID cannot be empty")

	// Generation errors.
	ErrNoRows        = errors.New("no rows to convert")
	ErrOpenTemplate  = errors.New("failed to open start template")
	ErrMergeTemplate = errors.New("failed to merge end template")
	ErrWriteDocument = errors.New("failed to write document")

	// Image fetch errors.
	ErrImageFetch      = errors.New("image download failed")
	ErrImageDecode     = errors.New("image decoding failed")
	ErrImageTooSmall   = errors.New("image below minimum size")
	ErrNotAnImage      = errors.New("response is not an image")
	ErrInvalidImageURL = errors.New("invalid image URL")
)
