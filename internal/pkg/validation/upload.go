package validation

import (
	"fmt"
	"strings"
)

// UploadErrorCode enumerates why an upload was rejected before anything was stored.
type UploadErrorCode string

const (
	CodeMissingFile         UploadErrorCode = "missing_file"
	CodeNoExtension         UploadErrorCode = "no_extension"
	CodeExtensionNotAllowed UploadErrorCode = "extension_not_allowed"
)

// UploadError is the rejected half of ValidateImageFilename's result.
type UploadError struct {
	Code      UploadErrorCode
	Filename  string
	Extension string
}

func (e *UploadError) Error() string {
	switch e.Code {
	case CodeMissingFile:
		return "no file selected"
	case CodeNoExtension:
		return fmt.Sprintf("file %q has no extension", e.Filename)
	default:
		return fmt.Sprintf("file type %q is not allowed", e.Extension)
	}
}

// Message is the text shown to the uploader.
func (e *UploadError) Message() string {
	if e.Code == CodeMissingFile {
		return "Please choose a photo to upload."
	}
	return "Invalid file type. Please upload an image (PNG, JPG, JPEG, GIF, WEBP)."
}

// ValidateImageFilename checks the extension (text after the last '.') against allowed,
// case-insensitively. It returns the lower-cased extension, or an *UploadError.
// Content is never inspected.
func ValidateImageFilename(filename string, allowed map[string]bool) (string, *UploadError) {
	if strings.TrimSpace(filename) == "" {
		return "", &UploadError{Code: CodeMissingFile}
	}
	dot := strings.LastIndex(filename, ".")
	if dot < 0 {
		return "", &UploadError{Code: CodeNoExtension, Filename: filename}
	}
	ext := strings.ToLower(filename[dot+1:])
	if !allowed[ext] {
		return "", &UploadError{Code: CodeExtensionNotAllowed, Filename: filename, Extension: ext}
	}
	return ext, nil
}
