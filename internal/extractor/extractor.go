// Package extractor converts uploaded DOCX and PDF bytes into plain text.
//
// Extraction is fail-soft by contract: a corrupt or unsupported file yields
// an empty string, never an error. The caller decides what an empty result
// means for the request.
package extractor

import (
	"path/filepath"
	"strings"
)

// Extract dispatches on the filename extension, case-insensitively.
// Unsupported extensions and any internal parse failure produce "".
func Extract(filename string, data []byte) (text string) {
	defer func() {
		// ledongthuc/pdf can panic on malformed cross-reference tables
		if r := recover(); r != nil {
			text = ""
		}
	}()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		out, err := extractDOCX(data)
		if err != nil {
			return ""
		}
		return out
	case ".pdf":
		out, err := extractPDF(data)
		if err != nil {
			return ""
		}
		return out
	default:
		return ""
	}
}
