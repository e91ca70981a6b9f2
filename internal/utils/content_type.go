package utils

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var textExtensions = map[string]struct{}{
	".yml":        {},
	".yaml":       {},
	".toml":       {},
	".md":         {},
	".po":         {},
	".pot":        {},
	".strings":    {},
	".properties": {},
	".ini":        {},
}

// DetectContentType picks the content type of an uploaded file, trusting the
// extension first and sniffing the contents otherwise.
func DetectContentType(name string, content []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := textExtensions[ext]; ok {
		return "text/plain; charset=utf-8"
	}
	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType
	}
	return mimetype.Detect(content).String()
}
