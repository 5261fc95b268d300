// Package static serves a local directory over HTTP for previewing sites during development.
package static

import "path/filepath"

// DefaultContentType is sent for files whose extension is not in the table.
const DefaultContentType = "application/octet-stream"

// defaultTypes maps file extensions to the Content-Type sent for them.
// Keys include the leading dot and are matched case-sensitively.
var defaultTypes = map[string]string{
	".html":  "text/html",
	".css":   "text/css",
	".js":    "application/javascript",
	".mjs":   "application/javascript",
	".json":  "application/json",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".webp":  "image/webp",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

// MIMETable resolves a Content-Type from a file name's extension.
type MIMETable struct {
	types map[string]string
}

// NewMIMETable returns the built-in table with extra entries layered on top.
// Extra keys may be given with or without the leading dot.
func NewMIMETable(extra map[string]string) *MIMETable {
	types := make(map[string]string, len(defaultTypes)+len(extra))
	for ext, ct := range defaultTypes {
		types[ext] = ct
	}
	for ext, ct := range extra {
		if ext == "" || ct == "" {
			continue
		}
		if ext[0] != '.' {
			ext = "." + ext
		}
		types[ext] = ct
	}
	return &MIMETable{types: types}
}

// TypeFor returns the Content-Type for name, or DefaultContentType.
func (m *MIMETable) TypeFor(name string) string {
	if ct, ok := m.types[filepath.Ext(name)]; ok {
		return ct
	}
	return DefaultContentType
}
