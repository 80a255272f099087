// Package web provides the embedded page templates and default dashboard layout.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates
var templatesFS embed.FS

//go:embed layout.yaml
var defaultLayout []byte

// Templates returns the page templates with the templates/ prefix stripped.
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// DefaultLayoutYAML returns the embedded default layout document.
func DefaultLayoutYAML() []byte {
	return defaultLayout
}
