// Package web holds the HTML templates served by the testing pages.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the embedded page templates. Names are the file names,
// e.g. "how-it-works.html".
func Templates() (*template.Template, error) {
	return template.ParseFS(files, "templates/*.html")
}
