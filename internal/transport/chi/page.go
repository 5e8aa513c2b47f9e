package chi

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// pageData is the layout input. Body and HeadExtra are trusted fragments
// produced by the renderer; Message is plain text and gets escaped.
type pageData struct {
	Title     string
	Body      template.HTML
	HeadExtra template.HTML
	Message   string
}

// writePage renders the layout into a buffer before touching the response.
func writePage(w http.ResponseWriter, status int, data pageData) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}
