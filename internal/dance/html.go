package dance

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/CubeCoding7/ECDApp/internal/classify"
	"github.com/CubeCoding7/ECDApp/internal/reference"
)

//go:embed static/index.html
var indexTemplateFS embed.FS

//go:embed static/app.css
var appCSS []byte

var indexTemplate = template.Must(template.ParseFS(indexTemplateFS, "static/index.html"))

// indexPage is the data rendered by static/index.html
type indexPage struct {
	Message  string
	Error    string
	Good     []reference.Item
	Bad      []reference.Item
	Results  []classify.Result
	Uploaded bool
}

// renderIndex renders the page with the current lists. The page is rendered
// to a buffer first so a template failure can still produce a 500.
func (s *Server) renderIndex(w http.ResponseWriter, status int, page indexPage) {
	page.Good = s.service.refs.Good.Entries()
	page.Bad = s.service.refs.Bad.Entries()

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page); err != nil {
		slog.Error("Error rendering page", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
