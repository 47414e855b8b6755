package frame

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/epubjs.html templates/readium.html
var templateFS embed.FS

var bootstrapTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// bootstrapData parameterizes the generated frame page.
type bootstrapData struct {
	Session   string
	ScriptURL string
}

// RenderBootstrap generates the frame's bootstrap HTML for the given
// backend. The page is locally generated, which is why the message channel
// gets away without an origin check.
func RenderBootstrap(backend Backend, session, scriptURL string) ([]byte, error) {
	name := string(backend) + ".html"
	var buf bytes.Buffer
	if err := bootstrapTemplates.ExecuteTemplate(&buf, name, bootstrapData{
		Session:   session,
		ScriptURL: scriptURL,
	}); err != nil {
		return nil, fmt.Errorf("render bootstrap for %s: %w", backend, err)
	}
	return buf.Bytes(), nil
}
