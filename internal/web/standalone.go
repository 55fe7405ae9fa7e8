package web

import (
	_ "embed"
	"html/template"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/gta-evmap/internal/dashboard"
)

//go:embed templates/standalone.html
var standaloneHTML string

var standaloneTmpl = template.Must(template.New("standalone").Parse(standaloneHTML))

// WriteStandalone writes a self-contained page for one render pass, with the
// view embedded so it opens without a server.
func WriteStandalone(w io.Writer, view *dashboard.View) error {
	if view == nil || view.Canvas == nil {
		return eris.New("web: nothing to render")
	}
	return eris.Wrap(standaloneTmpl.Execute(w, view), "web: write standalone page")
}
