package site

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed templates/*.html
var rawTemplates embed.FS

//go:embed static
var rawStatic embed.FS

// Static is the embedded static asset filesystem with the "static/" prefix stripped.
var Static = mustSub(rawStatic, "static")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

var funcs = template.FuncMap{
	"active": func(current, href string) string {
		if current == href || (href != "/" && strings.HasPrefix(current, href+"/")) {
			return "active"
		}
		return ""
	},
	"lower": strings.ToLower,
	"join":  strings.Join,
}

// parseTemplates loads every page and fragment. Templates are named by file name.
func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(rawTemplates, "templates/*.html")
}
