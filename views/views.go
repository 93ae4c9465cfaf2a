// Package views holds the admin templates and their static assets.
package views

import (
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed layouts partials roles auth errors
var templates embed.FS

//go:embed static
var static embed.FS

// Engine returns the template engine. With reload set, templates are parsed
// from dir on every render instead of the embedded copies.
func Engine(reload bool, dir string) *html.Engine {
	var engine *html.Engine
	if reload {
		engine = html.New(dir, ".html")
		engine.Reload(true)
	} else {
		engine = html.NewFileSystem(http.FS(templates), ".html")
	}
	engine.AddFunc("json", func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	})
	return engine
}

// Static serves the css and js files of the admin pages.
func Static() http.FileSystem {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
