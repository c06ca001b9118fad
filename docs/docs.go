package docs

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"path"
)

// Options is the plugin options bag. The harness passes it through opaquely;
// only RouteTag is interpreted (it derives the URL mount prefix in
// dual-mount topologies).
type Options struct {
	// Title is the documentation page title.
	Title string

	// Description is shown under the title on the rendered page.
	Description string

	// Version is the documented API version.
	Version string

	// RouteTag, when set, names the mount prefix the plugin's routes are
	// exposed under. Empty means the harness picks a default.
	RouteTag string

	// BasePath is the documented API base path (informational only).
	BasePath string
}

// Plugin is the pluggable-registration interface the harness consumes. A
// plugin registers its routes on the mux under the given mount prefix
// (empty prefix means the server root).
type Plugin interface {
	Register(mux *http.ServeMux, prefix string) error
}

// Factory constructs a plugin from an options bag. The harness default is
// New.
type Factory func(Options) Plugin

// DocPlugin is the reference documentation plugin. It serves a rendered HTML
// documentation page at the mount root, the machine-readable spec at
// /spec.json, and the page's static assets under /css/ and /js/.
type DocPlugin struct {
	opts Options
	page *template.Template
}

// Each asset tag sits on its own line: the harness asset extractor is
// line-oriented.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<title>{{.Title}}</title>
<link rel="stylesheet" href="{{.StylesheetPath}}">
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Description}}</p>
<script src="{{.ScriptPath}}"></script>
</body>
</html>
`

const (
	stylesheetBody = "body { font-family: sans-serif; margin: 2em; }\n"
	scriptBody     = "document.title = document.title + \" \\u2014 docs\";\n"
)

// New creates the reference plugin for the given options, applying defaults
// for missing fields.
func New(opts Options) Plugin {
	if opts.Title == "" {
		opts.Title = "API Documentation"
	}
	if opts.Version == "" {
		opts.Version = "0.0.1"
	}
	return &DocPlugin{
		opts: opts,
		page: template.Must(template.New("docs").Parse(pageTemplate)),
	}
}

// Register mounts the plugin's routes under prefix. An empty prefix mounts
// at the server root.
func (p *DocPlugin) Register(mux *http.ServeMux, prefix string) error {
	if mux == nil {
		return fmt.Errorf("mux is required")
	}

	page := join(prefix)
	if page == "/" {
		// Keep the root mount from swallowing every path.
		page = "/{$}"
	}
	mux.HandleFunc("GET "+page, p.servePage(prefix))
	mux.HandleFunc("GET "+join(prefix, "spec.json"), p.serveSpec)
	mux.HandleFunc("GET "+join(prefix, "css", "style.css"), serveAsset("text/css", stylesheetBody))
	mux.HandleFunc("GET "+join(prefix, "js", "docs.js"), serveAsset("text/javascript", scriptBody))
	return nil
}

// join builds a rooted URL path from the mount prefix and path elements.
func join(prefix string, elem ...string) string {
	return path.Join(append([]string{"/", prefix}, elem...)...)
}

// servePage renders the documentation page. Asset references are absolute
// paths under the mount prefix.
func (p *DocPlugin) servePage(prefix string) http.HandlerFunc {
	data := struct {
		Title          string
		Description    string
		StylesheetPath string
		ScriptPath     string
	}{
		Title:          p.opts.Title,
		Description:    p.opts.Description,
		StylesheetPath: join(prefix, "css", "style.css"),
		ScriptPath:     join(prefix, "js", "docs.js"),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := p.page.Execute(w, data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// serveSpec writes the machine-readable documentation spec.
func (p *DocPlugin) serveSpec(w http.ResponseWriter, r *http.Request) {
	spec := map[string]any{
		"title":       p.opts.Title,
		"description": p.opts.Description,
		"version":     p.opts.Version,
		"basePath":    p.opts.BasePath,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(spec); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func serveAsset(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		fmt.Fprint(w, body)
	}
}
