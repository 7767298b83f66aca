package swagger

import (
	"bytes"
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const defaultServer = "  - url: /api\n"

// Register attaches the API docs routes to r.
// Routes:
//
//	GET /api-docs     -> ReDoc HTML
//	GET /openapi.yaml -> OpenAPI spec with its server set to prefix
func Register(_ context.Context, r chi.Router, prefix string) {
	if r == nil {
		panic("router is nil")
	}
	spec := Document(prefix)

	r.Get("/api-docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexHTML))
	})

	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(spec)
	})
}

// Document returns the OpenAPI spec with the rankings server at prefix,
// which must already be normalized ("" for the root).
func Document(prefix string) []byte {
	if prefix == "" {
		prefix = "/"
	}
	return bytes.Replace(OpenAPI, []byte(defaultServer), []byte("  - url: "+prefix+"\n"), 1)
}

// ReDoc page loading /openapi.yaml.
const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>University Rankings API - ReDoc</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
    <script>Redoc.init('/openapi.yaml', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`
