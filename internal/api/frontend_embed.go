package api

import (
	"embed"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// Embed the static frontend
//
//go:embed all:frontend/dist
var embeddedFrontend embed.FS

// getFrontendFS returns the embedded frontend filesystem
func getFrontendFS() (http.FileSystem, error) {
	fsys, err := fs.Sub(embeddedFrontend, "frontend/dist")
	if err != nil {
		return nil, err
	}
	return http.FS(fsys), nil
}

func contentTypeFor(path string) string {
	switch {
	case strings.HasSuffix(path, ".html"):
		return "text/html; charset=utf-8"
	case strings.HasSuffix(path, ".css"):
		return "text/css; charset=utf-8"
	case strings.HasSuffix(path, ".js"):
		return "application/javascript; charset=utf-8"
	case strings.HasSuffix(path, ".json"):
		return "application/json"
	case strings.HasSuffix(path, ".svg"):
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

func serveFile(w http.ResponseWriter, fsys http.FileSystem, path string) bool {
	file, err := fsys.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil || stat.IsDir() {
		return false
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return false
	}

	w.Header().Set("Content-Type", contentTypeFor(path))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Write(content)
	return true
}

// serveFrontendHandler returns a handler for serving the embedded frontend.
// The browse page lives at /, the pricing panel at /pricing; any other
// non-API path falls back to the browse page.
func serveFrontendHandler() http.HandlerFunc {
	fsys, err := getFrontendFS()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get embedded frontend")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path

		switch p {
		case "/", "":
			if serveFile(w, fsys, "index.html") {
				return
			}
			http.NotFound(w, r)
			return
		case "/pricing", "/pricing/":
			if serveFile(w, fsys, "pricing.html") {
				return
			}
			http.NotFound(w, r)
			return
		}

		if serveFile(w, fsys, strings.TrimPrefix(p, "/")) {
			return
		}

		// Fall back to the browse page for anything that is not an API route.
		if !strings.HasPrefix(p, "/api/") {
			if serveFile(w, fsys, "index.html") {
				return
			}
		}

		http.NotFound(w, r)
	}
}
