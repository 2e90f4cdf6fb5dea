package server

import (
	"net/http"
	"os"
	"path/filepath"
)

// handleSPA serves the built game frontend from dir. Paths that do not
// match a real file fall back to index.html so client-side routes (the
// duel-response and highscore views) deep-link correctly.
func handleSPA(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean(r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}

		// The shell must not be cached, or clients keep stale asset
		// references after a deploy.
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, index)
	}
}
