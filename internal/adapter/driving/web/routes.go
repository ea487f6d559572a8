package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers the form page and static asset routes on the
// provided mux. The form lives at / and assets under /static/*.
func RegisterRoutes(mux *http.ServeMux) {
	staticFS, _ := fs.Sub(StaticFS, "static")

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, staticFS, "index.html")
	})
}
