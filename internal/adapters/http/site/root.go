// Package site serves the test-page assets as a passthrough fallback for
// unmatched paths. Correctness beyond "file bytes or 404" is out of scope;
// the page itself belongs to the reporting client.
package site

import (
	"context"
	"net/http"
	"os"
)

// Register attaches the static fallback to mux at "/". When dir points at
// an existing directory its files are served; otherwise the embedded
// default page is used.
func Register(_ context.Context, mux *http.ServeMux, dir string) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.FileServer(chooseFS(dir))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// The fallback is read-only; unmatched mutations are unknown routes.
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func chooseFS(dir string) http.FileSystem {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return http.Dir(dir)
		}
	}
	return FS()
}
