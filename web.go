package main

import (
	"bytes"
	"io/fs"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// newWebRouter serves the toy page and accepts add-form submissions.
func newWebRouter(loader *Loader, submitter *Submitter) *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		page, err := NewIndexPage()
		if err != nil {
			log.Printf("Error building page: %v", err)
			w.WriteHeader(500)
			return
		}
		status := http.StatusOK
		if err := loader.Load(r.Context(), page); err != nil {
			log.Printf("Error loading toys: %v", err)
			status = http.StatusBadGateway
		}
		var buf bytes.Buffer
		if err := page.Render(&buf); err != nil {
			log.Printf("Error rendering page: %v", err)
			w.WriteHeader(500)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		w.Write(buf.Bytes())
	}).Methods("GET")

	// No Content keeps the browser on the current page.
	r.HandleFunc("/toys", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			log.Printf("Error parsing form: %v", err)
			w.WriteHeader(400)
			return
		}
		res, err := submitter.Submit(r.Context(), r.PostForm)
		if err != nil {
			log.Printf("Error submitting toy: %v", err)
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		log.Printf("Toy submitted, upstream status %d (ignored)", res.StatusCode)
		w.WriteHeader(http.StatusNoContent)
	}).Methods("POST")

	assets, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(assets))))
	return r
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[%s] %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
