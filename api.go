package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// newAPIRouter exposes store as the /toys REST resource.
func newAPIRouter(store ToyStore) *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)

	r.HandleFunc("/toys", func(w http.ResponseWriter, r *http.Request) {
		toys, err := store.List(r.Context())
		if err != nil {
			log.Printf("Error loading toys: %v", err)
			w.WriteHeader(500)
			return
		}
		writeJSON(w, http.StatusOK, toys)
	}).Methods("GET")

	r.HandleFunc("/toys", func(w http.ResponseWriter, r *http.Request) {
		var toy Toy
		if err := json.NewDecoder(r.Body).Decode(&toy); err != nil {
			log.Printf("Error decoding toy: %v", err)
			w.WriteHeader(400)
			return
		}
		log.Printf("Payload: %+v", toy)
		created, err := store.Create(r.Context(), toy)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		log.Printf("Toy created: %+v", created)
		writeJSON(w, http.StatusCreated, created)
	}).Methods("POST")

	r.HandleFunc("/toys/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		toy, err := store.Get(r.Context(), toyID(r))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toy)
	}).Methods("GET")

	r.HandleFunc("/toys/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		var patch ToyPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			log.Printf("Error decoding patch: %v", err)
			w.WriteHeader(400)
			return
		}
		toy, err := store.Update(r.Context(), toyID(r), patch)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		log.Printf("Toy updated: %+v", toy)
		writeJSON(w, http.StatusOK, toy)
	}).Methods("PATCH")

	r.HandleFunc("/toys/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		id := toyID(r)
		if err := store.Delete(r.Context(), id); err != nil {
			writeStoreError(w, err)
			return
		}
		log.Printf("Toy deleted: %d", id)
		w.WriteHeader(204)
	}).Methods("DELETE")

	return r
}

// toyID reads the {id} route variable. The route pattern only admits digits.
func toyID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrToyNotFound):
		w.WriteHeader(404)
	case errors.Is(err, ErrDuplicateID):
		log.Printf("Rejected toy: %v", err)
		w.WriteHeader(409)
	default:
		log.Printf("Store error: %v", err)
		w.WriteHeader(500)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
