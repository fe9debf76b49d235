// Package resthearttest provides an in-memory entity store served over HTTP
// for tests of code that talks to the store.
package resthearttest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"pro5/backend/models"

	"github.com/gorilla/mux"
)

// Store is an in-memory store listening on a local test server.
type Store struct {
	*httptest.Server

	mu          sync.Mutex
	collections map[string]*collection
	failStatus  int
	requests    []string
}

type collection struct {
	order []string
	docs  map[string]json.RawMessage
}

// NewStore starts a store. Callers must Close it.
func NewStore() *Store {
	s := &Store{collections: make(map[string]*collection)}

	r := mux.NewRouter()
	r.Use(s.record)
	r.HandleFunc("/{db}/{coll}", s.list).Methods("GET")
	r.HandleFunc("/{db}/{coll}", s.create).Methods("POST")
	r.HandleFunc("/{db}/{coll}/{id}", s.get).Methods("GET")
	r.HandleFunc("/{db}/{coll}/{id}", s.replace).Methods("PUT")
	r.HandleFunc("/{db}/{coll}/{id}", s.remove).Methods("DELETE")

	s.Server = httptest.NewServer(r)
	return s
}

// FailWith makes every following request answer status; 0 restores normal behaviour.
func (s *Store) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

// Put stores doc under id in db/coll, bypassing HTTP.
func (s *Store) Put(db, coll, id string, doc any) {
	buf, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(db+"/"+coll, id, buf)
}

// Get decodes the document stored under id into out and reports whether it exists.
func (s *Store) Get(db, coll, id string, out any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[db+"/"+coll]
	if !ok {
		return false
	}
	doc, ok := c.docs[id]
	if !ok {
		return false
	}
	if err := json.Unmarshal(doc, out); err != nil {
		panic(err)
	}
	return true
}

// Count returns the number of documents in db/coll.
func (s *Store) Count(db, coll string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[db+"/"+coll]; ok {
		return len(c.docs)
	}
	return 0
}

// Requests returns "METHOD path" for every request served so far.
func (s *Store) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Store) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		status := s.failStatus
		s.mu.Unlock()

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Store) put(key, id string, doc json.RawMessage) {
	c, ok := s.collections[key]
	if !ok {
		c = &collection{docs: make(map[string]json.RawMessage)}
		s.collections[key] = c
	}
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = doc
}

func key(r *http.Request) string {
	vars := mux.Vars(r)
	return vars["db"] + "/" + vars["coll"]
}

func (s *Store) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	docs := []json.RawMessage{}
	if c, ok := s.collections[key(r)]; ok {
		for _, id := range c.order {
			docs = append(docs, c.docs[id])
		}
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(docs)
}

func (s *Store) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, _ := doc["id"].(string)
	if id == "" {
		id = models.NewID()
		doc["id"] = id
		body, _ = json.Marshal(doc)
	}

	s.mu.Lock()
	s.put(key(r), id, body)
	s.mu.Unlock()

	w.Header().Set("Location", r.URL.Path+"/"+id)
	w.WriteHeader(http.StatusCreated)
}

func (s *Store) get(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	var doc json.RawMessage
	if c, ok := s.collections[key(r)]; ok {
		doc = c.docs[mux.Vars(r)["id"]]
	}
	s.mu.Unlock()

	if doc == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(doc)
}

func (s *Store) replace(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !json.Valid(body) {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.put(key(r), mux.Vars(r)["id"], body)
	s.mu.Unlock()

	w.WriteHeader(http.StatusOK)
}

func (s *Store) remove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	c, ok := s.collections[key(r)]
	found := ok && c.docs[id] != nil
	if found {
		delete(c.docs, id)
		for i, existing := range c.order {
			if existing == id {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()

	if !found {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
