// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pdiddy/boundary-fetch/internal/logging"
	"github.com/pdiddy/boundary-fetch/pkg/types"
)

const sessionCookie = "JSESSIONID"

// fakeSite mimics the map site: a root page that sets a session cookie,
// the two lookup endpoints and the download endpoint. Lookups without the
// cookie are refused.
type fakeSite struct {
	mu        sync.Mutex
	codes     map[string]string // division code -> server file path
	addresses map[string]string // full name -> server file path
	files     map[string][]byte // stem -> body
	rejected  map[string]string // code -> error message
	warmups   int
	requests  []string
}

func newFakeSite() *fakeSite {
	return &fakeSite{
		codes:     map[string]string{},
		addresses: map[string]string{},
		files:     map[string][]byte{},
		rejected:  map[string]string{},
	}
}

func (s *fakeSite) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.URL.RequestURI())
}

func (s *fakeSite) requestLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *fakeSite) warmupCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warmups
}

// addNode registers a code lookup and the file it resolves to.
func (s *fakeSite) addNode(code, stem string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = "static/gson/2023/" + stem + ".json"
	s.files[stem] = body
}

// addVillage registers an address lookup and the file it resolves to.
func (s *fakeSite) addVillage(fullName, stem string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses[fullName] = "static/gson/cun/" + stem + ".json"
	s.files[stem] = body
}

func (s *fakeSite) reject(code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejected[code] = message
}

func (s *fakeSite) router() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			s.record(req)
			next.ServeHTTP(w, req)
		})
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		s.warmups++
		s.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "session-1", Path: "/"})
		fmt.Fprint(w, "<html><body>map</body></html>")
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/getGsonDB", func(w http.ResponseWriter, req *http.Request) {
			code := req.URL.Query().Get("code")
			s.mu.Lock()
			fp, ok := s.codes[code]
			msg, rejected := s.rejected[code]
			s.mu.Unlock()
			switch {
			case rejected:
				writeJSON(w, map[string]any{"status": "error", "message": msg})
			case ok:
				writeJSON(w, map[string]any{"status": "success", "filepath": fp})
			default:
				http.NotFound(w, req)
			}
		})

		r.Get("/getCunAddress", func(w http.ResponseWriter, req *http.Request) {
			addr := req.URL.Query().Get("address")
			s.mu.Lock()
			fp, ok := s.addresses[addr]
			s.mu.Unlock()
			if !ok {
				writeJSON(w, map[string]any{"status": "error", "message": "address not found"})
				return
			}
			writeJSON(w, map[string]any{"status": "success", "filepath": fp})
		})

		r.Get("/downloadVector/{name}", func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Query().Get("format") != types.DefaultFormat {
				http.Error(w, "unsupported format", http.StatusBadRequest)
				return
			}
			s.mu.Lock()
			body, ok := s.files[chi.URLParam(req, "name")]
			s.mu.Unlock()
			if !ok {
				http.NotFound(w, req)
				return
			}
			w.Write(body)
		})
	})
	return r
}

func (s *fakeSite) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(sessionCookie); err != nil {
			http.Error(w, "no session", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func newSiteServer(t *testing.T, site *fakeSite) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(site.router())
	t.Cleanup(ts.Close)
	return ts
}

// geoJSON returns a body comfortably above the minimum size.
func geoJSON(name string) []byte {
	return []byte(fmt.Sprintf(`{"type":"FeatureCollection","name":%q,"features":[]}`, name) + strings.Repeat(" ", 128))
}

func testConfig(baseURL, outDir string) types.FetchConfig {
	cfg := types.DefaultFetchConfig()
	cfg.BaseURL = baseURL + "/"
	cfg.UserAgent = "boundary-fetch-test/0.1"
	cfg.OutputDir = outDir
	cfg.NodeDelay = 0
	return cfg
}

// testLogger returns a logger whose error-log sink is captured.
func testLogger() (*slog.Logger, *bytes.Buffer) {
	var errLog bytes.Buffer
	return logging.New(io.Discard, &errLog), &errLog
}
