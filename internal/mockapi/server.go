// Package mockapi serves an in-process imitation of the ReqRes users API,
// including its documented quirks: updating a user that does not exist
// succeeds, deleting is repeatable, and unknown users yield 404 with "{}".
// Nothing is persisted; writes only echo what was sent.
package mockapi

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// BasePath is where the users resource lives, matching https://reqres.in/api.
const BasePath = "/api"

// DefaultPerPage is the page size used when the request does not name one.
const DefaultPerPage = 6

// MaxPerPage caps per_page; larger values are served as this many.
const MaxPerPage = 100

const timestampFormat = "2006-01-02T15:04:05.000Z"

// Server holds the seeded users and behavior switches.
type Server struct {
	users        []User
	perPage      int
	apiKeyHeader string
	apiKey       string
	delay        time.Duration
	accessLog    io.Writer
	noColor      bool
	now          func() time.Time
	nextID       atomic.Int64
}

// Option configures a Server.
type Option func(*Server)

// WithAPIKey rejects requests that do not carry key in header with 401.
func WithAPIKey(header, key string) Option {
	return func(s *Server) {
		s.apiKeyHeader = header
		s.apiKey = key
	}
}

// WithDelay holds every response for d before it is written.
func WithDelay(d time.Duration) Option {
	return func(s *Server) {
		s.delay = d
	}
}

// WithPerPage changes the default page size.
func WithPerPage(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.perPage = n
		}
	}
}

// WithAccessLog writes one line per request to w.
func WithAccessLog(w io.Writer, noColor bool) Option {
	return func(s *Server) {
		s.accessLog = w
		s.noColor = noColor
	}
}

// WithClock replaces time.Now for createdAt/updatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New builds a server seeded with SeedUsers.
func New(options ...Option) *Server {
	s := &Server{
		users:   SeedUsers(),
		perPage: DefaultPerPage,
		now:     time.Now,
	}
	for _, option := range options {
		option(s)
	}
	s.nextID.Store(100)
	return s
}

// Handler returns the router. The users resource is mounted under BasePath
// and GET /health answers "OK" without authentication.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	if s.accessLog != nil {
		r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  log.New(s.accessLog, "", log.LstdFlags),
			NoColor: s.noColor,
		}))
	}
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route(BasePath, func(r chi.Router) {
		r.Use(s.delayMiddleware)
		r.Use(s.apiKeyMiddleware)

		r.Get("/users", s.listUsers)
		r.Post("/users", s.createUser)
		r.Get("/users/{id}", s.getUser)
		r.Put("/users/{id}", s.updateUser)
		r.Patch("/users/{id}", s.updateUser)
		r.Delete("/users/{id}", s.deleteUser)
	})

	return r
}

func (s *Server) delayMiddleware(next http.Handler) http.Handler {
	if s.delay <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(s.delay):
		case <-r.Context().Done():
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) apiKeyMiddleware(next http.Handler) http.Handler {
	if s.apiKey == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(s.apiKeyHeader) != s.apiKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Missing API key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type listResponse struct {
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Data       []User  `json:"data"`
	Support    support `json:"support"`
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	page := positiveQueryInt(r, "page", 1)
	perPage := positiveQueryInt(r, "per_page", s.perPage)

	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	total := len(s.users)
	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}

	// Pages past the end are empty rather than an error.
	data := []User{}
	if page <= totalPages {
		start := (page - 1) * perPage
		end := start + perPage
		if end > total {
			end = total
		}
		data = s.users[start:end]
	}

	writeJSON(w, http.StatusOK, listResponse{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		Data:       data,
		Support:    defaultSupport,
	})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.lookup(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":    user,
		"support": defaultSupport,
	})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeObject(w, r)
	if !ok {
		return
	}
	fields["id"] = strconv.FormatInt(s.nextID.Add(1), 10)
	fields["createdAt"] = s.now().UTC().Format(timestampFormat)
	writeJSON(w, http.StatusCreated, fields)
}

// updateUser answers 200 for any id, known or not.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeObject(w, r)
	if !ok {
		return
	}
	fields["updatedAt"] = s.now().UTC().Format(timestampFormat)
	writeJSON(w, http.StatusOK, fields)
}

// deleteUser answers 204 every time, for any id.
func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookup(rawID string) (User, bool) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return User{}, false
	}
	for _, user := range s.users {
		if user.ID == id {
			return user, true
		}
	}
	return User{}, false
}

func positiveQueryInt(r *http.Request, key string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

// decodeObject reads a JSON object body. An empty body is an empty object.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	fields := map[string]interface{}{}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read body"})
		return nil, false
	}
	if strings.TrimSpace(string(body)) == "" {
		return fields, true
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be a JSON object"})
		return nil, false
	}
	if fields == nil {
		fields = map[string]interface{}{}
	}
	return fields, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
