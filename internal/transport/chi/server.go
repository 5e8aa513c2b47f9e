package chi

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/domain"
	logpkg "github.com/kailas-cloud/folio/internal/logger"
	healthuc "github.com/kailas-cloud/folio/internal/usecase/health"
	lookupuc "github.com/kailas-cloud/folio/internal/usecase/lookup"
)

// Query parameters of the lookup page.
const (
	paramDocID    = "docID"
	paramFilename = "filename"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the HTML lookup page plus health and metrics.
type Server struct {
	lookup        *lookupuc.Service
	health        *healthuc.Service
	pageEndpoint  string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP server. pageEndpoint is the path, without the
// leading slash, that rendered links point back to.
func NewServer(
	lookup *lookupuc.Service,
	health *healthuc.Service,
	pageEndpoint string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		lookup:       lookup,
		health:       health,
		pageEndpoint: strings.TrimPrefix(pageEndpoint, "/"),
		logger:       logger,
	}
	s.errorHandlers = []errorHandler{
		s.sentinelHandler(domain.ErrDocumentOutOfRange, http.StatusNotFound, "Document not found"),
		s.sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, "Must be provided with either docID or filename"),
	}
	return s
}

// Routes registers all handlers on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Index)
	r.Get("/"+s.pageEndpoint, s.FileAttributes)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Index handles GET / by redirecting to the lookup page.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	target := "/" + s.pageEndpoint
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// FileAttributes handles GET /file_attributes?docID=&filename=.
func (s *Server) FileAttributes(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := s.lookup.Page(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	logpkg.FromContext(r.Context()).Debug("Rendered lookup page", zap.String("outcome", string(page.Outcome)))
	s.respond(w, http.StatusOK, pageData{Title: page.Title, Body: template.HTML(page.Body)}) //nolint:gosec // renderer output is escaped
}

// HealthCheck handles GET /health with a plain-text report.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	var b strings.Builder
	fmt.Fprintf(&b, "status: %s\n", report.Status)
	for _, k := range sortedKeys(report.Checks) {
		fmt.Fprintf(&b, "check %s: %s\n", k, report.Checks[k])
	}
	for _, k := range sortedKeys(report.Tables) {
		fmt.Fprintf(&b, "table %s: %d rows\n", k, report.Tables[k])
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(httpStatus)
	_, _ = w.Write([]byte(b.String()))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// queryFromRequest reads the lookup parameters. A present filename
// parameter is kept even when empty; an empty docID counts as absent.
func queryFromRequest(r *http.Request) (lookupuc.Query, error) {
	var q lookupuc.Query
	values := r.URL.Query()

	if raw := strings.TrimSpace(values.Get(paramDocID)); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("docID must be an integer, got %q", raw)
		}
		q.DocID = &id
	}
	if _, ok := values[paramFilename]; ok {
		name := values.Get(paramFilename)
		q.Filename = &name
	}
	return q, nil
}

func (s *Server) respond(w http.ResponseWriter, status int, data pageData) {
	if err := writePage(w, status, data); err != nil {
		s.logger.Error("Failed to render page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) writeMessage(w http.ResponseWriter, status int, msg string) {
	s.respond(w, status, pageData{Title: domain.PageTitle, Message: msg})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func (s *Server) sentinelHandler(sentinel error, status int, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		s.writeMessage(w, status, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	s.writeMessage(w, http.StatusInternalServerError, "internal error")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
