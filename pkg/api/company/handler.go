// Package company is the HTTP surface of the profiler: search, profile view,
// single-document parsing and graph neighbours.
package company

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"company_profiler/pkg/core/balancesheet"
	"company_profiler/pkg/core/logging"
	"company_profiler/pkg/core/search"
	"company_profiler/pkg/core/store"
	"company_profiler/pkg/models"
)

// Profiles builds (or serves cached) company profiles.
type Profiles interface {
	Build(ctx context.Context, companyNumber string) (*models.CompanyProfile, error)
}

// Searcher answers company searches.
type Searcher interface {
	Search(ctx context.Context, term string, page int) (*search.Result, error)
}

// Documents fetches raw filings by key.
type Documents interface {
	FetchDocumentBytes(ctx context.Context, key string) ([]byte, error)
}

// Graph lists graph neighbours.
type Graph interface {
	Neighbours(ctx context.Context, label store.Label, id string) ([]store.Neighbour, error)
}

// Server holds the handler dependencies. Graph may be nil when no database
// is configured; the network endpoint then answers 503.
type Server struct {
	profiles  Profiles
	searcher  Searcher
	documents Documents
	graph     Graph
	gatherer  prometheus.Gatherer
	logger    *zap.Logger
}

func New(profiles Profiles, searcher Searcher, documents Documents, graph Graph, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		profiles:  profiles,
		searcher:  searcher,
		documents: documents,
		graph:     graph,
		gatherer:  gatherer,
		logger:    logging.OrNop(logger),
	}
}

// Routes returns the router with every endpoint mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleStatus)
	r.Get("/search/{term}", s.handleSearch)
	r.Get("/view/{fnr}", s.handleView)
	r.Get("/docs/{key}", s.handleDocument)
	r.Get("/network/{label}/{id}", s.handleNetwork)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "active",
		"endpoints": []string{"/search/{term}", "/view/{fnr}", "/docs/{key}", "/network/{label}/{id}", "/metrics"},
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	res, err := s.searcher.Search(r.Context(), chi.URLParam(r, "term"), parsePage(r.URL.Query().Get("page")))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeResult(w, res)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Build(r.Context(), chi.URLParam(r, "fnr"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeResult(w, p)
}

// handleDocument parses a single filing. Debugging aid, not used by clients.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	raw, err := s.documents.FetchDocumentBytes(r.Context(), key)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	year, err := balancesheet.Parse(key, raw)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeResult(w, year)
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	if s.graph == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Detail: "graph store not configured"})
		return
	}
	label, err := store.ParseLabel(chi.URLParam(r, "label"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	ns, err := s.graph.Neighbours(r.Context(), label, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeResult(w, ns)
}
