// internal/server/server.go
//
// Package server exposes the HTTP surface: the search endpoint, Prometheus
// metrics, and a health probe.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopscout/internal/common/config"
	"shopscout/internal/common/database"
	stderrors "shopscout/internal/common/errors"
	"shopscout/internal/common/logger"
	"shopscout/internal/models"
	"shopscout/internal/search"
)

const maxTargetsParam = 8

type Server struct {
	service *search.Service
	redis   *database.RedisClient
	logger  logger.Logger
	http    *http.Server
}

func New(cfg config.ServerConfig, service *search.Service, redis *database.RedisClient, log logger.Logger) *Server {
	s := &Server{
		service: service,
		redis:   redis,
		logger:  log.WithFields(map[string]interface{}{"component": "server"}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/search", s.handleSearch)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.http = &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Millisecond,
	}

	return s
}

// ListenAndServe blocks serving HTTP until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", map[string]interface{}{
		"addr": s.http.Addr,
	})
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, err := parseSearchRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.Search(r.Context(), req)
	if err != nil {
		if stderrors.IsFatal(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		fields := map[string]interface{}{"error": err.Error()}
		if std, ok := err.(*stderrors.StandardError); ok {
			fields["category"] = stderrors.GetErrorCategory(std.Code)
		}
		s.logger.Error("search failed", fields)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	code := http.StatusOK

	if err := s.redis.Ping(ctx); err != nil {
		status["status"] = "degraded"
		status["redis"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, status)
}

// parseSearchRequest maps the query string onto the request struct. Only a
// missing q is an error; malformed numeric filters are dropped, not fatal.
func parseSearchRequest(r *http.Request) (models.SearchRequest, error) {
	q := r.URL.Query()

	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		return models.SearchRequest{}, stderrors.NewInvalidRequestError("query parameter 'q' is required")
	}

	req := models.SearchRequest{
		Query:     query,
		BudgetLei: parseFloatParam(q.Get("budget")),
		SizeMin:   parseFloatParam(q.Get("sizeMin")),
		SizeMax:   parseFloatParam(q.Get("sizeMax")),
		Condition: q.Get("condition"),
	}

	if raw := q.Get("targets"); raw != "" {
		for _, target := range strings.Split(raw, "|") {
			target = strings.TrimSpace(target)
			if target == "" {
				continue
			}
			req.Targets = append(req.Targets, target)
			if len(req.Targets) >= maxTargetsParam {
				break
			}
		}
	}

	return req, nil
}

func parseFloatParam(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
