package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/soaringjerry/QuickScan/internal/middleware"
	"github.com/soaringjerry/QuickScan/internal/services"
	"github.com/soaringjerry/QuickScan/internal/utils"
)

const maxBodyBytes = 1 << 20

type Options struct {
	Policy     services.ScoringPolicy
	Archiver   services.Archiver
	Notifier   services.Notifier
	Signer     services.TokenSigner
	SessionTTL time.Duration
}

type Router struct {
	store     Store
	engine    *services.Engine
	scans     *services.ScanService
	analytics *services.AnalyticsService
	exports   *services.ExportService
	admins    *services.AdminService
	sessions  *sessionRegistry
}

// NewRouter wires the services against an in-memory store.
func NewRouter() *Router {
	return NewRouterWithStore(newMemoryStore(), Options{})
}

func NewRouterWithStore(store Store, opts Options) *Router {
	engine := services.NewEngine(nil, services.WithPolicy(opts.Policy))
	signer := opts.Signer
	if signer == nil {
		signer = middleware.SignToken
	}
	scanStore := newScanStoreAdapter(store)
	scans := services.NewScanService(scanStore, engine)
	if opts.Notifier != nil {
		scans.SetNotifier(opts.Notifier)
	}
	return &Router{
		store:     store,
		engine:    engine,
		scans:     scans,
		analytics: services.NewAnalyticsService(scanStore, engine.Catalog()),
		exports:   services.NewExportService(scanStore, scans, opts.Archiver),
		admins:    services.NewAdminService(newAdminStoreAdapter(store), signer),
		sessions:  newSessionRegistry(engine, opts.SessionTTL),
	}
}

func (rt *Router) Admins() *services.AdminService { return rt.admins }
func (rt *Router) Scans() *services.ScanService   { return rt.scans }

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/quick-scan/questions", rt.handleQuestions)
	mux.HandleFunc("POST /api/quick-scan/evaluate", rt.handleEvaluate)
	mux.HandleFunc("POST /api/quick-scan/save", rt.handleSave)
	mux.HandleFunc("POST /api/quick-scan/sessions", rt.handleSessionStart)
	mux.HandleFunc("GET /api/quick-scan/sessions/{id}", rt.handleSessionGet)
	mux.HandleFunc("POST /api/quick-scan/sessions/{id}/answer", rt.handleSessionAnswer)
	mux.HandleFunc("POST /api/quick-scan/sessions/{id}/back", rt.handleSessionBack)
	mux.HandleFunc("POST /api/quick-scan/sessions/{id}/restart", rt.handleSessionRestart)

	mux.HandleFunc("POST /api/admin/login", rt.handleAdminLogin)
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.WithAuth(middleware.RequireAdmin(h))
	}
	mux.Handle("GET /api/admin/results", admin(rt.handleResultsList))
	mux.Handle("GET /api/admin/results/{id}", admin(rt.handleResultGet))
	mux.Handle("DELETE /api/admin/results/{id}", admin(rt.handleResultDelete))
	mux.Handle("GET /api/admin/analytics", admin(rt.handleAnalytics))
	mux.Handle("GET /api/admin/export", admin(rt.handleExport))
	mux.Handle("POST /api/admin/export/archive", admin(rt.handleExportArchive))
	mux.Handle("GET /api/admin/audit", admin(rt.handleAudit))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}

// writeServiceError maps service and engine errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		status := http.StatusBadRequest
		switch se.Code {
		case services.ErrorForbidden:
			status = http.StatusForbidden
		case services.ErrorNotFound:
			status = http.StatusNotFound
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		case services.ErrorTooManyRequests:
			status = http.StatusTooManyRequests
		case services.ErrorUnavailable:
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, string(se.Code), se.Message)
		return
	}
	switch {
	case errors.Is(err, services.ErrInvalidAnswer):
		writeError(w, http.StatusUnprocessableEntity, "invalid_answer", err.Error())
	case errors.Is(err, services.ErrMissingCatalogEntry):
		writeError(w, http.StatusUnprocessableEntity, "unknown_question", err.Error())
	case errors.Is(err, services.ErrSessionCompleted):
		writeError(w, http.StatusConflict, "session_completed", err.Error())
	default:
		log.Printf("api: internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return services.NewInvalidError("request body required")
		}
		return services.NewInvalidError(fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}

// localizedResult returns a copy of res with the maturity label in locale.
func localizedResult(res *services.ScanResult, locale string) services.ScanResult {
	out := *res
	key := fmt.Sprintf("maturity.%d", res.MaturityLevel.Level)
	if label := utils.T(locale, key); label != key {
		out.MaturityLevel.Label = label
	}
	return out
}
