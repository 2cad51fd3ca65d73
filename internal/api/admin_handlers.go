package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/soaringjerry/QuickScan/internal/middleware"
	"github.com/soaringjerry/QuickScan/internal/services"
)

// POST /api/admin/login {email,password}
func (rt *Router) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	res, err := rt.admins.Login(req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type resultRow struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Company         string `json:"company,omitempty"`
	TotalScore      int    `json:"total_score"`
	TotalPercentage int    `json:"total_percentage"`
	MaturityLevel   int    `json:"maturity_level"`
	MaturityLabel   string `json:"maturity_label"`
	ScoreBand       string `json:"score_band"`
	CreatedAt       string `json:"created_at"`
}

// GET /api/admin/results?q=
func (rt *Router) handleResultsList(w http.ResponseWriter, r *http.Request) {
	scans, err := rt.scans.List(r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rows := make([]resultRow, 0, len(scans))
	for _, sc := range scans {
		rows = append(rows, resultRow{
			ID:              sc.ID,
			Name:            sc.Name,
			Email:           sc.Email,
			Company:         sc.Company,
			TotalScore:      sc.Result.TotalScore,
			TotalPercentage: sc.Result.TotalPercentage,
			MaturityLevel:   sc.Result.MaturityLevel.Level,
			MaturityLabel:   sc.Result.MaturityLevel.Label,
			ScoreBand:       services.ScoreBand(sc.Result.TotalPercentage),
			CreatedAt:       sc.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": rows, "count": len(rows)})
}

// GET /api/admin/results/{id}
func (rt *Router) handleResultGet(w http.ResponseWriter, r *http.Request) {
	sc, err := rt.scans.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// DELETE /api/admin/results/{id}
func (rt *Router) handleResultDelete(w http.ResponseWriter, r *http.Request) {
	if err := rt.scans.Delete(middleware.ActorFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// GET /api/admin/analytics
func (rt *Router) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	summary, err := rt.analytics.Summary()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GET /api/admin/export?format=long|wide|summary&q=
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	res, err := rt.exports.ExportCSV(services.ExportParams{
		Format: r.URL.Query().Get("format"),
		Query:  r.URL.Query().Get("q"),
		Actor:  middleware.ActorFromContext(r.Context()),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+res.Filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	_, _ = w.Write(res.Data)
}

// POST /api/admin/export/archive?format=
func (rt *Router) handleExportArchive(w http.ResponseWriter, r *http.Request) {
	if !rt.exports.ArchiveEnabled() {
		writeServiceError(w, services.NewUnavailableError("export archiving is not configured"))
		return
	}
	res, err := rt.exports.Archive(r.Context(), services.ExportParams{
		Format: r.URL.Query().Get("format"),
		Query:  r.URL.Query().Get("q"),
		Actor:  middleware.ActorFromContext(r.Context()),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "location": res.Location, "filename": res.Filename, "bytes": len(res.Data)})
}

// GET /api/admin/audit
func (rt *Router) handleAudit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"entries": rt.store.ListAudit()})
}
