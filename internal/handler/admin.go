package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/edunews/internal/domain"
	"github.com/msomdec/edunews/internal/service"
)

const defaultHistoryLimit = 20

// AdminHandler exposes ingestion control and dashboard statistics.
type AdminHandler struct {
	ingest *service.IngestionService
	stats  *service.StatsService
}

func NewAdminHandler(ingest *service.IngestionService, stats *service.StatsService) *AdminHandler {
	return &AdminHandler{ingest: ingest, stats: stats}
}

// HandleIngest runs one ingestion synchronously.
// POST /api/admin/ingest
// Response: {"added":N,"skipped":M,"status":"success|partial"} or 500
func (h *AdminHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ingest.Run(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrIngestionFailed) {
			slog.Error("manual ingestion", "error", err, "added", summary.Added, "skipped", summary.Skipped)
			writeError(w, http.StatusInternalServerError, "Ingestion failed. See the ingestion log for details.")
			return
		}
		writeServiceError(w, "manual ingestion", err)
		return
	}

	writeJSON(w, http.StatusOK, RunSummaryDTO{
		Added:   summary.Added,
		Skipped: summary.Skipped,
		Status:  string(summary.Status),
	})
}

// HandleStats returns counts for the admin dashboard.
// GET /api/admin/stats
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.stats.Stats(r.Context())
	if err != nil {
		writeServiceError(w, "admin stats", err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsDTO(st))
}

// HandleIngestions lists recent ingestion runs, newest first.
// GET /api/admin/ingestions?limit=20
func (h *AdminHandler) HandleIngestions(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(r.URL.Query().Get("limit"), defaultHistoryLimit)
	if !ok || limit < 1 {
		writeError(w, http.StatusUnprocessableEntity, "limit must be a positive integer.")
		return
	}
	limit = min(limit, 100)

	entries, err := h.ingest.History(r.Context(), limit)
	if err != nil {
		writeServiceError(w, "ingestion history", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toIngestionLogDTOs(entries)})
}
