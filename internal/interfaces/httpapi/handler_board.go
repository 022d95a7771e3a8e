package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/courtside/matchday/internal/usecase"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBoard")
	defer span.End()

	board, err := h.boardService.Board(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "build board failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, board)
}

func (h *Handler) SetSeasonFilter(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetSeasonFilter")
	defer span.End()

	var req seasonFilterRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	h.boardService.SetSeasonFilter(ctx, req.SeasonID)
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"season_id": req.SeasonID})
}

func (h *Handler) GetSeasonStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonStats")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	stats, err := h.boardService.SeasonStats(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get season stats failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stats)
}

func (h *Handler) GetSeasonRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonRankings")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	rankings, err := h.boardService.Rankings(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get rankings failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rankings)
}
