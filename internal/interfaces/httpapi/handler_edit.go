package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/courtside/matchday/internal/usecase"
)

func (h *Handler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BeginEdit")
	defer span.End()

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	if err := h.editService.BeginEdit(ctx, h.leagueID, sessionID); err != nil {
		h.logger.WarnContext(ctx, "begin edit failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"editing":    true,
	})
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))

	var req matchRequest
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

	created, err := h.editService.CreateMatch(ctx, sessionID, req.toMatch())
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, created)
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatch")
	defer span.End()

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req matchRequest
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

	updated, err := h.editService.UpdateMatch(ctx, sessionID, matchID, req.toMatch())
	if err != nil {
		h.logger.WarnContext(ctx, "update match failed", "session_id", sessionID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, updated)
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	if err := h.editService.DeleteMatch(ctx, sessionID, matchID); err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "session_id", sessionID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"match_id":   matchID,
		"deleted":    true,
	})
}

func (h *Handler) CommitSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CommitSession")
	defer span.End()

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	if err := h.editService.Commit(ctx, h.leagueID, sessionID); err != nil {
		h.logger.WarnContext(ctx, "commit session failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"committed":  true,
	})
}

func (h *Handler) DiscardSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DiscardSession")
	defer span.End()

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	if err := h.editService.Discard(ctx, sessionID); err != nil {
		h.logger.WarnContext(ctx, "discard session failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"discarded":  true,
	})
}
