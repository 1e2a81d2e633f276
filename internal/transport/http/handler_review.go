package httptransport

import (
	"encoding/json"
	"net/http"

	"hagere-admin/internal/dashboard"
	"hagere-admin/internal/distribution"

	"github.com/go-chi/chi/v5"
)

// ReviewHandlers drive the winning-distribution review surface and its
// approval dialog through the per-session coordinator.
type ReviewHandlers struct {
	coord *dashboard.Coordinator
	auth  *authRevoker
}

func NewReviewHandlers(coord *dashboard.Coordinator, auth *authRevoker) *ReviewHandlers {
	return &ReviewHandlers{coord: coord, auth: auth}
}

func (h *ReviewHandlers) Open() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		gameID := chi.URLParam(r, "game_id")
		if gameID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		redistribute := r.URL.Query().Get("redistribute") == "true"
		metricReviewFetchTotal.Add(1)
		view, err := h.coord.OpenGame(r.Context(), p.SessionID, p.BackendToken, gameID, redistribute)
		if err != nil {
			metricReviewFetchErrors.Add(1)
			if writeDashboardError(w, err) {
				return
			}
			h.auth.writeBackendError(w, r, p, err)
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

func (h *ReviewHandlers) View() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		view, err := h.coord.ReviewView(p.SessionID)
		if err != nil {
			if writeDashboardError(w, err) {
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

func (h *ReviewHandlers) SetFilters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		var body struct {
			SearchTerm string `json:"searchTerm"`
			Status     string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		status, ok := distribution.ParseStatusFilter(body.Status)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_status")
			return
		}
		view, err := h.coord.SetFilters(p.SessionID, body.SearchTerm, status)
		if err != nil {
			if writeDashboardError(w, err) {
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

func (h *ReviewHandlers) SetPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		var body struct {
			Page     int `json:"page"`
			PageSize int `json:"pageSize"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.Page < 0 || body.PageSize < 0 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		view, err := h.coord.SetPage(p.SessionID, body.Page, body.PageSize)
		if err != nil {
			if writeDashboardError(w, err) {
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

func (h *ReviewHandlers) Redistribute() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		metricReviewFetchTotal.Add(1)
		view, err := h.coord.Redistribute(r.Context(), p.SessionID, p.BackendToken)
		if err != nil {
			metricReviewFetchErrors.Add(1)
			if writeDashboardError(w, err) {
				return
			}
			h.auth.writeBackendError(w, r, p, err)
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

func (h *ReviewHandlers) OpenApproval() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		var body struct {
			Note string `json:"note"`
		}
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
				return
			}
		}
		dialog, err := h.coord.OpenApproval(p.SessionID, body.Note)
		if err != nil {
			if writeDashboardError(w, err) {
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(dialog)
	}
}

func (h *ReviewHandlers) ConfirmApproval() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		metricApprovalConfirmTotal.Add(1)
		dialog, err := h.coord.ConfirmApproval(r.Context(), p.SessionID, p.BackendToken)
		if err != nil {
			metricApprovalConfirmErrors.Add(1)
			if writeDashboardError(w, err) {
				return
			}
			h.auth.writeBackendError(w, r, p, err)
			return
		}
		_ = json.NewEncoder(w).Encode(dialog)
	}
}

func (h *ReviewHandlers) ApprovalDialog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		dialog, err := h.coord.ApprovalDialog(p.SessionID)
		if err != nil {
			if writeDashboardError(w, err) {
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(dialog)
	}
}

func (h *ReviewHandlers) CloseApproval() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		view, err := h.coord.CloseApproval(r.Context(), p.SessionID, p.BackendToken)
		if err != nil {
			if writeDashboardError(w, err) {
				return
			}
			h.auth.writeBackendError(w, r, p, err)
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

func (h *ReviewHandlers) CloseReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		h.coord.CloseReview(p.SessionID)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
