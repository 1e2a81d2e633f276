package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"hagere-admin/internal/backend"
	"hagere-admin/internal/distribution"
)

// LedgerHandlers serve the read-only screens that pass backend data
// through without dashboard state: the games list, the cross-game
// distribution ledger and its pre-aggregated summary.
type LedgerHandlers struct {
	backend *backend.Client
	auth    *authRevoker
}

func NewLedgerHandlers(bc *backend.Client, auth *authRevoker) *LedgerHandlers {
	return &LedgerHandlers{backend: bc, auth: auth}
}

func (h *LedgerHandlers) Games() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		start, end, err := parseDateRange(r)
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_date")
			return
		}
		items, err := h.backend.GamesByDateRange(r.Context(), p.BackendToken, start, end)
		if err != nil {
			h.auth.writeBackendError(w, r, p, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}
}

func (h *LedgerHandlers) Distributions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		start, end, err := parseDateRange(r)
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_date")
			return
		}
		records, err := h.backend.FetchForDateRange(r.Context(), p.BackendToken, start, end, r.URL.Query().Get("phone"))
		if err != nil {
			h.auth.writeBackendError(w, r, p, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items":   records,
			"summary": distribution.Summarize(records),
		})
	}
}

func (h *LedgerHandlers) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		summary, err := h.backend.WinningSummary(r.Context(), p.BackendToken)
		if err != nil {
			h.auth.writeBackendError(w, r, p, err)
			return
		}
		_ = json.NewEncoder(w).Encode(summary)
	}
}

// parseDateRange reads optional start_date/end_date query params,
// accepting plain dates as sent by the dashboard date pickers as well
// as RFC 3339 timestamps.
func parseDateRange(r *http.Request) (*time.Time, *time.Time, error) {
	start, err := parseDateParam(r.URL.Query().Get("start_date"))
	if err != nil {
		return nil, nil, err
	}
	end, err := parseDateParam(r.URL.Query().Get("end_date"))
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func parseDateParam(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
