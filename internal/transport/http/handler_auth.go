package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"hagere-admin/internal/app/auth"
	"hagere-admin/internal/backend"
	"hagere-admin/internal/dashboard"
)

type AuthHandlers struct {
	svc   *auth.Service
	coord *dashboard.Coordinator
}

func NewAuthHandlers(svc *auth.Service, coord *dashboard.Coordinator) *AuthHandlers {
	return &AuthHandlers{svc: svc, coord: coord}
}

func (h *AuthHandlers) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Phone    string `json:"phone"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		metricLoginTotal.Add(1)
		resp, err := h.svc.Login(r.Context(), auth.LoginInput{Phone: body.Phone, Password: body.Password})
		if err != nil {
			metricLoginErrors.Add(1)
			switch {
			case errors.Is(err, auth.ErrInvalidRequest):
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			case errors.Is(err, auth.ErrInvalidCredentials):
				WriteHTTPError(w, http.StatusUnauthorized, "invalid_credentials")
			default:
				var fetchErr *backend.FetchError
				if errors.As(err, &fetchErr) {
					WriteHTTPError(w, http.StatusBadGateway, "backend_unavailable")
					return
				}
				WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			}
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *AuthHandlers) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		h.coord.DropSession(p.SessionID)
		if err := h.svc.Logout(r.Context(), p.Token); err != nil && !errors.Is(err, auth.ErrSessionNotFound) {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
