package httptransport

import (
	"errors"
	"net/http"

	"hagere-admin/internal/app/auth"
	"hagere-admin/internal/approval"
	"hagere-admin/internal/backend"
	"hagere-admin/internal/dashboard"
)

// authRevoker maps backend failures to responses. A 401 from the
// settlement backend means the stored bearer token died server-side;
// the gateway session is revoked on the spot so the next request forces
// a fresh login.
type authRevoker struct {
	auth  *auth.Service
	coord *dashboard.Coordinator
}

func newAuthRevoker(authSvc *auth.Service, coord *dashboard.Coordinator) *authRevoker {
	return &authRevoker{auth: authSvc, coord: coord}
}

func (a *authRevoker) writeBackendError(w http.ResponseWriter, r *http.Request, p *Principal, err error) {
	if errors.Is(err, backend.ErrUnauthorized) {
		a.auth.ForceLogout(r.Context(), p.Token)
		a.coord.DropSession(p.SessionID)
		WriteHTTPError(w, http.StatusUnauthorized, "backend_session_expired")
		return
	}
	WriteHTTPError(w, http.StatusBadGateway, "backend_unavailable")
}

// writeDashboardError handles the sentinels the coordinator and the
// approval machine hand back for requests that arrive in the wrong
// dialog state.
func writeDashboardError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, dashboard.ErrNoOpenReview):
		WriteHTTPError(w, http.StatusNotFound, "no_open_review")
	case errors.Is(err, dashboard.ErrNoOpenApproval):
		WriteHTTPError(w, http.StatusNotFound, "no_open_approval")
	case errors.Is(err, approval.ErrEmptyBatch):
		WriteHTTPError(w, http.StatusBadRequest, "empty_batch")
	case errors.Is(err, approval.ErrConfirmInFlight):
		WriteHTTPError(w, http.StatusConflict, "approval_in_flight")
	case errors.Is(err, approval.ErrAlreadyApproved):
		WriteHTTPError(w, http.StatusConflict, "already_approved")
	default:
		return false
	}
	return true
}
