package httptransport

import (
	"encoding/json"
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"hagere-admin/internal/app/auth"
	"hagere-admin/internal/backend"
	"hagere-admin/internal/dashboard"
	"hagere-admin/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func NewRouter(st *store.Store, authSvc *auth.Service, coord *dashboard.Coordinator, bc *backend.Client) *chi.Mux {
	revoker := newAuthRevoker(authSvc, coord)
	authHandlers := NewAuthHandlers(authSvc, coord)
	ledgerHandlers := NewLedgerHandlers(bc, revoker)
	reviewHandlers := NewReviewHandlers(coord, revoker)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", healthHandler(st))

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Post("/auth/login", authHandlers.Login())

		r.Group(func(r chi.Router) {
			r.Use(SessionAuthMiddleware(authSvc))
			r.Post("/auth/logout", authHandlers.Logout())

			r.Get("/games", ledgerHandlers.Games())
			r.Get("/distributions", ledgerHandlers.Distributions())
			r.Get("/distributions/summary", ledgerHandlers.Summary())

			r.Post("/review/{game_id}", reviewHandlers.Open())
			r.Get("/review", reviewHandlers.View())
			r.Put("/review/filters", reviewHandlers.SetFilters())
			r.Put("/review/page", reviewHandlers.SetPage())
			r.Post("/review/redistribute", reviewHandlers.Redistribute())
			r.Delete("/review", reviewHandlers.CloseReview())

			r.Post("/review/approval", reviewHandlers.OpenApproval())
			r.Get("/review/approval", reviewHandlers.ApprovalDialog())
			r.Post("/review/approval/confirm", reviewHandlers.ConfirmApproval())
			r.Delete("/review/approval", reviewHandlers.CloseApproval())

			r.Route("/debug", func(r chi.Router) {
				r.Use(BodyCaptureMiddleware(4096))
				r.Get("/vars", expvar.Handler().ServeHTTP)
			})
		})
	})

	return r
}

func healthHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 64)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
