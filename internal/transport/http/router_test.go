package httptransport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"hagere-admin/internal/app/auth"
	"hagere-admin/internal/backend"
	"hagere-admin/internal/config"
	"hagere-admin/internal/dashboard"
	"hagere-admin/internal/testutil"
)

// fakeBackend mimics the settlement service for full-stack router
// tests: password-grant login, per-game distribution rows and the
// approve-all update.
type fakeBackend struct {
	mu   sync.Mutex
	rows map[string][]map[string]any
}

func newFakeBackend(t *testing.T) (*fakeBackend, string) {
	t.Helper()
	f := &fakeBackend{rows: map[string][]map[string]any{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostFormValue("username") != "0911" || r.PostFormValue("password") != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Incorrect username or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"backend-token","token_type":"bearer"}`))
	})
	mux.HandleFunc("/games/distribute_winnings", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer backend-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.rows[r.URL.Query().Get("game_id")])
	})
	mux.HandleFunc("/games/update_distribution/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var approved []map[string]any
		for _, rows := range f.rows {
			for _, row := range rows {
				if row["approved"] != true {
					row["approved"] = true
					approved = append(approved, row)
				}
			}
		}
		_ = json.NewEncoder(w).Encode(approved)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv.URL
}

func (f *fakeBackend) seed(gameID, phone string, amount float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[gameID] = append(f.rows[gameID], map[string]any{
		"gameId":   gameID,
		"phone":    phone,
		"owner":    "owner-" + phone,
		"role":     "agent",
		"amount":   amount,
		"approved": false,
	})
}

func newTestServer(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	st := testutil.OpenTestStore(t)

	f, backendURL := newFakeBackend(t)
	bc := backend.New(config.BackendConfig{BaseURL: backendURL, TimeoutSeconds: 5})
	authSvc := auth.NewService(st, bc, config.ServerConfig{SessionTTLHours: 1})
	coord := dashboard.NewCoordinator(bc)

	srv := httptest.NewServer(NewRouter(st, authSvc, coord, bc))
	t.Cleanup(srv.Close)
	return f, srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func loginToken(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, out := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"phone": "0911", "password": "pw",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d (%v)", resp.StatusCode, out)
	}
	token, _ := out["token"].(string)
	if token == "" {
		t.Fatalf("login response missing token: %v", out)
	}
	return token
}

func TestApprovalFlowOverHTTP(t *testing.T) {
	f, srv := newTestServer(t)
	f.seed("G55", "0911", 120)
	f.seed("G55", "0922", 80)
	token := loginToken(t, srv)

	resp, view := doJSON(t, http.MethodPost, srv.URL+"/api/review/G55", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("open review status = %d (%v)", resp.StatusCode, view)
	}
	if view["totalRows"] != float64(2) {
		t.Fatalf("totalRows = %v, want 2", view["totalRows"])
	}

	resp, dialog := doJSON(t, http.MethodPost, srv.URL+"/api/review/approval", token, map[string]string{"note": "weekly run"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("open approval status = %d (%v)", resp.StatusCode, dialog)
	}
	summary, _ := dialog["summary"].(map[string]any)
	if summary == nil || summary["count"] != float64(2) {
		t.Fatalf("dialog summary = %v", dialog)
	}

	resp, dialog = doJSON(t, http.MethodPost, srv.URL+"/api/review/approval/confirm", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirm status = %d (%v)", resp.StatusCode, dialog)
	}
	if dialog["status"] != "succeeded" {
		t.Fatalf("confirm dialog = %v", dialog)
	}

	resp, view = doJSON(t, http.MethodDelete, srv.URL+"/api/review/approval", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("close approval status = %d", resp.StatusCode)
	}
	summary, _ = view["summary"].(map[string]any)
	if summary == nil || summary["pendingCount"] != float64(0) || summary["approvedCount"] != float64(2) {
		t.Fatalf("post-close summary = %v", view["summary"])
	}

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/review", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("close review status = %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/review", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("review view after close = %d, want 404", resp.StatusCode)
	}
}

func TestFiltersAndPagingOverHTTP(t *testing.T) {
	f, srv := newTestServer(t)
	for i := 0; i < 25; i++ {
		f.seed("G1", fmt.Sprintf("09%02d", i), 10)
	}
	token := loginToken(t, srv)

	if resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/review/G1", token, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("open review status = %d", resp.StatusCode)
	}
	resp, view := doJSON(t, http.MethodPut, srv.URL+"/api/review/page", token, map[string]int{"page": 2})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set page status = %d", resp.StatusCode)
	}
	rows, _ := view["rows"].([]any)
	if len(rows) != 5 || view["page"] != float64(2) {
		t.Fatalf("page 2 rows = %d, page = %v", len(rows), view["page"])
	}

	resp, view = doJSON(t, http.MethodPut, srv.URL+"/api/review/filters", token, map[string]string{
		"searchTerm": "0901", "status": "pending",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set filters status = %d", resp.StatusCode)
	}
	if view["totalRows"] != float64(1) || view["page"] != float64(0) {
		t.Fatalf("filtered view = %v", view)
	}

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/review/filters", token, map[string]string{"status": "garbage"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad status filter = %d, want 400", resp.StatusCode)
	}
}

func TestAuthOverHTTP(t *testing.T) {
	_, srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/review", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/review", "bogus", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bogus token status = %d, want 401", resp.StatusCode)
	}

	resp, out := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"phone": "0911", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized || out["error"] != "invalid_credentials" {
		t.Fatalf("bad login = %d %v", resp.StatusCode, out)
	}

	token := loginToken(t, srv)
	if resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/logout", token, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d", resp.StatusCode)
	}
	resp, out = doJSON(t, http.MethodGet, srv.URL+"/api/review", token, nil)
	if resp.StatusCode != http.StatusUnauthorized || out["error"] != "session_expired" {
		t.Fatalf("post-logout = %d %v", resp.StatusCode, out)
	}
}
