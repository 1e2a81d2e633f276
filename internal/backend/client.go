package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hagere-admin/internal/config"
	"hagere-admin/internal/distribution"
)

// Client talks to the settlement backend. Every call is a fresh source
// of truth: nothing is cached between invocations.
type Client struct {
	baseURL string
	inner   *http.Client
}

func New(cfg config.BackendConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		inner:   &http.Client{Timeout: timeout},
	}
}

// Login exchanges staff credentials for a backend bearer token.
func (c *Client) Login(ctx context.Context, phone, password string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", phone)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out loginResponse
	if err := c.send(req, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", &FetchError{Status: http.StatusOK, Detail: "login response missing access token"}
	}
	return out.AccessToken, nil
}

// FetchForGame loads the distribution rows of one game. With
// redistribute the backend recomputes shares even when a prior
// computation exists, discarding unapproved ones.
func (c *Client) FetchForGame(ctx context.Context, token, gameID string, redistribute bool) ([]distribution.Record, error) {
	q := url.Values{}
	q.Set("game_id", gameID)
	q.Set("redistribute", strconv.FormatBool(redistribute))

	var out []distribution.Record
	if err := c.getJSON(ctx, token, "/games/distribute_winnings", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchForDateRange loads distribution rows across games. Nil bounds
// are unbounded; an empty phone means all beneficiaries.
func (c *Client) FetchForDateRange(ctx context.Context, token string, start, end *time.Time, phone string) ([]distribution.Record, error) {
	q := url.Values{}
	if start != nil {
		q.Set("start_date", start.UTC().Format(time.RFC3339))
	}
	if end != nil {
		q.Set("end_date", end.UTC().Format(time.RFC3339))
	}
	if phone != "" {
		q.Set("phone", phone)
	}

	var out []distribution.Record
	if err := c.getJSON(ctx, token, "/games/winning_distribution", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Approve finalizes every pending distribution of the game. Not
// idempotent by contract: callers must not run two approvals for the
// same game concurrently. An empty payload on a 2xx response means the
// backend did not approve anything.
func (c *Client) Approve(ctx context.Context, token, gameID string) ([]distribution.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/games/update_distribution/"+url.PathEscape(gameID), nil)
	if err != nil {
		return nil, err
	}
	authorize(req, token)

	var out []distribution.Record
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrApprovalRejected
	}
	return out, nil
}

// WinningSummary returns the backend's cross-game aggregate for the
// ledger dashboard.
func (c *Client) WinningSummary(ctx context.Context, token string) (*LedgerSummary, error) {
	var out LedgerSummary
	if err := c.getJSON(ctx, token, "/games/winning_summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GamesByDateRange lists games for the review entry screen.
func (c *Client) GamesByDateRange(ctx context.Context, token string, start, end *time.Time) ([]Game, error) {
	q := url.Values{}
	if start != nil {
		q.Set("start_date", start.UTC().Format(time.RFC3339))
	}
	if end != nil {
		q.Set("end_date", end.UTC().Format(time.RFC3339))
	}

	var out []Game
	if err := c.getJSON(ctx, token, "/games/by_date_range/", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, token, path string, q url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	authorize(req, token)
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.inner.Do(req)
	if err != nil {
		return &FetchError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Status: resp.StatusCode, Detail: err.Error()}
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &FetchError{Status: resp.StatusCode, Detail: errorDetail(body)}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &FetchError{Status: resp.StatusCode, Detail: "malformed response: " + err.Error()}
	}
	return nil
}

func authorize(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// errorDetail pulls the human-readable message out of a backend error
// body, which carries a top-level "detail" field.
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(body))
}
