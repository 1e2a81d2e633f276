package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized maps a backend 401. The caller is expected to
	// force-close the staff session that issued the call.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrApprovalRejected covers a 2xx approval response whose payload
	// indicates the distribution was not actually approved.
	ErrApprovalRejected = errors.New("not approved")
)

// FetchError is any transport or non-2xx failure talking to the
// settlement backend. It is rendered inline by the dashboard, never
// allowed to crash a view.
type FetchError struct {
	Status int
	Detail string
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("backend unreachable: %s", e.Detail)
	}
	if e.Detail == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Detail)
}
