package approval

import (
	"errors"

	"hagere-admin/internal/distribution"
)

var (
	// ErrConfirmInFlight guards against a second confirm while one
	// approval call is still running.
	ErrConfirmInFlight = errors.New("approval_in_flight")

	// ErrAlreadyApproved rejects a confirm issued after a success but
	// before the dialog was closed.
	ErrAlreadyApproved = errors.New("already_approved")

	// ErrEmptyBatch rejects opening or confirming an approval with no
	// eligible records.
	ErrEmptyBatch = errors.New("empty_batch")
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Machine tracks one approval confirmation lifecycle:
//
//	Idle -confirm-> Loading -serverOK-> Succeeded
//	                        -serverError-> Failed
//	Succeeded -close-> Idle
//	Failed -close|retry-> Idle
//
// Loading is only ever entered through Begin, i.e. an explicit user
// confirm. There are no automatic retries or timeout transitions.
type Machine struct {
	status Status
	errMsg string
	result []distribution.Record
}

func NewMachine() *Machine {
	return &Machine{status: StatusIdle}
}

func (m *Machine) Status() Status { return m.status }

// Error returns the banner message of a failed approval, empty
// otherwise.
func (m *Machine) Error() string { return m.errMsg }

// Result holds the approved records returned by the backend after a
// success, until the dialog is closed.
func (m *Machine) Result() []distribution.Record { return m.result }

// Begin moves the machine into Loading. A retry after a failure is a
// fresh Begin; a confirm while loading or after a success is refused.
func (m *Machine) Begin() error {
	switch m.status {
	case StatusLoading:
		return ErrConfirmInFlight
	case StatusSucceeded:
		return ErrAlreadyApproved
	}
	m.status = StatusLoading
	m.errMsg = ""
	m.result = nil
	return nil
}

func (m *Machine) Succeed(result []distribution.Record) {
	if m.status != StatusLoading {
		return
	}
	m.status = StatusSucceeded
	m.result = result
}

func (m *Machine) Fail(msg string) {
	if m.status != StatusLoading {
		return
	}
	m.status = StatusFailed
	m.errMsg = msg
}

// Reset returns to Idle and clears any banner state. Called on every
// dialog close so a reopened dialog never shows a stale banner.
func (m *Machine) Reset() {
	m.status = StatusIdle
	m.errMsg = ""
	m.result = nil
}
