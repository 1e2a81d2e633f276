package dashboard

import (
	"context"
	"errors"
	"sync"

	"hagere-admin/internal/approval"
	"hagere-admin/internal/backend"
	"hagere-admin/internal/distribution"
	"hagere-admin/internal/review"

	"github.com/rs/zerolog/log"
)

// sessionState is the dashboard state of one staff login: the open
// review surface and, while the confirmation dialog is up, the approval
// batch and its state machine.
type sessionState struct {
	review  *review.Surface
	batch   *approval.Batch
	machine *approval.Machine
}

// Coordinator owns all per-session dashboard state. Distribution data
// never outlives a view: it is fetched fresh from the backend on every
// open and refresh, and dropped on close.
type Coordinator struct {
	backend *backend.Client

	mu       sync.Mutex
	sessions map[string]*sessionState
}

func NewCoordinator(bc *backend.Client) *Coordinator {
	return &Coordinator{
		backend:  bc,
		sessions: map[string]*sessionState{},
	}
}

func (c *Coordinator) stateLocked(sessionID string) *sessionState {
	st := c.sessions[sessionID]
	if st == nil {
		st = &sessionState{machine: approval.NewMachine()}
		c.sessions[sessionID] = st
	}
	return st
}

// DropSession discards all dashboard state of a login session. Called
// on logout, including the forced logout after a backend 401.
func (c *Coordinator) DropSession(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sessionID)
}

// OpenGame opens (or re-fetches) the review surface for one game. With
// redistribute the backend recomputes the shares, discarding unapproved
// ones, and the record set is replaced wholesale.
func (c *Coordinator) OpenGame(ctx context.Context, sessionID, token, gameID string, redistribute bool) (review.View, error) {
	c.mu.Lock()
	st := c.stateLocked(sessionID)
	if st.review == nil || st.review.GameID() != gameID {
		st.review = review.NewSurface(gameID)
		st.batch = nil
		st.machine.Reset()
	}
	if redistribute {
		// Recomputation replaces the rows wholesale; a selection built
		// from the old rows must not survive it.
		st.batch = nil
		st.machine.Reset()
	}
	surface := st.review
	seq := surface.BeginFetch()
	c.mu.Unlock()

	records, err := c.backend.FetchForGame(ctx, token, gameID, redistribute)

	c.mu.Lock()
	defer c.mu.Unlock()
	if st.review != surface {
		return review.View{}, ErrNoOpenReview
	}
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return review.View{}, err
		}
		surface.ApplyError(seq, err.Error())
		return surface.View(), nil
	}
	if surface.ApplyRecords(seq, records) {
		if anomalies := distribution.CheckGameConsistency(records); len(anomalies) > 0 {
			log.Warn().Str("game_id", gameID).Int("anomalies", len(anomalies)).
				Msg("distribution rows carry inconsistent game figures")
		}
	}
	return surface.View(), nil
}

// Redistribute forces a recomputation of the open game. Any pending
// approval selection is discarded along with the replaced rows.
func (c *Coordinator) Redistribute(ctx context.Context, sessionID, token string) (review.View, error) {
	c.mu.Lock()
	st := c.stateLocked(sessionID)
	if st.review == nil {
		c.mu.Unlock()
		return review.View{}, ErrNoOpenReview
	}
	gameID := st.review.GameID()
	st.batch = nil
	st.machine.Reset()
	c.mu.Unlock()

	return c.OpenGame(ctx, sessionID, token, gameID, true)
}

func (c *Coordinator) ReviewView(sessionID string) (review.View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stateLocked(sessionID)
	if st.review == nil {
		return review.View{}, ErrNoOpenReview
	}
	return st.review.View(), nil
}

// SetFilters applies search term and status filter. Either change
// resets the page to 0.
func (c *Coordinator) SetFilters(sessionID, searchTerm string, status distribution.StatusFilter) (review.View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stateLocked(sessionID)
	if st.review == nil {
		return review.View{}, ErrNoOpenReview
	}
	st.review.SetSearch(searchTerm)
	st.review.SetStatus(status)
	return st.review.View(), nil
}

// SetPage moves the view window. pageSize 0 keeps the current size.
func (c *Coordinator) SetPage(sessionID string, page, pageSize int) (review.View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stateLocked(sessionID)
	if st.review == nil {
		return review.View{}, ErrNoOpenReview
	}
	if pageSize > 0 {
		st.review.SetPageSize(pageSize)
	}
	st.review.SetPage(page)
	return st.review.View(), nil
}

// ApprovalView is the confirmation dialog state: the batch summary plus
// the confirm machine's status and banners.
type ApprovalView struct {
	GameID   string                `json:"gameId"`
	Note     string                `json:"note,omitempty"`
	Summary  approval.Summary      `json:"summary"`
	Status   approval.Status       `json:"status"`
	Error    string                `json:"error,omitempty"`
	Approved []distribution.Record `json:"approved,omitempty"`
}

func approvalViewLocked(st *sessionState) ApprovalView {
	v := ApprovalView{
		Status:   st.machine.Status(),
		Error:    st.machine.Error(),
		Approved: st.machine.Result(),
	}
	if st.batch != nil {
		v.GameID = st.batch.GameID()
		v.Note = st.batch.Note
		v.Summary = approval.Summarize(*st.batch)
	}
	return v
}

// OpenApproval builds the approve-all batch from the current filtered,
// unapproved rows and opens the confirmation dialog over it.
func (c *Coordinator) OpenApproval(sessionID, note string) (ApprovalView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stateLocked(sessionID)
	if st.review == nil {
		return ApprovalView{}, ErrNoOpenReview
	}
	items := st.review.PendingBatch()
	if len(items) == 0 {
		return ApprovalView{}, approval.ErrEmptyBatch
	}
	st.batch = &approval.Batch{Items: items, Note: note}
	st.machine.Reset()
	return approvalViewLocked(st), nil
}

// ConfirmApproval dispatches the approval for the batch's game. The
// machine's Loading state blocks concurrent confirms; rows are only
// considered approved after the backend round trip, never optimistically.
func (c *Coordinator) ConfirmApproval(ctx context.Context, sessionID, token string) (ApprovalView, error) {
	c.mu.Lock()
	st := c.stateLocked(sessionID)
	if st.batch == nil {
		c.mu.Unlock()
		return ApprovalView{}, ErrNoOpenApproval
	}
	gameID := st.batch.GameID()
	if gameID == "" {
		c.mu.Unlock()
		return ApprovalView{}, approval.ErrEmptyBatch
	}
	if err := st.machine.Begin(); err != nil {
		view := approvalViewLocked(st)
		c.mu.Unlock()
		return view, err
	}
	machine := st.machine
	c.mu.Unlock()

	result, err := c.backend.Approve(ctx, token, gameID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if st.machine != machine || st.batch == nil {
		return ApprovalView{}, ErrNoOpenApproval
	}
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return ApprovalView{}, err
		}
		machine.Fail(approvalFailureMessage(err))
		return approvalViewLocked(st), nil
	}
	machine.Succeed(result)
	log.Info().Str("game_id", gameID).Int("records", len(result)).Msg("distribution approved")
	return approvalViewLocked(st), nil
}

func approvalFailureMessage(err error) string {
	if errors.Is(err, backend.ErrApprovalRejected) {
		return "not approved"
	}
	var fetchErr *backend.FetchError
	if errors.As(err, &fetchErr) && fetchErr.Detail != "" {
		return fetchErr.Detail
	}
	return err.Error()
}

// ApprovalDialog returns the current dialog state.
func (c *Coordinator) ApprovalDialog(sessionID string) (ApprovalView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stateLocked(sessionID)
	if st.batch == nil {
		return ApprovalView{}, ErrNoOpenApproval
	}
	return approvalViewLocked(st), nil
}

// CloseApproval dismisses the confirmation dialog and resets its state
// machine. After a successful approval the underlying review surface is
// re-fetched so the approved rows leave the pending view.
func (c *Coordinator) CloseApproval(ctx context.Context, sessionID, token string) (review.View, error) {
	c.mu.Lock()
	st := c.stateLocked(sessionID)
	succeeded := st.machine.Status() == approval.StatusSucceeded
	st.batch = nil
	st.machine.Reset()
	if st.review == nil {
		c.mu.Unlock()
		return review.View{}, nil
	}
	gameID := st.review.GameID()
	c.mu.Unlock()

	if succeeded {
		return c.OpenGame(ctx, sessionID, token, gameID, false)
	}
	return c.ReviewView(sessionID)
}

// CloseReview tears the whole surface down: distributions are cleared
// and the approval state machine returns to idle.
func (c *Coordinator) CloseReview(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stateLocked(sessionID)
	st.review = nil
	st.batch = nil
	st.machine.Reset()
}
