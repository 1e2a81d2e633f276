package review

import (
	"hagere-admin/internal/distribution"
)

const defaultPageSize = 10

// Surface is the state of one open winning-distribution review: the
// fetched record set plus search, status filter and pagination. It is
// not safe for concurrent use; the dashboard coordinator serializes
// access.
type Surface struct {
	gameID    string
	records   []distribution.Record
	anomalies []distribution.Anomaly

	searchTerm string
	status     distribution.StatusFilter
	page       int
	pageSize   int

	// issuedSeq tracks the most recently dispatched fetch. A result or
	// error arriving under an older sequence is superseded and ignored,
	// so out-of-order responses never clobber the current view.
	issuedSeq  uint64
	appliedSeq uint64

	fetchErr string
}

func NewSurface(gameID string) *Surface {
	return &Surface{
		gameID:   gameID,
		status:   distribution.StatusAll,
		pageSize: defaultPageSize,
	}
}

func (s *Surface) GameID() string { return s.gameID }

// BeginFetch registers a new in-flight fetch and returns its sequence
// token. Older in-flight fetches are superseded from this point on.
func (s *Surface) BeginFetch() uint64 {
	s.issuedSeq++
	return s.issuedSeq
}

// ApplyRecords installs a fetch result, replacing the record set
// wholesale. Stale results (a fetch superseded by a newer one) are
// dropped and reported as not applied.
func (s *Surface) ApplyRecords(seq uint64, records []distribution.Record) bool {
	if seq != s.issuedSeq || seq <= s.appliedSeq {
		return false
	}
	s.appliedSeq = seq
	s.records = records
	s.anomalies = distribution.CheckGameConsistency(records)
	s.fetchErr = ""
	return true
}

// ApplyError records a fetch failure, subject to the same staleness
// rule as ApplyRecords. The existing record set is kept so the table
// stays usable behind the error banner.
func (s *Surface) ApplyError(seq uint64, msg string) bool {
	if seq != s.issuedSeq || seq <= s.appliedSeq {
		return false
	}
	s.appliedSeq = seq
	s.fetchErr = msg
	return true
}

// SetSearch updates the search term. Any change resets the page so the
// view cannot land past the end of a shrunken result set.
func (s *Surface) SetSearch(term string) {
	if term == s.searchTerm {
		return
	}
	s.searchTerm = term
	s.page = 0
}

func (s *Surface) SetStatus(status distribution.StatusFilter) {
	if status == s.status {
		return
	}
	s.status = status
	s.page = 0
}

func (s *Surface) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	s.page = page
}

func (s *Surface) SetPageSize(size int) {
	if size < 1 {
		size = defaultPageSize
	}
	if size == s.pageSize {
		return
	}
	s.pageSize = size
	s.page = 0
}

// Filtered returns the full record set after search and status
// filtering, independent of pagination.
func (s *Surface) Filtered() []distribution.Record {
	return distribution.FilterBySearchAndStatus(s.records, s.searchTerm, s.status)
}

// PendingBatch is the approve-all working set: the currently filtered
// records that are not yet approved. Approved rows are excluded even
// when the status filter keeps them visible.
func (s *Surface) PendingBatch() []distribution.Record {
	batch := make([]distribution.Record, 0)
	for _, r := range s.Filtered() {
		if !r.Approved {
			batch = append(batch, r)
		}
	}
	return batch
}

// View is the transport-facing snapshot of a surface. Rows holds only
// the current page; Summary is always computed over the whole filtered
// set.
type View struct {
	GameID     string                    `json:"gameId"`
	Rows       []distribution.Record     `json:"rows"`
	TotalRows  int                       `json:"totalRows"`
	Page       int                       `json:"page"`
	PageSize   int                       `json:"pageSize"`
	SearchTerm string                    `json:"searchTerm"`
	Status     distribution.StatusFilter `json:"status"`
	Summary    distribution.Summary      `json:"summary"`
	Pending    int                       `json:"pendingInView"`
	Anomalies  []distribution.Anomaly    `json:"anomalies,omitempty"`
	Error      string                    `json:"error,omitempty"`
}

func (s *Surface) View() View {
	filtered := s.Filtered()
	start := s.page * s.pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + s.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return View{
		GameID:     s.gameID,
		Rows:       filtered[start:end],
		TotalRows:  len(filtered),
		Page:       s.page,
		PageSize:   s.pageSize,
		SearchTerm: s.searchTerm,
		Status:     s.status,
		Summary:    distribution.Summarize(filtered),
		Pending:    len(s.PendingBatch()),
		Anomalies:  s.anomalies,
		Error:      s.fetchErr,
	}
}
