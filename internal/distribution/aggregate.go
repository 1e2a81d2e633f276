package distribution

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Summary holds the headline figures shown above a distribution table.
type Summary struct {
	TotalWinning       decimal.Decimal `json:"totalWinning"`
	PlayerWinning      decimal.Decimal `json:"playerWinning"`
	TotalDistributable decimal.Decimal `json:"totalDistributable"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	TotalPlayers       int             `json:"totalPlayers"`
	ApprovedCount      int             `json:"approvedCount"`
	PendingCount       int             `json:"pendingCount"`
}

// Summarize reduces a record set to its headline figures.
//
// TotalWinning, TotalPlayers, TotalDistributable and PlayerWinning sum
// per-record fields that are denormalized game-level values: they are
// only meaningful when records belong to a single game, or were already
// deduplicated to one row per game. Summarize performs no deduplication.
// TotalAmount is genuinely per-beneficiary and always safe to sum.
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		s.TotalWinning = s.TotalWinning.Add(r.TotalWinning)
		s.PlayerWinning = s.PlayerWinning.Add(r.TotalWinning.Sub(r.Distributable))
		s.TotalDistributable = s.TotalDistributable.Add(r.Distributable)
		s.TotalAmount = s.TotalAmount.Add(r.Amount)
		s.TotalPlayers += r.TotalPlayers
		if r.Approved {
			s.ApprovedCount++
		} else {
			s.PendingCount++
		}
	}
	return s
}

// GroupKey selects the grouping dimension for GroupBy.
type GroupKey int

const (
	GroupByPhone GroupKey = iota
	GroupByRole
)

// Group is one bucket of a grouped breakdown. Owner carries the display
// name of the first record in the bucket (used by the by-phone table).
type Group struct {
	Key         string          `json:"key"`
	Owner       string          `json:"owner,omitempty"`
	Items       []Record        `json:"items"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// GroupBy buckets records by phone or role, preserving first-seen key
// order. Every record lands in exactly one bucket: role buckets are
// keyed by display label, so unrecognized roles collapse into the
// explicit "Unknown" bucket rather than fanning out per raw value.
func GroupBy(records []Record, key GroupKey) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, r := range records {
		k := r.Phone
		if key == GroupByRole {
			k = r.Role.Label()
		}
		if k == "" {
			k = "unknown"
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k, Owner: r.Owner})
		}
		groups[i].Items = append(groups[i].Items, r)
		groups[i].Count++
		groups[i].TotalAmount = groups[i].TotalAmount.Add(r.Amount)
	}
	return groups
}

// StatusFilter restricts a record set by its approved flag.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusApproved StatusFilter = "approved"
	StatusPending  StatusFilter = "pending"
)

func ParseStatusFilter(s string) (StatusFilter, bool) {
	switch StatusFilter(s) {
	case StatusAll, StatusApproved, StatusPending:
		return StatusFilter(s), true
	case "":
		return StatusAll, true
	}
	return StatusAll, false
}

// FilterBySearchAndStatus returns the records whose game id, owner or
// phone contains term (case-insensitive, any field suffices) and whose
// approved flag matches status. The input slice is never mutated.
func FilterBySearchAndStatus(records []Record, term string, status StatusFilter) []Record {
	term = strings.ToLower(term)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if term != "" {
			match := strings.Contains(strings.ToLower(r.GameID), term) ||
				strings.Contains(strings.ToLower(r.Owner), term) ||
				strings.Contains(strings.ToLower(r.Phone), term)
			if !match {
				continue
			}
		}
		switch status {
		case StatusApproved:
			if !r.Approved {
				continue
			}
		case StatusPending:
			if r.Approved {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
