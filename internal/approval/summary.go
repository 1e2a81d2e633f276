package approval

import (
	"github.com/shopspring/decimal"

	"hagere-admin/internal/distribution"
)

// Batch is the ephemeral working set of a bulk approval: the unapproved
// records selected from one game's review surface, plus an optional
// note. It is derived on dialog open and discarded on close.
type Batch struct {
	Items []distribution.Record `json:"items"`
	Note  string                `json:"note,omitempty"`
}

func (b Batch) Empty() bool { return len(b.Items) == 0 }

// GameID is the approval scope, taken from the first record. Batches
// never span games: they are always built from a single-game surface.
func (b Batch) GameID() string {
	if len(b.Items) == 0 {
		return ""
	}
	return b.Items[0].GameID
}

// Summary is what the confirmation dialog shows before the operator
// commits: overall totals plus by-phone and by-role breakdowns.
type Summary struct {
	Count        int                  `json:"count"`
	TotalAmount  decimal.Decimal      `json:"totalAmount"`
	TotalPlayers int                  `json:"totalPlayers"`
	ByPhone      []distribution.Group `json:"byPhone"`
	ByRole       []distribution.Group `json:"byRole"`
}

// Summarize aggregates a batch for review. TotalPlayers counts the
// beneficiaries' own players (yourPlayers), not the game-level figure.
func Summarize(b Batch) Summary {
	s := Summary{
		ByPhone: distribution.GroupBy(b.Items, distribution.GroupByPhone),
		ByRole:  distribution.GroupBy(b.Items, distribution.GroupByRole),
	}
	for _, r := range b.Items {
		s.Count++
		s.TotalAmount = s.TotalAmount.Add(r.Amount)
		s.TotalPlayers += r.YourPlayers
	}
	return s
}
