package distribution

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one beneficiary's share of a settled game's payout pool, as
// computed by the settlement backend. Amount is authoritative: it is
// never recomputed here from Distributable and YourPercent.
//
// TotalPlayers, BetAmount, TotalWinning and Distributable are game-level
// figures denormalized onto every record of the same game.
type Record struct {
	GameID        string          `json:"gameId"`
	Date          *time.Time      `json:"date"`
	TotalPlayers  int             `json:"totalPlayers"`
	BetAmount     decimal.Decimal `json:"betAmount"`
	TotalWinning  decimal.Decimal `json:"totalWinning"`
	Distributable decimal.Decimal `json:"distributable"`
	YourPlayers   int             `json:"yourPlayers"`
	YourPercent   float64         `json:"yourPercent"`
	Amount        decimal.Decimal `json:"amount"`
	Phone         string          `json:"phone"`
	Owner         string          `json:"owner"`
	Role          Role            `json:"role"`
	Deposited     bool            `json:"deposited"`
	Approved      bool            `json:"approved"`
	ApprovedBy    string          `json:"approvedBy,omitempty"`
	ApprovedDate  *time.Time      `json:"approvedDate,omitempty"`
	Note          string          `json:"note,omitempty"`
}

// Anomaly flags records whose game-level figures disagree with the first
// record seen for the same game. Anomalies are surfaced to the operator,
// never averaged away.
type Anomaly struct {
	GameID string `json:"gameId"`
	Phone  string `json:"phone"`
	Field  string `json:"field"`
	Detail string `json:"detail"`
}

func (a Anomaly) String() string {
	return fmt.Sprintf("game %s record %s: inconsistent %s (%s)", a.GameID, a.Phone, a.Field, a.Detail)
}

// CheckGameConsistency verifies that every record of a game carries the
// same denormalized game-level figures and a recognized role.
func CheckGameConsistency(records []Record) []Anomaly {
	type gameFigures struct {
		totalPlayers  int
		betAmount     decimal.Decimal
		totalWinning  decimal.Decimal
		distributable decimal.Decimal
	}
	seen := make(map[string]gameFigures)
	var anomalies []Anomaly
	for _, r := range records {
		if !r.Role.Known() {
			anomalies = append(anomalies, Anomaly{
				GameID: r.GameID, Phone: r.Phone, Field: "role",
				Detail: fmt.Sprintf("unrecognized role %q", r.Role),
			})
		}
		first, ok := seen[r.GameID]
		if !ok {
			seen[r.GameID] = gameFigures{
				totalPlayers:  r.TotalPlayers,
				betAmount:     r.BetAmount,
				totalWinning:  r.TotalWinning,
				distributable: r.Distributable,
			}
			continue
		}
		if r.TotalPlayers != first.totalPlayers {
			anomalies = append(anomalies, Anomaly{
				GameID: r.GameID, Phone: r.Phone, Field: "totalPlayers",
				Detail: fmt.Sprintf("%d vs %d", r.TotalPlayers, first.totalPlayers),
			})
		}
		if !r.BetAmount.Equal(first.betAmount) {
			anomalies = append(anomalies, Anomaly{
				GameID: r.GameID, Phone: r.Phone, Field: "betAmount",
				Detail: fmt.Sprintf("%s vs %s", r.BetAmount, first.betAmount),
			})
		}
		if !r.TotalWinning.Equal(first.totalWinning) {
			anomalies = append(anomalies, Anomaly{
				GameID: r.GameID, Phone: r.Phone, Field: "totalWinning",
				Detail: fmt.Sprintf("%s vs %s", r.TotalWinning, first.totalWinning),
			})
		}
		if !r.Distributable.Equal(first.distributable) {
			anomalies = append(anomalies, Anomaly{
				GameID: r.GameID, Phone: r.Phone, Field: "distributable",
				Detail: fmt.Sprintf("%s vs %s", r.Distributable, first.distributable),
			})
		}
	}
	return anomalies
}
