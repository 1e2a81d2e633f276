package backend

import (
	"time"

	"github.com/shopspring/decimal"
)

// Game is one settled or running bingo game as listed by the backend.
type Game struct {
	GameID          string          `json:"game_id"`
	Date            *time.Time      `json:"date"`
	BetAmount       decimal.Decimal `json:"bet_amount"`
	NumberOfPlayers int             `json:"number_of_players"`
	CutAmount       decimal.Decimal `json:"cut_amount"`
	GameCompleted   bool            `json:"game_completed"`
}

// LedgerSummary is the backend's pre-aggregated cross-game summary,
// passed through untouched to the dashboard ledger view.
type LedgerSummary struct {
	TotalGames         int             `json:"totalGames"`
	TotalPlayers       int             `json:"totalPlayers"`
	TotalWinning       decimal.Decimal `json:"totalWinning"`
	TotalDistributable decimal.Decimal `json:"totalDistributable"`
	TotalPaid          decimal.Decimal `json:"totalPaid"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
