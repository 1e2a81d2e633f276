package approval

import (
	"testing"

	"hagere-admin/internal/distribution"

	"github.com/shopspring/decimal"
)

func batchRecord(phone string, role distribution.Role, amount float64, players int) distribution.Record {
	return distribution.Record{
		GameID:      "G100",
		Phone:       phone,
		Owner:       "owner-" + phone,
		Role:        role,
		Amount:      decimal.NewFromFloat(amount),
		YourPlayers: players,
	}
}

func TestSummarizeBatchTotals(t *testing.T) {
	b := Batch{Items: []distribution.Record{
		batchRecord("0911", distribution.RoleAgent, 100, 4),
		batchRecord("0922", distribution.RoleUser, 250.5, 2),
		batchRecord("0933", distribution.RoleAgent, 0, 1),
	}}
	s := Summarize(b)
	if s.Count != 3 {
		t.Fatalf("Count = %d, want 3", s.Count)
	}
	if !s.TotalAmount.Equal(decimal.NewFromFloat(350.5)) {
		t.Fatalf("TotalAmount = %s, want 350.5", s.TotalAmount)
	}
	if s.TotalPlayers != 7 {
		t.Fatalf("TotalPlayers = %d, want 7", s.TotalPlayers)
	}
}

func TestSummarizeBatchBreakdownsPartition(t *testing.T) {
	b := Batch{Items: []distribution.Record{
		batchRecord("0911", distribution.RoleAgent, 10, 1),
		batchRecord("0922", distribution.RoleUser, 20, 1),
		batchRecord("0933", distribution.RoleAgent, 30, 1),
	}}
	s := Summarize(b)
	for name, groups := range map[string][]distribution.Group{"phone": s.ByPhone, "role": s.ByRole} {
		sum := decimal.Zero
		for _, g := range groups {
			sum = sum.Add(g.TotalAmount)
		}
		if !sum.Equal(s.TotalAmount) {
			t.Fatalf("%s breakdown sums to %s, want %s", name, sum, s.TotalAmount)
		}
	}
	if len(s.ByRole) != 2 {
		t.Fatalf("ByRole groups = %d, want 2", len(s.ByRole))
	}
}

func TestBatchGameID(t *testing.T) {
	var empty Batch
	if !empty.Empty() || empty.GameID() != "" {
		t.Fatalf("empty batch: %v %q", empty.Empty(), empty.GameID())
	}
	b := Batch{Items: []distribution.Record{batchRecord("0911", distribution.RoleAgent, 1, 1)}}
	if b.GameID() != "G100" {
		t.Fatalf("GameID = %q, want G100", b.GameID())
	}
}
