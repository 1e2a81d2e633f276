package review

import (
	"testing"

	"hagere-admin/internal/distribution"

	"github.com/shopspring/decimal"
)

func rec(phone string, amount float64, approved bool) distribution.Record {
	return distribution.Record{
		GameID:   "G100",
		Phone:    phone,
		Owner:    "owner-" + phone,
		Role:     distribution.RoleAgent,
		Amount:   decimal.NewFromFloat(amount),
		Approved: approved,
	}
}

func loadedSurface(records ...distribution.Record) *Surface {
	s := NewSurface("G100")
	seq := s.BeginFetch()
	if !s.ApplyRecords(seq, records) {
		panic("fresh fetch not applied")
	}
	return s
}

func TestSearchChangeResetsPage(t *testing.T) {
	s := loadedSurface(rec("a", 1, false), rec("b", 2, false), rec("c", 3, false))
	s.SetPageSize(1)
	s.SetPage(2)
	if s.View().Page != 2 {
		t.Fatalf("page = %d, want 2", s.View().Page)
	}

	s.SetSearch("owner")
	if s.View().Page != 0 {
		t.Fatalf("page after search change = %d, want 0", s.View().Page)
	}

	s.SetPage(2)
	s.SetStatus(distribution.StatusPending)
	if s.View().Page != 0 {
		t.Fatalf("page after status change = %d, want 0", s.View().Page)
	}
}

func TestSameFilterKeepsPage(t *testing.T) {
	s := loadedSurface(rec("a", 1, false), rec("b", 2, false))
	s.SetSearch("owner")
	s.SetPage(1)
	s.SetSearch("owner")
	if s.View().Page != 1 {
		t.Fatalf("page = %d, want 1 after no-op filter", s.View().Page)
	}
}

func TestPendingBatchExcludesApproved(t *testing.T) {
	s := loadedSurface(rec("A", 10, false), rec("B", 20, true))
	batch := s.PendingBatch()
	if len(batch) != 1 || batch[0].Phone != "A" {
		t.Fatalf("batch = %+v, want only phone A", batch)
	}
}

func TestPendingBatchHonorsSearchFilter(t *testing.T) {
	s := loadedSurface(rec("0911", 10, false), rec("0922", 20, false))
	s.SetSearch("0911")
	batch := s.PendingBatch()
	if len(batch) != 1 || batch[0].Phone != "0911" {
		t.Fatalf("batch = %+v, want only 0911", batch)
	}
}

func TestPaginationIsViewOnly(t *testing.T) {
	s := loadedSurface(rec("a", 100, false), rec("b", 200, false), rec("c", 300, false))
	s.SetPageSize(2)
	s.SetPage(1)

	v := s.View()
	if len(v.Rows) != 1 {
		t.Fatalf("rows on page 1 = %d, want 1", len(v.Rows))
	}
	if v.TotalRows != 3 {
		t.Fatalf("TotalRows = %d, want 3", v.TotalRows)
	}
	if !v.Summary.TotalAmount.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("summary over page only: TotalAmount = %s, want 600", v.Summary.TotalAmount)
	}
}

func TestPageBeyondEndYieldsEmptyRows(t *testing.T) {
	s := loadedSurface(rec("a", 1, false))
	s.SetPage(9)
	v := s.View()
	if len(v.Rows) != 0 || v.TotalRows != 1 {
		t.Fatalf("view = %+v", v)
	}
}

func TestStaleFetchResultIgnored(t *testing.T) {
	s := NewSurface("G100")
	first := s.BeginFetch()
	second := s.BeginFetch()

	if s.ApplyRecords(first, []distribution.Record{rec("old", 1, false)}) {
		t.Fatal("superseded fetch must not be applied")
	}
	if !s.ApplyRecords(second, []distribution.Record{rec("new", 2, false)}) {
		t.Fatal("latest fetch must be applied")
	}
	v := s.View()
	if v.TotalRows != 1 || v.Rows[0].Phone != "new" {
		t.Fatalf("view shows stale data: %+v", v.Rows)
	}

	// A late error from the superseded fetch must not surface either.
	if s.ApplyError(first, "timeout") {
		t.Fatal("superseded error must not be applied")
	}
	if s.View().Error != "" {
		t.Fatalf("unexpected error banner: %q", s.View().Error)
	}
}

func TestFetchErrorKeepsRecords(t *testing.T) {
	s := loadedSurface(rec("a", 1, false))
	seq := s.BeginFetch()
	if !s.ApplyError(seq, "backend unreachable") {
		t.Fatal("latest error not applied")
	}
	v := s.View()
	if v.Error != "backend unreachable" {
		t.Fatalf("Error = %q", v.Error)
	}
	if v.TotalRows != 1 {
		t.Fatal("record set dropped on fetch error")
	}
}

func TestApplyRecordsFlagsAnomalies(t *testing.T) {
	a := rec("a", 1, false)
	a.TotalPlayers = 10
	b := rec("b", 2, false)
	b.TotalPlayers = 12

	s := NewSurface("G100")
	seq := s.BeginFetch()
	s.ApplyRecords(seq, []distribution.Record{a, b})
	if len(s.View().Anomalies) != 1 {
		t.Fatalf("anomalies = %+v, want 1", s.View().Anomalies)
	}
}
