package repository

import (
	"testing"
	"time"

	"github.com/avrentops/rentalctl/internal/domain"
)

func TestEquipmentCreateDefaults(t *testing.T) {
	repo := NewEquipmentRepository(newTestDB(t))

	item := &domain.Equipment{Name: "Yamaha CL5", Reference: "MIX-001", CategoryID: "cat-1", QuantityTotal: 3}
	if err := repo.Create(item); err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.Status != domain.EquipmentAvailable {
		t.Fatalf("default status = %q", item.Status)
	}
	if item.QuantityAvailable != 3 {
		t.Fatalf("available should default to total, got %d", item.QuantityAvailable)
	}
}

func TestEquipmentReservedBetween(t *testing.T) {
	db := newTestDB(t)
	equipment := NewEquipmentRepository(db)
	events := NewEventRepository(db)

	item := &domain.Equipment{Name: "Speaker", Reference: "SPK-001", CategoryID: "cat-1", QuantityTotal: 10}
	if err := equipment.Create(item); err != nil {
		t.Fatalf("create equipment: %v", err)
	}

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	makeEvent := func(name string, status domain.EventStatus, installOffset, dismantleOffset int) *domain.Event {
		ev := testEvent(name)
		ev.Status = status
		ev.InstallationDate = base.AddDate(0, 0, installOffset)
		ev.EventDate = base.AddDate(0, 0, installOffset+1)
		ev.DismantlingDate = base.AddDate(0, 0, dismantleOffset)
		if err := events.Create(ev); err != nil {
			t.Fatalf("create event %s: %v", name, err)
		}
		return ev
	}

	overlapping := makeEvent("Overlapping", domain.EventPlanned, 0, 3)
	cancelled := makeEvent("Cancelled", domain.EventCancelled, 0, 3)
	disjoint := makeEvent("Disjoint", domain.EventPlanned, 10, 12)

	for ev, qty := range map[*domain.Event]int{overlapping: 4, cancelled: 5, disjoint: 2} {
		resv := &domain.EventEquipment{EventID: ev.ID, EquipmentID: item.ID, QuantityReserved: qty}
		if err := events.AddEquipment(resv); err != nil {
			t.Fatalf("add reservation: %v", err)
		}
	}

	reserved, err := equipment.ReservedBetween(item.ID, base.AddDate(0, 0, 1), base.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("reserved between: %v", err)
	}
	// Only the overlapping planned event counts: cancelled events and
	// windows that do not intersect are excluded.
	if reserved != 4 {
		t.Fatalf("reserved = %d, want 4", reserved)
	}
}

func TestEquipmentListPagedSearch(t *testing.T) {
	repo := NewEquipmentRepository(newTestDB(t))

	for _, spec := range []struct{ name, ref string }{
		{"Yamaha CL5", "MIX-001"},
		{"Behringer X32", "MIX-002"},
		{"Shure SM58", "MIC-001"},
	} {
		item := &domain.Equipment{Name: spec.name, Reference: spec.ref, CategoryID: "cat-1", QuantityTotal: 1}
		if err := repo.Create(item); err != nil {
			t.Fatalf("create %s: %v", spec.name, err)
		}
	}

	page, err := repo.ListPaged(EquipmentListQuery{Search: "MIX"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("total = %d, want 2", page.Total)
	}

	page, err = repo.ListPaged(EquipmentListQuery{PageRequest: PageRequest{Page: 2, PageSize: 2}})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(page.Items) != 1 || page.TotalPages != 2 {
		t.Fatalf("page 2 = %+v", page)
	}
}

func TestEquipmentHistoryOrdering(t *testing.T) {
	repo := NewEquipmentRepository(newTestDB(t))

	item := &domain.Equipment{Name: "Projector", Reference: "PRJ-001", CategoryID: "cat-1", QuantityTotal: 1}
	if err := repo.Create(item); err != nil {
		t.Fatalf("create: %v", err)
	}
	older := &domain.EquipmentStatusHistory{EquipmentID: item.ID, Status: domain.EquipmentRented, Quantity: 1, ChangedAt: time.Now().Add(-time.Hour)}
	newer := &domain.EquipmentStatusHistory{EquipmentID: item.ID, Status: domain.EquipmentAvailable, Quantity: 1, ChangedAt: time.Now()}
	if err := repo.AppendHistory(older); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.AppendHistory(newer); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := repo.History(item.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 2 || entries[0].Status != domain.EquipmentAvailable {
		t.Fatalf("entries = %+v", entries)
	}
}
