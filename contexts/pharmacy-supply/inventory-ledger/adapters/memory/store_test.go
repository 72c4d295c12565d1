package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"medledger/contexts/pharmacy-supply/inventory-ledger/adapters/memory"
	domainerrors "medledger/contexts/pharmacy-supply/inventory-ledger/domain/errors"
	"medledger/contexts/pharmacy-supply/inventory-ledger/ports"
)

func seedDrug(t *testing.T, store *memory.Store, quantity int64, expiresAt time.Time) uint64 {
	t.Helper()
	drug, _, err := store.CreateDrug(context.Background(), ports.DrugDraft{
		Name:      "Paracetamol",
		Quantity:  quantity,
		ExpiresAt: expiresAt,
		AddedBy:   "chief-pharmacist",
		CreatedAt: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
	}, "evt-seed")
	if err != nil {
		t.Fatalf("seed drug failed: %v", err)
	}
	return drug.DrugID
}

func TestStoreCreateAppendsAuditAtomically(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	drug, entry, err := store.CreateDrug(context.Background(), ports.DrugDraft{
		Name:      "Aspirin",
		Quantity:  200,
		ExpiresAt: now.Add(time.Hour),
		AddedBy:   "chief-pharmacist",
		CreatedAt: now,
	}, "evt-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if drug.DrugID != 1 || entry.Sequence != 1 {
		t.Fatalf("expected id 1 and sequence 1, got %d and %d", drug.DrugID, entry.Sequence)
	}
	if entry.EventID != "evt-1" {
		t.Fatalf("expected event id carried to entry, got %q", entry.EventID)
	}
	if entry.Name != "Aspirin" || !entry.ExpiresAt.Equal(drug.ExpiresAt) {
		t.Fatalf("added entry must be self-sufficient for replay, got %+v", entry)
	}

	entries, err := store.ListEntries(context.Background(), ports.AuditFilter{})
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
}

func TestStoreDispenseFailureOrder(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	id := seedDrug(t, store, 10, now.Add(time.Hour))

	_, _, err := store.DispenseDrug(context.Background(), 99, 1, "nurse-7", now, "evt-x")
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not found first, got %v", err)
	}

	_, _, err = store.DispenseDrug(context.Background(), id, 100, "nurse-7", now.Add(2*time.Hour), "evt-x")
	if !errors.Is(err, domainerrors.ErrExpired) {
		t.Fatalf("expected expiry before stock check, got %v", err)
	}

	_, _, err = store.DispenseDrug(context.Background(), id, 100, "nurse-7", now, "evt-x")
	if !errors.Is(err, domainerrors.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	entries, err := store.ListEntries(context.Background(), ports.AuditFilter{})
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("failed dispenses must not append audit entries, got %d", len(entries))
	}
}

func TestStoreConcurrentDispensesNeverOversell(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	id := seedDrug(t, store, 50, now.Add(time.Hour))

	const workers = 10
	var wg sync.WaitGroup
	outcomes := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := store.DispenseDrug(context.Background(), id, 10, "nurse-7", now, "evt-c")
			outcomes <- err
		}()
	}
	wg.Wait()
	close(outcomes)

	succeeded := 0
	for err := range outcomes {
		if err == nil {
			succeeded++
			continue
		}
		if !errors.Is(err, domainerrors.ErrInsufficientStock) {
			t.Fatalf("unexpected dispense error: %v", err)
		}
	}
	if succeeded != 5 {
		t.Fatalf("expected exactly 5 successful dispenses, got %d", succeeded)
	}

	drug, err := store.GetDrug(context.Background(), id)
	if err != nil {
		t.Fatalf("get drug failed: %v", err)
	}
	if drug.Quantity != 0 {
		t.Fatalf("expected stock fully drained, got %d", drug.Quantity)
	}

	entries, err := store.ListEntries(context.Background(), ports.AuditFilter{})
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	if len(entries) != 6 {
		t.Fatalf("expected 1 add + 5 dispense entries, got %d", len(entries))
	}
	for i, entry := range entries {
		if entry.Sequence != uint64(i+1) {
			t.Fatalf("expected gap-free sequence %d, got %d", i+1, entry.Sequence)
		}
	}
}

func TestStoreListOrderFollowsCreation(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	for _, name := range []string{"A", "B", "C"} {
		if _, _, err := store.CreateDrug(context.Background(), ports.DrugDraft{
			Name:      name,
			Quantity:  1,
			ExpiresAt: now.Add(time.Hour),
			AddedBy:   "chief-pharmacist",
			CreatedAt: now,
		}, "evt-"+name); err != nil {
			t.Fatalf("create %s failed: %v", name, err)
		}
	}

	drugs, err := store.ListDrugs(context.Background())
	if err != nil {
		t.Fatalf("list drugs failed: %v", err)
	}
	if len(drugs) != 3 || drugs[0].Name != "A" || drugs[1].Name != "B" || drugs[2].Name != "C" {
		t.Fatalf("expected creation order preserved, got %+v", drugs)
	}

	ids, err := store.ListDrugIDs(context.Background())
	if err != nil {
		t.Fatalf("list ids failed: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Fatalf("expected ids [1 2 3], got %v", ids)
	}
}
