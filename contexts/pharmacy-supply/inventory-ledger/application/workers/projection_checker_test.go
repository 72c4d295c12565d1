package workers_test

import (
	"context"
	"testing"
	"time"

	"medledger/contexts/pharmacy-supply/inventory-ledger/adapters/memory"
	"medledger/contexts/pharmacy-supply/inventory-ledger/application/workers"
	"medledger/contexts/pharmacy-supply/inventory-ledger/domain/entities"
	"medledger/contexts/pharmacy-supply/inventory-ledger/ports"
)

func TestProjectionCheckerPassesOnConsistentStore(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	drug, _, err := store.CreateDrug(context.Background(), ports.DrugDraft{
		Name:      "Paracetamol",
		Quantity:  1000,
		ExpiresAt: now.Add(30 * 24 * time.Hour),
		AddedBy:   "chief-pharmacist",
		CreatedAt: now,
	}, "evt-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, _, err := store.DispenseDrug(context.Background(), drug.DrugID, 50, "nurse-7", now, "evt-2"); err != nil {
		t.Fatalf("dispense failed: %v", err)
	}

	checker := workers.ProjectionChecker{Repo: store, Audit: store}
	if err := checker.RunOnce(context.Background()); err != nil {
		t.Fatalf("consistent store must pass the check: %v", err)
	}
}

type corruptAudit struct {
	entries []entities.AuditEntry
}

func (c corruptAudit) ListEntries(context.Context, ports.AuditFilter) ([]entities.AuditEntry, error) {
	return c.entries, nil
}

func TestProjectionCheckerFailsOnBrokenLog(t *testing.T) {
	store := memory.NewStore()

	checker := workers.ProjectionChecker{
		Repo: store,
		Audit: corruptAudit{entries: []entities.AuditEntry{
			{Sequence: 1, Type: entities.EntryTypeDispensed, DrugID: 1, QuantityDelta: 5},
		}},
	}
	if err := checker.RunOnce(context.Background()); err == nil {
		t.Fatalf("unreplayable log must fail the check")
	}
}
