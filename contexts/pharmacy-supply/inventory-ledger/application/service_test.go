package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"medledger/contexts/pharmacy-supply/inventory-ledger/adapters/memory"
	"medledger/contexts/pharmacy-supply/inventory-ledger/application"
	"medledger/contexts/pharmacy-supply/inventory-ledger/domain/entities"
	domainerrors "medledger/contexts/pharmacy-supply/inventory-ledger/domain/errors"
	"medledger/contexts/pharmacy-supply/inventory-ledger/domain/identity"
	"medledger/contexts/pharmacy-supply/inventory-ledger/domain/projection"
	"medledger/contexts/pharmacy-supply/inventory-ledger/ports"
)

const adminID = "chief-pharmacist"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestService() (application.Service, *memory.Store, *fakeClock) {
	store := memory.NewStore()
	clock := &fakeClock{now: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
	service := application.Service{
		Repo:     store,
		Audit:    store,
		Identity: identity.NewResolver(adminID),
		Clock:    clock,
		IDGen:    store,
	}
	return service, store, clock
}

func TestAddDrugAssignsSequentialIDs(t *testing.T) {
	service, _, clock := newTestService()
	expiry := clock.now.Add(30 * 24 * time.Hour)

	first, err := service.AddDrug(context.Background(), adminID, ports.AddDrugInput{
		Name:      "Paracetamol",
		Quantity:  1000,
		ExpiresAt: expiry,
	})
	if err != nil {
		t.Fatalf("add first drug failed: %v", err)
	}
	if first.Drug.DrugID != 1 {
		t.Fatalf("expected first drug id 1, got %d", first.Drug.DrugID)
	}
	if first.Sequence != 1 {
		t.Fatalf("expected first sequence 1, got %d", first.Sequence)
	}
	if first.EventID == "" {
		t.Fatalf("expected event id on commit receipt")
	}

	second, err := service.AddDrug(context.Background(), adminID, ports.AddDrugInput{
		Name:      "Aspirin",
		Quantity:  200,
		ExpiresAt: expiry,
	})
	if err != nil {
		t.Fatalf("add second drug failed: %v", err)
	}
	if second.Drug.DrugID != 2 {
		t.Fatalf("expected second drug id 2, got %d", second.Drug.DrugID)
	}
	if second.Sequence != 2 {
		t.Fatalf("expected second sequence 2, got %d", second.Sequence)
	}
}

func TestAddDrugRejectsStaff(t *testing.T) {
	service, _, clock := newTestService()

	_, err := service.AddDrug(context.Background(), "nurse-7", ports.AddDrugInput{
		Name:      "Aspirin",
		Quantity:  10,
		ExpiresAt: clock.now.Add(time.Hour),
	})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for staff add, got %v", err)
	}

	total, err := service.TotalCount(context.Background())
	if err != nil {
		t.Fatalf("total count failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("rejected add must not change the count, got %d", total)
	}
}

func TestAddDrugValidatesInput(t *testing.T) {
	service, _, clock := newTestService()
	future := clock.now.Add(time.Hour)

	cases := []struct {
		label string
		input ports.AddDrugInput
	}{
		{"empty name", ports.AddDrugInput{Name: "   ", Quantity: 10, ExpiresAt: future}},
		{"zero quantity", ports.AddDrugInput{Name: "Aspirin", Quantity: 0, ExpiresAt: future}},
		{"negative quantity", ports.AddDrugInput{Name: "Aspirin", Quantity: -5, ExpiresAt: future}},
		{"expiry in past", ports.AddDrugInput{Name: "ExpiredBatch", Quantity: 10, ExpiresAt: clock.now.Add(-time.Hour)}},
		{"expiry exactly now", ports.AddDrugInput{Name: "EdgeBatch", Quantity: 10, ExpiresAt: clock.now}},
	}
	for _, tc := range cases {
		if _, err := service.AddDrug(context.Background(), adminID, tc.input); !errors.Is(err, domainerrors.ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", tc.label, err)
		}
	}

	total, err := service.TotalCount(context.Background())
	if err != nil {
		t.Fatalf("total count failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("rejected adds must not change the count, got %d", total)
	}

	entries, err := service.ListAuditEntries(context.Background(), ports.AuditFilter{})
	if err != nil {
		t.Fatalf("list audit failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected adds must not reach the audit log, got %d entries", len(entries))
	}
}

func TestDispenseReducesStock(t *testing.T) {
	service, _, clock := newTestService()
	receipt, err := service.AddDrug(context.Background(), adminID, ports.AddDrugInput{
		Name:      "Paracetamol",
		Quantity:  1000,
		ExpiresAt: clock.now.Add(30 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("add drug failed: %v", err)
	}

	dispensed, err := service.DispenseDrug(context.Background(), "nurse-7", receipt.Drug.DrugID, 50)
	if err != nil {
		t.Fatalf("dispense failed: %v", err)
	}
	if dispensed.Drug.Quantity != 950 {
		t.Fatalf("expected remaining 950, got %d", dispensed.Drug.Quantity)
	}
	if dispensed.Sequence != 2 {
		t.Fatalf("expected dispense sequence 2, got %d", dispensed.Sequence)
	}

	_, err = service.DispenseDrug(context.Background(), "nurse-7", receipt.Drug.DrugID, 1000)
	if !errors.Is(err, domainerrors.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	view, err := service.GetDrug(context.Background(), receipt.Drug.DrugID)
	if err != nil {
		t.Fatalf("get drug failed: %v", err)
	}
	if view.Drug.Quantity != 950 {
		t.Fatalf("failed dispense must not change stock, got %d", view.Drug.Quantity)
	}
	if view.State != entities.BatchStatePartiallyDispensed {
		t.Fatalf("expected partially_dispensed, got %s", view.State)
	}
}

func TestDispenseRejectsAdmin(t *testing.T) {
	service, _, clock := newTestService()
	receipt, err := service.AddDrug(context.Background(), adminID, ports.AddDrugInput{
		Name:      "Aspirin",
		Quantity:  100,
		ExpiresAt: clock.now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("add drug failed: %v", err)
	}

	_, err = service.DispenseDrug(context.Background(), adminID, receipt.Drug.DrugID, 1)
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for admin dispense, got %v", err)
	}
}

func TestDispenseUnknownDrug(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.DispenseDrug(context.Background(), "nurse-7", 42, 1)
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDispenseExpiryTakesPrecedenceOverStock(t *testing.T) {
	service, _, clock := newTestService()
	receipt, err := service.AddDrug(context.Background(), adminID, ports.AddDrugInput{
		Name:      "Amoxicillin",
		Quantity:  10,
		ExpiresAt: clock.now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("add drug failed: %v", err)
	}

	clock.Advance(2 * time.Hour)

	// Over-asking an expired batch still reports expiry, not stock.
	_, err = service.DispenseDrug(context.Background(), "nurse-7", receipt.Drug.DrugID, 100)
	if !errors.Is(err, domainerrors.ErrExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
	_, err = service.DispenseDrug(context.Background(), "nurse-7", receipt.Drug.DrugID, 1)
	if !errors.Is(err, domainerrors.ErrExpired) {
		t.Fatalf("expected expired for in-stock amount, got %v", err)
	}

	view, err := service.GetDrug(context.Background(), receipt.Drug.DrugID)
	if err != nil {
		t.Fatalf("get drug failed: %v", err)
	}
	if !view.IsExpired {
		t.Fatalf("expected view to report expiry")
	}
	if view.State != entities.BatchStateExpired {
		t.Fatalf("expected expired state, got %s", view.State)
	}
}

func TestDispenseNonPositiveAmount(t *testing.T) {
	service, _, clock := newTestService()
	receipt, err := service.AddDrug(context.Background(), adminID, ports.AddDrugInput{
		Name:      "Aspirin",
		Quantity:  100,
		ExpiresAt: clock.now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("add drug failed: %v", err)
	}

	for _, amount := range []int64{0, -10} {
		_, err := service.DispenseDrug(context.Background(), "nurse-7", receipt.Drug.DrugID, amount)
		if !errors.Is(err, domainerrors.ErrInsufficientStock) {
			t.Fatalf("amount %d: expected insufficient stock, got %v", amount, err)
		}
	}
}

func TestListDrugIDsAndCountSurviveDepletion(t *testing.T) {
	service, _, clock := newTestService()
	expiry := clock.now.Add(time.Hour)

	for _, name := range []string{"Paracetamol", "Aspirin", "Ibuprofen"} {
		if _, err := service.AddDrug(context.Background(), adminID, ports.AddDrugInput{
			Name:      name,
			Quantity:  10,
			ExpiresAt: expiry,
		}); err != nil {
			t.Fatalf("add %s failed: %v", name, err)
		}
	}

	if _, err := service.DispenseDrug(context.Background(), "nurse-7", 2, 10); err != nil {
		t.Fatalf("deplete failed: %v", err)
	}

	ids, err := service.ListDrugIDs(context.Background())
	if err != nil {
		t.Fatalf("list ids failed: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Fatalf("expected ids [1 2 3], got %v", ids)
	}

	total, err := service.TotalCount(context.Background())
	if err != nil {
		t.Fatalf("total count failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("count must include depleted batches, got %d", total)
	}

	view, err := service.GetDrug(context.Background(), 2)
	if err != nil {
		t.Fatalf("depleted batch must remain readable: %v", err)
	}
	if view.State != entities.BatchStateDepleted {
		t.Fatalf("expected depleted state, got %s", view.State)
	}
}

func TestAuditLogReplayMatchesTable(t *testing.T) {
	service, _, clock := newTestService()
	expiry := clock.now.Add(30 * 24 * time.Hour)

	p, err := service.AddDrug(context.Background(), adminID, ports.AddDrugInput{
		Name: "Paracetamol", Quantity: 1000, ExpiresAt: expiry,
	})
	if err != nil {
		t.Fatalf("add paracetamol failed: %v", err)
	}
	a, err := service.AddDrug(context.Background(), adminID, ports.AddDrugInput{
		Name: "Aspirin", Quantity: 200, ExpiresAt: expiry,
	})
	if err != nil {
		t.Fatalf("add aspirin failed: %v", err)
	}
	if _, err := service.DispenseDrug(context.Background(), "nurse-7", p.Drug.DrugID, 50); err != nil {
		t.Fatalf("dispense paracetamol failed: %v", err)
	}
	if _, err := service.DispenseDrug(context.Background(), "nurse-8", a.Drug.DrugID, 200); err != nil {
		t.Fatalf("dispense aspirin failed: %v", err)
	}

	entries, err := service.ListAuditEntries(context.Background(), ports.AuditFilter{})
	if err != nil {
		t.Fatalf("list audit failed: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 audit entries, got %d", len(entries))
	}
	for i, entry := range entries {
		if entry.Sequence != uint64(i+1) {
			t.Fatalf("expected gap-free sequences, got %d at position %d", entry.Sequence, i)
		}
	}

	replayed, err := projection.Replay(entries)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	drugs, err := service.ListDrugs(context.Background())
	if err != nil {
		t.Fatalf("list drugs failed: %v", err)
	}
	if len(replayed) != len(drugs) {
		t.Fatalf("replay size %d does not match table size %d", len(replayed), len(drugs))
	}
	for _, view := range drugs {
		rebuilt, exists := replayed[view.Drug.DrugID]
		if !exists {
			t.Fatalf("drug %d missing from replay", view.Drug.DrugID)
		}
		if rebuilt.Quantity != view.Drug.Quantity {
			t.Fatalf("drug %d: replay quantity %d, table quantity %d", view.Drug.DrugID, rebuilt.Quantity, view.Drug.Quantity)
		}
		if rebuilt.Name != view.Drug.Name {
			t.Fatalf("drug %d: replay name %q, table name %q", view.Drug.DrugID, rebuilt.Name, view.Drug.Name)
		}
	}
}

func TestAuditFilterBySequenceAndDrug(t *testing.T) {
	service, _, clock := newTestService()
	expiry := clock.now.Add(time.Hour)

	for _, name := range []string{"A", "B"} {
		if _, err := service.AddDrug(context.Background(), adminID, ports.AddDrugInput{
			Name: name, Quantity: 100, ExpiresAt: expiry,
		}); err != nil {
			t.Fatalf("add %s failed: %v", name, err)
		}
	}
	if _, err := service.DispenseDrug(context.Background(), "nurse-7", 1, 10); err != nil {
		t.Fatalf("dispense failed: %v", err)
	}

	fromSecond, err := service.ListAuditEntries(context.Background(), ports.AuditFilter{FromSequence: 2})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if len(fromSecond) != 2 || fromSecond[0].Sequence != 2 {
		t.Fatalf("expected entries from sequence 2, got %+v", fromSecond)
	}

	forDrug, err := service.ListAuditEntries(context.Background(), ports.AuditFilter{DrugID: 1})
	if err != nil {
		t.Fatalf("drug-filtered list failed: %v", err)
	}
	if len(forDrug) != 2 {
		t.Fatalf("expected 2 entries for drug 1, got %d", len(forDrug))
	}

	limited, err := service.ListAuditEntries(context.Background(), ports.AuditFilter{Limit: 1})
	if err != nil {
		t.Fatalf("limited list failed: %v", err)
	}
	if len(limited) != 1 || limited[0].Sequence != 1 {
		t.Fatalf("expected only the first entry, got %+v", limited)
	}
}
