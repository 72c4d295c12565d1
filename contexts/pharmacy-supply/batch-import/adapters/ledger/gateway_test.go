package ledgeradapter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	ledgeradapter "medledger/contexts/pharmacy-supply/batch-import/adapters/ledger"
	"medledger/contexts/pharmacy-supply/batch-import/domain/entities"
	inventoryledger "medledger/contexts/pharmacy-supply/inventory-ledger"
	ledgererrors "medledger/contexts/pharmacy-supply/inventory-ledger/domain/errors"
)

func TestGatewaySubmitsRowToLedger(t *testing.T) {
	module := inventoryledger.NewInMemoryModule("chief-pharmacist", nil)
	gateway := ledgeradapter.Gateway{Service: module.Service}

	receipt, err := gateway.AddDrug(context.Background(), "chief-pharmacist", entities.DrugRow{
		Name:      "Paracetamol",
		Quantity:  1000,
		ExpiresAt: time.Now().UTC().Add(30 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("gateway add failed: %v", err)
	}
	if receipt.DrugID != 1 || receipt.Sequence != 1 {
		t.Fatalf("expected first commit, got %+v", receipt)
	}
	if receipt.EventID == "" {
		t.Fatalf("expected event id on receipt")
	}

	view, err := module.Service.GetDrug(context.Background(), receipt.DrugID)
	if err != nil {
		t.Fatalf("get drug failed: %v", err)
	}
	if view.Drug.Name != "Paracetamol" || view.Drug.Quantity != 1000 {
		t.Fatalf("ledger record does not match submitted row: %+v", view.Drug)
	}
}

func TestGatewayPropagatesRoleGate(t *testing.T) {
	module := inventoryledger.NewInMemoryModule("chief-pharmacist", nil)
	gateway := ledgeradapter.Gateway{Service: module.Service}

	_, err := gateway.AddDrug(context.Background(), "nurse-7", entities.DrugRow{
		Name:      "Aspirin",
		Quantity:  10,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	})
	if !errors.Is(err, ledgererrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized from registry, got %v", err)
	}
}
