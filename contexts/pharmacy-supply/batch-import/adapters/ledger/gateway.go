package ledgeradapter

import (
	"context"

	"medledger/contexts/pharmacy-supply/batch-import/domain/entities"
	"medledger/contexts/pharmacy-supply/batch-import/ports"
	ledgerapp "medledger/contexts/pharmacy-supply/inventory-ledger/application"
	ledgerports "medledger/contexts/pharmacy-supply/inventory-ledger/ports"
)

// Gateway adapts the inventory-ledger application service onto the import
// module's LedgerGateway port. This is the only edge between the two modules;
// domain and application layers on both sides stay decoupled.
type Gateway struct {
	Service ledgerapp.Service
}

func (g Gateway) AddDrug(ctx context.Context, actor string, row entities.DrugRow) (ports.AddReceipt, error) {
	receipt, err := g.Service.AddDrug(ctx, actor, ledgerports.AddDrugInput{
		Name:      row.Name,
		Quantity:  row.Quantity,
		ExpiresAt: row.ExpiresAt,
	})
	if err != nil {
		return ports.AddReceipt{}, err
	}
	return ports.AddReceipt{
		DrugID:   receipt.Drug.DrugID,
		Sequence: receipt.Sequence,
		EventID:  receipt.EventID,
	}, nil
}
