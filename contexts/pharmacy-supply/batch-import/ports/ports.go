package ports

import (
	"context"
	"time"

	"medledger/contexts/pharmacy-supply/batch-import/domain/entities"
)

// AddReceipt identifies the ledger commit produced for one submitted row.
type AddReceipt struct {
	DrugID   uint64
	Sequence uint64
	EventID  string
}

// LedgerGateway submits one validated row at a time to the drug registry.
// The gateway performs no validation of its own; the registry's role gate and
// input rules still apply per row.
type LedgerGateway interface {
	AddDrug(ctx context.Context, actor string, row entities.DrugRow) (AddReceipt, error)
}

type Clock interface {
	Now() time.Time
}
