package ports

import (
	"context"
	"time"

	contractsv1 "medledger/contracts/gen/events/v1"

	"medledger/contexts/pharmacy-supply/inventory-ledger/domain/entities"
)

// DrugDraft is a validated creation request. The repository assigns the
// sequential drug id and the audit sequence inside one atomic commit.
type DrugDraft struct {
	Name      string
	Quantity  int64
	ExpiresAt time.Time
	AddedBy   string
	CreatedAt time.Time
}

// Repository is the serializing boundary around the ledger. Mutations commit
// one at a time in a single global order; preconditions are re-evaluated
// inside the critical section so racing callers fail deterministically
// against already-updated state. Every mutation appends its audit entry
// within the same atomic unit.
type Repository interface {
	CreateDrug(ctx context.Context, draft DrugDraft, eventID string) (entities.Drug, entities.AuditEntry, error)
	DispenseDrug(ctx context.Context, drugID uint64, amount int64, actor string, now time.Time, eventID string) (entities.Drug, entities.AuditEntry, error)
	GetDrug(ctx context.Context, drugID uint64) (entities.Drug, error)
	ListDrugs(ctx context.Context) ([]entities.Drug, error)
	ListDrugIDs(ctx context.Context) ([]uint64, error)
	CountDrugs(ctx context.Context) (int64, error)
}

// AuditFilter selects entries by sequence range and optional drug id.
// Zero values mean open-ended.
type AuditFilter struct {
	FromSequence uint64
	ToSequence   uint64
	DrugID       uint64
	Limit        int
}

type AuditLog interface {
	ListEntries(ctx context.Context, filter AuditFilter) ([]entities.AuditEntry, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// AuditEnvelope is the canonical export shape for audit entries.
type AuditEnvelope = contractsv1.Envelope

type AddDrugInput struct {
	Name      string
	Quantity  int64
	ExpiresAt time.Time
}

// DrugView pairs a record with its derived, never-stored expiry flag and
// batch state.
type DrugView struct {
	Drug      entities.Drug
	IsExpired bool
	State     entities.BatchState
}
