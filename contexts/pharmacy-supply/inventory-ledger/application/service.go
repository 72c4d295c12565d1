package application

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"medledger/contexts/pharmacy-supply/inventory-ledger/domain/entities"
	domainerrors "medledger/contexts/pharmacy-supply/inventory-ledger/domain/errors"
	"medledger/contexts/pharmacy-supply/inventory-ledger/domain/identity"
	"medledger/contexts/pharmacy-supply/inventory-ledger/ports"
)

const maxNameLength = 255

// Service is the drug registry: role-gated mutations over the serialized
// repository plus the read-only query surface. Reads bypass the role gate.
type Service struct {
	Repo     ports.Repository
	Audit    ports.AuditLog
	Identity identity.Resolver
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// CommitReceipt identifies a committed mutation for external correlation.
type CommitReceipt struct {
	Drug     entities.Drug
	Sequence uint64
	EventID  string
}

// AddDrug creates a new batch. Only the admin identity may stock the ledger.
func (s Service) AddDrug(ctx context.Context, actor string, input ports.AddDrugInput) (CommitReceipt, error) {
	if !s.Identity.IsAdmin(actor) {
		return CommitReceipt{}, domainerrors.ErrUnauthorized
	}

	name := strings.TrimSpace(input.Name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return CommitReceipt{}, domainerrors.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return CommitReceipt{}, domainerrors.ErrInvalidInput
	}

	now := s.now()
	if !input.ExpiresAt.After(now) {
		// An already-expired batch can never be created.
		return CommitReceipt{}, domainerrors.ErrInvalidInput
	}

	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return CommitReceipt{}, err
	}

	drug, entry, err := s.Repo.CreateDrug(ctx, ports.DrugDraft{
		Name:      name,
		Quantity:  input.Quantity,
		ExpiresAt: input.ExpiresAt.UTC(),
		AddedBy:   actor,
		CreatedAt: now,
	}, eventID)
	if err != nil {
		return CommitReceipt{}, err
	}

	resolveLogger(s.Logger).Info("drug batch added",
		"event", "drug_batch_added",
		"module", "pharmacy-supply/inventory-ledger",
		"layer", "application",
		"drug_id", drug.DrugID,
		"quantity", drug.Quantity,
		"actor", actor,
		"sequence", entry.Sequence,
	)
	return CommitReceipt{Drug: drug, Sequence: entry.Sequence, EventID: entry.EventID}, nil
}

// DispenseDrug reduces a batch's quantity. Only staff may dispense; the admin
// identity is deliberately excluded (separation between who stocks and who
// consumes). Expiry is re-evaluated against the injected clock at call time
// and takes precedence over stock availability.
func (s Service) DispenseDrug(ctx context.Context, actor string, drugID uint64, amount int64) (CommitReceipt, error) {
	if !s.Identity.IsStaff(actor) {
		return CommitReceipt{}, domainerrors.ErrUnauthorized
	}

	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return CommitReceipt{}, err
	}

	drug, entry, err := s.Repo.DispenseDrug(ctx, drugID, amount, actor, s.now(), eventID)
	if err != nil {
		return CommitReceipt{}, err
	}

	resolveLogger(s.Logger).Info("drug batch dispensed",
		"event", "drug_batch_dispensed",
		"module", "pharmacy-supply/inventory-ledger",
		"layer", "application",
		"drug_id", drug.DrugID,
		"amount", amount,
		"remaining", drug.Quantity,
		"actor", actor,
		"sequence", entry.Sequence,
	)
	return CommitReceipt{Drug: drug, Sequence: entry.Sequence, EventID: entry.EventID}, nil
}

func (s Service) GetDrug(ctx context.Context, drugID uint64) (ports.DrugView, error) {
	drug, err := s.Repo.GetDrug(ctx, drugID)
	if err != nil {
		return ports.DrugView{}, err
	}
	return s.toView(drug), nil
}

func (s Service) ListDrugs(ctx context.Context) ([]ports.DrugView, error) {
	drugs, err := s.Repo.ListDrugs(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ports.DrugView, 0, len(drugs))
	for _, drug := range drugs {
		views = append(views, s.toView(drug))
	}
	return views, nil
}

// ListDrugIDs returns every id ever assigned, in assignment order.
func (s Service) ListDrugIDs(ctx context.Context) ([]uint64, error) {
	return s.Repo.ListDrugIDs(ctx)
}

// TotalCount is the lifetime creation count; it never decreases.
func (s Service) TotalCount(ctx context.Context) (int64, error) {
	return s.Repo.CountDrugs(ctx)
}

func (s Service) ListAuditEntries(ctx context.Context, filter ports.AuditFilter) ([]entities.AuditEntry, error) {
	return s.Audit.ListEntries(ctx, filter)
}

func (s Service) ResolveRole(actor string) identity.Role {
	return s.Identity.Resolve(actor)
}

func (s Service) IsAdmin(actor string) bool {
	return s.Identity.IsAdmin(actor)
}

func (s Service) IsStaff(actor string) bool {
	return s.Identity.IsStaff(actor)
}

// ViewOf derives the expiry flag and batch state for a record at the service
// clock's current time.
func (s Service) ViewOf(drug entities.Drug) ports.DrugView {
	return s.toView(drug)
}

func (s Service) toView(drug entities.Drug) ports.DrugView {
	now := s.now()
	return ports.DrugView{
		Drug:      drug,
		IsExpired: drug.IsExpired(now),
		State:     drug.State(now),
	}
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
