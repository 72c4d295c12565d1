package memory

import (
	"context"
	"sync"
	"time"

	"medledger/contexts/pharmacy-supply/inventory-ledger/domain/entities"
	domainerrors "medledger/contexts/pharmacy-supply/inventory-ledger/domain/errors"
	"medledger/contexts/pharmacy-supply/inventory-ledger/ports"

	"github.com/google/uuid"
)

// Store is the in-memory ledger. The mutex is the serialization boundary:
// each mutation assigns its drug id and audit sequence, updates the table and
// appends the audit entry under one lock hold, so no reader ever observes a
// partially-applied mutation.
type Store struct {
	mu sync.RWMutex

	drugs        map[uint64]entities.Drug
	order        []uint64
	entries      []entities.AuditEntry
	nextDrugID   uint64
	nextSequence uint64
}

func NewStore() *Store {
	return &Store{
		drugs:        make(map[uint64]entities.Drug),
		nextDrugID:   1,
		nextSequence: 1,
	}
}

func (s *Store) CreateDrug(_ context.Context, draft ports.DrugDraft, eventID string) (entities.Drug, entities.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if draft.Name == "" || draft.Quantity <= 0 {
		return entities.Drug{}, entities.AuditEntry{}, domainerrors.ErrInvalidInput
	}

	drug := entities.Drug{
		DrugID:           s.nextDrugID,
		Name:             draft.Name,
		Quantity:         draft.Quantity,
		OriginalQuantity: draft.Quantity,
		ExpiresAt:        draft.ExpiresAt.UTC(),
		AddedBy:          draft.AddedBy,
		CreatedAt:        draft.CreatedAt.UTC(),
	}
	entry := entities.AuditEntry{
		Sequence:      s.nextSequence,
		EventID:       eventID,
		Type:          entities.EntryTypeAdded,
		DrugID:        drug.DrugID,
		QuantityDelta: draft.Quantity,
		Actor:         draft.AddedBy,
		Name:          drug.Name,
		ExpiresAt:     drug.ExpiresAt,
		OccurredAt:    drug.CreatedAt,
	}

	s.nextDrugID++
	s.nextSequence++
	s.drugs[drug.DrugID] = drug
	s.order = append(s.order, drug.DrugID)
	s.entries = append(s.entries, entry)
	return drug, entry, nil
}

func (s *Store) DispenseDrug(_ context.Context, drugID uint64, amount int64, actor string, now time.Time, eventID string) (entities.Drug, entities.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drug, exists := s.drugs[drugID]
	if !exists {
		return entities.Drug{}, entities.AuditEntry{}, domainerrors.ErrNotFound
	}
	// Expiry takes precedence over stock availability.
	if drug.IsExpired(now) {
		return entities.Drug{}, entities.AuditEntry{}, domainerrors.ErrExpired
	}
	if !drug.CanSupply(amount) {
		return entities.Drug{}, entities.AuditEntry{}, domainerrors.ErrInsufficientStock
	}

	drug.Quantity -= amount
	entry := entities.AuditEntry{
		Sequence:      s.nextSequence,
		EventID:       eventID,
		Type:          entities.EntryTypeDispensed,
		DrugID:        drug.DrugID,
		QuantityDelta: amount,
		Actor:         actor,
		OccurredAt:    now.UTC(),
	}

	s.nextSequence++
	s.drugs[drug.DrugID] = drug
	s.entries = append(s.entries, entry)
	return drug, entry, nil
}

func (s *Store) GetDrug(_ context.Context, drugID uint64) (entities.Drug, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	drug, exists := s.drugs[drugID]
	if !exists {
		return entities.Drug{}, domainerrors.ErrNotFound
	}
	return drug, nil
}

func (s *Store) ListDrugs(_ context.Context) ([]entities.Drug, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Drug, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, s.drugs[id])
	}
	return items, nil
}

func (s *Store) ListDrugIDs(_ context.Context) ([]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]uint64(nil), s.order...), nil
}

func (s *Store) CountDrugs(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.order)), nil
}

func (s *Store) ListEntries(_ context.Context, filter ports.AuditFilter) ([]entities.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.AuditEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		if filter.FromSequence > 0 && entry.Sequence < filter.FromSequence {
			continue
		}
		if filter.ToSequence > 0 && entry.Sequence > filter.ToSequence {
			continue
		}
		if filter.DrugID > 0 && entry.DrugID != filter.DrugID {
			continue
		}
		items = append(items, entry)
		if filter.Limit > 0 && len(items) == filter.Limit {
			break
		}
	}
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
