package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"medledger/contexts/pharmacy-supply/inventory-ledger/domain/entities"
	domainerrors "medledger/contexts/pharmacy-supply/inventory-ledger/domain/errors"
	"medledger/contexts/pharmacy-supply/inventory-ledger/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const ledgerCounterID = "pharmacy-ledger"

// Repository persists the ledger in Postgres. Each mutation runs inside one
// transaction that locks the counter row, re-evaluates preconditions against
// committed state, applies the table change and appends the audit row, so the
// table and the log can never diverge.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&drugModel{}, &auditModel{}, &counterModel{})
}

func (r *Repository) CreateDrug(ctx context.Context, draft ports.DrugDraft, eventID string) (entities.Drug, entities.AuditEntry, error) {
	var (
		drug  entities.Drug
		entry entities.AuditEntry
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counter, err := lockCounter(tx)
		if err != nil {
			return err
		}

		drug = entities.Drug{
			DrugID:           counter.NextDrugID,
			Name:             draft.Name,
			Quantity:         draft.Quantity,
			OriginalQuantity: draft.Quantity,
			ExpiresAt:        draft.ExpiresAt.UTC(),
			AddedBy:          draft.AddedBy,
			CreatedAt:        draft.CreatedAt.UTC(),
		}
		entry = entities.AuditEntry{
			Sequence:      counter.NextSequence,
			EventID:       eventID,
			Type:          entities.EntryTypeAdded,
			DrugID:        drug.DrugID,
			QuantityDelta: draft.Quantity,
			Actor:         draft.AddedBy,
			Name:          drug.Name,
			ExpiresAt:     drug.ExpiresAt,
			OccurredAt:    drug.CreatedAt,
		}

		drugRow := drugModelFromEntity(drug)
		if err := tx.Create(&drugRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrLedgerInvariantBroke
			}
			return err
		}

		auditRow := auditModelFromEntity(entry)
		if err := tx.Create(&auditRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrLedgerInvariantBroke
			}
			return err
		}

		return advanceCounter(tx, counter, true)
	})
	if err != nil {
		return entities.Drug{}, entities.AuditEntry{}, err
	}
	return drug, entry, nil
}

func (r *Repository) DispenseDrug(ctx context.Context, drugID uint64, amount int64, actor string, now time.Time, eventID string) (entities.Drug, entities.AuditEntry, error) {
	var (
		drug  entities.Drug
		entry entities.AuditEntry
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counter, err := lockCounter(tx)
		if err != nil {
			return err
		}

		var row drugModel
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("drug_id = ?", drugID).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrNotFound
			}
			return err
		}

		current := row.toEntity()
		// Re-evaluate preconditions against committed state: a racing second
		// dispense sees the quantity the first one already wrote.
		if current.IsExpired(now) {
			return domainerrors.ErrExpired
		}
		if !current.CanSupply(amount) {
			return domainerrors.ErrInsufficientStock
		}

		result := tx.Model(&drugModel{}).
			Where("drug_id = ? AND quantity >= ?", drugID, amount).
			Update("quantity", gorm.Expr("quantity - ?", amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrInsufficientStock
		}

		drug = current
		drug.Quantity -= amount
		entry = entities.AuditEntry{
			Sequence:      counter.NextSequence,
			EventID:       eventID,
			Type:          entities.EntryTypeDispensed,
			DrugID:        drugID,
			QuantityDelta: amount,
			Actor:         actor,
			OccurredAt:    now.UTC(),
		}

		auditRow := auditModelFromEntity(entry)
		if err := tx.Create(&auditRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrLedgerInvariantBroke
			}
			return err
		}

		return advanceCounter(tx, counter, false)
	})
	if err != nil {
		return entities.Drug{}, entities.AuditEntry{}, err
	}
	return drug, entry, nil
}

func (r *Repository) GetDrug(ctx context.Context, drugID uint64) (entities.Drug, error) {
	var row drugModel
	err := r.db.WithContext(ctx).
		Where("drug_id = ?", drugID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Drug{}, domainerrors.ErrNotFound
		}
		return entities.Drug{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListDrugs(ctx context.Context) ([]entities.Drug, error) {
	var rows []drugModel
	if err := r.db.WithContext(ctx).
		Order("drug_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Drug, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListDrugIDs(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	if err := r.db.WithContext(ctx).
		Model(&drugModel{}).
		Order("drug_id ASC").
		Pluck("drug_id", &ids).
		Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) CountDrugs(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&drugModel{}).
		Count(&count).
		Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) ListEntries(ctx context.Context, filter ports.AuditFilter) ([]entities.AuditEntry, error) {
	tx := r.db.WithContext(ctx).Model(&auditModel{}).Order("sequence ASC")
	if filter.FromSequence > 0 {
		tx = tx.Where("sequence >= ?", filter.FromSequence)
	}
	if filter.ToSequence > 0 {
		tx = tx.Where("sequence <= ?", filter.ToSequence)
	}
	if filter.DrugID > 0 {
		tx = tx.Where("drug_id = ?", filter.DrugID)
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}

	var rows []auditModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.AuditEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// lockCounter serializes all mutations on the single counter row and seeds it
// on first use. Counters, not serials: a rolled-back transaction must not
// leave a gap in drug ids or audit sequences.
func lockCounter(tx *gorm.DB) (counterModel, error) {
	var counter counterModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("counter_id = ?", ledgerCounterID).
		First(&counter).
		Error
	if err == nil {
		return counter, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return counterModel{}, err
	}

	counter = counterModel{
		CounterID:    ledgerCounterID,
		NextDrugID:   1,
		NextSequence: 1,
	}
	if err := tx.Create(&counter).Error; err != nil {
		if isUniqueViolation(err) {
			return counterModel{}, domainerrors.ErrLedgerInvariantBroke
		}
		return counterModel{}, err
	}
	return counter, nil
}

func advanceCounter(tx *gorm.DB, counter counterModel, consumedDrugID bool) error {
	updates := map[string]any{
		"next_sequence": counter.NextSequence + 1,
	}
	if consumedDrugID {
		updates["next_drug_id"] = counter.NextDrugID + 1
	}
	return tx.Model(&counterModel{}).
		Where("counter_id = ?", counter.CounterID).
		Updates(updates).
		Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type drugModel struct {
	DrugID           uint64    `gorm:"column:drug_id;primaryKey"`
	Name             string    `gorm:"column:name;size:255"`
	Quantity         int64     `gorm:"column:quantity"`
	OriginalQuantity int64     `gorm:"column:original_quantity"`
	ExpiresAt        time.Time `gorm:"column:expires_at"`
	AddedBy          string    `gorm:"column:added_by"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (drugModel) TableName() string { return "drugs" }

func drugModelFromEntity(drug entities.Drug) drugModel {
	return drugModel{
		DrugID:           drug.DrugID,
		Name:             drug.Name,
		Quantity:         drug.Quantity,
		OriginalQuantity: drug.OriginalQuantity,
		ExpiresAt:        drug.ExpiresAt.UTC(),
		AddedBy:          drug.AddedBy,
		CreatedAt:        drug.CreatedAt.UTC(),
	}
}

func (m drugModel) toEntity() entities.Drug {
	return entities.Drug{
		DrugID:           m.DrugID,
		Name:             m.Name,
		Quantity:         m.Quantity,
		OriginalQuantity: m.OriginalQuantity,
		ExpiresAt:        m.ExpiresAt.UTC(),
		AddedBy:          m.AddedBy,
		CreatedAt:        m.CreatedAt.UTC(),
	}
}

type auditModel struct {
	Sequence      uint64     `gorm:"column:sequence;primaryKey"`
	EventID       string     `gorm:"column:event_id;uniqueIndex"`
	EntryType     string     `gorm:"column:entry_type"`
	DrugID        uint64     `gorm:"column:drug_id;index"`
	QuantityDelta int64      `gorm:"column:quantity_delta"`
	Actor         string     `gorm:"column:actor"`
	Name          string     `gorm:"column:name"`
	ExpiresAt     *time.Time `gorm:"column:expires_at"`
	OccurredAt    time.Time  `gorm:"column:occurred_at"`
}

func (auditModel) TableName() string { return "audit_entries" }

func auditModelFromEntity(entry entities.AuditEntry) auditModel {
	row := auditModel{
		Sequence:      entry.Sequence,
		EventID:       entry.EventID,
		EntryType:     string(entry.Type),
		DrugID:        entry.DrugID,
		QuantityDelta: entry.QuantityDelta,
		Actor:         entry.Actor,
		Name:          entry.Name,
		OccurredAt:    entry.OccurredAt.UTC(),
	}
	if !entry.ExpiresAt.IsZero() {
		expires := entry.ExpiresAt.UTC()
		row.ExpiresAt = &expires
	}
	return row
}

func (m auditModel) toEntity() entities.AuditEntry {
	entry := entities.AuditEntry{
		Sequence:      m.Sequence,
		EventID:       m.EventID,
		Type:          entities.EntryType(m.EntryType),
		DrugID:        m.DrugID,
		QuantityDelta: m.QuantityDelta,
		Actor:         m.Actor,
		Name:          m.Name,
		OccurredAt:    m.OccurredAt.UTC(),
	}
	if m.ExpiresAt != nil {
		entry.ExpiresAt = m.ExpiresAt.UTC()
	}
	return entry
}

type counterModel struct {
	CounterID    string `gorm:"column:counter_id;primaryKey"`
	NextDrugID   uint64 `gorm:"column:next_drug_id"`
	NextSequence uint64 `gorm:"column:next_sequence"`
}

func (counterModel) TableName() string { return "ledger_counters" }
