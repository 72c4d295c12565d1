package workers

import (
	"context"
	"log/slog"

	"medledger/contexts/pharmacy-supply/inventory-ledger/domain/entities"
	"medledger/contexts/pharmacy-supply/inventory-ledger/domain/projection"
	"medledger/contexts/pharmacy-supply/inventory-ledger/ports"
)

// ProjectionChecker replays the audit log and compares the result against the
// materialized drug table. The log is authoritative; any divergence means the
// table cache is corrupt and is reported, never silently repaired.
type ProjectionChecker struct {
	Repo   ports.Repository
	Audit  ports.AuditLog
	Logger *slog.Logger
}

func (c ProjectionChecker) RunOnce(ctx context.Context) error {
	logger := c.logger()

	entries, err := c.Audit.ListEntries(ctx, ports.AuditFilter{})
	if err != nil {
		return err
	}
	replayed, err := projection.Replay(entries)
	if err != nil {
		logger.Error("audit log replay failed",
			"event", "projection_replay_failed",
			"module", "pharmacy-supply/inventory-ledger",
			"layer", "application",
			"error", err.Error(),
		)
		return err
	}

	drugs, err := c.Repo.ListDrugs(ctx)
	if err != nil {
		return err
	}

	divergent := 0
	for _, drug := range drugs {
		expected, exists := replayed[drug.DrugID]
		if !exists || !drugsEqual(expected, drug) {
			divergent++
			logger.Error("materialized drug diverges from replay",
				"event", "projection_divergence",
				"module", "pharmacy-supply/inventory-ledger",
				"layer", "application",
				"drug_id", drug.DrugID,
			)
		}
	}
	if len(replayed) != len(drugs) {
		divergent += len(replayed) - len(drugs)
		logger.Error("drug table size diverges from replay",
			"event", "projection_divergence",
			"module", "pharmacy-supply/inventory-ledger",
			"layer", "application",
			"table_count", len(drugs),
			"replayed_count", len(replayed),
		)
	}

	logger.Info("projection check finished",
		"event", "projection_check_finished",
		"module", "pharmacy-supply/inventory-ledger",
		"layer", "application",
		"entries", len(entries),
		"drugs", len(drugs),
		"divergent", divergent,
	)
	return nil
}

// drugsEqual compares field-wise; timestamps via time.Equal so wall-clock
// representations from different stores do not flag false divergence.
func drugsEqual(a, b entities.Drug) bool {
	return a.DrugID == b.DrugID &&
		a.Name == b.Name &&
		a.Quantity == b.Quantity &&
		a.OriginalQuantity == b.OriginalQuantity &&
		a.ExpiresAt.Equal(b.ExpiresAt) &&
		a.AddedBy == b.AddedBy &&
		a.CreatedAt.Equal(b.CreatedAt)
}

func (c ProjectionChecker) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
