package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"medledger/contexts/pharmacy-supply/batch-import/domain/entities"
	domainerrors "medledger/contexts/pharmacy-supply/batch-import/domain/errors"
	"medledger/contexts/pharmacy-supply/batch-import/ports"
)

// AcceptedRow records the ledger commit produced for one imported row.
type AcceptedRow struct {
	Line     int
	DrugID   uint64
	Sequence uint64
	EventID  string
}

// ImportResult is the per-row outcome report: every input row appears exactly
// once, either accepted with its commit or rejected with a reason.
type ImportResult struct {
	Accepted []AcceptedRow
	Rejected []entities.RejectedRow
}

// ImportService classifies an import file and submits the well-formed rows to
// the drug registry one at a time. A row the registry refuses is reported and
// does not abort the remaining rows.
type ImportService struct {
	Ledger ports.LedgerGateway
	Clock  ports.Clock
	Logger *slog.Logger
}

func (s ImportService) Validate(raw string) (entities.RowReport, error) {
	if strings.TrimSpace(raw) == "" {
		return entities.RowReport{}, domainerrors.ErrEmptyPayload
	}
	return ClassifyRows(raw, s.now()), nil
}

func (s ImportService) Import(ctx context.Context, actor string, raw string) (ImportResult, error) {
	if strings.TrimSpace(actor) == "" {
		return ImportResult{}, domainerrors.ErrActorMissing
	}
	report, err := s.Validate(raw)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{
		Accepted: []AcceptedRow{},
		Rejected: append([]entities.RejectedRow{}, report.Malformed...),
	}
	for _, row := range report.WellFormed {
		receipt, err := s.Ledger.AddDrug(ctx, actor, row)
		if err != nil {
			result.Rejected = append(result.Rejected, entities.RejectedRow{
				Line:   row.Line,
				Reason: err.Error(),
			})
			continue
		}
		result.Accepted = append(result.Accepted, AcceptedRow{
			Line:     row.Line,
			DrugID:   receipt.DrugID,
			Sequence: receipt.Sequence,
			EventID:  receipt.EventID,
		})
	}

	resolveLogger(s.Logger).Info("batch import finished",
		"event", "batch_import_finished",
		"module", "pharmacy-supply/batch-import",
		"layer", "application",
		"actor", actor,
		"accepted", len(result.Accepted),
		"rejected", len(result.Rejected),
	)
	return result, nil
}

func (s ImportService) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
