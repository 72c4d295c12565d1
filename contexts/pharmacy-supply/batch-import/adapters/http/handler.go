package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"medledger/contexts/pharmacy-supply/batch-import/application"
	httptransport "medledger/contexts/pharmacy-supply/batch-import/transport/http"
)

type Handler struct {
	Service application.ImportService
	Logger  *slog.Logger
}

func (h Handler) ValidateHandler(raw string) (httptransport.ValidateResponse, error) {
	report, err := h.Service.Validate(raw)
	if err != nil {
		return httptransport.ValidateResponse{}, err
	}

	resp := httptransport.ValidateResponse{Status: "success"}
	resp.Data.WellFormed = make([]httptransport.RowDTO, 0, len(report.WellFormed))
	resp.Data.Malformed = make([]httptransport.RejectedRowDTO, 0, len(report.Malformed))
	for _, row := range report.WellFormed {
		resp.Data.WellFormed = append(resp.Data.WellFormed, httptransport.RowDTO{
			Line:      row.Line,
			Name:      row.Name,
			Quantity:  row.Quantity,
			ExpiresAt: row.ExpiresAt.UTC().Format(time.RFC3339),
		})
	}
	for _, row := range report.Malformed {
		resp.Data.Malformed = append(resp.Data.Malformed, httptransport.RejectedRowDTO{
			Line:   row.Line,
			Reason: row.Reason,
		})
	}
	return resp, nil
}

func (h Handler) ImportHandler(ctx context.Context, actor string, raw string) (httptransport.ImportResponse, error) {
	result, err := h.Service.Import(ctx, actor, raw)
	if err != nil {
		return httptransport.ImportResponse{}, err
	}

	resp := httptransport.ImportResponse{Status: "success"}
	resp.Data.Accepted = make([]httptransport.AcceptedRowDTO, 0, len(result.Accepted))
	resp.Data.Rejected = make([]httptransport.RejectedRowDTO, 0, len(result.Rejected))
	for _, row := range result.Accepted {
		resp.Data.Accepted = append(resp.Data.Accepted, httptransport.AcceptedRowDTO{
			Line:     row.Line,
			DrugID:   row.DrugID,
			Sequence: row.Sequence,
			EventID:  row.EventID,
		})
	}
	for _, row := range result.Rejected {
		resp.Data.Rejected = append(resp.Data.Rejected, httptransport.RejectedRowDTO{
			Line:   row.Line,
			Reason: row.Reason,
		})
	}
	return resp, nil
}
