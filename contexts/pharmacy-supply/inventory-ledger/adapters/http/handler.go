package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"medledger/contexts/pharmacy-supply/inventory-ledger/application"
	"medledger/contexts/pharmacy-supply/inventory-ledger/domain/entities"
	"medledger/contexts/pharmacy-supply/inventory-ledger/ports"
	httptransport "medledger/contexts/pharmacy-supply/inventory-ledger/transport/http"
)

const sourceService = "inventory-ledger"

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) AddDrugHandler(
	ctx context.Context,
	actor string,
	req httptransport.AddDrugRequest,
) (httptransport.MutationResponse, error) {
	receipt, err := h.Service.AddDrug(ctx, actor, ports.AddDrugInput{
		Name:      req.Name,
		Quantity:  req.Quantity,
		ExpiresAt: time.Unix(req.ExpiryUnixSeconds, 0).UTC(),
	})
	if err != nil {
		return httptransport.MutationResponse{}, err
	}
	return h.toMutationResponse(receipt), nil
}

func (h Handler) DispenseDrugHandler(
	ctx context.Context,
	actor string,
	drugID uint64,
	req httptransport.DispenseRequest,
) (httptransport.MutationResponse, error) {
	receipt, err := h.Service.DispenseDrug(ctx, actor, drugID, req.Amount)
	if err != nil {
		return httptransport.MutationResponse{}, err
	}
	return h.toMutationResponse(receipt), nil
}

func (h Handler) GetDrugHandler(ctx context.Context, drugID uint64) (httptransport.DrugResponse, error) {
	view, err := h.Service.GetDrug(ctx, drugID)
	if err != nil {
		return httptransport.DrugResponse{}, err
	}
	return httptransport.DrugResponse{
		Status: "success",
		Data:   toDrugDTO(view),
	}, nil
}

func (h Handler) ListDrugsHandler(ctx context.Context) (httptransport.DrugListResponse, error) {
	views, err := h.Service.ListDrugs(ctx)
	if err != nil {
		return httptransport.DrugListResponse{}, err
	}
	total, err := h.Service.TotalCount(ctx)
	if err != nil {
		return httptransport.DrugListResponse{}, err
	}
	resp := httptransport.DrugListResponse{
		Status: "success",
		Data:   make([]httptransport.DrugDTO, 0, len(views)),
		Total:  total,
	}
	for _, view := range views {
		resp.Data = append(resp.Data, toDrugDTO(view))
	}
	return resp, nil
}

func (h Handler) ListDrugIDsHandler(ctx context.Context) (httptransport.DrugIDListResponse, error) {
	ids, err := h.Service.ListDrugIDs(ctx)
	if err != nil {
		return httptransport.DrugIDListResponse{}, err
	}
	total, err := h.Service.TotalCount(ctx)
	if err != nil {
		return httptransport.DrugIDListResponse{}, err
	}
	return httptransport.DrugIDListResponse{
		Status: "success",
		Data:   ids,
		Total:  total,
	}, nil
}

func (h Handler) ListAuditHandler(
	ctx context.Context,
	req httptransport.AuditListRequest,
) (httptransport.AuditListResponse, error) {
	entries, err := h.Service.ListAuditEntries(ctx, ports.AuditFilter{
		FromSequence: req.FromSequence,
		ToSequence:   req.ToSequence,
		DrugID:       req.DrugID,
		Limit:        req.Limit,
	})
	if err != nil {
		return httptransport.AuditListResponse{}, err
	}
	resp := httptransport.AuditListResponse{
		Status: "success",
		Data:   make([]httptransport.AuditEntryDTO, 0, len(entries)),
	}
	for _, entry := range entries {
		resp.Data = append(resp.Data, httptransport.AuditEntryDTO{
			Sequence:      entry.Sequence,
			EventID:       entry.EventID,
			Type:          string(entry.Type),
			DrugID:        entry.DrugID,
			QuantityDelta: entry.QuantityDelta,
			Actor:         entry.Actor,
			OccurredAt:    entry.OccurredAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}

// ListAuditEventsHandler exports entries in the canonical versioned envelope
// for external verification of the ledger.
func (h Handler) ListAuditEventsHandler(
	ctx context.Context,
	req httptransport.AuditListRequest,
) (httptransport.AuditEventsResponse, error) {
	entries, err := h.Service.ListAuditEntries(ctx, ports.AuditFilter{
		FromSequence: req.FromSequence,
		ToSequence:   req.ToSequence,
		DrugID:       req.DrugID,
		Limit:        req.Limit,
	})
	if err != nil {
		return httptransport.AuditEventsResponse{}, err
	}
	resp := httptransport.AuditEventsResponse{
		Status: "success",
		Data:   make([]ports.AuditEnvelope, 0, len(entries)),
	}
	for _, entry := range entries {
		envelope, err := toEnvelope(entry)
		if err != nil {
			return httptransport.AuditEventsResponse{}, err
		}
		resp.Data = append(resp.Data, envelope)
	}
	return resp, nil
}

func (h Handler) ResolveRoleHandler(identity string) httptransport.RoleResponse {
	resp := httptransport.RoleResponse{Status: "success"}
	resp.Data.Identity = identity
	resp.Data.Role = string(h.Service.ResolveRole(identity))
	resp.Data.IsAdmin = h.Service.IsAdmin(identity)
	resp.Data.IsStaff = h.Service.IsStaff(identity)
	return resp
}

func (h Handler) toMutationResponse(receipt application.CommitReceipt) httptransport.MutationResponse {
	return httptransport.MutationResponse{
		Status: "success",
		Data:   toDrugDTO(h.Service.ViewOf(receipt.Drug)),
		Commit: httptransport.CommitDTO{
			Sequence: receipt.Sequence,
			EventID:  receipt.EventID,
		},
	}
}

func toDrugDTO(view ports.DrugView) httptransport.DrugDTO {
	return httptransport.DrugDTO{
		DrugID:           view.Drug.DrugID,
		Name:             view.Drug.Name,
		Quantity:         view.Drug.Quantity,
		OriginalQuantity: view.Drug.OriginalQuantity,
		ExpiresAt:        view.Drug.ExpiresAt.UTC().Format(time.RFC3339),
		AddedBy:          view.Drug.AddedBy,
		CreatedAt:        view.Drug.CreatedAt.UTC().Format(time.RFC3339),
		IsExpired:        view.IsExpired,
		State:            string(view.State),
	}
}

func toEnvelope(entry entities.AuditEntry) (ports.AuditEnvelope, error) {
	payload := map[string]any{
		"drug_id":        entry.DrugID,
		"quantity_delta": entry.QuantityDelta,
		"actor":          entry.Actor,
	}
	if entry.Type == entities.EntryTypeAdded {
		payload["name"] = entry.Name
		payload["expires_at"] = entry.ExpiresAt.UTC().Format(time.RFC3339)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return ports.AuditEnvelope{}, err
	}
	return ports.AuditEnvelope{
		EventID:       entry.EventID,
		EventType:     string(entry.Type),
		OccurredAt:    entry.OccurredAt.UTC(),
		SourceService: sourceService,
		EntityType:    "drug",
		EntityID:      strconv.FormatUint(entry.DrugID, 10),
		Sequence:      entry.Sequence,
		SchemaVersion: 1,
		Data:          data,
	}, nil
}
