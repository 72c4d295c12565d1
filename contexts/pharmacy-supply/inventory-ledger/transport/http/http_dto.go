package http

import contractsv1 "medledger/contracts/gen/events/v1"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AddDrugRequest struct {
	Name              string `json:"name"`
	Quantity          int64  `json:"quantity"`
	ExpiryUnixSeconds int64  `json:"expiry_unix_seconds"`
}

type DispenseRequest struct {
	Amount int64 `json:"amount"`
}

type DrugDTO struct {
	DrugID           uint64 `json:"drug_id"`
	Name             string `json:"name"`
	Quantity         int64  `json:"quantity"`
	OriginalQuantity int64  `json:"original_quantity"`
	ExpiresAt        string `json:"expires_at"`
	AddedBy          string `json:"added_by"`
	CreatedAt        string `json:"created_at"`
	IsExpired        bool   `json:"is_expired"`
	State            string `json:"state"`
}

type CommitDTO struct {
	Sequence uint64 `json:"sequence"`
	EventID  string `json:"event_id"`
}

type MutationResponse struct {
	Status string    `json:"status"`
	Data   DrugDTO   `json:"data"`
	Commit CommitDTO `json:"commit"`
}

type DrugResponse struct {
	Status string  `json:"status"`
	Data   DrugDTO `json:"data"`
}

type DrugListResponse struct {
	Status string    `json:"status"`
	Data   []DrugDTO `json:"data"`
	Total  int64     `json:"total"`
}

type DrugIDListResponse struct {
	Status string   `json:"status"`
	Data   []uint64 `json:"data"`
	Total  int64    `json:"total"`
}

type AuditEntryDTO struct {
	Sequence      uint64 `json:"sequence"`
	EventID       string `json:"event_id"`
	Type          string `json:"type"`
	DrugID        uint64 `json:"drug_id"`
	QuantityDelta int64  `json:"quantity_delta"`
	Actor         string `json:"actor"`
	OccurredAt    string `json:"occurred_at"`
}

type AuditListRequest struct {
	FromSequence uint64
	ToSequence   uint64
	DrugID       uint64
	Limit        int
}

type AuditListResponse struct {
	Status string          `json:"status"`
	Data   []AuditEntryDTO `json:"data"`
}

type AuditEventsResponse struct {
	Status string                 `json:"status"`
	Data   []contractsv1.Envelope `json:"data"`
}

type RoleResponse struct {
	Status string `json:"status"`
	Data   struct {
		Identity string `json:"identity"`
		Role     string `json:"role"`
		IsAdmin  bool   `json:"is_admin"`
		IsStaff  bool   `json:"is_staff"`
	} `json:"data"`
}
