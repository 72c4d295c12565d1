package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidateRequest struct {
	Payload string `json:"payload"`
}

type ImportRequest struct {
	Payload string `json:"payload"`
}

type RowDTO struct {
	Line      int    `json:"line"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	ExpiresAt string `json:"expires_at"`
}

type RejectedRowDTO struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type ValidateResponse struct {
	Status string `json:"status"`
	Data   struct {
		WellFormed []RowDTO         `json:"well_formed"`
		Malformed  []RejectedRowDTO `json:"malformed"`
	} `json:"data"`
}

type AcceptedRowDTO struct {
	Line     int    `json:"line"`
	DrugID   uint64 `json:"drug_id"`
	Sequence uint64 `json:"sequence"`
	EventID  string `json:"event_id"`
}

type ImportResponse struct {
	Status string `json:"status"`
	Data   struct {
		Accepted []AcceptedRowDTO `json:"accepted"`
		Rejected []RejectedRowDTO `json:"rejected"`
	} `json:"data"`
}
