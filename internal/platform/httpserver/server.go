package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	batchimport "medledger/contexts/pharmacy-supply/batch-import"
	importerrors "medledger/contexts/pharmacy-supply/batch-import/domain/errors"
	importhttp "medledger/contexts/pharmacy-supply/batch-import/transport/http"
	inventoryledger "medledger/contexts/pharmacy-supply/inventory-ledger"
	ledgererrors "medledger/contexts/pharmacy-supply/inventory-ledger/domain/errors"
	ledgerhttp "medledger/contexts/pharmacy-supply/inventory-ledger/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "medledger/internal/platform/httpserver/docs"
)

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	ledger  inventoryledger.Module
	imports batchimport.Module
}

func New(
	ledger inventoryledger.Module,
	imports batchimport.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		ledger:  ledger,
		imports: imports,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routed mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/pharmacy/v1/drugs", s.handleAddDrug)
	s.mux.HandleFunc("POST /api/pharmacy/v1/drugs/{drug_id}/dispense", s.handleDispenseDrug)
	s.mux.HandleFunc("GET /api/pharmacy/v1/drugs", s.handleListDrugs)
	s.mux.HandleFunc("GET /api/pharmacy/v1/drugs/ids", s.handleListDrugIDs)
	s.mux.HandleFunc("GET /api/pharmacy/v1/drugs/{drug_id}", s.handleGetDrug)
	s.mux.HandleFunc("GET /api/pharmacy/v1/audit", s.handleListAudit)
	s.mux.HandleFunc("GET /api/pharmacy/v1/audit/events", s.handleListAuditEvents)
	s.mux.HandleFunc("GET /api/pharmacy/v1/identity/{identity}/role", s.handleResolveRole)

	s.mux.HandleFunc("POST /api/pharmacy/v1/imports/validate", s.handleValidateImport)
	s.mux.HandleFunc("POST /api/pharmacy/v1/imports", s.handleImport)
}

func (s *Server) handleAddDrug(w http.ResponseWriter, r *http.Request) {
	actor := strings.TrimSpace(r.Header.Get("X-Actor-Id"))
	if actor == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req ledgerhttp.AddDrugRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.ledger.Handler.AddDrugHandler(r.Context(), actor, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleDispenseDrug(w http.ResponseWriter, r *http.Request) {
	actor := strings.TrimSpace(r.Header.Get("X-Actor-Id"))
	if actor == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	drugID, err := parseDrugID(r.PathValue("drug_id"))
	if err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_drug_id", "drug_id must be a positive integer")
		return
	}

	var req ledgerhttp.DispenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.ledger.Handler.DispenseDrugHandler(r.Context(), actor, drugID, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDrug(w http.ResponseWriter, r *http.Request) {
	drugID, err := parseDrugID(r.PathValue("drug_id"))
	if err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_drug_id", "drug_id must be a positive integer")
		return
	}

	resp, err := s.ledger.Handler.GetDrugHandler(r.Context(), drugID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDrugs(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.ListDrugsHandler(r.Context())
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDrugIDs(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.ListDrugIDsHandler(r.Context())
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	req, err := parseAuditListRequest(r)
	if err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	resp, err := s.ledger.Handler.ListAuditHandler(r.Context(), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAuditEvents(w http.ResponseWriter, r *http.Request) {
	req, err := parseAuditListRequest(r)
	if err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	resp, err := s.ledger.Handler.ListAuditEventsHandler(r.Context(), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolveRole(w http.ResponseWriter, r *http.Request) {
	identity := r.PathValue("identity")
	writeJSON(w, http.StatusOK, s.ledger.Handler.ResolveRoleHandler(identity))
}

func (s *Server) handleValidateImport(w http.ResponseWriter, r *http.Request) {
	var req importhttp.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeImportError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.imports.Handler.ValidateHandler(req.Payload)
	if err != nil {
		writeImportDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	actor := strings.TrimSpace(r.Header.Get("X-Actor-Id"))
	if actor == "" {
		writeImportError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req importhttp.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeImportError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.imports.Handler.ImportHandler(r.Context(), actor, req.Payload)
	if err != nil {
		writeImportDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseDrugID(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}

func parseAuditListRequest(r *http.Request) (ledgerhttp.AuditListRequest, error) {
	query := r.URL.Query()
	req := ledgerhttp.AuditListRequest{}

	if raw := query.Get("from_seq"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return req, errors.New("from_seq must be a non-negative integer")
		}
		req.FromSequence = value
	}
	if raw := query.Get("to_seq"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return req, errors.New("to_seq must be a non-negative integer")
		}
		req.ToSequence = value
	}
	if raw := query.Get("drug_id"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return req, errors.New("drug_id must be a non-negative integer")
		}
		req.DrugID = value
	}
	if raw := query.Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return req, errors.New("limit must be an integer")
		}
		req.Limit = value
	}
	return req, nil
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrUnauthorized):
		writeLedgerError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidInput):
		writeLedgerError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, ledgererrors.ErrNotFound):
		writeLedgerError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrExpired):
		writeLedgerError(w, http.StatusGone, "expired", err.Error())
	case errors.Is(err, ledgererrors.ErrInsufficientStock):
		writeLedgerError(w, http.StatusConflict, "insufficient_stock", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeImportDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, importerrors.ErrEmptyPayload):
		writeImportError(w, http.StatusBadRequest, "empty_payload", err.Error())
	case errors.Is(err, importerrors.ErrActorMissing):
		writeImportError(w, http.StatusUnauthorized, "missing_actor", err.Error())
	default:
		writeImportError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeImportError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, importhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
