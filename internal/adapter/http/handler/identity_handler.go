package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/coinsync/internal/adapter/http/dto"
	"github.com/iho/coinsync/internal/infrastructure/metrics"
	"github.com/iho/coinsync/internal/usecase"
)

// IdentityHandler handles identity queries and dev-only seeding.
type IdentityHandler struct {
	identityUC *usecase.IdentityUseCase
	queryUC    *usecase.QueryUseCase
	metrics    *metrics.Metrics
}

// NewIdentityHandler creates a new IdentityHandler.
func NewIdentityHandler(
	identityUC *usecase.IdentityUseCase,
	queryUC *usecase.QueryUseCase,
	m *metrics.Metrics,
) *IdentityHandler {
	return &IdentityHandler{
		identityUC: identityUC,
		queryUC:    queryUC,
		metrics:    m,
	}
}

// Create seeds an identity. Exposed outside production only.
func (h *IdentityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ExternalID == "" {
		writeError(w, http.StatusBadRequest, "external_id is required")
		return
	}

	identity, err := h.identityUC.CreateIdentity(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "created", dto.IdentityFromDomain(identity))
}

// GetBalance returns the current balance for an external id.
func (h *IdentityHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "external_id")
	if externalID == "" {
		writeError(w, http.StatusBadRequest, "missing external id")
		return
	}

	result, err := h.queryUC.GetBalance(r.Context(), externalID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.BalanceLookups.Inc()
	}

	writeSuccess(w, http.StatusOK, "ok", dto.BalanceFromResult(result))
}

// GetRecords returns the most recent ledger records, newest first.
func (h *IdentityHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "external_id")
	if externalID == "" {
		writeError(w, http.StatusBadRequest, "missing external id")
		return
	}

	result, err := h.queryUC.GetHistory(r.Context(), usecase.GetHistoryInput{
		ExternalID: externalID,
		Limit:      parseIntQuery(r, "limit", 0),
		Offset:     parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.HistoryLookups.Inc()
	}

	writeSuccess(w, http.StatusOK, "ok", dto.HistoryFromResult(result))
}
