package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iho/coinsync/internal/adapter/http/dto"
	"github.com/iho/coinsync/internal/infrastructure/metrics"
	"github.com/iho/coinsync/internal/usecase"
)

// LedgerHandler handles signed ledger mutation requests.
type LedgerHandler struct {
	ledgerUC *usecase.LedgerUseCase
	batchUC  *usecase.BatchUseCase
	verifier usecase.TokenVerifier
	metrics  *metrics.Metrics
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(
	ledgerUC *usecase.LedgerUseCase,
	batchUC *usecase.BatchUseCase,
	verifier usecase.TokenVerifier,
	m *metrics.Metrics,
) *LedgerHandler {
	return &LedgerHandler{
		ledgerUC: ledgerUC,
		batchUC:  batchUC,
		verifier: verifier,
		metrics:  m,
	}
}

// Mutate applies a single signed balance mutation.
func (h *LedgerHandler) Mutate(w http.ResponseWriter, r *http.Request) {
	var req dto.MutateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.ledgerUC.ApplySigned(r.Context(), h.verifier, req.ToUseCaseInput())
	if err != nil {
		h.recordMutationError(err)
		writeDomainError(w, err)

		return
	}

	h.recordMutation(req.Source, result)

	message := "applied"
	if result.Replayed {
		message = "already applied"
	}

	writeSuccess(w, http.StatusOK, message, dto.MutationFromResult(req.ExternalID, result))
}

// Batch applies a signed batch of mutations. Items are isolated from each
// other: a failing item never rolls back its neighbours.
func (h *LedgerHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req dto.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.batchUC.ApplyBatch(r.Context(), h.verifier, req.ToUseCaseInput())
	if err != nil {
		h.recordMutationError(err)
		writeDomainError(w, err)

		return
	}

	if h.metrics != nil {
		h.metrics.BatchesProcessed.Inc()
		h.metrics.BatchSize.Observe(float64(result.Total))
		h.metrics.BatchItems.WithLabelValues("success").Add(float64(result.SuccessCount))
		h.metrics.BatchItems.WithLabelValues("failed").Add(float64(result.FailedCount))
	}

	writeSuccess(w, http.StatusOK, "processed", dto.BatchFromResult(result))
}

func (h *LedgerHandler) recordMutation(source string, result *usecase.MutationResult) {
	if h.metrics == nil {
		return
	}

	if result.Replayed {
		h.metrics.MutationsReplayed.Inc()
		return
	}

	h.metrics.MutationsApplied.Inc()
	h.metrics.MutationsBySource.WithLabelValues(source).Inc()

	delta := result.Record.Delta
	if delta < 0 {
		delta = -delta
	}
	h.metrics.MutationDelta.Observe(float64(delta))
}

func (h *LedgerHandler) recordMutationError(err error) {
	if h.metrics == nil {
		return
	}

	h.metrics.MutationErrors.WithLabelValues(errorType(err)).Inc()
}

func errorType(err error) string {
	switch mapDomainError(err) {
	case http.StatusUnauthorized:
		return "auth"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "insufficient_balance"
	case http.StatusBadRequest:
		return "validation"
	default:
		return "internal"
	}
}
