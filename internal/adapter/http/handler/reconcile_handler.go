package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/iho/ledgerstat/internal/adapter/http/dto"
	"github.com/iho/ledgerstat/internal/usecase"
)

// maxReconcileBody bounds the request body.
const maxReconcileBody = 1 << 16

// ReconciliationService defines the interface for the reconciliation use case.
type ReconciliationService interface {
	Reconcile(ctx context.Context, req usecase.ReconcileRequest) (*usecase.ReconciliationReport, error)
}

// ReconcileHandler handles reconciliation requests.
type ReconcileHandler struct {
	svc ReconciliationService
	now func() time.Time
}

// NewReconcileHandler creates a new ReconcileHandler.
func NewReconcileHandler(svc ReconciliationService) *ReconcileHandler {
	return &ReconcileHandler{svc: svc, now: time.Now}
}

// Reconcile handles POST /reconcile.
func (h *ReconcileHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	userID, err := scopedUser(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	var req dto.ReconcileRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReconcileBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(userID, h.now())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	report, err := h.svc.Reconcile(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconcileFromUseCase(report))
}
