package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/factlock/factlock/internal/domain"
	"github.com/factlock/factlock/internal/ledger"
	"github.com/factlock/factlock/internal/service"
	"go.uber.org/zap"
)

type RefuteHandler struct {
	svc         *service.RefutationService
	submitter   *ledger.Submitter
	explorerURL string
	logger      *zap.Logger
}

func NewRefuteHandler(svc *service.RefutationService, submitter *ledger.Submitter, explorerURL string, logger *zap.Logger) *RefuteHandler {
	return &RefuteHandler{
		svc:         svc,
		submitter:   submitter,
		explorerURL: explorerURL,
		logger:      logger,
	}
}

// refuteRequest accepts both observed input shapes: the prior verdict
// inline, or a ledger transaction holding it.
type refuteRequest struct {
	OriginalEvaluation *domain.Verdict `json:"originalEvaluation"`
	TransactionHash    string          `json:"transactionHash"`
}

type refuteResponse struct {
	domain.Refutation
	Status                string `json:"status"`
	RefutationTxHash      string `json:"refutation_tx_hash,omitempty"`
	RefutationExplorerURL string `json:"refutation_explorer_url,omitempty"`
	LedgerError           string `json:"ledger_error,omitempty"`
}

// Refute runs the adversarial counter-evaluation and writes an accepted
// refutation to the ledger.
func (h *RefuteHandler) Refute(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.refute(w, r)
	if !ok {
		return
	}

	resp.Status = "refuted"
	// Only accepted refutations are committed; a lenient-mode result that
	// missed the evidentiary bar stays off the ledger.
	if h.submitter != nil && resp.Accepted() {
		h.submit(r, resp)
	}

	writeJSON(w, http.StatusOK, resp)
}

// RefuteLocal runs the counter-evaluation without a ledger write.
func (h *RefuteHandler) RefuteLocal(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.refute(w, r)
	if !ok {
		return
	}

	resp.Status = "refuted-local"
	writeJSON(w, http.StatusOK, resp)
}

func (h *RefuteHandler) refute(w http.ResponseWriter, r *http.Request) (*refuteResponse, bool) {
	var req refuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	prior, err := h.svc.ResolvePrior(r.Context(), service.PriorInput{
		Evaluation:      req.OriginalEvaluation,
		TransactionHash: req.TransactionHash,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPriorMissing):
			writeError(w, http.StatusBadRequest, "original evaluation data (question, answer, sources) or transaction hash is required")
		case errors.Is(err, service.ErrPriorNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to resolve prior evaluation")
		}
		return nil, false
	}

	result, err := h.svc.Refute(r.Context(), prior)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientEvidence) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return nil, false
		}
		h.logger.Error("refutation failed", zap.String("question", prior.Question), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to refute evaluation")
		return nil, false
	}

	if result.Sources == nil {
		result.Sources = []domain.EvidenceItem{}
	}
	return &refuteResponse{Refutation: *result}, true
}

func (h *RefuteHandler) submit(r *http.Request, resp *refuteResponse) {
	payload, err := json.Marshal(domain.RefutationRecord{
		Refutation: resp.Refutation,
		Hash:       refutationHash(&resp.Refutation),
	})
	if err != nil {
		resp.LedgerError = "failed to serialize ledger payload"
		return
	}

	result, err := h.submitter.Submit(r.Context(), payload)
	if err != nil {
		h.logger.Error("refutation submission failed", zap.Error(err))
		resp.LedgerError = err.Error()
		return
	}
	if !result.Success {
		resp.LedgerError = result.Error
		return
	}

	resp.RefutationTxHash = result.TransactionHash
	resp.RefutationExplorerURL = h.explorerURL + result.TransactionHash
}

func refutationHash(ref *domain.Refutation) string {
	data, err := json.Marshal(ref)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
