package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/factlock/factlock/internal/domain"
	"github.com/factlock/factlock/internal/ledger"
	"github.com/factlock/factlock/internal/service"
	"go.uber.org/zap"
)

type EvaluateHandler struct {
	svc         *service.EvaluationService
	submitter   *ledger.Submitter
	journal     domain.CommitmentJournal
	explorerURL string
	logger      *zap.Logger
}

// NewEvaluateHandler wires the evaluation endpoints. submitter and journal
// may be nil: without a submitter only local evaluation works with ledger
// fields omitted; without a journal duplicate verdicts are not deduplicated.
func NewEvaluateHandler(svc *service.EvaluationService, submitter *ledger.Submitter, journal domain.CommitmentJournal, explorerURL string, logger *zap.Logger) *EvaluateHandler {
	return &EvaluateHandler{
		svc:         svc,
		submitter:   submitter,
		journal:     journal,
		explorerURL: explorerURL,
		logger:      logger,
	}
}

type evaluateRequest struct {
	Question string `json:"question"`
}

type evaluateResponse struct {
	Question    string                `json:"question"`
	Sources     []domain.EvidenceItem `json:"sources"`
	Answer      bool                  `json:"answer"`
	Hash        string                `json:"hash"`
	Status      string                `json:"status"`
	TxHash      string                `json:"tx_hash,omitempty"`
	ExplorerURL string                `json:"explorer_url,omitempty"`
	LedgerError string                `json:"ledger_error,omitempty"`
}

// Evaluate answers the question, commits the verdict, and writes it to
// the ledger. A failed ledger write does not invalidate the verdict: the
// response still carries the answer and hash, with the ledger fields
// replaced by an error note.
func (h *EvaluateHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.evaluate(w, r)
	if !ok {
		return
	}

	resp.Status = "evaluated"
	if h.submitter != nil {
		h.submit(r.Context(), resp)
	}

	writeJSON(w, http.StatusOK, resp)
}

// EvaluateLocal answers and commits without touching the ledger.
func (h *EvaluateHandler) EvaluateLocal(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.evaluate(w, r)
	if !ok {
		return
	}

	resp.Status = "evaluated"
	writeJSON(w, http.StatusOK, resp)
}

func (h *EvaluateHandler) evaluate(w http.ResponseWriter, r *http.Request) (*evaluateResponse, bool) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	verdict, err := h.svc.Evaluate(r.Context(), req.Question)
	if err != nil {
		if errors.Is(err, service.ErrQuestionEmpty) {
			writeError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
		h.logger.Error("evaluation failed", zap.String("question", req.Question), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to evaluate question")
		return nil, false
	}

	commitment, err := service.Commit(verdict)
	if err != nil {
		h.logger.Error("commitment failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to commit verdict")
		return nil, false
	}

	return &evaluateResponse{
		Question: verdict.Question,
		Sources:  verdict.Sources,
		Answer:   verdict.Answer,
		Hash:     commitment.Hash,
	}, true
}

// submit writes the commitment to the ledger, reusing a prior transaction
// when the journal already holds this hash.
func (h *EvaluateHandler) submit(ctx context.Context, resp *evaluateResponse) {
	if h.journal != nil {
		if entry, err := h.journal.FindByHash(ctx, resp.Hash); err == nil {
			h.logger.Info("commitment already on ledger, reusing transaction",
				zap.String("hash", resp.Hash),
				zap.String("tx_hash", entry.TxHash))
			resp.TxHash = entry.TxHash
			resp.ExplorerURL = h.explorerURL + entry.TxHash
			return
		}
	}

	payload, err := json.Marshal(domain.LedgerRecord{
		Question: resp.Question,
		Answer:   resp.Answer,
		Sources:  resp.Sources,
		Hash:     resp.Hash,
	})
	if err != nil {
		resp.LedgerError = "failed to serialize ledger payload"
		return
	}

	result, err := h.submitter.Submit(ctx, payload)
	if err != nil {
		h.logger.Error("ledger submission failed", zap.String("hash", resp.Hash), zap.Error(err))
		resp.LedgerError = err.Error()
		return
	}
	if !result.Success {
		h.logger.Warn("ledger submission not verified",
			zap.String("hash", resp.Hash),
			zap.String("error", result.Error))
		resp.LedgerError = result.Error
		return
	}

	resp.TxHash = result.TransactionHash
	resp.ExplorerURL = h.explorerURL + result.TransactionHash

	if h.journal != nil {
		entry := &domain.JournalEntry{
			Question: resp.Question,
			Answer:   resp.Answer,
			Hash:     resp.Hash,
			TxHash:   result.TransactionHash,
		}
		if err := h.journal.Record(ctx, entry); err != nil {
			h.logger.Warn("failed to journal commitment", zap.String("hash", resp.Hash), zap.Error(err))
		}
	}
}
