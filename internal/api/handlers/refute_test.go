package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/factlock/factlock/internal/domain"
	"github.com/factlock/factlock/internal/evidence"
	"github.com/factlock/factlock/internal/ledger"
	"github.com/factlock/factlock/internal/service"
	"go.uber.org/zap"
)

// recordingLedger stores submitted payloads and serves them back for the
// submitter's read-back verification.
type recordingLedger struct {
	submits [][]byte
}

func (l *recordingLedger) Submit(_ context.Context, payload []byte) (string, error) {
	l.submits = append(l.submits, payload)
	return "0xfeed", nil
}

func (l *recordingLedger) Fetch(_ context.Context, _ string) ([]byte, error) {
	if len(l.submits) == 0 {
		return nil, ledger.ErrNotFound
	}
	return l.submits[len(l.submits)-1], nil
}

func newRefuteFixture(mode service.RefutationMode, provider domain.EvidenceProvider) (*RefuteHandler, *recordingLedger) {
	logger := zap.NewNop()
	led := &recordingLedger{}
	svc := service.NewRefutationService(provider, led, mode, logger)
	sub := ledger.NewSubmitter(led, ledger.DefaultRetryPolicy(), logger)
	return NewRefuteHandler(svc, sub, "https://sepolia.etherscan.io/tx/", logger), led
}

func postRefute(t *testing.T, h *RefuteHandler, prior domain.Verdict) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	body, _ := json.Marshal(map[string]any{"originalEvaluation": prior})
	req := httptest.NewRequest(http.MethodPost, "/api/refute", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Refute(rec, req)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec, resp
}

func TestRefute_LenientBarMissed_StaysOffLedger(t *testing.T) {
	provider := &evidence.MockProvider{
		Response: &domain.Evidence{Text: "No. [Only Source](https://a.example/1)"},
	}
	h, led := newRefuteFixture(service.ModeLenient, provider)

	prior := domain.Verdict{
		Question: "Is Bitcoin trading above $50,000?",
		Answer:   true,
		Sources: []domain.EvidenceItem{
			{Title: "A", URL: "https://a.example/a"},
			{Title: "B", URL: "https://b.example/b"},
		},
	}
	rec, resp := postRefute(t, h, prior)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp["refuteAnswer"] != false {
		t.Error("a bar-missing lenient refutation should report refuteAnswer=false")
	}
	if len(led.submits) != 0 {
		t.Errorf("ledger received %d writes, want none for an unaccepted refutation", len(led.submits))
	}
	if _, ok := resp["refutation_tx_hash"]; ok {
		t.Error("response should carry no transaction hash")
	}
}

func TestRefute_AcceptedRefutationIsCommitted(t *testing.T) {
	provider := &evidence.MockProvider{
		Response: &domain.Evidence{
			Text: "No. [One](https://a.example/1) [Two](https://b.example/2)",
		},
	}
	h, led := newRefuteFixture(service.ModeLenient, provider)

	prior := domain.Verdict{
		Question: "Is Bitcoin trading above $50,000?",
		Answer:   false,
		Sources:  []domain.EvidenceItem{{Title: "A", URL: "https://a.example/a"}},
	}
	rec, resp := postRefute(t, h, prior)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp["refuteAnswer"] != true {
		t.Error("an accepted refutation should flip the prior answer")
	}
	if len(led.submits) != 1 {
		t.Fatalf("ledger received %d writes, want 1", len(led.submits))
	}
	if resp["refutation_tx_hash"] != "0xfeed" {
		t.Errorf("refutation_tx_hash = %v, want 0xfeed", resp["refutation_tx_hash"])
	}

	var record domain.RefutationRecord
	if err := json.Unmarshal(led.submits[0], &record); err != nil {
		t.Fatalf("decode ledger payload: %v", err)
	}
	if !record.Accepted() {
		t.Error("committed record should clear the evidentiary bar")
	}
}
