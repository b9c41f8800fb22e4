package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/factlock/factlock/internal/domain"
)

// commitmentPayload fixes the serialization field order for hashing:
// question, answer, sources. Changing this order changes every hash.
type commitmentPayload struct {
	Question string                `json:"question"`
	Answer   bool                  `json:"answer"`
	Sources  []domain.EvidenceItem `json:"sources"`
}

// Commit computes the content fingerprint of a verdict: canonical JSON of
// {question, answer, sources}, SHA-256, lowercase hex. Pure — identical
// verdicts always produce identical commitments.
func Commit(v *domain.Verdict) (*domain.Commitment, error) {
	data, err := json.Marshal(commitmentPayload{
		Question: v.Question,
		Answer:   v.Answer,
		Sources:  v.Sources,
	})
	if err != nil {
		return nil, fmt.Errorf("serialize verdict: %w", err)
	}

	sum := sha256.Sum256(data)
	return &domain.Commitment{
		Verdict: *v,
		Hash:    hex.EncodeToString(sum[:]),
	}, nil
}
