package service

import (
	"regexp"
	"testing"

	"github.com/factlock/factlock/internal/domain"
)

func TestCommit_Deterministic(t *testing.T) {
	v := &domain.Verdict{
		Question: "Is Bitcoin trading above $50,000?",
		Sources: []domain.EvidenceItem{
			{Title: "CoinDesk", URL: "https://coindesk.com/x"},
			{Title: "Bloomberg", URL: "https://bloomberg.com/y"},
		},
		Answer: true,
	}

	first, err := Commit(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Commit(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Hash != second.Hash {
		t.Errorf("hash not deterministic: %s vs %s", first.Hash, second.Hash)
	}
}

func TestCommit_HashShape(t *testing.T) {
	c, err := Commit(&domain.Verdict{Question: "q", Answer: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !regexp.MustCompile(`^[0-9a-f]{64}$`).MatchString(c.Hash) {
		t.Errorf("hash should be 32 bytes of lowercase hex, got %q", c.Hash)
	}
}

func TestCommit_SensitiveToContent(t *testing.T) {
	base := &domain.Verdict{Question: "q", Answer: true}
	flipped := &domain.Verdict{Question: "q", Answer: false}

	a, _ := Commit(base)
	b, _ := Commit(flipped)

	if a.Hash == b.Hash {
		t.Error("different verdicts must not collide")
	}
}
