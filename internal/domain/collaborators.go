package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EvidenceRequest describes one evidence-gathering call.
type EvidenceRequest struct {
	Question string
	Stance   Stance
	// PriorAnswer is the verdict being argued against. Only meaningful
	// when Stance is StanceRefute.
	PriorAnswer bool
	// MinSources is the minimum citation count the provider is asked for.
	MinSources int
}

// Evidence is the raw output of an evidence provider: unstructured prose
// plus any citations the provider returned out-of-band from the text.
type Evidence struct {
	Text      string
	Citations []EvidenceItem
}

// EvidenceProvider is a pluggable source of web evidence. Implementations
// make a single network call and hold no local state.
type EvidenceProvider interface {
	Name() string
	FetchEvidence(ctx context.Context, req EvidenceRequest) (*Evidence, error)
}

// LedgerClient is the contract with the external append-only store.
// Submit returns an opaque record identifier; Fetch returns the exact
// bytes that were written under that identifier.
type LedgerClient interface {
	Submit(ctx context.Context, payload []byte) (string, error)
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// JournalEntry records a commitment that has been written to the ledger.
type JournalEntry struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    bool      `json:"answer"`
	Hash      string    `json:"hash"`
	TxHash    string    `json:"tx_hash"`
	CreatedAt time.Time `json:"created_at"`
}

// CommitmentJournal is an optional local index of ledger writes, keyed by
// commitment hash. It exists to stop identical verdicts from being written
// to the ledger twice.
type CommitmentJournal interface {
	Record(ctx context.Context, entry *JournalEntry) error
	FindByHash(ctx context.Context, hash string) (*JournalEntry, error)
}
