package store

import (
	"context"
	"errors"

	"github.com/factlock/factlock/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

const journalSchema = `
CREATE TABLE IF NOT EXISTS commitments (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	question   TEXT NOT NULL,
	answer     BOOLEAN NOT NULL,
	hash       TEXT NOT NULL UNIQUE,
	tx_hash    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// JournalStore indexes ledger writes by commitment hash so an identical
// verdict is never written to the ledger twice.
type JournalStore struct {
	db *pgxpool.Pool
}

func NewJournalStore(db *pgxpool.Pool) *JournalStore {
	return &JournalStore{db: db}
}

// Init creates the commitments table if it does not exist.
func (s *JournalStore) Init(ctx context.Context) error {
	_, err := s.db.Exec(ctx, journalSchema)
	return err
}

func (s *JournalStore) Record(ctx context.Context, entry *domain.JournalEntry) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO commitments (question, answer, hash, tx_hash)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (hash) DO UPDATE SET tx_hash = commitments.tx_hash
		 RETURNING id, created_at`,
		entry.Question, entry.Answer, entry.Hash, entry.TxHash,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (s *JournalStore) FindByHash(ctx context.Context, hash string) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	err := s.db.QueryRow(ctx,
		`SELECT id, question, answer, hash, tx_hash, created_at
		 FROM commitments WHERE hash = $1`,
		hash,
	).Scan(&entry.ID, &entry.Question, &entry.Answer, &entry.Hash, &entry.TxHash, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}
