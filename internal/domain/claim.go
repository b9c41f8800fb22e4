package domain

// Stance controls which polarity the evidence provider is asked to argue.
type Stance string

const (
	// StanceSupport gathers evidence for answering the question directly.
	StanceSupport Stance = "support"
	// StanceRefute gathers evidence for the polarity opposite a prior verdict.
	StanceRefute Stance = "refute"
)

// Claim is a yes/no factual question submitted for evaluation.
// Claims are per-request values; the ledger is the only persistence layer.
type Claim struct {
	Question string `json:"question"`
}

// EvidenceItem is a single citation backing a verdict.
type EvidenceItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Verdict is the outcome of evaluating a claim against live evidence.
// Answer is always set once an evaluation completes successfully; an
// evaluation that cannot find any citations still carries a synthetic
// placeholder source, so Sources is never empty.
type Verdict struct {
	Question string         `json:"question"`
	Sources  []EvidenceItem `json:"sources"`
	Answer   bool           `json:"answer"`
}

// Commitment pairs a verdict with its deterministic content fingerprint.
// Hash is the lowercase hex SHA-256 of the canonical verdict serialization.
type Commitment struct {
	Verdict Verdict `json:"verdict"`
	Hash    string  `json:"hash"`
}

// Refutation is an adversarial re-evaluation of a prior verdict. It is
// accepted only when it cites strictly more sources than the original,
// and an accepted refutation always takes the opposite polarity.
type Refutation struct {
	OriginalQuestion    string         `json:"originalQuestion"`
	OriginalAnswer      bool           `json:"originalAnswer"`
	RefuteAnswer        bool           `json:"refuteAnswer"`
	Sources             []EvidenceItem `json:"sources"`
	OriginalSourceCount int            `json:"originalSourceCount"`
	RefuteSourceCount   int            `json:"refuteSourceCount"`
}

// Accepted reports whether the refutation cleared the evidentiary bar of
// strictly out-citing the original verdict.
func (r Refutation) Accepted() bool {
	return r.RefuteSourceCount > r.OriginalSourceCount
}

// LedgerRecord is the exact JSON payload written to the ledger for an
// evaluation. Field order is fixed; the submitter verifies durability by
// reading the record back and comparing bytes, so this shape must not
// change between write and read.
type LedgerRecord struct {
	Question string         `json:"question"`
	Answer   bool           `json:"answer"`
	Sources  []EvidenceItem `json:"sources"`
	Hash     string         `json:"hash"`
}

// RefutationRecord is the ledger payload for an accepted refutation.
type RefutationRecord struct {
	Refutation
	Hash string `json:"hash"`
}
