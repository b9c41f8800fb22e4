package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/factlock/factlock/internal/signer"
)

// signProbe is the fixed string the diagnostic signing endpoint hashes
// and signs. Its only purpose is proving key custody works end to end.
const signProbe = "testing"

type AccountHandler struct {
	signer *signer.Signer
}

func NewAccountHandler(s *signer.Signer) *AccountHandler {
	return &AccountHandler{signer: s}
}

type addressResponse struct {
	Address string `json:"address"`
}

type testSignResponse struct {
	Address   string `json:"address"`
	Digest    string `json:"digest"`
	Signature string `json:"signature"`
}

func (h *AccountHandler) Address(w http.ResponseWriter, r *http.Request) {
	if h.signer == nil {
		writeError(w, http.StatusInternalServerError, "signing account not configured")
		return
	}
	writeJSON(w, http.StatusOK, addressResponse{Address: h.signer.Address().Hex()})
}

func (h *AccountHandler) TestSign(w http.ResponseWriter, r *http.Request) {
	if h.signer == nil {
		writeError(w, http.StatusInternalServerError, "signing account not configured")
		return
	}

	digest := sha256.Sum256([]byte(signProbe))
	sig, err := h.signer.Sign(digest[:])
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to sign test digest")
		return
	}

	writeJSON(w, http.StatusOK, testSignResponse{
		Address:   h.signer.Address().Hex(),
		Digest:    hex.EncodeToString(digest[:]),
		Signature: hex.EncodeToString(sig),
	})
}
