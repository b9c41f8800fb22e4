package ledger

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var testAddr = common.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf")

func TestDynamicSubmitTx_FeeCap(t *testing.T) {
	payload := []byte(`{"question":"q"}`)
	tx := dynamicSubmitTx(big.NewInt(11155111), 7, testAddr, payload, big.NewInt(1000), big.NewInt(50))

	if tx.Type() != types.DynamicFeeTxType {
		t.Fatalf("tx type = %d, want dynamic fee", tx.Type())
	}
	// fee cap = 2*baseFee + tip
	if want := big.NewInt(2050); tx.GasFeeCap().Cmp(want) != 0 {
		t.Errorf("fee cap = %s, want %s", tx.GasFeeCap(), want)
	}
	if tx.To() == nil || *tx.To() != testAddr {
		t.Error("tx should be self-addressed")
	}
	if string(tx.Data()) != string(payload) {
		t.Error("payload should ride in the data field")
	}
}

func TestLegacySubmitTx_NoBaseFee(t *testing.T) {
	tx := legacySubmitTx(3, testAddr, []byte("rec"), big.NewInt(1200))

	if tx.Type() != types.LegacyTxType {
		t.Fatalf("tx type = %d, want legacy", tx.Type())
	}
	if tx.GasPrice().Cmp(big.NewInt(1200)) != 0 {
		t.Errorf("gas price = %s, want 1200", tx.GasPrice())
	}
	if tx.Gas() != submitGasLimit {
		t.Errorf("gas limit = %d, want %d", tx.Gas(), submitGasLimit)
	}
}
