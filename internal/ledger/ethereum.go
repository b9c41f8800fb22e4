package ledger

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// ErrNotFound means the ledger has no record under the given identifier.
var ErrNotFound = errors.New("ledger record not found")

const submitGasLimit = 100000

// EthClient writes payloads to an Ethereum-compatible chain as the data
// field of self-addressed transactions, and reads them back by transaction
// hash. The chain is used purely as an append-only commit log.
type EthClient struct {
	client  *ethclient.Client
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
	logger  *zap.Logger
}

func NewEthClient(ctx context.Context, rpcURL, hexKey string, logger *zap.Logger) (*EthClient, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse ledger private key: %w", err)
	}

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial ledger rpc %s: %w", rpcURL, err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch chain id: %w", err)
	}

	return &EthClient{
		client:  client,
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
		logger:  logger,
	}, nil
}

// Address returns the submitting account.
func (c *EthClient) Address() common.Address {
	return c.address
}

func (c *EthClient) Submit(ctx context.Context, payload []byte) (string, error) {
	nonce, err := c.client.PendingNonceAt(ctx, c.address)
	if err != nil {
		return "", fmt.Errorf("fetch nonce: %w", err)
	}

	head, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("fetch head: %w", err)
	}

	var tx *types.Transaction
	if head.BaseFee != nil {
		tipCap, err := c.client.SuggestGasTipCap(ctx)
		if err != nil {
			return "", fmt.Errorf("fetch gas tip cap: %w", err)
		}
		tx = dynamicSubmitTx(c.chainID, nonce, c.address, payload, head.BaseFee, tipCap)
	} else {
		// Chain predates dynamic fees; price the transaction the legacy way.
		gasPrice, err := c.client.SuggestGasPrice(ctx)
		if err != nil {
			return "", fmt.Errorf("fetch gas price: %w", err)
		}
		tx = legacySubmitTx(nonce, c.address, payload, gasPrice)
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}

	hash := signed.Hash().Hex()
	c.logger.Info("ledger record submitted",
		zap.String("tx_hash", hash),
		zap.Uint64("nonce", nonce),
		zap.Int("payload_bytes", len(payload)))

	return hash, nil
}

// dynamicSubmitTx builds a self-addressed EIP-1559 transaction with a fee
// cap of twice the current base fee plus the suggested tip.
func dynamicSubmitTx(chainID *big.Int, nonce uint64, to common.Address, payload []byte, baseFee, tipCap *big.Int) *types.Transaction {
	feeCap := new(big.Int).Add(tipCap, new(big.Int).Mul(baseFee, big.NewInt(2)))
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       submitGasLimit,
		To:        &to,
		Value:     big.NewInt(0),
		Data:      payload,
	})
}

// legacySubmitTx builds a self-addressed gas-priced transaction for chains
// whose headers carry no base fee.
func legacySubmitTx(nonce uint64, to common.Address, payload []byte, gasPrice *big.Int) *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      submitGasLimit,
		To:       &to,
		Value:    big.NewInt(0),
		Data:     payload,
	})
}

func (c *EthClient) Fetch(ctx context.Context, id string) ([]byte, error) {
	tx, _, err := c.client.TransactionByHash(ctx, common.HexToHash(id))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("fetch transaction %s: %w", id, err)
	}
	return tx.Data(), nil
}
