package services

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/fanpay/fanpay-api/internal/helpers"
	"github.com/fanpay/fanpay-api/internal/logger"
	"github.com/fanpay/fanpay-api/internal/types/business"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=../mocks/nonce_reader_mock.go -package=mocks github.com/fanpay/fanpay-api/internal/services NonceReader

// ledgerABIJSON covers the single read-only entrypoint this service consumes
// from the external ledger.
const ledgerABIJSON = `[{"inputs":[{"internalType":"address","name":"account","type":"address"}],"name":"nonceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`

// NonceReader reads the ledger's per-address authorization nonce.
type NonceReader interface {
	NonceOf(ctx context.Context, account common.Address) (*big.Int, error)
}

// LedgerNonceReader reads nonces from the on-chain ledger via eth_call.
type LedgerNonceReader struct {
	client    *ethclient.Client
	ledger    common.Address
	ledgerABI abi.ABI
}

// NewLedgerNonceReader connects to the ledger RPC endpoint and prepares the
// nonceOf call codec.
func NewLedgerNonceReader(rpcURL string, ledger common.Address) (*LedgerNonceReader, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to ledger RPC")
	}

	parsed, err := abi.JSON(strings.NewReader(ledgerABIJSON))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse ledger ABI")
	}

	return &LedgerNonceReader{
		client:    client,
		ledger:    ledger,
		ledgerABI: parsed,
	}, nil
}

// NonceOf performs a nonceOf(address) eth_call against the latest block.
func (r *LedgerNonceReader) NonceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	data, err := r.ledgerABI.Pack("nonceOf", account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode nonceOf call")
	}

	output, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &r.ledger, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "nonceOf call failed for %s", account.Hex())
	}

	values, err := r.ledgerABI.Unpack("nonceOf", output)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode nonceOf result")
	}
	nonce, ok := values[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("unexpected nonceOf return type %T", values[0])
	}
	return nonce, nil
}

// NonceService answers "what is this address's current authorization nonce"
// with a read-through query. Results are never cached: the correctness of a
// transfer authorization depends on the nonce being observed immediately
// before the build, and never reused across two bundles for the same address.
type NonceService struct {
	reader NonceReader
	logger *zap.Logger
}

// NewNonceService creates a new nonce service backed by the given reader
func NewNonceService(reader NonceReader) *NonceService {
	return &NonceService{
		reader: reader,
		logger: logger.Log,
	}
}

// CurrentNonce returns the ledger's current nonce for the address.
func (s *NonceService) CurrentNonce(ctx context.Context, address string) (*big.Int, error) {
	if !helpers.IsAddressValid(address) {
		return nil, business.NewValidationError("address", "not a well-formed address")
	}

	nonce, err := s.reader.NonceOf(ctx, common.HexToAddress(address))
	if err != nil {
		return nil, fmt.Errorf("failed to read nonce: %w", err)
	}

	s.logger.Debug("read ledger nonce",
		zap.String("address", address),
		zap.String("nonce", nonce.String()),
	)
	return nonce, nil
}
