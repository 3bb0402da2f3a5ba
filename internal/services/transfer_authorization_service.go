package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fanpay/fanpay-api/internal/helpers"
	"github.com/fanpay/fanpay-api/internal/logger"
	"github.com/fanpay/fanpay-api/internal/signing"
	"github.com/fanpay/fanpay-api/internal/types/business"
	"go.uber.org/zap"
)

// BuildTransferParams contains the inputs for one transfer authorization.
//
// Nonce, when set, must be the value most recently observed from the nonce
// service for From. When nil, the build reads the ledger itself while holding
// the per-address lock, which closes the observe-then-build race for
// concurrent requests on the same address.
//
// Deadline is an explicit unix-seconds expiry and is accepted as-is, even if
// already past (expiry is enforced downstream at chain time). When zero, the
// deadline is derived as now + Window (or the service default window), and a
// non-positive window is a ValidationError.
type BuildTransferParams struct {
	ClubID   *big.Int
	From     string
	To       string
	Amount   *big.Int // token base units
	Chain    business.ChainContext
	Nonce    *big.Int
	Deadline int64
	Window   time.Duration
}

// TransferAuthorizationService builds and signs nonce-bound transfer
// authorizations with the buyer's key. The service holds no state across
// requests beyond the per-address locks that serialize concurrent builds.
type TransferAuthorizationService struct {
	domainName    string
	domainVersion string
	window        time.Duration
	nonces        NonceReader
	logger        *zap.Logger

	mu    sync.Mutex
	locks map[common.Address]*sync.Mutex
}

// NewTransferAuthorizationService creates a builder bound to the protocol's
// EIP-712 domain identity. The nonce reader may be nil if callers always
// supply an observed nonce.
func NewTransferAuthorizationService(domainName, domainVersion string, window time.Duration, nonces NonceReader) *TransferAuthorizationService {
	return &TransferAuthorizationService{
		domainName:    domainName,
		domainVersion: domainVersion,
		window:        window,
		nonces:        nonces,
		logger:        logger.Log,
		locks:         make(map[common.Address]*sync.Mutex),
	}
}

// addressLock returns the mutex serializing builds for one from-address.
func (s *TransferAuthorizationService) addressLock(addr common.Address) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[addr]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[addr] = lock
	}
	return lock
}

// BuildTransferAuthorization derives the EIP-712 digest for the transfer
// tuple, obtains the buyer's signature and returns it pre-split into
// (v, r, s). The signer crosses a trust boundary (typically a wallet
// confirmation), so the call blocks until the signer answers or ctx is done.
func (s *TransferAuthorizationService) BuildTransferAuthorization(ctx context.Context, signer signing.Signer, params BuildTransferParams) (*business.SignedTransferAuthorization, error) {
	if !helpers.IsAddressValid(params.From) {
		return nil, business.NewValidationError("from", "not a well-formed address")
	}
	if !helpers.IsAddressValid(params.To) {
		return nil, business.NewValidationError("to", "not a well-formed address")
	}
	if params.Amount == nil || params.Amount.Sign() <= 0 {
		return nil, business.NewValidationError("amount", "must be positive")
	}
	if signer == nil {
		return nil, &business.SigningUnavailableError{Role: "user", Err: errors.New("no user signer supplied")}
	}

	from := common.HexToAddress(params.From)

	// One logical unit per address: nonce observation and build never
	// interleave for the same payer.
	lock := s.addressLock(from)
	lock.Lock()
	defer lock.Unlock()

	nonce := params.Nonce
	if nonce == nil {
		if s.nonces == nil {
			return nil, business.NewValidationError("nonce", "no observed nonce supplied and no ledger reader configured")
		}
		observed, err := s.nonces.NonceOf(ctx, from)
		if err != nil {
			return nil, fmt.Errorf("failed to read nonce for %s: %w", params.From, err)
		}
		nonce = observed
	}

	deadline := params.Deadline
	if deadline == 0 {
		window := params.Window
		if window == 0 {
			window = s.window
		}
		if window <= 0 {
			return nil, business.NewValidationError("deadline", "expiry window must be positive")
		}
		deadline = time.Now().Add(window).Unix()
	}

	auth := business.TransferAuthorization{
		ClubID:   params.ClubID,
		From:     from,
		To:       common.HexToAddress(params.To),
		Amount:   params.Amount,
		Nonce:    nonce,
		Deadline: big.NewInt(deadline),
	}

	digest, err := signing.TransferStructHash(s.domainName, s.domainVersion, params.Chain, auth)
	if err != nil {
		return nil, err
	}

	sig, err := signer.SignDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, signing.ErrRejected) || errors.Is(err, context.Canceled) {
			return nil, &business.SigningRejectedError{Role: "user", Err: err}
		}
		return nil, &business.SigningUnavailableError{Role: "user", Err: err}
	}

	v, r, sc, err := signing.SplitSignature(sig)
	if err != nil {
		return nil, err
	}

	s.logger.Info("built transfer authorization",
		zap.String("from", auth.From.Hex()),
		zap.String("to", auth.To.Hex()),
		zap.String("amount", auth.Amount.String()),
		zap.String("nonce", auth.Nonce.String()),
		zap.Int64("deadline", deadline),
	)

	return &business.SignedTransferAuthorization{
		Authorization: auth,
		V:             v,
		R:             r,
		S:             sc,
	}, nil
}
