package services

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fanpay/fanpay-api/internal/helpers"
	"github.com/fanpay/fanpay-api/internal/logger"
	"github.com/fanpay/fanpay-api/internal/signing"
	"github.com/fanpay/fanpay-api/internal/types/business"
	"go.uber.org/zap"
)

var errNoServiceKey = errors.New("service signing key not configured")

// IssueOrderParams contains the commercial terms to be attested. OrderID is
// caller-chosen; the caller owns idempotency.
type IssueOrderParams struct {
	OrderID *big.Int
	Buyer   string
	ClubID  *big.Int
	Amount  *big.Int // token base units
	Chain   business.ChainContext
}

// OrderAuthorizationService signs order digests with the operator's service
// key. It asserts nothing about balances or nonces; it only attests that the
// operator approved these commercial terms. The service key never touches the
// transfer-authorization path.
type OrderAuthorizationService struct {
	signer signing.Signer
	logger *zap.Logger
}

// NewOrderAuthorizationService creates an issuer backed by the service
// signing key. A nil signer is allowed and surfaces as SigningUnavailable on
// first use.
func NewOrderAuthorizationService(signer signing.Signer) *OrderAuthorizationService {
	return &OrderAuthorizationService{
		signer: signer,
		logger: logger.Log,
	}
}

// SignerAddress returns the address the executor should expect order
// signatures to recover to.
func (s *OrderAuthorizationService) SignerAddress() (common.Address, error) {
	if s.signer == nil {
		return common.Address{}, &business.SigningUnavailableError{Role: "service", Err: errNoServiceKey}
	}
	return s.signer.Address(), nil
}

// IssueOrderAuthorization computes the order digest, wraps it in the
// personal-message prefix, and signs it with the service key.
func (s *OrderAuthorizationService) IssueOrderAuthorization(ctx context.Context, params IssueOrderParams) (*business.OrderAuthorization, error) {
	if params.OrderID == nil {
		return nil, business.NewValidationError("orderId", "is required")
	}
	if !helpers.IsAddressValid(params.Buyer) {
		return nil, business.NewValidationError("buyer", "not a well-formed address")
	}
	if params.Amount == nil || params.Amount.Sign() <= 0 {
		return nil, business.NewValidationError("amount", "must be positive")
	}
	if s.signer == nil {
		return nil, &business.SigningUnavailableError{Role: "service", Err: errNoServiceKey}
	}

	buyer := common.HexToAddress(params.Buyer)
	digest, err := signing.OrderMessageHash(
		params.OrderID,
		buyer,
		params.ClubID,
		params.Amount,
		params.Chain.VerifyingContract,
		params.Chain.ChainID,
	)
	if err != nil {
		return nil, err
	}

	signature, err := s.signer.SignDigest(ctx, signing.PersonalSignDigest(digest))
	if err != nil {
		return nil, &business.SigningUnavailableError{Role: "service", Err: err}
	}

	auth := &business.OrderAuthorization{
		OrderID:          params.OrderID,
		Buyer:            buyer,
		ClubID:           params.ClubID,
		Amount:           params.Amount,
		ExecutorContract: params.Chain.VerifyingContract,
		ChainID:          params.Chain.ChainID,
		Signature:        signature,
	}

	s.logger.Info("issued order authorization",
		zap.String("order_id", params.OrderID.String()),
		zap.String("buyer", buyer.Hex()),
		zap.String("club_id", params.ClubID.String()),
		zap.String("amount", params.Amount.String()),
	)
	return auth, nil
}
