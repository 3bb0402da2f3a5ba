package services

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fanpay/fanpay-api/internal/logger"
	"github.com/fanpay/fanpay-api/internal/types/business"
	"go.uber.org/zap"
)

// BundleService merges the two independently produced authorizations into the
// bundle handed to the executor. This is the last point at which a caller
// error can be caught before an invalid bundle leaves the system.
type BundleService struct {
	logger *zap.Logger
}

// NewBundleService creates a new bundle assembler
func NewBundleService() *BundleService {
	return &BundleService{logger: logger.Log}
}

// Assemble validates the internal consistency of the two authorizations and
// merges them. On inconsistency it returns a MismatchError naming the first
// field that disagrees. Both amounts are already in token base units, so the
// comparison is exact equality.
func (s *BundleService) Assemble(order business.OrderAuthorization, transfer business.TransferAuthorization, v uint8, r, sig common.Hash) (*business.AuthorizationBundle, error) {
	if len(order.Signature) != crypto.SignatureLength {
		return nil, business.NewValidationError("orderSignature", "must be 65 bytes")
	}
	if v != 27 && v != 28 {
		return nil, business.NewValidationError("v", "recovery id must be 27 or 28")
	}
	if order.OrderID == nil || transfer.Nonce == nil || transfer.Deadline == nil {
		return nil, business.NewValidationError("bundle", "missing required fields")
	}

	if order.Buyer != transfer.From {
		return nil, &business.MismatchError{Field: "buyer/from"}
	}
	if !equalUint256(order.ClubID, transfer.ClubID) {
		return nil, &business.MismatchError{Field: "clubId"}
	}
	if !equalUint256(order.Amount, transfer.Amount) {
		return nil, &business.MismatchError{Field: "amount"}
	}

	bundle := &business.AuthorizationBundle{
		Order:    order,
		Transfer: transfer,
		V:        v,
		R:        r,
		S:        sig,
	}

	s.logger.Info("assembled authorization bundle",
		zap.String("order_id", order.OrderID.String()),
		zap.String("buyer", order.Buyer.Hex()),
		zap.String("nonce", transfer.Nonce.String()),
	)
	return bundle, nil
}

func equalUint256(a, b *big.Int) bool {
	return a != nil && b != nil && a.Cmp(b) == 0
}
