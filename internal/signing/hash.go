package signing

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/fanpay/fanpay-api/internal/types/business"
)

// OrderMessageHash computes keccak256 of the tightly packed order tuple:
// uint256 orderId, address buyer, uint256 clubId, uint256 amount,
// address executorContract, uint256 chainId. The field order is part of the
// wire contract with the executor; reordering silently produces a digest the
// contract will never accept.
func OrderMessageHash(orderID *big.Int, buyer common.Address, clubID, amount *big.Int, executorContract common.Address, chainID *big.Int) (common.Hash, error) {
	fields := []struct {
		name  string
		value *big.Int
	}{
		{"orderId", orderID},
		{"clubId", clubID},
		{"amount", amount},
		{"chainId", chainID},
	}
	for _, f := range fields {
		if err := checkUint256(f.name, f.value); err != nil {
			return common.Hash{}, err
		}
	}

	packed := make([]byte, 0, 4*32+2*common.AddressLength)
	packed = append(packed, common.LeftPadBytes(orderID.Bytes(), 32)...)
	packed = append(packed, buyer.Bytes()...)
	packed = append(packed, common.LeftPadBytes(clubID.Bytes(), 32)...)
	packed = append(packed, common.LeftPadBytes(amount.Bytes(), 32)...)
	packed = append(packed, executorContract.Bytes()...)
	packed = append(packed, common.LeftPadBytes(chainID.Bytes(), 32)...)

	return common.BytesToHash(crypto.Keccak256(packed)), nil
}

// TransferStructHash computes the EIP-712 digest of a transfer authorization:
// keccak256("\x19\x01" || domainSeparator || structHash). This is the exact
// digest the buyer signs and the executor recovers against.
func TransferStructHash(name, version string, chain business.ChainContext, auth business.TransferAuthorization) (common.Hash, error) {
	if err := validateChainContext(chain); err != nil {
		return common.Hash{}, err
	}
	fields := []struct {
		name  string
		value *big.Int
	}{
		{"clubId", auth.ClubID},
		{"amount", auth.Amount},
		{"nonce", auth.Nonce},
		{"deadline", auth.Deadline},
	}
	for _, f := range fields {
		if err := checkUint256(f.name, f.value); err != nil {
			return common.Hash{}, err
		}
	}

	typedData := transferTypedData(name, version, chain, auth)
	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash transfer authorization: %w", err)
	}
	return common.BytesToHash(digest), nil
}

func transferTypedData(name, version string, chain business.ChainContext, auth business.TransferAuthorization) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": eip712DomainType,
			"TransferAuthorization": {
				{Name: "clubId", Type: "uint256"},
				{Name: "from", Type: "address"},
				{Name: "to", Type: "address"},
				{Name: "amount", Type: "uint256"},
				{Name: "nonce", Type: "uint256"},
				{Name: "deadline", Type: "uint256"},
			},
		},
		PrimaryType: "TransferAuthorization",
		Domain:      typedDataDomain(name, version, chain),
		Message: apitypes.TypedDataMessage{
			"clubId":   (*math.HexOrDecimal256)(auth.ClubID),
			"from":     auth.From.Hex(),
			"to":       auth.To.Hex(),
			"amount":   (*math.HexOrDecimal256)(auth.Amount),
			"nonce":    (*math.HexOrDecimal256)(auth.Nonce),
			"deadline": (*math.HexOrDecimal256)(auth.Deadline),
		},
	}
}

func checkUint256(field string, v *big.Int) error {
	if v == nil {
		return business.NewValidationError(field, "is required")
	}
	if v.Sign() < 0 {
		return business.NewValidationError(field, "must not be negative")
	}
	if v.BitLen() > 256 {
		return business.NewValidationError(field, "exceeds 256 bits")
	}
	return nil
}
