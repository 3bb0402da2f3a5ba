package signing

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/fanpay/fanpay-api/internal/types/business"
)

var eip712DomainType = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

// DomainSeparator derives the EIP-712 domain separator binding every typed
// signature to (protocol name, version, chain, verifying contract). Two
// bundles built for different chains or executor addresses hash to different
// domains and can never validate against each other.
func DomainSeparator(name, version string, chain business.ChainContext) (common.Hash, error) {
	if err := validateChainContext(chain); err != nil {
		return common.Hash{}, err
	}

	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": eip712DomainType,
		},
		PrimaryType: "EIP712Domain",
		Domain:      typedDataDomain(name, version, chain),
	}

	separator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash EIP-712 domain: %w", err)
	}
	return common.BytesToHash(separator), nil
}

func typedDataDomain(name, version string, chain business.ChainContext) apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              name,
		Version:           version,
		ChainId:           (*math.HexOrDecimal256)(chain.ChainID),
		VerifyingContract: chain.VerifyingContract.Hex(),
	}
}

func validateChainContext(chain business.ChainContext) error {
	if err := checkUint256("chainId", chain.ChainID); err != nil {
		return err
	}
	if chain.ChainID.Sign() == 0 {
		return business.NewValidationError("chainId", "must not be zero")
	}
	if chain.VerifyingContract == (common.Address{}) {
		return business.NewValidationError("verifyingContract", "must not be the zero address")
	}
	return nil
}
