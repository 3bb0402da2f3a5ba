package helpers

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Stage constants define the possible deployment/runtime environments.
const (
	StageProd  = "prod"
	StageDev   = "dev"
	StageLocal = "local"
)

// IsValidStage checks if the provided stage string is one of the defined valid stages.
func IsValidStage(stage string) bool {
	switch stage {
	case StageProd, StageDev, StageLocal:
		return true
	default:
		return false
	}
}

// IsAddressValid checks if the provided string is a well-formed EVM address:
// "0x" prefix followed by exactly 40 hex characters.
func IsAddressValid(address string) bool {
	if !strings.HasPrefix(address, "0x") {
		return false
	}
	return common.IsHexAddress(address)
}

// IsPrivateKeyValid checks if the provided string is a well-formed secp256k1
// private key: 64 hex characters, with or without a "0x" prefix.
func IsPrivateKeyValid(key string) bool {
	key = strings.TrimPrefix(key, "0x")
	if len(key) != 64 {
		return false
	}
	for _, c := range key {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
