package helpers

import (
	"math/big"
	"strings"

	"github.com/fanpay/fanpay-api/internal/types/business"
)

// ParseTokenAmount converts a decimal token amount string ("30", "12.5")
// into integer base units for a token with the given number of decimals.
// This is the single normalization point between human-facing amounts and
// the base units used everywhere inside the authorization core.
func ParseTokenAmount(amount string, decimals int) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, business.NewValidationError("amount", "must not be empty")
	}
	if strings.HasPrefix(amount, "-") {
		return nil, business.NewValidationError("amount", "must not be negative")
	}

	whole := amount
	frac := ""
	if i := strings.Index(amount, "."); i >= 0 {
		whole, frac = amount[:i], amount[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return nil, business.NewValidationError("amount", "must be a decimal number")
	}
	if len(frac) > decimals {
		return nil, business.NewValidationError("amount", "has more fractional digits than the token supports")
	}

	// Scale: whole*10^decimals + frac padded to `decimals` digits
	frac += strings.Repeat("0", decimals-len(frac))
	units, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, business.NewValidationError("amount", "must be a decimal number")
	}
	return units, nil
}

// FormatTokenAmount converts integer base units back into a decimal token
// amount string, trimming trailing zeros from the fractional part.
func FormatTokenAmount(units *big.Int, decimals int) string {
	if units == nil {
		return "0"
	}
	s := units.String()
	if decimals == 0 {
		return s
	}
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	whole := s[:len(s)-decimals]
	frac := strings.TrimRight(s[len(s)-decimals:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// ParseUint256 parses a decimal or 0x-prefixed hex string into a big.Int and
// enforces the uint256 range.
func ParseUint256(field, value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, business.NewValidationError(field, "must not be empty")
	}

	v := new(big.Int)
	var ok bool
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		_, ok = v.SetString(value[2:], 16)
	} else {
		_, ok = v.SetString(value, 10)
	}
	if !ok {
		return nil, business.NewValidationError(field, "must be a decimal or 0x-hex integer")
	}
	if v.Sign() < 0 {
		return nil, business.NewValidationError(field, "must not be negative")
	}
	if v.BitLen() > 256 {
		return nil, business.NewValidationError(field, "exceeds 256 bits")
	}
	return v, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
