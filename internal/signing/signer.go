package signing

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fanpay/fanpay-api/internal/types/business"
)

//go:generate mockgen -destination=../mocks/signer_mock.go -package=mocks github.com/fanpay/fanpay-api/internal/signing Signer

// ErrRejected is returned by interactive signers when the key holder declines
// the signature request.
var ErrRejected = errors.New("signature request rejected")

// Signer produces 65-byte (r || s || v) signatures over 32-byte digests, with
// v normalized to 27/28. Signing may cross a trust boundary (a wallet
// confirmation), so it takes a context and must honor cancellation.
type Signer interface {
	Address() common.Address
	SignDigest(ctx context.Context, digest common.Hash) ([]byte, error)
}

// LocalSigner signs with an in-process secp256k1 private key.
type LocalSigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewLocalSigner creates a signer from a hex-encoded private key, with or
// without a 0x prefix.
func NewLocalSigner(privateKeyHex string) (*LocalSigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, business.NewValidationError("privateKey", "not a valid secp256k1 key")
	}
	return &LocalSigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Address returns the address corresponding to the signing key
func (s *LocalSigner) Address() common.Address {
	return s.address
}

// SignDigest signs the digest directly. The caller decides whether the digest
// is a personal-message hash or an EIP-712 digest.
func (s *LocalSigner) SignDigest(ctx context.Context, digest common.Hash) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(digest.Bytes(), s.key)
	if err != nil {
		return nil, err
	}
	// crypto.Sign yields v in {0,1}; the executor expects {27,28}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// PersonalSignDigest wraps a digest in the "\x19Ethereum Signed Message:\n32"
// prefix used by the message-prefixed signing path, matching the convention
// the executor applies before its ecrecover-style check.
func PersonalSignDigest(digest common.Hash) common.Hash {
	return common.BytesToHash(accounts.TextHash(digest.Bytes()))
}

// SplitSignature splits a 65-byte signature into the (v, r, s) components the
// executor's calldata interface expects, normalizing v to 27/28.
func SplitSignature(sig []byte) (v uint8, r, s common.Hash, err error) {
	if len(sig) != crypto.SignatureLength {
		err = business.NewValidationError("signature", "must be 65 bytes")
		return
	}
	copy(r[:], sig[:32])
	copy(s[:], sig[32:64])
	v = sig[64]
	if v < 27 {
		v += 27
	}
	if v != 27 && v != 28 {
		err = business.NewValidationError("signature", "recovery id must be 27 or 28")
		return
	}
	return v, r, s, nil
}

// RecoverAddress recovers the signer address from a digest and a 65-byte
// signature with v in either {0,1} or {27,28}.
func RecoverAddress(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, business.NewValidationError("signature", "must be 65 bytes")
	}
	normalized := make([]byte, crypto.SignatureLength)
	copy(normalized, sig)
	if normalized[crypto.RecoveryIDOffset] >= 27 {
		normalized[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(digest.Bytes(), normalized)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}
