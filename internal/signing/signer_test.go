package signing_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fanpay/fanpay-api/internal/signing"
	"github.com/fanpay/fanpay-api/internal/types/business"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known development keys (hardhat defaults); never funded on a real chain.
const (
	serviceKeyHex = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	buyerKeyHex   = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
)

func TestNewLocalSigner(t *testing.T) {
	signer, err := signing.NewLocalSigner(serviceKeyHex)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), signer.Address())

	// prefix is optional
	unprefixed, err := signing.NewLocalSigner(serviceKeyHex[2:])
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), unprefixed.Address())

	_, err = signing.NewLocalSigner("not-a-key")
	var validationErr *business.ValidationError
	require.True(t, errors.As(err, &validationErr))
}

func TestSignDigest_PrefixedMessageRoundTrip(t *testing.T) {
	signer, err := signing.NewLocalSigner(serviceKeyHex)
	require.NoError(t, err)

	digest, err := signing.OrderMessageHash(big.NewInt(54321), testBuyer, big.NewInt(1), tokens(30), testExecutor, big.NewInt(88882))
	require.NoError(t, err)

	prefixed := signing.PersonalSignDigest(digest)
	assert.NotEqual(t, digest, prefixed)

	sig, err := signer.SignDigest(context.Background(), prefixed)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	recovered, err := signing.RecoverAddress(prefixed, sig)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), recovered)
}

func TestSignDigest_TypedDataRoundTrip(t *testing.T) {
	signer, err := signing.NewLocalSigner(buyerKeyHex)
	require.NoError(t, err)

	auth := business.TransferAuthorization{
		ClubID:   big.NewInt(1),
		From:     signer.Address(),
		To:       common.HexToAddress("0x5555555555555555555555555555555555555555"),
		Amount:   tokens(30),
		Nonce:    big.NewInt(7),
		Deadline: big.NewInt(1900000000),
	}
	digest, err := signing.TransferStructHash("FanPay Checkout", "1", testChain, auth)
	require.NoError(t, err)

	sig, err := signer.SignDigest(context.Background(), digest)
	require.NoError(t, err)

	recovered, err := signing.RecoverAddress(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), recovered)
}

func TestSignDigest_HonorsCancellation(t *testing.T) {
	signer, err := signing.NewLocalSigner(serviceKeyHex)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = signer.SignDigest(ctx, common.Hash{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitSignature(t *testing.T) {
	signer, err := signing.NewLocalSigner(buyerKeyHex)
	require.NoError(t, err)

	digest := signing.PersonalSignDigest(common.HexToHash("0xdeadbeef00000000000000000000000000000000000000000000000000000000"))
	sig, err := signer.SignDigest(context.Background(), digest)
	require.NoError(t, err)

	v, r, s, err := signing.SplitSignature(sig)
	require.NoError(t, err)
	assert.Contains(t, []uint8{27, 28}, v)
	assert.Equal(t, common.BytesToHash(sig[:32]), r)
	assert.Equal(t, common.BytesToHash(sig[32:64]), s)

	// raw recovery ids are normalized to 27/28
	raw := make([]byte, 65)
	copy(raw, sig)
	raw[64] -= 27
	v2, _, _, err := signing.SplitSignature(raw)
	require.NoError(t, err)
	assert.Equal(t, v, v2)

	_, _, _, err = signing.SplitSignature(sig[:64])
	var validationErr *business.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "signature", validationErr.Field)
}
