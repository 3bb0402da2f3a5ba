package signing_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fanpay/fanpay-api/internal/signing"
	"github.com/fanpay/fanpay-api/internal/types/business"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testBuyer    = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	testExecutor = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testChain    = business.ChainContext{
		ChainID:           big.NewInt(88882),
		VerifyingContract: testExecutor,
	}
)

func tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func TestOrderMessageHash_Deterministic(t *testing.T) {
	first, err := signing.OrderMessageHash(big.NewInt(54321), testBuyer, big.NewInt(1), tokens(30), testExecutor, big.NewInt(88882))
	require.NoError(t, err)

	second, err := signing.OrderMessageHash(big.NewInt(54321), testBuyer, big.NewInt(1), tokens(30), testExecutor, big.NewInt(88882))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, common.Hash{}, first)
}

func TestOrderMessageHash_FieldOrderMatters(t *testing.T) {
	// orderId and clubId occupy identical uint256 slots; swapping their
	// values must change the digest
	forward, err := signing.OrderMessageHash(big.NewInt(1), testBuyer, big.NewInt(2), tokens(30), testExecutor, big.NewInt(88882))
	require.NoError(t, err)

	swapped, err := signing.OrderMessageHash(big.NewInt(2), testBuyer, big.NewInt(1), tokens(30), testExecutor, big.NewInt(88882))
	require.NoError(t, err)

	assert.NotEqual(t, forward, swapped)
}

func TestOrderMessageHash_SensitiveToEveryField(t *testing.T) {
	base, err := signing.OrderMessageHash(big.NewInt(54321), testBuyer, big.NewInt(1), tokens(30), testExecutor, big.NewInt(88882))
	require.NoError(t, err)

	tests := []struct {
		name     string
		orderID  *big.Int
		buyer    common.Address
		clubID   *big.Int
		amount   *big.Int
		executor common.Address
		chainID  *big.Int
	}{
		{"different order id", big.NewInt(54322), testBuyer, big.NewInt(1), tokens(30), testExecutor, big.NewInt(88882)},
		{"different buyer", big.NewInt(54321), common.HexToAddress("0x2222222222222222222222222222222222222222"), big.NewInt(1), tokens(30), testExecutor, big.NewInt(88882)},
		{"different club", big.NewInt(54321), testBuyer, big.NewInt(2), tokens(30), testExecutor, big.NewInt(88882)},
		{"different amount", big.NewInt(54321), testBuyer, big.NewInt(1), tokens(31), testExecutor, big.NewInt(88882)},
		{"different executor", big.NewInt(54321), testBuyer, big.NewInt(1), tokens(30), common.HexToAddress("0x3333333333333333333333333333333333333333"), big.NewInt(88882)},
		{"different chain", big.NewInt(54321), testBuyer, big.NewInt(1), tokens(30), testExecutor, big.NewInt(88888)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := signing.OrderMessageHash(tt.orderID, tt.buyer, tt.clubID, tt.amount, tt.executor, tt.chainID)
			require.NoError(t, err)
			assert.NotEqual(t, base, digest)
		})
	}
}

func TestOrderMessageHash_RejectsMalformedIntegers(t *testing.T) {
	overflow := new(big.Int).Lsh(big.NewInt(1), 256)

	tests := []struct {
		name    string
		orderID *big.Int
		amount  *big.Int
		field   string
	}{
		{"nil order id", nil, tokens(30), "orderId"},
		{"negative amount", big.NewInt(54321), big.NewInt(-1), "amount"},
		{"amount overflows uint256", big.NewInt(54321), overflow, "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := signing.OrderMessageHash(tt.orderID, testBuyer, big.NewInt(1), tt.amount, testExecutor, big.NewInt(88882))
			var validationErr *business.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestDomainSeparator_BindsChainAndContract(t *testing.T) {
	base, err := signing.DomainSeparator("FanPay Checkout", "1", testChain)
	require.NoError(t, err)

	again, err := signing.DomainSeparator("FanPay Checkout", "1", testChain)
	require.NoError(t, err)
	assert.Equal(t, base, again)

	otherChain, err := signing.DomainSeparator("FanPay Checkout", "1", business.ChainContext{
		ChainID:           big.NewInt(88888),
		VerifyingContract: testExecutor,
	})
	require.NoError(t, err)
	assert.NotEqual(t, base, otherChain)

	otherContract, err := signing.DomainSeparator("FanPay Checkout", "1", business.ChainContext{
		ChainID:           big.NewInt(88882),
		VerifyingContract: common.HexToAddress("0x4444444444444444444444444444444444444444"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, base, otherContract)

	otherName, err := signing.DomainSeparator("Other Protocol", "1", testChain)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherName)

	otherVersion, err := signing.DomainSeparator("FanPay Checkout", "2", testChain)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherVersion)
}

func TestDomainSeparator_RejectsInvalidContext(t *testing.T) {
	_, err := signing.DomainSeparator("FanPay Checkout", "1", business.ChainContext{
		ChainID:           big.NewInt(0),
		VerifyingContract: testExecutor,
	})
	var validationErr *business.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "chainId", validationErr.Field)

	_, err = signing.DomainSeparator("FanPay Checkout", "1", business.ChainContext{
		ChainID: big.NewInt(88882),
	})
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "verifyingContract", validationErr.Field)
}

func TestTransferStructHash(t *testing.T) {
	auth := business.TransferAuthorization{
		ClubID:   big.NewInt(1),
		From:     testBuyer,
		To:       common.HexToAddress("0x5555555555555555555555555555555555555555"),
		Amount:   tokens(30),
		Nonce:    big.NewInt(7),
		Deadline: big.NewInt(1900000000),
	}

	base, err := signing.TransferStructHash("FanPay Checkout", "1", testChain, auth)
	require.NoError(t, err)

	again, err := signing.TransferStructHash("FanPay Checkout", "1", testChain, auth)
	require.NoError(t, err)
	assert.Equal(t, base, again)

	bumped := auth
	bumped.Nonce = big.NewInt(8)
	withNewNonce, err := signing.TransferStructHash("FanPay Checkout", "1", testChain, bumped)
	require.NoError(t, err)
	assert.NotEqual(t, base, withNewNonce)

	otherChain := business.ChainContext{
		ChainID:           big.NewInt(88888),
		VerifyingContract: testExecutor,
	}
	crossChain, err := signing.TransferStructHash("FanPay Checkout", "1", otherChain, auth)
	require.NoError(t, err)
	assert.NotEqual(t, base, crossChain)
}

func TestTransferStructHash_RejectsMissingFields(t *testing.T) {
	auth := business.TransferAuthorization{
		ClubID:   big.NewInt(1),
		From:     testBuyer,
		To:       testBuyer,
		Amount:   tokens(30),
		Deadline: big.NewInt(1900000000),
	}

	_, err := signing.TransferStructHash("FanPay Checkout", "1", testChain, auth)
	var validationErr *business.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "nonce", validationErr.Field)
}
