package services_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fanpay/fanpay-api/internal/services"
	"github.com/fanpay/fanpay-api/internal/signing"
	"github.com/fanpay/fanpay-api/internal/types/business"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSignedPair runs the issuer and builder with real keys and returns a
// consistent order/transfer pair ready for assembly.
func buildSignedPair(t *testing.T) (business.OrderAuthorization, *business.SignedTransferAuthorization) {
	t.Helper()
	ctx := context.Background()

	serviceSigner, err := signing.NewLocalSigner(serviceKeyHex)
	require.NoError(t, err)
	buyerSigner, err := signing.NewLocalSigner(buyerKeyHex)
	require.NoError(t, err)

	orders := services.NewOrderAuthorizationService(serviceSigner)
	order, err := orders.IssueOrderAuthorization(ctx, services.IssueOrderParams{
		OrderID: big.NewInt(54321),
		Buyer:   buyerAddressHex,
		ClubID:  big.NewInt(1),
		Amount:  tokens(30),
		Chain:   testChain,
	})
	require.NoError(t, err)

	transfers := newTransferService(nil)
	signed, err := transfers.BuildTransferAuthorization(ctx, buyerSigner, services.BuildTransferParams{
		ClubID:   big.NewInt(1),
		From:     buyerAddressHex,
		To:       merchantAddressHex,
		Amount:   tokens(30),
		Chain:    testChain,
		Nonce:    big.NewInt(7),
		Deadline: time.Now().Unix() + 3600,
	})
	require.NoError(t, err)

	return *order, signed
}

func TestBundleService_AssemblesConsistentPair(t *testing.T) {
	order, signed := buildSignedPair(t)
	service := services.NewBundleService()

	bundle, err := service.Assemble(order, signed.Authorization, signed.V, signed.R, signed.S)
	require.NoError(t, err)

	settle := bundle.SettleParams()
	assert.Equal(t, "54321", settle.OrderID)
	assert.Equal(t, common.HexToAddress(buyerAddressHex).Hex(), settle.Buyer)
	assert.Equal(t, "1", settle.ClubID)
	assert.Equal(t, tokens(30).String(), settle.Amount)
	assert.Equal(t, settle.TransferDeadline, settle.ExecutorDeadline)
	assert.Equal(t, common.HexToAddress(buyerAddressHex).Hex(), settle.TransferFrom)
	assert.Equal(t, common.HexToAddress(merchantAddressHex).Hex(), settle.TransferTo)
	assert.Equal(t, "7", settle.TransferNonce)
	assert.Contains(t, []uint8{27, 28}, settle.V)
	assert.Len(t, settle.OrderSignature, 2+130)
}

func TestBundleService_RejectsMismatches(t *testing.T) {
	service := services.NewBundleService()

	tests := []struct {
		name      string
		mutate    func(order *business.OrderAuthorization, transfer *business.TransferAuthorization)
		wantField string
	}{
		{
			name: "buyer differs from payer",
			mutate: func(order *business.OrderAuthorization, transfer *business.TransferAuthorization) {
				transfer.From = common.HexToAddress("0x9999999999999999999999999999999999999999")
			},
			wantField: "buyer/from",
		},
		{
			name: "club differs",
			mutate: func(order *business.OrderAuthorization, transfer *business.TransferAuthorization) {
				transfer.ClubID = big.NewInt(2)
			},
			wantField: "clubId",
		},
		{
			name: "amounts disagree",
			mutate: func(order *business.OrderAuthorization, transfer *business.TransferAuthorization) {
				transfer.Amount = tokens(31)
			},
			wantField: "amount",
		},
		{
			name: "buyer checked before club",
			mutate: func(order *business.OrderAuthorization, transfer *business.TransferAuthorization) {
				transfer.From = common.HexToAddress("0x9999999999999999999999999999999999999999")
				transfer.ClubID = big.NewInt(2)
			},
			wantField: "buyer/from",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, signed := buildSignedPair(t)
			transfer := signed.Authorization
			tt.mutate(&order, &transfer)

			_, err := service.Assemble(order, transfer, signed.V, signed.R, signed.S)
			var mismatchErr *business.MismatchError
			require.True(t, errors.As(err, &mismatchErr))
			assert.Equal(t, tt.wantField, mismatchErr.Field)
		})
	}
}

func TestBundleService_RejectsMalformedSignatureParts(t *testing.T) {
	order, signed := buildSignedPair(t)
	service := services.NewBundleService()

	t.Run("truncated order signature", func(t *testing.T) {
		short := order
		short.Signature = order.Signature[:64]
		_, err := service.Assemble(short, signed.Authorization, signed.V, signed.R, signed.S)
		var validationErr *business.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "orderSignature", validationErr.Field)
	})

	t.Run("invalid recovery id", func(t *testing.T) {
		_, err := service.Assemble(order, signed.Authorization, 26, signed.R, signed.S)
		var validationErr *business.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "v", validationErr.Field)
	})
}
