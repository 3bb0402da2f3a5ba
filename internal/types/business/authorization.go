package business

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ChainContext identifies the chain and executor contract an authorization is
// bound to. Immutable per authorization; a bundle built for one context never
// validates against another.
type ChainContext struct {
	ChainID           *big.Int
	VerifyingContract common.Address
}

// OrderAuthorization is the operator's signed attestation of the commercial
// terms of a purchase. It carries no expiry of its own; the transfer deadline
// bounds the lifetime of the assembled bundle.
type OrderAuthorization struct {
	OrderID          *big.Int
	Buyer            common.Address
	ClubID           *big.Int
	Amount           *big.Int // token base units
	ExecutorContract common.Address
	ChainID          *big.Int
	Signature        []byte // 65-byte ECDSA signature over the prefixed order digest
}

// TransferAuthorization is the buyer's one-time grant letting the executor
// move exactly Amount from From to To. Nonce must be the ledger's current
// value for From at the moment the executor consumes it.
type TransferAuthorization struct {
	ClubID   *big.Int
	From     common.Address
	To       common.Address
	Amount   *big.Int // token base units
	Nonce    *big.Int
	Deadline *big.Int // unix seconds
}

// SignedTransferAuthorization pairs a transfer authorization with its
// signature, pre-split into the (v, r, s) components the executor's calldata
// interface expects.
type SignedTransferAuthorization struct {
	Authorization TransferAuthorization
	V             uint8
	R             common.Hash
	S             common.Hash
}

// AuthorizationBundle is the terminal artifact of the authorization flow:
// both signed authorizations merged into the unit handed to the executor.
// It is a value object consumed exactly once downstream or discarded.
type AuthorizationBundle struct {
	Order    OrderAuthorization
	Transfer TransferAuthorization
	V        uint8
	R        common.Hash
	S        common.Hash
}

// SettleParams is the flat, serializable projection of a bundle in the exact
// field order of the executor's settle entrypoint. Any divergence from that
// layout is a silent incompatibility, so this ordering is a hard contract.
type SettleParams struct {
	OrderID          string `json:"orderId"`
	Buyer            string `json:"buyer"`
	ClubID           string `json:"clubId"`
	Amount           string `json:"amount"`
	ExecutorDeadline string `json:"executorDeadline"`
	OrderSignature   string `json:"orderSignature"`
	TransferClubID   string `json:"transferClubId"`
	TransferFrom     string `json:"transferFrom"`
	TransferTo       string `json:"transferTo"`
	TransferAmount   string `json:"transferAmount"`
	TransferNonce    string `json:"transferNonce"`
	TransferDeadline string `json:"transferDeadline"`
	V                uint8  `json:"v"`
	R                string `json:"r"`
	S                string `json:"s"`
}

// SettleParams flattens the bundle into the executor's calldata layout.
func (b *AuthorizationBundle) SettleParams() SettleParams {
	return SettleParams{
		OrderID:          b.Order.OrderID.String(),
		Buyer:            b.Order.Buyer.Hex(),
		ClubID:           b.Order.ClubID.String(),
		Amount:           b.Order.Amount.String(),
		ExecutorDeadline: b.Transfer.Deadline.String(),
		OrderSignature:   hexutil.Encode(b.Order.Signature),
		TransferClubID:   b.Transfer.ClubID.String(),
		TransferFrom:     b.Transfer.From.Hex(),
		TransferTo:       b.Transfer.To.Hex(),
		TransferAmount:   b.Transfer.Amount.String(),
		TransferNonce:    b.Transfer.Nonce.String(),
		TransferDeadline: b.Transfer.Deadline.String(),
		V:                b.V,
		R:                b.R.Hex(),
		S:                b.S.Hex(),
	}
}
