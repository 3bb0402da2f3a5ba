package responses

import "github.com/fanpay/fanpay-api/internal/types/business"

// NonceResponse returns the ledger's current nonce for an address.
type NonceResponse struct {
	Address string `json:"address"`
	Nonce   string `json:"nonce"`
}

// OrderAuthorizationResponse is the issued order authorization. Amount is in
// token base units; the signature is 0x-hex.
type OrderAuthorizationResponse struct {
	Object           string `json:"object"`
	OrderID          string `json:"order_id"`
	Buyer            string `json:"buyer"`
	ClubID           string `json:"club_id"`
	Amount           string `json:"amount"`
	ExecutorContract string `json:"executor_contract"`
	ChainID          string `json:"chain_id"`
	Signature        string `json:"signature"`
	SignerAddress    string `json:"signer_address"`
}

// BundleResponse wraps the assembled bundle in the executor's settle layout.
type BundleResponse struct {
	Object string                `json:"object"`
	Settle business.SettleParams `json:"settle"`
}
