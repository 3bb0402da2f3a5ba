package requests

// AuthorizeOrderRequest asks the operator to attest the commercial terms of a
// purchase. Amount is a human-readable decimal token amount ("30", "12.5");
// it is converted to base units exactly once, at this boundary.
type AuthorizeOrderRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Buyer   string `json:"buyer" binding:"required"`
	ClubID  string `json:"club_id" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}

// OrderAuthorizationPayload carries a previously issued order authorization
// back to the server. All uint256 fields are decimal strings, amounts in
// token base units.
type OrderAuthorizationPayload struct {
	OrderID          string `json:"order_id" binding:"required"`
	Buyer            string `json:"buyer" binding:"required"`
	ClubID           string `json:"club_id" binding:"required"`
	Amount           string `json:"amount" binding:"required"`
	ExecutorContract string `json:"executor_contract" binding:"required"`
	ChainID          string `json:"chain_id" binding:"required"`
	Signature        string `json:"signature" binding:"required"` // 0x-hex, 65 bytes
}

// TransferAuthorizationPayload carries the wallet-signed transfer
// authorization. The signature arrives pre-split into (v, r, s).
type TransferAuthorizationPayload struct {
	ClubID   string `json:"club_id" binding:"required"`
	From     string `json:"from" binding:"required"`
	To       string `json:"to" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
	Nonce    string `json:"nonce" binding:"required"`
	Deadline string `json:"deadline" binding:"required"`
}

// AssembleBundleRequest merges the two signed authorizations into a
// ready-to-submit bundle.
type AssembleBundleRequest struct {
	Order    OrderAuthorizationPayload    `json:"order" binding:"required"`
	Transfer TransferAuthorizationPayload `json:"transfer" binding:"required"`
	V        uint8                        `json:"v" binding:"required"`
	R        string                       `json:"r" binding:"required"`
	S        string                       `json:"s" binding:"required"`
}
