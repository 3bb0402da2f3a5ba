package handlers

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fanpay/fanpay-api/internal/constants"
	"github.com/fanpay/fanpay-api/internal/helpers"
	"github.com/fanpay/fanpay-api/internal/services"
	"github.com/fanpay/fanpay-api/internal/types/api/requests"
	"github.com/fanpay/fanpay-api/internal/types/api/responses"
	"github.com/fanpay/fanpay-api/internal/types/business"
	"github.com/gin-gonic/gin"
)

// CheckoutHandler handles order authorization and bundle assembly
type CheckoutHandler struct {
	common *CommonServices
}

// NewCheckoutHandler creates a new CheckoutHandler instance
func NewCheckoutHandler(common *CommonServices) *CheckoutHandler {
	return &CheckoutHandler{common: common}
}

// AuthorizeOrder godoc
// @Summary      Issue an order authorization
// @Description  Signs the commercial terms of a purchase with the service key.
// @Description  The amount is a decimal token amount and is converted to base
// @Description  units here, the single normalization point.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request  body      requests.AuthorizeOrderRequest  true  "Order terms"
// @Success      200  {object}  responses.OrderAuthorizationResponse
// @Failure      400  {object}  ErrorResponse  "Malformed input"
// @Failure      503  {object}  ErrorResponse  "Service key unavailable"
// @Router       /orders/authorize [post]
func (h *CheckoutHandler) AuthorizeOrder(c *gin.Context) {
	var req requests.AuthorizeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	orderID, err := helpers.ParseUint256("order_id", req.OrderID)
	if err != nil {
		sendAuthError(c, err)
		return
	}
	clubID, err := helpers.ParseUint256("club_id", req.ClubID)
	if err != nil {
		sendAuthError(c, err)
		return
	}
	amount, err := helpers.ParseTokenAmount(req.Amount, constants.FanTokenDecimals)
	if err != nil {
		sendAuthError(c, err)
		return
	}

	auth, err := h.common.orders.IssueOrderAuthorization(c.Request.Context(), services.IssueOrderParams{
		OrderID: orderID,
		Buyer:   req.Buyer,
		ClubID:  clubID,
		Amount:  amount,
		Chain:   h.common.chain,
	})
	if err != nil {
		sendAuthError(c, err)
		return
	}

	signerAddress, err := h.common.orders.SignerAddress()
	if err != nil {
		sendAuthError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, responses.OrderAuthorizationResponse{
		Object:           "order_authorization",
		OrderID:          auth.OrderID.String(),
		Buyer:            auth.Buyer.Hex(),
		ClubID:           auth.ClubID.String(),
		Amount:           auth.Amount.String(),
		ExecutorContract: auth.ExecutorContract.Hex(),
		ChainID:          auth.ChainID.String(),
		Signature:        hexutil.Encode(auth.Signature),
		SignerAddress:    signerAddress.Hex(),
	})
}

// AssembleBundle godoc
// @Summary      Assemble an authorization bundle
// @Description  Merges an issued order authorization with a wallet-signed
// @Description  transfer authorization into the executor's settle layout.
// @Description  Rejects inconsistent pairs with the first mismatched field.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request  body      requests.AssembleBundleRequest  true  "Signed authorizations"
// @Success      200  {object}  responses.BundleResponse
// @Failure      400  {object}  ErrorResponse  "Malformed input"
// @Failure      422  {object}  ErrorResponse  "Authorizations disagree"
// @Router       /orders/assemble [post]
func (h *CheckoutHandler) AssembleBundle(c *gin.Context) {
	var req requests.AssembleBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	order, err := parseOrderPayload(req.Order)
	if err != nil {
		sendAuthError(c, err)
		return
	}
	transfer, err := parseTransferPayload(req.Transfer)
	if err != nil {
		sendAuthError(c, err)
		return
	}
	r, err := parseHash("r", req.R)
	if err != nil {
		sendAuthError(c, err)
		return
	}
	s, err := parseHash("s", req.S)
	if err != nil {
		sendAuthError(c, err)
		return
	}

	bundle, err := h.common.bundles.Assemble(order, transfer, req.V, r, s)
	if err != nil {
		sendAuthError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, responses.BundleResponse{
		Object: "authorization_bundle",
		Settle: bundle.SettleParams(),
	})
}

func parseOrderPayload(p requests.OrderAuthorizationPayload) (business.OrderAuthorization, error) {
	var order business.OrderAuthorization

	if !helpers.IsAddressValid(p.Buyer) {
		return order, business.NewValidationError("order.buyer", "not a well-formed address")
	}
	if !helpers.IsAddressValid(p.ExecutorContract) {
		return order, business.NewValidationError("order.executor_contract", "not a well-formed address")
	}

	orderID, err := helpers.ParseUint256("order.order_id", p.OrderID)
	if err != nil {
		return order, err
	}
	clubID, err := helpers.ParseUint256("order.club_id", p.ClubID)
	if err != nil {
		return order, err
	}
	amount, err := helpers.ParseUint256("order.amount", p.Amount)
	if err != nil {
		return order, err
	}
	chainID, err := helpers.ParseUint256("order.chain_id", p.ChainID)
	if err != nil {
		return order, err
	}
	signature, err := hexutil.Decode(p.Signature)
	if err != nil {
		return order, business.NewValidationError("order.signature", "not valid 0x-hex")
	}

	return business.OrderAuthorization{
		OrderID:          orderID,
		Buyer:            common.HexToAddress(p.Buyer),
		ClubID:           clubID,
		Amount:           amount,
		ExecutorContract: common.HexToAddress(p.ExecutorContract),
		ChainID:          chainID,
		Signature:        signature,
	}, nil
}

func parseTransferPayload(p requests.TransferAuthorizationPayload) (business.TransferAuthorization, error) {
	var transfer business.TransferAuthorization

	if !helpers.IsAddressValid(p.From) {
		return transfer, business.NewValidationError("transfer.from", "not a well-formed address")
	}
	if !helpers.IsAddressValid(p.To) {
		return transfer, business.NewValidationError("transfer.to", "not a well-formed address")
	}

	clubID, err := helpers.ParseUint256("transfer.club_id", p.ClubID)
	if err != nil {
		return transfer, err
	}
	amount, err := helpers.ParseUint256("transfer.amount", p.Amount)
	if err != nil {
		return transfer, err
	}
	nonce, err := helpers.ParseUint256("transfer.nonce", p.Nonce)
	if err != nil {
		return transfer, err
	}
	deadline, err := helpers.ParseUint256("transfer.deadline", p.Deadline)
	if err != nil {
		return transfer, err
	}

	return business.TransferAuthorization{
		ClubID:   clubID,
		From:     common.HexToAddress(p.From),
		To:       common.HexToAddress(p.To),
		Amount:   amount,
		Nonce:    nonce,
		Deadline: deadline,
	}, nil
}

func parseHash(field, value string) (common.Hash, error) {
	decoded, err := hexutil.Decode(value)
	if err != nil || len(decoded) != common.HashLength {
		return common.Hash{}, business.NewValidationError(field, "must be a 32-byte 0x-hex value")
	}
	return common.BytesToHash(decoded), nil
}
