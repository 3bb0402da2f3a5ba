package handlers

import (
	"net/http"

	"github.com/fanpay/fanpay-api/internal/types/api/responses"
	"github.com/gin-gonic/gin"
)

// NonceHandler handles ledger nonce queries
type NonceHandler struct {
	common *CommonServices
}

// NewNonceHandler creates a new NonceHandler instance
func NewNonceHandler(common *CommonServices) *NonceHandler {
	return &NonceHandler{common: common}
}

// GetNonce godoc
// @Summary      Get the current authorization nonce
// @Description  Reads the ledger's current nonce for an address. The value is
// @Description  never cached; fetch it immediately before signing a transfer
// @Description  authorization and never reuse it across two authorizations.
// @Tags         nonce
// @Produce      json
// @Param        address  query     string  true  "Payer address" example("0x123...")
// @Success      200  {object}  responses.NonceResponse
// @Failure      400  {object}  ErrorResponse  "Invalid address format"
// @Failure      500  {object}  ErrorResponse  "Ledger unreachable"
// @Router       /nonce [get]
func (h *NonceHandler) GetNonce(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		sendError(c, http.StatusBadRequest, "address query parameter is required", nil)
		return
	}

	nonce, err := h.common.nonces.CurrentNonce(c.Request.Context(), address)
	if err != nil {
		sendAuthError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, responses.NonceResponse{
		Address: address,
		Nonce:   nonce.String(),
	})
}
