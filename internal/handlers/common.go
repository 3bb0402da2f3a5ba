package handlers

import (
	"errors"
	"net/http"

	"github.com/fanpay/fanpay-api/internal/logger"
	"github.com/fanpay/fanpay-api/internal/services"
	"github.com/fanpay/fanpay-api/internal/types/business"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommonServices holds common dependencies used across handlers
type CommonServices struct {
	nonces  *services.NonceService
	orders  *services.OrderAuthorizationService
	bundles *services.BundleService
	chain   business.ChainContext
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// NewCommonServices creates a new instance of CommonServices
func NewCommonServices(nonces *services.NonceService, orders *services.OrderAuthorizationService, bundles *services.BundleService, chain business.ChainContext) *CommonServices {
	return &CommonServices{
		nonces:  nonces,
		orders:  orders,
		bundles: bundles,
		chain:   chain,
	}
}

// sendError is a helper function that combines logging and error response
// It logs the error with the given message and sends a JSON error response
func sendError(c *gin.Context, statusCode int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("request_id", c.GetString(RequestIDKey)),
	)
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// sendAuthError maps the authorization error taxonomy to HTTP status codes so
// callers can tell "fix your input" from "ask the signer again" from
// "fundamentally inconsistent order".
func sendAuthError(c *gin.Context, err error) {
	var validationErr *business.ValidationError
	var mismatchErr *business.MismatchError
	var rejectedErr *business.SigningRejectedError
	var unavailableErr *business.SigningUnavailableError

	switch {
	case errors.As(err, &validationErr):
		sendError(c, http.StatusBadRequest, validationErr.Error(), err)
	case errors.As(err, &mismatchErr):
		sendError(c, http.StatusUnprocessableEntity, mismatchErr.Error(), err)
	case errors.As(err, &rejectedErr):
		sendError(c, http.StatusConflict, "signature request was rejected", err)
	case errors.As(err, &unavailableErr):
		sendError(c, http.StatusServiceUnavailable, "signing is currently unavailable", err)
	default:
		sendError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// sendSuccess is a helper function that sends a success response
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}
