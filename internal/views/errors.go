package views

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"evently/internal/api"
	"evently/internal/payments"
	"evently/internal/shared/utils/response"
	"evently/internal/shared/validation"
)

// respondError maps a client error to the shell's response
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, verr.Fields)
		return
	}

	switch {
	case errors.Is(err, payments.ErrPaymentCancelled):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
		return
	case errors.Is(err, payments.ErrGatewayUnavailable):
		response.RespondJSON(c, "error", http.StatusBadGateway, err.Error(), nil, nil)
		return
	}

	if status := api.StatusOf(err); status > 0 {
		var apiErr *api.APIError
		var details interface{}
		if errors.As(err, &apiErr) && len(apiErr.Details) > 0 {
			details = apiErr.Details
		}
		response.RespondJSON(c, "error", status, err.Error(), nil, details)
		return
	}
	if api.IsTransport(err) {
		response.RespondJSON(c, "error", http.StatusBadGateway, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
}
