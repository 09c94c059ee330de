package http

import (
	"errors"
	"net/http"

	"storefront-orders/internal/domain"

	"github.com/gin-gonic/gin"
)

// writeError maps the error class to a status code and a response body.
// Server-side failures are not echoed to the client.
func writeError(c *gin.Context, err error) {
	var (
		verr *domain.ValidationError
		rerr *domain.ReferenceError
		terr *domain.TransitionError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: domain.ErrInvalidInput.Error(), Fields: verr.Fields})
	case errors.As(err, &rerr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: domain.ErrReferenceNotFound.Error(), Missing: rerr.Missing})
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: domain.ErrOrderNotFound.Error()})
	case errors.As(err, &terr):
		c.JSON(http.StatusConflict, ErrorResponse{Error: terr.Error(), Concurrent: terr.Concurrent})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
