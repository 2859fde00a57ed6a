package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/brandonreed984/safeguard-deal-sheet/internal/attachment"
	dealDomain "github.com/brandonreed984/safeguard-deal-sheet/internal/domain/deal"
	portfolioDomain "github.com/brandonreed984/safeguard-deal-sheet/internal/domain/portfolio"
	"github.com/brandonreed984/safeguard-deal-sheet/internal/render"
	dealUC "github.com/brandonreed984/safeguard-deal-sheet/internal/usecase/deal"
	portfolioUC "github.com/brandonreed984/safeguard-deal-sheet/internal/usecase/portfolio"
)

func idParam(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// writeError maps domain and usecase errors onto the HTTP status taxonomy.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, dealDomain.ErrNotFound), errors.Is(err, portfolioDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, dealDomain.ErrDuplicateLoanNumber):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, dealUC.ErrInvalidInput),
		errors.Is(err, portfolioUC.ErrInvalidInput),
		errors.Is(err, attachment.ErrMalformedPayload),
		errors.Is(err, attachment.ErrOversizedFile),
		errors.Is(err, render.ErrMissingParties):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logrus.WithError(err).WithField("path", c.Path()).Error("request failed")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
