package handler

import (
	"errors"
	"net/http"

	"ordermgmt/internal/domain/model"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPError pairs an error kind with the status and message sent to clients.
type HTTPError struct {
	Kind    error
	Status  int
	Message string
}

var httpErrors = []HTTPError{
	{model.ErrInvalidQuantity, http.StatusBadRequest, "invalid quantity"},
	{model.ErrInvalidSession, http.StatusUnauthorized, "unauthorized"},
	{model.ErrOrderNotFound, http.StatusNotFound, "order not found"},
	{model.ErrLineNotFound, http.StatusNotFound, "line not found"},
	{model.ErrInsufficientStock, http.StatusConflict, "insufficient stock"},
	{model.ErrUnknownProduct, http.StatusUnprocessableEntity, "unknown product"},
	{model.ErrEmptyCart, http.StatusUnprocessableEntity, "cart is empty"},
}

// AsHTTPError maps err onto the first matching kind. Store failures and
// anything unrecognised are not mapped.
func AsHTTPError(err error) (HTTPError, bool) {
	for _, he := range httpErrors {
		if errors.Is(err, he.Kind) {
			return he, true
		}
	}
	return HTTPError{}, false
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// LineRequest names a product by id or by name.
type LineRequest struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
}

func (r LineRequest) ref() model.ProductRef {
	return model.ProductRef{ID: r.ProductID, Name: r.ProductName}
}
