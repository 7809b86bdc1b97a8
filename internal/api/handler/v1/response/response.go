// Package response holds the JSON envelope every endpoint renders. Business
// failures come back as 400 with the failure message; unexpected errors are
// logged and come back as 500 with a generic message.
package response

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Base[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Value   T      `json:"value,omitempty"`
}

type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int64 `json:"total_pages"`
}

func NewPaginated[T any](items []T, page, pageSize int, totalItems int64) Paginated[T] {
	totalPages := totalItems / int64(pageSize)
	if totalItems%int64(pageSize) != 0 {
		totalPages++
	}

	return Paginated[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

func RenderOK[T any](ctx *gin.Context, message string, value T) {
	ctx.JSON(http.StatusOK, Base[T]{
		Status:  true,
		Message: message,
		Value:   value,
	})
}

// RenderFailure reports a business rule rejection. The error message is safe
// to show to the client.
func RenderFailure(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, Base[struct{}]{
		Status:  false,
		Message: err.Error(),
	})
}

func RenderUnauthorized(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, Base[struct{}]{
		Status:  false,
		Message: message,
	})
}

// RenderInternalError logs the error with the request ID and hides the detail
// from the client.
func RenderInternalError(ctx *gin.Context, err error) {
	zap.L().Error("internal server error",
		zap.String("request_id", requestid.Get(ctx)),
		zap.Error(err),
	)

	ctx.JSON(http.StatusInternalServerError, Base[struct{}]{
		Status:  false,
		Message: "something went wrong. Please try again later",
	})
}
