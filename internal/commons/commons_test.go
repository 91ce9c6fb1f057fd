package commons

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "dokon/internal/errors"
)

type sampleRequest struct {
	ProductID int64            `json:"productId" validate:"required,gt=0"`
	Quantity  int              `json:"quantity" validate:"required,gte=1,lte=10000"`
	Price     decimal.Decimal  `json:"price" validate:"gte=0"`
	Discount  *decimal.Decimal `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	Ordering  string           `json:"ordering,omitempty" validate:"omitempty,oneof=title -title"`
}

func TestDecodeJSON_Valid(t *testing.T) {
	body := `{"productId": 3, "quantity": 2, "price": "10.50", "discount": 15}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dst sampleRequest
	require.NoError(t, DecodeJSON(req, &dst))

	assert.Equal(t, int64(3), dst.ProductID)
	assert.Equal(t, 2, dst.Quantity)
	assert.True(t, decimal.RequireFromString("10.5").Equal(dst.Price))
	require.NotNil(t, dst.Discount)
	assert.True(t, decimal.NewFromInt(15).Equal(*dst.Discount))
}

func TestDecodeJSON_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"productId":`))

	var dst sampleRequest
	err := DecodeJSON(req, &dst)

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "body", ve.Details[0].Field)
}

func TestDecodeJSON_UnknownField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"productId": 1, "quantity": 1, "colour": "red"}`))

	var dst sampleRequest
	_, ok := apperrors.IsValidationError(DecodeJSON(req, &dst))
	assert.True(t, ok)
}

func TestValidate_FieldDetails(t *testing.T) {
	negative := decimal.NewFromInt(-1)
	err := Validate(&sampleRequest{
		ProductID: 0,
		Quantity:  20000,
		Price:     decimal.NewFromInt(-5),
		Discount:  &negative,
		Ordering:  "price",
	})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)

	byField := map[string]string{}
	for _, d := range ve.Details {
		byField[d.Field] = d.Message
	}

	assert.Equal(t, "productId is required", byField["productId"])
	assert.Equal(t, "quantity must be at most 10000", byField["quantity"])
	assert.Equal(t, "price must be at least 0", byField["price"])
	assert.Equal(t, "discount must be at least 0", byField["discount"])
	assert.Equal(t, "ordering must be one of [title -title]", byField["ordering"])
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperrors.NewValidationError("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"stock", apperrors.NewInsufficientStockError(1, 5, decimal.NewFromInt(2)), http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"wrapped stock", fmt.Errorf("sale: %w", apperrors.NewInsufficientStockError(1, 5, decimal.Zero)), http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"not found", apperrors.NewNotFoundError("missing"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", apperrors.NewConflictError("dup"), http.StatusConflict, "CONFLICT"},
		{"deadlock", apperrors.NewDeadlockError("retries"), http.StatusConflict, "DEADLOCK"},
		{"unauthorized", apperrors.NewUnauthorizedError("token"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", apperrors.NewForbiddenError("role"), http.StatusForbidden, "FORBIDDEN"},
		{"unknown", errors.New("db down"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, "trace-1", tt.err, zap.NewNop())

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, "trace-1", resp.TraceID)
			assert.Equal(t, tt.status, resp.Status)
		})
	}
}

func TestWriteError_InternalHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, "trace-2", errors.New("dial tcp 10.0.0.3:3306: refused"), zap.NewNop())

	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
}
