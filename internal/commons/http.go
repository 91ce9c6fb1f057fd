package commons

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "dokon/internal/errors"
)

type ErrorResponse struct {
	TraceID   string                       `json:"traceId"`
	Status    int                          `json:"status"`
	Code      string                       `json:"code"`
	Message   string                       `json:"message"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

func NewTraceID() string {
	return uuid.New().String()
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func WriteErrorResponse(w http.ResponseWriter, traceID string, status int, code, message string, details []apperrors.ValidationDetail, logger *zap.Logger) {
	WriteJSON(w, status, ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}, logger)
}

// WriteError maps a typed application error to its HTTP response. Anything
// unrecognised is logged and reported as a 500 without leaking the cause.
func WriteError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		WriteErrorResponse(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message, ve.Details, logger)
		return
	}

	if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		WriteErrorResponse(w, traceID, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK", ise.Error(), []apperrors.ValidationDetail{
			{Field: "quantity", Message: "only " + ise.Available.String() + " in stock"},
		}, logger)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		WriteErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), nil, logger)
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		WriteErrorResponse(w, traceID, http.StatusConflict, "CONFLICT", err.Error(), nil, logger)
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		WriteErrorResponse(w, traceID, http.StatusConflict, "DEADLOCK", err.Error(), nil, logger)
		return
	}

	if _, ok := apperrors.IsUnauthorizedError(err); ok {
		WriteErrorResponse(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), nil, logger)
		return
	}

	if _, ok := apperrors.IsForbiddenError(err); ok {
		WriteErrorResponse(w, traceID, http.StatusForbidden, "FORBIDDEN", err.Error(), nil, logger)
		return
	}

	logger.Error("unexpected error", zap.String("traceId", traceID), zap.Error(err))
	WriteErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil, logger)
}
