package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/just-nibble/bounty-service/pkg/errcodes"
)

type envelope struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// SuccessResponse writes a JSON success envelope
func SuccessResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(envelope{Status: "success", Data: data})
}

// ErrorResponse writes a JSON error envelope
func ErrorResponse(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(envelope{Status: "error", Message: message})
}

// ErrorFrom maps a platform error to its HTTP status and writes it
func ErrorFrom(w http.ResponseWriter, err error) {
	ErrorResponse(w, StatusOf(err), err.Error())
}

// StatusOf maps the error taxonomy onto HTTP status codes
func StatusOf(err error) int {
	switch {
	case errors.Is(err, errcodes.ErrNoRecordFound):
		return http.StatusNotFound
	case errors.Is(err, errcodes.ErrNotOwner),
		errors.Is(err, errcodes.ErrNotEntrant),
		errors.Is(err, errcodes.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, errcodes.ErrInvalidState),
		errors.Is(err, errcodes.ErrAlreadyWithdrawn),
		errors.Is(err, errcodes.ErrAlreadyRecovered),
		errors.Is(err, errcodes.ErrAlreadyEntered),
		errors.Is(err, errcodes.ErrDuplicateCommit):
		return http.StatusConflict
	case errors.Is(err, errcodes.ErrInsufficientFunds),
		errors.Is(err, errcodes.ErrNothingToWithdraw):
		return http.StatusPaymentRequired
	case errors.Is(err, errcodes.ErrWeightLengthMismatch),
		errors.Is(err, errcodes.ErrEmptyWinnerSet),
		errors.Is(err, errcodes.ErrNotInRound),
		errors.Is(err, errcodes.ErrRoundTooLong),
		errors.Is(err, errcodes.ErrInvalidRound),
		errors.Is(err, errcodes.ErrInvalidValue),
		errors.Is(err, errcodes.ErrAlreadyMember):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
