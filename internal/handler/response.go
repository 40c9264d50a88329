package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/josh-kwaku/bankdesk/internal/domain"
)

type APIError struct {
	Msg     string `json:"msg"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type msgResponse struct {
	Msg string `json:"msg"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIError{
		Msg:     appErr.Message,
		Code:    appErr.Code,
		Details: details,
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

// domainErrors is checked in order; more specific sentinels come first.
var domainErrors = []struct {
	err    error
	appErr *AppError
}{
	{domain.ErrEmailExists, ErrEmailExists},
	{domain.ErrPhoneExists, ErrPhoneExists},
	{domain.ErrInvalidCredentials, ErrInvalidCredentials},
	{domain.ErrUseManagerLogin, ErrUseManagerLogin},
	{domain.ErrPasswordTooLong, ErrPasswordTooLong},
	{domain.ErrInvalidUser, ErrInvalidUser},
	{domain.ErrForbidden, ErrForbidden},
	{domain.ErrNotBankManager, ErrNotBankManager},
	{domain.ErrBankNotFound, ErrBankNotFound},
	{domain.ErrAccountNotFound, ErrAccountNotFound},
	{domain.ErrTransactionNotFound, ErrTransactionNotFound},
	{domain.ErrNotFound, ErrResourceNotFound},
	{domain.ErrAccountNotApproved, ErrAccountNotApproved},
	{domain.ErrDestinationNotApproved, ErrDestinationNotApproved},
	{domain.ErrInvalidAccountNumber, ErrInvalidAccountNumber},
	{domain.ErrInvalidAmount, ErrInvalidAmount},
	{domain.ErrInvalidTransactionType, ErrInvalidTransactionType},
	{domain.ErrInvalidDecision, ErrInvalidDecision},
	{domain.ErrSelfTransfer, ErrSelfTransfer},
	{domain.ErrInsufficientFunds, ErrInsufficientFunds},
	{domain.ErrBalanceLimit, ErrBalanceLimit},
	{domain.ErrAlreadyDecided, ErrAlreadyDecided},
	{domain.ErrVersionConflict, ErrVersionConflict},
	{domain.ErrAccountNumberTaken, ErrAccountNumberTaken},
	{domain.ErrBankExists, ErrBankExists},
	{domain.ErrInvalidRequest, ErrInvalidRequest},
}

func appErrorFor(err error) *AppError {
	for _, m := range domainErrors {
		if errors.Is(err, m.err) {
			return m.appErr
		}
	}
	return nil
}

func RespondDomainError(w http.ResponseWriter, err error) {
	appErr := appErrorFor(err)
	if appErr == nil {
		slog.Error("unhandled domain error", "error", err)
		appErr = ErrInternalError
	}
	RespondAppError(w, appErr, nil)
}
