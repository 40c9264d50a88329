package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrEmailExists        = &AppError{http.StatusBadRequest, "EMAIL_EXISTS", "Email already exists"}
	ErrPhoneExists        = &AppError{http.StatusBadRequest, "PHONE_EXISTS", "Phone already exists"}
	ErrInvalidCredentials = &AppError{http.StatusBadRequest, "INVALID_CREDENTIALS", "Invalid credentials"}
	ErrUseManagerLogin    = &AppError{http.StatusBadRequest, "USE_MANAGER_LOGIN", "Use manager login for this account"}
	ErrInvalidLogin       = &AppError{http.StatusBadRequest, "INVALID_LOGIN", "Provide email for customer or name and bankName for manager"}
	ErrPasswordTooLong    = &AppError{http.StatusBadRequest, "PASSWORD_TOO_LONG", "Password must be at most 72 bytes"}
	ErrInvalidUser        = &AppError{http.StatusBadRequest, "INVALID_USER", "Invalid user"}

	ErrForbidden      = &AppError{http.StatusForbidden, "UNAUTHORIZED", "Unauthorized"}
	ErrNotBankManager = &AppError{http.StatusForbidden, "NOT_BANK_MANAGER", "Not authorized for this bank"}

	ErrBankNotFound        = &AppError{http.StatusNotFound, "BANK_NOT_FOUND", "Bank not found"}
	ErrAccountNotFound     = &AppError{http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"}
	ErrTransactionNotFound = &AppError{http.StatusNotFound, "TRANSACTION_NOT_FOUND", "Transaction not found"}

	ErrAccountNotApproved     = &AppError{http.StatusBadRequest, "ACCOUNT_NOT_APPROVED", "Account not found or not approved"}
	ErrDestinationNotApproved = &AppError{http.StatusBadRequest, "DESTINATION_NOT_APPROVED", "Destination account not found or not approved"}
	ErrInvalidAccountNumber   = &AppError{http.StatusBadRequest, "INVALID_ACCOUNT_NUMBER", "Destination account number must be 12 digits"}
	ErrInvalidAmount          = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be a positive number"}
	ErrInvalidTransactionType = &AppError{http.StatusBadRequest, "INVALID_TRANSACTION_TYPE", "Invalid transaction type"}
	ErrInvalidDecision        = &AppError{http.StatusBadRequest, "INVALID_STATUS", "Status must be approved or rejected"}
	ErrSelfTransfer           = &AppError{http.StatusBadRequest, "SELF_TRANSFER_NOT_ALLOWED", "Cannot transfer to the same account"}
	ErrInsufficientFunds      = &AppError{http.StatusBadRequest, "INSUFFICIENT_FUNDS", "Insufficient funds"}
	ErrBalanceLimit           = &AppError{http.StatusBadRequest, "BALANCE_LIMIT", "Balance would exceed the maximum allowed"}

	ErrAlreadyDecided     = &AppError{http.StatusConflict, "ALREADY_DECIDED", "Transaction has already been decided"}
	ErrVersionConflict    = &AppError{http.StatusConflict, "VERSION_CONFLICT", "Resource was modified concurrently, please retry"}
	ErrAccountNumberTaken = &AppError{http.StatusConflict, "ACCOUNT_NUMBER_TAKEN", "Could not allocate an account number, please retry"}
	ErrBankExists         = &AppError{http.StatusConflict, "BANK_EXISTS", "Bank already exists"}
)
