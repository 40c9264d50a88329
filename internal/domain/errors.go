package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")

	ErrEmailExists         = errors.New("email already exists")
	ErrPhoneExists         = errors.New("phone already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUseManagerLogin     = errors.New("use manager login for this account")
	ErrNotBankManager      = errors.New("not the manager of this bank")
	ErrForbidden           = errors.New("forbidden")
	ErrPasswordTooLong     = errors.New("password exceeds 72 bytes")
	ErrInvalidUser         = errors.New("invalid user")
	ErrBankNotFound        = errors.New("bank not found")
	ErrBankExists          = errors.New("bank already exists")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountNumberTaken  = errors.New("account number already taken")
	ErrTransactionNotFound = errors.New("transaction not found")

	ErrAccountNotApproved     = errors.New("account not found or not approved")
	ErrDestinationNotApproved = errors.New("destination account not found or not approved")
	ErrInvalidAccountNumber   = errors.New("account number must be 12 digits")
	ErrInvalidAmount          = errors.New("amount must be a positive number")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidDecision        = errors.New("decision must be approved or rejected")
	ErrSelfTransfer           = errors.New("cannot transfer to same account")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrBalanceLimit           = errors.New("balance would exceed the maximum")
	ErrAlreadyDecided         = errors.New("transaction already decided")
	ErrVersionConflict        = errors.New("optimistic lock conflict")
)
