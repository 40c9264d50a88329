package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bankdesk/internal/domain"
)

// Response shapes keep the `_id` keys and nested references the web client
// reads.

type bankRefDTO struct {
	ID   uuid.UUID `json:"_id"`
	Name string    `json:"name"`
}

type userRefDTO struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
}

type accountDTO struct {
	ID                uuid.UUID  `json:"_id"`
	UserID            userRefDTO `json:"userId"`
	BankID            bankRefDTO `json:"bankId"`
	AccountHolderName string     `json:"accountHolderName"`
	AccountNumber     string     `json:"accountNumber"`
	Balance           string     `json:"balance"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func toAccountDTO(v domain.AccountView) accountDTO {
	return accountDTO{
		ID:                v.ID,
		UserID:            userRefDTO{ID: v.UserID, Name: v.OwnerName, Email: v.OwnerEmail},
		BankID:            bankRefDTO{ID: v.BankID, Name: v.BankName},
		AccountHolderName: v.AccountHolderName,
		AccountNumber:     v.AccountNumber,
		Balance:           formatMoney(v.Balance),
		Status:            string(v.Status),
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}

func toAccountDTOs(views []domain.AccountView) []accountDTO {
	out := make([]accountDTO, 0, len(views))
	for _, v := range views {
		out = append(out, toAccountDTO(v))
	}
	return out
}

type transactionAccountDTO struct {
	ID                uuid.UUID  `json:"_id"`
	AccountNumber     string     `json:"accountNumber"`
	AccountHolderName string     `json:"accountHolderName"`
	BankID            bankRefDTO `json:"bankId"`
	UserID            userRefDTO `json:"userId"`
}

type transactionDTO struct {
	ID         uuid.UUID             `json:"_id"`
	AccountID  transactionAccountDTO `json:"accountId"`
	Type       string                `json:"type"`
	Amount     string                `json:"amount"`
	Status     string                `json:"status"`
	TransferID *uuid.UUID            `json:"transferId,omitempty"`
	DecidedBy  *uuid.UUID            `json:"decidedBy,omitempty"`
	DecidedAt  *time.Time            `json:"decidedAt,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

func toTransactionDTO(v domain.TransactionView) transactionDTO {
	return transactionDTO{
		ID: v.ID,
		AccountID: transactionAccountDTO{
			ID:                v.AccountID,
			AccountNumber:     v.AccountNumber,
			AccountHolderName: v.AccountHolderName,
			BankID:            bankRefDTO{ID: v.BankID, Name: v.BankName},
			UserID:            userRefDTO{ID: v.OwnerID, Name: v.OwnerName},
		},
		Type:       string(v.Type),
		Amount:     formatMoney(v.Amount),
		Status:     string(v.Status),
		TransferID: v.TransferID,
		DecidedBy:  v.DecidedBy,
		DecidedAt:  v.DecidedAt,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

func toTransactionDTOs(views []domain.TransactionView) []transactionDTO {
	out := make([]transactionDTO, 0, len(views))
	for _, v := range views {
		out = append(out, toTransactionDTO(v))
	}
	return out
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyScale)
}

// parseID appends a field error when raw is not a UUID.
func parseID(errs *[]FieldError, field, raw string) uuid.UUID {
	if raw == "" {
		*errs = append(*errs, FieldError{Field: field, Message: "required"})
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		*errs = append(*errs, FieldError{Field: field, Message: "must be a valid id"})
		return uuid.Nil
	}
	return id
}

func pathID(r *http.Request, name string) (uuid.UUID, []FieldError) {
	var errs []FieldError
	id := parseID(&errs, name, r.PathValue(name))
	return id, errs
}
