package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bankdesk/internal/domain"
	"github.com/josh-kwaku/bankdesk/internal/logging"
)

type accountService interface {
	OpenAccount(ctx context.Context, userID, bankID uuid.UUID, holderName string) (*domain.Account, error)
	ApproveAccount(ctx context.Context, accountID, managerID uuid.UUID, decision domain.Decision) (*domain.Account, error)
}

type AccountHandler struct {
	accounts accountService
}

func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type openAccountRequest struct {
	UserID            string `json:"userId"`
	BankID            string `json:"bankId"`
	AccountHolderName string `json:"accountHolderName"`
}

type openAccountResponse struct {
	Msg           string    `json:"msg"`
	AccountID     uuid.UUID `json:"accountId"`
	AccountNumber string    `json:"accountNumber"`
}

func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	var fields []FieldError
	userID := parseID(&fields, "userId", req.UserID)
	bankID := parseID(&fields, "bankId", req.BankID)
	if req.AccountHolderName == "" {
		fields = append(fields, FieldError{Field: "accountHolderName", Message: "required"})
	}
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.accounts.OpenAccount(r.Context(), userID, bankID, req.AccountHolderName)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to open account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, openAccountResponse{
		Msg:           "Account opening request submitted",
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
	})
}

type decisionRequest struct {
	AccountID     string `json:"accountId"`
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	ManagerID     string `json:"managerId"`
}

func (h *AccountHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	var fields []FieldError
	accountID := parseID(&fields, "accountId", req.AccountID)
	managerID := parseID(&fields, "managerId", req.ManagerID)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	decision := domain.Decision(req.Status)
	if _, err := h.accounts.ApproveAccount(r.Context(), accountID, managerID, decision); err != nil {
		logging.FromContext(r.Context()).Warn("account decision failed", "account_id", accountID, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, msgResponse{Msg: "Account " + string(decision)})
}
