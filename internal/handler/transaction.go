package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bankdesk/internal/domain"
	"github.com/josh-kwaku/bankdesk/internal/logging"
	"github.com/josh-kwaku/bankdesk/internal/service/workflow"
)

type workflowService interface {
	Submit(ctx context.Context, req workflow.SubmitRequest) (*domain.Transaction, error)
	SubmitTransfer(ctx context.Context, req workflow.TransferRequest) (*workflow.TransferLegs, error)
	Decide(ctx context.Context, req workflow.DecideRequest) (*workflow.DecisionResult, error)
}

type TransactionHandler struct {
	workflow workflowService
}

func NewTransactionHandler(wf workflowService) *TransactionHandler {
	return &TransactionHandler{workflow: wf}
}

// Amounts decode from a JSON number or a decimal string.
type submitRequest struct {
	AccountID string          `json:"accountId"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
}

type submitResponse struct {
	Msg           string    `json:"msg"`
	TransactionID uuid.UUID `json:"transactionId"`
}

func (h *TransactionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	var fields []FieldError
	accountID := parseID(&fields, "accountId", req.AccountID)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	txn, err := h.workflow.Submit(r.Context(), workflow.SubmitRequest{
		AccountID: accountID,
		Type:      domain.TransactionType(req.Type),
		Amount:    req.Amount,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("transaction submit failed", "account_id", accountID, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, submitResponse{
		Msg:           "Transaction submitted for approval",
		TransactionID: txn.ID,
	})
}

type transferRequest struct {
	FromAccountID   string          `json:"fromAccountId"`
	ToAccountNumber string          `json:"toAccountNumber"`
	Amount          decimal.Decimal `json:"amount"`
}

type transferResponse struct {
	Msg          string    `json:"msg"`
	WithdrawalID uuid.UUID `json:"withdrawalId"`
	DepositID    uuid.UUID `json:"depositId"`
}

func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	var fields []FieldError
	fromID := parseID(&fields, "fromAccountId", req.FromAccountID)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	legs, err := h.workflow.SubmitTransfer(r.Context(), workflow.TransferRequest{
		FromAccountID:   fromID,
		ToAccountNumber: req.ToAccountNumber,
		Amount:          req.Amount,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("transfer submit failed", "from_account_id", fromID, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, transferResponse{
		Msg:          "Transfer submitted for approval",
		WithdrawalID: legs.Withdrawal.ID,
		DepositID:    legs.Deposit.ID,
	})
}

func (h *TransactionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	var fields []FieldError
	txnID := parseID(&fields, "transactionId", req.TransactionID)
	managerID := parseID(&fields, "managerId", req.ManagerID)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	decision := domain.Decision(req.Status)
	if _, err := h.workflow.Decide(r.Context(), workflow.DecideRequest{
		TransactionID: txnID,
		ManagerID:     managerID,
		Decision:      decision,
	}); err != nil {
		logging.FromContext(r.Context()).Warn("transaction decision failed", "transaction_id", txnID, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, msgResponse{Msg: "Transaction " + string(decision)})
}
