package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bankdesk/internal/domain"
	"github.com/josh-kwaku/bankdesk/internal/logging"
)

type dashboardService interface {
	CustomerDashboard(ctx context.Context, userID uuid.UUID) ([]domain.AccountView, error)
	CustomerTransactions(ctx context.Context, userID uuid.UUID) ([]domain.TransactionView, error)
	ManagerDashboard(ctx context.Context, managerID uuid.UUID) (*domain.ManagerDashboard, error)
}

type DashboardHandler struct {
	dashboards dashboardService
}

func NewDashboardHandler(dashboards dashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

type customerDashboardResponse struct {
	Accounts []accountDTO `json:"accounts"`
}

func (h *DashboardHandler) Customer(w http.ResponseWriter, r *http.Request) {
	userID, fields := pathID(r, "userId")
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	views, err := h.dashboards.CustomerDashboard(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to load customer dashboard", "user_id", userID, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, customerDashboardResponse{Accounts: toAccountDTOs(views)})
}

type customerTransactionsResponse struct {
	Transactions []transactionDTO `json:"transactions"`
}

func (h *DashboardHandler) CustomerTransactions(w http.ResponseWriter, r *http.Request) {
	userID, fields := pathID(r, "userId")
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	views, err := h.dashboards.CustomerTransactions(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to load customer transactions", "user_id", userID, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, customerTransactionsResponse{Transactions: toTransactionDTOs(views)})
}

type managerDashboardResponse struct {
	Bank                bankRefDTO       `json:"bank"`
	PendingAccounts     []accountDTO     `json:"pendingAccounts"`
	PendingTransactions []transactionDTO `json:"pendingTransactions"`
	AllAccounts         []accountDTO     `json:"allAccounts"`
	AllTransactions     []transactionDTO `json:"allTransactions"`
}

func (h *DashboardHandler) Manager(w http.ResponseWriter, r *http.Request) {
	managerID, fields := pathID(r, "managerId")
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	d, err := h.dashboards.ManagerDashboard(r.Context(), managerID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("failed to load manager dashboard", "manager_id", managerID, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, managerDashboardResponse{
		Bank:                bankRefDTO{ID: d.Bank.ID, Name: d.Bank.Name},
		PendingAccounts:     toAccountDTOs(d.PendingAccounts),
		PendingTransactions: toTransactionDTOs(d.PendingTransactions),
		AllAccounts:         toAccountDTOs(d.AllAccounts),
		AllTransactions:     toTransactionDTOs(d.AllTransactions),
	})
}
