package handler

import "net/http"

type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	Banks        *BankHandler
	Accounts     *AccountHandler
	Transactions *TransactionHandler
	Dashboards   *DashboardHandler
}

// LegacyPrefix is where the web client historically mounted the API.
const LegacyPrefix = "/api/auth"

// Routes registers the API at the root and again under LegacyPrefix.
func Routes(h Handlers) *http.ServeMux {
	api := http.NewServeMux()
	api.HandleFunc("POST /signup", h.Auth.Signup)
	api.HandleFunc("POST /login", h.Auth.Login)
	api.HandleFunc("GET /banks", h.Banks.List)
	api.HandleFunc("POST /open-account", h.Accounts.Open)
	api.HandleFunc("GET /customer-dashboard/{userId}", h.Dashboards.Customer)
	api.HandleFunc("GET /customer-transactions/{userId}", h.Dashboards.CustomerTransactions)
	api.HandleFunc("POST /transaction", h.Transactions.Submit)
	api.HandleFunc("POST /transfer", h.Transactions.Transfer)
	api.HandleFunc("POST /admin/approve-account", h.Accounts.Approve)
	api.HandleFunc("POST /admin/approve-transaction", h.Transactions.Approve)
	api.HandleFunc("GET /admin-dashboard/{managerId}", h.Dashboards.Manager)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health.Liveness)
	mux.HandleFunc("GET /health/ready", h.Health.Readiness)
	mux.Handle(LegacyPrefix+"/", http.StripPrefix(LegacyPrefix, api))
	mux.Handle("/", api)
	return mux
}
