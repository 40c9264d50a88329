package handler

import (
	"context"
	"net/http"

	"github.com/josh-kwaku/bankdesk/internal/domain"
	"github.com/josh-kwaku/bankdesk/internal/logging"
)

type bankService interface {
	List(ctx context.Context) ([]domain.Bank, error)
}

type BankHandler struct {
	banks bankService
}

func NewBankHandler(banks bankService) *BankHandler {
	return &BankHandler{banks: banks}
}

func (h *BankHandler) List(w http.ResponseWriter, r *http.Request) {
	banks, err := h.banks.List(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list banks", "error", err)
		RespondDomainError(w, err)
		return
	}

	out := make([]bankRefDTO, 0, len(banks))
	for _, b := range banks {
		out = append(out, bankRefDTO{ID: b.ID, Name: b.Name})
	}
	RespondJSON(w, http.StatusOK, out)
}
