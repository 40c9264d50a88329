package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bankdesk/internal/domain"
	"github.com/josh-kwaku/bankdesk/internal/logging"
	"github.com/josh-kwaku/bankdesk/internal/service"
)

type userService interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, c service.Credentials) (*service.LoginResult, error)
}

type AuthHandler struct {
	users userService
}

func NewAuthHandler(users userService) *AuthHandler {
	return &AuthHandler{users: users}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (r signupRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if r.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "required"})
	}
	if r.Phone == "" {
		errs = append(errs, FieldError{Field: "phone", Message: "required"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "required"})
	} else if len(r.Password) > service.MaxPasswordBytes {
		errs = append(errs, FieldError{Field: "password", Message: "must be at most 72 bytes"})
	}
	return errs
}

type signupResponse struct {
	Msg    string    `json:"msg"`
	UserID uuid.UUID `json:"userId"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("signup failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, signupResponse{Msg: "Signup successful", UserID: user.ID})
}

// loginRequest carries both login shapes; credentials picks one.
type loginRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	BankName string `json:"bankName"`
	Password string `json:"password"`
}

func (r loginRequest) credentials() (service.Credentials, *AppError) {
	switch {
	case r.Email != "":
		return service.CustomerLogin{Email: r.Email, Password: r.Password}, nil
	case r.Name != "" && r.BankName != "":
		return service.ManagerLogin{Name: r.Name, BankName: r.BankName, Password: r.Password}, nil
	default:
		return nil, ErrInvalidLogin
	}
}

type loginResponse struct {
	Msg    string     `json:"msg"`
	UserID uuid.UUID  `json:"userId"`
	Role   string     `json:"role"`
	BankID *uuid.UUID `json:"bankId,omitempty"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	creds, appErr := req.credentials()
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	if req.Password == "" {
		RespondValidationError(w, []FieldError{{Field: "password", Message: "required"}})
		return
	}

	res, err := h.users.Login(r.Context(), creds)
	if err != nil {
		logging.FromContext(r.Context()).Info("login rejected", "error", err)
		RespondDomainError(w, err)
		return
	}

	resp := loginResponse{Msg: "Login successful", UserID: res.User.ID, Role: string(res.User.Role)}
	if res.Bank != nil {
		resp.BankID = &res.Bank.ID
	}
	RespondJSON(w, http.StatusOK, resp)
}
