package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleManager  Role = "manager"
)

func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleManager
}

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

func (u *User) IsManager() bool {
	return u.Role == RoleManager
}
