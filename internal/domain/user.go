package domain

import (
	"context"
	"time"
)

type User struct {
	ID          int64
	FirstName   string
	LastName    string
	PhoneNumber string
	Email       string
	Password    string // bcrypt hash
	CreatedAt   time.Time
}

type UserRepository interface {
	Create(context.Context, *User) error
	GetByID(context.Context, int64) (User, error)
	GetByEmail(context.Context, string) (User, error)
}
