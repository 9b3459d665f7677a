package repository

import (
	"context"

	"github.com/polkiloo/acesshop/internal/domain/model"
)

// StaffRepository describes persistence operations for operators.
type StaffRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*model.Staff, error)
	GetByEmail(ctx context.Context, email string) (*model.Staff, error)
	GetByID(ctx context.Context, id int64) (*model.Staff, error)
}
