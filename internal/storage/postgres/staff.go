package postgres

import (
	"context"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
)

func (r *staffRepository) Create(ctx context.Context, email, passwordHash string) (*model.Staff, error) {
	const query = `INSERT INTO staff (email, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	var s model.Staff
	err := r.storage.pool.QueryRow(ctx, query, email, passwordHash).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	s.Email = email
	s.PasswordHash = passwordHash
	return &s, nil
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	const query = `SELECT id, email, password_hash, created_at FROM staff WHERE email=$1`
	var s model.Staff
	err := r.storage.pool.QueryRow(ctx, query, email).Scan(&s.ID, &s.Email, &s.PasswordHash, &s.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &s, nil
}

func (r *staffRepository) GetByID(ctx context.Context, id int64) (*model.Staff, error) {
	const query = `SELECT id, email, password_hash, created_at FROM staff WHERE id=$1`
	var s model.Staff
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Email, &s.PasswordHash, &s.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &s, nil
}
