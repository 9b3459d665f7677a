package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/acesshop/internal/domain/model"
)

const productColumns = `id, name, slug, description, price, stock, is_active, created_at`

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock, &p.IsActive, &p.CreatedAt)
	return p, err
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) ListActive(ctx context.Context) ([]model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE is_active ORDER BY created_at DESC, id DESC`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE slug=$1 AND is_active`
	p, err := scanProduct(r.storage.pool.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

// GetActiveByIDs loads the requested products in one query. Missing or
// inactive ids are simply absent from the result.
func (r *productRepository) GetActiveByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) AND is_active ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}
