package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
)

var productCols = []string{"id", "name", "slug", "description", "price", "stock", "is_active", "created_at"}

func TestProductRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{storage: storage}
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("FROM products WHERE is_active ORDER BY created_at DESC").WillReturnRows(
		pgxmockv3.NewRows(productCols).
			AddRow(int64(7), "Club Hoodie", "club-hoodie", "warm", decimal.RequireFromString("50.00"), 10, true, now).
			AddRow(int64(3), "Sticker", "sticker", "", decimal.RequireFromString("2.50"), 0, true, now),
	)
	list, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].ID != 7 || !list[0].Price.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected products: %+v", list)
	}

	mock.ExpectQuery("FROM products WHERE is_active").WillReturnError(errors.New("boom"))
	if _, err := repo.ListActive(ctx); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("FROM products WHERE slug=").WithArgs("club-hoodie").WillReturnRows(
		pgxmockv3.NewRows(productCols).
			AddRow(int64(7), "Club Hoodie", "club-hoodie", "warm", decimal.RequireFromString("50.00"), 10, true, now),
	)
	p, err := repo.GetBySlug(ctx, "club-hoodie")
	if err != nil || p.Stock != 10 {
		t.Fatalf("unexpected product %+v err=%v", p, err)
	}

	mock.ExpectQuery("FROM products WHERE slug=").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetBySlug(ctx, "missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("FROM products WHERE id = ANY").WithArgs([]int64{3, 7}).WillReturnRows(
		pgxmockv3.NewRows(productCols).
			AddRow(int64(7), "Club Hoodie", "club-hoodie", "warm", decimal.RequireFromString("50.00"), 10, true, now),
	)
	found, err := repo.GetActiveByIDs(ctx, []int64{3, 7})
	if err != nil || len(found) != 1 || found[0].ID != 7 {
		t.Fatalf("unexpected products %+v err=%v", found, err)
	}

	if found, err := repo.GetActiveByIDs(ctx, nil); err != nil || found != nil {
		t.Fatalf("expected no query for empty ids, got %v %v", found, err)
	}

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(int64(12)))
	if n, err := repo.Count(ctx); err != nil || n != 12 {
		t.Fatalf("unexpected count %d err=%v", n, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestProductRepositoryRowsError(t *testing.T) {
	storage := &Storage{pool: &rowsErrorPool{rows: &errorRows{err: errors.New("rows err")}}}
	repo := &productRepository{storage: storage}

	if _, err := repo.ListActive(context.Background()); err == nil {
		t.Fatal("expected rows error")
	}
}

func TestCouponRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &couponRepository{storage: storage}
	ctx := context.Background()
	expires := time.Now().Add(24 * time.Hour)

	cols := []string{"id", "code", "discount_percent", "max_uses", "times_used", "expires_at", "is_active", "owner_name", "owner_role", "created_at"}
	mock.ExpectQuery("FROM coupons WHERE code=").WithArgs("ACES10").WillReturnRows(
		pgxmockv3.NewRows(cols).AddRow(int64(1), "ACES10", 10, 5, 2, expires, true, "Ama", "Treasurer", time.Now()),
	)
	c, err := repo.GetByCode(ctx, "ACES10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.DiscountPercent != 10 || c.RemainingUses() != 3 || c.OwnerRole != "Treasurer" {
		t.Fatalf("unexpected coupon %+v", c)
	}

	mock.ExpectQuery("FROM coupons WHERE code=").WithArgs("NOPE").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByCode(ctx, "NOPE"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestCouponCounterGuards(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	ctx := context.Background()

	mock.ExpectExec("SET times_used = times_used \\+ 1 WHERE id=\\$1 AND times_used < max_uses").
		WithArgs(int64(1)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if ok, err := claimCoupon(ctx, storage.pool, 1); err != nil || !ok {
		t.Fatalf("expected claim, got %v %v", ok, err)
	}

	mock.ExpectExec("SET times_used = times_used \\+ 1").
		WithArgs(int64(1)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if ok, err := claimCoupon(ctx, storage.pool, 1); err != nil || ok {
		t.Fatalf("expected exhausted coupon to be refused, got %v %v", ok, err)
	}

	mock.ExpectExec("SET times_used = times_used - 1 WHERE id=\\$1 AND times_used > 0").
		WithArgs(int64(2)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if err := releaseCoupon(ctx, storage.pool, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("SET times_used = times_used \\+ 1").WithArgs(int64(3)).WillReturnError(errors.New("boom"))
	if _, err := claimCoupon(ctx, storage.pool, 3); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestStaffRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &staffRepository{storage: storage}
	ctx := context.Background()
	createdAt := time.Now()

	mock.ExpectQuery("INSERT INTO staff").WithArgs("ops@aces.example", "hash").WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(1), createdAt),
	)
	s, err := repo.Create(ctx, "ops@aces.example", "hash")
	if err != nil || s.ID != 1 || s.Email != "ops@aces.example" {
		t.Fatalf("unexpected staff %+v err=%v", s, err)
	}

	mock.ExpectQuery("INSERT INTO staff").WithArgs("ops@aces.example", "hash").WillReturnError(&pgconn.PgError{Code: "23505"})
	if _, err := repo.Create(ctx, "ops@aces.example", "hash"); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists error, got %v", err)
	}

	mock.ExpectQuery("INSERT INTO staff").WithArgs("x", "hash").WillReturnError(errors.New("other"))
	if _, err := repo.Create(ctx, "x", "hash"); err == nil {
		t.Fatal("expected error")
	}

	cols := []string{"id", "email", "password_hash", "created_at"}
	mock.ExpectQuery("FROM staff WHERE email=").WithArgs("ops@aces.example").WillReturnRows(
		pgxmockv3.NewRows(cols).AddRow(int64(1), "ops@aces.example", "hash", createdAt))
	if _, err := repo.GetByEmail(ctx, "ops@aces.example"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectQuery("FROM staff WHERE email=").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByEmail(ctx, "missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("FROM staff WHERE id=").WithArgs(int64(1)).WillReturnRows(
		pgxmockv3.NewRows(cols).AddRow(int64(1), "ops@aces.example", "hash", createdAt))
	if _, err := repo.GetByID(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectQuery("FROM staff WHERE id=").WithArgs(int64(2)).WillReturnError(errors.New("boom"))
	if _, err := repo.GetByID(ctx, 2); err == nil || errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected raw error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
