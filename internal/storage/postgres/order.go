package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
)

const orderSelect = `SELECT o.id, o.full_name, o.email, o.phone, o.address, o.total_amount, o.discount_amount,
       o.coupon_id, c.code, o.status, o.payment_reference, o.verification_code,
       o.created_at, o.completed_at, o.delivered_at
FROM orders o LEFT JOIN coupons c ON c.id = o.coupon_id `

const itemSelect = `SELECT id, order_id, product_id, product_name, price, quantity, selected_color, selected_size
FROM order_items `

var itemColumns = []string{"order_id", "product_id", "product_name", "price", "quantity", "selected_color", "selected_size"}

func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.FullName, &o.Email, &o.Phone, &o.Address, &o.TotalAmount, &o.DiscountAmount,
		&o.CouponID, &o.CouponCode, &o.Status, &o.PaymentReference, &o.VerificationCode,
		&o.CreatedAt, &o.CompletedAt, &o.DeliveredAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func findOrder(ctx context.Context, q querier, clause string, args ...any) (*model.Order, error) {
	o, err := scanOrder(q.QueryRow(ctx, orderSelect+clause, args...))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return o, nil
}

func scanItems(rows pgx.Rows) ([]model.OrderItem, error) {
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Price, &it.Quantity, &it.SelectedColor, &it.SelectedSize); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func loadItems(ctx context.Context, q querier, orderID int64) ([]model.OrderItem, error) {
	rows, err := q.Query(ctx, itemSelect+`WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

// --- checkout ---

func (r *orderRepository) CreateOrReuse(ctx context.Context, draft model.OrderDraft, reuseSince time.Time) (*model.Order, bool, error) {
	var (
		order  *model.Order
		reused bool
	)

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		existing, err := findOrder(ctx, tx,
			`WHERE o.email=$1 AND o.status='PENDING' AND o.created_at >= $2 AND o.payment_reference IS NOT NULL
			   AND o.verification_code IS NULL
			 ORDER BY o.created_at DESC LIMIT 1 FOR UPDATE OF o`,
			draft.Customer.Email, reuseSince)
		switch {
		case err == nil:
			reused = true
		case errors.Is(err, domainErrors.ErrNotFound):
			existing = nil
		default:
			return err
		}

		var previousCoupon *int64
		if existing != nil {
			previousCoupon = existing.CouponID
		}
		if err := swapCoupon(ctx, tx, &draft, previousCoupon); err != nil {
			return err
		}

		if existing == nil {
			order, err = insertOrder(ctx, tx, draft)
		} else {
			order, err = overwriteOrder(ctx, tx, existing, draft)
		}
		if err != nil {
			return err
		}

		order.Items, err = replaceItems(ctx, tx, order.ID, draft.Items, reused)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	return order, reused, nil
}

// swapCoupon keeps times_used in step with the coupon the draft ends up using.
// A coupon that hits its limit in the meantime is dropped from the draft.
func swapCoupon(ctx context.Context, q querier, draft *model.OrderDraft, previous *int64) error {
	next := draft.CouponID()
	if previous != nil && next != nil && *previous == *next {
		return nil
	}

	if previous != nil {
		if err := releaseCoupon(ctx, q, *previous); err != nil {
			return fmt.Errorf("release coupon: %w", err)
		}
	}

	if next != nil {
		claimed, err := claimCoupon(ctx, q, *next)
		if err != nil {
			return fmt.Errorf("claim coupon: %w", err)
		}
		if !claimed {
			draft.DropCoupon()
		}
	}
	return nil
}

func orderFromDraft(draft model.OrderDraft) *model.Order {
	o := &model.Order{
		Customer:       draft.Customer,
		TotalAmount:    draft.TotalAmount,
		DiscountAmount: draft.DiscountAmount,
		CouponID:       draft.CouponID(),
		Status:         model.OrderStatusPending,
	}
	if draft.Coupon != nil {
		code := draft.Coupon.Code
		o.CouponCode = &code
	}
	return o
}

func insertOrder(ctx context.Context, q querier, draft model.OrderDraft) (*model.Order, error) {
	const query = `INSERT INTO orders (full_name, email, phone, address, total_amount, discount_amount, coupon_id, status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   RETURNING id, created_at`

	o := orderFromDraft(draft)
	err := q.QueryRow(ctx, query,
		o.FullName, o.Email, o.Phone, o.Address,
		numeric(o.TotalAmount), numeric(o.DiscountAmount), o.CouponID, o.Status,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

func overwriteOrder(ctx context.Context, q querier, existing *model.Order, draft model.OrderDraft) (*model.Order, error) {
	const query = `UPDATE orders
                   SET full_name=$2, phone=$3, address=$4, total_amount=$5, discount_amount=$6, coupon_id=$7
                   WHERE id=$1`

	o := orderFromDraft(draft)
	o.ID = existing.ID
	o.CreatedAt = existing.CreatedAt
	o.PaymentReference = existing.PaymentReference

	if _, err := q.Exec(ctx, query,
		o.ID, o.FullName, o.Phone, o.Address,
		numeric(o.TotalAmount), numeric(o.DiscountAmount), o.CouponID,
	); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return o, nil
}

func replaceItems(ctx context.Context, tx pgx.Tx, orderID int64, items []model.OrderItem, clear bool) ([]model.OrderItem, error) {
	if clear {
		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, orderID); err != nil {
			return nil, fmt.Errorf("delete order items: %w", err)
		}
	}

	rows := make([][]any, 0, len(items))
	stored := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		it.OrderID = orderID
		rows = append(rows, []any{
			orderID, it.ProductID, it.ProductName, numeric(it.Price), it.Quantity, it.SelectedColor, it.SelectedSize,
		})
		stored = append(stored, it)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"order_items"}, itemColumns, pgx.CopyFromRows(rows)); err != nil {
		return nil, fmt.Errorf("insert order items: %w", err)
	}
	return stored, nil
}

func (r *orderRepository) AttachPaymentReference(ctx context.Context, orderID int64, reference string) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE orders SET payment_reference=$2 WHERE id=$1`, orderID, reference)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- reads ---

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	return r.getOne(ctx, `WHERE o.id=$1`, id)
}

func (r *orderRepository) GetByReference(ctx context.Context, reference string) (*model.Order, error) {
	return r.getOne(ctx, `WHERE o.payment_reference=$1`, reference)
}

func (r *orderRepository) getOne(ctx context.Context, clause string, arg any) (*model.Order, error) {
	o, err := findOrder(ctx, r.storage.pool, clause, arg)
	if err != nil {
		return nil, err
	}
	if o.Items, err = loadItems(ctx, r.storage.pool, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	const defaultLimit = 100

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var (
		rows pgx.Rows
		err  error
	)
	if filter.Status != "" {
		rows, err = r.storage.pool.Query(ctx, orderSelect+`WHERE o.status=$1 ORDER BY o.created_at DESC LIMIT $2`, filter.Status, limit)
	} else {
		rows, err = r.storage.pool.Query(ctx, orderSelect+`ORDER BY o.created_at DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, err
	}

	orders, err := collectOrders(rows)
	if err != nil || len(orders) == 0 {
		return orders, err
	}

	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	itemRows, err := r.storage.pool.Query(ctx, itemSelect+`WHERE order_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	items, err := scanItems(itemRows)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return orders, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}

// --- settlement ---

func (r *orderRepository) Settle(ctx context.Context, reference string, reportedMinor int64, verificationCode string) (*model.Settlement, error) {
	var result *model.Settlement

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		order, err := findOrder(ctx, tx, `WHERE o.payment_reference=$1 FOR UPDATE OF o`, reference)
		if err != nil {
			return err
		}
		if order.Items, err = loadItems(ctx, tx, order.ID); err != nil {
			return err
		}

		if order.Settled() {
			result = &model.Settlement{Order: order, AlreadyPaid: true}
			return nil
		}
		if order.Status != model.OrderStatusPending {
			return fmt.Errorf("%w: %s order %d cannot be settled", domainErrors.ErrInvalidTransition, order.Status, order.ID)
		}

		if expected := order.AmountMinor(); expected != reportedMinor {
			return &domainErrors.AmountMismatchError{OrderID: order.ID, Expected: expected, Reported: reportedMinor}
		}

		oversold, err := decrementStock(ctx, tx, order.Items)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `UPDATE orders SET status='PAID', verification_code=$2 WHERE id=$1`, order.ID, verificationCode); err != nil {
			return fmt.Errorf("mark paid: %w", err)
		}

		order.Status = model.OrderStatusPaid
		order.VerificationCode = &verificationCode
		result = &model.Settlement{Order: order, Oversold: oversold}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// decrementStock updates products in id order so concurrent settlements
// acquire row locks in the same sequence.
func decrementStock(ctx context.Context, q querier, items []model.OrderItem) ([]int64, error) {
	quantities := make(map[int64]int, len(items))
	for _, it := range items {
		quantities[it.ProductID] += it.Quantity
	}

	ids := make([]int64, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var oversold []int64
	for _, id := range ids {
		var stock int
		err := q.QueryRow(ctx, `UPDATE products SET stock = stock - $2 WHERE id=$1 RETURNING stock`, id, quantities[id]).Scan(&stock)
		if err != nil {
			return nil, fmt.Errorf("decrement stock of product %d: %w", id, mapNotFound(err))
		}
		if stock < 0 {
			oversold = append(oversold, id)
		}
	}
	return oversold, nil
}

// --- operator transitions ---

func (r *orderRepository) Transition(ctx context.Context, id int64, fn func(*model.Order) error) (*model.Order, error) {
	var order *model.Order

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		o, err := findOrder(ctx, tx, `WHERE o.id=$1 FOR UPDATE OF o`, id)
		if err != nil {
			return err
		}
		if err := fn(o); err != nil {
			return err
		}

		const update = `UPDATE orders SET status=$2, completed_at=$3, delivered_at=$4 WHERE id=$1`
		if _, err := tx.Exec(ctx, update, o.ID, o.Status, o.CompletedAt, o.DeliveredAt); err != nil {
			return err
		}

		if o.Items, err = loadItems(ctx, tx, o.ID); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// --- sweep ---

func (r *orderRepository) ExpireStale(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE orders SET status='FAILED' WHERE status='PENDING' AND created_at < $1 AND verification_code IS NULL`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *orderRepository) CountStale(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status='PENDING' AND created_at < $1 AND verification_code IS NULL`, cutoff).Scan(&n)
	return n, err
}
