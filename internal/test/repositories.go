package test

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/acesshop/internal/domain/errors"
	"github.com/polkiloo/acesshop/internal/domain/model"
	"github.com/polkiloo/acesshop/internal/domain/repository"
)

// StaffRepositoryStub stores staff in-memory for tests.
type StaffRepositoryStub struct {
	ByEmail map[string]*model.Staff
	ByID    map[int64]*model.Staff
	Next    int64
	Err     error
}

// NewStaffRepositoryStub constructs stub repository with initialized maps.
func NewStaffRepositoryStub() *StaffRepositoryStub {
	return &StaffRepositoryStub{
		ByEmail: make(map[string]*model.Staff),
		ByID:    make(map[int64]*model.Staff),
		Next:    1,
	}
}

// Create registers staff unless already exists or stub has explicit error.
func (s *StaffRepositoryStub) Create(_ context.Context, email, passwordHash string) (*model.Staff, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.ByEmail[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	member := &model.Staff{ID: s.Next, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	s.Next++
	s.ByEmail[email] = member
	s.ByID[member.ID] = member
	return member, nil
}

// GetByEmail fetches staff by email or returns not found.
func (s *StaffRepositoryStub) GetByEmail(_ context.Context, email string) (*model.Staff, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if member, ok := s.ByEmail[email]; ok {
		return member, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches staff by identifier or returns not found.
func (s *StaffRepositoryStub) GetByID(_ context.Context, id int64) (*model.Staff, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if member, ok := s.ByID[id]; ok {
		return member, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ProductRepositoryStub is an in-memory catalog.
type ProductRepositoryStub struct {
	mu       sync.Mutex
	Products map[int64]*model.Product
	Err      error
	Lookups  int
}

// NewProductRepositoryStub seeds the catalog with products.
func NewProductRepositoryStub(products ...model.Product) *ProductRepositoryStub {
	s := &ProductRepositoryStub{Products: make(map[int64]*model.Product)}
	for _, p := range products {
		p := p
		s.Products[p.ID] = &p
	}
	return s
}

func (s *ProductRepositoryStub) ListActive(context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Product
	for _, p := range s.Products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *ProductRepositoryStub) GetBySlug(_ context.Context, slug string) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.Products {
		if p.Slug == slug && p.IsActive {
			product := *p
			return &product, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetActiveByIDs counts every call so tests can assert a single batch lookup.
func (s *ProductRepositoryStub) GetActiveByIDs(_ context.Context, ids []int64) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lookups++
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Product
	for _, id := range ids {
		if p, ok := s.Products[id]; ok && p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *ProductRepositoryStub) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.Products)), nil
}

// Stock returns the current stock of a product.
func (s *ProductRepositoryStub) Stock(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Products[id].Stock
}

// CouponRepositoryStub is an in-memory coupon table.
type CouponRepositoryStub struct {
	mu     sync.Mutex
	ByCode map[string]*model.Coupon
	Err    error
}

// NewCouponRepositoryStub seeds the stub with coupons.
func NewCouponRepositoryStub(coupons ...model.Coupon) *CouponRepositoryStub {
	s := &CouponRepositoryStub{ByCode: make(map[string]*model.Coupon)}
	for _, c := range coupons {
		c := c
		s.ByCode[c.Code] = &c
	}
	return s
}

func (s *CouponRepositoryStub) GetByCode(_ context.Context, code string) (*model.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if c, ok := s.ByCode[code]; ok {
		coupon := *c
		return &coupon, nil
	}
	return nil, domainErrors.ErrNotFound
}

// TimesUsed returns the usage counter of a coupon.
func (s *CouponRepositoryStub) TimesUsed(code string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ByCode[code].TimesUsed
}

func (s *CouponRepositoryStub) adjust(id int64, delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.ByCode {
		if c.ID != id {
			continue
		}
		next := c.TimesUsed + delta
		if next < 0 || (delta > 0 && c.TimesUsed >= c.MaxUses) {
			return false
		}
		c.TimesUsed = next
		return true
	}
	return false
}

// OrderRepositoryStub keeps orders in memory. A single mutex stands in for
// the row locks of the SQL implementation.
type OrderRepositoryStub struct {
	mu       sync.Mutex
	orders   map[int64]*model.Order
	next     int64
	products *ProductRepositoryStub
	coupons  *CouponRepositoryStub
	now      func() time.Time

	// SettleErr fails Settle before any change is applied.
	SettleErr error
	Err       error
}

// NewOrderRepositoryStub links the stub to the catalog and coupons it mutates.
func NewOrderRepositoryStub(products *ProductRepositoryStub, coupons *CouponRepositoryStub) *OrderRepositoryStub {
	if products == nil {
		products = NewProductRepositoryStub()
	}
	if coupons == nil {
		coupons = NewCouponRepositoryStub()
	}
	return &OrderRepositoryStub{
		orders:   make(map[int64]*model.Order),
		next:     1,
		products: products,
		coupons:  coupons,
		now:      time.Now,
	}
}

// Put stores an order as is and returns its id.
func (s *OrderRepositoryStub) Put(order model.Order) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID == 0 {
		order.ID = s.next
	}
	if order.ID >= s.next {
		s.next = order.ID + 1
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.now()
	}
	s.orders[order.ID] = cloneOrder(&order)
	return order.ID
}

// Rows returns a snapshot of every stored order ordered by id.
func (s *OrderRepositoryStub) Rows() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *OrderRepositoryStub) CreateOrReuse(_ context.Context, draft model.OrderDraft, reuseSince time.Time) (*model.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, false, s.Err
	}

	existing := s.reusable(draft.Customer.Email, reuseSince)
	var previous *int64
	if existing != nil {
		previous = existing.CouponID
	}

	if draft.Coupon != nil && (previous == nil || *previous != draft.Coupon.ID) {
		if !s.coupons.adjust(draft.Coupon.ID, 1) {
			draft.DropCoupon()
		}
	}
	if previous != nil && (draft.Coupon == nil || *previous != draft.Coupon.ID) {
		s.coupons.adjust(*previous, -1)
	}

	order := existing
	reused := existing != nil
	if order == nil {
		order = &model.Order{ID: s.next, Status: model.OrderStatusPending, CreatedAt: s.now()}
		s.next++
		s.orders[order.ID] = order
	}
	order.Customer = draft.Customer
	order.TotalAmount = draft.TotalAmount
	order.DiscountAmount = draft.DiscountAmount
	order.CouponID = draft.CouponID()
	order.CouponCode = nil
	if draft.Coupon != nil {
		code := draft.Coupon.Code
		order.CouponCode = &code
	}
	order.Items = make([]model.OrderItem, len(draft.Items))
	for i, item := range draft.Items {
		item.OrderID = order.ID
		item.ID = int64(i + 1)
		order.Items[i] = item
	}
	return cloneOrder(order), reused, nil
}

func (s *OrderRepositoryStub) reusable(email string, since time.Time) *model.Order {
	var best *model.Order
	for _, o := range s.orders {
		if o.Email != email || o.Status != model.OrderStatusPending || o.PaymentReference == nil || o.VerificationCode != nil || o.CreatedAt.Before(since) {
			continue
		}
		if best == nil || o.CreatedAt.After(best.CreatedAt) {
			best = o
		}
	}
	return best
}

func (s *OrderRepositoryStub) AttachPaymentReference(_ context.Context, orderID int64, reference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	order, ok := s.orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	for _, o := range s.orders {
		if o.ID != orderID && o.PaymentReference != nil && *o.PaymentReference == reference {
			return domainErrors.ErrAlreadyExists
		}
	}
	order.PaymentReference = &reference
	return nil
}

func (s *OrderRepositoryStub) GetByID(_ context.Context, id int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if o, ok := s.orders[id]; ok {
		return cloneOrder(o), nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) GetByReference(_ context.Context, reference string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if o := s.byReference(reference); o != nil {
		return cloneOrder(o), nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) byReference(reference string) *model.Order {
	for _, o := range s.orders {
		if o.PaymentReference != nil && *o.PaymentReference == reference {
			return o
		}
	}
	return nil
}

func (s *OrderRepositoryStub) List(_ context.Context, filter model.OrderFilter) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Order
	for _, o := range s.orders {
		if filter.Status == "" || o.Status == filter.Status {
			out = append(out, *cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *OrderRepositoryStub) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.orders)), nil
}

func (s *OrderRepositoryStub) Settle(_ context.Context, reference string, reportedMinor int64, verificationCode string) (*model.Settlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SettleErr != nil {
		return nil, s.SettleErr
	}

	order := s.byReference(reference)
	if order == nil {
		return nil, domainErrors.ErrNotFound
	}
	if order.Settled() {
		return &model.Settlement{Order: cloneOrder(order), AlreadyPaid: true}, nil
	}
	if order.Status != model.OrderStatusPending {
		return nil, domainErrors.ErrInvalidTransition
	}
	if expected := order.AmountMinor(); expected != reportedMinor {
		return nil, &domainErrors.AmountMismatchError{OrderID: order.ID, Expected: expected, Reported: reportedMinor}
	}

	var oversold []int64
	s.products.mu.Lock()
	for _, item := range order.Items {
		product, ok := s.products.Products[item.ProductID]
		if !ok {
			continue
		}
		product.Stock -= item.Quantity
		if product.Stock < 0 && !slices.Contains(oversold, product.ID) {
			oversold = append(oversold, product.ID)
		}
	}
	s.products.mu.Unlock()

	order.Status = model.OrderStatusPaid
	order.VerificationCode = &verificationCode
	return &model.Settlement{Order: cloneOrder(order), Oversold: oversold}, nil
}

func (s *OrderRepositoryStub) Transition(_ context.Context, id int64, fn func(*model.Order) error) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	stored, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	working := cloneOrder(stored)
	if err := fn(working); err != nil {
		return nil, err
	}
	s.orders[id] = working
	return cloneOrder(working), nil
}

func (s *OrderRepositoryStub) ExpireStale(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var n int64
	for _, o := range s.orders {
		if o.Status == model.OrderStatusPending && o.VerificationCode == nil && o.CreatedAt.Before(cutoff) {
			o.Status = model.OrderStatusFailed
			n++
		}
	}
	return n, nil
}

func (s *OrderRepositoryStub) CountStale(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var n int64
	for _, o := range s.orders {
		if o.Status == model.OrderStatusPending && o.VerificationCode == nil && o.CreatedAt.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

func cloneOrder(o *model.Order) *model.Order {
	c := *o
	c.Items = slices.Clone(o.Items)
	return &c
}

// WebhookLogRepositoryStub is an append-only in-memory audit log.
type WebhookLogRepositoryStub struct {
	mu      sync.Mutex
	Entries []model.WebhookLog
	Err     error
}

func (s *WebhookLogRepositoryStub) Append(_ context.Context, entry *model.WebhookLog) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	entry.ID = int64(len(s.Entries) + 1)
	if entry.Status == "" {
		entry.Status = model.WebhookStatusReceived
	}
	entry.CreatedAt = time.Now()
	s.Entries = append(s.Entries, *entry)
	return entry.ID, nil
}

func (s *WebhookLogRepositoryStub) Resolve(_ context.Context, id int64, res model.WebhookResolution) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for i := range s.Entries {
		e := &s.Entries[i]
		if e.ID != id || e.Status != model.WebhookStatusReceived {
			continue
		}
		e.Status = res.Status
		e.EventType = res.EventType
		e.Reference = res.Reference
		e.ProcessingError = res.Note
		return true, nil
	}
	return false, nil
}

func (s *WebhookLogRepositoryStub) HasProcessed(_ context.Context, reference string, excludeID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for _, e := range s.Entries {
		if e.ID != excludeID && e.Reference == reference && e.Status == model.WebhookStatusProcessed {
			return true, nil
		}
	}
	return false, nil
}

// CountByStatus returns how many rows ended in status.
func (s *WebhookLogRepositoryStub) CountByStatus(status model.WebhookStatus) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.Entries {
		if e.Status == status {
			n++
		}
	}
	return n
}

// HealthCheckerStub returns Err from HealthCheck.
type HealthCheckerStub struct {
	Err error
}

func (s HealthCheckerStub) HealthCheck(context.Context) error {
	return s.Err
}

// Product builds an active catalog entry for tests.
func Product(id int64, price string, stock int) model.Product {
	return model.Product{
		ID:       id,
		Name:     fmt.Sprintf("Product %d", id),
		Slug:     fmt.Sprintf("product-%d", id),
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
}

var (
	_ repository.StaffRepository      = (*StaffRepositoryStub)(nil)
	_ repository.ProductRepository    = (*ProductRepositoryStub)(nil)
	_ repository.CouponRepository     = (*CouponRepositoryStub)(nil)
	_ repository.OrderRepository      = (*OrderRepositoryStub)(nil)
	_ repository.WebhookLogRepository = (*WebhookLogRepositoryStub)(nil)
	_ repository.HealthChecker        = HealthCheckerStub{}
)
