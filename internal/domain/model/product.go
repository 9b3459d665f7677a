package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Stock is only written by settlement.
type Product struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Stock       int
	IsActive    bool
	CreatedAt   time.Time
}

// HealthReport summarises database reachability for the health endpoint.
type HealthReport struct {
	Healthy      bool
	ProductCount int64
	OrderCount   int64
	Error        string
}
