// Package batch ranks a product's inventory batches for sale. It is pure:
// callers fetch the batches, the selector filters, orders, and synthesizes a
// placeholder when the shelf is effectively empty so the billing screen
// always has something to pick.
package batch

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SortKey selects the ranking attribute.
type SortKey string

const (
	SortByExpiry        SortKey = "expiry"
	SortByQuantity      SortKey = "quantity"
	SortByManufacturing SortKey = "manufacturing"
)

// SortOrder selects the ranking direction.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Policy configures one selection pass.
type Policy struct {
	SortBy        SortKey
	SortOrder     SortOrder
	FilterExpired bool
	MinQuantity   int
	Fallback      bool
}

// Product is the slice of the catalog record the selector needs.
type Product struct {
	ID        uuid.UUID
	MRP       decimal.Decimal
	SalePrice decimal.Decimal
}

// Batch is one inventory lot. Synthetic marks a placeholder produced by the
// selector itself: it has no backing inventory row, must never be persisted,
// and callers use the flag to warn the user before selling against it.
type Batch struct {
	ID                uuid.UUID
	BatchNumber       string
	ExpiryDate        *time.Time
	ManufacturingDate *time.Time
	QuantityAvailable int
	MRP               decimal.Decimal
	SalePrice         decimal.Decimal
	Synthetic         bool
}

// Config holds the synthetic-batch parameters. Passed in rather than read
// from package globals so tests can pin them.
type Config struct {
	DefaultBatchNumber string
	DefaultExpiryDays  int
	DefaultQuantity    int
}

// DefaultConfig matches what the billing screens expect out of the box.
func DefaultConfig() Config {
	return Config{
		DefaultBatchNumber: "DEFAULT",
		DefaultExpiryDays:  365,
		DefaultQuantity:    100,
	}
}

// Selector applies policies against a fixed config and clock.
type Selector struct {
	cfg Config
	now func() time.Time
}

func NewSelector(cfg Config) *Selector {
	return &Selector{cfg: cfg, now: time.Now}
}

// Select runs the pipeline: drop expired (batches without an expiry date are
// treated as non-expiring and always kept), drop lots under MinQuantity,
// stable-sort by the policy key, and fall back to a synthetic batch when
// nothing survives and the policy allows it. Ties keep input order.
func (s *Selector) Select(product Product, batches []Batch, pol Policy) []Batch {
	now := s.now()
	kept := make([]Batch, 0, len(batches))
	for _, b := range batches {
		if pol.FilterExpired && b.ExpiryDate != nil && b.ExpiryDate.Before(now) {
			continue
		}
		if b.QuantityAvailable < pol.MinQuantity {
			continue
		}
		kept = append(kept, b)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if pol.SortOrder == Desc {
			return lessBy(pol.SortBy, kept[j], kept[i])
		}
		return lessBy(pol.SortBy, kept[i], kept[j])
	})

	if len(kept) == 0 && pol.Fallback {
		return []Batch{s.DefaultBatch(product)}
	}
	return kept
}

// QuickPick is the fixed policy behind the quick-add flow: anything in stock,
// latest expiry first. It delegates to Select so the two call sites can never
// drift apart.
func (s *Selector) QuickPick(product Product, batches []Batch) []Batch {
	return s.Select(product, batches, Policy{
		SortBy:      SortByExpiry,
		SortOrder:   Desc,
		MinQuantity: 1,
		Fallback:    true,
	})
}

// DefaultBatch builds the synthetic placeholder for a product: reserved batch
// number, expiry pushed out by the configured horizon, prices inherited from
// the catalog record.
func (s *Selector) DefaultBatch(product Product) Batch {
	expiry := s.now().AddDate(0, 0, s.cfg.DefaultExpiryDays)
	return Batch{
		BatchNumber:       s.cfg.DefaultBatchNumber,
		ExpiryDate:        &expiry,
		QuantityAvailable: s.cfg.DefaultQuantity,
		MRP:               product.MRP,
		SalePrice:         product.SalePrice,
		Synthetic:         true,
	}
}

func lessBy(key SortKey, a, b Batch) bool {
	switch key {
	case SortByQuantity:
		return a.QuantityAvailable < b.QuantityAvailable
	case SortByManufacturing:
		return timeLess(a.ManufacturingDate, b.ManufacturingDate)
	default:
		return timeLess(a.ExpiryDate, b.ExpiryDate)
	}
}

// timeLess orders nil dates last so undated lots rank after dated ones in
// ascending passes.
func timeLess(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.Before(*b)
}
