package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type PurchaseStatus string

const (
	PURCHASE_STATUS_PENDING  PurchaseStatus = "pending"
	PURCHASE_STATUS_APPROVED PurchaseStatus = "approved"
	PURCHASE_STATUS_REJECTED PurchaseStatus = "rejected"
	PURCHASE_STATUS_ORDERED  PurchaseStatus = "ordered"
)

// ValidPurchaseTransition encodes the request lifecycle:
// pending -> approved | rejected, approved -> ordered.
func ValidPurchaseTransition(from, to PurchaseStatus) bool {
	switch from {
	case PURCHASE_STATUS_PENDING:
		return to == PURCHASE_STATUS_APPROVED || to == PURCHASE_STATUS_REJECTED
	case PURCHASE_STATUS_APPROVED:
		return to == PURCHASE_STATUS_ORDERED
	default:
		return false
	}
}

type PurchaseRequest struct {
	bun.BaseModel `bun:"table:purchase_requests"`

	ID       string         `bun:"id,pk"`          // required
	Item     string         `bun:"item,notnull"`   // required
	Quantity int            `bun:"quantity,notnull"`
	Status   PurchaseStatus `bun:"status,notnull"` // required

	RequesterID string    `bun:"requester_id,notnull"` // required
	Requester   *Employee `bun:"rel:belongs-to,join:requester_id=id"`

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`
}

func (p *PurchaseRequest) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case p.ID == "":
		return fmt.Errorf("(*PurchaseRequest).Upsert: purchase request id is blank")
	case p.Item == "":
		return fmt.Errorf("(*PurchaseRequest).Upsert: item is blank")
	case p.Quantity <= 0:
		return fmt.Errorf("(*PurchaseRequest).Upsert: quantity must be positive")
	case p.RequesterID == "":
		return fmt.Errorf("(*PurchaseRequest).Upsert: requester id is blank")
	}
	switch p.Status {
	case PURCHASE_STATUS_PENDING,
		PURCHASE_STATUS_APPROVED,
		PURCHASE_STATUS_REJECTED,
		PURCHASE_STATUS_ORDERED:
	default:
		return fmt.Errorf("(*PurchaseRequest).Upsert: invalid status %q", p.Status)
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().UTC().Unix()
	}

	exists, err := db.NewSelect().
		Model((*PurchaseRequest)(nil)).
		Where("id = ?", p.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*PurchaseRequest).Upsert: %w", err)
	}

	switch exists {
	case true:
		p.UpdatedAt = time.Now().UTC().Unix()
		if _, err := db.NewUpdate().
			Model(p).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*PurchaseRequest).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(p).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*PurchaseRequest).Upsert: %w", err)
		}
	}

	return nil
}
