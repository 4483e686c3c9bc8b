package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type EquipmentStatus string

const (
	EQUIPMENT_STATUS_AVAILABLE EquipmentStatus = "available"
	EQUIPMENT_STATUS_ASSIGNED  EquipmentStatus = "assigned"
	EQUIPMENT_STATUS_REPAIR    EquipmentStatus = "repair"
	EQUIPMENT_STATUS_RETIRED   EquipmentStatus = "retired"
)

func ValidEquipmentStatus(s EquipmentStatus) bool {
	switch s {
	case EQUIPMENT_STATUS_AVAILABLE,
		EQUIPMENT_STATUS_ASSIGNED,
		EQUIPMENT_STATUS_REPAIR,
		EQUIPMENT_STATUS_RETIRED:
		return true
	default:
		return false
	}
}

type Equipment struct {
	bun.BaseModel `bun:"table:equipment"`

	ID           string          `bun:"id,pk"`          // required
	Name         string          `bun:"name,notnull"`   // required
	Category     string          `bun:"category"`
	SerialNumber string          `bun:"serial_number"`
	Status       EquipmentStatus `bun:"status,notnull"` // required
	Notes        string          `bun:"notes"`

	AssigneeID string    `bun:"assignee_id"`
	Assignee   *Employee `bun:"rel:belongs-to,join:assignee_id=id"`

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`
}

func (e *Equipment) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case e.ID == "":
		return fmt.Errorf("(*Equipment).Upsert: equipment id is blank")
	case e.Name == "":
		return fmt.Errorf("(*Equipment).Upsert: name is blank")
	case !ValidEquipmentStatus(e.Status):
		return fmt.Errorf("(*Equipment).Upsert: invalid status %q", e.Status)
	case e.Status == EQUIPMENT_STATUS_ASSIGNED && e.AssigneeID == "":
		return fmt.Errorf("(*Equipment).Upsert: assigned equipment needs an assignee")
	case e.Status != EQUIPMENT_STATUS_ASSIGNED && e.AssigneeID != "":
		return fmt.Errorf("(*Equipment).Upsert: only assigned equipment can have an assignee")
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UTC().Unix()
	}

	exists, err := db.NewSelect().
		Model((*Equipment)(nil)).
		Where("id = ?", e.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*Equipment).Upsert: %w", err)
	}

	switch exists {
	case true:
		e.UpdatedAt = time.Now().UTC().Unix()
		if _, err := db.NewUpdate().
			Model(e).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Equipment).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(e).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Equipment).Upsert: %w", err)
		}
	}

	return nil
}
