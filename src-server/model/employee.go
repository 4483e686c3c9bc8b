package model

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/uptrace/bun"
)

type Employee struct {
	bun.BaseModel `bun:"table:employees"`

	ID         string `bun:"id,pk"`         // required
	Name       string `bun:"name,notnull"`  // required
	Email      string `bun:"email,notnull"` // required
	Department string `bun:"department"`
	JobTitle   string `bun:"job_title"`

	StartDateUnixUTC int64 `bun:"start_date"`
	CreatedAt        int64 `bun:"created_at,notnull"`

	OnboardingTasks []*OnboardingTask `bun:"rel:has-many,join:id=employee_id"`
}

func (e *Employee) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case e.ID == "":
		return fmt.Errorf("(*Employee).Upsert: employee id is blank")
	case e.Name == "":
		return fmt.Errorf("(*Employee).Upsert: name is blank")
	case e.Email == "":
		return fmt.Errorf("(*Employee).Upsert: email is blank")
	}
	if _, err := mail.ParseAddress(e.Email); err != nil {
		return fmt.Errorf("(*Employee).Upsert: email is invalid: %w", err)
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UTC().Unix()
	}

	exists, err := db.NewSelect().
		Model((*Employee)(nil)).
		Where("id = ?", e.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*Employee).Upsert: %w", err)
	}

	switch exists {
	case true:
		if _, err := db.NewUpdate().
			Model(e).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Employee).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(e).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Employee).Upsert: %w", err)
		}
	}

	return nil
}
