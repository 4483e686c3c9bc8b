package model

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Each employee has a checklist of onboarding tasks.
type OnboardingTask struct {
	bun.BaseModel `bun:"table:onboarding_tasks"`

	ID         int64  `bun:"id,pk,autoincrement"`
	Task       string `bun:"task,notnull"`        // required
	Done       bool   `bun:"done"`
	EmployeeID string `bun:"employee_id,notnull"` // required

	Employee *Employee `bun:"rel:belongs-to,join:employee_id=id"`
}

func (o *OnboardingTask) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case o.Task == "":
		return fmt.Errorf("(*OnboardingTask).Upsert: task is required")
	case o.EmployeeID == "":
		return fmt.Errorf("(*OnboardingTask).Upsert: employee id is required")
	}

	if _, err := db.NewInsert().
		Model(o).
		On("CONFLICT (id) DO UPDATE").
		Set("task = EXCLUDED.task").
		Set("done = EXCLUDED.done").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*OnboardingTask).Upsert: %w", err)
	}

	return nil
}
