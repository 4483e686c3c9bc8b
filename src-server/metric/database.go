package metric

import (
	"context"
	"time"

	"opsdesk/src-server/model"
	"opsdesk/src-server/utils"
)

// database measures the latency of a guaranteed-empty read.
func database(as *utils.AppState) (time.Duration, error) {
	start := time.Now()
	if _, err := as.BunDB.NewSelect().
		Model((*model.Event)(nil)).
		Where("id = ?", "").
		Exists(context.Background()); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
