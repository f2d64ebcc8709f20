package historyRepo

import (
	"context"

	"mechanio/models"
)

// HistoryRecorder appends an immutable audit entry every time a scheduling's
// status changes. Entries are never updated or deleted.
type HistoryRecorder interface {
	Append(ctx context.Context, entry *models.SchedulingHistory) error
	ListByScheduling(ctx context.Context, schedulingID string) ([]models.SchedulingHistory, error)
}
