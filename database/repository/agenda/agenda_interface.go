package agendaRepo

import (
	"context"
	"errors"
	"time"

	"mechanio/models"
)

// ErrNotConfigured is returned when a workshop has no weekly template at all,
// distinct from a template whose day is merely closed.
var ErrNotConfigured = errors.New("workshop agenda not configured")

// AgendaStore holds each workshop's weekly working-hours template and its
// ad-hoc blocked timestamps.
type AgendaStore interface {
	GetAgenda(ctx context.Context, workshopID string) (*models.WorkshopAgenda, error)
	UpsertAgenda(ctx context.Context, agenda *models.WorkshopAgenda) error

	AddBlockedSlot(ctx context.Context, slot *models.BlockedSlot) error
	RemoveBlockedSlot(ctx context.Context, workshopID string, date time.Time) error
	ListBlockedSlots(ctx context.Context, workshopID string, from, to time.Time) ([]models.BlockedSlot, error)
	// PruneBlockedBefore removes blocks whose instant has already passed.
	PruneBlockedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
