package schedulingRepo

import (
	"context"
	"errors"
	"time"

	"mechanio/models"
)

// ErrNotFound is returned when no scheduling matches the lookup.
var ErrNotFound = errors.New("scheduling not found")

// ErrSlotTaken is returned when the storage-level uniqueness guard on
// (workshop, date) rejects a committed booking.
var ErrSlotTaken = errors.New("slot already taken for this workshop and time")

// Filter narrows FindBy / FindOneBy queries. Zero fields are ignored.
type Filter struct {
	WorkshopID    string
	ProfileID     string
	Statuses      []models.Status
	Date          *time.Time // exact appointment instant
	From          *time.Time // appointment date range, inclusive
	To            *time.Time // appointment date range, exclusive
	CommittedOnly bool       // only records whose status occupies a slot
}

// ScheduleRepository persists and retrieves Scheduling records. Operations are
// atomic at the single-record level only.
type ScheduleRepository interface {
	FindByID(ctx context.Context, id string) (*models.Scheduling, error)
	FindOneBy(ctx context.Context, f Filter) (*models.Scheduling, error)
	FindBy(ctx context.Context, f Filter) ([]models.Scheduling, error)
	Create(ctx context.Context, s *models.Scheduling) error
	Update(ctx context.Context, s *models.Scheduling) error
	Delete(ctx context.Context, id string) error
}
