package workshopRepo

import (
	"context"
	"errors"

	"mechanio/models"
)

// ErrNotFound is returned when no workshop matches the lookup.
var ErrNotFound = errors.New("workshop not found")

// WorkshopRepository is the read side of the workshop profile consumed by the
// scheduling engine.
type WorkshopRepository interface {
	GetByID(ctx context.Context, id string) (*models.Workshop, error)
}
