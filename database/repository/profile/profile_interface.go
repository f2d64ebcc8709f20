package profileRepo

import (
	"context"
	"errors"

	"mechanio/models"
)

// ErrNotFound is returned when no profile matches the lookup.
var ErrNotFound = errors.New("profile not found")

// ProfileRepository is the read side of customer and administrator accounts
// consumed by the scheduling engine (ownership guards, snapshots, notify
// targets).
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	ListAdmins(ctx context.Context) ([]models.Admin, error)
}
