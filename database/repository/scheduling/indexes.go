package schedulingRepo

import (
	"context"
	"fmt"
	"time"

	"mechanio/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the partial unique index that enforces the
// one-committed-booking-per-slot invariant at the storage layer. The
// application-level conflict check alone is racy under concurrent bookings;
// this index is the authoritative guard.
func EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	coll := database.DB().Collection("schedulings")

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "workshop_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().
				SetName("uniq_workshop_slot_committed").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": committedStatuses()},
				}),
		},
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName("uniq_scheduling_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "profile_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("profile_status"),
		},
	})
	if err != nil {
		return fmt.Errorf("error ensuring scheduling indexes: %w", err)
	}
	return nil
}
