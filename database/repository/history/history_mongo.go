package historyRepo

import (
	"context"
	"fmt"
	"time"

	"mechanio/database"
	"mechanio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoHistoryRecorder implements HistoryRecorder using MongoDB.
type MongoHistoryRecorder struct {
	coll *mongo.Collection
}

// NewMongoHistoryRecorder constructs a new instance of MongoHistoryRecorder.
func NewMongoHistoryRecorder() HistoryRecorder {
	return &MongoHistoryRecorder{
		coll: database.DB().Collection("scheduling_history"),
	}
}

func (repo *MongoHistoryRecorder) Append(ctx context.Context, entry *models.SchedulingHistory) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("error appending history entry: %w", err)
	}
	return nil
}

func (repo *MongoHistoryRecorder) ListByScheduling(ctx context.Context, schedulingID string) ([]models.SchedulingHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := repo.coll.Find(ctx, bson.M{"scheduling_id": schedulingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching history for scheduling %s: %w", schedulingID, err)
	}
	defer cursor.Close(ctx)

	var entries []models.SchedulingHistory
	for cursor.Next(ctx) {
		var e models.SchedulingHistory
		if err := cursor.Decode(&e); err != nil {
			return nil, fmt.Errorf("error decoding history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return entries, nil
}
