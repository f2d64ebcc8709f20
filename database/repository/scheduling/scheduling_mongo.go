package schedulingRepo

import (
	"context"
	"fmt"
	"time"

	"mechanio/database"
	"mechanio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoScheduleRepo implements ScheduleRepository using MongoDB.
type MongoScheduleRepo struct {
	coll *mongo.Collection
}

// NewMongoScheduleRepo constructs a new instance of MongoScheduleRepo.
func NewMongoScheduleRepo() ScheduleRepository {
	return &MongoScheduleRepo{
		coll: database.DB().Collection("schedulings"),
	}
}

func (repo *MongoScheduleRepo) FindByID(ctx context.Context, id string) (*models.Scheduling, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s models.Scheduling
	filter := bson.M{"id": id}
	if err := repo.coll.FindOne(ctx, filter).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching scheduling with id %s: %w", id, err)
	}
	return &s, nil
}

func (repo *MongoScheduleRepo) FindOneBy(ctx context.Context, f Filter) (*models.Scheduling, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s models.Scheduling
	if err := repo.coll.FindOne(ctx, buildFilter(f)).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching scheduling: %w", err)
	}
	return &s, nil
}

func (repo *MongoScheduleRepo) FindBy(ctx context.Context, f Filter) ([]models.Scheduling, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, buildFilter(f))
	if err != nil {
		return nil, fmt.Errorf("error listing schedulings: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Scheduling
	for cursor.Next(ctx) {
		var s models.Scheduling
		if err := cursor.Decode(&s); err != nil {
			return nil, fmt.Errorf("error decoding scheduling: %w", err)
		}
		out = append(out, s)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return out, nil
}

func (repo *MongoScheduleRepo) Create(ctx context.Context, s *models.Scheduling) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("error creating scheduling: %w", err)
	}
	return nil
}

func (repo *MongoScheduleRepo) Update(ctx context.Context, s *models.Scheduling) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": s.ID}
	update := bson.M{"$set": s}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("error updating scheduling %s: %w", s.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoScheduleRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting scheduling %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
