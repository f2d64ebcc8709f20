package workshopRepo

import (
	"context"
	"fmt"
	"time"

	"mechanio/database"
	"mechanio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoWorkshopRepo implements WorkshopRepository using MongoDB.
type MongoWorkshopRepo struct {
	coll *mongo.Collection
}

// NewMongoWorkshopRepo constructs a new instance of MongoWorkshopRepo.
func NewMongoWorkshopRepo() WorkshopRepository {
	return &MongoWorkshopRepo{
		coll: database.DB().Collection("workshops"),
	}
}

func (repo *MongoWorkshopRepo) GetByID(ctx context.Context, id string) (*models.Workshop, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var w models.Workshop
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&w); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching workshop with id %s: %w", id, err)
	}
	return &w, nil
}
