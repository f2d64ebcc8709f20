package profileRepo

import (
	"context"
	"fmt"
	"time"

	"mechanio/database"
	"mechanio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoProfileRepo implements ProfileRepository using MongoDB.
type MongoProfileRepo struct {
	profileColl *mongo.Collection
	adminColl   *mongo.Collection
}

// NewMongoProfileRepo constructs a new instance of MongoProfileRepo.
func NewMongoProfileRepo() ProfileRepository {
	db := database.DB()
	return &MongoProfileRepo{
		profileColl: db.Collection("profiles"),
		adminColl:   db.Collection("admins"),
	}
}

func (repo *MongoProfileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Profile
	if err := repo.profileColl.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching profile with id %s: %w", id, err)
	}
	return &p, nil
}

func (repo *MongoProfileRepo) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.adminColl.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing admins: %w", err)
	}
	defer cursor.Close(ctx)

	var admins []models.Admin
	for cursor.Next(ctx) {
		var a models.Admin
		if err := cursor.Decode(&a); err != nil {
			return nil, fmt.Errorf("error decoding admin: %w", err)
		}
		admins = append(admins, a)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return admins, nil
}
