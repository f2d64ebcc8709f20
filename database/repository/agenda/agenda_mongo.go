package agendaRepo

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

// MongoAgendaStore implements AgendaStore using MongoDB.
type MongoAgendaStore struct {
	agendaColl  *mongo.Collection
	blockedColl *mongo.Collection
}

// NewMongoAgendaStore constructs a new instance of MongoAgendaStore.
func NewMongoAgendaStore() AgendaStore {
	db := database.DB()
	return &MongoAgendaStore{
		agendaColl:  db.Collection("workshop_agendas"),
		blockedColl: db.Collection("blocked_slots"),
	}
}

func (repo *MongoAgendaStore) GetAgenda(ctx context.Context, workshopID string) (*models.WorkshopAgenda, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var agenda models.WorkshopAgenda
	filter := bson.M{"workshop_id": workshopID}
	if err := repo.agendaColl.FindOne(ctx, filter).Decode(&agenda); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("error fetching agenda for workshop %s: %w", workshopID, err)
	}
	return &agenda, nil
}

func (repo *MongoAgendaStore) UpsertAgenda(ctx context.Context, agenda *models.WorkshopAgenda) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"workshop_id": agenda.WorkshopID}
	update := bson.M{"$set": agenda}
	opts := options.Update().SetUpsert(true)
	if _, err := repo.agendaColl.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("error upserting agenda for workshop %s: %w", agenda.WorkshopID, err)
	}
	return nil
}

func (repo *MongoAgendaStore) AddBlockedSlot(ctx context.Context, slot *models.BlockedSlot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.blockedColl.InsertOne(ctx, slot); err != nil {
		return fmt.Errorf("error creating blocked slot: %w", err)
	}
	return nil
}

func (repo *MongoAgendaStore) RemoveBlockedSlot(ctx context.Context, workshopID string, date time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"workshop_id": workshopID, "date": date}
	if _, err := repo.blockedColl.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("error removing blocked slot: %w", err)
	}
	return nil
}

func (repo *MongoAgendaStore) ListBlockedSlots(ctx context.Context, workshopID string, from, to time.Time) ([]models.BlockedSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"workshop_id": workshopID,
		"date":        bson.M{"$gte": from, "$lt": to},
	}
	cursor, err := repo.blockedColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching blocked slots: %w", err)
	}
	defer cursor.Close(ctx)

	var blocked []models.BlockedSlot
	for cursor.Next(ctx) {
		var b models.BlockedSlot
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding blocked slot: %w", err)
		}
		blocked = append(blocked, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return blocked, nil
}

func (repo *MongoAgendaStore) PruneBlockedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.blockedColl.DeleteMany(ctx, bson.M{"date": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("error pruning blocked slots: %w", err)
	}
	return res.DeletedCount, nil
}
