package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nrsport/console-backend/internal/models"
	"github.com/nrsport/console-backend/internal/repositories"
)

// RaffleEventRepository implements the repositories.RaffleEventRepository interface
type RaffleEventRepository struct {
	collection *mongo.Collection
}

// NewRaffleEventRepository creates a new RaffleEventRepository
func NewRaffleEventRepository(db *mongo.Database) repositories.RaffleEventRepository {
	return &RaffleEventRepository{
		collection: db.Collection("raffle_events"),
	}
}

// Create creates a new raffle event
func (r *RaffleEventRepository) Create(ctx context.Context, raffleEvent *models.RaffleEvent) error {
	raffleEvent.CreatedAt = time.Now()
	raffleEvent.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, raffleEvent)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		raffleEvent.ID = oid
	}
	return nil
}

// FindByID finds a raffle event by ID
func (r *RaffleEventRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.RaffleEvent, error) {
	var raffleEvent models.RaffleEvent
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&raffleEvent); err != nil {
		return nil, err
	}
	return &raffleEvent, nil
}

// FindByEvent finds all raffle events of an event, newest first
func (r *RaffleEventRepository) FindByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.RaffleEvent, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"eventId": eventID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var raffleEvents []*models.RaffleEvent
	if err := cursor.All(ctx, &raffleEvents); err != nil {
		return nil, err
	}
	return raffleEvents, nil
}

// Delete deletes a raffle event
func (r *RaffleEventRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
