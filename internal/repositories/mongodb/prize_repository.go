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

// PrizeRepository implements the repositories.PrizeRepository interface
type PrizeRepository struct {
	collection *mongo.Collection
}

// NewPrizeRepository creates a new PrizeRepository
func NewPrizeRepository(db *mongo.Database) repositories.PrizeRepository {
	return &PrizeRepository{
		collection: db.Collection("prizes"),
	}
}

// Create creates a new prize
func (r *PrizeRepository) Create(ctx context.Context, prize *models.Prize) error {
	prize.CreatedAt = time.Now()
	prize.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, prize)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		prize.ID = oid
	}
	return nil
}

// FindByID finds a prize by ID
func (r *PrizeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Prize, error) {
	var prize models.Prize
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&prize); err != nil {
		return nil, err
	}
	return &prize, nil
}

// FindByRaffleEvent finds all prizes of a raffle event ordered by round
func (r *PrizeRepository) FindByRaffleEvent(ctx context.Context, raffleEventID primitive.ObjectID) ([]*models.Prize, error) {
	opts := options.Find().SetSort(bson.D{{Key: "roundNumber", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"raffleEventId": raffleEventID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var prizes []*models.Prize
	if err := cursor.All(ctx, &prizes); err != nil {
		return nil, err
	}
	return prizes, nil
}

// DeleteByRaffleEvent deletes all prizes of a raffle event
func (r *PrizeRepository) DeleteByRaffleEvent(ctx context.Context, raffleEventID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"raffleEventId": raffleEventID})
	return err
}
