package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nrsport/console-backend/internal/apperrors"
	"github.com/nrsport/console-backend/internal/models"
	"github.com/nrsport/console-backend/internal/repositories"
)

// WinnerRepository implements the repositories.WinnerRepository interface
type WinnerRepository struct {
	collection *mongo.Collection
}

// NewWinnerRepository creates a new WinnerRepository. A unique index on
// (prizeId, participantId) is the storage-level arbiter of concurrent
// confirms: the second writer of the same pair loses.
func NewWinnerRepository(db *mongo.Database) repositories.WinnerRepository {
	collection := db.Collection("winners")

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = collection.Indexes().CreateOne(indexCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "prizeId", Value: 1}, {Key: "participantId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &WinnerRepository{collection: collection}
}

// CreateMany persists a confirmed winner set all-or-nothing inside a
// transaction. A duplicate key means another client confirmed one of
// these participants first; the whole set is rejected, never merged.
func (r *WinnerRepository) CreateMany(ctx context.Context, winners []*models.Winner) error {
	docs := make([]interface{}, 0, len(winners))
	now := time.Now()
	for _, w := range winners {
		w.CreatedAt = now
		docs = append(docs, w)
	}

	client := r.collection.Database().Client()
	session, err := client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return r.collection.InsertMany(sc, docs)
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Wrap(apperrors.CodeConcurrentMutation, "winner set already confirmed by another client", err)
		}
		return err
	}
	return nil
}

// FindByPrize finds confirmed winners of a prize
func (r *WinnerRepository) FindByPrize(ctx context.Context, prizeID primitive.ObjectID) ([]*models.Winner, error) {
	return r.find(ctx, bson.M{"prizeId": prizeID})
}

// FindByRaffleEvent finds confirmed winners across a raffle event
func (r *WinnerRepository) FindByRaffleEvent(ctx context.Context, raffleEventID primitive.ObjectID) ([]*models.Winner, error) {
	return r.find(ctx, bson.M{"raffleEventId": raffleEventID})
}

// FindByEvent finds confirmed winners across a whole event
func (r *WinnerRepository) FindByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Winner, error) {
	return r.find(ctx, bson.M{"eventId": eventID})
}

func (r *WinnerRepository) find(ctx context.Context, filter bson.M) ([]*models.Winner, error) {
	opts := options.Find().SetSort(bson.M{"drawnAt": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var winners []*models.Winner
	if err := cursor.All(ctx, &winners); err != nil {
		return nil, err
	}
	return winners, nil
}

// WinnerParticipantIDs returns the ids of participants that already
// hold a confirmed win within the no-repeat scope.
func (r *WinnerRepository) WinnerParticipantIDs(ctx context.Context, scope models.NoRepeatScope, raffleEventID, eventID primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	filter := bson.M{"raffleEventId": raffleEventID}
	if scope == models.NoRepeatScopeEvent {
		filter = bson.M{"eventId": eventID}
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetProjection(bson.M{"participantId": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	ids := make(map[primitive.ObjectID]bool)
	for cursor.Next(ctx) {
		var doc struct {
			ParticipantID primitive.ObjectID `bson:"participantId"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids[doc.ParticipantID] = true
	}
	return ids, cursor.Err()
}

// DeleteByPrize deletes all winners of one prize, reopening it for a
// fresh draw
func (r *WinnerRepository) DeleteByPrize(ctx context.Context, prizeID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"prizeId": prizeID})
	return err
}

// DeleteByRaffleEvent deletes all winners of a raffle event
func (r *WinnerRepository) DeleteByRaffleEvent(ctx context.Context, raffleEventID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"raffleEventId": raffleEventID})
	return err
}
