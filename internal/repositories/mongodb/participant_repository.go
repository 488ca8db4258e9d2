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

// ParticipantRepository implements the repositories.ParticipantRepository interface
type ParticipantRepository struct {
	collection *mongo.Collection
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *mongo.Database) repositories.ParticipantRepository {
	return &ParticipantRepository{
		collection: db.Collection("participants"),
	}
}

// Create creates a new participant
func (r *ParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	participant.CreatedAt = time.Now()
	participant.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, participant)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		participant.ID = oid
	}
	return nil
}

// FindByID finds a participant by ID
func (r *ParticipantRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Participant, error) {
	var participant models.Participant
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&participant); err != nil {
		return nil, err
	}
	return &participant, nil
}

// FindByIDs finds all participants whose id is in ids
func (r *ParticipantRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Participant, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participants []*models.Participant
	if err := cursor.All(ctx, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}

// FindByEvent finds all participants of an event
func (r *ParticipantRepository) FindByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Participant, error) {
	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"eventId": eventID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participants []*models.Participant
	if err := cursor.All(ctx, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}

// FindEligibleByEvent finds the current draw pool of an event
func (r *ParticipantRepository) FindEligibleByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Participant, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"eventId": eventID, "raffleEligible": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participants []*models.Participant
	if err := cursor.All(ctx, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}

// OptOut records the opt-out reason and flips eligibility off. The
// filter matches only still-eligible participants, so a second opt-out
// (or a concurrent one) reports false instead of overwriting the
// original reason.
func (r *ParticipantRepository) OptOut(ctx context.Context, id primitive.ObjectID, reason string, at time.Time) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "raffleEligible": true},
		bson.M{"$set": bson.M{
			"raffleEligible": false,
			"optOutReason":   reason,
			"optOutAt":       at,
			"updatedAt":      time.Now(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
