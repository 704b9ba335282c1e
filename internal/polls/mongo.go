package polls

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"livepoll/internal/models"
)

type mongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore returns a Store backed by the given Mongo collection.
func NewMongoStore(coll *mongo.Collection) Store {
	return &mongoStore{coll: coll}
}

func (s *mongoStore) Create(ctx context.Context, req models.CreatePollRequest) (*models.Poll, error) {
	poll := normalize(req)
	poll.ID = primitive.NewObjectID()

	if _, err := s.coll.InsertOne(ctx, poll); err != nil {
		return nil, fmt.Errorf("%w: insert poll: %v", ErrUnavailable, err)
	}
	return &poll, nil
}

func (s *mongoStore) ByOwner(ctx context.Context, username string) ([]models.Poll, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := s.coll.Find(ctx, bson.M{"teacherUserName": username}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: find polls: %v", ErrUnavailable, err)
	}
	defer cur.Close(ctx)

	polls := []models.Poll{}
	for cur.Next(ctx) {
		var poll models.Poll
		if err := cur.Decode(&poll); err != nil {
			return nil, fmt.Errorf("%w: decode poll: %v", ErrUnavailable, err)
		}
		polls = append(polls, poll)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate polls: %v", ErrUnavailable, err)
	}
	return polls, nil
}

func (s *mongoStore) ByID(ctx context.Context, id string) (*models.Poll, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var poll models.Poll
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&poll)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find poll: %v", ErrUnavailable, err)
	}
	return &poll, nil
}

// IncrementVote bumps exactly one option's counter with a positional $inc, the
// only place concurrent-mutation safety matters; Mongo's atomic update covers it.
func (s *mongoStore) IncrementVote(ctx context.Context, pollID string, optionID int) (*models.Poll, error) {
	oid, err := primitive.ObjectIDFromHex(pollID)
	if err != nil {
		return nil, ErrNotFound
	}

	updateOptions := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var poll models.Poll
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "options.id": optionID},
		bson.M{"$inc": bson.M{"options.$.votes": 1}},
		updateOptions,
	).Decode(&poll)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: increment vote: %v", ErrUnavailable, err)
	}
	return &poll, nil
}
