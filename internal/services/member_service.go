package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"salesloop/crm/internal/models"
)

// IMemberService defines the interface for the employee roster.
type IMemberService interface {
	Create(ctx context.Context, member *models.Member) (*models.Member, error)
	FindAll(ctx context.Context, activeOnly bool) ([]models.Member, error)
	Update(ctx context.Context, id primitive.ObjectID, member models.Member) (*models.Member, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

const membersCollection = "members"

type memberService struct {
	db *mongo.Database
}

// NewMemberService creates a new MemberService.
func NewMemberService(database *mongo.Database) IMemberService {
	return &memberService{db: database}
}

func (s *memberService) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	now := time.Now().UTC()
	member.ID = primitive.NewObjectID()
	member.CreatedAt = now
	member.UpdatedAt = now

	if _, err := s.db.Collection(membersCollection).InsertOne(ctx, member); err != nil {
		return nil, fmt.Errorf("error inserting member %s: %w", member.Email, err)
	}
	return member, nil
}

// FindAll lists members. With activeOnly set, only members without a
// relieved date are returned.
func (s *memberService) FindAll(ctx context.Context, activeOnly bool) ([]models.Member, error) {
	filter := bson.M{}
	if activeOnly {
		filter["relieved_date"] = bson.M{"$exists": false}
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.db.Collection(membersCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}
	defer cursor.Close(ctx)

	var members []models.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("error decoding members: %w", err)
	}
	return members, nil
}

func (s *memberService) Update(ctx context.Context, id primitive.ObjectID, member models.Member) (*models.Member, error) {
	set := bson.M{
		"name":         member.Name,
		"phone":        member.Phone,
		"email":        member.Email,
		"joining_date": member.JoiningDate,
		"updated_at":   time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if member.RelievedDate != nil {
		set["relieved_date"] = *member.RelievedDate
	} else {
		update["$unset"] = bson.M{"relieved_date": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Member
	err := s.db.Collection(membersCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).
		Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error updating member %s: %w", id.Hex(), err)
	}
	return &updated, nil
}

func (s *memberService) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(membersCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting member %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
