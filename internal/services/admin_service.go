package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"salesloop/crm/internal/models"
)

// IAdminService manages the administrator profile card.
type IAdminService interface {
	UpsertByEmail(ctx context.Context, profile models.AdminProfile) (*models.AdminProfile, error)
	FindByEmail(ctx context.Context, email string) (*models.AdminProfile, error)
}

const adminsCollection = "admins"

type adminService struct {
	db *mongo.Database
}

// NewAdminService creates a new AdminService.
func NewAdminService(database *mongo.Database) IAdminService {
	return &adminService{db: database}
}

// UpsertByEmail creates or replaces the profile keyed by email.
func (s *adminService) UpsertByEmail(ctx context.Context, profile models.AdminProfile) (*models.AdminProfile, error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email == "" {
		return nil, fmt.Errorf("admin profile email is required")
	}

	now := time.Now().UTC()
	set := bson.M{
		"name":       profile.Name,
		"role":       profile.Role,
		"email":      email,
		"phone":      profile.Phone,
		"department": profile.Department,
		"location":   profile.Location,
		"updated_at": now,
	}
	if profile.JoiningDate != nil {
		set["joining_date"] = *profile.JoiningDate
	}
	if profile.RelievingDate != nil {
		set["relieving_date"] = *profile.RelievingDate
	}
	if profile.ProfileImage != "" {
		set["profile_image"] = profile.ProfileImage
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var updated models.AdminProfile
	err := s.db.Collection(adminsCollection).
		FindOneAndUpdate(ctx, bson.M{"email": email},
			bson.M{"$set": set, "$setOnInsert": bson.M{"created_at": now}}, opts).
		Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("error upserting admin profile %s: %w", email, err)
	}
	return &updated, nil
}

// FindByEmail returns the profile for the given email.
// Returns mongo.ErrNoDocuments if not found.
func (s *adminService) FindByEmail(ctx context.Context, email string) (*models.AdminProfile, error) {
	var profile models.AdminProfile
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	err := s.db.Collection(adminsCollection).FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding admin profile %s: %w", email, err)
	}
	return &profile, nil
}
