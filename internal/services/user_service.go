package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"salesloop/crm/internal/auth"
	"salesloop/crm/internal/config"
	"salesloop/crm/internal/db"
	"salesloop/crm/internal/models"
)

// ErrUsernameExists is returned when signing up with a username already in use.
var ErrUsernameExists = errors.New("username already registered")

// ErrDomainNotAllowed is returned when the username is outside the allowed email domain.
var ErrDomainNotAllowed = errors.New("email domain not allowed")

// ErrInvalidPassword is returned when login credentials do not match.
var ErrInvalidPassword = errors.New("invalid password")

// IUserService defines the interface for account operations.
type IUserService interface {
	Signup(ctx context.Context, username, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

const usersCollection = "users"

type userService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewUserService creates a new UserService.
func NewUserService(database *mongo.Database, cfg *config.Config) IUserService {
	return &userService{db: database, cfg: cfg}
}

// Signup creates a new account. The username must end with the configured
// email domain; the configured admin username always receives the admin
// role, everyone else signs up as a plain user.
func (s *userService) Signup(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if !strings.HasSuffix(strings.ToLower(username), s.cfg.AllowedEmailDomain) {
		return nil, ErrDomainNotAllowed
	}

	collection := s.db.Collection(usersCollection)
	count, err := collection.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return nil, fmt.Errorf("error checking username uniqueness for %s: %w", username, err)
	}
	if count > 0 {
		return nil, ErrUsernameExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password for %s: %w", username, err)
	}

	role := models.RoleUser
	if s.cfg.AdminUsername != "" && username == s.cfg.AdminUsername {
		role = models.RoleAdmin
	}

	user := &models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}

	err = db.Try(func() error {
		_, insertErr := collection.InsertOne(ctx, user)
		return insertErr
	})
	if err != nil {
		if db.IsMongoDuplicateKeyError(err) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("error inserting user %s: %w", username, err)
	}

	return user, nil
}

// Authenticate verifies username/password. Returns mongo.ErrNoDocuments when
// the account does not exist and ErrInvalidPassword on a bad password.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidPassword
	}
	return user, nil
}

// FindByUsername finds an account by username.
// Returns mongo.ErrNoDocuments if not found.
func (s *userService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding user %s: %w", username, err)
	}
	return &user, nil
}
