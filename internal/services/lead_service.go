package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"salesloop/crm/internal/config"
	"salesloop/crm/internal/models"
)

// ILeadService defines the interface for lead operations.
type ILeadService interface {
	Create(ctx context.Context, lead *models.Lead) (*models.Lead, error)
	FindAll(ctx context.Context) ([]models.Lead, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error)
	FindByEmailAndProduct(ctx context.Context, email, productName string) (*models.Lead, error)
	Update(ctx context.Context, id primitive.ObjectID, update LeadUpdate) (*models.Lead, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	BulkDelete(ctx context.Context, ids []primitive.ObjectID) (deleted int, failed int)
}

// LeadUpdate carries the mutable lead fields. Nil pointers are left
// untouched; status and payment strings are coerced to canonical labels.
type LeadUpdate struct {
	Company       *string `json:"company,omitempty"`
	Contact       *string `json:"contact,omitempty"`
	ContactNumber *string `json:"contactNumber,omitempty"`
	Email         *string `json:"email,omitempty"`
	ProductName   *string `json:"productName,omitempty"`
	Quantity      *int    `json:"quantity,omitempty"`
	Value         *string `json:"value,omitempty"`
	Address       *string `json:"address,omitempty"`
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"paymentStatus,omitempty"`
}

const leadsCollection = "leads"

type leadService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewLeadService creates a new LeadService.
func NewLeadService(database *mongo.Database, cfg *config.Config) ILeadService {
	return &leadService{db: database, cfg: cfg}
}

// Create inserts a new lead, coercing status and payment to canonical
// labels and trimming the merge-key fields.
func (s *leadService) Create(ctx context.Context, lead *models.Lead) (*models.Lead, error) {
	lead.ID = primitive.NewObjectID()
	lead.Email = strings.TrimSpace(lead.Email)
	lead.ProductName = strings.TrimSpace(lead.ProductName)
	lead.Status = models.NormalizeStatus(string(lead.Status))
	lead.PaymentStatus = models.NormalizePayment(string(lead.PaymentStatus))
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}

	if _, err := s.db.Collection(leadsCollection).InsertOne(ctx, lead); err != nil {
		return nil, fmt.Errorf("error inserting lead for %s: %w", lead.Email, err)
	}
	return lead, nil
}

// FindAll returns all leads, newest first.
func (s *leadService) FindAll(ctx context.Context) ([]models.Lead, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(leadsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing leads: %w", err)
	}
	defer cursor.Close(ctx)

	var leads []models.Lead
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("error decoding leads: %w", err)
	}
	return leads, nil
}

// FindByID returns one lead. Returns mongo.ErrNoDocuments if not found.
func (s *leadService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error) {
	var lead models.Lead
	err := s.db.Collection(leadsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding lead %s: %w", id.Hex(), err)
	}
	return &lead, nil
}

// FindByEmailAndProduct matches a lead by the reconciliation compound key:
// case-insensitive trimmed email plus trimmed product name. Returns
// mongo.ErrNoDocuments when nothing matches.
func (s *leadService) FindByEmailAndProduct(ctx context.Context, email, productName string) (*models.Lead, error) {
	filter := bson.M{
		"email": bson.M{
			"$regex":   "^" + escapeRegex(strings.TrimSpace(email)) + "$",
			"$options": "i",
		},
		"product_name": strings.TrimSpace(productName),
	}

	var lead models.Lead
	err := s.db.Collection(leadsCollection).FindOne(ctx, filter).Decode(&lead)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error matching lead (%s, %s): %w", email, productName, err)
	}
	return &lead, nil
}

// Update applies a partial update. Returns the updated lead, or
// mongo.ErrNoDocuments if the id matched nothing.
func (s *leadService) Update(ctx context.Context, id primitive.ObjectID, update LeadUpdate) (*models.Lead, error) {
	set := bson.M{}
	setString := func(key string, val *string) {
		if val != nil {
			set[key] = strings.TrimSpace(*val)
		}
	}
	setString("company", update.Company)
	setString("contact", update.Contact)
	setString("contact_number", update.ContactNumber)
	setString("email", update.Email)
	setString("product_name", update.ProductName)
	setString("value", update.Value)
	setString("address", update.Address)
	if update.Quantity != nil {
		set["quantity"] = *update.Quantity
	}
	if update.Status != nil {
		set["status"] = models.NormalizeStatus(*update.Status)
	}
	if update.PaymentStatus != nil {
		set["payment_status"] = models.NormalizePayment(*update.PaymentStatus)
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var lead models.Lead
	err := s.db.Collection(leadsCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&lead)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error updating lead %s: %w", id.Hex(), err)
	}
	return &lead, nil
}

// Delete removes one lead. Returns mongo.ErrNoDocuments if the id matched
// nothing.
func (s *leadService) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(leadsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting lead %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// BulkDelete removes leads one document operation at a time. There is no
// batch atomicity: failures are logged per item and the counts returned.
func (s *leadService) BulkDelete(ctx context.Context, ids []primitive.ObjectID) (int, int) {
	deleted, failed := 0, 0
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			failed++
			config.Logger().WithError(err).WithField("lead_id", id.Hex()).Warn("bulk delete: lead delete failed")
			continue
		}
		deleted++
	}
	return deleted, failed
}

// escapeRegex quotes regex metacharacters so user-supplied emails can be
// matched case-insensitively without becoming patterns.
func escapeRegex(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
