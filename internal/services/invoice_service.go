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

	"salesloop/crm/internal/billing"
	"salesloop/crm/internal/models"
)

// IInvoiceService defines the interface for invoice operations.
// Totals are always computed server-side from line items; totals on the
// incoming document are ignored on both create and update, so the stored
// figures can never diverge from the items.
type IInvoiceService interface {
	Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)
	FindAll(ctx context.Context) ([]models.Invoice, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Invoice, error)
	Update(ctx context.Context, id primitive.ObjectID, invoice models.Invoice) (*models.Invoice, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

const invoicesCollection = "invoices"

type invoiceService struct {
	db *mongo.Database
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(database *mongo.Database) IInvoiceService {
	return &invoiceService{db: database}
}

// Create computes totals from the line items and inserts the invoice.
func (s *invoiceService) Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	invoice.ID = primitive.NewObjectID()
	invoice.CreatedAt = time.Now().UTC()
	billing.Apply(invoice)

	if _, err := s.db.Collection(invoicesCollection).InsertOne(ctx, invoice); err != nil {
		return nil, fmt.Errorf("error inserting invoice %s: %w", invoice.EstimateNumber, err)
	}
	return invoice, nil
}

// FindAll returns all invoices, newest first.
func (s *invoiceService) FindAll(ctx context.Context) ([]models.Invoice, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(invoicesCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing invoices: %w", err)
	}
	defer cursor.Close(ctx)

	var invoices []models.Invoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("error decoding invoices: %w", err)
	}
	return invoices, nil
}

// FindByID returns one invoice. Returns mongo.ErrNoDocuments if not found.
func (s *invoiceService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Collection(invoicesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&invoice)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding invoice %s: %w", id.Hex(), err)
	}
	return &invoice, nil
}

// Update replaces the invoice's editable fields and recomputes totals from
// the new line items. Returns mongo.ErrNoDocuments if the id matched nothing.
func (s *invoiceService) Update(ctx context.Context, id primitive.ObjectID, invoice models.Invoice) (*models.Invoice, error) {
	billing.Apply(&invoice)

	set := bson.M{
		"estimate_date":    invoice.EstimateDate,
		"estimate_number":  invoice.EstimateNumber,
		"reference_number": invoice.ReferenceNumber,
		"due_date":         invoice.DueDate,
		"customer_name":    invoice.CustomerName,
		"billing_address":  invoice.BillingAddress,
		"shipping_address": invoice.ShippingAddress,
		"customer_gstin":   invoice.CustomerGSTIN,
		"place_of_supply":  invoice.PlaceOfSupply,
		"items":            invoice.Items,
		"total_taxable":    invoice.TotalTaxable,
		"total_cgst":       invoice.TotalCGST,
		"total_sgst":       invoice.TotalSGST,
		"total":            invoice.Total,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Invoice
	err := s.db.Collection(invoicesCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error updating invoice %s: %w", id.Hex(), err)
	}
	return &updated, nil
}

// Delete removes one invoice. Returns mongo.ErrNoDocuments if the id
// matched nothing.
func (s *invoiceService) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(invoicesCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting invoice %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
