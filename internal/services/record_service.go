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

	"salesloop/crm/internal/config"
	"salesloop/crm/internal/models"
)

// IRecordService defines the interface for imported spreadsheet rows.
type IRecordService interface {
	BulkInsert(ctx context.Context, employee string, rows []models.Record) (int, error)
	FindAll(ctx context.Context) ([]models.Record, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Record, error)
	Update(ctx context.Context, id primitive.ObjectID, record models.Record) (*models.Record, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	BulkDelete(ctx context.Context, ids []primitive.ObjectID) (deleted int, failed int)
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

const recordsCollection = "records"

type recordService struct {
	db *mongo.Database
}

// NewRecordService creates a new RecordService.
func NewRecordService(database *mongo.Database) IRecordService {
	return &recordService{db: database}
}

// BulkInsert stores uploaded rows, normalizing each one first so status and
// payment are canonical from the moment of persistence. The employee label
// is stamped on every row. Returns the number of rows inserted.
func (s *recordService) BulkInsert(ctx context.Context, employee string, rows []models.Record) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		r := row.Normalize()
		r.ID = primitive.NewObjectID()
		r.Employee = employee
		r.CreatedAt = now
		r.UpdatedAt = now
		docs = append(docs, r)
	}

	res, err := s.db.Collection(recordsCollection).InsertMany(ctx, docs)
	if err != nil {
		inserted := 0
		if res != nil {
			inserted = len(res.InsertedIDs)
		}
		return inserted, fmt.Errorf("error bulk-inserting %d records: %w", len(docs), err)
	}
	return len(res.InsertedIDs), nil
}

// FindAll returns all imported records, newest first.
func (s *recordService) FindAll(ctx context.Context) ([]models.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(recordsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding records: %w", err)
	}
	return records, nil
}

// FindByIDs returns the records matching the given ids. Missing ids are
// silently absent from the result.
func (s *recordService) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := s.db.Collection(recordsCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("error finding records by ids: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding records: %w", err)
	}
	return records, nil
}

// Update replaces the editable fields of one record, re-normalizing status
// and payment. Returns mongo.ErrNoDocuments if the id matched nothing.
func (s *recordService) Update(ctx context.Context, id primitive.ObjectID, record models.Record) (*models.Record, error) {
	r := record.Normalize()
	set := bson.M{
		"company":        r.Company,
		"contact":        r.Contact,
		"contact_number": r.ContactNumber,
		"email":          r.Email,
		"product_name":   r.ProductName,
		"qty":            r.Qty,
		"price":          r.Price,
		"address":        r.Address,
		"status":         r.Status,
		"payment":        r.Payment,
		"updated_at":     time.Now().UTC(),
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Record
	err := s.db.Collection(recordsCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error updating record %s: %w", id.Hex(), err)
	}
	return &updated, nil
}

// Delete removes one record. Returns mongo.ErrNoDocuments if the id matched
// nothing.
func (s *recordService) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.Collection(recordsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting record %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// BulkDelete removes records one document operation at a time, best-effort.
func (s *recordService) BulkDelete(ctx context.Context, ids []primitive.ObjectID) (int, int) {
	deleted, failed := 0, 0
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			failed++
			config.Logger().WithError(err).WithField("record_id", id.Hex()).Warn("bulk delete: record delete failed")
			continue
		}
		deleted++
	}
	return deleted, failed
}

// DeleteOlderThan purges imported records past the retention age. Used by
// the background cleanup task.
func (s *recordService) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age)
	res, err := s.db.Collection(recordsCollection).DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("error purging records older than %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return res.DeletedCount, nil
}
