package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record is a raw imported row, kept close to the spreadsheet shape:
// quantity and price stay as strings so malformed cells survive import and
// can be fixed up during reconciliation instead of being dropped.
type Record struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Company       string             `bson:"company" json:"company"`
	Contact       string             `bson:"contact" json:"contact"`
	ContactNumber string             `bson:"contact_number" json:"contactNumber"`
	Email         string             `bson:"email" json:"email"`
	ProductName   string             `bson:"product_name" json:"productName"`
	Qty           string             `bson:"qty" json:"qty"`
	Price         string             `bson:"price" json:"price"`
	Address       string             `bson:"address" json:"address"`
	Status        string             `bson:"status" json:"status"`
	Payment       string             `bson:"payment" json:"payment"`
	Employee      string             `bson:"employee,omitempty" json:"employee,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Normalize trims every text field and coerces status and payment to their
// canonical labels.
func (r Record) Normalize() Record {
	r.Company = strings.TrimSpace(r.Company)
	r.Contact = strings.TrimSpace(r.Contact)
	r.ContactNumber = strings.TrimSpace(r.ContactNumber)
	r.Email = strings.TrimSpace(r.Email)
	r.ProductName = strings.TrimSpace(r.ProductName)
	r.Qty = strings.TrimSpace(r.Qty)
	r.Price = strings.TrimSpace(r.Price)
	r.Address = strings.TrimSpace(r.Address)
	r.Status = string(NormalizeStatus(r.Status))
	r.Payment = string(NormalizePayment(r.Payment))
	return r
}

// MergeKey returns the reconciliation identity of the row.
func (r Record) MergeKey() string {
	return MergeKey(r.Email, r.ProductName)
}

// DuplicateRecordIDs returns the ids of every record sharing a merge key
// with at least one other record. All members of a duplicate group are
// flagged, regardless of slice order.
func DuplicateRecordIDs(records []Record) []primitive.ObjectID {
	groups := make(map[string][]primitive.ObjectID, len(records))
	for _, r := range records {
		key := r.MergeKey()
		groups[key] = append(groups[key], r.ID)
	}

	var dups []primitive.ObjectID
	for _, ids := range groups {
		if len(ids) > 1 {
			dups = append(dups, ids...)
		}
	}
	return dups
}
