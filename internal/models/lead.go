package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeadStatus is the pipeline stage of a lead. Only the canonical labels
// below are ever persisted; anything else coerces to StatusNew.
type LeadStatus string

const (
	StatusNew        LeadStatus = "New"
	StatusProcessing LeadStatus = "Processing"
	StatusDelay      LeadStatus = "Delay"
	StatusCompleted  LeadStatus = "Completed"
	StatusCanceled   LeadStatus = "Canceled"
)

// PaymentStatus is the payment state of a lead.
type PaymentStatus string

const (
	PaymentNotYet       PaymentStatus = "Not Yet"
	PaymentAdvancedPaid PaymentStatus = "Advanced Paid"
	PaymentPaid         PaymentStatus = "Paid"
)

// NormalizeStatus coerces free-form input to a canonical lead status.
// Matching is by trimmed, case-insensitive label; unrecognized input
// (including empty) becomes StatusNew.
func NormalizeStatus(s string) LeadStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "processing":
		return StatusProcessing
	case "delay":
		return StatusDelay
	case "completed":
		return StatusCompleted
	case "canceled":
		return StatusCanceled
	default:
		return StatusNew
	}
}

// NormalizePayment coerces free-form input to a canonical payment status.
// Unrecognized input (including empty) becomes PaymentNotYet.
func NormalizePayment(s string) PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid":
		return PaymentPaid
	case "advanced paid":
		return PaymentAdvancedPaid
	default:
		return PaymentNotYet
	}
}

// Lead is a customer inquiry tracked through the sales pipeline.
type Lead struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Company       string             `bson:"company" json:"company"`
	Contact       string             `bson:"contact" json:"contact"`
	ContactNumber string             `bson:"contact_number" json:"contactNumber"`
	Email         string             `bson:"email" json:"email"`
	ProductName   string             `bson:"product_name" json:"productName"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	Value         string             `bson:"value" json:"value"`
	Address       string             `bson:"address" json:"address"`
	Status        LeadStatus         `bson:"status" json:"status"`
	PaymentStatus PaymentStatus      `bson:"payment_status" json:"paymentStatus"`
	Source        string             `bson:"source,omitempty" json:"source,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}

// MergeKey builds the reconciliation identity for an (email, product) pair:
// email lowercased and trimmed, product name trimmed, joined with a pipe.
func MergeKey(email, productName string) string {
	return strings.ToLower(strings.TrimSpace(email)) + "|" + strings.TrimSpace(productName)
}
