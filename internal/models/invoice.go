package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvoiceItem is a single line item on an invoice or estimate.
// Rate is the GST-inclusive unit price; Discount is a flat currency amount.
type InvoiceItem struct {
	Name     string  `bson:"name" json:"name"`
	HSN      string  `bson:"hsn,omitempty" json:"hsn,omitempty"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Rate     float64 `bson:"rate" json:"rate"`
	Discount float64 `bson:"discount" json:"discount"`
}

// Invoice represents a GST invoice / estimate issued to a customer.
// The four total fields are derived from Items and are recomputed on every
// write; values sent by clients are ignored.
type Invoice struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	EstimateDate    string             `bson:"estimate_date" json:"estimateDate"`
	EstimateNumber  string             `bson:"estimate_number" json:"estimateNumber"`
	ReferenceNumber string             `bson:"reference_number,omitempty" json:"referenceNumber,omitempty"`
	DueDate         string             `bson:"due_date" json:"dueDate"`
	CustomerName    string             `bson:"customer_name" json:"customerName"`
	BillingAddress  string             `bson:"billing_address" json:"billingAddress"`
	ShippingAddress string             `bson:"shipping_address" json:"shippingAddress"`
	CustomerGSTIN   string             `bson:"customer_gstin" json:"customerGSTIN"`
	PlaceOfSupply   string             `bson:"place_of_supply" json:"placeOfSupply"`
	Items           []InvoiceItem      `bson:"items" json:"items"`
	TotalTaxable    float64            `bson:"total_taxable" json:"totalTaxable"`
	TotalCGST       float64            `bson:"total_cgst" json:"totalCGST"`
	TotalSGST       float64            `bson:"total_sgst" json:"totalSGST"`
	Total           float64            `bson:"total" json:"total"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
}
