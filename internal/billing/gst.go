// Package billing implements the GST computation for invoices and
// estimates. Rates are GST-inclusive: the 18% tax (split evenly into 9%
// CGST + 9% SGST for intra-state supply) is backed out of each line's
// discounted total.
package billing

import (
	"github.com/shopspring/decimal"

	"salesloop/crm/internal/models"
)

var (
	gstDivisor = decimal.RequireFromString("1.18") // 18% GST, inclusive pricing
	halfRate   = decimal.RequireFromString("0.09") // 9% CGST = 9% SGST
)

// LineAmounts holds the derived figures for a single invoice line.
// Every field is rounded half-even to 2 decimal places.
type LineAmounts struct {
	Inclusive float64 // quantity × rate − discount
	Taxable   float64 // inclusive / 1.18
	CGST      float64
	SGST      float64
	Total     float64 // equals Inclusive: the line reconstructs its input
}

// Totals holds the invoice-level sums across all lines. Each field is the
// sum of the corresponding already-rounded per-line figure, so the stored
// totals never drift from what a reader summing the lines would get.
type Totals struct {
	TotalTaxable float64
	TotalCGST    float64
	TotalSGST    float64
	Total        float64
}

// ComputeLine derives the taxable value and tax split for one line item.
func ComputeLine(item models.InvoiceItem) LineAmounts {
	qty := decimal.NewFromInt(int64(item.Quantity))
	rate := decimal.NewFromFloat(item.Rate)
	discount := decimal.NewFromFloat(item.Discount)

	inclusive := qty.Mul(rate).Sub(discount)
	taxable := inclusive.Div(gstDivisor)
	half := taxable.Mul(halfRate)

	round := func(d decimal.Decimal) float64 {
		f, _ := d.RoundBank(2).Float64()
		return f
	}

	return LineAmounts{
		Inclusive: round(inclusive),
		Taxable:   round(taxable),
		CGST:      round(half),
		SGST:      round(half),
		Total:     round(inclusive),
	}
}

// ComputeTotals sums the per-line amounts across all items.
func ComputeTotals(items []models.InvoiceItem) Totals {
	var taxable, cgst, sgst, total decimal.Decimal
	for _, item := range items {
		line := ComputeLine(item)
		taxable = taxable.Add(decimal.NewFromFloat(line.Taxable))
		cgst = cgst.Add(decimal.NewFromFloat(line.CGST))
		sgst = sgst.Add(decimal.NewFromFloat(line.SGST))
		total = total.Add(decimal.NewFromFloat(line.Total))
	}

	toFloat := func(d decimal.Decimal) float64 {
		f, _ := d.Float64()
		return f
	}

	return Totals{
		TotalTaxable: toFloat(taxable),
		TotalCGST:    toFloat(cgst),
		TotalSGST:    toFloat(sgst),
		Total:        toFloat(total),
	}
}

// Apply writes the computed totals onto an invoice, replacing whatever the
// client sent.
func Apply(inv *models.Invoice) {
	t := ComputeTotals(inv.Items)
	inv.TotalTaxable = t.TotalTaxable
	inv.TotalCGST = t.TotalCGST
	inv.TotalSGST = t.TotalSGST
	inv.Total = t.Total
}
