package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"salesloop/crm/internal/models"
)

func TestComputeLine_BacksOutGST(t *testing.T) {
	line := ComputeLine(models.InvoiceItem{Quantity: 1, Rate: 10000, Discount: 500})

	assert.InDelta(t, 9500.00, line.Inclusive, 0.001)
	assert.InDelta(t, 8050.85, line.Taxable, 0.001)
	assert.InDelta(t, 724.58, line.CGST, 0.001)
	assert.InDelta(t, 724.58, line.SGST, 0.001)
	// The line total reconstructs the GST-inclusive input.
	assert.InDelta(t, 9500.00, line.Total, 0.001)
}

func TestComputeLine_CGSTEqualsSGST(t *testing.T) {
	for _, item := range []models.InvoiceItem{
		{Quantity: 3, Rate: 1234.56, Discount: 0},
		{Quantity: 7, Rate: 99.99, Discount: 12.5},
		{Quantity: 1, Rate: 0.01, Discount: 0},
	} {
		line := ComputeLine(item)
		assert.Equal(t, line.CGST, line.SGST, "item %+v", item)
	}
}

func TestComputeLine_ZeroQuantity(t *testing.T) {
	line := ComputeLine(models.InvoiceItem{Quantity: 0, Rate: 500, Discount: 0})
	assert.Zero(t, line.Inclusive)
	assert.Zero(t, line.Taxable)
	assert.Zero(t, line.CGST)
	assert.Zero(t, line.Total)
}

func TestComputeTotals_SumsRoundedLines(t *testing.T) {
	items := []models.InvoiceItem{
		{Quantity: 1, Rate: 10000, Discount: 500},
		{Quantity: 2, Rate: 250, Discount: 0},
	}

	totals := ComputeTotals(items)

	l1 := ComputeLine(items[0])
	l2 := ComputeLine(items[1])
	assert.InDelta(t, l1.Taxable+l2.Taxable, totals.TotalTaxable, 0.001)
	assert.InDelta(t, l1.CGST+l2.CGST, totals.TotalCGST, 0.001)
	assert.InDelta(t, l1.SGST+l2.SGST, totals.TotalSGST, 0.001)
	assert.InDelta(t, 10000.00, totals.Total, 0.001)
}

func TestComputeTotals_Empty(t *testing.T) {
	totals := ComputeTotals(nil)
	assert.Zero(t, totals.TotalTaxable)
	assert.Zero(t, totals.Total)
}

func TestApply_OverwritesClientTotals(t *testing.T) {
	inv := &models.Invoice{
		Items: []models.InvoiceItem{{Quantity: 1, Rate: 1180, Discount: 0}},
		// Bogus client-supplied totals must be discarded.
		TotalTaxable: 1, TotalCGST: 2, TotalSGST: 3, Total: 4,
	}

	Apply(inv)

	assert.InDelta(t, 1000.00, inv.TotalTaxable, 0.001)
	assert.InDelta(t, 90.00, inv.TotalCGST, 0.001)
	assert.InDelta(t, 90.00, inv.TotalSGST, 0.001)
	assert.InDelta(t, 1180.00, inv.Total, 0.001)
}
