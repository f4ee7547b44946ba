package services

import (
	"github.com/lakbill/billing-app/internal/models"
)

// Totals are the derived amounts for a document. No rounding is applied here;
// presentation (PDF, renderer) rounds at display time.
type Totals struct {
	Gross      float64 `json:"grossTotal"`
	Discount   float64 `json:"discountTotal"`
	Net        float64 `json:"netAmount"`
	Tax        float64 `json:"taxAmount"`
	GrandTotal float64 `json:"grandTotal"`
}

// ComputeTotals derives gross, discount, net, tax and grand total from the
// line items and tax rate. Pure and deterministic; callers recompute it after
// every mutation instead of caching.
func ComputeTotals(items []models.LineItem, taxRatePercent float64) Totals {
	var t Totals
	for _, it := range items {
		lineGross := it.Quantity * it.UnitPrice
		t.Gross += lineGross
		t.Discount += lineGross * (it.DiscountPercentage / 100)
	}
	t.Net = t.Gross - t.Discount
	t.Tax = t.Net * (taxRatePercent / 100)
	t.GrandTotal = t.Net + t.Tax
	return t
}
