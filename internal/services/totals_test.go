package services

import (
	"math"
	"testing"

	"github.com/lakbill/billing-app/internal/models"
)

const eps = 1e-9

func sampleItems() []models.LineItem {
	return []models.LineItem{
		{ID: "a", Description: "Product A", Quantity: 2, UnitPrice: 1500},
		{ID: "b", Description: "Service B", Quantity: 1, UnitPrice: 7500, DiscountPercentage: 10},
	}
}

func TestComputeTotals(t *testing.T) {
	got := ComputeTotals(sampleItems(), 8)
	if math.Abs(got.Gross-10500) > eps {
		t.Errorf("gross = %v, want 10500", got.Gross)
	}
	if math.Abs(got.Discount-750) > eps {
		t.Errorf("discount = %v, want 750", got.Discount)
	}
	if math.Abs(got.Net-9750) > eps {
		t.Errorf("net = %v, want 9750", got.Net)
	}
	if math.Abs(got.Tax-780) > eps {
		t.Errorf("tax = %v, want 780", got.Tax)
	}
	if math.Abs(got.GrandTotal-10530) > eps {
		t.Errorf("grand = %v, want 10530", got.GrandTotal)
	}
}

func TestComputeTotalsIdentities(t *testing.T) {
	items := []models.LineItem{
		{Quantity: 3, UnitPrice: 123.45, DiscountPercentage: 7.5},
		{Quantity: 0.5, UnitPrice: 99.99},
		{Quantity: 12, UnitPrice: 0},
	}
	got := ComputeTotals(items, 15)
	if math.Abs(got.Net-(got.Gross-got.Discount)) > eps {
		t.Errorf("net != gross - discount: %v vs %v", got.Net, got.Gross-got.Discount)
	}
	if math.Abs(got.GrandTotal-(got.Net+got.Tax)) > eps {
		t.Errorf("grand != net + tax: %v vs %v", got.GrandTotal, got.Net+got.Tax)
	}
}

func TestComputeTotalsDeterministic(t *testing.T) {
	a := ComputeTotals(sampleItems(), 0)
	b := ComputeTotals(sampleItems(), 0)
	if a != b {
		t.Fatalf("identical inputs gave %v and %v", a, b)
	}
	if a.Tax != 0 || a.GrandTotal != a.Net {
		t.Fatalf("zero tax rate should leave grand == net, got %v", a)
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	if got := ComputeTotals(nil, 10); got != (Totals{}) {
		t.Fatalf("empty items should zero all totals, got %v", got)
	}
}
