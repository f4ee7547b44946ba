package models

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/lakbill/billing-app/internal/validation"
)

// DateLayout is the wire format for all document dates.
const DateLayout = "2006-01-02"

type DocumentType string

const (
	TypeInvoice   DocumentType = "invoice"
	TypeQuotation DocumentType = "quotation"
)

func (t DocumentType) Valid() bool {
	return t == TypeInvoice || t == TypeQuotation
}

// DueDays returns the default payment/validity window for the type:
// quotations are valid 15 days, invoices fall due after 30.
func (t DocumentType) DueDays() int {
	if t == TypeQuotation {
		return 15
	}
	return 30
}

// DefaultSubtitle is the heading printed under the document title.
func (t DocumentType) DefaultSubtitle() string {
	if t == TypeQuotation {
		return "System Maintenance Quotation"
	}
	return "Service Invoice"
}

type CompanyDetails struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	LogoURL string `json:"logoUrl"` // base64 data URL
}

type ClientDetails struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

type LineItem struct {
	ID                 string  `json:"id"`
	Description        string  `json:"description"`
	Quantity           float64 `json:"quantity"`
	UnitPrice          float64 `json:"unitPrice"` // prices in LKR
	DiscountPercentage float64 `json:"discountPercentage"`
}

// NewLineItem returns an empty line with a fresh id, quantity 1.
func NewLineItem() LineItem {
	return LineItem{ID: uuid.NewString(), Quantity: 1}
}

type Document struct {
	CompanyDetails CompanyDetails `json:"companyDetails"`
	ClientDetails  ClientDetails  `json:"clientDetails"`
	Number         string         `json:"number"`
	IssueDate      string         `json:"issueDate"`
	DueDate        string         `json:"dueDate"` // "valid until" for quotations
	Items          []LineItem     `json:"items"`
	Notes          string         `json:"notes"`
	TaxRate        float64        `json:"taxRate"` // percentage
	Type           DocumentType   `json:"documentType"`
	Subtitle       string         `json:"subtitle"`
	Terms          string         `json:"termsAndConditions"`
}

// Validate gates both saving and PDF export. A document passes when company
// name/address, client name/address/email, number and both dates are present,
// and every line has a description, a positive quantity and a non-negative price.
func (d *Document) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("company.name", d.CompanyDetails.Name, v)
	validation.Required("company.address", d.CompanyDetails.Address, v)
	validation.Required("client.name", d.ClientDetails.Name, v)
	validation.Required("client.address", d.ClientDetails.Address, v)
	validation.Required("client.email", d.ClientDetails.Email, v)
	validation.Required("number", d.Number, v)
	validation.Required("issueDate", d.IssueDate, v)
	validation.Required("dueDate", d.DueDate, v)
	if len(d.Items) == 0 {
		v["items"] = "required"
	}
	for i, it := range d.Items {
		prefix := "items[" + strconv.Itoa(i) + "]."
		validation.Required(prefix+"description", it.Description, v)
		validation.PositiveFloat(prefix+"quantity", it.Quantity, v)
		validation.NonNegativeFloat(prefix+"unitPrice", it.UnitPrice, v)
		validation.RangeFloat(prefix+"discountPercentage", it.DiscountPercentage, 0, 100, v)
	}
	return v
}

func (d *Document) IsValid() bool { return d.Validate().Empty() }

// DeleteItem removes the line with the given id, preserving order.
func (d *Document) DeleteItem(id string) bool {
	for i, it := range d.Items {
		if it.ID == id {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			return true
		}
	}
	return false
}
