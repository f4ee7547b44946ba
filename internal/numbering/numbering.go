// Package numbering produces document numbers that are unique and sortable
// within a (type, year, month) scope. The shape of the number is configuration,
// not code: the default scheme yields INV-202508-001, while a "/" separator
// with a custom prefix and split date yields the KP/2025/08/054 style.
package numbering

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lakbill/billing-app/internal/models"
)

type Scheme struct {
	InvoicePrefix   string
	QuotationPrefix string
	Separator       string
	// SplitDate renders year and month as separate segments (KP/2025/08/)
	// instead of a joined YYYYMM block (INV-202508-).
	SplitDate bool
	SeqWidth  int
}

func DefaultScheme() Scheme {
	return Scheme{
		InvoicePrefix:   "INV",
		QuotationPrefix: "QTN",
		Separator:       "-",
		SeqWidth:        3,
	}
}

func (s Scheme) prefixFor(t models.DocumentType) string {
	if t == models.TypeQuotation {
		return s.QuotationPrefix
	}
	return s.InvoicePrefix
}

// ScopePrefix is everything before the sequence segment, separator included.
func (s Scheme) ScopePrefix(t models.DocumentType, now time.Time) string {
	year, month := now.Year(), int(now.Month())
	if s.SplitDate {
		return fmt.Sprintf("%s%s%d%s%02d%s", s.prefixFor(t), s.Separator, year, s.Separator, month, s.Separator)
	}
	return fmt.Sprintf("%s%s%d%02d%s", s.prefixFor(t), s.Separator, year, month, s.Separator)
}

// Next scans the numbers of existing documents for the current scope and
// returns the scope prefix with the next sequence, zero-padded to SeqWidth.
// A fresh scope (new month, new type, empty store) starts at 1. Uniqueness
// assumes a single writer; the store serializes callers.
func (s Scheme) Next(existing []models.Document, t models.DocumentType, now time.Time) string {
	scope := s.ScopePrefix(t, now)
	maxSeq := 0
	for _, doc := range existing {
		if !strings.HasPrefix(doc.Number, scope) {
			continue
		}
		segs := strings.Split(doc.Number, s.Separator)
		// unparsable or missing trailing segment counts as 0
		n, _ := strconv.Atoi(segs[len(segs)-1])
		if n > maxSeq {
			maxSeq = n
		}
	}
	return scope + fmt.Sprintf("%0*d", s.SeqWidth, maxSeq+1)
}
