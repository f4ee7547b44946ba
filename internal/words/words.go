// Package words renders monetary amounts as Sri Lankan English phrases using
// the lakh/crore grouping, for the "amount in words" line on printed documents.
package words

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}

var tens = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}

// Convert renders a non-negative LKR amount, e.g. 1500 -> "ONE THOUSAND FIVE
// HUNDRED LKR ONLY". The exact wording (Lakh, Crore, Cents, Only) is fixed:
// already-printed documents carry it.
func Convert(amount float64) string {
	d := decimal.NewFromFloat(amount)
	rupees := d.Floor().IntPart()
	cents := d.Sub(d.Floor()).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	result := toWords(rupees) + " LKR"
	if cents > 0 {
		result += " and " + toWords(cents) + " Cents"
	}
	result += " Only"
	return strings.ToUpper(strings.Join(strings.Fields(result), " "))
}

func toWords(num int64) string {
	if num == 0 {
		return "Zero"
	}
	var b strings.Builder
	if num/10000000 > 0 {
		b.WriteString(toWords(num/10000000) + " Crore ")
		num %= 10000000
	}
	if num/100000 > 0 {
		b.WriteString(toWords(num/100000) + " Lakh ")
		num %= 100000
	}
	if num/1000 > 0 {
		b.WriteString(toWords(num/1000) + " Thousand ")
		num %= 1000
	}
	if num/100 > 0 {
		b.WriteString(toWords(num/100) + " Hundred ")
		num %= 100
	}
	if num > 0 {
		if b.Len() > 0 {
			b.WriteString("and ")
		}
		if num < 20 {
			b.WriteString(ones[num])
		} else {
			b.WriteString(tens[num/10])
			if num%10 > 0 {
				b.WriteString(" " + ones[num%10])
			}
		}
	}
	return strings.TrimSpace(b.String())
}
