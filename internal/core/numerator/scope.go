// Package numerator provides domain contracts for legal document numbering.
package numerator

import (
	"fmt"
	"strings"
)

// Scope identifies one independent counter, e.g. "invoice:B:1".
type Scope string

func (s Scope) String() string { return string(s) }

// InvoiceScope keys invoice numbers by invoice type and point of sale.
func InvoiceScope(invoiceType string, pointOfSale int) Scope {
	return Scope(fmt.Sprintf("invoice:%s:%d", strings.ToUpper(invoiceType), pointOfSale))
}

// CreditNoteScope keys credit note numbers by calendar year.
func CreditNoteScope(year int) Scope {
	return Scope(fmt.Sprintf("credit_note:%d", year))
}

// FormatInvoiceNumber renders {type}-{pos:04d}-{number:08d}, e.g. B-0001-00000042.
func FormatInvoiceNumber(invoiceType string, pointOfSale int, number int64) string {
	return fmt.Sprintf("%s-%04d-%08d", strings.ToUpper(invoiceType), pointOfSale, number)
}

// FormatCreditNoteNumber renders NC-{year}-{sequence:04d}, e.g. NC-2025-0007.
func FormatCreditNoteNumber(year int, sequence int64) string {
	return fmt.Sprintf("NC-%d-%04d", year, sequence)
}
