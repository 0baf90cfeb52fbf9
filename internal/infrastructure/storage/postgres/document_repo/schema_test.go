package document_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderSchema_IncludesShippingColumns(t *testing.T) {
	for _, col := range []string{"tracking_number", "shipping_method", "delivered_at", "payment_status", "invoice_id", "version"} {
		assert.True(t, orderSchema.Has(col), col)
	}
	assert.False(t, orderSchema.Has("items"))
	assert.Equal(t, "order_items", orderItemSchema.Table())
	assert.True(t, orderItemSchema.Has("picked_quantity"))
	assert.False(t, orderItemSchema.Versioned())
}

func TestInvoiceSchema_NumberingColumns(t *testing.T) {
	for _, col := range []string{"invoice_type", "point_of_sale", "invoice_number", "authorization_code"} {
		assert.True(t, invoiceSchema.Has(col), col)
	}
	assert.False(t, invoiceSchema.Has("payments"))
	assert.True(t, invoiceItemSchema.Has("line_no"))
}

func TestCreditNoteSchema_SequenceColumns(t *testing.T) {
	assert.True(t, creditNoteSchema.Has("year"))
	assert.True(t, creditNoteSchema.Has("sequence"))
	assert.True(t, creditNoteSchema.SoftDelete())
	assert.True(t, returnItemSchema.Has("condition"))
	assert.True(t, receptionItemSchema.Has("unit_cost"))
}
