package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/core/types"
	"backoffice/internal/domain/documents/order"
)

func money(s string) types.Money { return types.MustMoney(s) }

func TestNormalizePayments(t *testing.T) {
	total := money("100")

	tests := []struct {
		name       string
		splits     []Payment
		deferred   bool
		wantCode   string
		wantStatus order.PaymentStatus
		wantPaid   string
		wantMethod string
	}{
		{
			name:     "splits exceed total",
			splits:   []Payment{{Method: "cash", Amount: money("60")}, {Method: "card", Amount: money("50")}},
			wantCode: apperror.CodePaymentsExceedTotal,
		},
		{
			name:       "single full payment",
			splits:     []Payment{{Method: "cash", Amount: money("100")}},
			wantStatus: order.PaymentPaid,
			wantPaid:   "100",
			wantMethod: "cash",
		},
		{
			name:       "partial payment",
			splits:     []Payment{{Method: "cash", Amount: money("40")}},
			wantStatus: order.PaymentPartial,
			wantPaid:   "40",
			wantMethod: "cash",
		},
		{
			name:       "mixed methods",
			splits:     []Payment{{Method: "Cash", Amount: money("60")}, {Method: "card", Amount: money("40")}},
			wantStatus: order.PaymentPaid,
			wantPaid:   "100",
			wantMethod: MixedPaymentMethod,
		},
		{
			name:       "within rounding tolerance",
			splits:     []Payment{{Method: "card", Amount: money("100.01")}},
			wantStatus: order.PaymentPaid,
			wantPaid:   "100.01",
			wantMethod: "card",
		},
		{
			name:     "just over tolerance",
			splits:   []Payment{{Method: "card", Amount: money("100.02")}},
			wantCode: apperror.CodePaymentsExceedTotal,
		},
		{
			name:     "zero amount",
			splits:   []Payment{{Method: "cash", Amount: money("0")}},
			wantCode: apperror.CodeInvalidPaymentAmount,
		},
		{
			name:     "negative amount",
			splits:   []Payment{{Method: "cash", Amount: money("-5")}},
			wantCode: apperror.CodeInvalidPaymentAmount,
		},
		{
			name:     "blank method",
			splits:   []Payment{{Method: "  ", Amount: money("5")}},
			wantCode: apperror.CodeInvalidPaymentMethod,
		},
		{
			name:       "implicit full split",
			wantStatus: order.PaymentPaid,
			wantPaid:   "100",
			wantMethod: "transfer",
		},
		{
			name:       "deferred",
			deferred:   true,
			wantStatus: order.PaymentPending,
			wantPaid:   "0",
			wantMethod: "transfer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NormalizePayments(total, tt.splits, "transfer", tt.deferred)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, apperror.HasCode(err, tt.wantCode), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Status)
			assert.True(t, money(tt.wantPaid).Equal(rec.Paid), rec.Paid.String())
			assert.Equal(t, tt.wantMethod, rec.Method)
		})
	}
}

func TestNormalizePayments_DefaultFallback(t *testing.T) {
	rec, err := NormalizePayments(money("12.50"), nil, "", false)
	require.NoError(t, err)
	require.Len(t, rec.Splits, 1)
	assert.Equal(t, DefaultPaymentMethod, rec.Splits[0].Method)
	assert.True(t, money("12.50").Equal(rec.Splits[0].Amount))
}

func TestPriceLines(t *testing.T) {
	rate := money("21")
	items := PriceLines(id.New(), []ManualLine{
		{Description: "a", Quantity: 3, UnitPrice: money("10.00"), DiscountPercent: money("10")},
		{Description: "b", Quantity: 1, UnitPrice: money("0.333"), DiscountPercent: types.Zero()},
	}, rate)
	require.Len(t, items, 2)

	assert.True(t, money("27.00").Equal(items[0].NetAmount))
	assert.True(t, money("5.67").Equal(items[0].VatAmount))
	assert.True(t, money("32.67").Equal(items[0].LineTotal))

	assert.True(t, money("0.33").Equal(items[1].UnitPrice))

	net, vat, total := Totals(items, rate)
	assert.True(t, money("27.33").Equal(net), net.String())
	assert.True(t, money("5.74").Equal(vat), vat.String())
	assert.True(t, money("33.07").Equal(total), total.String())
}

func TestDisplayNumber(t *testing.T) {
	inv := &Invoice{InvoiceType: "B", PointOfSale: 1, Number: 42}
	assert.Equal(t, "B-0001-00000042", inv.DisplayNumber())
}
