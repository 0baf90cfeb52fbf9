package invoice

import (
	"strings"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/types"
	"backoffice/internal/domain/documents/order"
)

const (
	// DefaultPaymentMethod is used for the implicit split when no method is configured.
	DefaultPaymentMethod = "cash"

	// MixedPaymentMethod is stored on documents paid with several methods.
	MixedPaymentMethod = "mixed"
)

// Reconciliation is the validated payment side of a document.
type Reconciliation struct {
	Splits []Payment
	Paid   types.Money
	Status order.PaymentStatus
	Method string
}

// NormalizePayments validates payment splits against total.
//
// With no splits the full total is paid with fallback, unless deferred.
// Amounts must be positive and methods non-empty. The splits may not exceed
// total by more than the rounding tolerance.
func NormalizePayments(total types.Money, splits []Payment, fallback string, deferred bool) (Reconciliation, error) {
	total = types.Round(total)
	fallback = strings.ToLower(strings.TrimSpace(fallback))
	if fallback == "" {
		fallback = DefaultPaymentMethod
	}

	if len(splits) == 0 && !deferred && total.IsPositive() {
		splits = []Payment{{Method: fallback, Amount: total}}
	}

	out := Reconciliation{Paid: types.Zero()}
	methods := make(map[string]struct{}, len(splits))
	for i, p := range splits {
		amount := types.Round(p.Amount)
		if !amount.IsPositive() {
			return Reconciliation{}, apperror.NewInvalidPaymentAmount(i, p.Amount.String())
		}
		method := strings.ToLower(strings.TrimSpace(p.Method))
		if method == "" {
			return Reconciliation{}, apperror.NewInvalidPaymentMethod(i)
		}
		methods[method] = struct{}{}
		out.Splits = append(out.Splits, Payment{Method: method, Amount: amount})
		out.Paid = out.Paid.Add(amount)
	}
	out.Paid = types.Round(out.Paid)

	if out.Paid.GreaterThan(total.Add(types.RoundingTolerance)) {
		return Reconciliation{}, apperror.NewPaymentsExceedTotal(total.StringFixed(types.MoneyScale), out.Paid.StringFixed(types.MoneyScale))
	}

	switch {
	case out.Paid.IsZero():
		out.Status = order.PaymentPending
	case types.WithinTolerance(out.Paid, total):
		out.Status = order.PaymentPaid
	default:
		out.Status = order.PaymentPartial
	}

	switch len(methods) {
	case 0:
		out.Method = fallback
	case 1:
		out.Method = out.Splits[0].Method
	default:
		out.Method = MixedPaymentMethod
	}
	return out, nil
}
