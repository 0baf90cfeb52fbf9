package apperror

import (
	"fmt"
	"net/http"
)

// Inventory, order, invoicing and returns codes.
const (
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeInvalidQuantity     = "INVALID_QUANTITY"
	CodeProductPriceMissing = "PRODUCT_PRICE_MISSING"

	CodeInvalidOrderTransition = "INVALID_ORDER_TRANSITION"
	CodeOrderNotFound          = "ORDER_NOT_FOUND"
	CodeOrderAlreadyInvoiced   = "ORDER_ALREADY_INVOICED"
	CodeOrderWithoutItems      = "ORDER_WITHOUT_ITEMS"
	CodeOrderCancelled         = "ORDER_CANCELLED"
	CodeOrderClosed            = "ORDER_CLOSED"

	CodeInvalidPaymentAmount = "INVALID_PAYMENT_AMOUNT"
	CodeInvalidPaymentMethod = "INVALID_PAYMENT_METHOD"
	CodePaymentsExceedTotal  = "PAYMENTS_EXCEED_TOTAL"

	CodeReturnNotFound        = "RETURN_NOT_FOUND"
	CodeReturnAlreadyApproved = "RETURN_ALREADY_APPROVED"
	CodeReturnInvalidState    = "RETURN_INVALID_STATE"
	CodeReturnWithoutItems    = "RETURN_WITHOUT_ITEMS"
	CodeReturnTotalInvalid    = "RETURN_TOTAL_INVALID"

	CodeReceptionNotFound        = "RECEPTION_NOT_FOUND"
	CodeReceptionAlreadyApproved = "RECEPTION_ALREADY_APPROVED"
	CodeReceptionHasNoItems      = "RECEPTION_HAS_NO_ITEMS"
)

// NewInsufficientStock creates a stock shortage error
func NewInsufficientStock(productID string, requested, available int64) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    "Insufficient stock",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"product_id": productID,
			"requested":  requested,
			"available":  available,
		},
	}
}

// NewInvalidQuantity is returned for non-positive quantities.
func NewInvalidQuantity(quantity int64) *AppError {
	return New(CodeInvalidQuantity, http.StatusBadRequest, "Quantity must be a positive integer").
		WithDetail("quantity", quantity)
}

func NewProductPriceMissing(productID string) *AppError {
	return NewBusinessRule(CodeProductPriceMissing, "Product has no sale price").
		WithDetail("product_id", productID)
}

// NewInvalidOrderTransition is returned when the status graph forbids from -> to.
func NewInvalidOrderTransition(from, to string) *AppError {
	return New(CodeInvalidOrderTransition, http.StatusConflict,
		fmt.Sprintf("Order cannot move from %q to %q", from, to)).
		WithDetail("from", from).
		WithDetail("to", to)
}

func NewOrderNotFound(orderID string) *AppError {
	return New(CodeOrderNotFound, http.StatusNotFound, "Order not found").
		WithDetail("order_id", orderID)
}

func NewOrderAlreadyInvoiced(orderID, invoiceID string) *AppError {
	return New(CodeOrderAlreadyInvoiced, http.StatusConflict, "Order already has an invoice").
		WithDetail("order_id", orderID).
		WithDetail("invoice_id", invoiceID)
}

func NewOrderWithoutItems(orderID string) *AppError {
	return NewBusinessRule(CodeOrderWithoutItems, "Order has no items").
		WithDetail("order_id", orderID)
}

func NewOrderCancelled(orderID string) *AppError {
	return NewBusinessRule(CodeOrderCancelled, "Order is cancelled").
		WithDetail("order_id", orderID)
}

// NewOrderClosed is returned when picking is attempted on a finished order.
func NewOrderClosed(orderID, status string) *AppError {
	return NewBusinessRule(CodeOrderClosed, "Order is closed").
		WithDetail("order_id", orderID).
		WithDetail("status", status)
}

func NewInvalidPaymentAmount(index int, amount string) *AppError {
	return New(CodeInvalidPaymentAmount, http.StatusBadRequest, "Payment amount must be positive").
		WithDetail("index", index).
		WithDetail("amount", amount)
}

func NewInvalidPaymentMethod(index int) *AppError {
	return New(CodeInvalidPaymentMethod, http.StatusBadRequest, "Payment method is required").
		WithDetail("index", index)
}

// NewPaymentsExceedTotal is returned when the splits add up to more than the document total.
func NewPaymentsExceedTotal(total, paid string) *AppError {
	return NewBusinessRule(CodePaymentsExceedTotal, "Payments exceed document total").
		WithDetail("total", total).
		WithDetail("paid", paid)
}

func NewReturnNotFound(returnID string) *AppError {
	return New(CodeReturnNotFound, http.StatusNotFound, "Return not found").
		WithDetail("return_id", returnID)
}

func NewReturnAlreadyApproved(returnID string) *AppError {
	return New(CodeReturnAlreadyApproved, http.StatusConflict, "Return already approved").
		WithDetail("return_id", returnID)
}

func NewReturnInvalidState(returnID, status string) *AppError {
	return New(CodeReturnInvalidState, http.StatusConflict,
		fmt.Sprintf("Return in status %q cannot be processed", status)).
		WithDetail("return_id", returnID).
		WithDetail("status", status)
}

func NewReturnWithoutItems(returnID string) *AppError {
	return NewBusinessRule(CodeReturnWithoutItems, "Return has no items").
		WithDetail("return_id", returnID)
}

func NewReturnTotalInvalid(returnID, total string) *AppError {
	return NewBusinessRule(CodeReturnTotalInvalid, "Return total must be positive").
		WithDetail("return_id", returnID).
		WithDetail("total", total)
}

func NewReceptionNotFound(receptionID string) *AppError {
	return New(CodeReceptionNotFound, http.StatusNotFound, "Reception not found").
		WithDetail("reception_id", receptionID)
}

func NewReceptionAlreadyApproved(receptionID string) *AppError {
	return New(CodeReceptionAlreadyApproved, http.StatusConflict, "Reception already approved").
		WithDetail("reception_id", receptionID)
}

func NewReceptionHasNoItems(receptionID string) *AppError {
	return NewBusinessRule(CodeReceptionHasNoItems, "Reception has no items").
		WithDetail("reception_id", receptionID)
}
