package domain

import (
	"fmt"
	"strings"
)

// ErrorKind is the machine-checkable class of a domain failure. HTTP handlers
// map kinds to status codes; the storage layer never leaks raw driver errors.
type ErrorKind string

const (
	KindValidation        ErrorKind = "VALIDATION"
	KindReferenceNotFound ErrorKind = "REFERENCE_NOT_FOUND"
	KindInsufficientStock ErrorKind = "INSUFFICIENT_STOCK"
	KindSaleNotModifiable ErrorKind = "SALE_NOT_MODIFIABLE"
	KindInvalidStatus     ErrorKind = "INVALID_STATUS"
	KindNotFound          ErrorKind = "NOT_FOUND"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Details []string
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

func NewError(kind ErrorKind, msg string, details ...string) *Error {
	return &Error{Kind: kind, Message: msg, Details: details}
}

func ValidationError(details ...string) *Error {
	return &Error{Kind: KindValidation, Message: "invalid input", Details: details}
}

func NotFound(what, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", what, id)}
}

func ReferenceNotFound(what, id string) *Error {
	return &Error{Kind: KindReferenceNotFound, Message: fmt.Sprintf("referenced %s %s does not exist", what, id)}
}

// InsufficientStock reports a shortfall, carrying requested vs available so
// clients can render the gap without parsing the message.
func InsufficientStock(productID string, requested, available int) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("insufficient stock for product %s", productID),
		Details: []string{fmt.Sprintf("requested %d, available %d", requested, available)},
	}
}

func SaleNotModifiable(saleID, status string) *Error {
	return &Error{
		Kind:    KindSaleNotModifiable,
		Message: fmt.Sprintf("sale %s is %s and no longer accepts line changes", saleID, status),
	}
}

func InvalidStatus(got string) *Error {
	return &Error{
		Kind:    KindInvalidStatus,
		Message: fmt.Sprintf("invalid sale status %q", got),
		Details: []string{"allowed: PENDING, COMPLETED, CANCELLED"},
	}
}
