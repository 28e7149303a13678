// Package validation provides request-level input validation.
package validation

import (
	"strings"
)

// Amount limits shared by the deposit paths
const (
	MinDepositAmount = 0.000001
	MaxDepositAmount = 10000.00
	MaxReasonLength  = 500
)

// Validator collects field-level validation errors.
type Validator struct {
	Errors map[string]string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error to the validator
func (v *Validator) AddError(field, message string) {
	v.Errors[field] = message
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Required checks that a string is not blank.
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "must not be empty")
}

// DepositAmount validates an amount against the deposit limits.
func (v *Validator) DepositAmount(field string, amount float64) {
	v.Check(amount >= MinDepositAmount, field, "must be greater than zero")
	v.Check(amount <= MaxDepositAmount, field, "exceeds the deposit limit")
}

// Quantity validates an order quantity.
func (v *Validator) Quantity(field string, quantity int) {
	v.Check(quantity >= 1, field, "must be at least 1")
}

// Reason validates a refund reason.
func (v *Validator) Reason(field, reason string) {
	v.Check(len(reason) <= MaxReasonLength, field, "is too long")
}
