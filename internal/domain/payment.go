// Package domain contains core business types and interfaces.
//
// This file defines the payment flow status enum used by the transaction
// orchestrator. The lifecycle is:
//
//	idle -> confirming -> pending -> success | error
//
// with error -> idle (retry) and success -> idle (dismiss).
package domain

// PaymentStatus is the state of one in-flight payment flow.
type PaymentStatus string

const (
	PaymentStatusIdle       PaymentStatus = "idle"
	PaymentStatusConfirming PaymentStatus = "confirming" // waiting on wallet approval
	PaymentStatusPending    PaymentStatus = "pending"    // submitted, waiting on chain confirmation
	PaymentStatusSuccess    PaymentStatus = "success"
	PaymentStatusError      PaymentStatus = "error"
)

// Terminal reports whether the status ends a flow.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusError
}
