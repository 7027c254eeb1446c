// Package chain defines the wallet/chain client contract the payment
// orchestrator drives. The client itself (wallet bridge, RPC transport,
// token contract) lives outside this codebase; only its interface and
// fixed token facts are known here.
package chain

import (
	"context"
	"errors"
	"math/big"
)

// ErrUserRejected is returned by SubmitTransfer when the user declines
// the transfer in their wallet. It is a normal flow outcome, not a
// system fault.
var ErrUserRejected = errors.New("transfer rejected in wallet")

// ReceiptStatus is the mined outcome of a submitted transaction.
type ReceiptStatus string

const (
	ReceiptStatusSuccess  ReceiptStatus = "success"
	ReceiptStatusReverted ReceiptStatus = "reverted"
)

// Receipt is the confirmation result for a submitted transfer.
type Receipt struct {
	TxHash string
	Status ReceiptStatus
}

// Client submits stable-token transfers and waits for their confirmation.
//
// SubmitTransfer blocks on the wallet's user-interaction prompt; the wait
// is unbounded and cancellable only by the user rejecting in the wallet
// (ErrUserRejected) or the context ending. AwaitConfirmation blocks on
// chain confirmation; its timeout policy belongs to the implementation,
// not the caller.
type Client interface {
	// SubmitTransfer asks the connected wallet to sign and submit a
	// token transfer. It returns the transaction hash once the transfer
	// has been submitted to the chain.
	SubmitTransfer(ctx context.Context, token, recipient string, amount *big.Int) (txHash string, err error)

	// AwaitConfirmation waits until the transaction is mined and
	// returns its receipt. An error means the wait itself failed — it
	// does not mean the transaction failed.
	AwaitConfirmation(ctx context.Context, txHash string) (Receipt, error)
}

// IsUserRejected reports whether err is the wallet-rejection outcome.
func IsUserRejected(err error) bool {
	return errors.Is(err, ErrUserRejected)
}
