// Package mock provides a chain client for testing and development.
package mock

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/celosoul/celosoul/internal/chain"
	"github.com/google/uuid"
)

// Provider is a mock chain client. With no overrides configured it
// behaves like a healthy chain: transfers submit immediately with a
// synthetic hash and confirm successfully after ConfirmDelay.
type Provider struct {
	logger *slog.Logger

	// Configurable responses for testing
	SubmitTransferHash  string
	SubmitTransferError error
	AwaitReceipt        *chain.Receipt
	AwaitError          error
	ConfirmDelay        time.Duration

	// Call tracking for testing
	mu                  sync.Mutex
	SubmitTransferCalls int
	AwaitCalls          int
	LastRecipient       string
	LastAmount          *big.Int
}

// New creates a mock chain client.
func New(logger *slog.Logger) *Provider {
	return &Provider{
		logger: logger,
	}
}

// SubmitTransfer records the call and returns the configured hash or a
// synthetic one.
func (p *Provider) SubmitTransfer(ctx context.Context, token, recipient string, amount *big.Int) (string, error) {
	p.mu.Lock()
	p.SubmitTransferCalls++
	p.LastRecipient = recipient
	if amount != nil {
		p.LastAmount = new(big.Int).Set(amount)
	}
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.SubmitTransferError != nil {
		return "", p.SubmitTransferError
	}
	if p.SubmitTransferHash != "" {
		return p.SubmitTransferHash, nil
	}

	hash := "0x" + strings.ReplaceAll(uuid.NewString(), "-", "") + strings.Repeat("0", 32)
	p.logger.Debug("mock transfer submitted", "token", token, "recipient", recipient, "tx_hash", hash)
	return hash, nil
}

// AwaitConfirmation returns the configured receipt or a success receipt
// after ConfirmDelay.
func (p *Provider) AwaitConfirmation(ctx context.Context, txHash string) (chain.Receipt, error) {
	p.mu.Lock()
	p.AwaitCalls++
	p.mu.Unlock()

	if p.ConfirmDelay > 0 {
		select {
		case <-ctx.Done():
			return chain.Receipt{}, fmt.Errorf("confirmation wait canceled: %w", ctx.Err())
		case <-time.After(p.ConfirmDelay):
		}
	}

	if p.AwaitError != nil {
		return chain.Receipt{}, p.AwaitError
	}
	if p.AwaitReceipt != nil {
		r := *p.AwaitReceipt
		if r.TxHash == "" {
			r.TxHash = txHash
		}
		return r, nil
	}

	return chain.Receipt{TxHash: txHash, Status: chain.ReceiptStatusSuccess}, nil
}
