// Package payment drives a single irreversible stable-token transfer
// through its confirmation lifecycle:
//
//	idle -> confirming -> pending -> success | error
//
// One Orchestrator is owned per flow invocation (one tip, one plan
// purchase); concurrent flows for the same identity are not coordinated
// here. Once a transaction hash exists it is retained through pending,
// success, and error so the transfer can always be located on an external
// explorer, even when confirmation fails locally.
package payment

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/celosoul/celosoul/internal/chain"
	"github.com/celosoul/celosoul/internal/domain"
	"github.com/celosoul/celosoul/internal/metrics"
	"github.com/google/uuid"
)

// DefaultSuccessDelay is how long the orchestrator waits after entering
// success before invoking the on-success callback. The delay is
// deliberate: it lets confirmation feedback render before the flow
// cascades into usage charging.
const DefaultSuccessDelay = 2 * time.Second

// State is the observable snapshot of one payment flow.
type State struct {
	FlowID       uuid.UUID
	Status       domain.PaymentStatus
	Amount       domain.Amount
	Recipient    string
	TxHash       string
	ErrorMessage string
}

// Listener receives a state snapshot on every transition.
type Listener func(State)

// Orchestrator is the confirmation state machine for one transfer.
type Orchestrator struct {
	client       chain.Client
	token        string
	kind         string // metric label: "tip" or "subscription"
	logger       *slog.Logger
	successDelay time.Duration
	onSuccess    func()

	mu        sync.Mutex
	state     State
	listeners []Listener
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithOnSuccess sets the callback invoked (after the success delay) when
// the transfer confirms.
func WithOnSuccess(fn func()) Option {
	return func(o *Orchestrator) { o.onSuccess = fn }
}

// WithSuccessDelay overrides the delay before the on-success callback.
func WithSuccessDelay(d time.Duration) Option {
	return func(o *Orchestrator) { o.successDelay = d }
}

// WithKind labels the flow for metrics.
func WithKind(kind string) Option {
	return func(o *Orchestrator) { o.kind = kind }
}

// New creates an Orchestrator in the idle state.
func New(client chain.Client, token string, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:       client,
		token:        token,
		kind:         "transfer",
		logger:       logger,
		successDelay: DefaultSuccessDelay,
		state: State{
			FlowID: uuid.New(),
			Status: domain.PaymentStatusIdle,
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Subscribe registers a listener for state transitions.
func (o *Orchestrator) Subscribe(fn Listener) {
	o.mu.Lock()
	o.listeners = append(o.listeners, fn)
	o.mu.Unlock()
}

// State returns the current flow snapshot.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Send drives one transfer to a terminal state and returns it.
//
// Validation failures (flow not idle, missing client, non-positive
// amount, malformed recipient) are rejected synchronously with an error
// and no state change. Everything after submission is reported through
// the returned terminal state, never as an escaping error: wallet
// rejection and chain failure both land in the error status, with the
// transaction hash preserved whenever one was assigned.
func (o *Orchestrator) Send(ctx context.Context, recipient string, amount domain.Amount) (State, error) {
	const op = "payment.send"

	o.mu.Lock()
	if o.state.Status != domain.PaymentStatusIdle {
		st := o.state
		o.mu.Unlock()
		return st, domain.Invalid(op, "a transfer is already in flight")
	}
	if o.client == nil {
		st := o.state
		o.mu.Unlock()
		return st, domain.Invalid(op, "no connected signing client")
	}
	if !amount.IsPositive() {
		st := o.state
		o.mu.Unlock()
		return st, domain.Invalid(op, "amount must be greater than zero")
	}
	if !chain.IsHexAddress(recipient) {
		st := o.state
		o.mu.Unlock()
		return st, domain.Invalid(op, "recipient address is not well-formed")
	}
	o.mu.Unlock()

	o.transition(domain.PaymentStatusConfirming, func(s *State) {
		s.Amount = amount
		s.Recipient = recipient
	})

	txHash, err := o.client.SubmitTransfer(ctx, o.token, recipient, amount.Wei())
	if err != nil {
		if chain.IsUserRejected(err) {
			// Normal outcome, recoverable via retry; no hash exists yet.
			o.logger.Info("transfer rejected in wallet", "flow_id", o.flowID())
			return o.fail(domain.ErrorMessage(domain.WalletRejected(op))), nil
		}
		o.logger.Error("transfer submission failed", "flow_id", o.flowID(), "error", err)
		return o.fail(err.Error()), nil
	}

	st := o.transition(domain.PaymentStatusPending, func(s *State) {
		s.TxHash = txHash
	})

	receipt, err := o.client.AwaitConfirmation(ctx, txHash)
	if err != nil {
		// The wait failed, not necessarily the transaction: the hash is
		// kept so the user can verify on an explorer.
		o.logger.Error("confirmation wait failed", "flow_id", st.FlowID, "tx_hash", txHash, "error", err)
		return o.fail(err.Error()), nil
	}
	if receipt.Status != chain.ReceiptStatusSuccess {
		o.logger.Warn("transfer reverted", "flow_id", st.FlowID, "tx_hash", txHash)
		return o.fail("Transaction failed on chain"), nil
	}

	st = o.transition(domain.PaymentStatusSuccess, nil)

	o.logger.Info("transfer confirmed",
		"flow_id", st.FlowID,
		"tx_hash", st.TxHash,
		"amount", st.Amount.String(),
	)

	if o.onSuccess != nil {
		time.AfterFunc(o.successDelay, o.onSuccess)
	}
	return st, nil
}

// Reset returns the flow to idle from any state, clearing the hash and
// error message. An already-scheduled success callback still fires: the
// underlying transfer is irrevocable and dismissal only stops observing
// it.
func (o *Orchestrator) Reset() {
	o.transition(domain.PaymentStatusIdle, func(s *State) {
		s.TxHash = ""
		s.ErrorMessage = ""
		s.Amount = domain.Amount{}
		s.Recipient = ""
	})
}

// fail moves the flow to the error terminal state with the given message.
func (o *Orchestrator) fail(message string) State {
	return o.transition(domain.PaymentStatusError, func(s *State) {
		s.ErrorMessage = message
	})
}

func (o *Orchestrator) flowID() uuid.UUID {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.FlowID
}

// transition applies the mutation, sets the status, records terminal
// metrics, and notifies listeners outside the lock.
func (o *Orchestrator) transition(status domain.PaymentStatus, mutate func(*State)) State {
	o.mu.Lock()
	if mutate != nil {
		mutate(&o.state)
	}
	o.state.Status = status
	st := o.state
	listeners := make([]Listener, len(o.listeners))
	copy(listeners, o.listeners)
	o.mu.Unlock()

	if status.Terminal() {
		metrics.PaymentsTotal.WithLabelValues(o.kind, string(status)).Inc()
	}
	for _, fn := range listeners {
		fn(st)
	}
	return st
}
