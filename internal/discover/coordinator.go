// Package discover coordinates gated discovery actions: plain swipes,
// paid super-like tips, and subscription purchases. It composes the
// gating engine, the entitlement store, and per-flow payment
// orchestrators, and owns the per-identity candidate cursor.
//
// The invariant that matters here is charge ordering: usage counters
// move only after a transfer reaches confirmed success. A denied action
// changes nothing; an abandoned or failed flow changes nothing.
package discover

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/celosoul/celosoul/internal/catalog"
	"github.com/celosoul/celosoul/internal/chain"
	"github.com/celosoul/celosoul/internal/domain"
	"github.com/celosoul/celosoul/internal/entitlement"
	"github.com/celosoul/celosoul/internal/gating"
	"github.com/celosoul/celosoul/internal/metrics"
	"github.com/celosoul/celosoul/internal/payment"
)

// DefaultTipAmount is the cUSD amount transferred per super-like tip.
var DefaultTipAmount = domain.MustParseAmount("0.1")

// SwipeAction is the direction of a plain swipe.
type SwipeAction string

const (
	SwipeApprove SwipeAction = "approve"
	SwipeReject  SwipeAction = "reject"
	SwipeSkip    SwipeAction = "skip"
)

// ParseSwipeAction validates a wire-level action string.
func ParseSwipeAction(s string) (SwipeAction, error) {
	switch SwipeAction(s) {
	case SwipeApprove, SwipeReject, SwipeSkip:
		return SwipeAction(s), nil
	}
	return "", domain.Invalid("discover.parse_action", "action must be approve, reject, or skip")
}

// SwipeResult reports a consumed swipe.
type SwipeResult struct {
	Action    SwipeAction
	Candidate Candidate
	Next      *Candidate
	Remaining int
	Unlimited bool
}

// SuperLikeResult reports a super-like tip flow. Charged is true only
// when the transfer confirmed and the usage counters moved.
type SuperLikeResult struct {
	Payment   payment.State
	Charged   bool
	Candidate Candidate
	Next      *Candidate
	Record    *domain.EntitlementRecord
}

// PurchaseResult reports a subscription purchase flow.
type PurchaseResult struct {
	Payment payment.State
	Granted bool
	Plan    domain.Plan
	Record  *domain.EntitlementRecord
}

// Usage summarizes an identity's current entitlement position.
type Usage struct {
	Record              *domain.EntitlementRecord
	SwipesRemaining     int
	SwipesUnlimited     bool
	SuperLikesRemaining int
	SuperLikesUnlimited bool
}

type deck struct {
	candidates []Candidate
	cursor     int
}

// Coordinator runs discovery actions for all identities.
type Coordinator struct {
	store  *entitlement.Store
	engine *gating.Engine
	client chain.Client
	source CandidateSource
	logger *slog.Logger
	now    func() time.Time

	token            string
	tipRecipient     string
	paymentsContract string
	tipAmount        domain.Amount
	successDelay     time.Duration

	mu    sync.Mutex
	decks map[string]*deck
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock overrides the coordinator's clock.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithToken sets the token contract address used for transfers.
func WithToken(addr string) Option {
	return func(c *Coordinator) { c.token = addr }
}

// WithTipRecipient overrides the tip destination address.
func WithTipRecipient(addr string) Option {
	return func(c *Coordinator) { c.tipRecipient = addr }
}

// WithPaymentsContract overrides the subscription payment destination.
func WithPaymentsContract(addr string) Option {
	return func(c *Coordinator) { c.paymentsContract = addr }
}

// WithTipAmount overrides the per-super-like tip amount.
func WithTipAmount(a domain.Amount) Option {
	return func(c *Coordinator) { c.tipAmount = a }
}

// WithSuccessDelay overrides the pause between transfer confirmation and
// the charge that follows it.
func WithSuccessDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.successDelay = d }
}

// NewCoordinator wires a Coordinator with production defaults.
func NewCoordinator(store *entitlement.Store, engine *gating.Engine, client chain.Client, source CandidateSource, logger *slog.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:            store,
		engine:           engine,
		client:           client,
		source:           source,
		logger:           logger,
		now:              time.Now,
		token:            chain.CUSDAddressMainnet,
		tipRecipient:     chain.TipRecipientAddress,
		paymentsContract: chain.PaymentsContractSepolia,
		tipAmount:        DefaultTipAmount,
		successDelay:     payment.DefaultSuccessDelay,
		decks:            make(map[string]*deck),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Usage returns the identity's current record and quota headroom.
func (c *Coordinator) Usage(ctx context.Context, identity string) Usage {
	rec := c.store.Load(ctx, identity)
	now := c.now()

	u := Usage{Record: rec}
	u.SwipesRemaining, u.SwipesUnlimited = c.engine.Remaining(rec, domain.ActionSwipe, now)
	u.SuperLikesRemaining, u.SuperLikesUnlimited = c.engine.Remaining(rec, domain.ActionSuperLike, now)
	return u
}

// Current returns the candidate under the cursor, refilling the deck if
// needed.
func (c *Coordinator) Current(ctx context.Context, identity string) (Candidate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked(ctx, identity)
}

// Swipe consumes one swipe of the given direction. A denied action
// returns a quota error and changes nothing.
func (c *Coordinator) Swipe(ctx context.Context, identity string, action SwipeAction) (SwipeResult, error) {
	const op = "discover.swipe"

	c.mu.Lock()
	candidate, err := c.currentLocked(ctx, identity)
	c.mu.Unlock()
	if err != nil {
		return SwipeResult{}, err
	}

	// Gate and charge in one critical section, so concurrent swipes at
	// the last unit of quota cannot both pass.
	now := c.now()
	rec, ok := c.store.UpdateIf(ctx, identity,
		func(r *domain.EntitlementRecord) bool {
			return c.engine.CanPerform(r, domain.ActionSwipe, now)
		},
		func(r *domain.EntitlementRecord) {
			r.SwipesUsed++
		},
	)
	if !ok {
		metrics.UpgradePromptsTotal.WithLabelValues(string(domain.ActionSwipe)).Inc()
		quota := c.engine.EffectiveQuota(rec, domain.ActionSwipe, now)
		return SwipeResult{}, domain.QuotaExceeded(op, domain.ActionSwipe, rec.SwipesUsed, quota.Limit())
	}

	c.mu.Lock()
	next, err := c.advanceLocked(ctx, identity)
	c.mu.Unlock()
	if err != nil {
		// Charge stands; the next card is cosmetic.
		c.logger.Warn("candidate refill failed after swipe", "identity", identity, "error", err)
	}

	metrics.SwipesTotal.WithLabelValues(string(action)).Inc()

	res := SwipeResult{Action: action, Candidate: candidate, Next: next}
	res.Remaining, res.Unlimited = c.engine.Remaining(rec, domain.ActionSwipe, c.now())
	return res, nil
}

// SuperLike runs the paid super-like flow: gate, transfer the tip, and
// only after confirmed success charge the counters and advance. A
// transfer that ends in the error state returns a result with
// Charged=false and a nil error; the payment state carries the story.
func (c *Coordinator) SuperLike(ctx context.Context, identity string) (SuperLikeResult, error) {
	const op = "discover.super_like"

	rec := c.store.Load(ctx, identity)
	now := c.now()
	if !c.engine.CanPerform(rec, domain.ActionSuperLike, now) {
		metrics.UpgradePromptsTotal.WithLabelValues(string(domain.ActionSuperLike)).Inc()
		quota := c.engine.EffectiveQuota(rec, domain.ActionSuperLike, now)
		return SuperLikeResult{}, domain.QuotaExceeded(op, domain.ActionSuperLike, rec.SuperLikesUsed, quota.Limit())
	}

	c.mu.Lock()
	candidate, err := c.currentLocked(ctx, identity)
	c.mu.Unlock()
	if err != nil {
		return SuperLikeResult{}, err
	}

	confirmed := make(chan struct{})
	orch := payment.New(c.client, c.token, c.logger,
		payment.WithKind("tip"),
		payment.WithSuccessDelay(c.successDelay),
		payment.WithOnSuccess(func() { close(confirmed) }),
	)

	st, err := orch.Send(ctx, c.tipRecipient, c.tipAmount)
	if err != nil {
		return SuperLikeResult{Payment: st, Candidate: candidate}, err
	}
	if st.Status != domain.PaymentStatusSuccess {
		c.logger.Info("super-like tip did not confirm",
			"identity", identity,
			"status", st.Status,
			"tx_hash", st.TxHash,
		)
		return SuperLikeResult{Payment: st, Candidate: candidate}, nil
	}

	// The transfer is confirmed and irrevocable; the charge follows the
	// success pause unconditionally.
	<-confirmed

	rec = c.store.Update(ctx, identity, func(r *domain.EntitlementRecord) {
		r.SuperLikesUsed++
		r.TipsGiven++
		r.SwipesUsed++ // a super-like consumes a swipe too
	})

	c.mu.Lock()
	next, advErr := c.advanceLocked(ctx, identity)
	c.mu.Unlock()
	if advErr != nil {
		c.logger.Warn("candidate refill failed after super-like", "identity", identity, "error", advErr)
	}

	metrics.SuperLikesTotal.Inc()
	metrics.TipsTotal.Inc()
	metrics.SwipesTotal.WithLabelValues("super_like").Inc()

	c.logger.Info("super-like charged",
		"identity", identity,
		"tx_hash", st.TxHash,
		"tips_given", rec.TipsGiven,
	)

	return SuperLikeResult{
		Payment:   st,
		Charged:   true,
		Candidate: candidate,
		Next:      next,
		Record:    rec,
	}, nil
}

// PurchasePlan transfers the plan's price to the payments contract and,
// on confirmed success, grants the subscription.
func (c *Coordinator) PurchasePlan(ctx context.Context, identity, planID string) (PurchaseResult, error) {
	const op = "discover.purchase_plan"

	plan, ok := catalog.Resolve(planID)
	if !ok {
		return PurchaseResult{}, domain.NotFound(op, "plan", planID)
	}

	confirmed := make(chan struct{})
	orch := payment.New(c.client, c.token, c.logger,
		payment.WithKind("subscription"),
		payment.WithSuccessDelay(c.successDelay),
		payment.WithOnSuccess(func() { close(confirmed) }),
	)

	st, err := orch.Send(ctx, c.paymentsContract, plan.Price)
	if err != nil {
		return PurchaseResult{Payment: st, Plan: plan}, err
	}
	if st.Status != domain.PaymentStatusSuccess {
		c.logger.Info("plan purchase did not confirm",
			"identity", identity,
			"plan_id", plan.ID,
			"status", st.Status,
			"tx_hash", st.TxHash,
		)
		return PurchaseResult{Payment: st, Plan: plan}, nil
	}

	<-confirmed

	rec, err := c.store.GrantSubscription(ctx, identity, plan.ID, c.now())
	if err != nil {
		// Paid but not granted; surface loudly rather than swallow.
		c.logger.Error("subscription grant failed after confirmed payment",
			"identity", identity,
			"plan_id", plan.ID,
			"tx_hash", st.TxHash,
			"error", err,
		)
		return PurchaseResult{Payment: st, Plan: plan}, domain.Wrap(err, domain.EINTERNAL, op, "payment confirmed but subscription grant failed")
	}

	metrics.SubscriptionsGrantedTotal.WithLabelValues(plan.ID).Inc()

	return PurchaseResult{
		Payment: st,
		Granted: true,
		Plan:    plan,
		Record:  rec,
	}, nil
}

// currentLocked returns the candidate under the cursor, fetching a deck
// on first use. Callers hold c.mu.
func (c *Coordinator) currentLocked(ctx context.Context, identity string) (Candidate, error) {
	d, ok := c.decks[identity]
	if !ok || len(d.candidates) == 0 {
		fresh, err := c.refill(ctx, identity)
		if err != nil {
			return Candidate{}, err
		}
		d = fresh
	}
	return d.candidates[d.cursor], nil
}

// advanceLocked moves the cursor forward, refilling on exhaustion.
// Callers hold c.mu.
func (c *Coordinator) advanceLocked(ctx context.Context, identity string) (*Candidate, error) {
	d, ok := c.decks[identity]
	if !ok {
		return nil, nil
	}
	d.cursor++
	if d.cursor >= len(d.candidates) {
		fresh, err := c.refill(ctx, identity)
		if err != nil {
			return nil, err
		}
		d = fresh
	}
	next := d.candidates[d.cursor]
	return &next, nil
}

func (c *Coordinator) refill(ctx context.Context, identity string) (*deck, error) {
	const op = "discover.refill"

	candidates, err := c.source.Fetch(ctx, identity)
	if err != nil {
		return nil, domain.Wrap(err, domain.EINTERNAL, op, "candidate fetch failed")
	}
	if len(candidates) == 0 {
		return nil, domain.Errorf(domain.ENOTFOUND, op, "candidate source returned an empty batch")
	}

	d := &deck{candidates: candidates}
	c.decks[identity] = d
	metrics.CandidateRefillsTotal.Inc()
	c.logger.Debug("candidate deck refilled", "identity", identity, "count", len(candidates))
	return d, nil
}
