// Package reconciler runs the payment confirmation engine. Every initiated
// deposit gets a reconciliation: a background poll of the payment gateway
// racing against a forwarded confirmation SMS, with a manual claim as the
// operator-reviewed fallback. Whichever channel produces a terminal answer
// first resolves the attempt; every later answer is discarded.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrDepositInitiationFailed is returned when the provider refuses to start
	// the deposit. No attempt is recorded and no reconciliation begins.
	ErrDepositInitiationFailed = errors.New("deposit initiation failed")

	// ErrUnknownDeposit is returned when a confirmation references a deposit
	// with no open reconciliation.
	ErrUnknownDeposit = errors.New("no open reconciliation for deposit")
)

// Progress stages published while a deposit is being reconciled.
const (
	StageInitiating                = "initiating"
	StagePendingConfirmation       = "pending_confirmation"
	StageSuccess                   = "success"
	StageFailed                    = "failed"
	StageTimedOut                  = "timed_out"
	StageManualConfirmationPending = "manual_confirmation_pending"
)

// PollSchedule controls how often and how long the gateway is polled before a
// pending deposit is given up as timed out.
type PollSchedule struct {
	// Interval is the delay between gateway status checks.
	Interval time.Duration

	// MaxPolls is how many checks a regular deposit gets.
	MaxPolls int

	// PersonToPersonMaxPolls is how many checks a person-to-person transfer
	// gets. Those confirm slower, so the window is wider.
	PersonToPersonMaxPolls int
}

// DefaultPollSchedule returns the production schedule: a check every three
// seconds, twenty checks for regular deposits and sixty for person-to-person
// transfers.
func DefaultPollSchedule() PollSchedule {
	return PollSchedule{
		Interval:               3 * time.Second,
		MaxPolls:               20,
		PersonToPersonMaxPolls: 60,
	}
}

// DepositRequest describes the deposit to initiate and reconcile.
type DepositRequest struct {
	// OrderID references the order whose courier fee the deposit collects.
	// Nil for seller-verification subscriptions.
	OrderID *kernel.UUID

	// SellerID references the subscribing seller for verification deposits.
	SellerID *kernel.UUID

	// Kind records what the deposit pays for.
	Kind payment.Kind

	// Amount is the amount to collect.
	Amount kernel.Money

	// PayerPhone is the mobile-money account to charge.
	PayerPhone string

	// StatementDescription appears on the payer's mobile-money statement.
	StatementDescription string

	// PersonToPerson marks transfers sent directly between wallets, which get
	// the longer confirmation window.
	PersonToPerson bool
}

// activeAttempt is one deposit currently being reconciled. The once guards
// resolution: exactly one of the racing channels gets to run it.
type activeAttempt struct {
	attempt        *payment.Attempt
	handle         *Handle
	personToPerson bool
	once           sync.Once
}

// Reconciler initiates deposits and confirms them through three racing
// channels: the gateway poll, forwarded confirmation SMS and manual claims.
//
// A resolution applies the matching order or seller command, persists the
// terminal status and delivers the outcome on the attempt's handle. Manual
// claims are the exception: they only park the deposit for operator review and
// never resolve by themselves.
type Reconciler struct {
	gateway            ports.PaymentGateway
	uowFactory         ports.UnitOfWorkFactory
	confirmPayment     commands.ConfirmPaymentCommandHandler
	markSellerVerified commands.MarkSellerVerifiedCommandHandler
	publisher          ports.EventPublisher
	matcher            services.SMSMatcher
	schedule           PollSchedule
	logger             *slog.Logger

	mu     sync.Mutex
	active map[kernel.UUID]*activeAttempt
}

// NewReconciler creates a reconciler with no open reconciliations.
func NewReconciler(
	gateway ports.PaymentGateway,
	uowFactory ports.UnitOfWorkFactory,
	confirmPayment commands.ConfirmPaymentCommandHandler,
	markSellerVerified commands.MarkSellerVerifiedCommandHandler,
	publisher ports.EventPublisher,
	schedule PollSchedule,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		gateway:            gateway,
		uowFactory:         uowFactory,
		confirmPayment:     confirmPayment,
		markSellerVerified: markSellerVerified,
		publisher:          publisher,
		matcher:            services.NewSMSMatcher(),
		schedule:           schedule,
		logger:             logger.With("component", "reconciler"),
		active:             make(map[kernel.UUID]*activeAttempt),
	}
}

// StartDeposit initiates a deposit at the gateway and starts reconciling it.
//
// The deposit id is generated here, so initiation is idempotent at the
// provider. When the provider refuses the deposit the error wraps
// ErrDepositInitiationFailed and nothing is recorded. Otherwise the attempt is
// persisted, courier-fee deposits are attached to their order, and the poll
// loop starts in the background. The returned handle delivers the final
// outcome on Done.
func (r *Reconciler) StartDeposit(ctx context.Context, req DepositRequest) (*Handle, error) {
	depositID := kernel.NewUUID()

	attempt, err := payment.NewAttempt(
		depositID, req.OrderID, req.SellerID, req.Kind,
		req.Amount, req.PayerPhone, time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	_ = r.publisher.PublishPaymentProgress(ctx, depositID, StageInitiating)

	if err := r.gateway.InitiateDeposit(
		ctx, depositID, req.Amount, req.PayerPhone, req.StatementDescription,
	); err != nil {
		_ = r.publisher.PublishPaymentProgress(ctx, depositID, StageFailed)
		return nil, fmt.Errorf("%w: %w", ErrDepositInitiationFailed, err)
	}

	if err := r.persistNewAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	pollCtx, cancel := context.WithCancel(context.Background())
	handle := &Handle{
		depositID: depositID,
		done:      make(chan Outcome, 1),
		cancel:    cancel,
	}
	entry := &activeAttempt{
		attempt:        attempt,
		handle:         handle,
		personToPerson: req.PersonToPerson,
	}

	r.mu.Lock()
	r.active[depositID] = entry
	r.mu.Unlock()

	_ = r.publisher.PublishPaymentProgress(ctx, depositID, StagePendingConfirmation)

	go r.poll(pollCtx, entry)

	return handle, nil
}

// HandleSMS matches a forwarded confirmation message against the open
// reconciliations. A match resolves that deposit as paid immediately, without
// waiting for the next gateway poll. Returns the resolved deposit id, or
// ErrUnknownDeposit when the message confirms none of the open attempts.
func (r *Reconciler) HandleSMS(smsText string, receivedAt time.Time) (kernel.UUID, error) {
	now := time.Now().UTC()

	r.mu.Lock()
	entries := make([]*activeAttempt, 0, len(r.active))
	for _, entry := range r.active {
		entries = append(entries, entry)
	}
	r.mu.Unlock()

	for _, entry := range entries {
		transactionID, err := r.matcher.Match(entry.attempt, smsText, receivedAt, now)
		if err != nil {
			continue
		}

		// Another channel may have settled this entry since the snapshot. Only
		// report the deposit as SMS-confirmed when this call actually won.
		if !r.resolve(entry, payment.StatusSuccess, OutcomeSuccess, StageSuccess) {
			continue
		}

		depositID := entry.attempt.DepositID()
		r.logger.Info("Confirmation SMS matched deposit",
			"depositId", depositID, "transactionId", transactionID)
		return depositID, nil
	}

	return kernel.UUID{}, ErrUnknownDeposit
}

// ConfirmManually records a manual payment claim for operator review. The
// deposit stays unresolved: the poll keeps running and an operator decision
// (or the gateway) still has to settle it.
func (r *Reconciler) ConfirmManually(
	ctx context.Context, depositID kernel.UUID, smsText, transactionID string,
) error {
	claim, err := payment.NewManualClaim(depositID, smsText, transactionID, time.Now().UTC())
	if err != nil {
		return err
	}

	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.ManualClaimRepository().Add(ctx, claim); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	_ = r.publisher.PublishPaymentProgress(ctx, depositID, StageManualConfirmationPending)

	return nil
}

// StopAll abandons every open reconciliation. Used on shutdown; the pending
// attempts are swept to timeout by the stale-deposit job on the next start.
func (r *Reconciler) StopAll() {
	r.mu.Lock()
	entries := make([]*activeAttempt, 0, len(r.active))
	for _, entry := range r.active {
		entries = append(entries, entry)
	}
	r.mu.Unlock()

	for _, entry := range entries {
		entry.handle.Stop()
	}
}

// poll checks the gateway on the schedule until a terminal status arrives or
// the window closes. Transient check errors are logged and retried on the next
// tick; they never fail the reconciliation.
func (r *Reconciler) poll(ctx context.Context, entry *activeAttempt) {
	maxPolls := r.schedule.MaxPolls
	if entry.personToPerson {
		maxPolls = r.schedule.PersonToPersonMaxPolls
	}

	depositID := entry.attempt.DepositID()

	ticker := time.NewTicker(r.schedule.Interval)
	defer ticker.Stop()

	for polls := 0; polls < maxPolls; polls++ {
		select {
		case <-ctx.Done():
			r.release(entry)
			return
		case <-ticker.C:
		}

		status, err := r.gateway.CheckPayment(ctx, depositID)
		entry.attempt.RecordPoll()
		if err != nil {
			r.logger.WarnContext(ctx, "Deposit status check failed, retrying on next tick",
				"depositId", depositID, "error", err)
			continue
		}

		if !status.Status.IsTerminal() {
			continue
		}

		if status.Status == payment.StatusSuccess && status.Amount != nil {
			if equal, err := status.Amount.IsEqual(entry.attempt.Amount()); err == nil && !equal {
				// A confirmed deposit over the wrong amount is not a payment
				r.logger.ErrorContext(ctx, "Deposit confirmed with mismatched amount",
					"depositId", depositID,
					"error", errs.NewPaymentAmountMismatchError(
						depositID.String(), entry.attempt.Amount(), *status.Amount))
				r.resolve(entry, payment.StatusFailure, OutcomeFailure, StageFailed)
				return
			}
		}

		if status.Status == payment.StatusSuccess {
			r.resolve(entry, payment.StatusSuccess, OutcomeSuccess, StageSuccess)
		} else {
			r.resolve(entry, status.Status, OutcomeFailure, StageFailed)
		}
		return
	}

	r.resolve(entry, payment.StatusTimeout, OutcomeTimeout, StageTimedOut)
}

// resolve settles the attempt with a terminal status. The first caller wins:
// the attempt is persisted, the success command is applied, the outcome is
// delivered and the poll loop is cancelled. Later callers are no-ops and get
// won=false so they do not report a resolution they did not perform.
func (r *Reconciler) resolve(
	entry *activeAttempt, status payment.AttemptStatus, outcome Outcome, stage string,
) (won bool) {
	entry.once.Do(func() {
		won = true
		ctx := context.Background()
		depositID := entry.attempt.DepositID()

		r.mu.Lock()
		delete(r.active, depositID)
		r.mu.Unlock()

		if err := entry.attempt.Resolve(status); err != nil {
			r.logger.ErrorContext(ctx, "Failed to resolve payment attempt",
				"depositId", depositID, "error", err)
		} else if err := r.persistResolved(ctx, entry.attempt); err != nil {
			r.logger.ErrorContext(ctx, "Failed to persist resolved payment attempt",
				"depositId", depositID, "error", err)
		}

		if status == payment.StatusSuccess {
			r.applySuccess(ctx, entry.attempt)
		}

		_ = r.publisher.PublishPaymentProgress(ctx, depositID, stage)

		entry.handle.cancel()
		entry.handle.done <- outcome
		close(entry.handle.done)
	})

	return won
}

// release finishes an abandoned reconciliation. The attempt stays pending in
// storage; only the in-memory registration and the handle are cleaned up.
func (r *Reconciler) release(entry *activeAttempt) {
	entry.once.Do(func() {
		r.mu.Lock()
		delete(r.active, entry.attempt.DepositID())
		r.mu.Unlock()

		entry.handle.done <- OutcomeStopped
		close(entry.handle.done)
	})
}

// applySuccess runs the state change a paid deposit was collected for. A
// failure here (for example the order got cancelled while the payment was
// confirming) is logged for operator follow-up; the payment itself stays
// resolved as paid.
func (r *Reconciler) applySuccess(ctx context.Context, attempt *payment.Attempt) {
	switch attempt.Kind() {
	case payment.KindCourierFee:
		cmd, err := commands.NewConfirmPaymentCommand(attempt.DepositID())
		if err == nil {
			err = r.confirmPayment.Handle(ctx, cmd)
		}
		if err != nil {
			r.logger.ErrorContext(ctx, "Paid deposit could not confirm its order",
				"depositId", attempt.DepositID(), "error", err)
		}
	case payment.KindSellerVerification:
		sellerID := attempt.SellerID()
		if sellerID == nil {
			r.logger.ErrorContext(ctx, "Verification deposit has no seller reference",
				"depositId", attempt.DepositID())
			return
		}

		cmd, err := commands.NewMarkSellerVerifiedCommand(*sellerID)
		if err == nil {
			err = r.markSellerVerified.Handle(ctx, cmd)
		}
		if err != nil {
			r.logger.ErrorContext(ctx, "Paid deposit could not verify its seller",
				"depositId", attempt.DepositID(), "error", err)
		}
	}
}

// persistNewAttempt stores the freshly initiated attempt and, for courier-fee
// deposits, attaches the deposit reference to its order in the same
// transaction.
func (r *Reconciler) persistNewAttempt(ctx context.Context, attempt *payment.Attempt) error {
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.PaymentAttemptRepository().Add(ctx, attempt); err != nil {
		return err
	}

	if attempt.Kind() == payment.KindCourierFee && attempt.OrderID() != nil {
		repo := uow.OrderRepository()

		aggregate, err := repo.Get(ctx, *attempt.OrderID())
		if err != nil {
			return err
		}

		// The write is conditioned on the status seen at the re-read: a
		// cancellation landing in between wins and the deposit is not recorded.
		observed := aggregate.Status()
		if err := aggregate.AttachDeposit(attempt.DepositID()); err != nil {
			return err
		}
		if err := repo.UpdateConditional(ctx, aggregate, observed); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

// persistResolved writes the attempt's terminal status and poll count.
func (r *Reconciler) persistResolved(ctx context.Context, attempt *payment.Attempt) error {
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.PaymentAttemptRepository().Update(ctx, attempt); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
