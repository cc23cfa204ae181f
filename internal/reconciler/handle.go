package reconciler

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// Outcome is the final result of one deposit reconciliation.
type Outcome int

const (
	// OutcomeUnknown represents an invalid or undefined outcome.
	OutcomeUnknown Outcome = iota

	// OutcomeSuccess means the deposit was confirmed paid.
	OutcomeSuccess

	// OutcomeFailure means the provider reported a terminal failure, or the
	// confirmed amount did not match the expected amount.
	OutcomeFailure

	// OutcomeTimeout means the confirmation window closed with the deposit
	// still pending at the provider.
	OutcomeTimeout

	// OutcomeStopped means reconciliation was abandoned via Stop before any
	// channel resolved the deposit. The attempt stays pending in storage and
	// is swept to timeout later.
	OutcomeStopped
)

// String returns the snake_case name of the outcome.
// Implements the fmt.Stringer interface.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Handle is the caller's view of one running reconciliation. Done delivers
// exactly one Outcome and is then closed; Stop abandons the reconciliation
// without resolving the attempt.
type Handle struct {
	depositID kernel.UUID
	done      chan Outcome
	cancel    context.CancelFunc
}

// DepositID returns the deposit being reconciled.
func (h *Handle) DepositID() kernel.UUID {
	return h.depositID
}

// Done returns the channel the final outcome is delivered on. The channel is
// buffered, so the outcome is delivered even if nobody is receiving when the
// reconciliation finishes.
func (h *Handle) Done() <-chan Outcome {
	return h.done
}

// Stop abandons the reconciliation. The poll loop exits, the handle is removed
// from the registry and OutcomeStopped is delivered on Done. Stopping an
// already-finished reconciliation is a no-op, so Stop is safe to call more
// than once.
func (h *Handle) Stop() {
	h.cancel()
}
