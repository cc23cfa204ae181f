// Package lifecycle exposes the order fulfillment flow as one facade. The
// controller composes the command handlers, the read queries and the payment
// reconciler, and owns the registry of background reconciliations per order so
// that leaving an order (screen exit, cancellation, completion) reliably stops
// every timer still running for it.
package lifecycle

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/reconciler"
)

// Controller drives the end-to-end order flow on behalf of the transport
// layer. All state lives in the database and the reconciler; the controller
// itself only tracks which reconciliations belong to which order.
type Controller struct {
	createOrder          commands.CreateOrderCommandHandler
	chooseSellerDelivery commands.ChooseSellerDeliveryCommandHandler
	assignDriver         commands.AssignDriverCommandHandler
	captureProof         commands.CaptureProofCommandHandler
	cancelOrder          commands.CancelOrderCommandHandler

	candidateDrivers queries.GetCandidateDriversQueryHandler
	trackOrder       queries.GetOrderQueryHandler
	sellerOrders     queries.GetSellerOrdersQueryHandler

	engine *reconciler.Reconciler
	logger *slog.Logger

	mu      sync.Mutex
	handles map[kernel.UUID][]*reconciler.Handle
}

// NewController wires the fulfillment facade.
func NewController(
	createOrder commands.CreateOrderCommandHandler,
	chooseSellerDelivery commands.ChooseSellerDeliveryCommandHandler,
	assignDriver commands.AssignDriverCommandHandler,
	captureProof commands.CaptureProofCommandHandler,
	cancelOrder commands.CancelOrderCommandHandler,
	candidateDrivers queries.GetCandidateDriversQueryHandler,
	trackOrder queries.GetOrderQueryHandler,
	sellerOrders queries.GetSellerOrdersQueryHandler,
	engine *reconciler.Reconciler,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		createOrder:          createOrder,
		chooseSellerDelivery: chooseSellerDelivery,
		assignDriver:         assignDriver,
		captureProof:         captureProof,
		cancelOrder:          cancelOrder,
		candidateDrivers:     candidateDrivers,
		trackOrder:           trackOrder,
		sellerOrders:         sellerOrders,
		engine:               engine,
		logger:               logger.With("component", "lifecycle_controller"),
		handles:              make(map[kernel.UUID][]*reconciler.Handle),
	}
}

// PlaceOrder registers a new customer order in pending-delivery-choice.
func (c *Controller) PlaceOrder(
	ctx context.Context,
	orderID, sellerID kernel.UUID,
	customerName, customerPhone, address string,
	dropoff kernel.GeoPoint,
	total kernel.Money,
	items []order.Item,
) error {
	cmd, err := commands.NewCreateOrderCommand(
		orderID, sellerID, customerName, customerPhone, address, dropoff, total, items)
	if err != nil {
		return err
	}
	return c.createOrder.Handle(ctx, cmd)
}

// ChooseSellerDelivery moves the order onto the self-delivery path.
func (c *Controller) ChooseSellerDelivery(ctx context.Context, orderID kernel.UUID) error {
	cmd, err := commands.NewChooseSellerDeliveryCommand(orderID)
	if err != nil {
		return err
	}
	return c.chooseSellerDelivery.Handle(ctx, cmd)
}

// CandidateDrivers lists available drivers within the radius of the order's
// pickup point, nearest first.
func (c *Controller) CandidateDrivers(
	ctx context.Context, orderID kernel.UUID, radiusKm float64,
) ([]queries.GetCandidateDriversQueryResponse, error) {
	query, err := queries.NewGetCandidateDriversQuery(orderID, radiusKm)
	if err != nil {
		return nil, err
	}
	return c.candidateDrivers.Handle(ctx, query)
}

// AssignDriver hands the courier leg to the chosen driver.
// requiresPrepayment is false when the courier fee was already collected, in
// which case the order lands directly in payment-ok.
func (c *Controller) AssignDriver(
	ctx context.Context,
	orderID, driverID kernel.UUID,
	fee kernel.Money,
	requiresPrepayment bool,
) error {
	cmd, err := commands.NewAssignDriverCommand(orderID, driverID, fee, requiresPrepayment)
	if err != nil {
		return err
	}
	return c.assignDriver.Handle(ctx, cmd)
}

// StartCourierFeeDeposit initiates the courier-fee deposit for an order and
// begins reconciling it. The reconciliation is registered under the order, so
// Release and CancelOrder stop it.
func (c *Controller) StartCourierFeeDeposit(
	ctx context.Context,
	orderID kernel.UUID,
	fee kernel.Money,
	payerPhone string,
	personToPerson bool,
) (*reconciler.Handle, error) {
	handle, err := c.engine.StartDeposit(ctx, reconciler.DepositRequest{
		OrderID:              &orderID,
		Kind:                 payment.KindCourierFee,
		Amount:               fee,
		PayerPhone:           payerPhone,
		StatementDescription: "Courier fee",
		PersonToPerson:       personToPerson,
	})
	if err != nil {
		return nil, err
	}

	c.register(orderID, handle)
	return handle, nil
}

// StartSellerVerificationDeposit initiates a seller-verification subscription
// deposit. Subscription deposits belong to no order, so they are not held in
// the per-order registry; the caller owns the returned handle.
func (c *Controller) StartSellerVerificationDeposit(
	ctx context.Context,
	sellerID kernel.UUID,
	amount kernel.Money,
	payerPhone string,
) (*reconciler.Handle, error) {
	return c.engine.StartDeposit(ctx, reconciler.DepositRequest{
		SellerID:             &sellerID,
		Kind:                 payment.KindSellerVerification,
		Amount:               amount,
		PayerPhone:           payerPhone,
		StatementDescription: "Seller verification",
	})
}

// HandleSMS feeds a forwarded confirmation message into the reconciler.
func (c *Controller) HandleSMS(smsText string, receivedAt time.Time) (kernel.UUID, error) {
	return c.engine.HandleSMS(smsText, receivedAt)
}

// ConfirmManually records a pasted confirmation for operator review.
func (c *Controller) ConfirmManually(
	ctx context.Context, depositID kernel.UUID, smsText, transactionID string,
) error {
	return c.engine.ConfirmManually(ctx, depositID, smsText, transactionID)
}

// CaptureProof completes the delivery with photo and signature evidence. On
// success every reconciliation still open for the order is stopped.
func (c *Controller) CaptureProof(
	ctx context.Context, orderID kernel.UUID, image, signature []byte,
) error {
	cmd, err := commands.NewCaptureProofCommand(orderID, image, signature)
	if err != nil {
		return err
	}
	if err := c.captureProof.Handle(ctx, cmd); err != nil {
		return err
	}

	c.Release(orderID)
	return nil
}

// CancelOrder cancels the order and stops its open reconciliations.
func (c *Controller) CancelOrder(ctx context.Context, orderID kernel.UUID) error {
	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return err
	}
	if err := c.cancelOrder.Handle(ctx, cmd); err != nil {
		return err
	}

	c.Release(orderID)
	return nil
}

// TrackOrder returns the tracking view of an order.
func (c *Controller) TrackOrder(
	ctx context.Context, orderID kernel.UUID,
) (queries.GetOrderQueryResponse, error) {
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return queries.GetOrderQueryResponse{}, err
	}
	return c.trackOrder.Handle(ctx, query)
}

// SellerOrders returns a seller's orders, newest first.
func (c *Controller) SellerOrders(
	ctx context.Context, sellerID kernel.UUID,
) ([]queries.GetSellerOrdersQueryResponse, error) {
	query, err := queries.NewGetSellerOrdersQuery(sellerID)
	if err != nil {
		return nil, err
	}
	return c.sellerOrders.Handle(ctx, query)
}

// Release stops every reconciliation registered for the order. Called when
// the client leaves the order as well as on cancellation and completion, so
// no background work outlives the screen that started it.
func (c *Controller) Release(orderID kernel.UUID) {
	c.mu.Lock()
	handles := c.handles[orderID]
	delete(c.handles, orderID)
	c.mu.Unlock()

	for _, handle := range handles {
		handle.Stop()
	}

	if len(handles) > 0 {
		c.logger.Info("Released order reconciliations",
			"orderId", orderID, "count", len(handles))
	}
}

// Shutdown stops every open reconciliation across all orders.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	c.handles = make(map[kernel.UUID][]*reconciler.Handle)
	c.mu.Unlock()

	c.engine.StopAll()
}

// register tracks a reconciliation under its order and removes it again once
// it finishes on its own.
func (c *Controller) register(orderID kernel.UUID, handle *reconciler.Handle) {
	c.mu.Lock()
	c.handles[orderID] = append(c.handles[orderID], handle)
	c.mu.Unlock()

	go func() {
		<-handle.Done()
		c.unregister(orderID, handle)
	}()
}

func (c *Controller) unregister(orderID kernel.UUID, handle *reconciler.Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	remaining := c.handles[orderID][:0]
	for _, h := range c.handles[orderID] {
		if h != handle {
			remaining = append(remaining, h)
		}
	}

	if len(remaining) == 0 {
		delete(c.handles, orderID)
	} else {
		c.handles[orderID] = remaining
	}
}
