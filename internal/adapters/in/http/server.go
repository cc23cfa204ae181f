// Package http exposes the fulfillment flow over REST. The server is a thin
// translation layer: it parses requests, calls the lifecycle controller and
// maps domain errors onto status codes.
package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/lifecycle"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/reconciler"

	"github.com/labstack/echo/v4"
)

// defaultSearchRadiusKm bounds the candidate-driver search when the client
// does not pass one.
const defaultSearchRadiusKm = 5.0

// Error is the JSON error payload returned by every handler.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server handles the REST API on top of the lifecycle controller.
type Server struct {
	controller *lifecycle.Controller
}

// NewServer creates the HTTP server facade.
func NewServer(controller *lifecycle.Controller) *Server {
	return &Server{controller: controller}
}

// RegisterRoutes mounts all API routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:orderId", s.TrackOrder)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)
	api.POST("/orders/:orderId/release", s.ReleaseOrder)
	api.POST("/orders/:orderId/seller-delivery", s.ChooseSellerDelivery)
	api.GET("/orders/:orderId/candidate-drivers", s.GetCandidateDrivers)
	api.POST("/orders/:orderId/assign-driver", s.AssignDriver)
	api.POST("/orders/:orderId/courier-fee-deposit", s.StartCourierFeeDeposit)
	api.POST("/orders/:orderId/proof", s.CaptureProof)

	api.GET("/sellers/:sellerId/orders", s.GetSellerOrders)
	api.POST("/sellers/:sellerId/verification-deposit", s.StartVerificationDeposit)

	api.POST("/payments/sms", s.HandleSMS)
	api.POST("/payments/:depositId/manual-confirmation", s.ConfirmManually)
}

type newOrderItem struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitMinorUnits int64  `json:"unitMinorUnits"`
}

type newOrderRequest struct {
	SellerID      string         `json:"sellerId"`
	CustomerName  string         `json:"customerName"`
	CustomerPhone string         `json:"customerPhone"`
	Address       string         `json:"address"`
	Latitude      float64        `json:"latitude"`
	Longitude     float64        `json:"longitude"`
	Currency      string         `json:"currency"`
	Items         []newOrderItem `json:"items"`
}

// CreateOrder handles POST /api/v1/orders - registers a customer order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req newOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	sellerID, err := kernel.UUIDFromString(req.SellerID)
	if err != nil {
		return badRequest(ctx, "Invalid seller id")
	}

	dropoff, err := kernel.NewGeoPoint(req.Latitude, req.Longitude)
	if err != nil {
		return badRequest(ctx, "Invalid drop-off coordinates: "+err.Error())
	}

	items := make([]order.Item, 0, len(req.Items))
	var totalMinorUnits int64
	for _, line := range req.Items {
		unitPrice, err := kernel.NewMoney(line.UnitMinorUnits, req.Currency)
		if err != nil {
			return badRequest(ctx, "Invalid item price: "+err.Error())
		}
		item, err := order.NewItem(line.Name, line.Quantity, unitPrice)
		if err != nil {
			return badRequest(ctx, "Invalid item: "+err.Error())
		}
		items = append(items, item)
		totalMinorUnits += line.UnitMinorUnits * int64(line.Quantity)
	}

	total, err := kernel.NewMoney(totalMinorUnits, req.Currency)
	if err != nil {
		return badRequest(ctx, "Invalid total: "+err.Error())
	}

	orderID := kernel.NewUUID()
	if err := s.controller.PlaceOrder(
		ctx.Request().Context(), orderID, sellerID,
		req.CustomerName, req.CustomerPhone, req.Address, dropoff, total, items,
	); err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"orderId": orderID.String()})
}

type orderView struct {
	OrderID        string     `json:"orderId"`
	SellerID       string     `json:"sellerId"`
	CustomerName   string     `json:"customerName"`
	Address        string     `json:"address"`
	Status         string     `json:"status"`
	DeliveryMethod string     `json:"deliveryMethod"`
	DriverID       *string    `json:"driverId,omitempty"`
	DeliveryStatus *string    `json:"deliveryStatus,omitempty"`
	DeliveredAt    *time.Time `json:"deliveredAt,omitempty"`
}

// TrackOrder handles GET /api/v1/orders/:orderId - the tracking view.
func (s *Server) TrackOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	view, err := s.controller.TrackOrder(ctx.Request().Context(), orderID)
	if err != nil {
		return domainError(ctx, err)
	}

	response := orderView{
		OrderID:        view.OrderID.String(),
		SellerID:       view.SellerID.String(),
		CustomerName:   view.CustomerName,
		Address:        view.Address,
		Status:         view.Status,
		DeliveryMethod: view.DeliveryMethod,
		DeliveryStatus: view.DeliveryStatus,
		DeliveredAt:    view.DeliveredAt,
	}
	if view.DriverID != nil {
		driverID := view.DriverID.String()
		response.DriverID = &driverID
	}

	return ctx.JSON(http.StatusOK, response)
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	if err := s.controller.CancelOrder(ctx.Request().Context(), orderID); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReleaseOrder handles POST /api/v1/orders/:orderId/release - the client left
// the order screen; stop its background reconciliations.
func (s *Server) ReleaseOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	s.controller.Release(orderID)
	return ctx.NoContent(http.StatusNoContent)
}

// ChooseSellerDelivery handles POST /api/v1/orders/:orderId/seller-delivery.
func (s *Server) ChooseSellerDelivery(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	if err := s.controller.ChooseSellerDelivery(ctx.Request().Context(), orderID); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type candidateDriver struct {
	DriverID   string  `json:"driverId"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	DistanceKm float64 `json:"distanceKm"`
}

// GetCandidateDrivers handles GET /api/v1/orders/:orderId/candidate-drivers.
// An empty list is a normal outcome, not an error.
func (s *Server) GetCandidateDrivers(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	radiusKm := defaultSearchRadiusKm
	if raw := ctx.QueryParam("radiusKm"); raw != "" {
		if err := echo.QueryParamsBinder(ctx).Float64("radiusKm", &radiusKm).BindError(); err != nil {
			return badRequest(ctx, "Invalid radius")
		}
	}

	candidates, err := s.controller.CandidateDrivers(ctx.Request().Context(), orderID, radiusKm)
	if err != nil {
		if errors.Is(err, services.ErrNoDriversInRange) {
			return ctx.JSON(http.StatusOK, []candidateDriver{})
		}
		return domainError(ctx, err)
	}

	response := make([]candidateDriver, len(candidates))
	for i, candidate := range candidates {
		response[i] = candidateDriver{
			DriverID:   candidate.DriverID.String(),
			Name:       candidate.Name,
			Phone:      candidate.Phone,
			DistanceKm: candidate.DistanceKm,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

type assignDriverRequest struct {
	DriverID           string `json:"driverId"`
	FeeMinorUnits      int64  `json:"feeMinorUnits"`
	Currency           string `json:"currency"`
	RequiresPrepayment bool   `json:"requiresPrepayment"`
}

// AssignDriver handles POST /api/v1/orders/:orderId/assign-driver.
func (s *Server) AssignDriver(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req assignDriverRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	fee, err := kernel.NewMoney(req.FeeMinorUnits, req.Currency)
	if err != nil {
		return badRequest(ctx, "Invalid fee: "+err.Error())
	}

	if err := s.controller.AssignDriver(
		ctx.Request().Context(), orderID, driverID, fee, req.RequiresPrepayment,
	); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type depositRequest struct {
	AmountMinorUnits int64  `json:"amountMinorUnits"`
	Currency         string `json:"currency"`
	PayerPhone       string `json:"payerPhone"`
	PersonToPerson   bool   `json:"personToPerson"`
}

// StartCourierFeeDeposit handles POST /api/v1/orders/:orderId/courier-fee-deposit.
// The reconciliation runs in the background; progress reaches the client over
// the payment-progress event topic.
func (s *Server) StartCourierFeeDeposit(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req depositRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	amount, err := kernel.NewMoney(req.AmountMinorUnits, req.Currency)
	if err != nil {
		return badRequest(ctx, "Invalid amount: "+err.Error())
	}

	handle, err := s.controller.StartCourierFeeDeposit(
		ctx.Request().Context(), orderID, amount, req.PayerPhone, req.PersonToPerson)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusAccepted, map[string]string{
		"depositId": handle.DepositID().String(),
	})
}

// StartVerificationDeposit handles POST /api/v1/sellers/:sellerId/verification-deposit.
func (s *Server) StartVerificationDeposit(ctx echo.Context) error {
	sellerID, err := pathUUID(ctx, "sellerId")
	if err != nil {
		return badRequest(ctx, "Invalid seller id")
	}

	var req depositRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	amount, err := kernel.NewMoney(req.AmountMinorUnits, req.Currency)
	if err != nil {
		return badRequest(ctx, "Invalid amount: "+err.Error())
	}

	handle, err := s.controller.StartSellerVerificationDeposit(
		ctx.Request().Context(), sellerID, amount, req.PayerPhone)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusAccepted, map[string]string{
		"depositId": handle.DepositID().String(),
	})
}

type smsRequest struct {
	Body         string `json:"body"`
	ReceivedAtMs int64  `json:"receivedAtMs"`
}

// HandleSMS handles POST /api/v1/payments/sms - the forwarded-SMS ingress.
// A message that matches no open deposit is acknowledged and dropped.
func (s *Server) HandleSMS(ctx echo.Context) error {
	var req smsRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	receivedAt := time.UnixMilli(req.ReceivedAtMs).UTC()
	depositID, err := s.controller.HandleSMS(req.Body, receivedAt)
	if err != nil {
		if errors.Is(err, reconciler.ErrUnknownDeposit) {
			return ctx.NoContent(http.StatusAccepted)
		}
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{"depositId": depositID.String()})
}

type manualConfirmationRequest struct {
	SMSText       string `json:"smsText"`
	TransactionID string `json:"transactionId"`
}

// ConfirmManually handles POST /api/v1/payments/:depositId/manual-confirmation.
func (s *Server) ConfirmManually(ctx echo.Context) error {
	depositID, err := pathUUID(ctx, "depositId")
	if err != nil {
		return badRequest(ctx, "Invalid deposit id")
	}

	var req manualConfirmationRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	if err := s.controller.ConfirmManually(
		ctx.Request().Context(), depositID, req.SMSText, req.TransactionID,
	); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// CaptureProof handles POST /api/v1/orders/:orderId/proof - multipart upload
// of the delivery photo and the customer signature.
func (s *Server) CaptureProof(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	image, err := formFileBytes(ctx, "photo")
	if err != nil {
		return badRequest(ctx, "Missing or unreadable photo")
	}
	signature, err := formFileBytes(ctx, "signature")
	if err != nil {
		return badRequest(ctx, "Missing or unreadable signature")
	}

	if err := s.controller.CaptureProof(
		ctx.Request().Context(), orderID, image, signature,
	); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type sellerOrderLine struct {
	OrderID      string    `json:"orderId"`
	CustomerName string    `json:"customerName"`
	Total        string    `json:"total"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// GetSellerOrders handles GET /api/v1/sellers/:sellerId/orders.
func (s *Server) GetSellerOrders(ctx echo.Context) error {
	sellerID, err := pathUUID(ctx, "sellerId")
	if err != nil {
		return badRequest(ctx, "Invalid seller id")
	}

	lines, err := s.controller.SellerOrders(ctx.Request().Context(), sellerID)
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]sellerOrderLine, len(lines))
	for i, line := range lines {
		response[i] = sellerOrderLine{
			OrderID:      line.OrderID.String(),
			CustomerName: line.CustomerName,
			Total:        line.Total.String(),
			Status:       line.Status,
			CreatedAt:    line.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

func formFileBytes(ctx echo.Context, name string) ([]byte, error) {
	header, err := ctx.FormFile(name)
	if err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// domainError maps domain failures onto HTTP status codes. Conflicts cover
// both lost races and transitions the state machine rejects, so the client
// can refresh and retry.
func domainError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrConcurrentModification),
		errors.Is(err, commands.ErrDriverNoLongerAvailable):
		status = http.StatusConflict
	case errors.Is(err, reconciler.ErrDepositInitiationFailed):
		status = http.StatusBadGateway
	case errors.Is(err, errs.ErrUploadFailed):
		status = http.StatusBadGateway
	}

	return ctx.JSON(status, Error{Code: status, Message: err.Error()})
}
