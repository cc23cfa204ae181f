package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves the tracking view of an order.
// Uses a single left-joined query so seller-delivery orders, which have no
// delivery record, come back in one round trip.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order tracking queries.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the tracking query.
// Returns an ObjectNotFoundError when the order does not exist.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.seller_id,
			o.customer_name,
			o.address,
			o.status,
			o.delivery_method,
			o.driver_id,
			o.delivered_at,
			d.status AS delivery_status
		FROM orders o
		LEFT JOIN deliveries d ON d.order_id = o.id
		WHERE o.id = ?
	`, query.OrderID().String()).Row()

	var (
		id, sellerID          uuid.UUID
		customerName, address string
		status, method        string
		driverID              uuid.NullUUID
		deliveredAt           sql.NullTime
		deliveryStatus        sql.NullString
	)

	err := row.Scan(
		&id, &sellerID, &customerName, &address,
		&status, &method, &driverID, &deliveredAt, &deliveryStatus,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderId", query.OrderID())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	response := GetOrderQueryResponse{
		CustomerName:   customerName,
		Address:        address,
		Status:         status,
		DeliveryMethod: method,
	}

	if response.OrderID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.SellerID, err = kernel.UUIDFromBytes(sellerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}

	if driverID.Valid {
		parsed, idErr := kernel.UUIDFromBytes(driverID.UUID[:])
		if idErr != nil {
			return GetOrderQueryResponse{}, idErr
		}
		response.DriverID = &parsed
	}

	if deliveredAt.Valid {
		at := deliveredAt.Time.UTC()
		response.DeliveredAt = &at
	}

	if deliveryStatus.Valid {
		response.DeliveryStatus = &deliveryStatus.String
	}

	return response, nil
}
