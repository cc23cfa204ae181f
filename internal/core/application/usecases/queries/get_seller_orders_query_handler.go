package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetSellerOrdersQueryHandler retrieves a seller's order book from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
type GetSellerOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetSellerOrdersQueryHandler creates a handler for seller order-book queries.
// Requires a GORM database connection for query execution.
func NewGetSellerOrdersQueryHandler(db *gorm.DB) GetSellerOrdersQueryHandler {
	return GetSellerOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve the seller's orders, newest first.
func (h GetSellerOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetSellerOrdersQuery,
) ([]GetSellerOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	responses := make([]GetSellerOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_name,
			total_minor_units,
			currency,
			status,
			created_at
		FROM orders
		WHERE seller_id = ?
		ORDER BY created_at DESC
	`, query.SellerID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			response   GetSellerOrdersQueryResponse
			id         uuid.UUID
			minorUnits int64
			currency   string
			createdAt  time.Time
		)

		err = rows.Scan(
			&id,
			&response.CustomerName,
			&minorUnits,
			&currency,
			&response.Status,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		response.OrderID = orderID

		total, moneyErr := kernel.NewMoney(minorUnits, currency)
		if moneyErr != nil {
			return nil, moneyErr
		}
		response.Total = total
		response.CreatedAt = createdAt.UTC()

		responses = append(responses, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return responses, nil
}
