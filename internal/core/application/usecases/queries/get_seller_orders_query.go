package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetSellerOrdersQueryIsNotConstructed = errors.New(
	"GetSellerOrdersQuery must be created via NewGetSellerOrdersQuery constructor",
)

// GetSellerOrdersQuery retrieves a seller's order book, newest first.
// Backs the seller app's main screen.
type GetSellerOrdersQuery struct { //nolint:recvcheck //using for validation
	sellerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetSellerOrdersQuery creates a query for a seller's orders.
func NewGetSellerOrdersQuery(sellerID kernel.UUID) (GetSellerOrdersQuery, error) {
	query := GetSellerOrdersQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setSellerID(sellerID); err != nil {
		return GetSellerOrdersQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetSellerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetSellerOrdersQueryIsNotConstructed)
}

// SellerID returns the seller whose orders are requested.
func (q GetSellerOrdersQuery) SellerID() kernel.UUID {
	return q.sellerID
}

func (q *GetSellerOrdersQuery) setSellerID(sellerID kernel.UUID) error {
	if err := sellerID.Validate(); err != nil {
		return err
	}

	q.sellerID = sellerID
	return nil
}

// GetSellerOrdersQueryResponse represents one order line in the seller's book.
type GetSellerOrdersQueryResponse struct {
	OrderID      kernel.UUID
	CustomerName string
	Total        kernel.Money
	Status       string
	CreatedAt    time.Time
}
