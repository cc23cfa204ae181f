// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetCandidateDriversQueryIsNotConstructed = errors.New(
	"GetCandidateDriversQuery must be created via NewGetCandidateDriversQuery constructor",
)

// GetCandidateDriversQuery retrieves the ranked list of drivers a seller may
// request for an order, nearest first. The list is a snapshot of the live
// location feed and goes stale immediately; clients re-fetch before assigning.
//
// Example:
//
//	query, _ := NewGetCandidateDriversQuery(orderID, 5)
//	handler := NewGetCandidateDriversQueryHandler(db, locations)
//
//	candidates, err := handler.Handle(ctx, query)
//	if errors.Is(err, services.ErrNoDriversInRange) {
//	    // Nobody close enough right now; the seller can retry or self-deliver.
//	}
type GetCandidateDriversQuery struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	radiusKm float64

	guard guard.ConstructorGuard
}

// NewGetCandidateDriversQuery creates a query for an order's driver candidates.
// A non-positive radius falls back to the default search radius.
func NewGetCandidateDriversQuery(orderID kernel.UUID, radiusKm float64) (GetCandidateDriversQuery, error) {
	query := GetCandidateDriversQuery{
		radiusKm: radiusKm,
		guard:    guard.NewConstructorGuard(),
	}

	if err := query.setOrderID(orderID); err != nil {
		return GetCandidateDriversQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCandidateDriversQuery) Validate() error {
	return q.guard.Validate(ErrGetCandidateDriversQueryIsNotConstructed)
}

// OrderID returns the order the candidates are requested for.
func (q GetCandidateDriversQuery) OrderID() kernel.UUID {
	return q.orderID
}

// RadiusKm returns the requested search radius in kilometers.
func (q GetCandidateDriversQuery) RadiusKm() float64 {
	return q.radiusKm
}

func (q *GetCandidateDriversQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// GetCandidateDriversQueryResponse represents one eligible driver in the read model.
type GetCandidateDriversQueryResponse struct {
	DriverID   kernel.UUID
	Name       string
	Phone      string
	DistanceKm float64
}
