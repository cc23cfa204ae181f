// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// DeliveryRepoFactory provides access to the delivery repository within a transaction.
	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	// DriverRepoFactory provides access to the driver repository within a transaction.
	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	// SellerRepoFactory provides access to the seller repository within a transaction.
	SellerRepoFactory interface {
		SellerRepository() ports.SellerRepository
	}

	// PaymentRepoFactory provides access to payment persistence within a transaction.
	PaymentRepoFactory interface {
		PaymentAttemptRepository() ports.PaymentAttemptRepository
		ManualClaimRepository() ports.ManualClaimRepository
	}

	// OrderUoW manages transactions for order-only operations.
	// Used when commands only modify the order record.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// AssignmentUoW manages transactions spanning orders, drivers and
	// deliveries. Used by the driver assignment workflow.
	AssignmentUoW interface {
		TxManager
		OrderRepoFactory
		DriverRepoFactory
		DeliveryRepoFactory
		SellerRepoFactory
	}

	// AssignmentUoWFactory creates new assignment unit of work instances.
	AssignmentUoWFactory interface {
		Create() AssignmentUoW
	}

	// FulfillmentUoW manages transactions spanning orders and deliveries.
	// Used by proof capture and payment confirmation, which advance both.
	FulfillmentUoW interface {
		TxManager
		OrderRepoFactory
		DeliveryRepoFactory
	}

	// FulfillmentUoWFactory creates new fulfillment unit of work instances.
	FulfillmentUoWFactory interface {
		Create() FulfillmentUoW
	}

	// SellerUoW manages transactions for seller-only operations.
	SellerUoW interface {
		TxManager
		SellerRepoFactory
	}

	// SellerUoWFactory creates new seller unit of work instances.
	SellerUoWFactory interface {
		Create() SellerUoW
	}
)
