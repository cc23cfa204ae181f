// Package order provides domain entities and business logic for order management
// in the fulfillment engine. It implements the Order aggregate root with lifecycle
// management and state transitions.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, properties, and lifecycle
//   - Status: A state machine that enforces valid order status transitions
//   - DeliveryMethod: The seller's delivery decision (self vs. platform delivery)
//   - Item: An order line item value object
//
// Key business rules:
//   - Orders must have valid identifiers, a validated drop-off point and a positive total
//   - Status follows the defined workflow: pending_delivery_choice ->
//     {seller_delivering | app_delivering} -> payment_ok (platform only) -> delivered
//   - Any non-terminal order may be cancelled; delivered and cancelled are terminal
//   - A driver or deposit may only be set on a platform-delivered order
//   - Proof references may only be set on a delivered order
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
