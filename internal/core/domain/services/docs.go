// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the fulfillment system. It implements complex
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - DriverMatcher: A domain service ranking available drivers by distance to a pickup point
//   - SMSMatcher: A domain service matching pasted confirmation messages against a payment attempt
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
