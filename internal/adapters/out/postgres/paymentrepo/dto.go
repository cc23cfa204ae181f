// Package paymentrepo provides data transfer objects and mapping functions
// for payment attempt and manual claim persistence.
package paymentrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"

	"github.com/google/uuid"
)

// AttemptDTO represents the database structure for persisting payment attempts.
// The deposit id is the primary key: one attempt per deposit.
type AttemptDTO struct {
	DepositID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID          *uuid.UUID `gorm:"type:uuid;index"`
	SellerID         *uuid.UUID `gorm:"type:uuid;index"`
	Kind             string     `gorm:"type:varchar(32);not null"`
	AmountMinorUnits int64      `gorm:"not null"`
	Currency         string     `gorm:"type:varchar(3);not null"`
	PayerPhone       string     `gorm:"type:varchar(32);not null"`
	Status           string     `gorm:"type:varchar(16);not null;index"`
	StartedAt        time.Time  `gorm:"not null"`
	Polls            int        `gorm:"not null"`
}

// TableName specifies the database table name for payment attempt entities.
func (AttemptDTO) TableName() string {
	return "payment_attempts"
}

// ManualClaimDTO represents the database structure for persisting
// manual-confirmation claims awaiting human review.
type ManualClaimDTO struct {
	DepositID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	SMSText       string    `gorm:"type:text;not null"`
	TransactionID string    `gorm:"type:varchar(64);not null"`
	SubmittedAt   time.Time `gorm:"not null"`
}

// TableName specifies the database table name for manual claim entities.
func (ManualClaimDTO) TableName() string {
	return "manual_claims"
}

// attemptFromDomain converts a payment attempt to its database representation.
func attemptFromDomain(aggregate *payment.Attempt) AttemptDTO {
	return AttemptDTO{
		DepositID:        aggregate.DepositID().Bytes(),
		OrderID:          optionalUUID(aggregate.OrderID()),
		SellerID:         optionalUUID(aggregate.SellerID()),
		Kind:             aggregate.Kind().String(),
		AmountMinorUnits: aggregate.Amount().MinorUnits(),
		Currency:         aggregate.Amount().Currency(),
		PayerPhone:       aggregate.PayerPhone(),
		Status:           aggregate.Status().String(),
		StartedAt:        aggregate.StartedAt(),
		Polls:            aggregate.Polls(),
	}
}

// attemptToDomain converts a database DTO to a payment attempt.
func attemptToDomain(dto AttemptDTO) (*payment.Attempt, error) {
	depositID, err := kernel.UUIDFromBytes(dto.DepositID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := optionalKernelUUID(dto.OrderID)
	if err != nil {
		return nil, err
	}

	sellerID, err := optionalKernelUUID(dto.SellerID)
	if err != nil {
		return nil, err
	}

	kind, err := payment.KindFromString(dto.Kind)
	if err != nil {
		return nil, err
	}

	amount, err := kernel.NewMoney(dto.AmountMinorUnits, dto.Currency)
	if err != nil {
		return nil, err
	}

	status, err := payment.AttemptStatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return payment.RestoreAttempt(
		depositID, orderID, sellerID, kind, amount, dto.PayerPhone,
		status, dto.StartedAt, dto.Polls,
	)
}

// claimFromDomain converts a manual claim to its database representation.
func claimFromDomain(record *payment.ManualClaim) ManualClaimDTO {
	return ManualClaimDTO{
		DepositID:     record.DepositID().Bytes(),
		SMSText:       record.SMSText(),
		TransactionID: record.TransactionID(),
		SubmittedAt:   record.SubmittedAt(),
	}
}

// claimToDomain converts a database DTO to a manual claim.
func claimToDomain(dto ManualClaimDTO) (*payment.ManualClaim, error) {
	depositID, err := kernel.UUIDFromBytes(dto.DepositID[:])
	if err != nil {
		return nil, err
	}

	return payment.NewManualClaim(depositID, dto.SMSText, dto.TransactionID, dto.SubmittedAt)
}

// optionalUUID maps an optional domain UUID to a nullable column value.
func optionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

// optionalKernelUUID maps a nullable column value back to an optional domain UUID.
func optionalKernelUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
