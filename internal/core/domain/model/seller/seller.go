// Package seller provides the Seller entity and its verification subscription
// state. A seller becomes "verified" for thirty days after a successful
// seller-verification deposit; the flag lapses when the period ends.
package seller

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// VerificationPeriod is how long a seller stays verified after a successful
// subscription deposit.
const VerificationPeriod = 30 * 24 * time.Hour

// ErrSellerIsNotConstructed is returned when using an improperly initialized Seller.
var ErrSellerIsNotConstructed = errors.New("Seller must be created via NewSeller or RestoreSeller constructors")

// Seller represents a marketplace seller with an optional verification subscription.
type Seller struct {
	// id uniquely identifies the seller
	id kernel.UUID
	// name is the store's display name
	name string
	// phone is the seller's mobile-money phone number
	phone string
	// store is the store's position, used as the pickup point for courier legs
	store kernel.GeoPoint
	// verifiedUntil is the end of the current verification period (nil if never verified)
	verifiedUntil *time.Time
	// guard ensures the seller was properly constructed
	guard guard.ConstructorGuard
}

// NewSeller creates a new Seller with the specified parameters.
func NewSeller(id kernel.UUID, name, phone string, store kernel.GeoPoint) (*Seller, error) {
	s := &Seller{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setName(name),
		s.setPhone(phone),
		s.setStore(store),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// RestoreSeller reconstructs a Seller from persistent storage.
func RestoreSeller(
	id kernel.UUID, name, phone string, store kernel.GeoPoint, verifiedUntil *time.Time,
) (*Seller, error) {
	s, err := NewSeller(id, name, phone, store)
	if err != nil {
		return nil, err
	}

	s.verifiedUntil = verifiedUntil
	return s, nil
}

// Validate ensures the Seller instance was properly constructed.
func (s *Seller) Validate() error {
	if s == nil {
		return ErrSellerIsNotConstructed
	}
	return s.guard.Validate(ErrSellerIsNotConstructed)
}

// ID returns the seller's unique identifier.
func (s *Seller) ID() kernel.UUID {
	return s.id
}

// Name returns the store's display name.
func (s *Seller) Name() string {
	return s.name
}

// Phone returns the seller's phone number.
func (s *Seller) Phone() string {
	return s.phone
}

// Store returns the store's position.
func (s *Seller) Store() kernel.GeoPoint {
	return s.store
}

// VerifiedUntil returns the end of the current verification period, or nil.
func (s *Seller) VerifiedUntil() *time.Time {
	return s.verifiedUntil
}

// IsVerified reports whether the seller's verification is active at the given time.
func (s *Seller) IsVerified(now time.Time) bool {
	return s.verifiedUntil != nil && s.verifiedUntil.After(now)
}

// MarkVerified starts a fresh verification period from the given time.
// Called when a seller-verification deposit resolves successfully.
func (s *Seller) MarkVerified(now time.Time) {
	until := now.Add(VerificationPeriod)
	s.verifiedUntil = &until
}

// ClearVerification removes a lapsed verification flag.
func (s *Seller) ClearVerification() {
	s.verifiedUntil = nil
}

// setID validates and sets the seller's unique identifier.
// This is a private method used only during construction.
func (s *Seller) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

// setName validates and sets the store's display name.
// This is a private method used only during construction.
func (s *Seller) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	s.name = name
	return nil
}

// setPhone validates and sets the seller's phone number.
// This is a private method used only during construction.
func (s *Seller) setPhone(phone string) error {
	if phone == "" {
		return errs.NewValueIsRequiredError("phone")
	}
	s.phone = phone
	return nil
}

// setStore validates and sets the store's position.
// This is a private method used only during construction.
func (s *Seller) setStore(store kernel.GeoPoint) error {
	if err := store.Validate(); err != nil {
		return err
	}
	s.store = store
	return nil
}
