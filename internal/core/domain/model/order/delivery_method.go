package order

import (
	"fulfillment/internal/pkg/errs"
)

// DeliveryMethod represents how an order reaches the buyer once the seller
// has made a delivery decision.
type DeliveryMethod int

const (
	// MethodUnset means no delivery decision has been made yet.
	MethodUnset DeliveryMethod = iota

	// MethodSellerDelivery means the seller delivers the order themselves.
	MethodSellerDelivery

	// MethodPlatformDelivery means a platform driver performs the courier leg.
	MethodPlatformDelivery
)

// getDeliveryMethodStrings returns a map of DeliveryMethod values to their
// string representations.
func getDeliveryMethodStrings() map[DeliveryMethod]string {
	return map[DeliveryMethod]string{
		MethodUnset:            "unset",
		MethodSellerDelivery:   "seller_delivery",
		MethodPlatformDelivery: "platform_delivery",
	}
}

// DeliveryMethodFromString converts a persisted string representation back into
// a DeliveryMethod. Unrecognized representations fail closed.
func DeliveryMethodFromString(s string) (DeliveryMethod, error) {
	for method, str := range getDeliveryMethodStrings() {
		if str == s {
			return method, nil
		}
	}
	return MethodUnset, errs.NewValueIsInvalidError("deliveryMethod")
}

// Validate checks if the DeliveryMethod value is one of the defined methods.
func (m DeliveryMethod) Validate() error {
	if _, ok := getDeliveryMethodStrings()[m]; !ok {
		return errs.NewValueIsInvalidError("deliveryMethod")
	}
	return nil
}

// String returns the persisted snake_case name of the delivery method.
// Implements the fmt.Stringer interface.
func (m DeliveryMethod) String() string {
	if str, ok := getDeliveryMethodStrings()[m]; ok {
		return str
	}
	return "unset"
}
