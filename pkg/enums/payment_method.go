package enums

import "fmt"

// PaymentMethod describes the rail a buyer intends to settle an order on.
type PaymentMethod string

const (
	PaymentMethodUSDT PaymentMethod = "usdt"
	PaymentMethodTON  PaymentMethod = "ton"
	PaymentMethodRUB  PaymentMethod = "rub"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodUSDT,
	PaymentMethodTON,
	PaymentMethodRUB,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
