package enum

// PaymentMethod represents how a sale is paid
type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "cash"
	PaymentMethodCard        PaymentMethod = "card"
	PaymentMethodMobileMoney PaymentMethod = "mobile_money"
)

// IsSynchronous reports whether the method settles inside the checkout transaction.
// Mobile money settles asynchronously through callback/poll reconciliation.
func (m PaymentMethod) IsSynchronous() bool {
	return m == PaymentMethodCash || m == PaymentMethodCard
}

// Valid reports whether the method is one of the supported values
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMobileMoney:
		return true
	}
	return false
}
