package event

import "github.com/shopspring/decimal"

const (
	TopicUserLoggedIn    = "user.logged_in"
	TopicDeposited       = "wallet.deposited"
	TopicCustomerUpdated = "customer.updated"
)

// UserLoggedIn is published by the web layer after a user authenticates.
type UserLoggedIn struct {
	UserID string
}

// Deposited is published after a deposit has been committed to the primary wallet.
type Deposited struct {
	UserID string
	Amount decimal.Decimal
}

// CustomerUpdated is published whenever a customer's cumulative spend changes.
type CustomerUpdated struct {
	UserID string
}
