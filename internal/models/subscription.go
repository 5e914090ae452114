package models

import "time"

// Subscription statuses. Only active is written in this service;
// expiry transitions belong to a background job that does not exist yet.
const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

// PaymentMethodMobileMoney is the only method the simulator reports.
const PaymentMethodMobileMoney = "mobile_money"

// SubscriptionPeriod is the fixed paid period granted per purchase.
const SubscriptionPeriod = 30 * 24 * time.Hour

// Subscription records a single purchase event.
type Subscription struct {
	ID            string    `json:"id" bson:"_id"`
	UserID        string    `json:"user_id" bson:"user_id"`
	Type          string    `json:"type" bson:"type"`
	StartDate     time.Time `json:"start_date" bson:"start_date"`
	EndDate       time.Time `json:"end_date" bson:"end_date"`
	Status        string    `json:"status" bson:"status"`
	PaymentMethod string    `json:"payment_method" bson:"payment_method"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// InitiatePaymentRequest starts a simulated checkout.
type InitiatePaymentRequest struct {
	SubscriptionType string `json:"subscriptionType" validate:"required,oneof=basic premium"`
}

// InitiatePaymentResponse carries the transaction handle and the
// gateway redirect the client should follow.
type InitiatePaymentResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId"`
	RedirectURL   string `json:"redirectUrl"`
}

// VerifyPaymentResponse reports the terminal outcome of a transaction.
type VerifyPaymentResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Plan    string `json:"plan,omitempty"`
}
