package domain

import "time"

// PaymentRow is the flattened payment projection returned by the payments list.
type PaymentRow struct {
	ID               int64     `json:"id"`
	BookingID        int64     `json:"booking_id"`
	BookingReference string    `json:"booking_reference"`
	GuestFirstName   string    `json:"guest_first_name"`
	GuestLastName    string    `json:"guest_last_name"`
	GuestEmail       string    `json:"guest_email"`
	Amount           float64   `json:"amount"`
	Currency         string    `json:"currency"`
	Status           string    `json:"status"`
	Provider         string    `json:"provider"`
	TransactionID    string    `json:"transaction_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// GuestName joins the denormalized guest name fields, falling back to the email.
func (p PaymentRow) GuestName() string {
	return guestName(p.GuestFirstName, p.GuestLastName, p.GuestEmail)
}

// PaymentDetail is the full payment record fetched when the detail modal opens.
type PaymentDetail struct {
	PaymentRow
	ProviderReference string            `json:"provider_reference"`
	RefundedAmount    float64           `json:"refunded_amount"`
	FailureReason     string            `json:"failure_reason"`
	PaidAt            *time.Time        `json:"paid_at"`
	Booking           *BookingRow       `json:"booking,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}
