package domain

import (
	"strings"
	"time"
)

// BookingRow is the flattened booking projection returned by the bookings list.
type BookingRow struct {
	ID             int64     `json:"id"`
	Reference      string    `json:"booking_reference"`
	GuestFirstName string    `json:"guest_first_name"`
	GuestLastName  string    `json:"guest_last_name"`
	GuestEmail     string    `json:"guest_email"`
	ProgramName    string    `json:"program_name"`
	CheckIn        string    `json:"check_in"`
	CheckOut       string    `json:"check_out"`
	Guests         int       `json:"guests"`
	Status         string    `json:"status"`
	TotalAmount    float64   `json:"total_amount"`
	Currency       string    `json:"currency"`
	CreatedAt      time.Time `json:"created_at"`
}

// GuestName joins the denormalized guest name fields, falling back to the email.
func (b BookingRow) GuestName() string {
	return guestName(b.GuestFirstName, b.GuestLastName, b.GuestEmail)
}

// BookingDetail is the full booking record fetched when the detail modal opens.
type BookingDetail struct {
	BookingRow
	GuestPhone          string       `json:"guest_phone"`
	RoomType            string       `json:"room_type"`
	SpecialRequests     string       `json:"special_requests"`
	DietaryRequirements string       `json:"dietary_requirements"`
	ArrivalNotes        string       `json:"arrival_notes"`
	Payments            []PaymentRow `json:"payments"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

func guestName(first, last, email string) string {
	parts := make([]string, 0, 2)
	if trimmed := strings.TrimSpace(first); trimmed != "" {
		parts = append(parts, trimmed)
	}
	if trimmed := strings.TrimSpace(last); trimmed != "" {
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return strings.TrimSpace(email)
	}
	return strings.Join(parts, " ")
}
