package domain

import "strings"

// Collection identifies one of the paginated admin lists.
type Collection string

const (
	CollectionBookings Collection = "bookings"
	CollectionPayments Collection = "payments"
)

// DetailKind identifies which single-entity record the detail modal shows.
type DetailKind string

const (
	DetailNone    DetailKind = ""
	DetailBooking DetailKind = "booking"
	DetailPayment DetailKind = "payment"
)

// Collections lists every collection the console can page through.
var Collections = []Collection{CollectionBookings, CollectionPayments}

// ParseCollection accepts singular or plural names in any case.
func ParseCollection(raw string) (Collection, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "booking", "bookings":
		return CollectionBookings, true
	case "payment", "payments":
		return CollectionPayments, true
	default:
		return "", false
	}
}

// ParseDetailKind accepts singular or plural names in any case.
func ParseDetailKind(raw string) (DetailKind, bool) {
	collection, ok := ParseCollection(raw)
	if !ok {
		return DetailNone, false
	}
	return collection.DetailKind(), true
}

// DetailKind returns the detail record kind served by the collection's by-id endpoint.
func (c Collection) DetailKind() DetailKind {
	switch c {
	case CollectionBookings:
		return DetailBooking
	case CollectionPayments:
		return DetailPayment
	default:
		return DetailNone
	}
}

// FallbackMessage is shown when a list failure carries nothing more specific.
func (c Collection) FallbackMessage() string {
	switch c {
	case CollectionBookings:
		return "Failed to load bookings"
	case CollectionPayments:
		return "Failed to load payments"
	default:
		return "Failed to load data"
	}
}

// Collection returns the list the detail kind belongs to.
func (k DetailKind) Collection() Collection {
	switch k {
	case DetailBooking:
		return CollectionBookings
	case DetailPayment:
		return CollectionPayments
	default:
		return ""
	}
}

// FallbackMessage is shown when a detail failure carries nothing more specific.
func (k DetailKind) FallbackMessage() string {
	switch k {
	case DetailBooking:
		return "Failed to load booking details"
	case DetailPayment:
		return "Failed to load payment details"
	default:
		return "Failed to load details"
	}
}
