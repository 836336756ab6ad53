package domain

// SessionPhase is the guard state of one view activation.
type SessionPhase string

const (
	PhaseUnchecked     SessionPhase = "unchecked"
	PhaseAuthenticated SessionPhase = "authenticated"
	PhaseRedirecting   SessionPhase = "redirecting"
)

// Selection identifies the record shown in the detail modal.
type Selection struct {
	Kind DetailKind `json:"kind"`
	ID   int64      `json:"id"`
}

// ListState is the visible state of one paginated collection.
type ListState[T any] struct {
	Rows    []T  `json:"rows"`
	Page    int  `json:"page"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
	Loading bool `json:"loading"`
	Loaded  bool `json:"loaded"`
}

func (l ListState[T]) clone() ListState[T] {
	cloned := l
	if l.Rows != nil {
		cloned.Rows = append(make([]T, 0, len(l.Rows)), l.Rows...)
	}
	return cloned
}

// ViewState is everything the rendering surface needs to draw the admin view.
// Version increases on every change so renderers can drop out-of-order snapshots.
type ViewState struct {
	Version       uint64                `json:"version"`
	Phase         SessionPhase          `json:"phase"`
	Redirect      string                `json:"redirect,omitempty"`
	Bookings      ListState[BookingRow] `json:"bookings"`
	Payments      ListState[PaymentRow] `json:"payments"`
	Selection     *Selection            `json:"selection,omitempty"`
	BookingDetail *BookingDetail        `json:"bookingDetail,omitempty"`
	PaymentDetail *PaymentDetail        `json:"paymentDetail,omitempty"`
	DetailLoading bool                  `json:"detailLoading"`
	Error         string                `json:"error,omitempty"`
}

// NewViewState returns the state of a view that has not run its session check.
func NewViewState() ViewState {
	return ViewState{
		Phase:    PhaseUnchecked,
		Bookings: ListState[BookingRow]{Page: 1},
		Payments: ListState[PaymentRow]{Page: 1},
	}
}

// Clone returns a copy that shares no slices or pointers with the receiver.
func (v ViewState) Clone() ViewState {
	cloned := v
	cloned.Bookings = v.Bookings.clone()
	cloned.Payments = v.Payments.clone()
	if v.Selection != nil {
		selection := *v.Selection
		cloned.Selection = &selection
	}
	if v.BookingDetail != nil {
		detail := *v.BookingDetail
		detail.Payments = append([]PaymentRow(nil), v.BookingDetail.Payments...)
		cloned.BookingDetail = &detail
	}
	if v.PaymentDetail != nil {
		detail := *v.PaymentDetail
		if v.PaymentDetail.Booking != nil {
			booking := *v.PaymentDetail.Booking
			detail.Booking = &booking
		}
		if v.PaymentDetail.Metadata != nil {
			detail.Metadata = make(map[string]string, len(v.PaymentDetail.Metadata))
			for key, value := range v.PaymentDetail.Metadata {
				detail.Metadata[key] = value
			}
		}
		cloned.PaymentDetail = &detail
	}
	return cloned
}

// ListPage returns the current page of the collection's list.
func (v ViewState) ListPage(collection Collection) (page int, loaded bool) {
	switch collection {
	case CollectionBookings:
		return v.Bookings.Page, v.Bookings.Loaded
	case CollectionPayments:
		return v.Payments.Page, v.Payments.Loaded
	default:
		return 0, false
	}
}

// ListHasMore reports whether the collection's last loaded page has a successor.
func (v ViewState) ListHasMore(collection Collection) bool {
	switch collection {
	case CollectionBookings:
		return v.Bookings.HasMore
	case CollectionPayments:
		return v.Payments.HasMore
	default:
		return false
	}
}

// ListLoading reports whether a page request for the collection is in flight.
func (v ViewState) ListLoading(collection Collection) bool {
	switch collection {
	case CollectionBookings:
		return v.Bookings.Loading
	case CollectionPayments:
		return v.Payments.Loading
	default:
		return false
	}
}
