package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"resortAdmin/internal/modules/admin/domain"
)

func printList(w io.Writer, collection domain.Collection, state domain.ViewState) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	var (
		page, total, rows int
		hasMore          bool
	)
	switch collection {
	case domain.CollectionBookings:
		fmt.Fprintln(tw, "ID\tREFERENCE\tGUEST\tPROGRAM\tCHECK-IN\tCHECK-OUT\tSTATUS\tTOTAL")
		for _, row := range state.Bookings.Rows {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", row.ID, row.Reference, row.GuestName(), row.ProgramName, row.CheckIn, row.CheckOut, row.Status, money(row.TotalAmount, row.Currency))
		}
		page, total, rows, hasMore = state.Bookings.Page, state.Bookings.Total, len(state.Bookings.Rows), state.Bookings.HasMore
	case domain.CollectionPayments:
		fmt.Fprintln(tw, "ID\tBOOKING\tGUEST\tAMOUNT\tSTATUS\tPROVIDER\tCREATED")
		for _, row := range state.Payments.Rows {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", row.ID, row.BookingReference, row.GuestName(), money(row.Amount, row.Currency), row.Status, row.Provider, timestamp(row.CreatedAt))
		}
		page, total, rows, hasMore = state.Payments.Page, state.Payments.Total, len(state.Payments.Rows), state.Payments.HasMore
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	footer := fmt.Sprintf("page %d, %d of %d %s", page, rows, total, collection)
	if hasMore {
		footer += fmt.Sprintf(" (next: --page %d)", page+1)
	}
	_, err := fmt.Fprintln(w, footer)
	return err
}

func printDetail(w io.Writer, state domain.ViewState) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	field := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", label, value)
		}
	}
	switch {
	case state.BookingDetail != nil:
		b := state.BookingDetail
		field("Booking", fmt.Sprintf("%d", b.ID))
		field("Reference", b.Reference)
		field("Guest", b.GuestName())
		field("Email", b.GuestEmail)
		field("Phone", b.GuestPhone)
		field("Program", b.ProgramName)
		field("Room", b.RoomType)
		field("Stay", b.CheckIn+" to "+b.CheckOut)
		field("Guests", fmt.Sprintf("%d", b.Guests))
		field("Status", b.Status)
		field("Total", money(b.TotalAmount, b.Currency))
		field("Special requests", b.SpecialRequests)
		field("Dietary", b.DietaryRequirements)
		field("Arrival notes", b.ArrivalNotes)
		for _, p := range b.Payments {
			field("Payment", fmt.Sprintf("#%d %s %s", p.ID, money(p.Amount, p.Currency), p.Status))
		}
	case state.PaymentDetail != nil:
		p := state.PaymentDetail
		field("Payment", fmt.Sprintf("%d", p.ID))
		field("Booking", p.BookingReference)
		field("Guest", p.GuestName())
		field("Amount", money(p.Amount, p.Currency))
		field("Status", p.Status)
		field("Provider", p.Provider)
		field("Transaction", p.TransactionID)
		field("Provider ref", p.ProviderReference)
		if p.RefundedAmount > 0 {
			field("Refunded", money(p.RefundedAmount, p.Currency))
		}
		field("Failure", p.FailureReason)
		if p.PaidAt != nil {
			field("Paid at", timestamp(*p.PaidAt))
		}
		field("Created", timestamp(p.CreatedAt))
	default:
		fmt.Fprintln(tw, "No record loaded.")
	}
	return tw.Flush()
}

func money(amount float64, currency string) string {
	return strings.TrimSpace(fmt.Sprintf("%.2f %s", amount, strings.ToUpper(currency)))
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}
