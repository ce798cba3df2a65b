package kafka

import (
	"time"

	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/google/uuid"
)

const (
	EventReservationCreated = "reservation_created"
	EventReservationUpdated = "reservation_updated"
	EventReservationDeleted = "reservation_deleted"
)

type ReservationEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id"`
	CustomerName  string    `json:"customer_name,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Tour          string    `json:"tour,omitempty"`
	TravelDate    string    `json:"travel_date,omitempty"`
	SellingPrice  float64   `json:"selling_price"`
	AmountPaid    float64   `json:"amount_paid"`
	Status        string    `json:"status,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewReservationEvent snapshots r for publishing. A deleted reservation only
// carries its ID.
func NewReservationEvent(eventType string, r domain.Reservation, at time.Time) ReservationEvent {
	event := ReservationEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		ReservationID: r.ID,
		OccurredAt:    at.UTC(),
	}
	if eventType == EventReservationDeleted {
		return event
	}

	event.CustomerName = r.FirstName() + " " + r.LastName()
	event.Phone = r.Phone()
	event.Tour = string(r.Tour())
	if r.Booking != nil {
		event.TravelDate = r.Booking.Date
	}
	event.SellingPrice = r.SellingPrice()
	event.AmountPaid = r.AmountPaid()
	event.Status = string(r.Status())
	return event
}
