package domain

import (
	"encoding/json"
	"errors"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusNotPaid   PaymentStatus = "NOT_PAID"
	PaymentStatusHalfPaid  PaymentStatus = "HALF_PAID"
	PaymentStatusFullyPaid PaymentStatus = "FULLY_PAID"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusNotPaid, PaymentStatusHalfPaid, PaymentStatusFullyPaid:
		return true
	}
	return false
}

// Label renders the status for people, e.g. "HALF PAID".
func (s PaymentStatus) Label() string {
	switch s {
	case PaymentStatusNotPaid:
		return "NOT PAID"
	case PaymentStatusHalfPaid:
		return "HALF PAID"
	case PaymentStatusFullyPaid:
		return "FULLY PAID"
	}
	return string(s)
}

type Tour string

const (
	TourCityTour        Tour = "City Tour"
	TourIslandHopping   Tour = "Island Hopping"
	TourSunsetCruise    Tour = "Sunset Cruise"
	TourSafariAdventure Tour = "Safari Adventure"
)

// Tours lists the tour options the agency sells.
var Tours = []Tour{TourCityTour, TourIslandHopping, TourSunsetCruise, TourSafariAdventure}

func (t Tour) Valid() bool {
	for _, known := range Tours {
		if t == known {
			return true
		}
	}
	return false
}

type Customer struct {
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
	Phone     string `json:"phone" validate:"notblank"`
}

type Booking struct {
	Hotel string `json:"hotel" validate:"notblank"`
	Room  string `json:"room" validate:"notblank"`
	Pax   Count  `json:"pax" validate:"gte=1"`
	Tour  Tour   `json:"tour" validate:"tour"`
	// Date is the travel date as YYYY-MM-DD; empty when unknown.
	Date string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type Financial struct {
	CostPrice    Amount        `json:"costPrice" validate:"gte=0"`
	SellingPrice Amount        `json:"sellingPrice" validate:"gte=0"`
	AmountPaid   Amount        `json:"amountPaid" validate:"gte=0"`
	Status       PaymentStatus `json:"status" validate:"payment_status"`
}

// Reservation is the only persisted entity of the ledger. ID and CreatedAt are
// write-once. Sub-objects are pointers because stored records may lack them.
type Reservation struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	Customer  *Customer  `json:"customer,omitempty"`
	Booking   *Booking   `json:"booking,omitempty"`
	Financial *Financial `json:"financial,omitempty"`
}

// UnmarshalJSON decodes a stored record as far as it can. Type mismatches inside
// a single record leave the affected fields zero instead of failing the whole
// collection, and an unparseable createdAt becomes the zero time.
func (r *Reservation) UnmarshalJSON(data []byte) error {
	type plain Reservation
	aux := struct {
		*plain
		CreatedAt json.RawMessage `json:"createdAt"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return err
		}
	}
	r.CreatedAt = parseTimestamp(aux.CreatedAt)
	return nil
}

func parseTimestamp(raw json.RawMessage) time.Time {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// Patch carries caller-supplied reservation fields. ID and CreatedAt are
// accepted so that payloads round-trip, but ApplyPatch never honours them.
type Patch struct {
	ID        *string    `json:"id,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	Customer  *Customer  `json:"customer,omitempty"`
	Booking   *Booking   `json:"booking,omitempty"`
	Financial *Financial `json:"financial,omitempty"`
}

// ApplyPatch shallow-merges p into existing: every sub-object present in p
// replaces the existing one wholesale. ID and CreatedAt always keep the
// existing values.
func ApplyPatch(existing Reservation, p Patch) Reservation {
	merged := existing.Clone()
	if p.Customer != nil {
		c := *p.Customer
		merged.Customer = &c
	}
	if p.Booking != nil {
		b := *p.Booking
		merged.Booking = &b
	}
	if p.Financial != nil {
		f := *p.Financial
		merged.Financial = &f
	}

	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	return merged
}

// Clone returns a copy that shares no sub-objects with r.
func (r Reservation) Clone() Reservation {
	out := r
	if r.Customer != nil {
		c := *r.Customer
		out.Customer = &c
	}
	if r.Booking != nil {
		b := *r.Booking
		out.Booking = &b
	}
	if r.Financial != nil {
		f := *r.Financial
		out.Financial = &f
	}
	return out
}
