package domain

import "time"

// Field accessors with the defaults used when a stored record is missing a
// sub-object.

const (
	DefaultPax    Count         = 1
	DefaultStatus PaymentStatus = PaymentStatusNotPaid
)

func (r Reservation) FirstName() string {
	if r.Customer == nil {
		return ""
	}
	return r.Customer.FirstName
}

func (r Reservation) LastName() string {
	if r.Customer == nil {
		return ""
	}
	return r.Customer.LastName
}

func (r Reservation) Phone() string {
	if r.Customer == nil {
		return ""
	}
	return r.Customer.Phone
}

func (r Reservation) Hotel() string {
	if r.Booking == nil {
		return ""
	}
	return r.Booking.Hotel
}

func (r Reservation) Room() string {
	if r.Booking == nil {
		return ""
	}
	return r.Booking.Room
}

func (r Reservation) Tour() Tour {
	if r.Booking == nil {
		return ""
	}
	return r.Booking.Tour
}

func (r Reservation) Pax() Count {
	if r.Booking == nil || r.Booking.Pax < 1 {
		return DefaultPax
	}
	return r.Booking.Pax
}

// TravelDate reports the booking's travel date, if one is recorded and parses.
func (r Reservation) TravelDate() (time.Time, bool) {
	if r.Booking == nil || r.Booking.Date == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(time.DateOnly, r.Booking.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func (r Reservation) CostPrice() float64 {
	if r.Financial == nil {
		return 0
	}
	return r.Financial.CostPrice.Float()
}

func (r Reservation) SellingPrice() float64 {
	if r.Financial == nil {
		return 0
	}
	return r.Financial.SellingPrice.Float()
}

func (r Reservation) AmountPaid() float64 {
	if r.Financial == nil {
		return 0
	}
	return r.Financial.AmountPaid.Float()
}

func (r Reservation) Status() PaymentStatus {
	if r.Financial == nil || r.Financial.Status == "" {
		return DefaultStatus
	}
	return r.Financial.Status
}
