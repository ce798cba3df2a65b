package api

import "github.com/Domenick1991/tourledger/internal/domain"

// reservationRequest is the body of POST and PUT /reservations. Amounts and
// pax are plain JSON numbers; a string or bool in their place fails binding.
type reservationRequest struct {
	Customer  *customerRequest  `json:"customer"`
	Booking   *bookingRequest   `json:"booking"`
	Financial *financialRequest `json:"financial"`
}

type customerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

type bookingRequest struct {
	Hotel string `json:"hotel"`
	Room  string `json:"room"`
	Pax   int    `json:"pax"`
	Tour  string `json:"tour"`
	Date  string `json:"date"`
}

type financialRequest struct {
	CostPrice    float64 `json:"costPrice"`
	SellingPrice float64 `json:"sellingPrice"`
	AmountPaid   float64 `json:"amountPaid"`
	Status       string  `json:"status"`
}

func (r reservationRequest) patch() domain.Patch {
	var p domain.Patch
	if c := r.Customer; c != nil {
		p.Customer = &domain.Customer{FirstName: c.FirstName, LastName: c.LastName, Phone: c.Phone}
	}
	if b := r.Booking; b != nil {
		p.Booking = &domain.Booking{
			Hotel: b.Hotel,
			Room:  b.Room,
			Pax:   domain.Count(b.Pax),
			Tour:  domain.Tour(b.Tour),
			Date:  b.Date,
		}
	}
	if f := r.Financial; f != nil {
		p.Financial = &domain.Financial{
			CostPrice:    domain.Amount(f.CostPrice),
			SellingPrice: domain.Amount(f.SellingPrice),
			AmountPaid:   domain.Amount(f.AmountPaid),
			Status:       domain.PaymentStatus(f.Status),
		}
	}
	return p
}
