package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/Domenick1991/tourledger/internal/kafka"
	log "github.com/sirupsen/logrus"
)

// Notifier turns reservation events into voucher notices for the customer.
// Notices are written to out; delivery over SMS belongs to the agency's
// messaging provider.
type Notifier struct {
	out io.Writer
}

func NewNotifier(out io.Writer) *Notifier {
	if out == nil {
		out = os.Stdout
	}
	return &Notifier{out: out}
}

func (n *Notifier) Handle(ctx context.Context, event kafka.ReservationEvent) error {
	text, ok := Notice(event)
	if !ok {
		log.WithFields(log.Fields{"id": event.ReservationID, "type": event.Type}).Debug("no notice for event")
		return nil
	}
	if _, err := fmt.Fprintln(n.out, text); err != nil {
		return fmt.Errorf("write notice: %w", err)
	}
	log.WithFields(log.Fields{"id": event.ReservationID, "type": event.Type}).Info("voucher notice sent")
	return nil
}

// Notice renders the message for event. Deletions produce no notice.
func Notice(event kafka.ReservationEvent) (string, bool) {
	if event.Phone == "" {
		return "", false
	}
	travel := event.TravelDate
	if travel == "" {
		travel = "date to be confirmed"
	}
	status := domain.PaymentStatus(event.Status).Label()

	switch event.Type {
	case kafka.EventReservationCreated:
		return fmt.Sprintf("to %s: voucher %s for %s on %s, %s", event.Phone, event.ReservationID, event.Tour, travel, status), true
	case kafka.EventReservationUpdated:
		return fmt.Sprintf("to %s: voucher %s updated, %s on %s, %s", event.Phone, event.ReservationID, event.Tour, travel, status), true
	}
	return "", false
}
