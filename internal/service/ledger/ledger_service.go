package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/Domenick1991/tourledger/internal/finance"
	"github.com/Domenick1991/tourledger/internal/kafka"
	"github.com/Domenick1991/tourledger/internal/repository"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
)

var (
	ErrNotFound     = errors.New("reservation not found")
	ErrInvalidInput = errors.New("invalid reservation")
)

// Basis selects which date a monthly report filters on.
type Basis string

const (
	BasisCreated Basis = "created"
	BasisTravel  Basis = "travel"
)

type LedgerUseCase interface {
	ListReservations(ctx context.Context) ([]domain.Reservation, error)
	SearchReservations(ctx context.Context, query string) ([]domain.Reservation, error)
	GetReservation(ctx context.Context, id string) (domain.Reservation, error)
	CreateReservation(ctx context.Context, input domain.Patch) (domain.Reservation, error)
	UpdateReservation(ctx context.Context, id string, input domain.Patch) (domain.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
	MonthlyReport(ctx context.Context, month, year int, basis Basis) (finance.MonthlyReport, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type LedgerService struct {
	// mu serialises read-modify-write cycles of requests served by this process.
	mu       sync.Mutex
	repo     repository.ReservationRepository
	producer Producer
	topic    string
	now      func() time.Time
}

type LedgerServiceOption func(*LedgerService)

func WithEvents(producer Producer, topic string) LedgerServiceOption {
	return func(s *LedgerService) {
		s.producer = producer
		s.topic = topic
	}
}

func WithClock(now func() time.Time) LedgerServiceOption {
	return func(s *LedgerService) {
		s.now = now
	}
}

func NewLedgerService(repo repository.ReservationRepository, opts ...LedgerServiceOption) *LedgerService {
	service := &LedgerService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *LedgerService) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	return s.repo.GetAll(ctx)
}

// SearchReservations returns the reservations whose customer name, hotel or
// tour contains query, ignoring case. A blank query matches everything.
func (s *LedgerService) SearchReservations(ctx context.Context, query string) ([]domain.Reservation, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query))
	if needle == "" {
		return all, nil
	}

	found := make([]domain.Reservation, 0)
	for _, r := range all {
		fields := []string{
			r.FirstName(),
			r.LastName(),
			r.FirstName() + " " + r.LastName(),
			r.Hotel(),
			string(r.Tour()),
		}
		for _, field := range fields {
			if strings.Contains(fold.String(field), needle) {
				found = append(found, r)
				break
			}
		}
	}
	return found, nil
}

func (s *LedgerService) GetReservation(ctx context.Context, id string) (domain.Reservation, error) {
	r, ok, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !ok {
		return domain.Reservation{}, ErrNotFound
	}
	return r, nil
}

func (s *LedgerService) CreateReservation(ctx context.Context, input domain.Patch) (domain.Reservation, error) {
	if err := checkPatch(input, true); err != nil {
		return domain.Reservation{}, err
	}

	s.mu.Lock()
	created, err := s.repo.Add(ctx, input)
	s.mu.Unlock()
	if err != nil {
		log.WithError(err).Error("add reservation")
		return domain.Reservation{}, err
	}

	log.WithFields(log.Fields{"id": created.ID, "tour": created.Tour()}).Info("reservation created")
	s.publish(ctx, kafka.EventReservationCreated, created)
	return created, nil
}

func (s *LedgerService) UpdateReservation(ctx context.Context, id string, input domain.Patch) (domain.Reservation, error) {
	if err := checkPatch(input, false); err != nil {
		return domain.Reservation{}, err
	}

	s.mu.Lock()
	updated, ok, err := s.repo.Update(ctx, id, input)
	s.mu.Unlock()
	if err != nil {
		log.WithError(err).WithField("id", id).Error("update reservation")
		return domain.Reservation{}, err
	}
	if !ok {
		return domain.Reservation{}, ErrNotFound
	}

	log.WithField("id", id).Info("reservation updated")
	s.publish(ctx, kafka.EventReservationUpdated, updated)
	return updated, nil
}

// DeleteReservation removes id. Deleting an unknown id succeeds.
func (s *LedgerService) DeleteReservation(ctx context.Context, id string) error {
	s.mu.Lock()
	err := s.repo.Delete(ctx, id)
	s.mu.Unlock()
	if err != nil {
		log.WithError(err).WithField("id", id).Error("delete reservation")
		return err
	}

	log.WithField("id", id).Info("reservation deleted")
	s.publish(ctx, kafka.EventReservationDeleted, domain.Reservation{ID: id})
	return nil
}

func (s *LedgerService) MonthlyReport(ctx context.Context, month, year int, basis Basis) (finance.MonthlyReport, error) {
	if month < 0 || month > 11 {
		return finance.MonthlyReport{}, fmt.Errorf("%w: month must be between 0 and 11", ErrInvalidInput)
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return finance.MonthlyReport{}, err
	}

	switch basis {
	case BasisCreated, "":
		return finance.MonthlyAggregate(all, month, year), nil
	case BasisTravel:
		return finance.MonthlyAggregateByTravelDate(all, month, year), nil
	}
	return finance.MonthlyReport{}, fmt.Errorf("%w: unknown report basis %q", ErrInvalidInput, basis)
}

// publish is best effort: the reservation is already stored when it runs.
func (s *LedgerService) publish(ctx context.Context, eventType string, r domain.Reservation) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.NewReservationEvent(eventType, r, s.now())
	if err := s.producer.Publish(ctx, s.topic, r.ID, event); err != nil {
		log.WithError(err).WithFields(log.Fields{"id": r.ID, "type": eventType}).Warn("failed to publish event")
	}
}

var _ LedgerUseCase = (*LedgerService)(nil)
