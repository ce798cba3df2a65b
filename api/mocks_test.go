package api

import (
	"context"
	"time"

	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/Domenick1991/tourledger/internal/finance"
	"github.com/Domenick1991/tourledger/internal/service/auth"
	"github.com/Domenick1991/tourledger/internal/service/ledger"
	"github.com/stretchr/testify/mock"
)

// MockLedgerUseCase is a mock implementation of ledger.LedgerUseCase
type MockLedgerUseCase struct {
	mock.Mock
}

func (m *MockLedgerUseCase) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockLedgerUseCase) SearchReservations(ctx context.Context, query string) ([]domain.Reservation, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockLedgerUseCase) GetReservation(ctx context.Context, id string) (domain.Reservation, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Reservation), args.Error(1)
}

func (m *MockLedgerUseCase) CreateReservation(ctx context.Context, input domain.Patch) (domain.Reservation, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.Reservation), args.Error(1)
}

func (m *MockLedgerUseCase) UpdateReservation(ctx context.Context, id string, input domain.Patch) (domain.Reservation, error) {
	args := m.Called(ctx, id, input)
	return args.Get(0).(domain.Reservation), args.Error(1)
}

func (m *MockLedgerUseCase) DeleteReservation(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLedgerUseCase) MonthlyReport(ctx context.Context, month, year int, basis ledger.Basis) (finance.MonthlyReport, error) {
	args := m.Called(ctx, month, year, basis)
	return args.Get(0).(finance.MonthlyReport), args.Error(1)
}

// MockAuthUseCase is a mock implementation of auth.AuthUseCase
type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Login(username, password string) (auth.Session, error) {
	args := m.Called(username, password)
	return args.Get(0).(auth.Session), args.Error(1)
}

func (m *MockAuthUseCase) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

var (
	_ ledger.LedgerUseCase = (*MockLedgerUseCase)(nil)
	_ auth.AuthUseCase     = (*MockAuthUseCase)(nil)
)

func sampleReservation() domain.Reservation {
	return domain.Reservation{
		ID:        "RES-123456-007",
		CreatedAt: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		Customer:  &domain.Customer{FirstName: "Ana", LastName: "Silva", Phone: "555"},
		Booking:   &domain.Booking{Hotel: "Palm", Room: "12", Pax: 2, Tour: domain.TourCityTour},
		Financial: &domain.Financial{CostPrice: 40, SellingPrice: 100, AmountPaid: 50, Status: domain.PaymentStatusHalfPaid},
	}
}
