package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/payment"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) UpdatePassword(ctx context.Context, userID int32, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

// MockCarRepo
type MockCarRepo struct {
	mock.Mock
}

func (m *MockCarRepo) Create(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepo) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepo) Update(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCarRepo) ListByHost(ctx context.Context, hostID int32, page, pageSize int32) ([]domain.Car, int32, error) {
	args := m.Called(ctx, hostID, page, pageSize)
	return args.Get(0).([]domain.Car), args.Get(1).(int32), args.Error(2)
}
func (m *MockCarRepo) Search(ctx context.Context, city, from, to string, page, pageSize int32) ([]domain.Car, int32, error) {
	args := m.Called(ctx, city, from, to, page, pageSize)
	return args.Get(0).([]domain.Car), args.Get(1).(int32), args.Error(2)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.RentalBooking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.RentalBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalBooking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, booking *domain.RentalBooking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) ListByGuest(ctx context.Context, guestID int32, status string, page, pageSize int32) ([]domain.RentalBooking, int32, error) {
	args := m.Called(ctx, guestID, status, page, pageSize)
	return args.Get(0).([]domain.RentalBooking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListByHost(ctx context.Context, hostID int32, status string, page, pageSize int32) ([]domain.RentalBooking, int32, error) {
	args := m.Called(ctx, hostID, status, page, pageSize)
	return args.Get(0).([]domain.RentalBooking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) HasOverlap(ctx context.Context, carID int32, from, to string) (bool, error) {
	args := m.Called(ctx, carID, from, to)
	return args.Bool(0), args.Error(1)
}

// MockChargeRepo
type MockChargeRepo struct {
	mock.Mock
}

func (m *MockChargeRepo) Create(ctx context.Context, charge *domain.TripCharge) error {
	args := m.Called(ctx, charge)
	return args.Error(0)
}
func (m *MockChargeRepo) GetByID(ctx context.Context, id int32) (*domain.TripCharge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TripCharge), args.Error(1)
}
func (m *MockChargeRepo) GetByBookingID(ctx context.Context, bookingID int32) (*domain.TripCharge, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TripCharge), args.Error(1)
}
func (m *MockChargeRepo) ApplyAdjustment(ctx context.Context, commit *domain.AdjustmentCommit) error {
	args := m.Called(ctx, commit)
	return args.Error(0)
}
func (m *MockChargeRepo) ListAdjustments(ctx context.Context, chargeID int32) ([]domain.ChargeAdjustment, error) {
	args := m.Called(ctx, chargeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChargeAdjustment), args.Error(1)
}
func (m *MockChargeRepo) ListUnsettled(ctx context.Context, olderThan time.Time) ([]domain.TripCharge, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TripCharge), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.AdminNotification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, unreadOnly bool, page, pageSize int32) ([]domain.AdminNotification, int32, error) {
	args := m.Called(ctx, unreadOnly, page, pageSize)
	return args.Get(0).([]domain.AdminNotification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockNotificationRepo) PurgeRead(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// MockClaimRepo
type MockClaimRepo struct {
	mock.Mock
}

func (m *MockClaimRepo) Create(ctx context.Context, claim *domain.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}
func (m *MockClaimRepo) GetByID(ctx context.Context, id int32) (*domain.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}
func (m *MockClaimRepo) Update(ctx context.Context, claim *domain.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}
func (m *MockClaimRepo) ListByBooking(ctx context.Context, bookingID int32) ([]domain.Claim, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.Claim), args.Error(1)
}
func (m *MockClaimRepo) ListByStatus(ctx context.Context, status string, page, pageSize int32) ([]domain.Claim, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Claim), args.Get(1).(int32), args.Error(2)
}

// MockHostApplicationRepo
type MockHostApplicationRepo struct {
	mock.Mock
}

func (m *MockHostApplicationRepo) Create(ctx context.Context, app *domain.HostApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}
func (m *MockHostApplicationRepo) GetByID(ctx context.Context, id int32) (*domain.HostApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HostApplication), args.Error(1)
}
func (m *MockHostApplicationRepo) Update(ctx context.Context, app *domain.HostApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}
func (m *MockHostApplicationRepo) GetPendingByUser(ctx context.Context, userID int32) (*domain.HostApplication, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HostApplication), args.Error(1)
}
func (m *MockHostApplicationRepo) ListByStatus(ctx context.Context, status string) ([]domain.HostApplication, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.HostApplication), args.Error(1)
}

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ChargeAdditionalFees(ctx context.Context, customerRef, paymentMethodRef string, amountCents int64, description string, metadata map[string]string) (*payment.Result, error) {
	args := m.Called(ctx, customerRef, paymentMethodRef, amountCents, description, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Result), args.Error(1)
}
func (m *MockGateway) ChargeBooking(ctx context.Context, customerRef, paymentMethodRef string, amountCents int64, bookingID int32) (*payment.Result, error) {
	args := m.Called(ctx, customerRef, paymentMethodRef, amountCents, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Result), args.Error(1)
}
func (m *MockGateway) RefundCharge(ctx context.Context, chargeID string, amountCents int64, reason string) (*payment.Result, error) {
	args := m.Called(ctx, chargeID, amountCents, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Result), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingConfirmation(ctx context.Context, guestEmail, guestName, carName string, totalCents int64) error {
	args := m.Called(ctx, guestEmail, guestName, carName, totalCents)
	return args.Error(0)
}
func (m *MockEmailService) SendHostApplicationOutcome(ctx context.Context, email, name string, approved bool, note string) error {
	args := m.Called(ctx, email, name, approved, note)
	return args.Error(0)
}
func (m *MockEmailService) SendChargeAdjustedNotice(ctx context.Context, guestEmail, guestName string, bookingID int32, beforeCents, afterCents int64, summary string) error {
	args := m.Called(ctx, guestEmail, guestName, bookingID, beforeCents, afterCents, summary)
	return args.Error(0)
}
func (m *MockEmailService) SendPaymentFailureAlert(ctx context.Context, subject, message string) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}
func (m *MockEmailService) SendClaimFiledNotice(ctx context.Context, email, name, reference string) error {
	args := m.Called(ctx, email, name, reference)
	return args.Error(0)
}

// MockLimiter
type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
func (m *MockLimiter) Reset(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
