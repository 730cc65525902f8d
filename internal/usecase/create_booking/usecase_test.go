package create_booking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotus-spa/ReservationService/internal/domain"
	"github.com/lotus-spa/ReservationService/internal/integrations/catalogservice"
	"github.com/lotus-spa/ReservationService/internal/integrations/notifyservice"
	"github.com/lotus-spa/ReservationService/internal/usecase/redeem_voucher"
	"github.com/lotus-spa/ReservationService/pkg/ptr"
	"github.com/lotus-spa/ReservationService/pkg/types"
)

type fakeBookingRepo struct {
	existing       []*domain.Booking
	created        *domain.Booking
	nextID         int64
	linkedBooking  int64
	linkedUsage    int64
	setUsageCalled bool
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	copied := *booking
	copied.ID = f.nextID
	f.created = &copied
	return &copied, nil
}

func (f *fakeBookingRepo) GetActiveByBranchServiceAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Booking, error) {
	return f.existing, nil
}

func (f *fakeBookingRepo) SetVoucherUsage(_ context.Context, bookingID, usageID int64) error {
	f.setUsageCalled = true
	f.linkedBooking = bookingID
	f.linkedUsage = usageID
	return nil
}

type fakeCatalogClient struct {
	branchService *catalogservice.BranchService
	err           error
}

func (f *fakeCatalogClient) GetBranchService(_ context.Context, _, _ int64) (*catalogservice.BranchService, error) {
	return f.branchService, f.err
}

type fakeRedeemer struct {
	usage   *domain.GiftVoucherUsage
	voucher *domain.GiftVoucher
	err     error

	redeemCalled   bool
	gotMaxAmount   float64
	gotBookingID   int64
	markExpiredIDs []int64
}

func (f *fakeRedeemer) RedeemForBooking(_ context.Context, _ string, maxAmount float64, bookingID int64) (*domain.GiftVoucherUsage, *domain.GiftVoucher, error) {
	f.redeemCalled = true
	f.gotMaxAmount = maxAmount
	f.gotBookingID = bookingID
	return f.usage, f.voucher, f.err
}

func (f *fakeRedeemer) MarkExpired(_ context.Context, voucherID int64) {
	f.markExpiredIDs = append(f.markExpiredIDs, voucherID)
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	events []notifyservice.Event
}

func (f *fakeNotifier) Publish(event notifyservice.Event) {
	f.events = append(f.events, event)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testBranchService() *catalogservice.BranchService {
	return &catalogservice.BranchService{
		ID:          77,
		BranchID:    1,
		ServiceID:   2,
		Price:       3500,
		IsAvailable: true,
		Service: &catalogservice.Service{
			ID:              2,
			Name:            "Стоун-терапия",
			DurationMinutes: 60,
			BasePrice:       3000,
			Status:          "active",
		},
	}
}

type testEnv struct {
	repo     *fakeBookingRepo
	catalog  *fakeCatalogClient
	redeemer *fakeRedeemer
	notifier *fakeNotifier
	uc       *UseCase
}

func newTestEnv(now time.Time) *testEnv {
	env := &testEnv{
		repo:     &fakeBookingRepo{nextID: 100},
		catalog:  &fakeCatalogClient{branchService: testBranchService()},
		redeemer: &fakeRedeemer{},
		notifier: &fakeNotifier{},
	}
	env.uc = NewUseCase(
		env.repo,
		env.catalog,
		env.redeemer,
		fakeTxManager{},
		env.notifier,
		domain.BusinessHours{OpeningHour: 9, ClosingHour: 21},
		120,
		nopLogger{},
	)
	env.uc.timeProvider = &fixedTime{now: now}
	return env
}

func validRequest() Request {
	return Request{
		UserID:      5,
		BranchID:    1,
		ServiceID:   2,
		BookingDate: "2026-04-01",
		StartTime:   "14:00",
	}
}

func TestExecute_CreatesPendingBookingWithPriceSnapshot(t *testing.T) {
	now := time.Date(2026, 3, 29, 10, 0, 0, 0, time.UTC)
	env := newTestEnv(now)

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, resp.Booking.Status)
	assert.Equal(t, 3500.0, resp.Booking.TotalPrice)
	assert.Equal(t, "Стоун-терапия", resp.Booking.ServiceName)
	assert.Equal(t, int64(77), resp.Booking.BranchServiceID)
	assert.Equal(t, 60, resp.Booking.DurationMinutes)
	assert.Zero(t, resp.VoucherApplied)
	assert.False(t, env.redeemer.redeemCalled)

	require.Len(t, env.notifier.events, 1)
	assert.Equal(t, notifyservice.EventBookingCreated, env.notifier.events[0].Type)
	require.NotNil(t, env.notifier.events[0].BookingEvent)
	assert.Equal(t, int64(100), env.notifier.events[0].BookingEvent.BookingID)
}

func TestExecute_SlotConflict(t *testing.T) {
	now := time.Date(2026, 3, 29, 10, 0, 0, 0, time.UTC)
	env := newTestEnv(now)
	env.repo.existing = []*domain.Booking{
		{StartTime: "13:30", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, env.notifier.events)
}

func TestExecute_AdjacentBookingIsNotConflict(t *testing.T) {
	now := time.Date(2026, 3, 29, 10, 0, 0, 0, time.UTC)
	env := newTestEnv(now)
	// 13:00-14:00 заканчивается ровно в момент начала запрошенного слота
	env.repo.existing = []*domain.Booking{
		{StartTime: "13:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		{StartTime: "15:00", DurationMinutes: 60, Status: domain.StatusPending},
	}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_RedeemsVoucherAtomically(t *testing.T) {
	now := time.Date(2026, 3, 29, 10, 0, 0, 0, time.UTC)
	env := newTestEnv(now)
	env.redeemer.usage = &domain.GiftVoucherUsage{ID: 55, VoucherID: 9, AmountUsed: 2000}
	env.redeemer.voucher = &domain.GiftVoucher{
		ID:                9,
		Code:              "GV-TEST",
		PurchasedByUserID: 5,
		OriginalValue:     5000,
		RemainingValue:    3000,
		Status:            domain.VoucherActive,
	}

	req := validRequest()
	req.VoucherCode = ptr.Ptr("GV-TEST")

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, env.redeemer.redeemCalled)
	// Списываем не больше полной стоимости бронирования
	assert.Equal(t, 3500.0, env.redeemer.gotMaxAmount)
	assert.Equal(t, int64(100), env.redeemer.gotBookingID)

	assert.True(t, env.repo.setUsageCalled)
	assert.Equal(t, int64(100), env.repo.linkedBooking)
	assert.Equal(t, int64(55), env.repo.linkedUsage)

	assert.Equal(t, 2000.0, resp.VoucherApplied)
	require.NotNil(t, resp.Booking.VoucherUsageID)
	assert.Equal(t, int64(55), *resp.Booking.VoucherUsageID)

	// Событие бронирования и событие списания
	require.Len(t, env.notifier.events, 2)
	assert.Equal(t, notifyservice.EventVoucherRedeemed, env.notifier.events[1].Type)
	require.NotNil(t, env.notifier.events[1].VoucherEvent)
	assert.Equal(t, 2000.0, env.notifier.events[1].VoucherEvent.AmountUsed)
}

func TestExecute_VoucherFailureRollsBackBooking(t *testing.T) {
	now := time.Date(2026, 3, 29, 10, 0, 0, 0, time.UTC)
	env := newTestEnv(now)
	env.redeemer.err = redeem_voucher.ErrVoucherNotFound

	req := validRequest()
	req.VoucherCode = ptr.Ptr("GV-MISSING")

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, redeem_voucher.ErrVoucherNotFound)
	assert.Empty(t, env.notifier.events)
}

func TestExecute_ExpiredVoucherMarkedOutsideTx(t *testing.T) {
	now := time.Date(2026, 3, 29, 10, 0, 0, 0, time.UTC)
	env := newTestEnv(now)
	env.redeemer.err = redeem_voucher.ErrVoucherExpired
	env.redeemer.voucher = &domain.GiftVoucher{ID: 9, Status: domain.VoucherActive}

	req := validRequest()
	req.VoucherCode = ptr.Ptr("GV-OLD")

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, redeem_voucher.ErrVoucherExpired)
	// Флип статуса откатился вместе с транзакцией и повторяется снаружи
	assert.Equal(t, []int64{9}, env.redeemer.markExpiredIDs)
}

func TestExecute_FreeBookingSkipsVoucher(t *testing.T) {
	now := time.Date(2026, 3, 29, 10, 0, 0, 0, time.UTC)
	env := newTestEnv(now)
	env.catalog.branchService.Price = 0

	req := validRequest()
	req.VoucherCode = ptr.Ptr("GV-TEST")

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, env.redeemer.redeemCalled)
	assert.Zero(t, resp.VoucherApplied)
}

func TestExecute_WorkingWindow(t *testing.T) {
	now := time.Date(2026, 3, 29, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		startTime types.TimeString
		wantErr   error
	}{
		{"before opening", "08:30", ErrInvalidTimeSlot},
		{"at opening", "09:00", nil},
		{"runs past closing", "20:30", ErrInvalidTimeSlot},
		{"ends exactly at closing", "20:00", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(now)
			req := validRequest()
			req.StartTime = tt.startTime

			_, err := env.uc.Execute(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExecute_LeadTime(t *testing.T) {
	// 1 апреля, 12:30; порог 120 минут -> 14:30
	now := time.Date(2026, 4, 1, 12, 30, 0, 0, time.UTC)
	env := newTestEnv(now)

	req := validRequest()
	req.StartTime = "14:00"
	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooLateToBook)

	env = newTestEnv(now)
	req.StartTime = "14:30"
	_, err = env.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_PastDate(t *testing.T) {
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	env := newTestEnv(now)

	req := validRequest() // 2026-04-01
	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_TreatmentUnavailable(t *testing.T) {
	now := time.Date(2026, 3, 29, 10, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	env.catalog.branchService = nil
	env.catalog.err = catalogservice.ErrBranchServiceNotFound
	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTreatmentUnavailable)

	env = newTestEnv(now)
	env.catalog.branchService.IsAvailable = false
	_, err = env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTreatmentUnavailable)
}

func TestExecute_Validation(t *testing.T) {
	now := time.Date(2026, 3, 29, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero user", func(r *Request) { r.UserID = 0 }},
		{"zero branch", func(r *Request) { r.BranchID = 0 }},
		{"zero service", func(r *Request) { r.ServiceID = 0 }},
		{"empty date", func(r *Request) { r.BookingDate = "" }},
		{"bad date format", func(r *Request) { r.BookingDate = "01.04.2026" }},
		{"bad start time", func(r *Request) { r.StartTime = "25:99" }},
		{"empty voucher code", func(r *Request) { r.VoucherCode = ptr.Ptr("") }},
		{"notes too long", func(r *Request) { r.Notes = ptr.Ptr(strings.Repeat("a", domain.MaxNotesLength+1)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(now)
			req := validRequest()
			tt.mutate(&req)

			_, err := env.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
