package redeem_voucher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotus-spa/ReservationService/internal/domain"
	voucherStorage "github.com/lotus-spa/ReservationService/internal/infra/storage/voucher"
	"github.com/lotus-spa/ReservationService/internal/integrations/notifyservice"
	"github.com/lotus-spa/ReservationService/pkg/ptr"
)

type fakeVoucherRepo struct {
	voucher    *domain.GiftVoucher
	getErr     error
	debitErr   error
	nextUsages int64

	debitedAmount float64
	createdUsage  *domain.GiftVoucherUsage
	expiredIDs    []int64
}

func (f *fakeVoucherRepo) GetVoucherByCode(_ context.Context, _ string) (*domain.GiftVoucher, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.voucher
	return &copied, nil
}

func (f *fakeVoucherRepo) DebitVoucher(_ context.Context, id int64, amount float64) (*domain.GiftVoucher, error) {
	if f.debitErr != nil {
		return nil, f.debitErr
	}
	f.debitedAmount = amount

	updated := *f.voucher
	updated.RemainingValue -= amount
	if updated.RemainingValue == 0 {
		updated.Status = domain.VoucherUsed
	}
	f.voucher = &updated
	return &updated, nil
}

func (f *fakeVoucherRepo) CreateUsage(_ context.Context, usage *domain.GiftVoucherUsage) (*domain.GiftVoucherUsage, error) {
	created := *usage
	created.ID = f.nextUsages
	f.createdUsage = &created
	return &created, nil
}

func (f *fakeVoucherRepo) ExpireVoucher(_ context.Context, id int64) error {
	f.expiredIDs = append(f.expiredIDs, id)
	return nil
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

var testNow = time.Date(2026, 3, 29, 12, 0, 0, 0, time.UTC)

func activeVoucher() *domain.GiftVoucher {
	return &domain.GiftVoucher{
		ID:                9,
		TemplateID:        3,
		Code:              "GV-ABCDEF12345678",
		PurchasedByUserID: 5,
		OriginalValue:     5000,
		RemainingValue:    5000,
		Status:            domain.VoucherActive,
		ExpiresAt:         testNow.AddDate(0, 6, 0),
	}
}

func newTestUseCase(repo *fakeVoucherRepo, notifier *fakeNotifier) *UseCase {
	uc := NewUseCase(repo, fakeTxManager{}, notifier, nopLogger{})
	uc.timeProvider = &fixedTime{now: testNow}
	return uc
}

func TestExecute_DebitsExactAmount(t *testing.T) {
	repo := &fakeVoucherRepo{voucher: activeVoucher(), nextUsages: 55}
	notifier := &fakeNotifier{}
	uc := newTestUseCase(repo, notifier)

	resp, err := uc.Execute(context.Background(), Request{Code: "GV-ABCDEF12345678", Amount: 2000})
	require.NoError(t, err)

	assert.Equal(t, 2000.0, repo.debitedAmount)
	assert.Equal(t, 3000.0, resp.Voucher.RemainingValue)
	assert.Equal(t, domain.VoucherActive, resp.Voucher.Status)
	assert.Equal(t, 2000.0, resp.Usage.AmountUsed)
	assert.Nil(t, resp.Usage.BookingID)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, notifyservice.EventVoucherRedeemed, notifier.events[0].Type)
	require.NotNil(t, notifier.events[0].VoucherEvent)
	assert.Equal(t, 3000.0, notifier.events[0].VoucherEvent.RemainingValue)
}

func TestExecute_FullDebitMarksVoucherUsed(t *testing.T) {
	repo := &fakeVoucherRepo{voucher: activeVoucher(), nextUsages: 55}
	uc := newTestUseCase(repo, &fakeNotifier{})

	resp, err := uc.Execute(context.Background(), Request{Code: "GV-ABCDEF12345678", Amount: 5000})
	require.NoError(t, err)

	assert.Zero(t, resp.Voucher.RemainingValue)
	assert.Equal(t, domain.VoucherUsed, resp.Voucher.Status)
}

func TestExecute_InsufficientBalance(t *testing.T) {
	repo := &fakeVoucherRepo{voucher: activeVoucher()}
	notifier := &fakeNotifier{}
	uc := newTestUseCase(repo, notifier)

	// Точный режим: превышение остатка отклоняется, частичного списания нет
	_, err := uc.Execute(context.Background(), Request{Code: "GV-ABCDEF12345678", Amount: 6000})
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Zero(t, repo.debitedAmount)
	assert.Empty(t, notifier.events)
}

func TestExecute_LazyExpiryFlipsStatusOutsideTx(t *testing.T) {
	voucher := activeVoucher()
	voucher.ExpiresAt = testNow.AddDate(0, 0, -1)
	repo := &fakeVoucherRepo{voucher: voucher}
	notifier := &fakeNotifier{}
	uc := newTestUseCase(repo, notifier)

	_, err := uc.Execute(context.Background(), Request{Code: "GV-ABCDEF12345678", Amount: 1000})
	assert.ErrorIs(t, err, ErrVoucherExpired)

	// Статус фиксируется отдельным запросом после отката транзакции
	assert.Equal(t, []int64{9}, repo.expiredIDs)
	assert.Empty(t, notifier.events)
}

func TestExecute_AlreadyExpiredStatus(t *testing.T) {
	voucher := activeVoucher()
	voucher.Status = domain.VoucherExpired
	repo := &fakeVoucherRepo{voucher: voucher}
	uc := newTestUseCase(repo, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), Request{Code: "GV-ABCDEF12345678", Amount: 1000})
	assert.ErrorIs(t, err, ErrVoucherExpired)
}

func TestExecute_NotActiveStatuses(t *testing.T) {
	for _, status := range []domain.VoucherStatus{domain.VoucherUsed, domain.VoucherCancelled} {
		voucher := activeVoucher()
		voucher.Status = status
		repo := &fakeVoucherRepo{voucher: voucher}
		uc := newTestUseCase(repo, &fakeNotifier{})

		_, err := uc.Execute(context.Background(), Request{Code: "GV-ABCDEF12345678", Amount: 1000})
		assert.ErrorIs(t, err, ErrVoucherNotActive, "status %s", status)
	}
}

func TestExecute_VoucherNotFound(t *testing.T) {
	repo := &fakeVoucherRepo{getErr: voucherStorage.ErrVoucherNotFound}
	uc := newTestUseCase(repo, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), Request{Code: "GV-MISSING", Amount: 1000})
	assert.ErrorIs(t, err, ErrVoucherNotFound)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeVoucherRepo{voucher: activeVoucher()}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), Request{Code: "", Amount: 1000})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), Request{Code: "GV-X", Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), Request{Code: "GV-X", Amount: -100})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), Request{Code: "GV-X", Amount: 100, BookingID: ptr.Ptr(int64(0))})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRedeemForBooking_CapsToRemainingBalance(t *testing.T) {
	voucher := activeVoucher()
	voucher.RemainingValue = 1500
	repo := &fakeVoucherRepo{voucher: voucher, nextUsages: 55}
	uc := newTestUseCase(repo, &fakeNotifier{})

	// Бронирование стоит 3500, на сертификате 1500: списываем весь остаток
	usage, updated, err := uc.RedeemForBooking(context.Background(), "GV-ABCDEF12345678", 3500, 100)
	require.NoError(t, err)

	assert.Equal(t, 1500.0, usage.AmountUsed)
	require.NotNil(t, usage.BookingID)
	assert.Equal(t, int64(100), *usage.BookingID)
	assert.Zero(t, updated.RemainingValue)
	assert.Equal(t, domain.VoucherUsed, updated.Status)
}

func TestRedeemForBooking_PartialDebit(t *testing.T) {
	repo := &fakeVoucherRepo{voucher: activeVoucher(), nextUsages: 55}
	uc := newTestUseCase(repo, &fakeNotifier{})

	// Остатка хватает: списываем ровно стоимость бронирования
	usage, updated, err := uc.RedeemForBooking(context.Background(), "GV-ABCDEF12345678", 3500, 100)
	require.NoError(t, err)

	assert.Equal(t, 3500.0, usage.AmountUsed)
	assert.Equal(t, 1500.0, updated.RemainingValue)
	assert.Equal(t, domain.VoucherActive, updated.Status)
}

func TestRedeemForBooking_ExpiredReturnsVoucher(t *testing.T) {
	voucher := activeVoucher()
	voucher.ExpiresAt = testNow.AddDate(0, 0, -1)
	repo := &fakeVoucherRepo{voucher: voucher}
	uc := newTestUseCase(repo, &fakeNotifier{})

	_, returned, err := uc.RedeemForBooking(context.Background(), "GV-ABCDEF12345678", 3500, 100)
	assert.ErrorIs(t, err, ErrVoucherExpired)
	// Сертификат возвращается, чтобы вызывающий мог пометить его после отката
	require.NotNil(t, returned)
	assert.Equal(t, int64(9), returned.ID)
	// RedeemForBooking сам статус не фиксирует - это делает вызывающий
	assert.Empty(t, repo.expiredIDs)
}

func TestMarkExpired(t *testing.T) {
	repo := &fakeVoucherRepo{voucher: activeVoucher()}
	uc := newTestUseCase(repo, &fakeNotifier{})

	uc.MarkExpired(context.Background(), 9)
	assert.Equal(t, []int64{9}, repo.expiredIDs)
}
