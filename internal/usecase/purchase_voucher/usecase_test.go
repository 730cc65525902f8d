package purchase_voucher

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotus-spa/ReservationService/internal/domain"
	voucherStorage "github.com/lotus-spa/ReservationService/internal/infra/storage/voucher"
	"github.com/lotus-spa/ReservationService/internal/integrations/catalogservice"
	"github.com/lotus-spa/ReservationService/internal/integrations/notifyservice"
	"github.com/lotus-spa/ReservationService/pkg/ptr"
)

type fakeVoucherRepo struct {
	template     *domain.GiftVoucherTemplate
	incrementErr error
	createErrs   []error // by call order, nil = success

	incrementCalls int
	createCalls    int
	created        *domain.GiftVoucher
}

func (f *fakeVoucherRepo) GetTemplateByID(_ context.Context, _ int64) (*domain.GiftVoucherTemplate, error) {
	if f.template == nil {
		return nil, voucherStorage.ErrTemplateNotFound
	}
	copied := *f.template
	return &copied, nil
}

func (f *fakeVoucherRepo) IncrementTemplateUsage(_ context.Context, _ int64) error {
	f.incrementCalls++
	if f.incrementErr != nil {
		return f.incrementErr
	}
	f.template.CurrentUsageCount++
	return nil
}

func (f *fakeVoucherRepo) CreateVoucher(_ context.Context, voucher *domain.GiftVoucher) (*domain.GiftVoucher, error) {
	call := f.createCalls
	f.createCalls++
	if call < len(f.createErrs) && f.createErrs[call] != nil {
		return nil, f.createErrs[call]
	}

	created := *voucher
	created.ID = 9
	f.created = &created
	return &created, nil
}

type fakeCatalogClient struct {
	service *catalogservice.Service
	err     error
}

func (f *fakeCatalogClient) GetService(_ context.Context, _ int64) (*catalogservice.Service, error) {
	return f.service, f.err
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

func fixedAmountTemplate() *domain.GiftVoucherTemplate {
	return &domain.GiftVoucherTemplate{
		ID:           3,
		Name:         "Сертификат на 5000",
		Type:         domain.TemplateFixedAmount,
		Value:        5000,
		Price:        4500,
		ValidityDays: 180,
		Active:       true,
	}
}

func newTestUseCase(repo *fakeVoucherRepo, catalog *fakeCatalogClient, notifier *fakeNotifier) *UseCase {
	uc := NewUseCase(repo, catalog, fakeTxManager{}, notifier, nopLogger{})
	uc.timeProvider = &fixedTime{now: testNow}
	return uc
}

func TestExecute_IssuesFixedAmountVoucher(t *testing.T) {
	repo := &fakeVoucherRepo{template: fixedAmountTemplate()}
	notifier := &fakeNotifier{}
	uc := newTestUseCase(repo, &fakeCatalogClient{}, notifier)

	resp, err := uc.Execute(context.Background(), Request{TemplateID: 3, UserID: 5})
	require.NoError(t, err)

	v := resp.Voucher
	assert.Equal(t, 5000.0, v.OriginalValue)
	assert.Equal(t, 5000.0, v.RemainingValue)
	assert.Equal(t, domain.VoucherActive, v.Status)
	assert.Equal(t, int64(5), v.PurchasedByUserID)
	assert.Equal(t, testNow.AddDate(0, 0, 180), v.ExpiresAt)
	assert.Equal(t, 4500.0, resp.Price)

	assert.True(t, strings.HasPrefix(v.Code, "GV-"))
	assert.Len(t, v.Code, 19)

	assert.Equal(t, 1, repo.incrementCalls)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, notifyservice.EventVoucherPurchased, notifier.events[0].Type)
}

func TestExecute_PercentageTemplateStoresValueAsCredit(t *testing.T) {
	template := fixedAmountTemplate()
	template.Type = domain.TemplatePercentage
	template.Value = 1200
	repo := &fakeVoucherRepo{template: template}
	uc := newTestUseCase(repo, &fakeCatalogClient{}, &fakeNotifier{})

	resp, err := uc.Execute(context.Background(), Request{TemplateID: 3, UserID: 5})
	require.NoError(t, err)

	assert.Equal(t, 1200.0, resp.Voucher.OriginalValue)
	assert.Equal(t, 1200.0, resp.Voucher.RemainingValue)
}

func TestExecute_ServiceSpecificTakesCatalogPrice(t *testing.T) {
	template := fixedAmountTemplate()
	template.Type = domain.TemplateServiceSpecific
	template.Value = 0
	template.ServiceID = ptr.Ptr(int64(2))
	repo := &fakeVoucherRepo{template: template}
	catalog := &fakeCatalogClient{service: &catalogservice.Service{
		ID:        2,
		Name:      "Ароматерапия",
		BasePrice: 2800,
		Status:    "active",
	}}
	uc := newTestUseCase(repo, catalog, &fakeNotifier{})

	resp, err := uc.Execute(context.Background(), Request{TemplateID: 3, UserID: 5})
	require.NoError(t, err)

	// Номинал фиксируется по базовой цене услуги на момент выпуска
	assert.Equal(t, 2800.0, resp.Voucher.OriginalValue)
	assert.Equal(t, 2800.0, resp.Voucher.RemainingValue)
}

func TestExecute_ServiceSpecificMissingService(t *testing.T) {
	template := fixedAmountTemplate()
	template.Type = domain.TemplateServiceSpecific
	template.ServiceID = ptr.Ptr(int64(2))
	repo := &fakeVoucherRepo{template: template}
	catalog := &fakeCatalogClient{err: catalogservice.ErrServiceNotFound}
	uc := newTestUseCase(repo, catalog, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), Request{TemplateID: 3, UserID: 5})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_TemplateNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeVoucherRepo{}, &fakeCatalogClient{}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), Request{TemplateID: 3, UserID: 5})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestExecute_TemplateInactive(t *testing.T) {
	template := fixedAmountTemplate()
	template.Active = false
	uc := newTestUseCase(&fakeVoucherRepo{template: template}, &fakeCatalogClient{}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), Request{TemplateID: 3, UserID: 5})
	assert.ErrorIs(t, err, ErrTemplateInactive)
}

func TestExecute_SoldOut(t *testing.T) {
	repo := &fakeVoucherRepo{
		template:     fixedAmountTemplate(),
		incrementErr: voucherStorage.ErrTemplateSoldOut,
	}
	notifier := &fakeNotifier{}
	uc := newTestUseCase(repo, &fakeCatalogClient{}, notifier)

	_, err := uc.Execute(context.Background(), Request{TemplateID: 3, UserID: 5})
	assert.ErrorIs(t, err, ErrSoldOut)
	assert.Empty(t, notifier.events)
}

func TestExecute_RetriesOnceOnDuplicateCode(t *testing.T) {
	repo := &fakeVoucherRepo{
		template:   fixedAmountTemplate(),
		createErrs: []error{voucherStorage.ErrDuplicateCode},
	}
	uc := newTestUseCase(repo, &fakeCatalogClient{}, &fakeNotifier{})

	resp, err := uc.Execute(context.Background(), Request{TemplateID: 3, UserID: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.createCalls)
	assert.NotNil(t, resp.Voucher)
}

func TestExecute_SecondDuplicateFails(t *testing.T) {
	repo := &fakeVoucherRepo{
		template:   fixedAmountTemplate(),
		createErrs: []error{voucherStorage.ErrDuplicateCode, voucherStorage.ErrDuplicateCode},
	}
	uc := newTestUseCase(repo, &fakeCatalogClient{}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), Request{TemplateID: 3, UserID: 5})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 2, repo.createCalls)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeVoucherRepo{template: fixedAmountTemplate()}, &fakeCatalogClient{}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), Request{TemplateID: 0, UserID: 5})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), Request{TemplateID: 3, UserID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), Request{TemplateID: 3, UserID: 5, RecipientEmail: ptr.Ptr("")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	longMessage := strings.Repeat("a", domain.MaxVoucherMessageLen+1)
	_, err = uc.Execute(context.Background(), Request{TemplateID: 3, UserID: 5, Message: &longMessage})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := generateCode()
		assert.True(t, strings.HasPrefix(code, "GV-"))
		assert.Len(t, code, 19)
		assert.Equal(t, strings.ToUpper(code), code)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}
