package vouchers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotus-spa/ReservationService/internal/domain"
	voucherRepo "github.com/lotus-spa/ReservationService/internal/infra/storage/voucher"
	"github.com/lotus-spa/ReservationService/internal/integrations/catalogservice"
	"github.com/lotus-spa/ReservationService/internal/service/vouchers/models"
	"github.com/lotus-spa/ReservationService/pkg/ptr"
)

type fakeVoucherRepo struct {
	template *domain.GiftVoucherTemplate
	voucher  *domain.GiftVoucher
	usages   []*domain.GiftVoucherUsage

	createdTemplate *domain.GiftVoucherTemplate
	updatedStatus   *domain.VoucherStatus
	expiredIDs      []int64
}

func (f *fakeVoucherRepo) CreateTemplate(_ context.Context, template *domain.GiftVoucherTemplate) (*domain.GiftVoucherTemplate, error) {
	created := *template
	created.ID = 3
	f.createdTemplate = &created
	return &created, nil
}

func (f *fakeVoucherRepo) GetTemplateByID(_ context.Context, _ int64) (*domain.GiftVoucherTemplate, error) {
	if f.template == nil {
		return nil, voucherRepo.ErrTemplateNotFound
	}
	copied := *f.template
	return &copied, nil
}

func (f *fakeVoucherRepo) GetAllTemplates(_ context.Context, activeOnly bool) ([]*domain.GiftVoucherTemplate, error) {
	if f.template == nil {
		return nil, nil
	}
	if activeOnly && !f.template.Active {
		return nil, nil
	}
	return []*domain.GiftVoucherTemplate{f.template}, nil
}

func (f *fakeVoucherRepo) UpdateTemplate(_ context.Context, id int64, template *domain.GiftVoucherTemplate) (*domain.GiftVoucherTemplate, error) {
	if f.template == nil {
		return nil, voucherRepo.ErrTemplateNotFound
	}
	updated := *template
	updated.ID = id
	return &updated, nil
}

func (f *fakeVoucherRepo) GetVoucherByID(_ context.Context, _ int64) (*domain.GiftVoucher, error) {
	if f.voucher == nil {
		return nil, voucherRepo.ErrVoucherNotFound
	}
	copied := *f.voucher
	return &copied, nil
}

func (f *fakeVoucherRepo) GetVoucherByCode(_ context.Context, _ string) (*domain.GiftVoucher, error) {
	if f.voucher == nil {
		return nil, voucherRepo.ErrVoucherNotFound
	}
	copied := *f.voucher
	return &copied, nil
}

func (f *fakeVoucherRepo) GetVouchersByUserID(_ context.Context, _ int64) ([]*domain.GiftVoucher, error) {
	if f.voucher == nil {
		return nil, nil
	}
	return []*domain.GiftVoucher{f.voucher}, nil
}

func (f *fakeVoucherRepo) UpdateVoucherStatus(_ context.Context, _ int64, status domain.VoucherStatus) error {
	f.updatedStatus = &status
	return nil
}

func (f *fakeVoucherRepo) ExpireVoucher(_ context.Context, id int64) error {
	f.expiredIDs = append(f.expiredIDs, id)
	return nil
}

func (f *fakeVoucherRepo) GetUsagesByVoucherID(_ context.Context, _ int64) ([]*domain.GiftVoucherUsage, error) {
	return f.usages, nil
}

type fakeCatalogClient struct {
	service *catalogservice.Service
	err     error
}

func (f *fakeCatalogClient) GetService(_ context.Context, _ int64) (*catalogservice.Service, error) {
	return f.service, f.err
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

func newTestService(repo *fakeVoucherRepo, catalog *fakeCatalogClient) *Service {
	svc := NewService(repo, catalog, nopLogger{})
	svc.timeProvider = &fixedTime{now: testNow}
	return svc
}

func validTemplateRequest() *models.CreateTemplateRequest {
	return &models.CreateTemplateRequest{
		Name:         "Сертификат на 5000",
		Type:         "fixed_amount",
		Value:        5000,
		Price:        4500,
		ValidityDays: 180,
		Active:       true,
	}
}

func activeVoucher() *domain.GiftVoucher {
	return &domain.GiftVoucher{
		ID:                9,
		TemplateID:        3,
		Code:              "GV-ABCDEF12345678",
		PurchasedByUserID: 5,
		OriginalValue:     5000,
		RemainingValue:    3000,
		Status:            domain.VoucherActive,
		ExpiresAt:         testNow.AddDate(0, 6, 0),
	}
}

func TestCreateTemplate(t *testing.T) {
	repo := &fakeVoucherRepo{}
	svc := newTestService(repo, &fakeCatalogClient{})

	resp, err := svc.CreateTemplate(context.Background(), validTemplateRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.ID)
	assert.Equal(t, "fixed_amount", resp.Type)
	assert.NotNil(t, repo.createdTemplate)
}

func TestCreateTemplate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.CreateTemplateRequest)
		wantErr error
	}{
		{"empty name", func(r *models.CreateTemplateRequest) { r.Name = "" }, ErrInvalidInput},
		{"unknown type", func(r *models.CreateTemplateRequest) { r.Type = "lottery" }, ErrInvalidInput},
		{"zero value", func(r *models.CreateTemplateRequest) { r.Value = 0 }, ErrInvalidInput},
		{"negative price", func(r *models.CreateTemplateRequest) { r.Price = -1 }, ErrInvalidInput},
		{"zero validity", func(r *models.CreateTemplateRequest) { r.ValidityDays = 0 }, ErrInvalidInput},
		{"validity above cap", func(r *models.CreateTemplateRequest) { r.ValidityDays = domain.MaxValidityDays + 1 }, ErrInvalidInput},
		{"zero usage cap", func(r *models.CreateTemplateRequest) { r.MaxUsageCount = ptr.Ptr(0) }, ErrInvalidInput},
		{"service_id on fixed_amount", func(r *models.CreateTemplateRequest) { r.ServiceID = ptr.Ptr(int64(2)) }, ErrInvalidInput},
		{"service_specific without service_id", func(r *models.CreateTemplateRequest) {
			r.Type = "service_specific"
			r.Value = 0
		}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&fakeVoucherRepo{}, &fakeCatalogClient{})
			req := validTemplateRequest()
			tt.mutate(req)

			_, err := svc.CreateTemplate(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateTemplate_ServiceSpecific(t *testing.T) {
	req := validTemplateRequest()
	req.Type = "service_specific"
	req.Value = 0
	req.ServiceID = ptr.Ptr(int64(2))

	t.Run("service exists", func(t *testing.T) {
		catalog := &fakeCatalogClient{service: &catalogservice.Service{ID: 2, Status: "active"}}
		svc := newTestService(&fakeVoucherRepo{}, catalog)

		resp, err := svc.CreateTemplate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "service_specific", resp.Type)
	})

	t.Run("service missing in catalog", func(t *testing.T) {
		catalog := &fakeCatalogClient{err: catalogservice.ErrServiceNotFound}
		svc := newTestService(&fakeVoucherRepo{}, catalog)

		_, err := svc.CreateTemplate(context.Background(), req)
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})
}

func TestUpdateTemplate_NotFound(t *testing.T) {
	svc := newTestService(&fakeVoucherRepo{}, &fakeCatalogClient{})

	_, err := svc.UpdateTemplate(context.Background(), 3, validTemplateRequest())
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestGetVoucherByCode_LazyExpiry(t *testing.T) {
	voucher := activeVoucher()
	voucher.ExpiresAt = testNow.AddDate(0, 0, -1)
	repo := &fakeVoucherRepo{voucher: voucher}
	svc := newTestService(repo, &fakeCatalogClient{})

	resp, err := svc.GetVoucherByCode(context.Background(), voucher.Code, 42, false)
	require.NoError(t, err)

	// Просроченный активный сертификат лениво переводится в expired
	assert.Equal(t, "expired", resp.Status)
	assert.Equal(t, []int64{9}, repo.expiredIDs)
}

func TestGetVoucherByCode_OpenToAnyAuthenticatedUser(t *testing.T) {
	repo := &fakeVoucherRepo{voucher: activeVoucher()}
	svc := newTestService(repo, &fakeCatalogClient{})

	// Код - секрет на предъявителя: доступ не ограничен владельцем
	resp, err := svc.GetVoucherByCode(context.Background(), "GV-ABCDEF12345678", 42, false)
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
	assert.Empty(t, repo.expiredIDs)
}

func TestGetVoucherByCode_NotFound(t *testing.T) {
	svc := newTestService(&fakeVoucherRepo{}, &fakeCatalogClient{})

	_, err := svc.GetVoucherByCode(context.Background(), "GV-MISSING", 42, false)
	assert.ErrorIs(t, err, ErrVoucherNotFound)
}

func TestGetVoucherUsages_AccessControl(t *testing.T) {
	repo := &fakeVoucherRepo{
		voucher: activeVoucher(),
		usages: []*domain.GiftVoucherUsage{
			{ID: 55, VoucherID: 9, AmountUsed: 2000, UsedAt: testNow},
		},
	}
	svc := newTestService(repo, &fakeCatalogClient{})

	// Владелец
	resp, err := svc.GetVoucherUsages(context.Background(), 9, 5, false)
	require.NoError(t, err)
	assert.Len(t, resp.Usages, 1)

	// Оператор
	_, err = svc.GetVoucherUsages(context.Background(), 9, 42, true)
	assert.NoError(t, err)

	// Посторонний пользователь
	_, err = svc.GetVoucherUsages(context.Background(), 9, 42, false)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancelVoucher(t *testing.T) {
	t.Run("active voucher", func(t *testing.T) {
		repo := &fakeVoucherRepo{voucher: activeVoucher()}
		svc := newTestService(repo, &fakeCatalogClient{})

		err := svc.CancelVoucher(context.Background(), 9)
		require.NoError(t, err)
		require.NotNil(t, repo.updatedStatus)
		assert.Equal(t, domain.VoucherCancelled, *repo.updatedStatus)
	})

	for _, status := range []domain.VoucherStatus{domain.VoucherUsed, domain.VoucherExpired, domain.VoucherCancelled} {
		t.Run(string(status), func(t *testing.T) {
			voucher := activeVoucher()
			voucher.Status = status
			repo := &fakeVoucherRepo{voucher: voucher}
			svc := newTestService(repo, &fakeCatalogClient{})

			err := svc.CancelVoucher(context.Background(), 9)
			assert.ErrorIs(t, err, ErrInvalidState)
			assert.Nil(t, repo.updatedStatus)
		})
	}
}

func TestReactivateVoucher(t *testing.T) {
	t.Run("cancelled voucher with balance", func(t *testing.T) {
		voucher := activeVoucher()
		voucher.Status = domain.VoucherCancelled
		repo := &fakeVoucherRepo{voucher: voucher}
		svc := newTestService(repo, &fakeCatalogClient{})

		err := svc.ReactivateVoucher(context.Background(), 9)
		require.NoError(t, err)
		require.NotNil(t, repo.updatedStatus)
		assert.Equal(t, domain.VoucherActive, *repo.updatedStatus)
	})

	t.Run("not cancelled", func(t *testing.T) {
		repo := &fakeVoucherRepo{voucher: activeVoucher()}
		svc := newTestService(repo, &fakeCatalogClient{})

		err := svc.ReactivateVoucher(context.Background(), 9)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("past expiry", func(t *testing.T) {
		voucher := activeVoucher()
		voucher.Status = domain.VoucherCancelled
		voucher.ExpiresAt = testNow.AddDate(0, 0, -1)
		repo := &fakeVoucherRepo{voucher: voucher}
		svc := newTestService(repo, &fakeCatalogClient{})

		err := svc.ReactivateVoucher(context.Background(), 9)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("no remaining value", func(t *testing.T) {
		voucher := activeVoucher()
		voucher.Status = domain.VoucherCancelled
		voucher.RemainingValue = 0
		repo := &fakeVoucherRepo{voucher: voucher}
		svc := newTestService(repo, &fakeCatalogClient{})

		err := svc.ReactivateVoucher(context.Background(), 9)
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestGetTemplates_ActiveOnly(t *testing.T) {
	template := &domain.GiftVoucherTemplate{ID: 3, Name: "Архивный", Type: domain.TemplateFixedAmount, Active: false}
	repo := &fakeVoucherRepo{template: template}
	svc := newTestService(repo, &fakeCatalogClient{})

	resp, err := svc.GetTemplates(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, resp.Templates)

	resp, err = svc.GetTemplates(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, resp.Templates, 1)
}
