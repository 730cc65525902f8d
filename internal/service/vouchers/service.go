package vouchers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lotus-spa/ReservationService/internal/domain"
	voucherRepo "github.com/lotus-spa/ReservationService/internal/infra/storage/voucher"
	catalogClient "github.com/lotus-spa/ReservationService/internal/integrations/catalogservice"
	"github.com/lotus-spa/ReservationService/internal/service/vouchers/models"
)

// realTimeProvider реальный провайдер времени для production
type realTimeProvider struct{}

func (p *realTimeProvider) Now() time.Time {
	return time.Now()
}

// Service сервис для работы с шаблонами и выпущенными сертификатами
//
// Истечение срока действия проверяется лениво: фонового процесса нет,
// просроченный сертификат переводится в expired при чтении по коду
type Service struct {
	voucherRepo   VoucherRepository
	catalogClient CatalogServiceClient
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса сертификатов
func NewService(
	voucherRepo VoucherRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *Service {
	return &Service{
		voucherRepo:   voucherRepo,
		catalogClient: catalogClient,
		timeProvider:  &realTimeProvider{},
		logger:        logger,
	}
}

// Шаблоны

// CreateTemplate создает шаблон сертификата
// Для service_specific шаблона проверяет, что услуга существует в каталоге
func (s *Service) CreateTemplate(ctx context.Context, req *models.CreateTemplateRequest) (*models.TemplateResponse, error) {
	s.logger.Info("CreateTemplate: name=%s, type=%s", req.Name, req.Type)

	template, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("CreateTemplate: invalid type=%s", req.Type)
		return nil, fmt.Errorf("%w: unknown template type", ErrInvalidInput)
	}

	if err := s.validateTemplate(ctx, template); err != nil {
		return nil, err
	}

	created, err := s.voucherRepo.CreateTemplate(ctx, template)
	if err != nil {
		s.logger.Error("CreateTemplate: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateTemplate - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("CreateTemplate: created template id=%d", created.ID)
	return models.FromDomainTemplate(created), nil
}

// GetTemplateByID получает шаблон по ID
func (s *Service) GetTemplateByID(ctx context.Context, id int64) (*models.TemplateResponse, error) {
	template, err := s.voucherRepo.GetTemplateByID(ctx, id)
	if err != nil {
		if errors.Is(err, voucherRepo.ErrTemplateNotFound) {
			s.logger.Warn("GetTemplateByID: template id=%d not found", id)
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("GetTemplateByID: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetTemplateByID - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainTemplate(template), nil
}

// GetTemplates получает список шаблонов
// activeOnly=true для витрины; полный список - для операторов
func (s *Service) GetTemplates(ctx context.Context, activeOnly bool) (*models.TemplateListResponse, error) {
	templates, err := s.voucherRepo.GetAllTemplates(ctx, activeOnly)
	if err != nil {
		s.logger.Error("GetTemplates: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetTemplates - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainTemplateList(templates), nil
}

// UpdateTemplate обновляет шаблон сертификата
// Уже выпущенные сертификаты изменения не затрагивают
func (s *Service) UpdateTemplate(ctx context.Context, id int64, req *models.UpdateTemplateRequest) (*models.TemplateResponse, error) {
	s.logger.Info("UpdateTemplate: updating template id=%d", id)

	template, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("UpdateTemplate: invalid type=%s for template id=%d", req.Type, id)
		return nil, fmt.Errorf("%w: unknown template type", ErrInvalidInput)
	}

	if err := s.validateTemplate(ctx, template); err != nil {
		return nil, err
	}

	updated, err := s.voucherRepo.UpdateTemplate(ctx, id, template)
	if err != nil {
		if errors.Is(err, voucherRepo.ErrTemplateNotFound) {
			s.logger.Warn("UpdateTemplate: template id=%d not found", id)
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("UpdateTemplate: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateTemplate - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("UpdateTemplate: updated template id=%d", id)
	return models.FromDomainTemplate(updated), nil
}

// Сертификаты

// GetVoucherByCode получает сертификат по коду погашения
// Просроченный активный сертификат лениво переводится в expired
func (s *Service) GetVoucherByCode(ctx context.Context, code string, userID int64, isOperator bool) (*models.VoucherResponse, error) {
	voucher, err := s.voucherRepo.GetVoucherByCode(ctx, code)
	if err != nil {
		if errors.Is(err, voucherRepo.ErrVoucherNotFound) {
			s.logger.Warn("GetVoucherByCode: voucher code=%s not found", code)
			return nil, ErrVoucherNotFound
		}
		s.logger.Error("GetVoucherByCode: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetVoucherByCode - repository error: %w", ErrInternal, err)
	}

	// Код сертификата - секрет на предъявителя: получатель подарка не владелец,
	// поэтому доступ по коду открыт любому аутентифицированному пользователю

	if voucher.Status == domain.VoucherActive && voucher.IsExpiredAt(s.timeProvider.Now()) {
		if err := s.voucherRepo.ExpireVoucher(ctx, voucher.ID); err != nil {
			s.logger.Error("GetVoucherByCode: failed to expire voucher id=%d: %v", voucher.ID, err)
		} else {
			voucher.Status = domain.VoucherExpired
			s.logger.Info("GetVoucherByCode: lazily expired voucher id=%d", voucher.ID)
		}
	}

	return models.FromDomainVoucher(voucher), nil
}

// GetUserVouchers получает сертификаты, купленные пользователем
func (s *Service) GetUserVouchers(ctx context.Context, userID int64) (*models.VoucherListResponse, error) {
	vouchers, err := s.voucherRepo.GetVouchersByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("GetUserVouchers: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserVouchers - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainVoucherList(vouchers), nil
}

// GetVoucherUsages получает журнал списаний сертификата
// Доступно владельцу сертификата и операторам
func (s *Service) GetVoucherUsages(ctx context.Context, voucherID int64, userID int64, isOperator bool) (*models.UsageListResponse, error) {
	voucher, err := s.getVoucher(ctx, voucherID, "GetVoucherUsages")
	if err != nil {
		return nil, err
	}

	if voucher.PurchasedByUserID != userID && !isOperator {
		s.logger.Warn("GetVoucherUsages: access denied for user=%d to voucher id=%d", userID, voucherID)
		return nil, ErrAccessDenied
	}

	usages, err := s.voucherRepo.GetUsagesByVoucherID(ctx, voucherID)
	if err != nil {
		s.logger.Error("GetVoucherUsages: repository error for voucher id=%d: %v", voucherID, err)
		return nil, fmt.Errorf("%w: GetVoucherUsages - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainUsageList(usages), nil
}

// CancelVoucher аннулирует сертификат
// Допустимо только из статуса active; списанные средства не возвращаются
func (s *Service) CancelVoucher(ctx context.Context, voucherID int64) error {
	s.logger.Info("CancelVoucher: cancelling voucher id=%d", voucherID)

	voucher, err := s.getVoucher(ctx, voucherID, "CancelVoucher")
	if err != nil {
		return err
	}

	if !voucher.CanBeCancelled() {
		s.logger.Warn("CancelVoucher: voucher id=%d cannot be cancelled, status=%s", voucherID, voucher.Status)
		return ErrInvalidState
	}

	if err := s.voucherRepo.UpdateVoucherStatus(ctx, voucherID, domain.VoucherCancelled); err != nil {
		if errors.Is(err, voucherRepo.ErrVoucherNotFound) {
			return ErrVoucherNotFound
		}
		s.logger.Error("CancelVoucher: repository error for voucher id=%d: %v", voucherID, err)
		return fmt.Errorf("%w: CancelVoucher - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("CancelVoucher: cancelled voucher id=%d", voucherID)
	return nil
}

// ReactivateVoucher возвращает аннулированный сертификат в active
// Операторская операция для отмены ошибочного аннулирования;
// просроченный или полностью использованный сертификат реактивировать нельзя
func (s *Service) ReactivateVoucher(ctx context.Context, voucherID int64) error {
	s.logger.Info("ReactivateVoucher: reactivating voucher id=%d", voucherID)

	voucher, err := s.getVoucher(ctx, voucherID, "ReactivateVoucher")
	if err != nil {
		return err
	}

	if voucher.Status != domain.VoucherCancelled {
		s.logger.Warn("ReactivateVoucher: voucher id=%d is not cancelled, status=%s", voucherID, voucher.Status)
		return ErrInvalidState
	}

	if voucher.IsExpiredAt(s.timeProvider.Now()) {
		s.logger.Warn("ReactivateVoucher: voucher id=%d is past expiry", voucherID)
		return ErrInvalidState
	}

	if voucher.RemainingValue <= 0 {
		s.logger.Warn("ReactivateVoucher: voucher id=%d has no remaining value", voucherID)
		return ErrInvalidState
	}

	if err := s.voucherRepo.UpdateVoucherStatus(ctx, voucherID, domain.VoucherActive); err != nil {
		if errors.Is(err, voucherRepo.ErrVoucherNotFound) {
			return ErrVoucherNotFound
		}
		s.logger.Error("ReactivateVoucher: repository error for voucher id=%d: %v", voucherID, err)
		return fmt.Errorf("%w: ReactivateVoucher - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ReactivateVoucher: reactivated voucher id=%d", voucherID)
	return nil
}

// Вспомогательные методы

func (s *Service) getVoucher(ctx context.Context, id int64, op string) (*domain.GiftVoucher, error) {
	voucher, err := s.voucherRepo.GetVoucherByID(ctx, id)
	if err != nil {
		if errors.Is(err, voucherRepo.ErrVoucherNotFound) {
			s.logger.Warn("%s: voucher id=%d not found", op, id)
			return nil, ErrVoucherNotFound
		}
		s.logger.Error("%s: repository error for voucher id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	return voucher, nil
}

// validateTemplate проверяет бизнес-правила шаблона
func (s *Service) validateTemplate(ctx context.Context, template *domain.GiftVoucherTemplate) error {
	if template.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	// Для service_specific номинал берётся из каталога, value не используется
	if template.Type != domain.TemplateServiceSpecific && template.Value <= 0 {
		return fmt.Errorf("%w: value must be positive", ErrInvalidInput)
	}
	if template.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if template.ValidityDays < domain.MinValidityDays || template.ValidityDays > domain.MaxValidityDays {
		return fmt.Errorf("%w: validity_days must be in [%d, %d]",
			ErrInvalidInput, domain.MinValidityDays, domain.MaxValidityDays)
	}
	if template.MaxUsageCount != nil && *template.MaxUsageCount <= 0 {
		return fmt.Errorf("%w: max_usage_count must be positive", ErrInvalidInput)
	}

	if template.Type == domain.TemplateServiceSpecific {
		if template.ServiceID == nil {
			return fmt.Errorf("%w: service_id is required for service_specific templates", ErrInvalidInput)
		}

		// Ссылка на услугу должна существовать в каталоге
		if _, err := s.catalogClient.GetService(ctx, *template.ServiceID); err != nil {
			if errors.Is(err, catalogClient.ErrServiceNotFound) {
				s.logger.Warn("validateTemplate: service id=%d not found in catalog", *template.ServiceID)
				return ErrServiceNotFound
			}
			s.logger.Error("validateTemplate: failed to get service id=%d: %v", *template.ServiceID, err)
			return fmt.Errorf("%w: validateTemplate - failed to get service: %w", ErrInternal, err)
		}
	} else if template.ServiceID != nil {
		return fmt.Errorf("%w: service_id is only allowed for service_specific templates", ErrInvalidInput)
	}

	return nil
}
