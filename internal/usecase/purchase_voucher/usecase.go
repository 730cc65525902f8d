package purchase_voucher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lotus-spa/ReservationService/internal/domain"
	voucherStorage "github.com/lotus-spa/ReservationService/internal/infra/storage/voucher"
	catalogClient "github.com/lotus-spa/ReservationService/internal/integrations/catalogservice"
	"github.com/lotus-spa/ReservationService/internal/integrations/notifyservice"
)

// codePrefix префикс кода сертификата, чтобы код легко узнавался в переписке
const codePrefix = "GV-"

// UseCase use case для покупки подарочного сертификата
//
// Выпуск выполняется в serializable-транзакции: шаблон блокируется через
// FOR UPDATE, счетчик выпуска инкрементируется условным UPDATE, который
// не даёт превысить лимит при конкурентных покупках. Номинал фиксируется
// по правилам шаблона на момент выпуска и дальше живёт своей жизнью
type UseCase struct {
	voucherRepo   VoucherRepository
	catalogClient CatalogServiceClient
	txManager     TransactionManager
	notifier      Notifier
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	voucherRepo VoucherRepository,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		voucherRepo:   voucherRepo,
		catalogClient: catalogClient,
		txManager:     txManager,
		notifier:      notifier,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case покупки сертификата
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	uc.logger.Info("PurchaseVoucher: template=%d, user=%d", req.TemplateID, req.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("PurchaseVoucher: validation failed: %v", err)
		return nil, err
	}

	// 2. Предварительное чтение шаблона - чтобы сходить в каталог за ценой
	// услуги ДО открытия транзакции (HTTP-вызовов внутри транзакции нет)
	template, err := uc.voucherRepo.GetTemplateByID(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, voucherStorage.ErrTemplateNotFound) {
			return nil, ErrTemplateNotFound
		}
		uc.logger.Error("PurchaseVoucher: failed to get template=%d: %v", req.TemplateID, err)
		return nil, fmt.Errorf("%w: failed to get template: %w", ErrInternal, err)
	}

	if !template.Active {
		return nil, ErrTemplateInactive
	}

	// 3. Для service_specific номинал равен текущей базовой цене услуги
	var servicePrice float64
	if template.Type == domain.TemplateServiceSpecific {
		if template.ServiceID == nil {
			uc.logger.Error("PurchaseVoucher: template=%d is service_specific without service_id", template.ID)
			return nil, fmt.Errorf("%w: template has no service reference", ErrInternal)
		}

		service, err := uc.catalogClient.GetService(ctx, *template.ServiceID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceNotFound) {
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("PurchaseVoucher: failed to get service=%d: %v", *template.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
		}

		servicePrice = service.BasePrice
	}

	now := uc.timeProvider.Now()

	// 4. Выпускаем сертификат атомарно с инкрементом счетчика шаблона
	var (
		created *domain.GiftVoucher
		price   float64
	)

	txErr := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Перечитываем шаблон под блокировкой: состояние могло измениться
		locked, err := uc.voucherRepo.GetTemplateByID(txCtx, req.TemplateID)
		if err != nil {
			if errors.Is(err, voucherStorage.ErrTemplateNotFound) {
				return ErrTemplateNotFound
			}
			return fmt.Errorf("%w: failed to lock template: %w", ErrInternal, err)
		}

		if !locked.Active {
			return ErrTemplateInactive
		}

		// Условный UPDATE отклонит инкремент при достигнутом лимите
		if err := uc.voucherRepo.IncrementTemplateUsage(txCtx, locked.ID); err != nil {
			if errors.Is(err, voucherStorage.ErrTemplateSoldOut) {
				return ErrSoldOut
			}
			return fmt.Errorf("%w: failed to increment template usage: %w", ErrInternal, err)
		}

		originalValue := originalValueFor(locked, servicePrice)
		price = locked.Price

		voucher := &domain.GiftVoucher{
			TemplateID:        locked.ID,
			Code:              generateCode(),
			PurchasedByUserID: req.UserID,
			RecipientName:     req.RecipientName,
			RecipientEmail:    req.RecipientEmail,
			Message:           req.Message,
			OriginalValue:     originalValue,
			RemainingValue:    originalValue,
			Status:            domain.VoucherActive,
			ExpiresAt:         now.AddDate(0, 0, locked.ValidityDays),
		}

		created, err = uc.voucherRepo.CreateVoucher(txCtx, voucher)
		if errors.Is(err, voucherStorage.ErrDuplicateCode) {
			// Коллизия кода крайне маловероятна; одной повторной генерации достаточно
			voucher.Code = generateCode()
			created, err = uc.voucherRepo.CreateVoucher(txCtx, voucher)
		}
		if err != nil {
			return fmt.Errorf("%w: failed to create voucher: %w", ErrInternal, err)
		}

		return nil
	})

	if txErr != nil {
		uc.logger.Warn("PurchaseVoucher: failed template=%d user=%d: %v", req.TemplateID, req.UserID, txErr)
		return nil, txErr
	}

	uc.logger.Info("PurchaseVoucher: issued voucher=%d code=%s value=%.2f expires=%s",
		created.ID, created.Code, created.OriginalValue, created.ExpiresAt.Format(domain.DateFormat))

	uc.notifier.Publish(notifyservice.Event{
		Type:       notifyservice.EventVoucherPurchased,
		OccurredAt: now,
		VoucherEvent: &notifyservice.VoucherEvent{
			VoucherID:      created.ID,
			Code:           created.Code,
			UserID:         created.PurchasedByUserID,
			OriginalValue:  created.OriginalValue,
			RemainingValue: created.RemainingValue,
			Status:         string(created.Status),
		},
	})

	return &Response{Voucher: created, Price: price}, nil
}

// originalValueFor вычисляет номинал сертификата по правилам шаблона
// percentage хранит номинал как денежный кредит так же, как fixed_amount
func originalValueFor(template *domain.GiftVoucherTemplate, servicePrice float64) float64 {
	if template.Type == domain.TemplateServiceSpecific {
		return servicePrice
	}
	return template.Value
}

// generateCode генерирует уникальный код погашения
func generateCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return codePrefix + raw[:16]
}
