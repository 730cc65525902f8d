package redeem_voucher

import (
	"context"
	"errors"
	"fmt"

	"github.com/lotus-spa/ReservationService/internal/domain"
	voucherStorage "github.com/lotus-spa/ReservationService/internal/infra/storage/voucher"
	"github.com/lotus-spa/ReservationService/internal/integrations/notifyservice"
)

// UseCase use case для погашения подарочного сертификата
//
// Погашение выполняется в serializable-транзакции: сертификат блокируется
// через FOR UPDATE по коду, баланс списывается условным UPDATE. Истечение
// срока проверяется лениво при каждом погашении - фонового процесса нет,
// статус переводится в expired как побочный эффект чтения
type UseCase struct {
	voucherRepo  VoucherRepository
	txManager    TransactionManager
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	voucherRepo VoucherRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		voucherRepo:  voucherRepo,
		txManager:    txManager,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case погашения сертификата на точную сумму
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	uc.logger.Info("RedeemVoucher: code=%s, amount=%.2f", req.Code, req.Amount)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RedeemVoucher: validation failed: %v", err)
		return nil, err
	}

	var (
		usage   *domain.GiftVoucherUsage
		voucher *domain.GiftVoucher
	)

	txErr := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		usage, voucher, err = uc.redeemLocked(txCtx, req.Code, req.Amount, false, req.BookingID, req.Notes)
		return err
	})

	if txErr != nil {
		// Флип статуса при ленивом истечении откатился вместе с транзакцией -
		// фиксируем его отдельным запросом вне транзакции
		if errors.Is(txErr, ErrVoucherExpired) && voucher != nil {
			uc.MarkExpired(ctx, voucher.ID)
		}
		uc.logger.Warn("RedeemVoucher: failed code=%s: %v", req.Code, txErr)
		return nil, txErr
	}

	uc.logger.Info("RedeemVoucher: voucher=%d debited amount=%.2f remaining=%.2f",
		voucher.ID, usage.AmountUsed, voucher.RemainingValue)

	uc.notifier.Publish(notifyservice.Event{
		Type:       notifyservice.EventVoucherRedeemed,
		OccurredAt: uc.timeProvider.Now(),
		VoucherEvent: &notifyservice.VoucherEvent{
			VoucherID:      voucher.ID,
			Code:           voucher.Code,
			UserID:         voucher.PurchasedByUserID,
			OriginalValue:  voucher.OriginalValue,
			RemainingValue: voucher.RemainingValue,
			AmountUsed:     usage.AmountUsed,
			BookingID:      req.BookingID,
			Status:         string(voucher.Status),
		},
	})

	return &Response{Usage: usage, Voucher: voucher}, nil
}

// RedeemForBooking списывает с сертификата не больше maxAmount в рамках
// УЖЕ ОТКРЫТОЙ транзакции вызывающего usecase (частичная оплата допустима).
// При ленивом истечении возвращает сертификат вместе с ошибкой, чтобы
// вызывающий мог зафиксировать статус после отката своей транзакции
func (uc *UseCase) RedeemForBooking(ctx context.Context, code string, maxAmount float64, bookingID int64) (*domain.GiftVoucherUsage, *domain.GiftVoucher, error) {
	if code == "" {
		return nil, nil, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	if maxAmount <= 0 {
		return nil, nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	return uc.redeemLocked(ctx, code, maxAmount, true, &bookingID, nil)
}

// MarkExpired помечает сертификат истёкшим вне транзакции (best-effort)
func (uc *UseCase) MarkExpired(ctx context.Context, voucherID int64) {
	if err := uc.voucherRepo.ExpireVoucher(ctx, voucherID); err != nil {
		uc.logger.Error("RedeemVoucher: failed to mark voucher=%d expired: %v", voucherID, err)
	}
}

// redeemLocked общая логика погашения; контекст обязан содержать транзакцию,
// чтобы GetVoucherByCode заблокировал строку через FOR UPDATE
//
// capToBalance=true - списываем min(requested, остаток), режим оплаты бронирования
// capToBalance=false - требуем точную сумму, иначе ErrInsufficientBalance
func (uc *UseCase) redeemLocked(
	ctx context.Context,
	code string,
	requested float64,
	capToBalance bool,
	bookingID *int64,
	notes *string,
) (*domain.GiftVoucherUsage, *domain.GiftVoucher, error) {
	voucher, err := uc.voucherRepo.GetVoucherByCode(ctx, code)
	if err != nil {
		if errors.Is(err, voucherStorage.ErrVoucherNotFound) {
			return nil, nil, ErrVoucherNotFound
		}
		return nil, nil, fmt.Errorf("%w: failed to get voucher: %w", ErrInternal, err)
	}

	now := uc.timeProvider.Now()

	// Ленивое истечение: хранимый статус может отставать от expires_at
	if voucher.Status == domain.VoucherExpired ||
		(voucher.Status == domain.VoucherActive && voucher.IsExpiredAt(now)) {
		return nil, voucher, ErrVoucherExpired
	}

	if voucher.Status != domain.VoucherActive {
		return nil, voucher, ErrVoucherNotActive
	}

	amount := requested
	if capToBalance && amount > voucher.RemainingValue {
		amount = voucher.RemainingValue
	}
	if amount > voucher.RemainingValue {
		return nil, voucher, ErrInsufficientBalance
	}

	updated, err := uc.voucherRepo.DebitVoucher(ctx, voucher.ID, amount)
	if err != nil {
		if errors.Is(err, voucherStorage.ErrInsufficientBalance) {
			return nil, voucher, ErrInsufficientBalance
		}
		return nil, voucher, fmt.Errorf("%w: failed to debit voucher: %w", ErrInternal, err)
	}

	usage, err := uc.voucherRepo.CreateUsage(ctx, &domain.GiftVoucherUsage{
		VoucherID:  updated.ID,
		AmountUsed: amount,
		BookingID:  bookingID,
		Notes:      notes,
	})
	if err != nil {
		return nil, updated, fmt.Errorf("%w: failed to create usage record: %w", ErrInternal, err)
	}

	return usage, updated, nil
}
