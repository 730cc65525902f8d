package voucher

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/lotus-spa/ReservationService/internal/domain"
	"github.com/lotus-spa/ReservationService/pkg/dbmetrics"
	"github.com/lotus-spa/ReservationService/pkg/psqlbuilder"
)

const (
	vouchersTable = "gift_vouchers"
	usagesTable   = "gift_voucher_usages"

	// uniqueViolation код ошибки Postgres при нарушении unique constraint
	uniqueViolation = "23505"
)

var voucherColumns = []string{
	"id",
	"template_id",
	"code",
	"purchased_by_user_id",
	"recipient_name",
	"recipient_email",
	"message",
	"original_value",
	"remaining_value",
	"status",
	"expires_at",
	"created_at",
	"updated_at",
}

var usageColumns = []string{
	"id",
	"voucher_id",
	"amount_used",
	"booking_id",
	"used_at",
	"notes",
}

// Repository репозиторий для работы с подарочными сертификатами:
// шаблоны, выпущенные сертификаты и журнал списаний
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сертификатов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateVoucher создает выпущенный сертификат
// Код сертификата уникален; при коллизии возвращает ErrDuplicateCode
func (r *Repository) CreateVoucher(ctx context.Context, voucher *domain.GiftVoucher) (*domain.GiftVoucher, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(vouchersTable).
		Columns(
			"template_id",
			"code",
			"purchased_by_user_id",
			"recipient_name",
			"recipient_email",
			"message",
			"original_value",
			"remaining_value",
			"status",
			"expires_at",
		).
		Values(
			voucher.TemplateID,
			voucher.Code,
			voucher.PurchasedByUserID,
			voucher.RecipientName,
			voucher.RecipientEmail,
			voucher.Message,
			voucher.OriginalValue,
			voucher.RemainingValue,
			voucher.Status,
			voucher.ExpiresAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateVoucher - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&voucher.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("%w: CreateVoucher - execute insert: %w", ErrExecQuery, err)
	}

	voucher.CreatedAt = createdAt.Time
	voucher.UpdatedAt = updatedAt.Time

	return voucher, nil
}

// GetVoucherByID получает сертификат по ID
func (r *Repository) GetVoucherByID(ctx context.Context, id int64) (*domain.GiftVoucher, error) {
	return r.getVoucher(ctx, squirrel.Eq{"id": id})
}

// GetVoucherByCode получает сертификат по коду погашения
// Внутри транзакции строка блокируется через FOR UPDATE -
// используется в usecase погашения для атомарного списания с баланса
func (r *Repository) GetVoucherByCode(ctx context.Context, code string) (*domain.GiftVoucher, error) {
	return r.getVoucher(ctx, squirrel.Eq{"code": code})
}

func (r *Repository) getVoucher(ctx context.Context, where squirrel.Eq) (*domain.GiftVoucher, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(voucherColumns...).
		From(vouchersTable).
		Where(where)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getVoucher - build select query: %w", ErrBuildQuery, err)
	}

	voucher, err := scanVoucherRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrVoucherNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getVoucher - scan voucher: %w", ErrScanRow, err)
	}

	return voucher, nil
}

// GetVouchersByUserID получает сертификаты, купленные пользователем
func (r *Repository) GetVouchersByUserID(ctx context.Context, userID int64) ([]*domain.GiftVoucher, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(voucherColumns...).
		From(vouchersTable).
		Where(squirrel.Eq{"purchased_by_user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetVouchersByUserID - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetVouchersByUserID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	vouchers := make([]*domain.GiftVoucher, 0)

	for rows.Next() {
		voucher, err := scanVoucherRows(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetVouchersByUserID - scan row: %w", ErrScanRow, err)
		}
		vouchers = append(vouchers, voucher)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetVouchersByUserID - rows error: %w", ErrScanRow, err)
	}

	return vouchers, nil
}

// UpdateVoucherStatus обновляет статус сертификата
func (r *Repository) UpdateVoucherStatus(ctx context.Context, id int64, status domain.VoucherStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(vouchersTable).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateVoucherStatus - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateVoucherStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateVoucherStatus - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrVoucherNotFound
	}

	return nil
}

// ExpireVoucher помечает сертификат истёкшим, только если он всё ещё активен
// Условие по статусу исключает затирание used/cancelled при гонке с погашением
func (r *Repository) ExpireVoucher(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(vouchersTable).
		Set("status", domain.VoucherExpired).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.VoucherActive}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ExpireVoucher - build update query: %w", ErrBuildQuery, err)
	}

	// 0 затронутых строк - не ошибка: статус уже изменился конкурентно
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ExpireVoucher - execute update: %w", ErrExecQuery, err)
	}

	return nil
}

// DebitVoucher атомарно списывает amount с баланса сертификата
// Условие remaining_value >= amount в WHERE исключает уход баланса в минус
// при конкурентных погашениях; при нехватке остатка возвращает ErrInsufficientBalance
// Если после списания баланс обнуляется, статус переводится в used
func (r *Repository) DebitVoucher(ctx context.Context, id int64, amount float64) (*domain.GiftVoucher, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(vouchersTable).
		Set("remaining_value", squirrel.Expr("remaining_value - ?", amount)).
		Set("status", squirrel.Expr("CASE WHEN remaining_value - ? <= 0 THEN 'used' ELSE status END", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("remaining_value >= ?", amount)).
		Suffix("RETURNING " + strings.Join(voucherColumns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: DebitVoucher - build update query: %w", ErrBuildQuery, err)
	}

	voucher, err := scanVoucherRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		// Либо сертификат отсутствует, либо остатка не хватает
		if _, getErr := r.GetVoucherByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrInsufficientBalance
	}
	if err != nil {
		return nil, fmt.Errorf("%w: DebitVoucher - scan voucher: %w", ErrScanRow, err)
	}

	return voucher, nil
}

// CreateUsage добавляет запись в журнал списаний
// Журнал append-only: записи никогда не изменяются и не удаляются
func (r *Repository) CreateUsage(ctx context.Context, usage *domain.GiftVoucherUsage) (*domain.GiftVoucherUsage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(usagesTable).
		Columns(
			"voucher_id",
			"amount_used",
			"booking_id",
			"notes",
		).
		Values(
			usage.VoucherID,
			usage.AmountUsed,
			usage.BookingID,
			usage.Notes,
		).
		Suffix("RETURNING id, used_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateUsage - build insert query: %w", ErrBuildQuery, err)
	}

	var usedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&usage.ID,
		&usedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: CreateUsage - execute insert: %w", ErrExecQuery, err)
	}

	usage.UsedAt = usedAt.Time

	return usage, nil
}

// GetUsagesByVoucherID получает журнал списаний сертификата
func (r *Repository) GetUsagesByVoucherID(ctx context.Context, voucherID int64) ([]*domain.GiftVoucherUsage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(usageColumns...).
		From(usagesTable).
		Where(squirrel.Eq{"voucher_id": voucherID}).
		OrderBy("used_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetUsagesByVoucherID - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetUsagesByVoucherID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	usages := make([]*domain.GiftVoucherUsage, 0)

	for rows.Next() {
		var usage domain.GiftVoucherUsage
		var usedAt sql.NullTime

		err := rows.Scan(
			&usage.ID,
			&usage.VoucherID,
			&usage.AmountUsed,
			&usage.BookingID,
			&usedAt,
			&usage.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetUsagesByVoucherID - scan row: %w", ErrScanRow, err)
		}

		usage.UsedAt = usedAt.Time
		usages = append(usages, &usage)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetUsagesByVoucherID - rows error: %w", ErrScanRow, err)
	}

	return usages, nil
}

func scanVoucherRow(row *sql.Row) (*domain.GiftVoucher, error) {
	var voucher domain.GiftVoucher
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&voucher.ID,
		&voucher.TemplateID,
		&voucher.Code,
		&voucher.PurchasedByUserID,
		&voucher.RecipientName,
		&voucher.RecipientEmail,
		&voucher.Message,
		&voucher.OriginalValue,
		&voucher.RemainingValue,
		&voucher.Status,
		&voucher.ExpiresAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	voucher.CreatedAt = createdAt.Time
	voucher.UpdatedAt = updatedAt.Time

	return &voucher, nil
}

func scanVoucherRows(rows *sql.Rows) (*domain.GiftVoucher, error) {
	var voucher domain.GiftVoucher
	var createdAt, updatedAt sql.NullTime

	err := rows.Scan(
		&voucher.ID,
		&voucher.TemplateID,
		&voucher.Code,
		&voucher.PurchasedByUserID,
		&voucher.RecipientName,
		&voucher.RecipientEmail,
		&voucher.Message,
		&voucher.OriginalValue,
		&voucher.RemainingValue,
		&voucher.Status,
		&voucher.ExpiresAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	voucher.CreatedAt = createdAt.Time
	voucher.UpdatedAt = updatedAt.Time

	return &voucher, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
