package voucher

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/lotus-spa/ReservationService/internal/domain"
	"github.com/lotus-spa/ReservationService/pkg/dbmetrics"
	"github.com/lotus-spa/ReservationService/pkg/psqlbuilder"
)

const templatesTable = "gift_voucher_templates"

var templateColumns = []string{
	"id",
	"name",
	"type",
	"value",
	"price",
	"service_id",
	"validity_days",
	"max_usage_count",
	"current_usage_count",
	"active",
	"created_at",
	"updated_at",
}

// CreateTemplate создает новый шаблон подарочного сертификата
func (r *Repository) CreateTemplate(ctx context.Context, template *domain.GiftVoucherTemplate) (*domain.GiftVoucherTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(templatesTable).
		Columns(
			"name",
			"type",
			"value",
			"price",
			"service_id",
			"validity_days",
			"max_usage_count",
			"active",
		).
		Values(
			template.Name,
			template.Type,
			template.Value,
			template.Price,
			template.ServiceID,
			template.ValidityDays,
			template.MaxUsageCount,
			template.Active,
		).
		Suffix("RETURNING id, current_usage_count, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateTemplate - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&template.ID,
		&template.CurrentUsageCount,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: CreateTemplate - execute insert: %w", ErrExecQuery, err)
	}

	template.CreatedAt = createdAt.Time
	template.UpdatedAt = updatedAt.Time

	return template, nil
}

// GetTemplateByID получает шаблон по ID
// Внутри транзакции строка блокируется через FOR UPDATE -
// используется в usecase покупки сертификата для атомарной проверки лимита выпуска
func (r *Repository) GetTemplateByID(ctx context.Context, id int64) (*domain.GiftVoucherTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(templateColumns...).
		From(templatesTable).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplateByID - build select query: %w", ErrBuildQuery, err)
	}

	template, err := scanTemplateRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplateByID - scan template: %w", ErrScanRow, err)
	}

	return template, nil
}

// GetAllTemplates получает все шаблоны
// activeOnly = true возвращает только активные (доступные к покупке)
func (r *Repository) GetAllTemplates(ctx context.Context, activeOnly bool) ([]*domain.GiftVoucherTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(templateColumns...).
		From(templatesTable).
		OrderBy("id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllTemplates - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllTemplates - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	templates := make([]*domain.GiftVoucherTemplate, 0)

	for rows.Next() {
		template, err := scanTemplateRows(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllTemplates - scan row: %w", ErrScanRow, err)
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllTemplates - rows error: %w", ErrScanRow, err)
	}

	return templates, nil
}

// UpdateTemplate обновляет настройки шаблона
// Счётчик выпуска current_usage_count через этот метод не меняется
func (r *Repository) UpdateTemplate(ctx context.Context, id int64, template *domain.GiftVoucherTemplate) (*domain.GiftVoucherTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(templatesTable).
		Set("name", template.Name).
		Set("type", template.Type).
		Set("value", template.Value).
		Set("price", template.Price).
		Set("service_id", template.ServiceID).
		Set("validity_days", template.ValidityDays).
		Set("max_usage_count", template.MaxUsageCount).
		Set("active", template.Active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING current_usage_count, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateTemplate - build update query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&template.CurrentUsageCount,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateTemplate - execute update: %w", ErrExecQuery, err)
	}

	template.ID = id
	template.CreatedAt = createdAt.Time
	template.UpdatedAt = updatedAt.Time

	return template, nil
}

// IncrementTemplateUsage атомарно увеличивает счётчик выпуска с проверкой лимита
// Условие в WHERE гарантирует, что счётчик никогда не превысит max_usage_count,
// даже при конкурентных покупках; при исчерпании лимита возвращает ErrTemplateSoldOut
func (r *Repository) IncrementTemplateUsage(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(templatesTable).
		Set("current_usage_count", squirrel.Expr("current_usage_count + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("(max_usage_count IS NULL OR current_usage_count < max_usage_count)")).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: IncrementTemplateUsage - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementTemplateUsage - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: IncrementTemplateUsage - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Либо шаблон отсутствует, либо лимит исчерпан - различаем отдельным чтением
		if _, getErr := r.GetTemplateByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrTemplateSoldOut
	}

	return nil
}

func scanTemplateRow(row *sql.Row) (*domain.GiftVoucherTemplate, error) {
	var template domain.GiftVoucherTemplate
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&template.ID,
		&template.Name,
		&template.Type,
		&template.Value,
		&template.Price,
		&template.ServiceID,
		&template.ValidityDays,
		&template.MaxUsageCount,
		&template.CurrentUsageCount,
		&template.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	template.CreatedAt = createdAt.Time
	template.UpdatedAt = updatedAt.Time

	return &template, nil
}

func scanTemplateRows(rows *sql.Rows) (*domain.GiftVoucherTemplate, error) {
	var template domain.GiftVoucherTemplate
	var createdAt, updatedAt sql.NullTime

	err := rows.Scan(
		&template.ID,
		&template.Name,
		&template.Type,
		&template.Value,
		&template.Price,
		&template.ServiceID,
		&template.ValidityDays,
		&template.MaxUsageCount,
		&template.CurrentUsageCount,
		&template.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	template.CreatedAt = createdAt.Time
	template.UpdatedAt = updatedAt.Time

	return &template, nil
}
