package pending

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/internal/domain"
	"github.com/yuki-hayashi-0419/LightRoll-Cleaner-sub004/pkg/psqlbuilder"
)

// requestColumns столбцы таблицы pending_notifications в порядке сканирования
var requestColumns = []string{
	"identifier",
	"title",
	"body",
	"category",
	"fire_at",
	"user_info",
	"created_at",
	"updated_at",
}

// Repository репозиторий pending-запросов внешнего сервиса доставки
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория pending-запросов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Save сохраняет pending-запрос, заменяя запись с тем же идентификатором.
// Гарантия "не более одной записи на идентификатор" обеспечивается
// первичным ключом и UPSERT-семантикой.
func (r *Repository) Save(ctx context.Context, request *domain.PendingRequest) error {
	// TIMESTAMPTZ хранит микросекунды: нормализуем время до записи,
	// чтобы значение в памяти совпадало с перечитанным из БД
	request.FireAt = request.FireAt.Truncate(time.Microsecond)

	query, args, err := psqlbuilder.Insert("pending_notifications").
		Columns("identifier", "title", "body", "category", "fire_at", "user_info").
		Values(
			request.Identifier,
			request.Title,
			request.Body,
			request.Category,
			request.FireAt,
			request.UserInfo,
		).
		Suffix(`ON CONFLICT (identifier) DO UPDATE SET
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			category = EXCLUDED.category,
			fire_at = EXCLUDED.fire_at,
			user_info = EXCLUDED.user_info,
			updated_at = NOW()
			RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return fmt.Errorf("%w: Save - execute upsert: %v", ErrExecQuery, err)
	}

	request.CreatedAt = createdAt.Time
	request.UpdatedAt = updatedAt.Time
	return nil
}

// GetByIdentifier получает pending-запрос по идентификатору
func (r *Repository) GetByIdentifier(ctx context.Context, identifier string) (*domain.PendingRequest, error) {
	query, args, err := psqlbuilder.Select(requestColumns...).
		From("pending_notifications").
		Where(squirrel.Eq{"identifier": identifier}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIdentifier - build select query: %v", ErrBuildQuery, err)
	}

	request, err := scanRequest(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("%w: GetByIdentifier - scan: %v", ErrScanRow, err)
	}

	return request, nil
}

// List возвращает все pending-запросы в порядке времени доставки
func (r *Repository) List(ctx context.Context) ([]*domain.PendingRequest, error) {
	query, args, err := psqlbuilder.Select(requestColumns...).
		From("pending_notifications").
		OrderBy("fire_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryRequests(ctx, query, args)
}

// ListDue возвращает pending-запросы, время доставки которых наступило
func (r *Repository) ListDue(ctx context.Context, now time.Time) ([]*domain.PendingRequest, error) {
	query, args, err := psqlbuilder.Select(requestColumns...).
		From("pending_notifications").
		Where(squirrel.LtOrEq{"fire_at": now}).
		OrderBy("fire_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDue - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryRequests(ctx, query, args)
}

// DeleteByIdentifiers удаляет pending-запросы по идентификаторам.
// Отсутствующие идентификаторы не являются ошибкой.
func (r *Repository) DeleteByIdentifiers(ctx context.Context, identifiers []string) error {
	if len(identifiers) == 0 {
		return nil
	}

	query, args, err := psqlbuilder.Delete("pending_notifications").
		Where(squirrel.Eq{"identifier": identifiers}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteByIdentifiers - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteByIdentifiers - execute delete: %v", ErrExecQuery, err)
	}
	return nil
}

// DeleteByPrefix удаляет pending-запросы с идентификаторами, начинающимися
// с указанного префикса. Возвращает число удалённых записей.
func (r *Repository) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	query, args, err := psqlbuilder.Delete("pending_notifications").
		Where(squirrel.Like{"identifier": prefix + "%"}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByPrefix - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByPrefix - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByPrefix - rows affected: %v", ErrExecQuery, err)
	}
	return affected, nil
}

// DeleteAll удаляет все pending-запросы
func (r *Repository) DeleteAll(ctx context.Context) error {
	query, _, err := psqlbuilder.Delete("pending_notifications").ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteAll - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w: DeleteAll - execute delete: %v", ErrExecQuery, err)
	}
	return nil
}

// queryRequests выполняет SELECT и сканирует все строки
func (r *Repository) queryRequests(ctx context.Context, query string, args []interface{}) ([]*domain.PendingRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	requests := make([]*domain.PendingRequest, 0)
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScanRow, err)
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows iteration: %v", ErrExecQuery, err)
	}
	return requests, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanRequest сканирует одну строку в доменную модель
func scanRequest(row rowScanner) (*domain.PendingRequest, error) {
	var request domain.PendingRequest
	err := row.Scan(
		&request.Identifier,
		&request.Title,
		&request.Body,
		&request.Category,
		&request.FireAt,
		&request.UserInfo,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}
