package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/mybakup/appointment-service/internal/domain"
	"github.com/mybakup/appointment-service/pkg/dbmetrics"
	"github.com/mybakup/appointment-service/pkg/psqlbuilder"
)

const (
	tableName = "appointment_requests"

	// uniqueViolation код ошибки PostgreSQL для нарушения UNIQUE
	uniqueViolation = "23505"
)

var requestColumns = []string{
	"id",
	"wizard_id",
	"user_id",
	"doctor_id",
	"doctor_name",
	"patient_name",
	"for_self",
	"beneficiary_id",
	"slots",
	"proposed_slots",
	"location_type",
	"address",
	"complement",
	"pathology_type",
	"is_first_visit",
	"status",
	"created_at",
	"updated_at",
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Repository репозиторий заявок на прием
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет заявку, созданную из подтверждения мастера
// Повторная заявка для той же сессии возвращает ErrDuplicateWizard
func (r *Repository) Create(ctx context.Context, req *domain.AppointmentRequest) (*domain.AppointmentRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"wizard_id",
			"user_id",
			"doctor_id",
			"doctor_name",
			"patient_name",
			"for_self",
			"beneficiary_id",
			"slots",
			"location_type",
			"address",
			"complement",
			"pathology_type",
			"is_first_visit",
			"status",
		).
		Values(
			req.WizardID,
			req.UserID,
			req.DoctorID,
			req.DoctorName,
			req.PatientName,
			req.ForSelf,
			req.BeneficiaryID,
			pq.Array(slotsToStrings(req.Slots)),
			req.LocationType,
			req.Address,
			req.Complement,
			req.PathologyType,
			req.IsFirstVisit,
			req.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&req.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateWizard
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	req.CreatedAt = createdAt.Time
	req.UpdatedAt = updatedAt.Time

	return req, nil
}

// GetByID получает заявку по ID
// Внутри транзакции строка блокируется (FOR UPDATE) до смены статуса
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.AppointmentRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(requestColumns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	req, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan request: %v", ErrScanRow, err)
	}

	return req, nil
}

// GetByWizardID получает заявку, созданную из сессии мастера
func (r *Repository) GetByWizardID(ctx context.Context, wizardID string) (*domain.AppointmentRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(requestColumns...).
		From(tableName).
		Where(squirrel.Eq{"wizard_id": wizardID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByWizardID - build select query: %v", ErrBuildQuery, err)
	}

	req, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByWizardID - scan request: %v", ErrScanRow, err)
	}

	return req, nil
}

// GetByDoctorWithFilter получает заявки врача
// Без фильтра по статусу возвращаются только активные заявки (ожидают решения или в работе)
func (r *Repository) GetByDoctorWithFilter(ctx context.Context, filter domain.DoctorRequestsFilter) ([]*domain.AppointmentRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(requestColumns...).
		From(tableName).
		Where(squirrel.Eq{"doctor_id": filter.DoctorID})

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else {
		active := make([]string, len(domain.ActiveRequestStatuses))
		for i, s := range domain.ActiveRequestStatuses {
			active[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": active})
	}

	query, args, err := selectBuilder.OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctorWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctorWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanRequests(rows)
}

// UpdateStatus обновляет статус заявки
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRequestNotFound
	}

	return nil
}

// UpdateProposal сохраняет предложенные врачом слоты вместе с новым статусом
func (r *Repository) UpdateProposal(ctx context.Context, id int64, status domain.RequestStatus, slots []domain.RequestedSlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("proposed_slots", pq.Array(slotsToStrings(slots))).
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateProposal - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateProposal - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateProposal - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRequestNotFound
	}

	return nil
}

// scanRequests сканирует результаты запроса в слайс заявок
func (r *Repository) scanRequests(rows *sql.Rows) ([]*domain.AppointmentRequest, error) {
	requests := make([]*domain.AppointmentRequest, 0)

	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanRequests - scan row: %v", ErrScanRow, err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRequests - rows error: %v", ErrScanRow, err)
	}

	return requests, nil
}

func scanRequest(row rowScanner) (*domain.AppointmentRequest, error) {
	var req domain.AppointmentRequest
	var slots, proposed []string
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.WizardID,
		&req.UserID,
		&req.DoctorID,
		&req.DoctorName,
		&req.PatientName,
		&req.ForSelf,
		&req.BeneficiaryID,
		pq.Array(&slots),
		pq.Array(&proposed),
		&req.LocationType,
		&req.Address,
		&req.Complement,
		&req.PathologyType,
		&req.IsFirstVisit,
		&req.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.Slots, err = stringsToSlots(slots)
	if err != nil {
		return nil, err
	}
	req.ProposedSlots, err = stringsToSlots(proposed)
	if err != nil {
		return nil, err
	}
	req.CreatedAt = createdAt.Time
	req.UpdatedAt = updatedAt.Time

	return &req, nil
}

func slotsToStrings(slots []domain.RequestedSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}

func stringsToSlots(values []string) ([]domain.RequestedSlot, error) {
	out := make([]domain.RequestedSlot, 0, len(values))
	for _, v := range values {
		slot, err := domain.ParseRequestedSlot(v)
		if err != nil {
			return nil, err
		}
		out = append(out, slot)
	}
	return out, nil
}
