package repository

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/Freeeeeet/tutoring_hub/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sessionColumns = `sr.id, sr.conversation_id, sr.student_record_id, sr.tutor_record_id, sr.proposer_account_id,
	sr.subject_name, sr.subject_department, sr.subject_year, sr.scheduled_at, sr.duration_minutes,
	sr.status, sr.responded_by, sr.responded_at, sr.reminded_at, sr.created_at, sr.updated_at`

// SessionRepository хранит предложения занятий. Строки никогда не удаляются.
type SessionRepository struct {
	*base.Repository
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{Repository: base.NewRepository(pool)}
}

func scanSession(row pgx.Row, extra ...any) (*model.SessionRequest, error) {
	var req model.SessionRequest
	dest := []any{
		&req.ID,
		&req.ConversationID,
		&req.StudentRecordID,
		&req.TutorRecordID,
		&req.ProposerAccountID,
		&req.Subject.Name,
		&req.Subject.Department,
		&req.Subject.Year,
		&req.ScheduledAt,
		&req.DurationMinutes,
		&req.Status,
		&req.RespondedBy,
		&req.RespondedAt,
		&req.RemindedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &req, nil
}

// Create создаёт новое предложение занятия
func (r *SessionRepository) Create(ctx context.Context, req *model.SessionRequest) error {
	query := `
		INSERT INTO session_requests AS sr (
			conversation_id, student_record_id, tutor_record_id, proposer_account_id,
			subject_name, subject_department, subject_year, scheduled_at, duration_minutes, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING sr.id, sr.created_at, sr.updated_at
	`

	err := r.QueryRow(
		ctx, query,
		req.ConversationID,
		req.StudentRecordID,
		req.TutorRecordID,
		req.ProposerAccountID,
		req.Subject.Name,
		req.Subject.Department,
		req.Subject.Year,
		req.ScheduledAt,
		req.DurationMinutes,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		if base.IsForeignKeyViolation(err) {
			return base.Wrap("create session request", model.ErrNotFound)
		}
		return base.Wrap("create session request", err)
	}

	return nil
}

// GetByID получает предложение по ID
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SessionRequest, error) {
	query := `SELECT ` + sessionColumns + ` FROM session_requests sr WHERE sr.id = $1`

	req, err := scanSession(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Wrap("get session request by id", err)
	}

	return req, nil
}

// ListByRecords предложения между учеником и репетитором по возрастанию даты занятия
func (r *SessionRepository) ListByRecords(ctx context.Context, studentRecordID, tutorRecordID uuid.UUID) ([]*model.SessionRequest, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM session_requests sr
		WHERE sr.student_record_id = $1 AND sr.tutor_record_id = $2
		ORDER BY sr.scheduled_at ASC, sr.created_at ASC
	`

	rows, err := r.Query(ctx, query, studentRecordID, tutorRecordID)
	if err != nil {
		return nil, base.Wrap("list session requests", err)
	}
	defer rows.Close()

	requests := []*model.SessionRequest{}
	for rows.Next() {
		req, err := scanSession(rows)
		if err != nil {
			return nil, base.Wrap("scan session request", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, base.Wrap("iterate session requests", err)
	}

	return requests, nil
}

// TransitionFromPending переводит предложение из pending в конечный статус.
// Обновление условное (compare-and-swap по статусу): если строка уже не pending,
// возвращается nil без ошибки.
func (r *SessionRepository) TransitionFromPending(ctx context.Context, id uuid.UUID, status model.SessionStatus, responderID uuid.UUID) (*model.SessionRequest, error) {
	query := `
		UPDATE session_requests AS sr
		SET status = $1, responded_by = $2, responded_at = now(), updated_at = now()
		WHERE sr.id = $3 AND sr.status = 'pending'
		RETURNING ` + sessionColumns

	req, err := scanSession(r.QueryRow(ctx, query, status, responderID, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Wrap("transition session request", err)
	}

	return req, nil
}

// DueForReminder принятые занятия в окне [from, to], о которых ещё не напоминали
func (r *SessionRepository) DueForReminder(ctx context.Context, from, to time.Time) ([]model.SessionReminder, error) {
	query := `
		SELECT ` + sessionColumns + `, c.student_account_id, c.tutor_account_id
		FROM session_requests sr
		JOIN conversations c ON c.id = sr.conversation_id
		WHERE sr.status = 'accepted' AND sr.reminded_at IS NULL
		  AND sr.scheduled_at BETWEEN $1 AND $2
		ORDER BY sr.scheduled_at ASC
	`

	rows, err := r.Query(ctx, query, from, to)
	if err != nil {
		return nil, base.Wrap("get sessions due for reminder", err)
	}
	defer rows.Close()

	reminders := []model.SessionReminder{}
	for rows.Next() {
		var reminder model.SessionReminder
		req, err := scanSession(rows, &reminder.StudentAccountID, &reminder.TutorAccountID)
		if err != nil {
			return nil, base.Wrap("scan session reminder", err)
		}
		reminder.Request = req
		reminders = append(reminders, reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, base.Wrap("iterate session reminders", err)
	}

	return reminders, nil
}

// MarkReminded отмечает, что напоминание отправлено
func (r *SessionRepository) MarkReminded(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE session_requests SET reminded_at = now() WHERE id = $1 AND reminded_at IS NULL`

	if _, err := r.ExecAffected(ctx, query, id); err != nil {
		return base.Wrap("mark session reminded", err)
	}

	return nil
}
