package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/Freeeeeet/tutoring_hub/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// roleTables таблицы одной роли; схемы у ролей симметричны
type roleTables struct {
	records  string
	subjects string
	fk       string
}

var (
	tutorTables   = roleTables{records: "tutor_records", subjects: "tutor_subjects", fk: "tutor_record_id"}
	studentTables = roleTables{records: "student_records", subjects: "student_subjects", fk: "student_record_id"}
)

// RoleRepository хранит ролевые записи аккаунтов (репетитор / ученик) и их предметы
type RoleRepository struct {
	*base.Repository
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{Repository: base.NewRepository(pool)}
}

// GetTutorByAccount получает запись репетитора; nil если аккаунт не репетитор
func (r *RoleRepository) GetTutorByAccount(ctx context.Context, accountID uuid.UUID) (*model.TutorRecord, error) {
	id, createdAt, subjects, err := r.getByAccount(ctx, tutorTables, accountID)
	if err != nil || id == uuid.Nil {
		return nil, err
	}

	return &model.TutorRecord{ID: id, AccountID: accountID, Subjects: subjects, CreatedAt: createdAt}, nil
}

// GetStudentByAccount получает запись ученика; nil если аккаунт не ученик
func (r *RoleRepository) GetStudentByAccount(ctx context.Context, accountID uuid.UUID) (*model.StudentRecord, error) {
	id, createdAt, subjects, err := r.getByAccount(ctx, studentTables, accountID)
	if err != nil || id == uuid.Nil {
		return nil, err
	}

	return &model.StudentRecord{ID: id, AccountID: accountID, Subjects: subjects, CreatedAt: createdAt}, nil
}

// UpsertTutor создаёт или обновляет запись репетитора, заменяя набор предметов
func (r *RoleRepository) UpsertTutor(ctx context.Context, accountID uuid.UUID, subjects model.SubjectSet) (*model.TutorRecord, error) {
	if err := r.upsert(ctx, tutorTables, accountID, subjects); err != nil {
		return nil, err
	}
	return r.GetTutorByAccount(ctx, accountID)
}

// UpsertStudent создаёт или обновляет запись ученика, заменяя набор предметов
func (r *RoleRepository) UpsertStudent(ctx context.Context, accountID uuid.UUID, subjects model.SubjectSet) (*model.StudentRecord, error) {
	if err := r.upsert(ctx, studentTables, accountID, subjects); err != nil {
		return nil, err
	}
	return r.GetStudentByAccount(ctx, accountID)
}

// TutorsForSubject репетиторы, ведущие предмет
func (r *RoleRepository) TutorsForSubject(ctx context.Context, subject model.Subject) ([]model.TutorListing, error) {
	query := `
		SELECT t.id, t.account_id, a.display_name, a.email, a.year, a.department
		FROM tutor_records t
		JOIN accounts a ON a.id = t.account_id
		JOIN tutor_subjects ts ON ts.tutor_record_id = t.id
		JOIN subjects s ON s.id = ts.subject_id
		WHERE s.name = $1 AND s.department = $2 AND s.year = $3
		ORDER BY a.display_name
	`

	rows, err := r.Query(ctx, query, subject.Name, subject.Department, subject.Year)
	if err != nil {
		return nil, base.Wrap("get tutors for subject", err)
	}
	defer rows.Close()

	tutors := []model.TutorListing{}
	for rows.Next() {
		var t model.TutorListing
		if err := rows.Scan(&t.TutorRecordID, &t.AccountID, &t.DisplayName, &t.Email, &t.Year, &t.Department); err != nil {
			return nil, base.Wrap("scan tutor", err)
		}
		tutors = append(tutors, t)
	}

	if err := rows.Err(); err != nil {
		return nil, base.Wrap("iterate tutors", err)
	}

	return tutors, nil
}

func (r *RoleRepository) getByAccount(ctx context.Context, t roleTables, accountID uuid.UUID) (id uuid.UUID, createdAt time.Time, subjects model.SubjectSet, err error) {
	query := fmt.Sprintf(`SELECT id, created_at FROM %s WHERE account_id = $1`, t.records)

	err = r.QueryRow(ctx, query, accountID).Scan(&id, &createdAt)
	if err != nil {
		if base.IsNotFound(err) {
			return uuid.Nil, createdAt, nil, nil
		}
		return uuid.Nil, createdAt, nil, base.Wrap("get "+t.records+" by account", err)
	}

	subjects, err = r.subjectsOf(ctx, t, id)
	if err != nil {
		return uuid.Nil, createdAt, nil, err
	}

	return id, createdAt, subjects, nil
}

func (r *RoleRepository) subjectsOf(ctx context.Context, t roleTables, recordID uuid.UUID) (model.SubjectSet, error) {
	query := fmt.Sprintf(`
		SELECT s.name, s.department, s.year
		FROM %s rs
		JOIN subjects s ON s.id = rs.subject_id
		WHERE rs.%s = $1
	`, t.subjects, t.fk)

	rows, err := r.Query(ctx, query, recordID)
	if err != nil {
		return nil, base.Wrap("get "+t.subjects, err)
	}
	defer rows.Close()

	set := model.NewSubjectSet()
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.Name, &s.Department, &s.Year); err != nil {
			return nil, base.Wrap("scan subject", err)
		}
		set[s] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, base.Wrap("iterate "+t.subjects, err)
	}

	return set, nil
}

func (r *RoleRepository) upsert(ctx context.Context, t roleTables, accountID uuid.UUID, subjects model.SubjectSet) error {
	upsertRecord := fmt.Sprintf(`
		INSERT INTO %s (account_id) VALUES ($1)
		ON CONFLICT (account_id) DO UPDATE SET account_id = EXCLUDED.account_id
		RETURNING id
	`, t.records)
	clearSubjects := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.subjects, t.fk)
	addSubject := fmt.Sprintf(`
		INSERT INTO %s (%s, subject_id)
		SELECT $1, s.id FROM subjects s
		WHERE s.name = $2 AND s.department = $3 AND s.year = $4
	`, t.subjects, t.fk)

	err := r.InTx(ctx, func(tx pgx.Tx) error {
		var recordID uuid.UUID
		if err := tx.QueryRow(ctx, upsertRecord, accountID).Scan(&recordID); err != nil {
			if base.IsForeignKeyViolation(err) {
				return fmt.Errorf("account %s: %w", accountID, model.ErrNotFound)
			}
			return err
		}

		if _, err := tx.Exec(ctx, clearSubjects, recordID); err != nil {
			return err
		}

		for _, s := range subjects.Slice() {
			tag, err := tx.Exec(ctx, addSubject, recordID, s.Name, s.Department, s.Year)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("%w: unknown subject %s/%s/%d", model.ErrValidation, s.Name, s.Department, s.Year)
			}
		}

		return nil
	})

	return base.Wrap("upsert "+t.records, err)
}
