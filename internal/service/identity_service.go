package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdentityService роли аккаунта и каталог предметов
type IdentityService struct {
	accounts AccountStore
	roles    RoleStore
	subjects SubjectCatalog
	logger   *zap.Logger
}

func NewIdentityService(accounts AccountStore, roles RoleStore, subjects SubjectCatalog, logger *zap.Logger) *IdentityService {
	return &IdentityService{
		accounts: accounts,
		roles:    roles,
		subjects: subjects,
		logger:   logger,
	}
}

// Resolve возвращает ролевые записи аккаунта. Отсутствие записи ошибкой не является.
func (s *IdentityService) Resolve(ctx context.Context, accountID uuid.UUID) (model.Roles, error) {
	student, err := s.roles.GetStudentByAccount(ctx, accountID)
	if err != nil {
		return model.Roles{}, fmt.Errorf("get student record: %w", err)
	}

	tutor, err := s.roles.GetTutorByAccount(ctx, accountID)
	if err != nil {
		return model.Roles{}, fmt.Errorf("get tutor record: %w", err)
	}

	return model.Roles{Student: student, Tutor: tutor}, nil
}

// RegisterAsTutor создаёт или обновляет профиль репетитора.
// Предметы не должны пересекаться с запрошенными как ученик.
func (s *IdentityService) RegisterAsTutor(ctx context.Context, accountID uuid.UUID, subjects []model.Subject) (*model.TutorRecord, error) {
	set, err := s.prepareSubjects(ctx, accountID, subjects)
	if err != nil {
		return nil, err
	}

	student, err := s.roles.GetStudentByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get student record: %w", err)
	}
	if student != nil {
		if overlap := set.Intersect(student.Subjects); overlap.Len() > 0 {
			return nil, fmt.Errorf("%w: cannot tutor subjects requested as student: %v", model.ErrValidation, overlap.Slice())
		}
	}

	record, err := s.roles.UpsertTutor(ctx, accountID, set)
	if err != nil {
		return nil, fmt.Errorf("upsert tutor record: %w", err)
	}

	s.logger.Info("Tutor record saved",
		zap.String("account_id", accountID.String()),
		zap.Int("subjects", set.Len()))

	return record, nil
}

// RegisterAsStudent создаёт или обновляет профиль ученика
func (s *IdentityService) RegisterAsStudent(ctx context.Context, accountID uuid.UUID, subjects []model.Subject) (*model.StudentRecord, error) {
	set, err := s.prepareSubjects(ctx, accountID, subjects)
	if err != nil {
		return nil, err
	}

	tutor, err := s.roles.GetTutorByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get tutor record: %w", err)
	}
	if tutor != nil {
		if overlap := set.Intersect(tutor.Subjects); overlap.Len() > 0 {
			return nil, fmt.Errorf("%w: cannot request subjects tutored: %v", model.ErrValidation, overlap.Slice())
		}
	}

	record, err := s.roles.UpsertStudent(ctx, accountID, set)
	if err != nil {
		return nil, fmt.Errorf("upsert student record: %w", err)
	}

	s.logger.Info("Student record saved",
		zap.String("account_id", accountID.String()),
		zap.Int("subjects", set.Len()))

	return record, nil
}

func (s *IdentityService) prepareSubjects(ctx context.Context, accountID uuid.UUID, subjects []model.Subject) (model.SubjectSet, error) {
	for _, subject := range subjects {
		if err := validateStruct(subject); err != nil {
			return nil, err
		}
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account %s", model.ErrNotFound, accountID)
	}

	return model.NewSubjectSet(subjects...), nil
}

// AvailableSubjects предметы, которые может вести студент данного курса и департамента:
// все курсы до текущего включительно, свой департамент и общий цикл STPI
func (s *IdentityService) AvailableSubjects(ctx context.Context, department string, year int) ([]model.Subject, error) {
	if year < 1 {
		return nil, fmt.Errorf("%w: year must be positive", model.ErrValidation)
	}

	subjects, err := s.subjects.Available(ctx, department, year)
	if err != nil {
		return nil, fmt.Errorf("get available subjects: %w", err)
	}

	return subjects, nil
}

// StudentSubjects предметы, по которым аккаунт может искать репетитора.
// 1-2 курс: STPI своего курса, на 2-м курсе плюс предметы департамента предориентации.
// С 3-го курса: свой департамент и курс. Предметы, которые аккаунт ведёт сам, исключаются.
func (s *IdentityService) StudentSubjects(ctx context.Context, accountID uuid.UUID) ([]model.Subject, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account %s", model.ErrNotFound, accountID)
	}

	var subjects []model.Subject
	if account.Year <= 2 {
		subjects, err = s.subjects.ByDepartmentYear(ctx, model.DepartmentSTPI, account.Year)
		if err != nil {
			return nil, fmt.Errorf("get stpi subjects: %w", err)
		}

		if account.Year == 2 && account.Preorientation != nil && *account.Preorientation != "" {
			extra, err := s.subjects.ByDepartmentYear(ctx, *account.Preorientation, account.Year)
			if err != nil {
				return nil, fmt.Errorf("get preorientation subjects: %w", err)
			}
			subjects = append(subjects, extra...)
		}
	} else {
		subjects, err = s.subjects.ByDepartmentYear(ctx, account.Department, account.Year)
		if err != nil {
			return nil, fmt.Errorf("get department subjects: %w", err)
		}
	}

	set := model.NewSubjectSet(subjects...)

	tutor, err := s.roles.GetTutorByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get tutor record: %w", err)
	}
	if tutor != nil {
		set = set.Without(tutor.Subjects)
	}

	return set.Slice(), nil
}

// TutorsForSubject репетиторы, ведущие предмет
func (s *IdentityService) TutorsForSubject(ctx context.Context, subject model.Subject) ([]model.TutorListing, error) {
	if err := validateStruct(subject); err != nil {
		return nil, err
	}

	tutors, err := s.roles.TutorsForSubject(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("get tutors for subject: %w", err)
	}

	return tutors, nil
}
