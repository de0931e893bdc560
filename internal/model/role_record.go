package model

import (
	"time"

	"github.com/google/uuid"
)

// TutorRecord профиль репетитора, не более одного на аккаунт
type TutorRecord struct {
	ID        uuid.UUID  `json:"id"`
	AccountID uuid.UUID  `json:"account_id"`
	Subjects  SubjectSet `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
}

// StudentRecord профиль ученика, симметричен TutorRecord
type StudentRecord struct {
	ID        uuid.UUID  `json:"id"`
	AccountID uuid.UUID  `json:"account_id"`
	Subjects  SubjectSet `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
}

// Roles ролевые записи аккаунта. Отсутствие записи означает, что аккаунт
// не выбрал эту роль, и ошибкой не является.
type Roles struct {
	Student *StudentRecord
	Tutor   *TutorRecord
}

func (r Roles) IsStudent() bool {
	return r.Student != nil
}

func (r Roles) IsTutor() bool {
	return r.Tutor != nil
}

// TutorListing репетитор в выдаче по предмету
type TutorListing struct {
	TutorRecordID uuid.UUID `json:"id"`
	AccountID     uuid.UUID `json:"account_id"`
	DisplayName   string    `json:"name"`
	Email         string    `json:"email"`
	Year          int       `json:"year"`
	Department    string    `json:"department"`
}
