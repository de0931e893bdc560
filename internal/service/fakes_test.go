package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/google/uuid"
)

// In-memory хранилища для сценарных тестов

type memConversations struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*model.Conversation
	pairs map[[2]uuid.UUID]uuid.UUID
}

func newMemConversations() *memConversations {
	return &memConversations{
		byID:  make(map[uuid.UUID]*model.Conversation),
		pairs: make(map[[2]uuid.UUID]uuid.UUID),
	}
}

func (m *memConversations) CreateIfAbsent(_ context.Context, studentAccountID, tutorAccountID uuid.UUID, subject *string) (*model.Conversation, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := [2]uuid.UUID{studentAccountID, tutorAccountID}
	if id, ok := m.pairs[key]; ok {
		c := *m.byID[id]
		return &c, false, nil
	}

	c := &model.Conversation{
		ID:               uuid.New(),
		StudentAccountID: studentAccountID,
		TutorAccountID:   tutorAccountID,
		Subject:          subject,
		CreatedAt:        time.Now(),
	}
	m.byID[c.ID] = c
	m.pairs[key] = c.ID
	out := *c
	return &out, true, nil
}

func (m *memConversations) GetByID(_ context.Context, id uuid.UUID) (*model.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (m *memConversations) ListSummaries(_ context.Context, accountID uuid.UUID) ([]model.ConversationSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	summaries := []model.ConversationSummary{}
	for _, c := range m.byID {
		if c.HasParty(accountID) {
			summaries = append(summaries, model.ConversationSummary{
				ID:         c.ID,
				Subject:    c.SubjectLabel(),
				OtherParty: model.OtherParty{AccountID: c.CounterpartOf(accountID)},
				CreatedAt:  c.CreatedAt,
			})
		}
	}
	return summaries, nil
}

type memMessages struct {
	mu       sync.Mutex
	messages []*model.Message
	last     time.Time
}

func (m *memMessages) Create(_ context.Context, msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if !now.After(m.last) {
		now = m.last.Add(time.Microsecond)
	}
	m.last = now

	msg.ID = uuid.New()
	msg.CreatedAt = now
	stored := *msg
	m.messages = append(m.messages, &stored)
	return nil
}

func (m *memMessages) ListByConversation(_ context.Context, conversationID uuid.UUID) ([]*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*model.Message{}
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			c := *msg
			out = append(out, &c)
		}
	}
	return out, nil
}

type memSessions struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*model.SessionRequest
}

func newMemSessions() *memSessions {
	return &memSessions{requests: make(map[uuid.UUID]*model.SessionRequest)}
}

func (m *memSessions) Create(_ context.Context, req *model.SessionRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	stored := *req
	m.requests[req.ID] = &stored
	return nil
}

func (m *memSessions) GetByID(_ context.Context, id uuid.UUID) (*model.SessionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	out := *req
	return &out, nil
}

func (m *memSessions) ListByRecords(_ context.Context, studentRecordID, tutorRecordID uuid.UUID) ([]*model.SessionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*model.SessionRequest{}
	for _, req := range m.requests {
		if req.StudentRecordID == studentRecordID && req.TutorRecordID == tutorRecordID {
			c := *req
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (m *memSessions) TransitionFromPending(_ context.Context, id uuid.UUID, status model.SessionStatus, responderID uuid.UUID) (*model.SessionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.requests[id]
	if !ok || !req.IsPending() {
		return nil, nil
	}
	now := time.Now()
	req.Status = status
	req.RespondedBy = &responderID
	req.RespondedAt = &now
	req.UpdatedAt = now
	out := *req
	return &out, nil
}

func (m *memSessions) DueForReminder(_ context.Context, from, to time.Time) ([]model.SessionReminder, error) {
	return []model.SessionReminder{}, nil
}

func (m *memSessions) MarkReminded(_ context.Context, id uuid.UUID) error {
	return nil
}

type memRoles struct {
	students map[uuid.UUID]*model.StudentRecord
	tutors   map[uuid.UUID]*model.TutorRecord
}

func newMemRoles() *memRoles {
	return &memRoles{
		students: make(map[uuid.UUID]*model.StudentRecord),
		tutors:   make(map[uuid.UUID]*model.TutorRecord),
	}
}

func (m *memRoles) addStudent(accountID uuid.UUID, subjects ...model.Subject) *model.StudentRecord {
	rec := &model.StudentRecord{ID: uuid.New(), AccountID: accountID, Subjects: model.NewSubjectSet(subjects...)}
	m.students[accountID] = rec
	return rec
}

func (m *memRoles) addTutor(accountID uuid.UUID, subjects ...model.Subject) *model.TutorRecord {
	rec := &model.TutorRecord{ID: uuid.New(), AccountID: accountID, Subjects: model.NewSubjectSet(subjects...)}
	m.tutors[accountID] = rec
	return rec
}

func (m *memRoles) GetTutorByAccount(_ context.Context, accountID uuid.UUID) (*model.TutorRecord, error) {
	return m.tutors[accountID], nil
}

func (m *memRoles) GetStudentByAccount(_ context.Context, accountID uuid.UUID) (*model.StudentRecord, error) {
	return m.students[accountID], nil
}

func (m *memRoles) UpsertTutor(_ context.Context, accountID uuid.UUID, subjects model.SubjectSet) (*model.TutorRecord, error) {
	rec := m.addTutor(accountID)
	rec.Subjects = subjects
	return rec, nil
}

func (m *memRoles) UpsertStudent(_ context.Context, accountID uuid.UUID, subjects model.SubjectSet) (*model.StudentRecord, error) {
	rec := m.addStudent(accountID)
	rec.Subjects = subjects
	return rec, nil
}

func (m *memRoles) TutorsForSubject(context.Context, model.Subject) ([]model.TutorListing, error) {
	return []model.TutorListing{}, nil
}
