package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/tutoring_hub/internal/metrics"
	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/Freeeeeet/tutoring_hub/internal/service"
	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token   string         `json:"token"`
	Account *model.Account `json:"account"`
}

type SubjectsRequest struct {
	Subjects []model.Subject `json:"subjects"`
}

// TelegramRequest код из /start бота; null отвязывает чат
type TelegramRequest struct {
	Code *string `json:"code"`
}

type RoleView struct {
	ID       uuid.UUID       `json:"id"`
	Subjects []model.Subject `json:"subjects"`
}

type MeResponse struct {
	Account *model.Account `json:"account"`
	Student *RoleView      `json:"student,omitempty"`
	Tutor   *RoleView      `json:"tutor,omitempty"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := decodeJson(w, r, &req); err != nil {
		s.badRequest(w)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	account, err := s.Accounts.Register(ctx, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.issueToken(w, r, http.StatusCreated, account)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJson(w, r, &req); err != nil {
		s.badRequest(w)
		return
	}

	if req.Email == "" || req.Password == "" {
		s.badRequest(w)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	account, err := s.Accounts.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.issueToken(w, r, http.StatusOK, account)
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, status int, account *model.Account) {
	token, err := s.Tokens.Generate(account.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJson(w, status, AuthResponse{Token: token, Account: account})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	id := accountID(ctx)
	account, err := s.Accounts.Get(ctx, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	roles, err := s.Identity.Resolve(ctx, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := MeResponse{Account: account}
	if roles.Student != nil {
		resp.Student = &RoleView{ID: roles.Student.ID, Subjects: roles.Student.Subjects.Slice()}
	}
	if roles.Tutor != nil {
		resp.Tutor = &RoleView{ID: roles.Tutor.ID, Subjects: roles.Tutor.Subjects.Slice()}
	}

	s.writeJson(w, http.StatusOK, resp)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req service.ProfileInput
	if err := decodeJson(w, r, &req); err != nil {
		s.badRequest(w)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	account, err := s.Accounts.UpdateProfile(ctx, accountID(ctx), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, account)
}

func (s *Server) registerTutor(w http.ResponseWriter, r *http.Request) {
	var req SubjectsRequest
	if err := decodeJson(w, r, &req); err != nil {
		s.badRequest(w)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	record, err := s.Identity.RegisterAsTutor(ctx, accountID(ctx), req.Subjects)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, RoleView{ID: record.ID, Subjects: record.Subjects.Slice()})
}

func (s *Server) registerStudent(w http.ResponseWriter, r *http.Request) {
	var req SubjectsRequest
	if err := decodeJson(w, r, &req); err != nil {
		s.badRequest(w)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	record, err := s.Identity.RegisterAsStudent(ctx, accountID(ctx), req.Subjects)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, RoleView{ID: record.ID, Subjects: record.Subjects.Slice()})
}

func (s *Server) linkTelegram(w http.ResponseWriter, r *http.Request) {
	var req TelegramRequest
	if err := decodeJson(w, r, &req); err != nil {
		s.badRequest(w)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	if err := s.Accounts.LinkTelegram(ctx, accountID(ctx), req.Code); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) mySubjects(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	subjects, err := s.Identity.StudentSubjects(ctx, accountID(ctx))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, subjects)
}

func (s *Server) availableSubjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		s.badRequest(w)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	subjects, err := s.Identity.AvailableSubjects(ctx, q.Get("department"), year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, subjects)
}

func (s *Server) tutorsForSubject(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		s.badRequest(w)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	subject := model.Subject{Name: q.Get("name"), Department: q.Get("department"), Year: year}
	tutors, err := s.Identity.TutorsForSubject(ctx, subject)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, tutors)
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	start := time.Now()
	err := s.DB.Ping(ctx)
	metrics.ObserveDBPing(time.Since(start))
	if err != nil {
		s.log.Sugar().Warnw("Health check failed", "error", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
