package httpapi

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/tutoring_hub/internal/model"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type CreateConversationRequest struct {
	StudentAccountID uuid.UUID `json:"student_account_id"`
	TutorAccountID   uuid.UUID `json:"tutor_account_id"`
	Subject          string    `json:"subject"`
}

type ConversationResponse struct {
	*model.Conversation
	OtherParty model.OtherParty `json:"other_party"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

type ProposeSessionRequest struct {
	Subject         model.Subject `json:"subject"`
	ScheduledAt     time.Time     `json:"scheduled_at"`
	DurationMinutes int           `json:"duration_minutes"`
}

type RespondSessionRequest struct {
	Accepted *bool `json:"accepted"`
}

func (s *Server) createConversation(w http.ResponseWriter, r *http.Request) {
	var req CreateConversationRequest
	if err := decodeJson(w, r, &req); err != nil {
		s.badRequest(w)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	caller := accountID(ctx)
	if caller != req.StudentAccountID && caller != req.TutorAccountID {
		errResp := fromError(model.ErrForbidden)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	conversation, err := s.Conversations.GetOrCreate(ctx, req.StudentAccountID, req.TutorAccountID, req.Subject)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	other, err := s.Conversations.ResolveOtherParty(ctx, conversation.ID, caller)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, ConversationResponse{Conversation: conversation, OtherParty: other})
}

func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	summaries, err := s.Conversations.ListForAccount(ctx, accountID(ctx))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, summaries)
}

func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.badRequest(w)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	caller := accountID(ctx)
	conversation, err := s.Conversations.GetForParty(ctx, id, caller)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	other, err := s.Conversations.ResolveOtherParty(ctx, id, caller)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, ConversationResponse{Conversation: conversation, OtherParty: other})
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.badRequest(w)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	if _, err := s.Conversations.GetForParty(ctx, id, accountID(ctx)); err != nil {
		s.writeError(w, r, err)
		return
	}

	messages, err := s.Messages.List(ctx, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, messages)
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.badRequest(w)
		return
	}

	var req SendMessageRequest
	if err := decodeJson(w, r, &req); err != nil {
		s.badRequest(w)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	msg, err := s.Messages.Send(ctx, id, accountID(ctx), req.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusCreated, msg)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.badRequest(w)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	viewer := accountID(ctx)
	if _, err := s.Conversations.GetForParty(ctx, id, viewer); err != nil {
		s.writeError(w, r, err)
		return
	}

	requests, err := s.Sessions.ListForConversation(ctx, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	views := lo.Map(requests, func(req *model.SessionRequest, _ int) model.SessionView {
		return model.ViewFor(req, viewer)
	})
	s.writeJson(w, http.StatusOK, views)
}

func (s *Server) proposeSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.badRequest(w)
		return
	}

	var req ProposeSessionRequest
	if err := decodeJson(w, r, &req); err != nil {
		s.badRequest(w)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	proposer := accountID(ctx)
	created, err := s.Sessions.Propose(ctx, id, proposer, req.Subject, req.ScheduledAt, req.DurationMinutes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusCreated, model.ViewFor(created, proposer))
}

func (s *Server) respondSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.badRequest(w)
		return
	}

	var req RespondSessionRequest
	if err := decodeJson(w, r, &req); err != nil || req.Accepted == nil {
		s.badRequest(w)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	resp, err := s.Sessions.Respond(ctx, id, accountID(ctx), *req.Accepted)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, resp)
}

func (s *Server) cancelSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.badRequest(w)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	resp, err := s.Sessions.Cancel(ctx, id, accountID(ctx))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJson(w, http.StatusOK, resp)
}
