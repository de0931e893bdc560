package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutoring_hub/internal/ctxutil"
	"github.com/Freeeeeet/tutoring_hub/internal/observability"
)

const maxBodySize = 1 << 20

func (s *Server) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("JSON encode failed", zap.Error(err))
	}
}

// writeError отвечает ошибкой сервиса; 5xx логируются и уходят в Sentry
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	errResp := fromError(err)
	if errResp.StatusCode >= http.StatusInternalServerError {
		s.log.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		observability.CaptureErr(err)
	}
	s.writeJson(w, errResp.StatusCode, errResp)
}

func (s *Server) badRequest(w http.ResponseWriter) {
	errResp := NewBadRequestError()
	s.writeJson(w, errResp.StatusCode, errResp)
}

func decodeJson(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(v)
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func accountID(ctx context.Context) uuid.UUID {
	id, _ := ctxutil.AccountID(ctx)
	return id
}

// dbContext запрос к хранилищу с таймаутом БД
func dbContext(r *http.Request) (context.Context, context.CancelFunc) {
	return ctxutil.WithDBTimeout(r.Context())
}
