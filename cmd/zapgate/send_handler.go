package main

import (
	"encoding/json"
	"net/http"

	"zapgate/internal/errors"
	"zapgate/internal/models"
	"zapgate/internal/tracing"

	"github.com/sirupsen/logrus"
)

// handleSend accepts {"number": "...", "message": "..."} and relays the
// message. The response and error bodies follow the wire contract of the
// original deployment.
func (s *Server) handleSend() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxSendBodyBytes)

		var req models.SendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, errMsgInvalidInput)
			return
		}
		if req.Number == "" || req.Message == "" {
			s.writeError(w, http.StatusBadRequest, errMsgInvalidInput)
			return
		}

		resp, err := s.gateway.SendText(r.Context(), req)
		if err != nil {
			s.handleSendError(w, r, err)
			return
		}

		s.writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleSendError(w http.ResponseWriter, r *http.Request, err error) {
	requestInfo := tracing.GetRequestInfo(r.Context())

	switch errors.GetCode(err) {
	case errors.ErrCodeNotReady:
		s.writeError(w, http.StatusServiceUnavailable, errMsgNotReady)
	case errors.ErrCodeInvalidInput:
		s.writeError(w, http.StatusBadRequest, errMsgInvalidInput)
	default:
		s.logger.WithFields(logrus.Fields{
			"request_id": requestInfo.RequestID,
			"trace_id":   requestInfo.TraceID,
			"error":      err,
		}).Error("Send request failed")
		s.writeError(w, http.StatusInternalServerError, errors.CauseMessage(err))
	}
}
