package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/alem-hub/roster-hub/internal/application/dispatch"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot lists the available commands and routes.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"name":     "roster-hub",
		"version":  s.config.Version,
		"commands": s.deps.Dispatcher.Commands(),
		"endpoints": map[string]string{
			"invoke":  "POST /invoke/{command}",
			"profile": "/api/v1/profile",
			"friends": "/api/v1/friends",
			"health":  "/health",
		},
	})
}

// handleHealth reports uptime, roster size and event counters.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": s.config.Version,
	}
	if s.deps.Store != nil {
		status["friends"] = s.deps.Store.Len()
	}
	if s.deps.Events != nil {
		status["events"] = s.deps.Events.Metrics().Snapshot()
	}
	s.writeJSON(w, r, http.StatusOK, status)
}

// handleLive handles the liveness probe.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMAND HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleInvoke runs a named command with the request body as its arguments.
func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	s.invoke(w, r, r.PathValue("command"), body)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.invoke(w, r, dispatch.CmdGetProfile, nil)
}

func (s *Server) handleSetProfileName(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	s.invoke(w, r, dispatch.CmdSetProfileName, body)
}

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	s.invoke(w, r, dispatch.CmdListRosterPartitioned, nil)
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	s.invokeWithStatus(w, r, dispatch.CmdAddFriend, body, http.StatusCreated)
}

// handleUpdateFriend takes the email from the path and the patch from the body.
func (s *Server) handleUpdateFriend(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	fields := map[string]json.RawMessage{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &fields); err != nil {
			writeJSONError(w, r, http.StatusBadRequest, string(dispatch.CodeInvalidInput), "request body must be a JSON object")
			return
		}
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}

	email, err := json.Marshal(r.PathValue("email"))
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, string(dispatch.CodeInvalidInput), "invalid email")
		return
	}
	fields["email"] = email

	args, err := json.Marshal(fields)
	if err != nil {
		writeJSONError(w, r, http.StatusInternalServerError, string(dispatch.CodeInternal), err.Error())
		return
	}
	s.invoke(w, r, dispatch.CmdUpdateFriend, args)
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) invoke(w http.ResponseWriter, r *http.Request, command string, args []byte) {
	s.invokeWithStatus(w, r, command, args, http.StatusOK)
}

func (s *Server) invokeWithStatus(w http.ResponseWriter, r *http.Request, command string, args []byte, status int) {
	result, err := s.deps.Dispatcher.Invoke(r.Context(), command, args)
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}
	s.writeJSON(w, r, status, result)
}

// readBody reads the request body up to MaxBodyBytes. It writes the error
// response itself and reports false on failure.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, r, http.StatusRequestEntityTooLarge, string(dispatch.CodeInvalidInput), "request body too large")
			return nil, false
		}
		writeJSONError(w, r, http.StatusBadRequest, string(dispatch.CodeInvalidInput), "failed to read request body")
		return nil, false
	}
	return body, true
}
