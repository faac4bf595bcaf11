package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/iam-sarthakdev/MockMate-AI/internal/calls"
	"github.com/iam-sarthakdev/MockMate-AI/internal/middleware"
	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
	"github.com/iam-sarthakdev/MockMate-AI/internal/utils"
)

// RemoteSnapshots looks up sessions held by other instances.
type RemoteSnapshots interface {
	Snapshot(ctx context.Context, sessionID string) (*calls.Snapshot, error)
}

type CallHandler struct {
	manager  *calls.Manager
	remote   RemoteSnapshots // nil when running a single instance
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewCallHandler(manager *calls.Manager, remote RemoteSnapshots, allowedOrigins []string, logger *zap.Logger) *CallHandler {
	return &CallHandler{
		manager: manager,
		remote:  remote,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

// allows same-origin requests and the configured web origins; "*" allows all
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

func (h *CallHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	req := middleware.GetValidatedRequest[*models.CreateCallRequest](r)

	session, err := h.manager.Create(r.Context(), calls.Owner{UserID: user.UserID, Name: user.Name}, req)
	if err != nil {
		var live *calls.LiveSessionError
		if errors.As(err, &live) {
			utils.JSON(w, http.StatusConflict, map[string]any{
				"success":   false,
				"sessionId": live.SessionID,
				"error":     models.ErrorResponse{Code: "call_in_progress", Message: "A call is already in progress"},
			})
			return
		}
		utils.Failure(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]any{"success": true, "data": session.Snapshot()})
}

func (h *CallHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	session, err := h.manager.Get(id, user.UserID)
	if err != nil {
		if snap, ok := h.remoteSnapshot(w, r, id, user.UserID, err); ok {
			utils.JSON(w, http.StatusOK, map[string]any{"success": true, "remote": true, "data": snap})
		}
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "data": session.Snapshot()})
}

func (h *CallHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, calls.Event{Type: calls.EventStart})
}

func (h *CallHandler) DisconnectHandler(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, calls.Event{Type: calls.EventDisconnect})
}

// EventsHandler accepts voice collaborator events over plain HTTP, for
// clients that do not keep the bridge socket open.
func (h *CallHandler) EventsHandler(w http.ResponseWriter, r *http.Request) {
	var ev calls.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid_json", "Invalid JSON in request body")
		return
	}
	switch ev.Type {
	case calls.EventCallStart, calls.EventCallEnd, calls.EventMessage,
		calls.EventSpeechStart, calls.EventSpeechEnd, calls.EventError:
	default:
		utils.Error(w, http.StatusBadRequest, "invalid_event", "unsupported event type: "+string(ev.Type))
		return
	}
	h.dispatch(w, r, ev)
}

// SocketHandler upgrades to the bridge websocket for one session.
func (h *CallHandler) SocketHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	session, err := h.manager.Get(id, user.UserID)
	if err != nil {
		if _, ok := h.remoteSnapshot(w, r, id, user.UserID, err); ok {
			writeOnOtherInstance(w)
		}
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.String("session_id", session.ID()), zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Info("Call bridge connected", zap.String("session_id", session.ID()), zap.String("user_id", user.UserID))
	if err := calls.NewBridge(conn, h.logger).Serve(r.Context(), session); err != nil {
		h.logger.Debug("Call bridge closed", zap.String("session_id", session.ID()), zap.Error(err))
	}
}

func (h *CallHandler) dispatch(w http.ResponseWriter, r *http.Request, ev calls.Event) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	snap, err := h.manager.Dispatch(r.Context(), id, user.UserID, ev)
	if err != nil {
		if _, ok := h.remoteSnapshot(w, r, id, user.UserID, err); ok {
			writeOnOtherInstance(w)
		}
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "data": snap})
}

// remoteSnapshot resolves a local lookup miss against the sessions other
// instances published. It writes the error response itself and reports false
// unless the session is found remotely and belongs to userID.
func (h *CallHandler) remoteSnapshot(w http.ResponseWriter, r *http.Request, id, userID string, err error) (*calls.Snapshot, bool) {
	if !errors.Is(err, calls.ErrSessionNotFound) || h.remote == nil {
		h.writeCallError(w, err)
		return nil, false
	}
	snap, rerr := h.remote.Snapshot(r.Context(), id)
	if rerr != nil {
		h.writeCallError(w, err)
		return nil, false
	}
	if snap.UserID != userID {
		h.writeCallError(w, calls.ErrForbidden)
		return nil, false
	}
	return snap, true
}

func writeOnOtherInstance(w http.ResponseWriter) {
	utils.Error(w, http.StatusConflict, "session_on_other_instance", "the call session is served by another instance")
}

func (h *CallHandler) writeCallError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calls.ErrSessionNotFound):
		utils.Error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, calls.ErrForbidden):
		utils.Error(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, calls.ErrCallInProgress), errors.Is(err, calls.ErrSessionFinished):
		utils.Error(w, http.StatusConflict, "invalid_state", err.Error())
	default:
		utils.Failure(w, err)
	}
}
