package handler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ugaemi/mosquito-server/internal/room"
	"github.com/ugaemi/mosquito-server/internal/ws"
)

// Router dispatches incoming messages to the appropriate handler.
type Router struct {
	lobby    *LobbyHandler
	gameplay *GameplayHandler
	join     *JoinTimeout

	// memberMap tracks client ID -> member ID mapping, shared across handlers.
	memberMap map[string]string
	// joinTimers holds pending join timeouts by client ID.
	joinTimers map[string]*time.Timer
	mu         sync.RWMutex
}

// NewRouter creates a new message router.
func NewRouter(rm *room.Manager) *Router {
	r := &Router{
		memberMap:  make(map[string]string),
		joinTimers: make(map[string]*time.Timer),
	}
	r.lobby = NewLobbyHandler(rm, r)
	r.gameplay = NewGameplayHandler(rm, r)
	r.join = NewJoinTimeout(r, defaultJoinTimeout)
	return r
}

// SetJoinTimeout changes how long a new connection may stay outside a room.
func (r *Router) SetJoinTimeout(d time.Duration) {
	if d > 0 {
		r.join.timeout = d
	}
}

// RegisterMember maps a client ID to a member ID and cancels its join timeout.
func (r *Router) RegisterMember(clientID, memberID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memberMap[clientID] = memberID
	r.stopJoinTimerLocked(clientID)
}

// UnregisterMember removes a client's member mapping.
func (r *Router) UnregisterMember(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.memberMap, clientID)
}

// GetMemberID returns the member ID for a client, or empty string if not found.
func (r *Router) GetMemberID(clientID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.memberMap[clientID]
}

// HandleMessage parses and routes an incoming client message.
func (r *Router) HandleMessage(cm *ws.ClientMessage) {
	msg, err := ws.DecodeMessage(cm.Data, cm.Binary)
	if err != nil {
		slog.Warn("invalid message format", "client", cm.Client.ID, "binary", cm.Binary, "error", err)
		cm.Client.SendMessage(ws.NewErrorMessage("invalid message format"))
		return
	}

	switch msg.Type {
	// Lobby messages
	case ws.TypeCreateRoom:
		r.lobby.HandleCreateRoom(cm.Client, msg)
	case ws.TypeJoinRoom:
		r.lobby.HandleJoinRoom(cm.Client, msg)
	case ws.TypeLeaveRoom:
		r.lobby.HandleLeaveRoom(cm.Client, msg)

	// Gameplay messages
	case ws.TypePlayerInput:
		r.gameplay.HandlePlayerInput(cm.Client, msg)
	case ws.TypeInfect:
		r.gameplay.HandleInfect(cm.Client, msg)
	case ws.TypeNewGame:
		r.gameplay.HandleNewGame(cm.Client, msg)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", cm.Client.ID)
		cm.Client.SendMessage(ws.NewErrorMessage("unknown message type: " + msg.Type))
	}
}

// HandleDisconnect handles client disconnection.
func (r *Router) HandleDisconnect(client *ws.Client) {
	r.mu.Lock()
	r.stopJoinTimerLocked(client.ID)
	r.mu.Unlock()

	r.lobby.HandleDisconnect(client)
}

// StartJoinTimeout starts the room-join timeout for a new client.
func (r *Router) StartJoinTimeout(client *ws.Client) {
	timer := r.join.Start(client)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopJoinTimerLocked(client.ID)
	r.joinTimers[client.ID] = timer
}

// forgetJoinTimer drops a timer that has already fired.
func (r *Router) forgetJoinTimer(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.joinTimers, clientID)
}

// stopJoinTimerLocked cancels a client's join timeout. Caller must hold r.mu.
func (r *Router) stopJoinTimerLocked(clientID string) {
	if timer, ok := r.joinTimers[clientID]; ok {
		timer.Stop()
		delete(r.joinTimers, clientID)
	}
}
