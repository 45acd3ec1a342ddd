package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/ugaemi/mosquito-server/internal/game"
	"github.com/ugaemi/mosquito-server/internal/room"
	"github.com/ugaemi/mosquito-server/internal/ws"
)

// GameplayHandler handles in-game messages.
type GameplayHandler struct {
	rm     *room.Manager
	router *Router
}

// NewGameplayHandler creates a new gameplay handler.
func NewGameplayHandler(rm *room.Manager, router *Router) *GameplayHandler {
	return &GameplayHandler{rm: rm, router: router}
}

type playerInputRequest struct {
	Keys     game.KeyState `json:"keys"`
	DX       float64       `json:"dx"`
	DY       float64       `json:"dy"`
	Captured bool          `json:"captured"`
}

// HandlePlayerInput merges the pilot's held keys and pointer motion into the
// room's pending input.
func (h *GameplayHandler) HandlePlayerInput(client *ws.Client, msg ws.Message) {
	var req playerInputRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid input data"))
		return
	}

	r, memberID := h.findRoom(client)
	if r == nil {
		return
	}

	err := r.SubmitInput(memberID, game.InputState{
		Keys:    req.Keys,
		Pointer: game.PointerDelta{DX: req.DX, DY: req.DY, Captured: req.Captured},
	})
	if err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}

	slog.Debug("player input", "member", memberID, "keys", req.Keys, "dx", req.DX, "dy", req.DY)
}

// HandleInfect latches the infect action for the next tick.
func (h *GameplayHandler) HandleInfect(client *ws.Client, _ ws.Message) {
	r, memberID := h.findRoom(client)
	if r == nil {
		return
	}
	if err := r.TriggerInfect(memberID); err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
	}
}

// HandleNewGame resets the session and respawns every actor.
func (h *GameplayHandler) HandleNewGame(client *ws.Client, _ ws.Message) {
	r, memberID := h.findRoom(client)
	if r == nil {
		return
	}
	if err := r.NewGame(memberID); err != nil {
		slog.Warn("new game rejected", "room", r.Code, "member", memberID, "error", err)
		client.SendMessage(ws.NewErrorMessage(err.Error()))
	}
}

func (h *GameplayHandler) findRoom(client *ws.Client) (*room.Room, string) {
	memberID := h.router.GetMemberID(client.ID)
	if memberID == "" {
		client.SendMessage(ws.NewErrorMessage("not in a room"))
		return nil, ""
	}
	r := h.rm.FindRoomByMemberID(memberID)
	if r == nil {
		client.SendMessage(ws.NewErrorMessage("not in a room"))
		return nil, ""
	}
	return r, memberID
}
