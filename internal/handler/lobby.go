package handler

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/ugaemi/mosquito-server/internal/room"
	"github.com/ugaemi/mosquito-server/internal/ws"
)

// LobbyHandler handles lobby-related messages.
type LobbyHandler struct {
	rm     *room.Manager
	router *Router
}

// NewLobbyHandler creates a new lobby handler.
func NewLobbyHandler(rm *room.Manager, router *Router) *LobbyHandler {
	return &LobbyHandler{
		rm:     rm,
		router: router,
	}
}

type createRoomRequest struct {
	Nickname string `json:"nickname"`
	Encoding string `json:"encoding"`
}

type joinRoomResponse struct {
	Code     string    `json:"code"`
	MemberID string    `json:"member_id"`
	Role     room.Role `json:"role"`
	Encoding string    `json:"encoding"`
}

// HandleCreateRoom creates a room, makes the caller its pilot and starts the game.
func (h *LobbyHandler) HandleCreateRoom(client *ws.Client, msg ws.Message) {
	var req createRoomRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || req.Nickname == "" {
		client.SendMessage(ws.NewErrorMessage("nickname is required"))
		return
	}
	if h.router.GetMemberID(client.ID) != "" {
		client.SendMessage(ws.NewErrorMessage("already in a room"))
		return
	}
	codec, err := ws.ParseCodec(req.Encoding)
	if err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}

	r, err := h.rm.CreateRoom()
	if err != nil {
		slog.Warn("create room rejected", "client", client.ID, "error", err)
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}

	member := room.NewMember(req.Nickname)
	if err := r.AddMember(member, client); err != nil {
		h.rm.RemoveRoom(r.Code)
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}
	h.router.RegisterMember(client.ID, member.ID)
	client.SetCodec(codec)

	resp, _ := ws.NewMessage(ws.TypeCreateRoom, joinRoomResponse{
		Code:     r.Code,
		MemberID: member.ID,
		Role:     member.Role,
		Encoding: codec.String(),
	})
	client.SendMessage(resp)

	if err := r.PrepareGame(); err != nil {
		slog.Error("failed to prepare game", "room", r.Code, "error", err)
		client.SendMessage(ws.NewErrorMessage("failed to start game"))
		return
	}
	r.StartGameLoop()

	slog.Info("member created room", "member", member.Nickname, "room", r.Code, "encoding", codec.String())
}

type joinRoomRequest struct {
	Code     string `json:"code"`
	Nickname string `json:"nickname"`
	Encoding string `json:"encoding"`
}

// HandleJoinRoom handles joining an existing room as a spectator.
func (h *LobbyHandler) HandleJoinRoom(client *ws.Client, msg ws.Message) {
	var req joinRoomRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || req.Code == "" || req.Nickname == "" {
		client.SendMessage(ws.NewErrorMessage("code and nickname are required"))
		return
	}
	if h.router.GetMemberID(client.ID) != "" {
		client.SendMessage(ws.NewErrorMessage("already in a room"))
		return
	}
	codec, err := ws.ParseCodec(req.Encoding)
	if err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}

	r := h.rm.GetRoom(req.Code)
	if r == nil {
		client.SendMessage(ws.NewErrorMessage("room not found"))
		return
	}

	member := room.NewMember(req.Nickname)
	if err := r.AddMember(member, client); err != nil {
		if errors.Is(err, room.ErrRoomFull) {
			client.SendMessage(ws.NewErrorMessage("room is full"))
			return
		}
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}
	h.router.RegisterMember(client.ID, member.ID)
	client.SetCodec(codec)

	resp, _ := ws.NewMessage(ws.TypeJoinRoom, joinRoomResponse{
		Code:     r.Code,
		MemberID: member.ID,
		Role:     member.Role,
		Encoding: codec.String(),
	})
	client.SendMessage(resp)

	h.broadcastRoomInfo(r)

	slog.Info("member joined room", "member", member.Nickname, "room", r.Code, "encoding", codec.String())
}

// HandleLeaveRoom handles a member leaving a room.
func (h *LobbyHandler) HandleLeaveRoom(client *ws.Client, _ ws.Message) {
	h.removeMember(client)
}

// HandleDisconnect handles client disconnection.
func (h *LobbyHandler) HandleDisconnect(client *ws.Client) {
	h.removeMember(client)
}

func (h *LobbyHandler) removeMember(client *ws.Client) {
	memberID := h.router.GetMemberID(client.ID)
	if memberID == "" {
		return
	}

	r := h.rm.FindRoomByMemberID(memberID)
	if r != nil {
		r.RemoveMember(memberID)
		if r.IsEmpty() {
			h.rm.RemoveRoom(r.Code)
		} else {
			h.broadcastRoomInfo(r)
		}
	}

	h.router.UnregisterMember(client.ID)
	slog.Info("member left", "member", memberID)
}

type roomInfoResponse struct {
	Code    string         `json:"code"`
	State   string         `json:"state"`
	Members []*room.Member `json:"members"`
	PilotID string         `json:"pilot_id"`
}

func (h *LobbyHandler) broadcastRoomInfo(r *room.Room) {
	resp, _ := ws.NewMessage(ws.TypeRoomInfo, roomInfoResponse{
		Code:    r.Code,
		State:   r.CurrentState().String(),
		Members: r.GetMemberList(),
		PilotID: r.Pilot(),
	})
	r.BroadcastMessage(resp)
}
