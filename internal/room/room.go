package room

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ugaemi/mosquito-server/internal/game"
	"github.com/ugaemi/mosquito-server/internal/ws"
)

// MaxMembers caps a room: one pilot plus spectators.
const MaxMembers = 8

var (
	ErrRoomFull   = errors.New("room is full")
	ErrNotMember  = errors.New("not a member of this room")
	ErrNotPilot   = errors.New("only the pilot can control the game")
	ErrNotPlaying = errors.New("game is not in progress")
)

// Room hosts one simulation and the clients watching it.
type Room struct {
	Code    string             `json:"code"`
	State   State              `json:"state"`
	Members map[string]*Member `json:"members"`
	PilotID string             `json:"pilot_id"`

	// Client mapping: member ID -> ws client
	clients map[string]*ws.Client

	settings Settings
	sim      *game.Simulation
	pending  game.InputState

	// Game loop control
	stopCh chan struct{}

	mu sync.RWMutex
}

// NewRoom creates a new room with the given code.
func NewRoom(code string, settings Settings) *Room {
	return &Room{
		Code:     code,
		State:    StateWaiting,
		Members:  make(map[string]*Member),
		clients:  make(map[string]*ws.Client),
		settings: settings,
	}
}

// AddMember adds a member to the room. The first member becomes the pilot.
func (r *Room) AddMember(m *Member, client *ws.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Members) >= MaxMembers {
		return ErrRoomFull
	}

	r.Members[m.ID] = m
	r.clients[m.ID] = client

	if r.PilotID == "" {
		m.Role = RolePilot
		r.PilotID = m.ID
	}
	return nil
}

// RemoveMember removes a member. When the pilot leaves, the longest-standing
// spectator takes over the controls.
func (r *Room) RemoveMember(memberID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Members, memberID)
	delete(r.clients, memberID)

	if r.PilotID != memberID {
		return
	}
	r.PilotID = ""
	r.pending = game.InputState{}
	if next := r.oldestMember(); next != nil {
		next.Role = RolePilot
		r.PilotID = next.ID
	}
}

// oldestMember returns the earliest joined member. Caller must hold r.mu.
func (r *Room) oldestMember() *Member {
	var oldest *Member
	for _, m := range r.Members {
		if oldest == nil || m.JoinedAt.Before(oldest.JoinedAt) {
			oldest = m
		}
	}
	return oldest
}

// Pilot returns the ID of the member holding the controls.
func (r *Room) Pilot() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.PilotID
}

// MemberCount returns the number of members.
func (r *Room) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Members)
}

// HasMember reports whether the member is in this room.
func (r *Room) HasMember(memberID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.Members[memberID]
	return ok
}

// GetMemberList returns all members in join order.
func (r *Room) GetMemberList() []*Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := make([]*Member, 0, len(r.Members))
	for _, m := range r.Members {
		members = append(members, m)
	}
	slices.SortFunc(members, func(a, b *Member) int {
		return a.JoinedAt.Compare(b.JoinedAt)
	})
	return members
}

// BroadcastMessage sends a message to all members in the room.
func (r *Room) BroadcastMessage(msg ws.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, client := range r.clients {
		client.SendMessage(msg)
	}
}

// SendToMember sends a message to a specific member.
func (r *Room) SendToMember(memberID string, msg ws.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if client, ok := r.clients[memberID]; ok {
		client.SendMessage(msg)
	}
}

// GetClient returns the WebSocket client for a member.
func (r *Room) GetClient(memberID string) *ws.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[memberID]
}

// IsEmpty returns true if the room has no members.
func (r *Room) IsEmpty() bool {
	return r.MemberCount() == 0
}

// CurrentState returns the room state.
func (r *Room) CurrentState() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.State
}

// PrepareGame builds a fresh simulation and transitions to playing state.
// Must be called before StartGameLoop.
func (r *Room) PrepareGame() error {
	sim, err := game.NewSimulation(r.settings.simConfig())
	if err != nil {
		return fmt.Errorf("room %s: %w", r.Code, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sim = sim
	r.pending = game.InputState{}
	r.State = StatePlaying
	r.stopCh = make(chan struct{})

	slog.Info("game prepared", "room", r.Code, "actors", sim.Registry().Len(), "obstacles", len(sim.World().Obstacles()))
	return nil
}

// StartGameLoop starts the game tick loop. Must be called after PrepareGame.
func (r *Room) StartGameLoop() {
	r.mu.RLock()
	stopCh := r.stopCh
	r.mu.RUnlock()
	go r.gameLoop(stopCh)
}

// StopGame stops the game loop and transitions to ended state.
func (r *Room) StopGame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

// stopLocked ends the game. Caller must hold r.mu.
func (r *Room) stopLocked() bool {
	if r.State != StatePlaying {
		return false
	}
	r.State = StateEnded

	select {
	case <-r.stopCh:
		// Already closed
	default:
		close(r.stopCh)
	}
	return true
}

// SubmitInput merges a pilot input report into the state consumed by the next tick.
func (r *Room) SubmitInput(memberID string, in game.InputState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkPilot(memberID); err != nil {
		return err
	}
	if r.State != StatePlaying {
		return ErrNotPlaying
	}
	r.pending.Merge(in)
	return nil
}

// TriggerInfect latches an infect action for the next tick.
func (r *Room) TriggerInfect(memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkPilot(memberID); err != nil {
		return err
	}
	if r.State != StatePlaying {
		return ErrNotPlaying
	}
	r.pending.Infect = true
	return nil
}

// NewGame resets the session and restarts the loop if the last game ended.
func (r *Room) NewGame(memberID string) error {
	r.mu.Lock()
	if err := r.checkPilot(memberID); err != nil {
		r.mu.Unlock()
		return err
	}

	if r.sim == nil {
		r.mu.Unlock()
		if err := r.PrepareGame(); err != nil {
			return err
		}
		r.StartGameLoop()
		return nil
	}

	if err := r.sim.Reset(); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("reset room %s: %w", r.Code, err)
	}
	r.pending = game.InputState{}

	restart := r.State != StatePlaying
	if restart {
		r.State = StatePlaying
		r.stopCh = make(chan struct{})
	}
	stopCh := r.stopCh
	r.mu.Unlock()

	if restart {
		go r.gameLoop(stopCh)
	}
	slog.Info("new game", "room", r.Code, "restarted", restart)
	return nil
}

// checkPilot returns ErrNotMember or ErrNotPilot. Caller must hold r.mu.
func (r *Room) checkPilot(memberID string) error {
	m, ok := r.Members[memberID]
	if !ok {
		return ErrNotMember
	}
	if !m.IsPilot() {
		return ErrNotPilot
	}
	return nil
}

// Snapshot returns the latest committed simulation state.
func (r *Room) Snapshot() (game.Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.sim == nil {
		return game.Snapshot{}, false
	}
	return r.sim.Snapshot(), true
}

type gameOverMessage struct {
	Lives          int    `json:"lives"`
	InfectionCount int    `json:"infection_count"`
	HumanCount     int    `json:"human_count"`
	Tick           uint64 `json:"tick"`
}

type infectionMessage struct {
	HumanID        string `json:"human_id"`
	InfectionCount int    `json:"infection_count"`
	Healthy        int    `json:"healthy"`
}

type playerHitMessage struct {
	AdversaryID string `json:"adversary_id"`
	Lives       int    `json:"lives"`
}

// gameLoop advances the simulation at the configured tick rate until stopCh
// closes or the game is over.
func (r *Room) gameLoop(stopCh chan struct{}) {
	interval := r.settings.TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			res, ok := r.advance(stopCh, interval)
			if !ok {
				return
			}

			msg, err := ws.NewMessage(ws.TypeGameState, res.snap)
			if err != nil {
				slog.Error("failed to encode game state", "room", r.Code, "error", err)
			} else {
				r.BroadcastMessage(msg)
			}

			if r.publishEvents(res.events, res.session, res.snap.Tick) || res.over {
				return
			}
		}
	}
}

// tickResult is what one locked step hands to the broadcaster.
type tickResult struct {
	events  []game.Event
	snap    game.Snapshot
	session game.Session
	over    bool
}

// advance runs one tick. A finishing tick ends the room before the lock is
// released, so a new_game racing the final broadcast restarts the loop.
func (r *Room) advance(stopCh chan struct{}, interval time.Duration) (tickResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	select {
	case <-stopCh:
		return tickResult{}, false
	default:
	}

	res := tickResult{events: r.sim.Tick(interval, r.pending.Consume())}
	res.snap = r.sim.Snapshot()
	res.session = r.sim.Session()
	if res.session.GameOver {
		r.stopLocked()
		res.over = true
	}
	return res, true
}

// publishEvents broadcasts tick events and reports whether the game ended.
func (r *Room) publishEvents(events []game.Event, session game.Session, tick uint64) bool {
	for _, ev := range events {
		switch ev.Type {
		case game.EventInfection:
			msg, _ := ws.NewMessage(ws.TypeInfection, infectionMessage{
				HumanID:        ev.TargetID,
				InfectionCount: ev.InfectionCount,
				Healthy:        session.Healthy(),
			})
			r.BroadcastMessage(msg)
			slog.Info("human infected", "room", r.Code, "human", ev.TargetID, "count", ev.InfectionCount)

		case game.EventAttack:
			slog.Debug("adversary attack", "room", r.Code, "adversary", ev.ActorID)

		case game.EventHit:
			msg, _ := ws.NewMessage(ws.TypePlayerHit, playerHitMessage{
				AdversaryID: ev.ActorID,
				Lives:       ev.Lives,
			})
			r.BroadcastMessage(msg)
			slog.Info("player hit", "room", r.Code, "lives", ev.Lives)

		case game.EventGameOver:
			msg, _ := ws.NewMessage(ws.TypeGameOver, gameOverMessage{
				Lives:          ev.Lives,
				InfectionCount: ev.InfectionCount,
				HumanCount:     session.HumanCount,
				Tick:           tick,
			})
			r.BroadcastMessage(msg)
			slog.Info("game over", "room", r.Code, "infections", ev.InfectionCount, "tick", tick)
			return true
		}
	}
	return false
}
