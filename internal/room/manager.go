package room

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ugaemi/mosquito-server/internal/game"
)

var ErrTooManyRooms = errors.New("room limit reached")

// minTickInterval bounds the tick rate; faster rates run at 1000 Hz.
const minTickInterval = time.Millisecond

// Settings configures every room a Manager creates.
type Settings struct {
	TickRate   int   // ticks per second
	HumanCount int   // humans spawned per game
	Seed       int64 // 0 picks a time-based seed per game
	MaxRooms   int   // 0 means unlimited
}

// DefaultSettings matches the client's frame rate and crowd size.
func DefaultSettings() Settings {
	return Settings{
		TickRate:   game.TickRate,
		HumanCount: game.DefaultHumanCount,
		MaxRooms:   64,
	}
}

// TickInterval returns the fixed step between simulation ticks.
func (s Settings) TickInterval() time.Duration {
	if s.TickRate <= 0 {
		return game.TickInterval
	}
	return max(time.Second/time.Duration(s.TickRate), minTickInterval)
}

func (s Settings) simConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.HumanCount = s.HumanCount
	cfg.Seed = s.Seed
	return cfg
}

// Manager manages all active rooms.
type Manager struct {
	rooms    map[string]*Room // code -> room
	settings Settings
	mu       sync.RWMutex
}

// NewManager creates a new room manager.
func NewManager(settings Settings) *Manager {
	return &Manager{
		rooms:    make(map[string]*Room),
		settings: settings,
	}
}

// CreateRoom creates a new room and returns it.
func (m *Manager) CreateRoom() (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settings.MaxRooms > 0 && len(m.rooms) >= m.settings.MaxRooms {
		return nil, ErrTooManyRooms
	}

	code := GenerateCode(func(c string) bool {
		_, ok := m.rooms[c]
		return ok
	})
	room := NewRoom(code, m.settings)
	m.rooms[code] = room

	slog.Info("room created", "code", code)
	return room, nil
}

// GetRoom returns a room by its code.
func (m *Manager) GetRoom(code string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[NormalizeCode(code)]
}

// RemoveRoom stops the room's game and removes it.
func (m *Manager) RemoveRoom(code string) {
	m.mu.Lock()
	room, ok := m.rooms[code]
	delete(m.rooms, code)
	m.mu.Unlock()

	if !ok {
		return
	}
	room.StopGame()
	slog.Info("room removed", "code", code)
}

// RoomCount returns the number of active rooms.
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// FindRoomByMemberID finds the room containing a member.
func (m *Manager) FindRoomByMemberID(memberID string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, room := range m.rooms {
		if room.HasMember(memberID) {
			return room
		}
	}
	return nil
}

// StopAll ends every running game. Used on shutdown.
func (m *Manager) StopAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, room := range m.rooms {
		room.StopGame()
	}
}
