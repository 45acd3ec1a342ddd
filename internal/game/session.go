package game

// Session is the per-game scoreboard. Updates return a new value instead of
// mutating shared state.
type Session struct {
	Lives          int  `json:"lives"`
	InfectionCount int  `json:"infection_count"`
	HumanCount     int  `json:"human_count"`
	GameOver       bool `json:"game_over"`

	// Epoch identifies the current game; cooldowns armed in an older epoch are inert.
	Epoch uint64 `json:"-"`
}

func NewSession(humanCount int) Session {
	return Session{
		Lives:      InitialLives,
		HumanCount: humanCount,
		Epoch:      1,
	}
}

// WithInfection counts one more infected human.
func (s Session) WithInfection() Session {
	if s.GameOver {
		return s
	}
	s.InfectionCount++
	return s
}

// WithDamage takes one life. Reaching zero ends the game.
func (s Session) WithDamage() Session {
	if s.GameOver {
		return s
	}
	s.Lives--
	if s.Lives <= 0 {
		s.Lives = 0
		s.GameOver = true
	}
	return s
}

// Reset starts a new game in a fresh epoch.
func (s Session) Reset() Session {
	next := NewSession(s.HumanCount)
	next.Epoch = s.Epoch + 1
	return next
}

// Healthy returns the number of humans not yet infected.
func (s Session) Healthy() int {
	if n := s.HumanCount - s.InfectionCount; n > 0 {
		return n
	}
	return 0
}
