package game

import "time"

type InfectState int

const (
	InfectReady InfectState = iota
	InfectConsuming
)

func (s InfectState) String() string {
	switch s {
	case InfectReady:
		return "ready"
	case InfectConsuming:
		return "consuming"
	default:
		return "unknown"
	}
}

// InfectionEvent represents a human infected by the player.
type InfectionEvent struct {
	PlayerID string
	NPCID    string
}

// InRange checks if a human is within infection range of the player.
func InRange(player, npc *Actor, rng float64) bool {
	return Distance(player.Position, npc.Position) <= rng
}

// FindInfectionTarget returns the first uninfected human within range in
// registration order, or nil. Closer humans later in the list do not win.
func FindInfectionTarget(player *Actor, npcs []*Actor, rng float64) *Actor {
	for _, n := range npcs {
		if n.Kind != KindNPC || n.IsInfected() {
			continue
		}
		if InRange(player, n, rng) {
			return n
		}
	}
	return nil
}

// Infector is the player's infect action: Ready -> Consuming on a successful
// trigger, back to Ready once the cooldown deadline passes.
type Infector struct {
	State    InfectState
	Range    float64
	Duration time.Duration
	cooldown Cooldown
}

func NewInfector() *Infector {
	return &Infector{
		State:    InfectReady,
		Range:    InfectionRange,
		Duration: InfectionCooldown,
	}
}

// Update returns to Ready once the cooldown has elapsed or belongs to an older game.
func (in *Infector) Update(now time.Duration, epoch uint64) {
	if in.State == InfectConsuming && in.cooldown.Ready(now, epoch) {
		in.State = InfectReady
	}
}

// Trigger attempts one infection. With no eligible human in range nothing
// changes and the infector stays Ready.
func (in *Infector) Trigger(now time.Duration, epoch uint64, player *Actor, npcs []*Actor) (InfectionEvent, bool) {
	in.Update(now, epoch)
	if in.State != InfectReady || player == nil {
		return InfectionEvent{}, false
	}

	target := FindInfectionTarget(player, npcs, in.Range)
	if target == nil || !target.Infect() {
		return InfectionEvent{}, false
	}

	in.State = InfectConsuming
	in.cooldown.Fire(now, in.Duration, epoch)
	return InfectionEvent{PlayerID: player.ID, NPCID: target.ID}, true
}

// Remaining returns the cooldown left before the next trigger can succeed.
func (in *Infector) Remaining(now time.Duration, epoch uint64) time.Duration {
	if in.State == InfectReady {
		return 0
	}
	return in.cooldown.Remaining(now, epoch)
}
