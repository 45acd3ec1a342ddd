package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidConfig = errors.New("invalid simulation config")

// Config holds what a simulation is built from.
type Config struct {
	HumanCount int
	Seed       int64 // 0 picks a time-based seed
	Layout     Layout
	Input      InputParams
}

// DefaultConfig returns the configuration the client ships with.
func DefaultConfig() Config {
	return Config{
		HumanCount: DefaultHumanCount,
		Layout:     DefaultLayout(),
		Input:      DefaultInputParams,
	}
}

// frame is the read-only context of one tick.
type frame struct {
	now   time.Duration
	dt    time.Duration
	scale float64
	epoch uint64
	world *World
	rng   *rand.Rand
}

// Simulation advances the whole game one ordered pass per tick: player input,
// orientation, integration and collision, then humans, infection and the
// adversary. It is not safe for concurrent use; one goroutine owns it.
type Simulation struct {
	cfg      Config
	world    *World
	registry *Registry
	rng      *rand.Rand

	player      *Actor
	view        Orientation
	localVel    mgl64.Vec3
	infector    *Infector
	humans      []*Wanderer
	adversaries []*Adversary

	session Session
	now     time.Duration
	tick    uint64
}

// NewSimulation builds the world and spawns every actor.
func NewSimulation(cfg Config) (*Simulation, error) {
	if cfg.HumanCount < 0 {
		return nil, fmt.Errorf("human count %d: %w", cfg.HumanCount, ErrInvalidConfig)
	}
	if cfg.Input.MaxSpeed <= 0 {
		cfg.Input = DefaultInputParams
	}

	world, err := NewWorld(cfg.Layout.Bounds, cfg.Layout.Obstacles)
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Simulation{
		cfg:      cfg,
		world:    world,
		rng:      rand.New(rand.NewSource(seed)),
		infector: NewInfector(),
		session:  NewSession(cfg.HumanCount),
	}
	if err := s.populate(); err != nil {
		return nil, err
	}
	return s, nil
}

// populate (re)spawns the player, the humans and the adversary.
func (s *Simulation) populate() error {
	l := s.cfg.Layout
	s.registry = NewRegistry()
	s.humans = s.humans[:0]
	s.adversaries = s.adversaries[:0]
	s.view = Orientation{}
	s.localVel = mgl64.Vec3{}

	s.player = NewActor(KindPlayer, s.world.FindFreeSpot(l.PlayerSpawn, PlayerExtents, s.rng), PlayerExtents)
	if err := s.registry.Insert(s.player); err != nil {
		return fmt.Errorf("spawn player: %w", err)
	}

	for _, pos := range GenerateHumanSpawns(s.rng, s.cfg.HumanCount, l.HumanHeight) {
		h := NewActor(KindNPC, s.world.FindFreeSpot(pos, NPCExtents, s.rng), NPCExtents)
		if err := s.registry.Insert(h); err != nil {
			return fmt.Errorf("spawn human: %w", err)
		}
		s.humans = append(s.humans, NewWanderer(h, s.rng))
	}

	adv := NewActor(KindAdversary, s.world.FindFreeSpot(l.AdversarySpawn, AdversaryExtents, s.rng), AdversaryExtents)
	if err := s.registry.Insert(adv); err != nil {
		return fmt.Errorf("spawn adversary: %w", err)
	}
	s.adversaries = append(s.adversaries, NewAdversary(adv))
	return nil
}

// Reset starts a new game: fresh session epoch, clock and actors. Cooldowns
// armed in the previous game become inert.
func (s *Simulation) Reset() error {
	s.session = s.session.Reset()
	s.now = 0
	s.tick = 0
	if err := s.populate(); err != nil {
		return err
	}
	s.infector.Update(s.now, s.session.Epoch)
	return nil
}

// Tick advances the simulation by dt and returns the events it produced.
// Nothing moves once the game is over.
func (s *Simulation) Tick(dt time.Duration, in InputState) []Event {
	if dt <= 0 || s.session.GameOver {
		return nil
	}
	s.now += dt
	s.tick++

	f := frame{
		now:   s.now,
		dt:    dt,
		scale: StepScale(dt),
		epoch: s.session.Epoch,
		world: s.world,
		rng:   s.rng,
	}

	var events []Event
	s.infector.Update(f.now, f.epoch)

	if s.player != nil {
		s.stepPlayer(f, in)
	}

	for _, h := range s.humans {
		h.Update(f)
	}

	if in.Infect && s.player != nil {
		if ev, ok := s.infector.Trigger(f.now, f.epoch, s.player, s.registry.OfKind(KindNPC)); ok {
			s.session = s.session.WithInfection()
			events = append(events, Event{
				Type:           EventInfection,
				ActorID:        ev.PlayerID,
				TargetID:       ev.NPCID,
				InfectionCount: s.session.InfectionCount,
			})
		}
	}

	for _, ad := range s.adversaries {
		out := ad.Update(f, s.player)
		if out.AttackStarted {
			events = append(events, Event{Type: EventAttack, ActorID: ad.Actor.ID})
		}
		if !out.Hit || s.player == nil {
			continue
		}
		s.session = s.session.WithDamage()
		events = append(events, Event{
			Type:     EventHit,
			ActorID:  ad.Actor.ID,
			TargetID: s.player.ID,
			Lives:    s.session.Lives,
		})
		if s.session.GameOver {
			events = append(events, Event{
				Type:           EventGameOver,
				Lives:          s.session.Lives,
				InfectionCount: s.session.InfectionCount,
			})
			break
		}
	}
	return events
}

func (s *Simulation) stepPlayer(f frame, in InputState) {
	p := s.player

	s.view = s.view.Apply(in.Pointer)
	p.Yaw, p.Pitch = s.view.Yaw, s.view.Pitch

	s.localVel = MapInput(in.Keys, s.localVel, s.cfg.Input, f.scale)
	target := s.view.ToWorld(s.localVel)
	vel, candidate := Integrate(p.Position, p.Velocity, target, in.Keys.Active(s.cfg.Input.Mode), PlayerMotion, f.scale)

	res := s.world.Resolve(p.Position, candidate, vel, p.Extents)
	p.Position = res.Position
	p.Velocity = res.Velocity
}

// RemovePlayer despawns the player. The adversary falls back to wandering.
func (s *Simulation) RemovePlayer() {
	if s.player == nil {
		return
	}
	s.registry.Remove(s.player.ID)
	s.player = nil
}

func (s *Simulation) Session() Session {
	return s.session
}

func (s *Simulation) World() *World {
	return s.world
}

func (s *Simulation) Registry() *Registry {
	return s.registry
}

// Player returns the player actor, or nil once removed.
func (s *Simulation) Player() *Actor {
	return s.player
}

func (s *Simulation) Adversaries() []*Adversary {
	return s.adversaries
}

func (s *Simulation) Infector() *Infector {
	return s.infector
}

// Now returns the simulation clock of the current game.
func (s *Simulation) Now() time.Duration {
	return s.now
}
