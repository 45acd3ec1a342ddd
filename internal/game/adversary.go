package game

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

type AdversaryState int

const (
	AdversaryPursue AdversaryState = iota
	AdversaryAttacking
)

func (s AdversaryState) String() string {
	switch s {
	case AdversaryPursue:
		return "pursue"
	case AdversaryAttacking:
		return "attacking"
	default:
		return "unknown"
	}
}

// SprayParticle is one droplet of a volley, positioned relative to the
// adversary's spray origin.
type SprayParticle struct {
	Local    mgl64.Vec3 `json:"local"`
	Velocity mgl64.Vec3 `json:"-"`
	Life     float64    `json:"life"`
}

// sprayOriginOffset is where volleys leave the adversary, relative to its centre.
var sprayOriginOffset = mgl64.Vec3{0, 0.35, 0}

// Adversary chases the player and sprays volleys at it from close range.
type Adversary struct {
	Actor     *Actor
	State     AdversaryState
	Target    mgl64.Vec3
	Particles []SprayParticle

	attackCooldown Cooldown
	attackEnds     Cooldown
}

func NewAdversary(a *Actor) *Adversary {
	return &Adversary{
		Actor:  a,
		State:  AdversaryPursue,
		Target: a.Position,
	}
}

// AdversaryOutcome reports what happened during one update.
type AdversaryOutcome struct {
	AttackStarted bool
	Hit           bool
}

// SprayOrigin returns the world position particles are relative to.
func (ad *Adversary) SprayOrigin() mgl64.Vec3 {
	return ad.Actor.Position.Add(sprayOriginOffset)
}

// Update runs one tick of pursuit, attack triggering and spray simulation.
// With no player the adversary wanders.
func (ad *Adversary) Update(f frame, player *Actor) AdversaryOutcome {
	var out AdversaryOutcome
	a := ad.Actor

	if player != nil {
		ad.Target = player.Position
		if ad.State == AdversaryPursue &&
			Distance(a.Position, player.Position) < AttackRange &&
			ad.attackCooldown.Ready(f.now, f.epoch) {
			ad.startAttack(f, player.Position)
			out.AttackStarted = true
		}
	} else if f.rng.Float64() < WanderChance {
		ad.Target = mgl64.Vec3{spread(f.rng, WanderSpread), a.Position.Y(), spread(f.rng, WanderSpread)}
	}

	ad.steer(f)

	if ad.State == AdversaryAttacking {
		out.Hit = ad.advanceSpray(f, player)
	}
	return out
}

// steer moves toward the target on the ground plane and bounces off walls and
// world limits.
func (ad *Adversary) steer(f frame) {
	a := ad.Actor
	to := ad.Target.Sub(a.Position)
	dir := normalize(mgl64.Vec3{to.X(), 0, to.Z()})

	k := rateAt(AdversaryLerp, f.scale)
	vel := mgl64.Vec3{
		lerp(a.Velocity.X(), dir.X()*AdversaryMoveSpeed, k),
		0,
		lerp(a.Velocity.Z(), dir.Z()*AdversaryMoveSpeed, k),
	}
	candidate := a.Position.Add(vel.Mul(f.scale))

	res := f.world.ResolveBounce(a.Position, candidate, vel, a.Extents)
	a.Position = res.Position
	a.Velocity = res.Velocity
	if res.Contact() {
		ad.Target = a.Position.Add(a.Velocity.Mul(BounceLookahead))
		return
	}
	if dir.Len() > 0.01 {
		a.Yaw = headingYaw(dir)
	}
}

func (ad *Adversary) startAttack(f frame, playerPos mgl64.Vec3) {
	aim := normalize(playerPos.Sub(ad.SprayOrigin()))

	ad.Particles = ad.Particles[:0]
	for range SprayParticleCount {
		jitter := mgl64.Vec3{
			spread(f.rng, SprayJitterSpread),
			spread(f.rng, SprayJitterSpread),
			spread(f.rng, SprayJitterSpread),
		}
		speed := SprayBaseSpeed + f.rng.Float64()*SpraySpeedJitter
		ad.Particles = append(ad.Particles, SprayParticle{
			Local: mgl64.Vec3{
				spread(f.rng, SprayOffsetSpread),
				spread(f.rng, SprayOffsetSpread),
				spread(f.rng, SprayOffsetSpread),
			},
			Velocity: normalize(aim.Add(jitter)).Mul(speed),
			Life:     1,
		})
	}

	ad.State = AdversaryAttacking
	ad.attackCooldown.Fire(f.now, AttackInterval, f.epoch)
	ad.attackEnds.Fire(f.now, AttackDuration, f.epoch)
}

// advanceSpray moves the live volley and reports a scored hit. A hit retires
// the whole volley so one volley never lands twice.
func (ad *Adversary) advanceSpray(f frame, player *Actor) bool {
	if ad.attackEnds.Ready(f.now, f.epoch) {
		ad.endAttack()
		return false
	}

	origin := ad.SprayOrigin()
	decay := ParticleDecayPerSec * f.dt.Seconds()
	hit := false
	for i := range ad.Particles {
		p := &ad.Particles[i]
		p.Local = p.Local.Add(p.Velocity.Mul(f.scale))
		p.Life -= decay

		if hit || player == nil || p.Life <= ParticlePotency {
			continue
		}
		if Distance(origin.Add(p.Local), player.Position) < HitRadius && player.Damage.Ready(f.now, f.epoch) {
			player.Damage.Fire(f.now, DamageCooldown, f.epoch)
			hit = true
		}
	}

	if hit {
		ad.Particles = ad.Particles[:0]
		return true
	}

	live := ad.Particles[:0]
	for _, p := range ad.Particles {
		if p.Life > 0 {
			live = append(live, p)
		}
	}
	ad.Particles = live
	return false
}

func (ad *Adversary) endAttack() {
	ad.Particles = ad.Particles[:0]
	ad.State = AdversaryPursue
}

// AttackRemaining returns how long the current volley has left.
func (ad *Adversary) AttackRemaining(now time.Duration, epoch uint64) time.Duration {
	if ad.State != AdversaryAttacking {
		return 0
	}
	return ad.attackEnds.Remaining(now, epoch)
}
