package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clock drives frames at the reference tick rate.
type clock struct {
	world *World
	rng   *rand.Rand
	epoch uint64
	now   time.Duration
}

func newClock(t *testing.T, obstacles ...Obstacle) *clock {
	return &clock{
		world: newTestWorld(t, obstacles...),
		rng:   rand.New(rand.NewSource(7)),
		epoch: 1,
	}
}

func (c *clock) next() frame {
	c.now += ReferenceTick
	return frame{
		now:   c.now,
		dt:    ReferenceTick,
		scale: 1,
		epoch: c.epoch,
		world: c.world,
		rng:   c.rng,
	}
}

func newTestAdversary(pos mgl64.Vec3) *Adversary {
	return NewAdversary(NewActor(KindAdversary, pos, AdversaryExtents))
}

func TestAdversary_AttackTrigger(t *testing.T) {
	tests := []struct {
		name       string
		playerPos  mgl64.Vec3
		wantAttack bool
	}{
		{"player in range", mgl64.Vec3{3, 1.35, 0}, true},
		{"player out of range", mgl64.Vec3{6, 1.35, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClock(t)
			ad := newTestAdversary(mgl64.Vec3{0, 1, 0})
			player := newPlayer(tt.playerPos)

			out := ad.Update(c.next(), player)
			assert.Equal(t, tt.wantAttack, out.AttackStarted)
			if tt.wantAttack {
				assert.Equal(t, AdversaryAttacking, ad.State)
				assert.Len(t, ad.Particles, SprayParticleCount)
			} else {
				assert.Equal(t, AdversaryPursue, ad.State)
				assert.Empty(t, ad.Particles)
			}
		})
	}
}

func TestAdversary_PursuesPlayer(t *testing.T) {
	c := newClock(t)
	ad := newTestAdversary(mgl64.Vec3{0, 1, 0})
	player := newPlayer(mgl64.Vec3{20, 1, 10})

	start := Distance(ad.Actor.Position, player.Position)
	for range 120 {
		ad.Update(c.next(), player)
	}

	assert.Less(t, Distance(ad.Actor.Position, player.Position), start)
	assert.Equal(t, player.Position, ad.Target)
	assert.InDelta(t, 1.0, ad.Actor.Position.Y(), 1e-12, "steering stays on the ground plane")
	assert.InDelta(t, headingYaw(player.Position.Sub(ad.Actor.Position)), ad.Actor.Yaw, 0.05)
}

func TestAdversary_BouncesOffWall(t *testing.T) {
	c := newClock(t, thinWall)
	start := mgl64.Vec3{-0.47, 1, 0}
	ad := newTestAdversary(start)
	ad.Actor.Velocity = mgl64.Vec3{AdversaryMoveSpeed, 0, 0}
	player := newPlayer(mgl64.Vec3{20, 1, 0})

	ad.Update(c.next(), player)

	assert.Equal(t, start, ad.Actor.Position)
	assert.Negative(t, ad.Actor.Velocity.X(), "velocity reversed")
	assert.Less(t, ad.Target.X(), ad.Actor.Position.X(), "target re-aimed along the reversed heading")
}

func TestAdversary_OneHitPerVolley(t *testing.T) {
	c := newClock(t)
	ad := newTestAdversary(mgl64.Vec3{0, 1, 0})
	player := newPlayer(mgl64.Vec3{2, 1.35, 0})

	hits := 0
	attacks := 0
	for c.now < AttackInterval-ReferenceTick {
		// Keep the damage cooldown open so only volley retirement limits hits.
		player.Damage = Cooldown{}
		out := ad.Update(c.next(), player)
		if out.AttackStarted {
			attacks++
		}
		if out.Hit {
			hits++
		}
	}

	require.Equal(t, 1, attacks)
	assert.Equal(t, 1, hits)
	assert.Equal(t, AdversaryPursue, ad.State)
	assert.Empty(t, ad.Particles)
}

func TestAdversary_AttackCycle(t *testing.T) {
	c := newClock(t)
	ad := newTestAdversary(mgl64.Vec3{0, 1, 0})
	player := newPlayer(mgl64.Vec3{0, 5.5, 0})
	player.Damage.Fire(0, time.Hour, c.epoch)

	var started []time.Duration
	for c.now < 7*time.Second {
		f := c.next()
		if ad.Update(f, player).AttackStarted {
			started = append(started, f.now)
		}
		if ad.State == AdversaryAttacking {
			assert.LessOrEqual(t, ad.AttackRemaining(f.now, f.epoch), AttackDuration)
		}
	}

	require.Len(t, started, 3)
	for i := 1; i < len(started); i++ {
		assert.GreaterOrEqual(t, started[i]-started[i-1], AttackInterval)
	}
}

func TestAdversary_ParticlesDecay(t *testing.T) {
	c := newClock(t)
	ad := newTestAdversary(mgl64.Vec3{0, 1, 0})
	player := newPlayer(mgl64.Vec3{0, 5.5, 0})
	player.Damage.Fire(0, time.Hour, c.epoch)

	ad.Update(c.next(), player)
	require.Equal(t, AdversaryAttacking, ad.State)
	before := ad.Particles[0]

	ad.Update(c.next(), player)
	after := ad.Particles[0]
	assert.InDelta(t, before.Life-ParticleDecayPerSec*ReferenceTick.Seconds(), after.Life, 1e-9)
	assertVecNear(t, before.Local.Add(before.Velocity), after.Local, 1e-9)
}

func TestAdversary_DamageCooldownBlocksHit(t *testing.T) {
	c := newClock(t)
	ad := newTestAdversary(mgl64.Vec3{0, 1, 0})
	player := newPlayer(mgl64.Vec3{2, 1.35, 0})
	player.Damage.Fire(0, time.Hour, c.epoch)

	for range 60 {
		assert.False(t, ad.Update(c.next(), player).Hit)
	}
}

func TestAdversary_WandersWithoutPlayer(t *testing.T) {
	c := newClock(t)
	ad := newTestAdversary(mgl64.Vec3{0, 1, 0})
	initial := ad.Target

	for range 2000 {
		out := ad.Update(c.next(), nil)
		assert.False(t, out.AttackStarted)
		require.True(t, c.world.Bounds.Contains(ad.Actor.Position))
	}

	assert.NotEqual(t, initial, ad.Target)
	assert.Equal(t, AdversaryPursue, ad.State)
}
