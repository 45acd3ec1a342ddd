package game

import (
	"math"
	"time"
)

// Game timing
const (
	TickRate     = 60 // ticks per second
	TickInterval = time.Second / TickRate

	// ReferenceTick is the frame length velocities are expressed against.
	// A velocity of 1 moves one unit per ReferenceTick.
	ReferenceTick = time.Second / 60
)

// Session
const (
	InitialLives      = 3
	DefaultHumanCount = 15
)

// Player movement (units per reference tick)
const (
	PlayerSpeed    = 0.1
	PlayerMaxSpeed = 0.5
	PlayerDrag     = 0.05 // per-tick attenuation of idle input axes
	PlayerLerp     = 0.05 // smaller is more inertia
	IdleDrag       = 0.95
	PlayerRadius   = 0.3
)

// Pointer look
const (
	LookSensitivity = 0.002 // radians per pixel
	PitchEpsilon    = 0.047
	PitchLimit      = math.Pi/2 - PitchEpsilon
	MaxPointerDelta = 400.0 // pixels per tick
)

// Infection
const (
	InfectionRange    = 1.5
	InfectionCooldown = 1 * time.Second
)

// Adversary
const (
	AdversaryMoveSpeed = 0.05
	AdversaryLerp      = 0.1
	AttackRange        = 5.0
	AttackInterval     = 3 * time.Second
	AttackDuration     = 2 * time.Second
	BounceLookahead    = 10.0
	WanderChance       = 0.01 // per tick, only while no player exists
	WanderSpread       = 20.0
)

// Spray volley
const (
	SprayParticleCount  = 20
	SprayOffsetSpread   = 0.5
	SprayJitterSpread   = 0.3
	SprayBaseSpeed      = 0.3
	SpraySpeedJitter    = 0.1
	ParticleDecayPerSec = 0.5
	ParticlePotency     = 0.5 // particles at or below this life no longer hurt
	HitRadius           = 0.8
	DamageCooldown      = 2 * time.Second
)

// Humans
const (
	NPCWalkSpeed      = 0.02
	NPCMinWalk        = 2 * time.Second
	NPCMaxWalk        = 4 * time.Second
	NPCBounceJitter   = 0.3 // radians either side of the reversed heading
	HumanSpawnMinDist = 10.0
	HumanSpawnMaxDist = 40.0
)

// Spawn relocation
const (
	SpawnSearchStep    = 0.5
	SpawnSearchRadius  = 5.0
	SafeRegionSize     = 6.0 // side of the square around the origin used as last resort
	SafeRegionAttempts = 32
)
