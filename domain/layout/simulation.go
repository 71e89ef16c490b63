// Package layout animates a pruned relationship graph to a stable visual
// arrangement with a force-directed simulation. Structure stays owned by
// the graph package; this package owns positions and nothing else.
package layout

import (
	"math"
	"math/rand"

	"mindgraph-backend/domain/graph"
)

// State describes the simulation lifecycle
type State int

const (
	// StateIdle means no simulation has started
	StateIdle State = iota
	// StateRunning means the simulation is ticking and alpha is decaying
	StateRunning
	// StateSettled means alpha dropped below the threshold and ticking stopped
	StateSettled
)

// String returns a readable state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Config tunes the physical simulation. Link distance and strength depend
// on edge kind: strong similarity pulls tightest, tags medium, weak
// similarity loosest.
type Config struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	AlphaStart  float64 `yaml:"alpha_start"`
	AlphaDecay  float64 `yaml:"alpha_decay"` // multiplicative per-tick factor
	AlphaMin    float64 `yaml:"alpha_min"`
	ReheatAlpha float64 `yaml:"reheat_alpha"` // alpha restored on perturbation
	MaxTicks    int     `yaml:"max_ticks"`

	VelocityDecay float64 `yaml:"velocity_decay"`

	LinkDistanceStrong float64 `yaml:"link_distance_strong"`
	LinkDistanceTag    float64 `yaml:"link_distance_tag"`
	LinkDistanceWeak   float64 `yaml:"link_distance_weak"`
	LinkStrengthStrong float64 `yaml:"link_strength_strong"`
	LinkStrengthTag    float64 `yaml:"link_strength_tag"`
	LinkStrengthWeak   float64 `yaml:"link_strength_weak"`

	RepulsionBase   float64 `yaml:"repulsion_base"` // scaled up by node degree
	CenterStrength  float64 `yaml:"center_strength"`
	CollidePadding  float64 `yaml:"collide_padding"`
	InitialJitter   float64 `yaml:"initial_jitter"` // radius of random placement
}

// DefaultConfig returns the reference tuning
func DefaultConfig() Config {
	return Config{
		Width:  800,
		Height: 600,

		AlphaStart:  1.0,
		AlphaDecay:  0.96,
		AlphaMin:    0.001,
		ReheatAlpha: 0.3,
		MaxTicks:    1000,

		VelocityDecay: 0.6,

		LinkDistanceStrong: 60,
		LinkDistanceTag:    90,
		LinkDistanceWeak:   140,
		LinkStrengthStrong: 0.9,
		LinkStrengthTag:    0.5,
		LinkStrengthWeak:   0.2,

		RepulsionBase:  30,
		CenterStrength: 0.05,
		CollidePadding: 4,
		InitialJitter:  120,
	}
}

// Body is a simulated node. Position is mutated in place every tick; when
// pinned, the position is held at (px, py) and forces skip it.
type Body struct {
	ID     string
	X, Y   float64
	VX, VY float64
	Radius float64
	Degree int

	Pinned bool
	PX, PY float64
}

type link struct {
	source, target int // body indexes
	distance       float64
	strength       float64
}

// Position is one entry of a per-tick frame
type Position struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Simulation relaxes node positions until the layout settles. It is not
// safe for concurrent use; the owner drives it from a single goroutine.
type Simulation struct {
	cfg    Config
	bodies []*Body
	index  map[string]int
	links  []link

	alpha float64
	state State
	ticks int
	rng   *rand.Rand
}

// New creates a simulation for the pruned graph. The caller must not start
// a simulation for an empty graph; New returns nil in that case so the
// mistake surfaces immediately.
func New(g *graph.Graph, cfg Config, seed int64) *Simulation {
	if g.IsEmpty() {
		return nil
	}

	sim := &Simulation{
		cfg:   cfg,
		index: make(map[string]int, len(g.Nodes)),
		alpha: cfg.AlphaStart,
		state: StateIdle,
		rng:   rand.New(rand.NewSource(seed)),
	}

	cx, cy := cfg.Width/2, cfg.Height/2
	for i, node := range g.Nodes {
		// Random jitter around center; structural determinism is preserved
		// because nothing upstream depends on placement.
		angle := sim.rng.Float64() * 2 * math.Pi
		radius := sim.rng.Float64() * cfg.InitialJitter
		sim.bodies = append(sim.bodies, &Body{
			ID:     node.ID,
			X:      cx + radius*math.Cos(angle),
			Y:      cy + radius*math.Sin(angle),
			Radius: node.Size,
			Degree: node.Degree,
		})
		sim.index[node.ID] = i
	}

	for _, edge := range g.Edges {
		si, ok := sim.index[edge.Source]
		if !ok {
			continue
		}
		ti, ok := sim.index[edge.Target]
		if !ok {
			continue
		}
		distance, strength := cfg.linkParams(edge.Kind)
		sim.links = append(sim.links, link{
			source:   si,
			target:   ti,
			distance: distance,
			strength: strength,
		})
	}

	return sim
}

func (c Config) linkParams(kind graph.EdgeKind) (distance, strength float64) {
	switch kind {
	case graph.EdgeKindStrong:
		return c.LinkDistanceStrong, c.LinkStrengthStrong
	case graph.EdgeKindTag:
		return c.LinkDistanceTag, c.LinkStrengthTag
	default:
		return c.LinkDistanceWeak, c.LinkStrengthWeak
	}
}

// Start moves the simulation into the running state
func (s *Simulation) Start() {
	if s.state == StateIdle {
		s.state = StateRunning
	}
}

// State returns the current lifecycle state
func (s *Simulation) State() State {
	return s.state
}

// Alpha returns the current simulation temperature
func (s *Simulation) Alpha() float64 {
	return s.alpha
}

// Tick advances the simulation one step. It returns false once the
// simulation has settled (alpha below threshold or tick budget spent).
func (s *Simulation) Tick() bool {
	if s.state != StateRunning {
		return false
	}

	s.applyForces()
	s.integrate()

	s.ticks++
	s.alpha *= s.cfg.AlphaDecay
	if s.alpha < s.cfg.AlphaMin || s.ticks >= s.cfg.MaxTicks {
		s.state = StateSettled
		return false
	}
	return true
}

// Pin fixes a node at the given position; forces no longer move it.
// Used while the node is being dragged.
func (s *Simulation) Pin(nodeID string, x, y float64) {
	i, ok := s.index[nodeID]
	if !ok {
		return
	}
	body := s.bodies[i]
	body.Pinned = true
	body.PX, body.PY = x, y
	body.X, body.Y = x, y
	body.VX, body.VY = 0, 0
}

// Drag updates a pinned node's held position between ticks
func (s *Simulation) Drag(nodeID string, x, y float64) {
	i, ok := s.index[nodeID]
	if !ok {
		return
	}
	body := s.bodies[i]
	if !body.Pinned {
		return
	}
	body.PX, body.PY = x, y
	body.X, body.Y = x, y
}

// Release clears a node's pin and reheats the simulation so the layout
// continues settling around the new position.
func (s *Simulation) Release(nodeID string) {
	i, ok := s.index[nodeID]
	if !ok {
		return
	}
	s.bodies[i].Pinned = false
	s.Reheat()
}

// Reheat nudges alpha back up and resumes ticking after any perturbation
func (s *Simulation) Reheat() {
	if s.alpha < s.cfg.ReheatAlpha {
		s.alpha = s.cfg.ReheatAlpha
	}
	s.ticks = 0
	s.state = StateRunning
}

// Positions returns the current frame of node positions
func (s *Simulation) Positions() []Position {
	frame := make([]Position, len(s.bodies))
	for i, body := range s.bodies {
		frame[i] = Position{ID: body.ID, X: body.X, Y: body.Y}
	}
	return frame
}

// BodyCount returns the number of simulated nodes
func (s *Simulation) BodyCount() int {
	return len(s.bodies)
}

// integrate applies velocities to positions and damps them. Pinned bodies
// snap back to their held position.
func (s *Simulation) integrate() {
	for _, body := range s.bodies {
		if body.Pinned {
			body.X, body.Y = body.PX, body.PY
			body.VX, body.VY = 0, 0
			continue
		}
		body.VX *= s.cfg.VelocityDecay
		body.VY *= s.cfg.VelocityDecay
		body.X += body.VX
		body.Y += body.VY
	}
}
