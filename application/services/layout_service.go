package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"mindgraph-backend/application/ports"
	"mindgraph-backend/domain/events"
	"mindgraph-backend/domain/graph"
	"mindgraph-backend/domain/layout"
	"mindgraph-backend/infrastructure/observability"
)

// FrameSink consumes per-tick position frames for a user's graph view
type FrameSink interface {
	SendFrame(userID string, frame []layout.Position) error
}

// LayoutManager owns at most one running simulation per user. A rebuild
// (note list change) always stops the previous simulation before a new one
// starts, so two simulations never write overlapping position state.
type LayoutManager struct {
	graphs       *GraphService
	sink         FrameSink
	cfg          layout.Config
	tickInterval time.Duration
	logger       *zap.Logger
	metrics      *observability.Collector

	mu       sync.Mutex
	sessions map[string]*LayoutSession
	seed     int64
}

// NewLayoutManager creates a layout manager
func NewLayoutManager(
	graphs *GraphService,
	sink FrameSink,
	cfg layout.Config,
	tickInterval time.Duration,
	metrics *observability.Collector,
	logger *zap.Logger,
) *LayoutManager {
	if tickInterval <= 0 {
		tickInterval = 33 * time.Millisecond
	}
	return &LayoutManager{
		graphs:       graphs,
		sink:         sink,
		cfg:          cfg,
		tickInterval: tickInterval,
		logger:       logger,
		metrics:      metrics,
		sessions:     make(map[string]*LayoutSession),
		seed:         time.Now().UnixNano(),
	}
}

// SetConfig swaps the simulation tuning used by future sessions
func (m *LayoutManager) SetConfig(cfg layout.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
}

// RegisterHandlers subscribes the manager to note change events so open
// graph views rebuild when the underlying collection changes.
func (m *LayoutManager) RegisterHandlers(subscriber ports.EventSubscriber) {
	rebuild := func(ctx context.Context, event events.DomainEvent) error {
		m.NotesChanged(ctx, event.UserID())
		return nil
	}
	subscriber.Subscribe(events.EventTypeNoteCreated, rebuild)
	subscriber.Subscribe(events.EventTypeNoteUpdated, rebuild)
	subscriber.Subscribe(events.EventTypeNoteDeleted, rebuild)
}

// StartSession builds the user's graph and starts streaming layout frames.
// Any previous session for the user is fully stopped first.
func (m *LayoutManager) StartSession(ctx context.Context, userID string) error {
	m.StopSession(userID)

	g, err := m.graphs.BuildGraph(ctx, userID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	displaced := m.sessions[userID]
	cfg := m.cfg
	m.seed++
	seed := m.seed
	session := newLayoutSession(userID, g, cfg, seed, m.tickInterval, m.sink, m.metrics, m.logger)
	m.sessions[userID] = session
	m.mu.Unlock()

	// A racing StartSession for the same user can insert between the stop
	// above and this insert. Whoever displaces a session from the map owns
	// stopping it, so exactly one loop survives.
	if displaced != nil {
		displaced.stop()
		m.metrics.ActiveSessions.Dec()
	}

	m.metrics.ActiveSessions.Inc()
	go session.run()

	m.logger.Info("Layout session started",
		zap.String("userID", userID),
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("edges", len(g.Edges)),
	)
	return nil
}

// StopSession stops the user's session, if any, and waits for its loop to
// exit. Safe to call when no session exists.
func (m *LayoutManager) StopSession(userID string) {
	m.mu.Lock()
	session, ok := m.sessions[userID]
	if ok {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	session.stop()
	m.metrics.ActiveSessions.Dec()
	m.logger.Info("Layout session stopped", zap.String("userID", userID))
}

// StopAll tears down every session; called on shutdown
func (m *LayoutManager) StopAll() {
	m.mu.Lock()
	sessions := make([]*LayoutSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*LayoutSession)
	m.mu.Unlock()

	for _, s := range sessions {
		s.stop()
		m.metrics.ActiveSessions.Dec()
	}
}

// NotesChanged rebuilds the graph for the user's open session, if one
// exists. The new simulation replaces the old inside the session loop, so
// the swap itself never races a tick.
func (m *LayoutManager) NotesChanged(ctx context.Context, userID string) {
	m.mu.Lock()
	session, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return
	}

	g, err := m.graphs.BuildGraph(ctx, userID)
	if err != nil {
		m.logger.Error("Graph rebuild failed", zap.String("userID", userID), zap.Error(err))
		return
	}

	m.mu.Lock()
	m.seed++
	seed := m.seed
	m.mu.Unlock()

	session.submit(sessionCommand{kind: cmdRebuild, graph: g, seed: seed})
}

// PinNode fixes a node at the pointer position for the user's session
func (m *LayoutManager) PinNode(userID, nodeID string, x, y float64) {
	m.submit(userID, sessionCommand{kind: cmdPin, nodeID: nodeID, x: x, y: y})
}

// DragNode moves an already pinned node
func (m *LayoutManager) DragNode(userID, nodeID string, x, y float64) {
	m.submit(userID, sessionCommand{kind: cmdDrag, nodeID: nodeID, x: x, y: y})
}

// ReleaseNode clears a node's pin and lets the layout settle again
func (m *LayoutManager) ReleaseNode(userID, nodeID string) {
	m.submit(userID, sessionCommand{kind: cmdRelease, nodeID: nodeID})
}

func (m *LayoutManager) submit(userID string, cmd sessionCommand) {
	m.mu.Lock()
	session, ok := m.sessions[userID]
	m.mu.Unlock()
	if ok {
		session.submit(cmd)
	}
}

type cmdKind int

const (
	cmdPin cmdKind = iota
	cmdDrag
	cmdRelease
	cmdRebuild
)

type sessionCommand struct {
	kind   cmdKind
	nodeID string
	x, y   float64
	graph  *graph.Graph
	seed   int64
}

// LayoutSession drives one simulation from a single goroutine. All
// interactive mutations arrive as commands, so the simulation itself
// needs no locking.
type LayoutSession struct {
	userID       string
	sim          *layout.Simulation
	cfg          layout.Config
	tickInterval time.Duration
	sink         FrameSink
	metrics      *observability.Collector
	logger       *zap.Logger

	cmds   chan sessionCommand
	stopCh chan struct{}
	done   chan struct{}
}

func newLayoutSession(
	userID string,
	g *graph.Graph,
	cfg layout.Config,
	seed int64,
	tickInterval time.Duration,
	sink FrameSink,
	metrics *observability.Collector,
	logger *zap.Logger,
) *LayoutSession {
	session := &LayoutSession{
		userID:       userID,
		cfg:          cfg,
		tickInterval: tickInterval,
		sink:         sink,
		metrics:      metrics,
		logger:       logger,
		cmds:         make(chan sessionCommand, 64),
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
	}

	// An empty graph never starts a simulation; the session idles until a
	// rebuild brings nodes.
	if sim := layout.New(g, cfg, seed); sim != nil {
		sim.Start()
		session.sim = sim
	}
	return session
}

// submit queues a command; a full queue drops the command rather than
// blocking the caller (drag streams are lossy by nature).
func (s *LayoutSession) submit(cmd sessionCommand) {
	select {
	case s.cmds <- cmd:
	default:
		s.logger.Debug("Session command dropped", zap.String("userID", s.userID))
	}
}

// stop signals the loop and waits for it to exit
func (s *LayoutSession) stop() {
	close(s.stopCh)
	<-s.done
}

// run is the session's tick loop. It exits only via stop, and always
// releases its ticker on the way out.
func (s *LayoutSession) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return

		case cmd := <-s.cmds:
			s.apply(cmd)

		case <-ticker.C:
			if s.sim == nil || s.sim.State() != layout.StateRunning {
				continue
			}
			settled := !s.sim.Tick()
			s.metrics.SimulationTicks.Inc()
			s.sendFrame()
			if settled {
				s.logger.Debug("Simulation settled", zap.String("userID", s.userID))
			}
		}
	}
}

func (s *LayoutSession) apply(cmd sessionCommand) {
	switch cmd.kind {
	case cmdRebuild:
		// Replace the simulation wholesale; the old one stops existing the
		// moment this goroutine stops ticking it.
		s.sim = nil
		if sim := layout.New(cmd.graph, s.cfg, cmd.seed); sim != nil {
			sim.Start()
			s.sim = sim
			s.sendFrame()
		}
	case cmdPin:
		if s.sim != nil {
			s.sim.Pin(cmd.nodeID, cmd.x, cmd.y)
			s.sim.Reheat()
		}
	case cmdDrag:
		if s.sim != nil {
			s.sim.Drag(cmd.nodeID, cmd.x, cmd.y)
		}
	case cmdRelease:
		if s.sim != nil {
			s.sim.Release(cmd.nodeID)
		}
	}
}

func (s *LayoutSession) sendFrame() {
	if s.sim == nil {
		return
	}
	if err := s.sink.SendFrame(s.userID, s.sim.Positions()); err != nil {
		s.logger.Debug("Frame delivery failed",
			zap.String("userID", s.userID),
			zap.Error(err),
		)
	}
}
