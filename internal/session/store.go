// Package session keeps wizard sessions in memory. Each session has its own
// lock, so every operation on one session runs alone while different
// sessions proceed in parallel.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quoteflow/internal/clock"
	"github.com/smallbiznis/quoteflow/internal/config"
	obsmetrics "github.com/smallbiznis/quoteflow/internal/observability/metrics"
	wizarddomain "github.com/smallbiznis/quoteflow/internal/wizard/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type entry struct {
	mu       sync.Mutex
	session  *wizarddomain.Session
	lastSeen atomic.Int64 // unix nanos
	removed  bool
}

type Params struct {
	fx.In

	Config  config.Config
	Clock   clock.Clock
	GenID   *snowflake.Node
	Log     *zap.Logger
	Metrics *obsmetrics.SchedulerMetrics `optional:"true"`
}

type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry

	ttl     time.Duration
	clock   clock.Clock
	genID   *snowflake.Node
	log     *zap.Logger
	metrics *obsmetrics.SchedulerMetrics
}

func NewStore(p Params) *Store {
	ttl := p.Config.Session.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		clock:   p.Clock,
		genID:   p.GenID,
		log:     log.Named("session.store"),
		metrics: p.Metrics,
	}
}

// NewNode returns the snowflake node used for session ids.
func NewNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

// Create stores the session built for a fresh id and returns that id.
func (s *Store) Create(build func(id string) *wizarddomain.Session) string {
	id := s.genID.Generate().String()
	e := &entry{session: build(id)}
	e.lastSeen.Store(s.clock.Now().UnixNano())

	s.mu.Lock()
	s.entries[id] = e
	n := len(s.entries)
	s.mu.Unlock()

	s.metrics.IncSessionsCreated()
	s.metrics.SetSessionsActive(n)
	return id
}

// Do runs fn with exclusive access to the session and marks it as seen.
// Expired or unknown ids yield ErrSessionNotFound.
func (s *Store) Do(id string, fn func(*wizarddomain.Session) error) error {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return wizarddomain.ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := s.clock.Now()
	if e.removed || s.expired(e, now) {
		return wizarddomain.ErrSessionNotFound
	}
	e.lastSeen.Store(now.UnixNano())
	return fn(e.session)
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	n := len(s.entries)
	s.mu.Unlock()

	if ok {
		e.mu.Lock()
		e.removed = true
		e.mu.Unlock()
		s.metrics.SetSessionsActive(n)
	}
	return ok
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep() int {
	now := s.clock.Now()

	s.mu.Lock()
	var removed []*entry
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
			removed = append(removed, e)
		}
	}
	n := len(s.entries)
	s.mu.Unlock()

	for _, e := range removed {
		e.mu.Lock()
		e.removed = true
		e.mu.Unlock()
	}

	s.metrics.AddSessionsExpired(len(removed))
	s.metrics.SetSessionsActive(n)
	if len(removed) > 0 {
		s.log.Debug("expired sessions removed", zap.Int("count", len(removed)), zap.Int("active", n))
	}
	return len(removed)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return now.Sub(time.Unix(0, e.lastSeen.Load())) > s.ttl
}

var Module = fx.Module("session",
	fx.Provide(NewNode),
	fx.Provide(NewStore),
)
