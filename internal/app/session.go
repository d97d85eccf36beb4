package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/marisimondelossantos-spec/petshop/internal/events"
	"github.com/marisimondelossantos-spec/petshop/internal/store"
	"github.com/marisimondelossantos-spec/petshop/pkg/config"
	"github.com/marisimondelossantos-spec/petshop/pkg/logger"
)

const sweepInterval = time.Minute

// Registry hands out one App per session id, each scoped to its own slice
// of the shared keyspace. Concurrent first requests for the same session
// collapse into a single build, and idle sessions are swept out after the
// configured TTL.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session

	cfg     *config.Config
	base    store.KV
	clock   clock.Clock
	log     *logger.Logger
	forward func(events.Event)

	group singleflight.Group
	ttl   time.Duration
	done  chan struct{}
	wg    sync.WaitGroup
}

type session struct {
	app      *App
	lastSeen time.Time
}

type RegistryDeps struct {
	Config  *config.Config
	KV      store.KV
	Clock   clock.Clock
	Logger  *logger.Logger
	Forward func(events.Event)
}

func NewRegistry(deps RegistryDeps) *Registry {
	cfg := deps.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.KV == nil {
		deps.KV = store.NewMemoryKV()
	}
	r := &Registry{
		sessions: make(map[string]*session),
		cfg:      cfg,
		base:     deps.KV,
		clock:    deps.Clock,
		log:      deps.Logger,
		forward:  deps.Forward,
		ttl:      cfg.SessionTTL,
		done:     make(chan struct{}),
	}
	if r.ttl > 0 {
		r.wg.Add(1)
		go r.sweepLoop()
	}
	return r
}

// Get returns the App for the given session, building it on first use.
func (r *Registry) Get(ctx context.Context, sessionID string) (*App, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("empty session id")
	}

	r.mu.Lock()
	if s, ok := r.sessions[sessionID]; ok {
		s.lastSeen = r.clock.Now()
		r.mu.Unlock()
		return s.app, nil
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do(sessionID, func() (any, error) {
		kv := store.NewNamespaced(r.base, "sess:"+sessionID+":")
		a, err := New(ctx, Deps{
			Config:  r.cfg,
			KV:      kv,
			Clock:   r.clock,
			Logger:  r.log.With(zap.String("session_id", sessionID)),
			Forward: r.forward,
		})
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.sessions[sessionID] = &session{app: a, lastSeen: r.clock.Now()}
		r.mu.Unlock()
		return a, nil
	})
	if err != nil {
		return nil, fmt.Errorf("build session %s: %w", sessionID, err)
	}
	return v.(*App), nil
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close stops the sweeper. Session state stays in the backing KV.
func (r *Registry) Close() {
	close(r.done)
	r.wg.Wait()
}

func (r *Registry) sweepLoop() {
	defer r.wg.Done()
	ticker := r.clock.Ticker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *Registry) sweep() {
	now := r.clock.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.ttl {
			delete(r.sessions, id)
			r.log.Debug("session expired", zap.String("session_id", id))
		}
	}
}
