// Package service owns the catalog's resource stores and exposes them to
// the HTTP layer.
package service

import (
	"context"
	"sync"

	"github.com/okian/catalog/internal/adapters/repository"
	"github.com/okian/catalog/internal/domain/model"
	"github.com/okian/catalog/pkg/logger"
)

// Service holds one store per resource collection.
type Service struct {
	mu sync.RWMutex

	teamKind      model.Kind[model.Team]
	laserDiscKind model.Kind[model.LaserDisc]

	teams      *repository.MemoryStore[model.Team]
	laserDiscs *repository.MemoryStore[model.LaserDisc]

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithTeamSeed replaces the records the teams collection starts with.
func WithTeamSeed(teams ...model.Team) Option {
	return func(s *Service) {
		s.teamKind.Seed = teams
	}
}

// WithLaserDiscSeed replaces the records the laser disc collection starts with.
func WithLaserDiscSeed(discs ...model.LaserDisc) Option {
	return func(s *Service) {
		s.laserDiscKind.Seed = discs
	}
}

// New constructs a Service with the default seeds.
func New(opts ...Option) *Service {
	s := &Service{
		teamKind:      model.TeamKind(),
		laserDiscKind: model.LaserDiscKind(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates the stores from their seeds. Calling Start on a running
// service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.teams = repository.NewMemoryStore(s.teamKind.Name, repository.WithSeed(s.teamKind.Seed...))
	s.laserDiscs = repository.NewMemoryStore(s.laserDiscKind.Name, repository.WithSeed(s.laserDiscKind.Seed...))

	s.started = true
	s.logger.Info(ctx, "catalog service started",
		logger.Int(s.teamKind.Name, s.teams.Count(ctx)),
		logger.Int(s.laserDiscKind.Name, s.laserDiscs.Count(ctx)),
	)
	return nil
}

// Stop marks the service stopped. Records live only in memory and are
// discarded on the next Start.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "catalog service stopped")
}

// TeamKind returns the teams collection descriptor.
func (s *Service) TeamKind() model.Kind[model.Team] { return s.teamKind }

// LaserDiscKind returns the laser disc collection descriptor.
func (s *Service) LaserDiscKind() model.Kind[model.LaserDisc] { return s.laserDiscKind }

// Teams returns the teams store. It is nil until Start.
func (s *Service) Teams() *repository.MemoryStore[model.Team] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.teams
}

// LaserDiscs returns the laser disc store. It is nil until Start.
func (s *Service) LaserDiscs() *repository.MemoryStore[model.LaserDisc] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.laserDiscs
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
	}
	if s.started {
		ctx := context.Background()
		stats["records"] = map[string]int{
			s.teams.Kind():      s.teams.Count(ctx),
			s.laserDiscs.Kind(): s.laserDiscs.Count(ctx),
		}
	}
	return stats
}
