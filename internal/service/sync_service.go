package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tasksync/internal/model"
	"tasksync/internal/store"
)

// SnapshotCache is the disk-cache contract the sync service depends on.
type SnapshotCache interface {
	Read(ctx context.Context, userID string) (*model.CacheEnvelope, error)
	Write(ctx context.Context, userID string, workspaces []model.Workspace) error
	Invalidate(ctx context.Context, userID string) error
}

// FetchGateway is the read side of the remote service.
type FetchGateway interface {
	FetchUserWorkspaces(ctx context.Context, userID string) ([]model.Workspace, error)
	GetUserSubscribedBlueprints(ctx context.Context) ([]model.BlueprintSummary, error)
}

// SyncService loads the workspace tree from cache or remote and owns
// the store's lifecycle across login and logout.
type SyncService struct {
	store   *store.Store
	cache   SnapshotCache
	gateway FetchGateway
	recency *store.RecencyTracker
	userID  string
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

func NewSyncService(st *store.Store, cache SnapshotCache, gateway FetchGateway, recency *store.RecencyTracker, userID string, ttl time.Duration, logger *slog.Logger) *SyncService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncService{
		store:   st,
		cache:   cache,
		gateway: gateway,
		recency: recency,
		userID:  userID,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger.With("component", "sync"),
	}
}

// Load populates the store, preferring a fresh cache envelope unless
// force is set. Cache failures degrade to a remote fetch; a cache write
// failure after a successful fetch is logged and ignored, since the
// remote fetch is the fallback of record.
func (s *SyncService) Load(ctx context.Context, force bool) error {
	if !force {
		envelope, err := s.cache.Read(ctx, s.userID)
		if err != nil {
			s.logger.Warn("read cache", "error", err)
		} else if envelope != nil && s.now().Sub(envelope.Timestamp) < s.ttl {
			s.store.Replace(envelope.Data)
			return nil
		}
	}

	workspaces, err := s.gateway.FetchUserWorkspaces(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("fetch workspaces: %w", err)
	}

	blueprints, err := s.gateway.GetUserSubscribedBlueprints(ctx)
	if err != nil {
		// Blueprints are an additive read-only overlay; losing them for
		// one load is not worth failing the whole refresh.
		s.logger.Warn("fetch blueprints", "error", err)
	}
	for _, bp := range blueprints {
		workspaces = append(workspaces, model.Workspace{Name: bp.Name, IsBlueprint: true})
	}

	s.store.Replace(workspaces)

	if err := s.cache.Write(ctx, s.userID, workspaces); err != nil {
		s.logger.Warn("write cache", "error", err)
	}
	return nil
}

// Refresh is Load with force set, for scheduler wiring.
func (s *SyncService) Refresh(ctx context.Context) error {
	return s.Load(ctx, true)
}

// Dispose tears the session down on logout or user switch: the in-memory
// tree, the selection, the recency list, and the cache row all go.
func (s *SyncService) Dispose(ctx context.Context) error {
	s.store.Clear()
	if s.recency != nil {
		if err := s.recency.Clear(ctx); err != nil {
			s.logger.Warn("clear recency", "error", err)
		}
	}
	if err := s.cache.Invalidate(ctx, s.userID); err != nil {
		return fmt.Errorf("invalidate cache: %w", err)
	}
	return nil
}
