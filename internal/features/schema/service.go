package schema

import (
	"context"
	"sync"
	"time"

	common_models "go-reports/internal/common/models"
	"go-reports/internal/connectors"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// SchemaService is the schema registry: it resolves the selectable columns
// and their data types for a chosen source, caching results per source.
type SchemaService interface {
	GetColumns(ctx context.Context, src connectors.Source) ([]common_models.ColumnDescriptor, error)
	ListTables(ctx context.Context) ([]connectors.RelationalSource, error)
	Invalidate(src connectors.Source)
	RecentSources() []connectors.Source
	RefreshRecent(ctx context.Context)
}

type SchemaServiceImpl struct {
	registry *connectors.Registry
	cache    *gocache.Cache
	logger   *zap.Logger

	mu     sync.Mutex
	recent map[string]connectors.Source // sources resolved within the cache window
}

func NewSchemaService(registry *connectors.Registry, logger *zap.Logger, ttl time.Duration) SchemaService {
	return &SchemaServiceImpl{
		registry: registry,
		cache:    gocache.New(ttl, 2*ttl),
		logger:   logger,
		recent:   make(map[string]connectors.Source),
	}
}

// GetColumns resolves the column descriptors for the source, serving from
// cache when fresh. Incomplete selections and provider failures surface as
// ErrSchemaUnavailable; callers render an empty column list and carry on.
func (s *SchemaServiceImpl) GetColumns(ctx context.Context, src connectors.Source) ([]common_models.ColumnDescriptor, error) {
	if !src.Complete() {
		return nil, connectors.ErrSchemaUnavailable
	}

	key := src.CacheKey()
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]common_models.ColumnDescriptor), nil
	}

	conn, err := s.registry.ForSource(src)
	if err != nil {
		return nil, err
	}

	columns, err := conn.GetSchema(ctx, src)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(key, columns)
	s.mu.Lock()
	s.recent[key] = src
	s.mu.Unlock()

	return columns, nil
}

// ListTables enumerates the selectable tables across providers that support
// listing. A provider without a catalog (the BI service) contributes nothing.
func (s *SchemaServiceImpl) ListTables(ctx context.Context) ([]connectors.RelationalSource, error) {
	var tables []connectors.RelationalSource
	listed := false
	for _, conn := range s.registry.All() {
		lister, ok := conn.(connectors.TableLister)
		if !ok {
			continue
		}
		listed = true
		found, err := lister.ListTables(ctx)
		if err != nil {
			return nil, err
		}
		tables = append(tables, found...)
	}
	if !listed {
		return nil, connectors.ErrSchemaUnavailable
	}
	return tables, nil
}

// Invalidate drops the cached schema for one source
func (s *SchemaServiceImpl) Invalidate(src connectors.Source) {
	s.cache.Delete(src.CacheKey())
}

// RecentSources lists the sources resolved since startup
func (s *SchemaServiceImpl) RecentSources() []connectors.Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	sources := make([]connectors.Source, 0, len(s.recent))
	for _, src := range s.recent {
		sources = append(sources, src)
	}
	return sources
}

// RefreshRecent re-resolves every recently used source so interactive
// requests keep hitting a warm cache. Failures only log; the stale entry
// stays until its TTL expires.
func (s *SchemaServiceImpl) RefreshRecent(ctx context.Context) {
	for _, src := range s.RecentSources() {
		conn, err := s.registry.ForSource(src)
		if err != nil {
			continue
		}
		columns, err := conn.GetSchema(ctx, src)
		if err != nil {
			s.logger.Warn("schema refresh failed",
				zap.String("source", src.CacheKey()),
				zap.Error(err))
			continue
		}
		s.cache.SetDefault(src.CacheKey(), columns)
	}
}
